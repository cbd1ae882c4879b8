package loans

import "time"

type CreateLoanRequest struct {
	SAPID        string `json:"sapid" binding:"required"`
	DiasPrestamo int    `json:"dias_prestamo" binding:"required"`
	TipoEquipo   string `json:"tipo_equipo" binding:"required"`
	Serie        string `json:"serie" binding:"required"`
}

// CloseLoanRequest identifies the person executing the return; the loan
// itself is selected by the URL.
type CloseLoanRequest struct {
	SAPID string `json:"sapid" binding:"required"`
}

type LoanResponse struct {
	LoanID         uint64     `json:"loan_id"`
	LoanULID       string     `json:"loan_ulid"`
	SAPID          string     `json:"sapid"`
	NombreRecibe   string     `json:"nombre_recibe"`
	TipoEquipo     string     `json:"tipo_equipo"`
	Serie          string     `json:"serie"`
	DiasPrestamo   int        `json:"dias_prestamo"`
	CreatedAt      time.Time  `json:"created_at"`
	SAPIDRecepcion *string    `json:"sapid_recepcion,omitempty"`
	NombreEntrega  *string    `json:"nombre_entrega,omitempty"`
	ReceivedAt     *time.Time `json:"received_at,omitempty"`
	Open           bool       `json:"open"`
}

type LoanFilter struct {
	Open  *bool
	SAPID string
}

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" | "desc" on created_at
}

func buildLoanResponse(l *Loan) LoanResponse {
	resp := LoanResponse{
		LoanID:       l.LoanID,
		LoanULID:     l.LoanULID,
		SAPID:        l.SAPID,
		NombreRecibe: l.NombreRecibe,
		TipoEquipo:   l.TipoEquipo,
		Serie:        l.Serie,
		DiasPrestamo: l.DiasPrestamo,
		CreatedAt:    l.CreatedAt,
		Open:         l.Open(),
	}
	if l.SAPIDRecepcion.Valid {
		v := l.SAPIDRecepcion.String
		resp.SAPIDRecepcion = &v
	}
	if l.NombreEntrega.Valid {
		v := l.NombreEntrega.String
		resp.NombreEntrega = &v
	}
	if l.ReceivedAt.Valid {
		v := l.ReceivedAt.Time
		resp.ReceivedAt = &v
	}
	return resp
}
