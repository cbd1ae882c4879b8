package loans

import (
	"database/sql"
	"time"
)

// Loan is one row of the loans table: a single physical hand-out of
// equipment. Open means received_at is NULL; a closed row is immutable.
type Loan struct {
	LoanID         uint64
	LoanULID       string
	SAPID          string // recipient
	NombreRecibe   string // denormalized at creation time
	TipoEquipo     string
	Serie          string
	DiasPrestamo   int
	CreatedAt      time.Time
	SAPIDRecepcion sql.NullString
	NombreEntrega  sql.NullString
	ReceivedAt     sql.NullTime
}

func (l *Loan) Open() bool { return !l.ReceivedAt.Valid }

// Fixed catalog of lendable equipment, as the hand-out form offers it.
var EquipmentTypes = []string{
	"Laptop",
	"Tablet",
	"Escáner",
	"Impresora",
	"Extension",
	"UPS",
}

func validEquipmentType(t string) bool {
	for _, v := range EquipmentTypes {
		if v == t {
			return true
		}
	}
	return false
}
