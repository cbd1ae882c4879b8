package loans

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Insert(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	List(ctx context.Context, f LoanFilter, p Page) ([]Loan, error)
	// Close stamps the reception fields on an open loan. Returns the
	// number of rows affected; 0 means the loan was already closed.
	Close(ctx context.Context, id uint64, receivedAt time.Time, sapid, nombre string) (int64, error)
}

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

const loanColumns = `loan_id, loan_ulid, sapid_usuario, nombre_recibe, tipo_equipo, serie,
dias_prestamo, created_at, sapid_recepcion, nombre_entrega, received_at`

func (s *sqlStore) Insert(ctx context.Context, l *Loan) error {
	const q = `
INSERT INTO loans (loan_ulid, sapid_usuario, nombre_recibe, tipo_equipo, serie, dias_prestamo, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	res, err := s.db.ExecContext(ctx, q,
		l.LoanULID, l.SAPID, l.NombreRecibe, l.TipoEquipo, l.Serie, l.DiasPrestamo, l.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.LoanID = uint64(id)
	return nil
}

func (s *sqlStore) GetByID(ctx context.Context, id uint64) (*Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = ? LIMIT 1`

	var l Loan
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&l.LoanID, &l.LoanULID, &l.SAPID, &l.NombreRecibe, &l.TipoEquipo, &l.Serie,
		&l.DiasPrestamo, &l.CreatedAt, &l.SAPIDRecepcion, &l.NombreEntrega, &l.ReceivedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *sqlStore) List(ctx context.Context, f LoanFilter, p Page) ([]Loan, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + loanColumns + ` FROM loans`)

	var conds []string
	var args []any
	if f.Open != nil {
		if *f.Open {
			conds = append(conds, "received_at IS NULL")
		} else {
			conds = append(conds, "received_at IS NOT NULL")
		}
	}
	if f.SAPID != "" {
		conds = append(conds, "sapid_usuario = ?")
		args = append(args, f.SAPID)
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	if strings.EqualFold(p.Order, "asc") {
		sb.WriteString(" ORDER BY created_at ASC")
	} else {
		sb.WriteString(" ORDER BY created_at DESC")
	}
	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(
			&l.LoanID, &l.LoanULID, &l.SAPID, &l.NombreRecibe, &l.TipoEquipo, &l.Serie,
			&l.DiasPrestamo, &l.CreatedAt, &l.SAPIDRecepcion, &l.NombreEntrega, &l.ReceivedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *sqlStore) Close(ctx context.Context, id uint64, receivedAt time.Time, sapid, nombre string) (int64, error) {
	// The received_at IS NULL guard makes the open->closed transition
	// atomic: a second close affects zero rows.
	const q = `
UPDATE loans
SET received_at = ?, sapid_recepcion = ?, nombre_entrega = ?
WHERE loan_id = ? AND received_at IS NULL
`
	res, err := s.db.ExecContext(ctx, q, receivedAt, sapid, nombre, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
