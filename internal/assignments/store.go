package assignments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type Store interface {
	Insert(ctx context.Context, a *Assignment) error
	GetByID(ctx context.Context, id uint64) (*Assignment, error)
	// UpdateByID overwrites the editable fields in place; sapid is
	// never part of the SET list. Returns rows affected.
	UpdateByID(ctx context.Context, a *Assignment) (int64, error)
	List(ctx context.Context, limit, offset int) ([]Assignment, error)
}

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

const assignmentColumns = `assignment_id, assignment_ulid, sapid, modelo, serie, accesorios,
localidad, fecha_asignacion, created_at, updated_at`

func (s *sqlStore) Insert(ctx context.Context, a *Assignment) error {
	acc, err := json.Marshal(a.Accesorios)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO asignaciones_permanentes
	(assignment_ulid, sapid, modelo, serie, accesorios, localidad, fecha_asignacion, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	res, err := s.db.ExecContext(ctx, q,
		a.AssignmentULID, a.SAPID, a.Modelo, a.Serie, acc, a.Localidad,
		a.FechaAsignacion.Format(DateLayout), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.AssignmentID = uint64(id)
	return nil
}

func (s *sqlStore) GetByID(ctx context.Context, id uint64) (*Assignment, error) {
	q := `SELECT ` + assignmentColumns + ` FROM asignaciones_permanentes WHERE assignment_id = ? LIMIT 1`

	var a Assignment
	var acc []byte
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&a.AssignmentID, &a.AssignmentULID, &a.SAPID, &a.Modelo, &a.Serie, &acc,
		&a.Localidad, &a.FechaAsignacion, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(acc) > 0 {
		if err := json.Unmarshal(acc, &a.Accesorios); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

func (s *sqlStore) UpdateByID(ctx context.Context, a *Assignment) (int64, error) {
	acc, err := json.Marshal(a.Accesorios)
	if err != nil {
		return 0, err
	}

	const q = `
UPDATE asignaciones_permanentes
SET modelo = ?, serie = ?, accesorios = ?, localidad = ?, fecha_asignacion = ?, updated_at = ?
WHERE assignment_id = ?
`
	res, err := s.db.ExecContext(ctx, q,
		a.Modelo, a.Serie, acc, a.Localidad, a.FechaAsignacion.Format(DateLayout), a.UpdatedAt, a.AssignmentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqlStore) List(ctx context.Context, limit, offset int) ([]Assignment, error) {
	q := `SELECT ` + assignmentColumns + ` FROM asignaciones_permanentes ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		var acc []byte
		if err := rows.Scan(
			&a.AssignmentID, &a.AssignmentULID, &a.SAPID, &a.Modelo, &a.Serie, &acc,
			&a.Localidad, &a.FechaAsignacion, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(acc) > 0 {
			if err := json.Unmarshal(acc, &a.Accesorios); err != nil {
				return nil, err
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
