package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbpkg "github.com/khryztiam/loans-app/internal/platform/db"
)

// Store is what the service needs from persistence. The reconciliation
// strategies compose these primitives, so tests can run against a fake.
type Store interface {
	GetBySAPID(ctx context.Context, sapid string) (*User, error)
	ListSAPIDs(ctx context.Context) ([]string, error)
	UpsertBatch(ctx context.Context, rows []User) (int64, error)
	DeleteBySAPIDs(ctx context.Context, sapids []string) (int64, error)
}

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) GetBySAPID(ctx context.Context, sapid string) (*User, error) {
	const q = `
SELECT sapid, nombre, descripcion, grupo, puesto, supervisor
FROM users
WHERE sapid = ?
LIMIT 1
`
	var u User
	err := s.db.QueryRowContext(ctx, q, sapid).Scan(
		&u.SAPID,
		&u.Nombre,
		&u.Descripcion,
		&u.Grupo,
		&u.Puesto,
		&u.Supervisor,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *sqlStore) ListSAPIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sapid FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const upsertChunkSize = 500

// UpsertBatch merges rows by sapid in chunks inside one transaction.
func (s *sqlStore) UpsertBatch(ctx context.Context, rows []User) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var affected int64
	err := dbpkg.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx dbpkg.DBTX) error {
		for start := 0; start < len(rows); start += upsertChunkSize {
			end := start + upsertChunkSize
			if end > len(rows) {
				end = len(rows)
			}
			n, err := upsertChunk(ctx, tx, rows[start:end])
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func upsertChunk(ctx context.Context, tx dbpkg.DBTX, rows []User) (int64, error) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO users (sapid, nombre, descripcion, grupo, puesto, supervisor) VALUES `)

	args := make([]any, 0, len(rows)*6)
	for i, r := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?)")
		args = append(args, r.SAPID, r.Nombre, r.Descripcion, r.Grupo, r.Puesto, r.Supervisor)
	}
	sb.WriteString(` ON DUPLICATE KEY UPDATE
nombre = VALUES(nombre),
descripcion = VALUES(descripcion),
grupo = VALUES(grupo),
puesto = VALUES(puesto),
supervisor = VALUES(supervisor)`)

	res, err := tx.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *sqlStore) DeleteBySAPIDs(ctx context.Context, sapids []string) (int64, error) {
	if len(sapids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(sapids)), ", ")
	q := `DELETE FROM users WHERE sapid IN (` + placeholders + `)`

	args := make([]any, len(sapids))
	for i, id := range sapids {
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
