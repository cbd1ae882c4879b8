package assignments

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	ulid "github.com/oklog/ulid/v2"
	"golang.org/x/text/width"

	"github.com/khryztiam/loans-app/internal/users"
)

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Directory resolves a SAP ID to a registered employee.
type Directory interface {
	Resolve(ctx context.Context, sapid string) (*users.User, error)
}

type Service struct {
	store Store
	dir   Directory
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB, dir Directory) *Service {
	return &Service{
		store: NewStore(db),
		dir:   dir,
		clock: realClock{},
		id:    ulidGen{},
	}
}

// Create validates and persists a new permanent assignment. The employee
// must resolve before anything is written; document generation is the
// caller's follow-up step and never blocks persistence.
func (s *Service) Create(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error) {
	if strings.TrimSpace(req.Modelo) == "" {
		return AssignmentResponse{}, ErrInvalid("modelo is required")
	}
	serie := normalizeSerial(req.Serie)
	if serie == "" {
		return AssignmentResponse{}, ErrInvalid("serie is required")
	}
	if !validLocation(req.Localidad) {
		return AssignmentResponse{}, ErrInvalid(fmt.Sprintf("localidad %q is not in the catalog", req.Localidad))
	}
	if bad := invalidAccessories(req.Accesorios); len(bad) > 0 {
		return AssignmentResponse{}, ErrInvalid(fmt.Sprintf("accesorios not in catalog: %s", strings.Join(bad, ", ")))
	}

	employee, err := s.resolveIdentity(ctx, req.SAPID)
	if err != nil {
		return AssignmentResponse{}, err
	}

	now := s.clock.Now()
	fecha, err := s.assignmentDate(req.FechaAsignacion, now)
	if err != nil {
		return AssignmentResponse{}, err
	}

	a := &Assignment{
		AssignmentULID:  s.id.NewULID(now),
		SAPID:           employee.SAPID,
		Modelo:          strings.TrimSpace(req.Modelo),
		Serie:           serie,
		Accesorios:      req.Accesorios,
		Localidad:       req.Localidad,
		FechaAsignacion: fecha,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Insert(ctx, a); err != nil {
		return AssignmentResponse{}, err
	}

	proj := projection(employee)
	return buildAssignmentResponse(a, proj), nil
}

// Update overwrites the editable fields of an existing assignment. The
// employee identity stays whatever it was at creation.
func (s *Service) Update(ctx context.Context, id uint64, req UpdateAssignmentRequest) (AssignmentResponse, error) {
	if strings.TrimSpace(req.Modelo) == "" {
		return AssignmentResponse{}, ErrInvalid("modelo is required")
	}
	serie := normalizeSerial(req.Serie)
	if serie == "" {
		return AssignmentResponse{}, ErrInvalid("serie is required")
	}
	if !validLocation(req.Localidad) {
		return AssignmentResponse{}, ErrInvalid(fmt.Sprintf("localidad %q is not in the catalog", req.Localidad))
	}
	if bad := invalidAccessories(req.Accesorios); len(bad) > 0 {
		return AssignmentResponse{}, ErrInvalid(fmt.Sprintf("accesorios not in catalog: %s", strings.Join(bad, ", ")))
	}

	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return AssignmentResponse{}, err
	}
	if a == nil {
		return AssignmentResponse{}, ErrNotFound(fmt.Sprintf("assignment %d not found", id))
	}

	now := s.clock.Now()
	fecha := a.FechaAsignacion
	if req.FechaAsignacion != nil {
		fecha, err = s.assignmentDate(req.FechaAsignacion, now)
		if err != nil {
			return AssignmentResponse{}, err
		}
	}

	a.Modelo = strings.TrimSpace(req.Modelo)
	a.Serie = serie
	a.Accesorios = req.Accesorios
	a.Localidad = req.Localidad
	a.FechaAsignacion = fecha
	a.UpdatedAt = now

	affected, err := s.store.UpdateByID(ctx, a)
	if err != nil {
		return AssignmentResponse{}, err
	}
	if affected == 0 {
		return AssignmentResponse{}, ErrNotFound(fmt.Sprintf("assignment %d not found", id))
	}

	return buildAssignmentResponse(a, s.lookupProjection(ctx, a.SAPID)), nil
}

func (s *Service) Get(ctx context.Context, id uint64) (AssignmentResponse, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return AssignmentResponse{}, err
	}
	if a == nil {
		return AssignmentResponse{}, ErrNotFound(fmt.Sprintf("assignment %d not found", id))
	}
	return buildAssignmentResponse(a, s.lookupProjection(ctx, a.SAPID)), nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]AssignmentResponse, error) {
	rows, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]AssignmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, buildAssignmentResponse(&rows[i], s.lookupProjection(ctx, rows[i].SAPID)))
	}
	return out, nil
}

func (s *Service) resolveIdentity(ctx context.Context, sapid string) (*users.User, error) {
	u, err := s.dir.Resolve(ctx, sapid)
	if err != nil {
		var api *users.APIError
		if errors.As(err, &api) {
			switch api.Code {
			case users.CodeInvalidArgument:
				return nil, ErrInvalid(api.Message)
			case users.CodeNotFound:
				return nil, ErrUnprocessable(fmt.Sprintf("sapid %s is not a registered user", sapid))
			}
		}
		return nil, err
	}
	return u, nil
}

// lookupProjection re-resolves the employee for display. A directory
// miss is tolerated here: the assignment row outlives imports.
func (s *Service) lookupProjection(ctx context.Context, sapid string) *users.UserResponse {
	u, err := s.dir.Resolve(ctx, sapid)
	if err != nil || u == nil {
		return nil
	}
	return projection(u)
}

func projection(u *users.User) *users.UserResponse {
	return &users.UserResponse{
		SAPID:        u.SAPID,
		Nombre:       u.Nombre,
		Puesto:       u.Puesto,
		Departamento: u.Descripcion,
	}
}

func (s *Service) assignmentDate(raw *string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw == nil || *raw == "" {
		return today, nil
	}
	d, err := time.ParseInLocation(DateLayout, *raw, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalid("fecha_asignacion must be YYYY-MM-DD")
	}
	if d.After(today) {
		return time.Time{}, ErrInvalid("fecha_asignacion must not be in the future")
	}
	return d, nil
}

func normalizeSerial(s string) string {
	return strings.ToUpper(strings.TrimSpace(width.Fold.String(s)))
}
