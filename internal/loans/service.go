package loans

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

// -------------- Clock & ID --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// -------------- Collaborators --------------

// Directory resolves a SAP ID to a registered employee. Implemented by
// the users service.
type Directory interface {
	Resolve(ctx context.Context, sapid string) (*users.User, error)
}

// Notifier publishes loan change events to the dashboard feed.
type Notifier interface {
	LoanChanged(event string, id uint64)
}

type noopNotifier struct{}

func (noopNotifier) LoanChanged(string, uint64) {}

// -------------- Service --------------

type Service struct {
	store    Store
	dir      Directory
	notifier Notifier
	clock    Clock
	id       IDGen
}

func NewService(db *sql.DB, dir Directory, notifier Notifier) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{
		store:    NewStore(db),
		dir:      dir,
		notifier: notifier,
		clock:    realClock{},
		id:       ulidGen{},
	}
}

// CreateLoan registers a hand-out ("entrega"). The recipient must
// resolve to a registered user before anything is written.
func (s *Service) CreateLoan(ctx context.Context, req CreateLoanRequest) (LoanResponse, error) {
	if req.DiasPrestamo <= 0 {
		return LoanResponse{}, ErrInvalid("dias_prestamo must be > 0")
	}
	if !validEquipmentType(req.TipoEquipo) {
		return LoanResponse{}, ErrInvalid(fmt.Sprintf("tipo_equipo %q is not in the catalog", req.TipoEquipo))
	}
	serie := NormalizeSerial(req.Serie)
	if serie == "" {
		return LoanResponse{}, ErrInvalid("serie is required")
	}

	recipient, err := s.resolveIdentity(ctx, req.SAPID)
	if err != nil {
		return LoanResponse{}, err
	}

	now := s.clock.Now()
	l := &Loan{
		LoanULID:     s.id.NewULID(now),
		SAPID:        recipient.SAPID,
		NombreRecibe: recipient.Nombre,
		TipoEquipo:   req.TipoEquipo,
		Serie:        serie,
		DiasPrestamo: req.DiasPrestamo,
		CreatedAt:    now,
	}

	if err := s.store.Insert(ctx, l); err != nil {
		return LoanResponse{}, err
	}

	s.notifier.LoanChanged("INSERT", l.LoanID)
	return buildLoanResponse(l), nil
}

// CloseLoan registers the reception of an open loan. Open -> Closed is
// the only transition; a second close is a conflict, never a rewrite.
func (s *Service) CloseLoan(ctx context.Context, id uint64, req CloseLoanRequest) (LoanResponse, error) {
	receiver, err := s.resolveIdentity(ctx, req.SAPID)
	if err != nil {
		return LoanResponse{}, err
	}

	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return LoanResponse{}, err
	}
	if l == nil {
		return LoanResponse{}, ErrNotFound(fmt.Sprintf("loan %d not found", id))
	}
	if !l.Open() {
		return LoanResponse{}, ErrConflict(fmt.Sprintf("loan %d is already closed", id))
	}

	now := s.clock.Now()
	affected, err := s.store.Close(ctx, id, now, receiver.SAPID, receiver.Nombre)
	if err != nil {
		return LoanResponse{}, err
	}
	if affected == 0 {
		// Raced with another close between the read and the update.
		return LoanResponse{}, ErrConflict(fmt.Sprintf("loan %d is already closed", id))
	}

	l.ReceivedAt = sql.NullTime{Time: now, Valid: true}
	l.SAPIDRecepcion = sql.NullString{String: receiver.SAPID, Valid: true}
	l.NombreEntrega = sql.NullString{String: receiver.Nombre, Valid: true}

	s.notifier.LoanChanged("UPDATE", l.LoanID)
	return buildLoanResponse(l), nil
}

func (s *Service) GetLoan(ctx context.Context, id uint64) (LoanResponse, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return LoanResponse{}, err
	}
	if l == nil {
		return LoanResponse{}, ErrNotFound(fmt.Sprintf("loan %d not found", id))
	}
	return buildLoanResponse(l), nil
}

func (s *Service) ListLoans(ctx context.Context, f LoanFilter, p Page) ([]LoanResponse, error) {
	rows, err := s.store.List(ctx, f, p)
	if err != nil {
		return nil, err
	}
	out := make([]LoanResponse, 0, len(rows))
	for i := range rows {
		out = append(out, buildLoanResponse(&rows[i]))
	}
	return out, nil
}

// Aging aggregates the currently open loans into the dashboard buckets.
func (s *Service) Aging(ctx context.Context) (AgingSummary, error) {
	open := true
	rows, err := s.store.List(ctx, LoanFilter{Open: &open}, Page{Limit: 10000})
	if err != nil {
		return AgingSummary{}, err
	}
	return ClassifyAging(rows, s.clock.Now()), nil
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

// NormalizeSerial folds full-width characters coming from barcode
// scanners and upper-cases the tag.
func NormalizeSerial(s string) string {
	return strings.ToUpper(strings.TrimSpace(width.Fold.String(s)))
}
