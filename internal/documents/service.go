package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/khryztiam/loans-app/internal/assignments"
)

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// AssignmentSource loads an assignment with its re-resolved employee.
// Implemented by the assignments service.
type AssignmentSource interface {
	Get(ctx context.Context, id uint64) (assignments.AssignmentResponse, error)
}

type Service struct {
	src   AssignmentSource
	clock Clock
}

func NewService(src AssignmentSource) *Service {
	return &Service{src: src, clock: realClock{}}
}

// ActaPDF regenerates the downloadable acta for an existing assignment
// (the re-request path after a partial failure, and the archival path).
func (s *Service) ActaPDF(ctx context.Context, id uint64) ([]byte, string, error) {
	a, err := s.src.Get(ctx, id)
	if err != nil {
		return nil, "", fromSource(err)
	}
	return s.RenderActa(&a)
}

// ActaPreview renders the in-page printable variant.
func (s *Service) ActaPreview(ctx context.Context, id uint64) ([]byte, error) {
	a, err := s.src.Get(ctx, id)
	if err != nil {
		return nil, fromSource(err)
	}
	f, err := BuildFields(&a, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return RenderPreview(f)
}

// RenderActa satisfies assignments.ActaRenderer so a fresh creation can
// stream its acta without a second fetch.
func (s *Service) RenderActa(a *assignments.AssignmentResponse) ([]byte, string, error) {
	f, err := BuildFields(a, s.clock.Now())
	if err != nil {
		return nil, "", err
	}
	pdf, err := RenderPDF(f)
	if err != nil {
		return nil, "", err
	}
	return pdf, actaFilename(a), nil
}

func actaFilename(a *assignments.AssignmentResponse) string {
	name := a.SAPID
	if a.Usuario != nil && a.Usuario.Nombre != "" {
		name = strings.ReplaceAll(a.Usuario.Nombre, " ", "_")
	}
	return fmt.Sprintf("Asignacion_%d_%s.pdf", a.AssignmentID, name)
}
