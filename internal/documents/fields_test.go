package documents

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/khryztiam/loans-app/internal/assignments"
	"github.com/khryztiam/loans-app/internal/users"
)

var testNow = time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC)

func sampleAssignment() assignments.AssignmentResponse {
	return assignments.AssignmentResponse{
		AssignmentID:    7,
		AssignmentULID:  "01TESTULID0000000000000007",
		SAPID:           "12345678",
		Modelo:          "LATITUDE 5420",
		Serie:           "ABC-001",
		Accesorios:      []string{"CARGADOR", "MOCHILA"},
		Localidad:       "Santa Ana",
		FechaAsignacion: "2026-08-20",
		Usuario: &users.UserResponse{
			SAPID:        "12345678",
			Nombre:       "Ana María Morales",
			Puesto:       "Analista",
			Departamento: "Sistemas",
		},
	}
}

func TestBuildFields(t *testing.T) {
	a := sampleAssignment()
	f, err := BuildFields(&a, testNow)
	require.NoError(t, err)

	require.Equal(t, "WS-ABC-001", f.AssetTag)
	require.Equal(t, "CARGADOR, MOCHILA", f.Accesorios)
	require.Equal(t, "20/08/2026", f.FechaAsignacion, "printed dates are dd/mm/yyyy")
	require.Equal(t, "27/08/2026", f.PrintDate)
	require.Equal(t, "Ana María Morales", f.Nombre)
	require.Equal(t, "Sistemas", f.Departamento)
}

func TestBuildFieldsIsDeterministic(t *testing.T) {
	a := sampleAssignment()
	f1, err := BuildFields(&a, testNow)
	require.NoError(t, err)
	f2, err := BuildFields(&a, testNow)
	require.NoError(t, err)
	require.Equal(t, f1, f2)
}

func TestBuildFieldsRequiresEmployee(t *testing.T) {
	a := sampleAssignment()
	a.Usuario = nil

	_, err := BuildFields(&a, testNow)
	var api *APIError
	require.ErrorAs(t, err, &api)
	require.Equal(t, CodeNotFound, api.Code)
}

func TestRenderPDFProducesDocument(t *testing.T) {
	a := sampleAssignment()
	f, err := BuildFields(&a, testNow)
	require.NoError(t, err)

	pdf, err := RenderPDF(f)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestRenderPreviewCarriesTheSameFields(t *testing.T) {
	a := sampleAssignment()
	f, err := BuildFields(&a, testNow)
	require.NoError(t, err)

	html, err := RenderPreview(f)
	require.NoError(t, err)

	for _, want := range []string{
		f.Nombre, f.AssetTag, f.Serie, f.Modelo, f.Accesorios,
		f.FechaAsignacion, f.PrintDate, f.Localidad, f.Departamento,
	} {
		require.Contains(t, string(html), want)
	}
}

// -------------- service over a fake source --------------

type fakeSource struct {
	rows map[uint64]assignments.AssignmentResponse
}

func (s *fakeSource) Get(_ context.Context, id uint64) (assignments.AssignmentResponse, error) {
	a, ok := s.rows[id]
	if !ok {
		return assignments.AssignmentResponse{}, assignments.ErrNotFound(fmt.Sprintf("assignment %d not found", id))
	}
	return a, nil
}

func newTestService(rows ...assignments.AssignmentResponse) *Service {
	src := &fakeSource{rows: map[uint64]assignments.AssignmentResponse{}}
	for _, a := range rows {
		src.rows[a.AssignmentID] = a
	}
	return &Service{src: src, clock: fakeClock{}}
}

type fakeClock struct{}

func (fakeClock) Now() time.Time { return testNow }

func TestActaFilename(t *testing.T) {
	a := sampleAssignment()
	_, name, err := newTestService(a).RenderActa(&a)
	require.NoError(t, err)
	require.Equal(t, "Asignacion_7_Ana_María_Morales.pdf", name)
}

func TestActaPDFUnknownAssignment(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.ActaPDF(context.Background(), 99)
	var api *APIError
	require.ErrorAs(t, err, &api)
	require.Equal(t, CodeNotFound, api.Code)
}

func TestActaPreviewMatchesPDFPath(t *testing.T) {
	a := sampleAssignment()
	svc := newTestService(a)

	pdf, _, err := svc.ActaPDF(context.Background(), a.AssignmentID)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)

	html, err := svc.ActaPreview(context.Background(), a.AssignmentID)
	require.NoError(t, err)
	require.Contains(t, string(html), "WS-ABC-001")
}
