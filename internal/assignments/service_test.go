package assignments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/khryztiam/loans-app/internal/users"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fakeIDGen struct{ n int }

func (g *fakeIDGen) NewULID(time.Time) string {
	g.n++
	return fmt.Sprintf("01TESTULID%016d", g.n)
}

type fakeDirectory struct {
	users map[string]*users.User
}

func (d *fakeDirectory) Resolve(_ context.Context, sapid string) (*users.User, error) {
	if len(sapid) != 8 {
		return nil, users.ErrInvalid("sapid must be exactly 8 digits")
	}
	u, ok := d.users[sapid]
	if !ok {
		return nil, users.ErrNotFound(fmt.Sprintf("user %s not found", sapid))
	}
	return u, nil
}

type fakeStore struct {
	rows   map[uint64]*Assignment
	nextID uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[uint64]*Assignment{}, nextID: 1}
}

func (s *fakeStore) Insert(_ context.Context, a *Assignment) error {
	a.AssignmentID = s.nextID
	s.nextID++
	cp := *a
	s.rows[a.AssignmentID] = &cp
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uint64) (*Assignment, error) {
	a, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *fakeStore) UpdateByID(_ context.Context, a *Assignment) (int64, error) {
	if _, ok := s.rows[a.AssignmentID]; !ok {
		return 0, nil
	}
	cp := *a
	s.rows[a.AssignmentID] = &cp
	return 1, nil
}

func (s *fakeStore) List(_ context.Context, _, _ int) ([]Assignment, error) {
	var out []Assignment
	for _, a := range s.rows {
		out = append(out, *a)
	}
	return out, nil
}

var testNow = time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC)

func newTestService(store Store, dir Directory) *Service {
	return &Service{store: store, dir: dir, clock: fakeClock{now: testNow}, id: &fakeIDGen{}}
}

func knownUsers() *fakeDirectory {
	return &fakeDirectory{users: map[string]*users.User{
		"12345678": {SAPID: "12345678", Nombre: "Ana Morales", Descripcion: "Sistemas", Puesto: "Analista"},
	}}
}

func validCreate() CreateAssignmentRequest {
	return CreateAssignmentRequest{
		SAPID:      "12345678",
		Modelo:     "LATITUDE 5420",
		Serie:      " abc-001 ",
		Accesorios: []string{"CARGADOR", "MOCHILA"},
		Localidad:  "Santa Ana",
	}
}

func TestCreateAssignment(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, knownUsers())

	resp, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	require.Equal(t, "ABC-001", resp.Serie)
	require.Equal(t, testNow.Format(DateLayout), resp.FechaAsignacion, "defaults to today")
	require.NotNil(t, resp.Usuario)
	require.Equal(t, "Ana Morales", resp.Usuario.Nombre)
	require.Equal(t, "Sistemas", resp.Usuario.Departamento)
	require.Len(t, store.rows, 1)
}

func TestCreateAssignmentValidation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, knownUsers())

	future := testNow.AddDate(0, 0, 1).Format(DateLayout)
	badDate := "27/08/2026"

	cases := []struct {
		name   string
		mutate func(*CreateAssignmentRequest)
		code   Code
	}{
		{"blank modelo", func(r *CreateAssignmentRequest) { r.Modelo = "  " }, CodeInvalidArgument},
		{"blank serie", func(r *CreateAssignmentRequest) { r.Serie = "" }, CodeInvalidArgument},
		{"unknown localidad", func(r *CreateAssignmentRequest) { r.Localidad = "Tijuana" }, CodeInvalidArgument},
		{"unknown accessory", func(r *CreateAssignmentRequest) { r.Accesorios = []string{"CARGADOR", "WEBCAM"} }, CodeInvalidArgument},
		{"future date", func(r *CreateAssignmentRequest) { r.FechaAsignacion = &future }, CodeInvalidArgument},
		{"malformed date", func(r *CreateAssignmentRequest) { r.FechaAsignacion = &badDate }, CodeInvalidArgument},
		{"malformed sapid", func(r *CreateAssignmentRequest) { r.SAPID = "abc" }, CodeInvalidArgument},
		{"unregistered sapid", func(r *CreateAssignmentRequest) { r.SAPID = "99999999" }, CodeUnprocessable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreate()
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			var api *APIError
			require.ErrorAs(t, err, &api)
			require.Equal(t, tc.code, api.Code)
		})
	}

	require.Empty(t, store.rows, "nothing may be written on validation failure")
}

func TestCreateAssignmentExplicitPastDate(t *testing.T) {
	svc := newTestService(newFakeStore(), knownUsers())

	past := "2026-08-01"
	req := validCreate()
	req.FechaAsignacion = &past

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, past, resp.FechaAsignacion)
}

func TestUpdateKeepsEmployeeAndDate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, knownUsers())

	created, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	resp, err := svc.Update(context.Background(), created.AssignmentID, UpdateAssignmentRequest{
		Modelo:     "OPTIPLEX 7010",
		Serie:      "xyz-9",
		Accesorios: []string{"MOUSE"},
		Localidad:  "Rinconcito",
	})
	require.NoError(t, err)

	require.Equal(t, "12345678", resp.SAPID, "employee identity is not editable")
	require.Equal(t, "OPTIPLEX 7010", resp.Modelo)
	require.Equal(t, "XYZ-9", resp.Serie)
	require.Equal(t, created.FechaAsignacion, resp.FechaAsignacion, "date kept when omitted")
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), knownUsers())

	_, err := svc.Update(context.Background(), 42, UpdateAssignmentRequest{
		Modelo: "OPTIPLEX 7010", Serie: "S", Localidad: "Santa Ana",
	})
	var api *APIError
	require.ErrorAs(t, err, &api)
	require.Equal(t, CodeNotFound, api.Code)
}

func TestGetToleratesDirectoryMiss(t *testing.T) {
	store := newFakeStore()
	dir := knownUsers()
	svc := newTestService(store, dir)

	created, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	// The employee disappears from a later directory import.
	delete(dir.users, "12345678")

	got, err := svc.Get(context.Background(), created.AssignmentID)
	require.NoError(t, err)
	require.Nil(t, got.Usuario, "row outlives the directory entry")
	require.Equal(t, "12345678", got.SAPID)
}

func TestAccessoriesNeverNullInResponse(t *testing.T) {
	svc := newTestService(newFakeStore(), knownUsers())

	req := validCreate()
	req.Accesorios = nil
	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Accesorios)
	require.Empty(t, resp.Accesorios)
}
