package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeAccountStore struct {
	accounts map[string]*Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[string]*Account{}}
}

func (s *fakeAccountStore) GetByID(_ context.Context, id string) (*Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *fakeAccountStore) Create(_ context.Context, a *Account) error {
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *fakeAccountStore) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := s.accounts[id]; !ok {
		return 0, nil
	}
	delete(s.accounts, id)
	return 1, nil
}

func (s *fakeAccountStore) SetDisabled(_ context.Context, id string, disabled bool) (int64, error) {
	a, ok := s.accounts[id]
	if !ok {
		return 0, nil
	}
	a.IsDisabled = disabled
	return 1, nil
}

var testSecret = []byte("test-secret")

func newTestAuth() *Service {
	return &Service{store: newFakeAccountStore(), secret: testSecret}
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "it.admin", "hunter22", "admin"))
	require.ErrorIs(t, svc.Register(ctx, "it.admin", "other", "admin"), ErrAlreadyExists)

	token, err := svc.Login(ctx, "it.admin", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = svc.Login(ctx, "it.admin", "wrong")
	require.ErrorIs(t, err, ErrBadCredential)

	_, err = svc.Login(ctx, "nobody", "hunter22")
	require.ErrorIs(t, err, ErrBadCredential)
}

func TestDisabledAccountCannotLogin(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "user1", "pw", "user"))
	require.NoError(t, svc.SetDisabled(ctx, "user1", true))

	_, err := svc.Login(ctx, "user1", "pw")
	require.ErrorIs(t, err, ErrBadCredential)

	require.NoError(t, svc.SetDisabled(ctx, "user1", false))
	_, err = svc.Login(ctx, "user1", "pw")
	require.NoError(t, err)
}

func TestDeleteUnknownAccount(t *testing.T) {
	svc := newTestAuth()
	require.ErrorIs(t, svc.Delete(context.Background(), "ghost"), ErrNotFound)
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"sub":  c.GetString(CtxUserIDKey),
			"role": c.GetString(CtxRoleKey),
		})
	})
	r.GET("/secure", handlers...)
	return r
}

func TestRequireAuthAcceptsIssuedToken(t *testing.T) {
	svc := newTestAuth()
	require.NoError(t, svc.Register(context.Background(), "user1", "pw", "admin"))
	token, err := svc.Login(context.Background(), "user1", "pw")
	require.NoError(t, err)

	r := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"sub":"user1"`)
	require.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	r := protectedRouter()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	svc := newTestAuth()
	require.NoError(t, svc.Register(context.Background(), "user1", "pw", "user"))
	token, err := svc.Login(context.Background(), "user1", "pw")
	require.NoError(t, err)

	r := protectedRouter(RequireRole("admin"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}
