package auth_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitelog/intake/internal/auth"
	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/rbac"
	"github.com/sitelog/intake/internal/shared"
	"github.com/sitelog/intake/internal/users"
	_ "github.com/sitelog/intake/testing"
)

type stubDirectory struct {
	users []users.User
}

func (s *stubDirectory) FindByUsername(_ context.Context, username string) (users.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return users.User{}, fmt.Errorf("lookup: %w", httpx.ErrNotFound)
}

func (s *stubDirectory) Get(_ context.Context, id string) (users.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return users.User{}, fmt.Errorf("lookup: %w", httpx.ErrNotFound)
}

func newDirectory(t *testing.T) *stubDirectory {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return &stubDirectory{users: []users.User{
		{ID: "u-admin", Name: "مدیر سیستم", Username: "admin", Role: rbac.RoleSuperAdmin},
		{ID: "u-op", Name: "اپراتور", Username: "op", Role: rbac.RoleOperator, PasswordHash: string(hash)},
	}}
}

type harness struct {
	router   chi.Router
	sessions *shared.SessionManager
	redis    *miniredis.Miniredis
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionManager(client, "test_session", time.Hour, false)

	handler := auth.NewHandler(slogDiscard(), auth.NewService(newDirectory(t)), sessions)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r.Context(), r)
			require.NoError(t, err)
			rec := httptest.NewRecorder()
			next.ServeHTTP(rec, r.WithContext(shared.ContextWithSession(r.Context(), sess)))
			require.NoError(t, sessions.Commit(r.Context(), w, sess))
			for k, v := range rec.Header() {
				w.Header()[k] = v
			}
			w.WriteHeader(rec.Code)
			_, _ = w.Write(rec.Body.Bytes())
		})
	})
	r.Route("/api/auth", handler.MountRoutes)
	return &harness{router: r, sessions: sessions, redis: mr}
}

func (h *harness) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginWithoutPassword(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/auth/login", `{"username":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile auth.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "u-admin", profile.User.ID)
	assert.Len(t, profile.Menu, 6)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	me := h.do(http.MethodGet, "/api/auth/me", "", cookies[0])
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"username":"admin"`)
}

func TestLoginChecksPasswordWhenSet(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/auth/login", `{"username":"op","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, h.redis.Keys())

	rec = h.do(http.MethodPost, "/api/auth/login", `{"username":"op","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile auth.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Len(t, profile.Menu, 3)
}

func TestLoginUnknownUser(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/api/auth/login", `{"username":"ghost"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodPost, "/api/auth/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	login := h.do(http.MethodPost, "/api/auth/login", `{"username":"admin"}`)
	cookie := login.Result().Cookies()[0]

	rec := h.do(http.MethodPost, "/api/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, h.redis.Keys())

	me := h.do(http.MethodGet, "/api/auth/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}
