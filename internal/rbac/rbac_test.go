package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitelog/intake/internal/shared"
)

func menuIDs(items []MenuItem) []Menu {
	ids := make([]Menu, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestMenuFor(t *testing.T) {
	cases := map[Role][]Menu{
		RoleSuperAdmin: {MenuDashboard, MenuEntry, MenuRecords, MenuInvoicing, MenuUsers, MenuSettings},
		RoleAdmin:      {MenuDashboard, MenuEntry, MenuRecords, MenuInvoicing, MenuUsers},
		RoleManager:    {MenuDashboard, MenuRecords, MenuInvoicing},
		RoleOperator:   {MenuDashboard, MenuEntry, MenuRecords},
		RoleViewer:     {MenuDashboard, MenuRecords},
	}
	for role, want := range cases {
		t.Run(string(role), func(t *testing.T) {
			assert.Equal(t, want, menuIDs(MenuFor(role)))
		})
	}
	assert.Empty(t, MenuFor(Role("GUEST")))
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(RoleOperator, MenuEntry))
	assert.False(t, Allowed(RoleManager, MenuEntry))
	assert.False(t, Allowed(RoleAdmin, MenuSettings))
	assert.False(t, Allowed(RoleSuperAdmin, Menu("unknown")))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" manager ")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, r)

	_, ok = ParseRole("root")
	assert.False(t, ok)
}

func TestRequireMenu(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireMenu(MenuSettings)(ok)

	serve := func(sess *shared.Session) int {
		req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		if sess != nil {
			req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))

	admin := &shared.Session{}
	admin.SignIn("u-1", string(RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serve(admin))

	super := &shared.Session{}
	super.SignIn("u-2", string(RoleSuperAdmin))
	assert.Equal(t, http.StatusNoContent, serve(super))
}
