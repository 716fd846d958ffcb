// Package rbac maps user roles to the application menus they may open.
package rbac

import "strings"

// Role is a user's access level.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleOperator   Role = "OPERATOR"
	RoleViewer     Role = "VIEWER"
)

// Roles lists every role from most to least privileged.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleOperator, RoleViewer}

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Menu identifies a top-level screen.
type Menu string

const (
	MenuDashboard Menu = "dashboard"
	MenuEntry     Menu = "entry"
	MenuRecords   Menu = "records"
	MenuInvoicing Menu = "invoicing"
	MenuUsers     Menu = "users"
	MenuSettings  Menu = "settings"
)

// MenuItem is one navigation entry with the roles that may see it.
type MenuItem struct {
	ID    Menu   `json:"id"`
	Label string `json:"label"`
	Roles []Role `json:"-"`
}

var menuTable = []MenuItem{
	{ID: MenuDashboard, Label: "داشبورد", Roles: Roles},
	{ID: MenuEntry, Label: "ثبت ورود مصالح", Roles: []Role{RoleSuperAdmin, RoleAdmin, RoleOperator}},
	{ID: MenuRecords, Label: "سوابق ورود", Roles: Roles},
	{ID: MenuInvoicing, Label: "صدور فاکتور", Roles: []Role{RoleSuperAdmin, RoleAdmin, RoleManager}},
	{ID: MenuUsers, Label: "مدیریت کاربران", Roles: []Role{RoleSuperAdmin, RoleAdmin}},
	{ID: MenuSettings, Label: "تنظیمات", Roles: []Role{RoleSuperAdmin}},
}

// MenuFor returns the menus visible to role in navigation order.
func MenuFor(role Role) []MenuItem {
	items := make([]MenuItem, 0, len(menuTable))
	for _, item := range menuTable {
		if hasRole(item.Roles, role) {
			items = append(items, item)
		}
	}
	return items
}

// Allowed reports whether role may open menu.
func Allowed(role Role, menu Menu) bool {
	for _, item := range menuTable {
		if item.ID == menu {
			return hasRole(item.Roles, role)
		}
	}
	return false
}

func hasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
