package entity

import "time"

// Role rol cerrado de un usuario dentro de su empresa.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleCashier Role = "cashier"
)

// ParseRole valida un rol recibido como string.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleManager, RoleStaff, RoleCashier:
		return r, true
	}
	return "", false
}

// Permission acción autorizable en el borde HTTP.
type Permission string

const (
	PermBillingManage   Permission = "billing.manage"
	PermUsersManage     Permission = "users.manage"
	PermSettingsManage  Permission = "settings.manage"
	PermProductsRead    Permission = "products.read"
	PermProductsWrite   Permission = "products.write"
	PermSalesCreate     Permission = "sales.create"
	PermSalesCancel     Permission = "sales.cancel"
	PermStoreManage     Permission = "store.manage"
	PermMarketHighlight Permission = "market.highlight"
)

// rolePermissions tabla explícita rol -> permisos.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermBillingManage, PermUsersManage, PermSettingsManage,
		PermProductsRead, PermProductsWrite, PermSalesCreate, PermSalesCancel,
		PermStoreManage, PermMarketHighlight,
	},
	RoleManager: {
		PermSettingsManage, PermProductsRead, PermProductsWrite,
		PermSalesCreate, PermSalesCancel, PermStoreManage, PermMarketHighlight,
	},
	RoleStaff: {
		PermProductsRead, PermProductsWrite, PermSalesCreate,
	},
	RoleCashier: {
		PermProductsRead, PermSalesCreate,
	},
}

// Can informa si el rol otorga el permiso.
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// AnyCan informa si alguno de los roles otorga el permiso.
func AnyCan(roles []Role, p Permission) bool {
	for _, r := range roles {
		if r.Can(p) {
			return true
		}
	}
	return false
}

// PermissionsOf unión de permisos de los roles, sin duplicados y en el orden de la tabla.
func PermissionsOf(roles []Role) []Permission {
	seen := make(map[Permission]bool)
	out := make([]Permission, 0, len(rolePermissions[RoleAdmin]))
	for _, p := range rolePermissions[RoleAdmin] {
		if AnyCan(roles, p) && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Name         string
	Email        string
	PasswordHash string // bcrypt
	Phone        string
	Roles        []Role
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleStrings roles como strings para el token.
func (u *User) RoleStrings() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}
