package entity

// Role is an effective role computed by the access resolver. It is
// what authorization decisions run on; stored membership labels never
// reach authorization code directly.
type Role string

const (
	// RoleSuperadmin grants full visibility across all tenants plus
	// admin-account provisioning.
	RoleSuperadmin Role = "superadmin"

	// RoleAdmin grants full visibility across all tenants.
	RoleAdmin Role = "admin"

	// RolePartner is scoped to exactly one tenant.
	RolePartner Role = "partner"

	// RoleUnknown is the deny-by-default role: no membership, a
	// disabled membership, or no session at all.
	RoleUnknown Role = "unknown"
)

// ResolvedAccess is the effective role and tenant scope for one
// caller. It is derived per evaluation and never persisted.
type ResolvedAccess struct {
	Role     Role    `json:"role"`
	TenantID *string `json:"tenant_id"`
}

// IsAdmin reports whether the access grants cross-tenant visibility.
func (a ResolvedAccess) IsAdmin() bool {
	return a.Role == RoleSuperadmin || a.Role == RoleAdmin
}

// NoAccess is the default resolution when nothing grants a role.
func NoAccess() ResolvedAccess {
	return ResolvedAccess{Role: RoleUnknown}
}
