package access

import (
	apperr "github.com/sefworks/partner-portal/domain/error"

	"github.com/sefworks/partner-portal/domain/entity"
	"github.com/sefworks/partner-portal/domain/valueobject"
)

// TenantFilterGuard turns a query intent into a scope that cannot leak
// across tenants. Every tenant-scoped read passes through Scope before
// touching storage; storage-level policy is defense in depth, not the
// safeguard.
type TenantFilterGuard struct{}

func NewTenantFilterGuard() *TenantFilterGuard {
	return &TenantFilterGuard{}
}

// Scope applies the visibility rules for the resolved access. Admin
// roles see everything, partners see exactly their tenant, and a
// partner with no resolvable tenant sees nothing rather than
// everything. Unknown always sees nothing.
func (g *TenantFilterGuard) Scope(intent valueobject.QueryIntent, access entity.ResolvedAccess) valueobject.ScopedQuery {
	scoped := valueobject.ScopedQuery{
		Resource: intent.Resource,
		Limit:    intent.Limit,
	}

	switch {
	case access.IsAdmin():
		return scoped
	case access.Role == entity.RolePartner && access.TenantID != nil:
		tenant := *access.TenantID
		scoped.TenantEq = &tenant
		return scoped
	default:
		scoped.MatchNone = true
		return scoped
	}
}

// ValidateTenantScoping checks that every declared tenant-scoped
// resource was given a safe scope for the caller. For partner callers
// an unrestricted scope is a blocking error, never a warning; the
// zero-row scope is safe.
func (g *TenantFilterGuard) ValidateTenantScoping(resources []string, access entity.ResolvedAccess, scopes map[string]valueobject.ScopedQuery) error {
	if access.IsAdmin() {
		return nil
	}

	for _, resource := range resources {
		scope, ok := scopes[resource]
		if !ok {
			return apperr.ErrUnscopedPartner(resource)
		}
		if scope.Unrestricted() {
			return apperr.ErrUnscopedPartner(resource)
		}
	}
	return nil
}
