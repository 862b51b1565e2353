package access

import (
	"context"

	apperr "github.com/sefworks/partner-portal/domain/error"

	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/domain/entity"
)

// RoleSelection is an ephemeral role/tenant choice supplied by the
// caller outside the persistent session, e.g. the landing-page demo
// selector. It is honored only when explicitly present.
type RoleSelection struct {
	Role     entity.Role
	TenantID *string
}

// ResolveInput bundles everything one resolution runs on.
type ResolveInput struct {
	// Identity is the authenticated principal, nil when there is no
	// session.
	Identity *entity.Identity

	// Selection is the ephemeral selection override, highest
	// precedence.
	Selection *RoleSelection

	// TestRole substitutes the resolved role for operator testing. It
	// is ignored entirely in production deployments.
	TestRole     entity.Role
	TestTenantID *string
}

// Resolver computes the effective role and tenant scope for a caller.
// It is the only place role precedence lives; authorization code
// consumes its output and never inspects stored labels itself.
type Resolver struct {
	memberships   outbound.MembershipRepository
	allowlist     outbound.Allowlist
	nonProduction bool
}

func NewResolver(memberships outbound.MembershipRepository, allowlist outbound.Allowlist, nonProduction bool) *Resolver {
	return &Resolver{
		memberships:   memberships,
		allowlist:     allowlist,
		nonProduction: nonProduction,
	}
}

// Resolve applies the precedence order: ephemeral selection, then the
// non-production test role, then allowlist, then stored membership,
// then deny. It is idempotent and side-effect free; the result may be
// cached for one request but must be recomputed on session change.
func (r *Resolver) Resolve(ctx context.Context, in ResolveInput) (entity.ResolvedAccess, error) {
	if in.Selection != nil {
		return entity.ResolvedAccess{Role: in.Selection.Role, TenantID: in.Selection.TenantID}, nil
	}

	if r.nonProduction && in.TestRole != "" {
		return entity.ResolvedAccess{Role: in.TestRole, TenantID: in.TestTenantID}, nil
	}

	if in.Identity == nil {
		return entity.NoAccess(), nil
	}

	// Allowlist outranks membership data, including disabled rows; an
	// allowlisted operator can never be locked out by membership
	// corruption.
	if r.allowlist.Contains(in.Identity.Email) {
		return entity.ResolvedAccess{Role: entity.RoleSuperadmin, TenantID: nil}, nil
	}

	membership, err := r.memberships.FindByIdentityID(ctx, in.Identity.ID)
	if err != nil {
		return entity.NoAccess(), apperr.ErrMembershipStore("find_by_identity_id", err)
	}
	if membership == nil || membership.Disabled {
		return entity.NoAccess(), nil
	}

	return entity.ResolvedAccess{
		Role:     NormalizeStoredRole(membership.StoredRole),
		TenantID: membership.TenantID,
	}, nil
}

// NormalizeStoredRole maps a stored membership label to an effective
// role. The legacy sef_admin label is a superadmin; anything that is
// neither a superadmin label nor admin is a partner.
func NormalizeStoredRole(stored string) entity.Role {
	switch stored {
	case entity.StoredRoleSuperadmin, entity.StoredRoleLegacyAdmin:
		return entity.RoleSuperadmin
	case entity.StoredRoleAdmin:
		return entity.RoleAdmin
	default:
		return entity.RolePartner
	}
}
