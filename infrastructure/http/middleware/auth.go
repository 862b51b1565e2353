package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/application/usecase/access"
	"github.com/sefworks/partner-portal/domain/entity"
	"github.com/sefworks/partner-portal/infrastructure/http/response"
)

const (
	AccessKey   = "resolved_access"
	IdentityKey = "auth_identity"

	// Ephemeral preview selection, e.g. the landing-page demo picker.
	// Only the partner role with an explicit tenant may be injected
	// this way; a preview selection must never escalate.
	PreviewRoleHeader   = "X-Preview-Role"
	PreviewTenantHeader = "X-Preview-Tenant"
)

// AccessMiddleware resolves the caller's effective role and tenant
// once per request and caches the result on the request context. The
// cache never outlives the request, so a session change always
// recomputes.
type AccessMiddleware struct {
	identities outbound.IdentityProvider
	resolver   *access.Resolver
	logger     outbound.Logger

	// Operator test substitution from configuration. The resolver
	// ignores it in production.
	testRole   entity.Role
	testTenant *string
}

func NewAccessMiddleware(identities outbound.IdentityProvider, resolver *access.Resolver, log outbound.Logger, testRole string, testTenant string) *AccessMiddleware {
	m := &AccessMiddleware{
		identities: identities,
		resolver:   resolver,
		logger:     log,
		testRole:   entity.Role(testRole),
	}
	if testTenant != "" {
		m.testTenant = &testTenant
	}
	return m
}

// WithAccess authenticates the bearer token if one is present and
// resolves access for every request. Requests without a session still
// pass through, carrying the unknown role.
func (m *AccessMiddleware) WithAccess(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		identity, err := m.identities.GetCurrentIdentity(ctx, bearerToken(r))
		if err != nil {
			m.logger.Error(ctx, "session lookup failed", err, map[string]interface{}{})
			response.InternalServerError(w, "Failed to resolve session")
			return
		}

		resolved, err := m.resolver.Resolve(ctx, access.ResolveInput{
			Identity:     identity,
			Selection:    previewSelection(r),
			TestRole:     m.testRole,
			TestTenantID: m.testTenant,
		})
		if err != nil {
			m.logger.Error(ctx, "access resolution failed", err, map[string]interface{}{})
			response.AppError(w, err)
			return
		}

		ctx = context.WithValue(ctx, IdentityKey, identity)
		ctx = context.WithValue(ctx, AccessKey, resolved)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAuth rejects requests that carry no authenticated identity.
func (m *AccessMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return m.WithAccess(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r.Context()) == nil {
			response.Unauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the caller resolved to admin or superadmin.
func (m *AccessMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		resolved := GetAccess(r.Context())
		if !resolved.IsAdmin() {
			response.Forbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// previewSelection reads the ephemeral demo selection. Only an
// explicit partner/tenant pair is accepted; anything else is ignored
// rather than inferred.
func previewSelection(r *http.Request) *access.RoleSelection {
	role := r.Header.Get(PreviewRoleHeader)
	tenant := r.Header.Get(PreviewTenantHeader)
	if role != string(entity.RolePartner) || tenant == "" {
		return nil
	}
	return &access.RoleSelection{
		Role:     entity.RolePartner,
		TenantID: &tenant,
	}
}

// GetAccess retrieves the resolved access from the request context.
func GetAccess(ctx context.Context) entity.ResolvedAccess {
	if resolved, ok := ctx.Value(AccessKey).(entity.ResolvedAccess); ok {
		return resolved
	}
	return entity.NoAccess()
}

// GetIdentity retrieves the authenticated identity, nil when the
// request carried no valid session.
func GetIdentity(ctx context.Context) *entity.Identity {
	if identity, ok := ctx.Value(IdentityKey).(*entity.Identity); ok {
		return identity
	}
	return nil
}
