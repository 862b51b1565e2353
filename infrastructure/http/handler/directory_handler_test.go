package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/application/usecase/access"
	"github.com/sefworks/partner-portal/application/usecase/directory"
	"github.com/sefworks/partner-portal/domain/entity"
	"github.com/sefworks/partner-portal/domain/valueobject"
	"github.com/sefworks/partner-portal/infrastructure/http/middleware"
)

// recordingMembershipRepo captures the scope each List call ran with.
type recordingMembershipRepo struct {
	byIdentity  map[string]*entity.Membership
	listResult  []*entity.Membership
	listScopes  []valueobject.ScopedQuery
	setDisabled error
}

func (r *recordingMembershipRepo) FindByIdentityID(_ context.Context, identityID string) (*entity.Membership, error) {
	return r.byIdentity[identityID], nil
}

func (r *recordingMembershipRepo) Insert(context.Context, *entity.Membership) error { return nil }

func (r *recordingMembershipRepo) List(_ context.Context, scope valueobject.ScopedQuery) ([]*entity.Membership, error) {
	r.listScopes = append(r.listScopes, scope)
	return r.listResult, nil
}

func (r *recordingMembershipRepo) SetDisabled(context.Context, string, bool) error {
	return r.setDisabled
}

type stubActivityLog struct {
	entries []*entity.ActivityLogEntry
}

func (s *stubActivityLog) Append(_ context.Context, entry *entity.ActivityLogEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubActivityLog) List(context.Context, int) ([]*entity.ActivityLogEntry, error) {
	return s.entries, nil
}

// newDirectoryRouter wires the directory handler behind the real
// middleware with a single session: "admin-token" for an allowlisted
// operator or "partner-token" for a tenant-scoped partner.
func newDirectoryRouter(repo *recordingMembershipRepo, activity *stubActivityLog, partnerSession bool) *mux.Router {
	var provider *stubIdentityProvider
	var allowlisted []string
	if partnerSession {
		caller := entity.NewIdentity("partner-id", "partner@acme.example", "Partner")
		if repo.byIdentity == nil {
			repo.byIdentity = map[string]*entity.Membership{}
		}
		repo.byIdentity["partner-id"] = entity.NewMembership("m-p", "partner-id", strPtr("T1"), entity.StoredRolePartner, "Partner", caller.Email)
		provider = &stubIdentityProvider{token: "partner-token", identity: caller}
	} else {
		caller := entity.NewIdentity("admin-id", "ops@sefworks.example", "Ops")
		allowlisted = []string{caller.Email}
		provider = &stubIdentityProvider{token: "admin-token", identity: caller}
	}

	resolver := access.NewResolver(repo, outbound.NewStaticAllowlist(allowlisted), false)
	accessMiddleware := middleware.NewAccessMiddleware(provider, resolver, nopLogger{}, "", "")

	d := directory.NewDirectory(repo, activity, access.NewTenantFilterGuard(), nopLogger{})
	router := mux.NewRouter()
	NewDirectoryHandler(d, nopLogger{}).RegisterRoutes(router, accessMiddleware)
	return router
}

func TestListMemberships_PartnerListRunsTenantScoped(t *testing.T) {
	repo := &recordingMembershipRepo{
		listResult: []*entity.Membership{
			entity.NewMembership("m1", "id-1", strPtr("T1"), entity.StoredRolePartner, "A", "a@acme.example"),
		},
	}
	router := newDirectoryRouter(repo, &stubActivityLog{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/memberships", nil)
	req.Header.Set("Authorization", "Bearer partner-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, repo.listScopes, 1)
	assert.Equal(t, "T1", *repo.listScopes[0].TenantEq)
	assert.False(t, repo.listScopes[0].MatchNone)
}

func TestListMemberships_AdminListIsUnrestricted(t *testing.T) {
	repo := &recordingMembershipRepo{listResult: []*entity.Membership{}}
	router := newDirectoryRouter(repo, &stubActivityLog{}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/memberships", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, repo.listScopes, 1)
	assert.True(t, repo.listScopes[0].Unrestricted())
}

func TestListMemberships_NoSessionIsUnauthorized(t *testing.T) {
	router := newDirectoryRouter(&recordingMembershipRepo{}, &stubActivityLog{}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/memberships", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateDisabled_PartnerIsForbidden(t *testing.T) {
	router := newDirectoryRouter(&recordingMembershipRepo{}, &stubActivityLog{}, true)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/memberships/m1/disabled", bytes.NewBufferString(`{"disabled": true}`))
	req.Header.Set("Authorization", "Bearer partner-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateDisabled_RecordsAudit(t *testing.T) {
	activity := &stubActivityLog{}
	router := newDirectoryRouter(&recordingMembershipRepo{}, activity, false)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/memberships/m1/disabled", bytes.NewBufferString(`{"disabled": true}`))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, activity.entries, 1)
	assert.Equal(t, entity.ActionMembershipDisabled, activity.entries[0].Action)
	assert.Equal(t, "m1", activity.entries[0].TargetID)
	assert.Equal(t, "admin-id", activity.entries[0].ActorID)
}

func TestUpdateDisabled_MissingMembershipIsNotFound(t *testing.T) {
	repo := &recordingMembershipRepo{setDisabled: outbound.ErrMembershipNotFound}
	router := newDirectoryRouter(repo, &stubActivityLog{}, false)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/memberships/ghost/disabled", bytes.NewBufferString(`{"disabled": true}`))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListActivity_ReturnsEntriesForAdmin(t *testing.T) {
	activity := &stubActivityLog{entries: []*entity.ActivityLogEntry{
		entity.NewActivityLogEntry("e1", "admin-id", "ops@sefworks.example", entity.ActionAccountProvisioned, "id-1", "a@acme.example"),
	}}
	router := newDirectoryRouter(&recordingMembershipRepo{}, activity, false)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/activity", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []*entity.ActivityLogEntry
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	assert.Len(t, entries, 1)
	assert.Equal(t, entity.ActionAccountProvisioned, entries[0].Action)
}

func TestListActivity_PartnerIsForbidden(t *testing.T) {
	router := newDirectoryRouter(&recordingMembershipRepo{}, &stubActivityLog{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/activity", nil)
	req.Header.Set("Authorization", "Bearer partner-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListActivity_InvalidLimitIsBadRequest(t *testing.T) {
	router := newDirectoryRouter(&recordingMembershipRepo{}, &stubActivityLog{}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/activity?limit=zero", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
