package entity

import (
	"time"
)

// Stored role labels as they appear in the memberships table. The
// stored label and the effective role are not the same thing: stored
// labels are normalized by the access resolver (sef_admin is a legacy
// label kept for rows written by the previous portal).
const (
	StoredRoleSuperadmin  = "superadmin"
	StoredRoleLegacyAdmin = "sef_admin"
	StoredRoleAdmin       = "admin"
	StoredRolePartner     = "partner"
	StoredRoleViewer      = "viewer"
)

// Membership binds an Identity to a tenant and a stored role. One
// membership per identity. TenantID may be nil only when the stored
// role is not partner. Memberships are disabled rather than deleted.
type Membership struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	TenantID   *string   `json:"tenant_id"`
	StoredRole string    `json:"role"`
	Disabled   bool      `json:"disabled"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewMembership(id, identityID string, tenantID *string, storedRole, fullName, email string) *Membership {
	now := time.Now()
	return &Membership{
		ID:         id,
		IdentityID: identityID,
		TenantID:   tenantID,
		StoredRole: storedRole,
		FullName:   fullName,
		Email:      email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
