package inbound

import (
	"context"

	"github.com/sefworks/partner-portal/domain/entity"
)

// Provision Account
type ProvisionAccountRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"full_name" validate:"required,min=2,max=255"`
	TenantID *string `json:"tenant_id,omitempty"`
	Role     string  `json:"role" validate:"required"`
}

type ProvisionAccountResponse struct {
	Success      bool    `json:"success"`
	IdentityID   string  `json:"identity_id"`
	MembershipID string  `json:"membership_id"`
	RecoveryLink *string `json:"recovery_link"`
}

// AccountProvisioner runs the provisioning workflow on behalf of an
// authenticated requester. actor is the requester's identity, used for
// the audit trail; it may be nil when the session carries no identity.
type AccountProvisioner interface {
	Provision(ctx context.Context, req ProvisionAccountRequest, requester entity.ResolvedAccess, actor *entity.Identity) (*entity.ProvisioningResult, error)
}
