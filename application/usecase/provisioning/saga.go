package provisioning

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	apperr "github.com/sefworks/partner-portal/domain/error"

	"github.com/sefworks/partner-portal/application/port/inbound"
	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/domain/entity"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Saga creates a new identity plus membership as one logical
// operation. Identity and membership are the fatal steps; the recovery
// link and the audit entry are best effort. A membership failure rolls
// the identity back, and a failed rollback is surfaced as a
// compensation failure carrying the orphaned identity id.
type Saga struct {
	identities  outbound.IdentityProvider
	memberships outbound.MembershipRepository
	activity    outbound.ActivityLog
	lock        outbound.ProvisionLock
	credentials outbound.CredentialGenerator
	logger      outbound.Logger
}

func NewSaga(
	identities outbound.IdentityProvider,
	memberships outbound.MembershipRepository,
	activity outbound.ActivityLog,
	lock outbound.ProvisionLock,
	credentials outbound.CredentialGenerator,
	logger outbound.Logger,
) *Saga {
	return &Saga{
		identities:  identities,
		memberships: memberships,
		activity:    activity,
		lock:        lock,
		credentials: credentials,
		logger:      logger,
	}
}

// Provision runs the saga for one account. Preconditions are checked
// before any side effect; once the identity exists the run goes to
// completion or explicit compensation. actor is the requester's
// identity, used only for the audit entry and may be nil for
// non-session callers.
func (s *Saga) Provision(ctx context.Context, req inbound.ProvisionAccountRequest, requester entity.ResolvedAccess, actor *entity.Identity) (*entity.ProvisioningResult, error) {
	if err := s.authorize(req, requester); err != nil {
		return nil, err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate(req); err != nil {
		return nil, err
	}

	// Serialize per email so two concurrent runs cannot race into
	// duplicate identities.
	acquired, err := s.lock.Acquire(ctx, req.Email)
	if err != nil {
		return nil, apperr.ErrProvisionLock(err)
	}
	if !acquired {
		return nil, apperr.ErrProvisioningInFlight(req.Email)
	}
	defer func() {
		if err := s.lock.Release(ctx, req.Email); err != nil {
			s.logger.Warn(ctx, "failed to release provisioning lock", map[string]interface{}{
				"email": req.Email,
			})
		}
	}()

	// Step 1: identity with a generated one-time credential.
	tempCredential, err := s.credentials.GenerateTempCredential()
	if err != nil {
		return nil, apperr.ErrIdentityProvider("generate_temp_credential", err)
	}

	identity, err := s.identities.CreateIdentity(ctx, req.Email, tempCredential, map[string]string{
		"full_name": req.FullName,
	})
	if err != nil {
		if errors.Is(err, outbound.ErrEmailTaken) {
			return nil, apperr.ErrDuplicateEmail(req.Email)
		}
		return nil, apperr.ErrIdentityProvider("create_identity", err)
	}

	// Step 2: membership. Failure here triggers compensation.
	membership := entity.NewMembership(
		uuid.NewString(),
		identity.ID,
		req.TenantID,
		normalizeRequestedRole(req.Role),
		req.FullName,
		req.Email,
	)
	if err := s.memberships.Insert(ctx, membership); err != nil {
		return nil, s.compensate(ctx, identity, err)
	}

	// Step 3: recovery link, best effort.
	linkState := entity.SagaLinkGenerated
	recoveryLink, err := s.identities.GenerateRecoveryLink(ctx, req.Email)
	if err != nil {
		s.logger.Warn(ctx, "recovery link generation failed, continuing without one", map[string]interface{}{
			"email":       req.Email,
			"identity_id": identity.ID,
			"error":       err.Error(),
		})
		recoveryLink = ""
		linkState = entity.SagaLinkSkipped
	}

	// Step 4: audit entry, best effort.
	entry := entity.NewActivityLogEntry(
		uuid.NewString(),
		actorID(actor),
		actorEmail(actor),
		entity.ActionAccountProvisioned,
		identity.ID,
		req.Email,
	)
	if err := s.activity.Append(ctx, entry); err != nil {
		s.logger.Warn(ctx, "activity log append failed", map[string]interface{}{
			"action":    entity.ActionAccountProvisioned,
			"target_id": identity.ID,
			"error":     err.Error(),
		})
	}

	s.logger.Info(ctx, "account provisioned", map[string]interface{}{
		"identity_id":   identity.ID,
		"membership_id": membership.ID,
		"role":          membership.StoredRole,
		"tenant_id":     membership.TenantID,
		"link_state":    string(linkState),
	})

	return &entity.ProvisioningResult{
		IdentityID:   identity.ID,
		MembershipID: membership.ID,
		RecoveryLink: recoveryLink,
		State:        entity.SagaCompleted,
	}, nil
}

func (s *Saga) authorize(req inbound.ProvisionAccountRequest, requester entity.ResolvedAccess) error {
	if !requester.IsAdmin() {
		return apperr.ErrInsufficientRole("admin or superadmin", string(requester.Role))
	}
	if req.Role == entity.StoredRoleAdmin && requester.Role != entity.RoleSuperadmin {
		return apperr.ErrSuperadminOnly("create admin account")
	}
	return nil
}

func (s *Saga) validate(req inbound.ProvisionAccountRequest) error {
	if req.Email == "" {
		return apperr.ErrMissingField("email")
	}
	if !emailRegex.MatchString(req.Email) {
		return apperr.ErrInvalidEmail(req.Email)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return apperr.ErrMissingField("full_name")
	}
	switch req.Role {
	case entity.StoredRoleAdmin, entity.StoredRolePartner, entity.StoredRoleViewer:
	default:
		return apperr.ErrInvalidRole(req.Role)
	}
	if normalizeRequestedRole(req.Role) == entity.StoredRolePartner && req.TenantID == nil {
		return apperr.ErrMissingTenant()
	}
	return nil
}

// compensate deletes the identity created in step 1 after a membership
// failure. The compensating delete itself failing is never swallowed:
// it comes back as a compensation failure with the orphan id.
func (s *Saga) compensate(ctx context.Context, identity *entity.Identity, cause error) error {
	s.logger.Warn(ctx, "membership insert failed, compensating identity", map[string]interface{}{
		"identity_id": identity.ID,
		"state":       string(entity.SagaCompensating),
		"error":       cause.Error(),
	})

	if err := s.identities.DeleteIdentity(ctx, identity.ID); err != nil {
		s.logger.Error(ctx, "compensation failed, identity orphaned", err, map[string]interface{}{
			"identity_id": identity.ID,
			"state":       string(entity.SagaCompensationFailure),
		})
		return apperr.ErrOrphanedIdentity(identity.ID, err)
	}

	s.logger.Info(ctx, "identity compensated after membership failure", map[string]interface{}{
		"identity_id": identity.ID,
		"state":       string(entity.SagaCompensatedOk),
	})
	return apperr.ErrSagaRolledBack(identity.ID, cause)
}

// normalizeRequestedRole maps a requested role to the label stored on
// the membership: admin stays admin, everything else stores the
// default non-privileged partner label.
func normalizeRequestedRole(requested string) string {
	if requested == entity.StoredRoleAdmin {
		return entity.StoredRoleAdmin
	}
	return entity.StoredRolePartner
}

func actorID(actor *entity.Identity) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}

func actorEmail(actor *entity.Identity) string {
	if actor == nil {
		return ""
	}
	return actor.Email
}
