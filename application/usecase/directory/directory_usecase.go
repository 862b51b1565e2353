package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperr "github.com/sefworks/partner-portal/domain/error"

	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/application/usecase/access"
	"github.com/sefworks/partner-portal/domain/entity"
	"github.com/sefworks/partner-portal/domain/valueobject"
)

const resourceMemberships = "memberships"

// Directory serves the membership views of the portal. Every read goes
// through the tenant filter guard and refuses to run when the emitted
// scope fails validation.
type Directory struct {
	memberships outbound.MembershipRepository
	activity    outbound.ActivityLog
	guard       *access.TenantFilterGuard
	logger      outbound.Logger
}

func NewDirectory(
	memberships outbound.MembershipRepository,
	activity outbound.ActivityLog,
	guard *access.TenantFilterGuard,
	logger outbound.Logger,
) *Directory {
	return &Directory{
		memberships: memberships,
		activity:    activity,
		guard:       guard,
		logger:      logger,
	}
}

// ListMemberships returns the memberships visible to the caller:
// everything for admin roles, the caller's tenant for partners,
// nothing for unknown.
func (d *Directory) ListMemberships(ctx context.Context, caller entity.ResolvedAccess) ([]*entity.Membership, error) {
	intent := valueobject.QueryIntent{Resource: resourceMemberships}
	scope := d.guard.Scope(intent, caller)

	if err := d.guard.ValidateTenantScoping(
		[]string{resourceMemberships},
		caller,
		map[string]valueobject.ScopedQuery{resourceMemberships: scope},
	); err != nil {
		return nil, err
	}

	memberships, err := d.memberships.List(ctx, scope)
	if err != nil {
		return nil, apperr.ErrMembershipStore("list", err)
	}
	return memberships, nil
}

// SetMembershipDisabled flips the disabled flag on a membership.
// Admin-only; the change is audited best effort.
func (d *Directory) SetMembershipDisabled(ctx context.Context, caller entity.ResolvedAccess, actor *entity.Identity, membershipID string, disabled bool) error {
	if !caller.IsAdmin() {
		return apperr.ErrInsufficientRole("admin or superadmin", string(caller.Role))
	}

	if err := d.memberships.SetDisabled(ctx, membershipID, disabled); err != nil {
		if errors.Is(err, outbound.ErrMembershipNotFound) {
			return err
		}
		return apperr.ErrMembershipStore("set_disabled", err)
	}

	action := entity.ActionMembershipDisabled
	if !disabled {
		action = entity.ActionMembershipEnabled
	}
	entry := entity.NewActivityLogEntry(uuid.NewString(), actorID(actor), actorEmail(actor), action, membershipID, "")
	if err := d.activity.Append(ctx, entry); err != nil {
		d.logger.Warn(ctx, "activity log append failed", map[string]interface{}{
			"action":    action,
			"target_id": membershipID,
			"error":     err.Error(),
		})
	}
	return nil
}

// ListActivity returns recent audit entries. Admin-only.
func (d *Directory) ListActivity(ctx context.Context, caller entity.ResolvedAccess, limit int) ([]*entity.ActivityLogEntry, error) {
	if !caller.IsAdmin() {
		return nil, apperr.ErrInsufficientRole("admin or superadmin", string(caller.Role))
	}
	entries, err := d.activity.List(ctx, limit)
	if err != nil {
		return nil, apperr.ErrActivityLog("list", err)
	}
	return entries, nil
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
