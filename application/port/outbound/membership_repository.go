package outbound

import (
	"context"
	"errors"

	"github.com/sefworks/partner-portal/domain/entity"
	"github.com/sefworks/partner-portal/domain/valueobject"
)

var (
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrMembershipDuplicate = errors.New("membership already exists for identity")
)

type MembershipRepository interface {
	// FindByIdentityID returns nil without error when the identity has
	// no membership; absence is a valid state, not a failure.
	FindByIdentityID(ctx context.Context, identityID string) (*entity.Membership, error)

	// Insert stores a new membership. Returns ErrMembershipDuplicate
	// when the identity already has one.
	Insert(ctx context.Context, membership *entity.Membership) error

	// List returns memberships visible under the given scope. The
	// scope must come from the tenant filter guard; repositories never
	// decide visibility themselves.
	List(ctx context.Context, scope valueobject.ScopedQuery) ([]*entity.Membership, error)

	// SetDisabled flips the disabled flag. Returns
	// ErrMembershipNotFound for an unknown id.
	SetDisabled(ctx context.Context, id string, disabled bool) error
}
