package outbound

import (
	"context"
	"errors"

	"github.com/sefworks/partner-portal/domain/entity"
)

var (
	ErrEmailTaken       = errors.New("email already registered with identity provider")
	ErrIdentityNotFound = errors.New("identity not found")
)

// IdentityProvider is the hosted identity service the portal delegates
// authentication to. Identities live there, not in the portal
// database.
type IdentityProvider interface {
	// CreateIdentity registers a new identity with a one-time
	// credential and the email pre-confirmed. Returns ErrEmailTaken
	// when the email is already registered.
	CreateIdentity(ctx context.Context, email, tempCredential string, metadata map[string]string) (*entity.Identity, error)

	// DeleteIdentity removes an identity. Used as the provisioning
	// compensation and for explicit offboarding.
	DeleteIdentity(ctx context.Context, id string) error

	// GenerateRecoveryLink produces a credential-recovery URL for the
	// email, or an error when the provider refuses.
	GenerateRecoveryLink(ctx context.Context, email string) (string, error)

	// GetCurrentIdentity resolves a session token to the identity it
	// belongs to. Returns nil with no error when the token carries no
	// valid session.
	GetCurrentIdentity(ctx context.Context, sessionToken string) (*entity.Identity, error)
}
