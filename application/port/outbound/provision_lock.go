package outbound

import (
	"context"
)

// ProvisionLock serializes provisioning per target email. Acquire
// returns false when another provisioning run for the same email is in
// flight. Locks expire on their own so a crashed run cannot hold an
// email forever.
type ProvisionLock interface {
	Acquire(ctx context.Context, email string) (bool, error)
	Release(ctx context.Context, email string) error
}
