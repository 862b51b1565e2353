package outbound

import (
	"context"

	"github.com/sefworks/partner-portal/domain/entity"
)

// ActivityLog is the append-only audit trail. Append is best effort
// for the callers that treat audit as non-fatal; the log itself never
// mutates entries.
type ActivityLog interface {
	Append(ctx context.Context, entry *entity.ActivityLogEntry) error
	List(ctx context.Context, limit int) ([]*entity.ActivityLogEntry, error)
}
