package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/domain/entity"
)

// ActivityLogAdapter persists the append-only audit trail. Rows are
// inserted once and never updated or deleted.
type ActivityLogAdapter struct {
	db *sql.DB
}

func NewActivityLogAdapter(db *sql.DB) outbound.ActivityLog {
	return &ActivityLogAdapter{
		db: db,
	}
}

func (r *ActivityLogAdapter) Append(ctx context.Context, entry *entity.ActivityLogEntry) error {
	if entry == nil {
		return fmt.Errorf("activity entry cannot be nil")
	}

	query := `
		INSERT INTO activity_log (id, actor_id, actor_email, action, target_id, target_email, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.ActorEmail,
		entry.Action,
		entry.TargetID,
		entry.TargetEmail,
		entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}

	return nil
}

func (r *ActivityLogAdapter) List(ctx context.Context, limit int) ([]*entity.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, actor_id, actor_email, action, target_id, target_email, occurred_at
		FROM activity_log
		ORDER BY occurred_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.ActivityLogEntry
	for rows.Next() {
		var entry entity.ActivityLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.ActorEmail,
			&entry.Action,
			&entry.TargetID,
			&entry.TargetEmail,
			&entry.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}

	return entries, nil
}
