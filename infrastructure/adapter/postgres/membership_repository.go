package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/domain/entity"
	"github.com/sefworks/partner-portal/domain/valueobject"
)

const uniqueViolation = "23505"

type MembershipRepositoryAdapter struct {
	db *sql.DB
}

func NewMembershipRepositoryAdapter(db *sql.DB) outbound.MembershipRepository {
	return &MembershipRepositoryAdapter{
		db: db,
	}
}

func (r *MembershipRepositoryAdapter) FindByIdentityID(ctx context.Context, identityID string) (*entity.Membership, error) {
	if identityID == "" {
		return nil, fmt.Errorf("identity ID cannot be empty")
	}

	query := `
		SELECT id, identity_id, tenant_id, role, disabled, full_name, email, created_at, updated_at
		FROM memberships
		WHERE identity_id = $1
		LIMIT 1
	`

	var membership entity.Membership
	err := r.db.QueryRowContext(ctx, query, identityID).Scan(
		&membership.ID,
		&membership.IdentityID,
		&membership.TenantID,
		&membership.StoredRole,
		&membership.Disabled,
		&membership.FullName,
		&membership.Email,
		&membership.CreatedAt,
		&membership.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No membership is a valid state
		}
		return nil, fmt.Errorf("failed to find membership by identity ID: %w", err)
	}

	return &membership, nil
}

func (r *MembershipRepositoryAdapter) Insert(ctx context.Context, membership *entity.Membership) error {
	if membership == nil {
		return fmt.Errorf("membership cannot be nil")
	}

	query := `
		INSERT INTO memberships (id, identity_id, tenant_id, role, disabled, full_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		membership.ID,
		membership.IdentityID,
		membership.TenantID,
		membership.StoredRole,
		membership.Disabled,
		membership.FullName,
		membership.Email,
		membership.CreatedAt,
		membership.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return outbound.ErrMembershipDuplicate
		}
		return fmt.Errorf("failed to insert membership: %w", err)
	}

	return nil
}

// List runs a read under the scope emitted by the tenant filter guard.
// The scope renders its own tenant predicate; this adapter never adds
// or removes visibility.
func (r *MembershipRepositoryAdapter) List(ctx context.Context, scope valueobject.ScopedQuery) ([]*entity.Membership, error) {
	predicate, args := scope.Predicate("tenant_id", 1)

	query := fmt.Sprintf(`
		SELECT id, identity_id, tenant_id, role, disabled, full_name, email, created_at, updated_at
		FROM memberships
		WHERE %s
		ORDER BY created_at DESC
	`, predicate)

	if scope.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, scope.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*entity.Membership
	for rows.Next() {
		var membership entity.Membership
		if err := rows.Scan(
			&membership.ID,
			&membership.IdentityID,
			&membership.TenantID,
			&membership.StoredRole,
			&membership.Disabled,
			&membership.FullName,
			&membership.Email,
			&membership.CreatedAt,
			&membership.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		memberships = append(memberships, &membership)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate membership rows: %w", err)
	}

	return memberships, nil
}

func (r *MembershipRepositoryAdapter) SetDisabled(ctx context.Context, id string, disabled bool) error {
	if id == "" {
		return fmt.Errorf("membership ID cannot be empty")
	}

	query := `
		UPDATE memberships
		SET disabled = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, disabled)
	if err != nil {
		return fmt.Errorf("failed to update membership disabled flag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return outbound.ErrMembershipNotFound
	}

	return nil
}
