package repositories

import (
	"context"
	"errors"
	"time"

	"bookwell/internal/common"
	"bookwell/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MembershipRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.CustomerMembership, error)

	// GetByIDForUpdate locks the membership row for the duration of the
	// surrounding transaction, serializing concurrent debits.
	GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.CustomerMembership, error)

	// PickEligibleForUpdate deterministically selects one active,
	// unexpired membership with a positive balance for the customer and
	// locks it: shortest expiry first, then oldest, then lowest id.
	// Returns nil when the customer has none.
	PickEligibleForUpdate(ctx context.Context, tenantID, customerID uuid.UUID, now time.Time) (*models.CustomerMembership, error)

	// UpdateBalances persists the recomputed balance cache and status.
	UpdateBalances(ctx context.Context, tenantID, id uuid.UUID, minutes, uses int, status string) error

	// ExpireElapsed flips active memberships whose window has passed to
	// expired, returning how many rows changed.
	ExpireElapsed(ctx context.Context, now time.Time) (int64, error)

	WithTx(db DB) MembershipRepository
}

type membershipRepo struct {
	db DB
}

func NewMembershipRepo(db DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) WithTx(db DB) MembershipRepository {
	return &membershipRepo{db: db}
}

const membershipColumns = `id, tenant_id, customer_id, status, minutes_remaining, uses_remaining, expires_at, created_at, updated_at`

func scanMembership(row pgx.Row) (*models.CustomerMembership, error) {
	m := &models.CustomerMembership{}
	err := row.Scan(&m.ID, &m.TenantID, &m.CustomerID, &m.Status, &m.MinutesRemaining,
		&m.UsesRemaining, &m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *membershipRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.CustomerMembership, error) {
	query := `SELECT ` + membershipColumns + ` FROM customer_memberships WHERE tenant_id = $1 AND id = $2`
	return scanMembership(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *membershipRepo) GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.CustomerMembership, error) {
	query := `SELECT ` + membershipColumns + ` FROM customer_memberships WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return scanMembership(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *membershipRepo) PickEligibleForUpdate(ctx context.Context, tenantID, customerID uuid.UUID, now time.Time) (*models.CustomerMembership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM customer_memberships
		WHERE tenant_id = $1 AND customer_id = $2
		  AND status = 'active'
		  AND (expires_at IS NULL OR expires_at > $3)
		  AND (minutes_remaining > 0 OR uses_remaining > 0)
		ORDER BY expires_at ASC NULLS LAST, created_at ASC, id ASC
		LIMIT 1
		FOR UPDATE
	`
	m, err := scanMembership(r.db.QueryRow(ctx, query, tenantID, customerID, now))
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	return m, err
}

func (r *membershipRepo) UpdateBalances(ctx context.Context, tenantID, id uuid.UUID, minutes, uses int, status string) error {
	query := `
		UPDATE customer_memberships
		SET minutes_remaining = $1, uses_remaining = $2, status = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5
	`
	tag, err := r.db.Exec(ctx, query, minutes, uses, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *membershipRepo) ExpireElapsed(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE customer_memberships
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= $1
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
