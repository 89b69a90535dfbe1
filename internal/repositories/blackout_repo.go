package repositories

import (
	"context"
	"errors"
	"time"

	"bookwell/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BlackoutRepository interface {
	// FindEarliestOverlapping returns the earliest active blackout whose
	// interval intersects [from, to) and whose scope fields are either
	// wildcards or equal to the proposed booking's. Nil when none apply.
	FindEarliestOverlapping(ctx context.Context, tenantID uuid.UUID, from, to time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) (*models.Blackout, error)
	WithTx(db DB) BlackoutRepository
}

type blackoutRepo struct {
	db DB
}

func NewBlackoutRepo(db DB) BlackoutRepository {
	return &blackoutRepo{db: db}
}

func (r *blackoutRepo) WithTx(db DB) BlackoutRepository {
	return &blackoutRepo{db: db}
}

func (r *blackoutRepo) FindEarliestOverlapping(ctx context.Context, tenantID uuid.UUID, from, to time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) (*models.Blackout, error) {
	query := `
		SELECT id, tenant_id, service_id, staff_id, resource_id, starts_at, ends_at, reason, active, created_at
		FROM blackouts
		WHERE tenant_id = $1
		  AND active
		  AND starts_at < $3 AND ends_at > $2
		  AND (service_id IS NULL OR service_id = $4)
		  AND (staff_id IS NULL OR staff_id = $5)
		  AND (resource_id IS NULL OR resource_id = $6)
		ORDER BY starts_at
		LIMIT 1
	`
	b := &models.Blackout{}
	err := r.db.QueryRow(ctx, query, tenantID, from, to, serviceID, staffID, resourceID).Scan(
		&b.ID, &b.TenantID, &b.ServiceID, &b.StaffID, &b.ResourceID,
		&b.StartsAt, &b.EndsAt, &b.Reason, &b.Active, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}
