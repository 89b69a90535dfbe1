package repositories

import (
	"context"
	"errors"

	"bookwell/internal/common"
	"bookwell/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogRepository is the read-only service/staff/resource directory.
// Every lookup is tenant-scoped; a row owned by a different tenant is
// indistinguishable from an absent one.
type CatalogRepository interface {
	GetService(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error)
	GetStaff(ctx context.Context, tenantID, id uuid.UUID) (*models.Staff, error)
	GetResource(ctx context.Context, tenantID, id uuid.UUID) (*models.Resource, error)
	WithTx(db DB) CatalogRepository
}

type catalogRepo struct {
	db DB
}

func NewCatalogRepo(db DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) WithTx(db DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) GetService(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error) {
	svc := &models.Service{}
	query := `
		SELECT id, tenant_id, name, duration_minutes, slot_interval_minutes, max_parallel,
		       requires_confirmation, requires_staff, requires_resource, membership_eligible,
		       base_price, active, created_at, updated_at
		FROM services
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&svc.ID, &svc.TenantID, &svc.Name, &svc.DurationMinutes, &svc.SlotIntervalMinutes,
		&svc.MaxParallel, &svc.RequiresConfirmation, &svc.RequiresStaff, &svc.RequiresResource,
		&svc.MembershipEligible, &svc.BasePrice, &svc.Active, &svc.CreatedAt, &svc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (r *catalogRepo) GetStaff(ctx context.Context, tenantID, id uuid.UUID) (*models.Staff, error) {
	st := &models.Staff{}
	query := `
		SELECT id, tenant_id, name, active, created_at
		FROM staff
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&st.ID, &st.TenantID, &st.Name, &st.Active, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (r *catalogRepo) GetResource(ctx context.Context, tenantID, id uuid.UUID) (*models.Resource, error) {
	res := &models.Resource{}
	query := `
		SELECT id, tenant_id, name, active, created_at
		FROM resources
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&res.ID, &res.TenantID, &res.Name, &res.Active, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}
