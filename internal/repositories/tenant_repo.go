package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bookwell/internal/common"
	"bookwell/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TenantRepository is a read-only directory lookup. Tenant CRUD lives
// outside the booking engine.
type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	WithTx(db DB) TenantRepository
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) WithTx(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, slug, name, timezone, operating_hours, policy, created_at, updated_at`

func (r *tenantRepo) scan(row pgx.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	var hours []byte
	err := row.Scan(&tenant.ID, &tenant.Slug, &tenant.Name, &tenant.Timezone, &hours, &tenant.Policy, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &tenant.OperatingHours); err != nil {
			return nil, fmt.Errorf("decode operating hours: %w", err)
		}
	}
	return tenant, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return r.scan(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = $1`
	return r.scan(r.db.QueryRow(ctx, query, slug))
}
