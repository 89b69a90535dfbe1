package repositories

import (
	"context"
	"errors"

	"bookwell/internal/common"
	"bookwell/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository interface {
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	WithTx(db DB) CustomerRepository
}

type customerRepo struct {
	db DB
}

func NewCustomerRepo(db DB) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) WithTx(db DB) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `
		SELECT id, tenant_id, email, name, phone, created_at, updated_at
		FROM customers
		WHERE tenant_id = $1 AND email = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, email).Scan(
		&customer.ID, &customer.TenantID, &customer.Email, &customer.Name,
		&customer.Phone, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, tenant_id, email, name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, customer.ID, customer.TenantID, customer.Email, customer.Name, customer.Phone)
	return err
}
