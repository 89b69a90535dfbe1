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

type BookingRepository interface {
	// InsertIdempotent inserts the booking unless its idempotency key is
	// already taken for the tenant. It reports whether a row was written;
	// false means the caller should treat the request as a replay.
	InsertIdempotent(ctx context.Context, booking *models.Booking) (bool, error)

	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error)
	GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error)
	GetByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error

	// ListActiveOverlapping returns non-cancelled bookings intersecting
	// [from, to), optionally narrowed to a staff member or resource. With
	// neither given, the scope is the service itself.
	ListActiveOverlapping(ctx context.Context, tenantID uuid.UUID, from, to time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) ([]*models.Booking, error)
	CountActiveOverlapping(ctx context.Context, tenantID uuid.UUID, from, to time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) (int, error)

	ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, limit, offset int) ([]*models.Booking, error)
	WithTx(db DB) BookingRepository
}

type bookingRepo struct {
	db DB
}

func NewBookingRepo(db DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) WithTx(db DB) BookingRepository {
	return &bookingRepo{db: db}
}

const bookingColumns = `id, tenant_id, service_id, staff_id, resource_id, customer_id, membership_id,
	       starts_at, duration_minutes, status, list_price, charged_amount, idempotency_key, notes,
	       created_at, updated_at`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID, &b.TenantID, &b.ServiceID, &b.StaffID, &b.ResourceID, &b.CustomerID, &b.MembershipID,
		&b.StartsAt, &b.DurationMinutes, &b.Status, &b.ListPrice, &b.ChargedAmount, &b.IdempotencyKey,
		&b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepo) InsertIdempotent(ctx context.Context, booking *models.Booking) (bool, error) {
	query := `
		INSERT INTO bookings (id, tenant_id, service_id, staff_id, resource_id, customer_id, membership_id,
		                      starts_at, duration_minutes, status, list_price, charged_amount,
		                      idempotency_key, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		ON CONFLICT (tenant_id, idempotency_key) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query,
		booking.ID, booking.TenantID, booking.ServiceID, booking.StaffID, booking.ResourceID,
		booking.CustomerID, booking.MembershipID, booking.StartsAt, booking.DurationMinutes,
		booking.Status, booking.ListPrice, booking.ChargedAmount, booking.IdempotencyKey, booking.Notes,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *bookingRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tenant_id = $1 AND id = $2`
	return scanBooking(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *bookingRepo) GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return scanBooking(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *bookingRepo) GetByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tenant_id = $1 AND idempotency_key = $2`
	return scanBooking(r.db.QueryRow(ctx, query, tenantID, key))
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// overlapClause matches bookings whose [starts_at, starts_at+duration)
// intersects [$2, $3) and which still occupy capacity.
const overlapClause = `
		  tenant_id = $1
		  AND status <> 'cancelled'
		  AND starts_at < $3
		  AND starts_at + (duration_minutes || ' minutes')::interval > $2
`

// scopeClause narrows the overlap query to the shared capacity
// dimension: staff and/or resource when given, else the service itself.
// Arguments $1..$3 are tenant, from, to.
func scopeClause(serviceID uuid.UUID, staffID, resourceID *uuid.UUID) (string, []interface{}) {
	switch {
	case staffID != nil && resourceID != nil:
		return ` AND (staff_id = $4 OR resource_id = $5)`, []interface{}{*staffID, *resourceID}
	case staffID != nil:
		return ` AND staff_id = $4`, []interface{}{*staffID}
	case resourceID != nil:
		return ` AND resource_id = $4`, []interface{}{*resourceID}
	default:
		return ` AND service_id = $4`, []interface{}{serviceID}
	}
}

func (r *bookingRepo) ListActiveOverlapping(ctx context.Context, tenantID uuid.UUID, from, to time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) ([]*models.Booking, error) {
	scope, extra := scopeClause(serviceID, staffID, resourceID)
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE` + overlapClause + scope + ` ORDER BY starts_at`
	args := append([]interface{}{tenantID, from, to}, extra...)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepo) CountActiveOverlapping(ctx context.Context, tenantID uuid.UUID, from, to time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) (int, error) {
	scope, extra := scopeClause(serviceID, staffID, resourceID)
	query := `SELECT COUNT(*) FROM bookings WHERE` + overlapClause + scope
	args := append([]interface{}{tenantID, from, to}, extra...)
	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *bookingRepo) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, limit, offset int) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND customer_id = $2
		ORDER BY starts_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
