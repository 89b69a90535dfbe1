package repositories

import (
	"context"
	"errors"

	"bookwell/internal/common"
	"bookwell/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepository appends to and reads the membership ledger. There is
// no update or delete: corrections are compensating entries.
type LedgerRepository interface {
	// InsertDebit writes one debit entry unless the (membership, booking)
	// pair was already debited. It reports whether a row was written.
	InsertDebit(ctx context.Context, entry *models.LedgerEntry) (bool, error)

	// InsertCredit writes a grant or topup entry. Not idempotency-guarded;
	// manual operations carry their own safeguards.
	InsertCredit(ctx context.Context, entry *models.LedgerEntry) error

	GetDebitForBooking(ctx context.Context, membershipID, bookingID uuid.UUID) (*models.LedgerEntry, error)

	// SumDeltas returns the raw ledger sums for the membership, without
	// clamping.
	SumDeltas(ctx context.Context, membershipID uuid.UUID) (minutes, uses int, err error)

	ListByMembership(ctx context.Context, tenantID, membershipID uuid.UUID, limit, offset int) ([]*models.LedgerEntry, error)
	WithTx(db DB) LedgerRepository
}

type ledgerRepo struct {
	db DB
}

func NewLedgerRepo(db DB) LedgerRepository {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) WithTx(db DB) LedgerRepository {
	return &ledgerRepo{db: db}
}

const ledgerColumns = `id, tenant_id, membership_id, booking_id, entry_type, minutes_delta, uses_delta, note, created_at`

func scanLedgerEntry(row pgx.Row) (*models.LedgerEntry, error) {
	e := &models.LedgerEntry{}
	err := row.Scan(&e.ID, &e.TenantID, &e.MembershipID, &e.BookingID, &e.EntryType,
		&e.MinutesDelta, &e.UsesDelta, &e.Note, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *ledgerRepo) InsertDebit(ctx context.Context, entry *models.LedgerEntry) (bool, error) {
	query := `
		INSERT INTO membership_ledger (id, tenant_id, membership_id, booking_id, entry_type, minutes_delta, uses_delta, note, created_at)
		VALUES ($1, $2, $3, $4, 'debit', $5, $6, $7, NOW())
		ON CONFLICT (membership_id, booking_id) WHERE entry_type = 'debit' DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, entry.ID, entry.TenantID, entry.MembershipID, entry.BookingID,
		entry.MinutesDelta, entry.UsesDelta, entry.Note)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ledgerRepo) InsertCredit(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO membership_ledger (id, tenant_id, membership_id, booking_id, entry_type, minutes_delta, uses_delta, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.TenantID, entry.MembershipID, entry.BookingID,
		entry.EntryType, entry.MinutesDelta, entry.UsesDelta, entry.Note)
	return err
}

func (r *ledgerRepo) GetDebitForBooking(ctx context.Context, membershipID, bookingID uuid.UUID) (*models.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM membership_ledger
		WHERE membership_id = $1 AND booking_id = $2 AND entry_type = 'debit'
	`
	return scanLedgerEntry(r.db.QueryRow(ctx, query, membershipID, bookingID))
}

func (r *ledgerRepo) SumDeltas(ctx context.Context, membershipID uuid.UUID) (int, int, error) {
	query := `
		SELECT COALESCE(SUM(minutes_delta), 0), COALESCE(SUM(uses_delta), 0)
		FROM membership_ledger
		WHERE membership_id = $1
	`
	var minutes, uses int
	if err := r.db.QueryRow(ctx, query, membershipID).Scan(&minutes, &uses); err != nil {
		return 0, 0, err
	}
	return minutes, uses, nil
}

func (r *ledgerRepo) ListByMembership(ctx context.Context, tenantID, membershipID uuid.UUID, limit, offset int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM membership_ledger
		WHERE tenant_id = $1 AND membership_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, membershipID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
