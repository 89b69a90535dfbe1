package services

import (
	"context"
	"time"

	"bookwell/internal/models"
	"bookwell/internal/repositories"

	"github.com/google/uuid"
)

// LedgerEngine owns the append-only membership ledger and the cached
// balances derived from it. Every balance-affecting write and the
// matching recompute must run inside the caller's transaction; callers
// hold a row lock on the membership before invoking Debit or Credit.
type LedgerEngine struct {
	ledger      repositories.LedgerRepository
	memberships repositories.MembershipRepository
}

// NewLedgerEngine creates a new ledger engine.
func NewLedgerEngine(ledger repositories.LedgerRepository, memberships repositories.MembershipRepository) *LedgerEngine {
	return &LedgerEngine{ledger: ledger, memberships: memberships}
}

// WithTx scopes the engine to a transaction.
func (e *LedgerEngine) WithTx(db repositories.DB) *LedgerEngine {
	return &LedgerEngine{
		ledger:      e.ledger.WithTx(db),
		memberships: e.memberships.WithTx(db),
	}
}

// Debit appends a negative-delta entry for the booking. A second debit
// for the same (membership, booking) pair returns the prior entry with
// replayed=true instead of spending again; this is what makes retried
// booking creations safe.
func (e *LedgerEngine) Debit(ctx context.Context, membership *models.CustomerMembership, bookingID uuid.UUID, minutes, uses int, note string) (*models.LedgerEntry, bool, error) {
	entry := &models.LedgerEntry{
		ID:           uuid.New(),
		TenantID:     membership.TenantID,
		MembershipID: membership.ID,
		BookingID:    &bookingID,
		EntryType:    models.LedgerEntryDebit,
		MinutesDelta: -minutes,
		UsesDelta:    -uses,
		Note:         &note,
	}
	inserted, err := e.ledger.InsertDebit(ctx, entry)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		prior, err := e.ledger.GetDebitForBooking(ctx, membership.ID, bookingID)
		if err != nil {
			return nil, false, err
		}
		return prior, true, nil
	}
	return entry, false, nil
}

// Credit appends a positive-delta grant or topup entry. Manual
// operations are not idempotency-guarded.
func (e *LedgerEngine) Credit(ctx context.Context, membership *models.CustomerMembership, entryType string, minutes, uses int, note *string) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{
		ID:           uuid.New(),
		TenantID:     membership.TenantID,
		MembershipID: membership.ID,
		EntryType:    entryType,
		MinutesDelta: minutes,
		UsesDelta:    uses,
		Note:         note,
	}
	if err := e.ledger.InsertCredit(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecomputeBalance re-derives the membership's balances from the ledger,
// clamps them at zero, and persists them onto the membership row as a
// read cache. The raw, unclamped sums are returned so callers can detect
// a would-be-negative balance and abort their transaction.
//
// A membership drained to zero on both counters, or past its expiry,
// transitions to expired. One that regained a positive balance before
// its window elapsed (a top-up) returns to active. Archived memberships
// keep their status.
func (e *LedgerEngine) RecomputeBalance(ctx context.Context, membership *models.CustomerMembership, now time.Time) (int, int, error) {
	rawMinutes, rawUses, err := e.ledger.SumDeltas(ctx, membership.ID)
	if err != nil {
		return 0, 0, err
	}
	minutes := max(0, rawMinutes)
	uses := max(0, rawUses)

	status := membership.Status
	if status != models.MembershipStatusArchived {
		switch {
		case membership.Expired(now):
			status = models.MembershipStatusExpired
		case minutes == 0 && uses == 0:
			status = models.MembershipStatusExpired
		default:
			status = models.MembershipStatusActive
		}
	}

	if err := e.memberships.UpdateBalances(ctx, membership.TenantID, membership.ID, minutes, uses, status); err != nil {
		return 0, 0, err
	}
	membership.MinutesRemaining = minutes
	membership.UsesRemaining = uses
	membership.Status = status
	return rawMinutes, rawUses, nil
}
