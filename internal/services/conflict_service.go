package services

import (
	"context"

	"bookwell/internal/common"
	"bookwell/internal/models"
	"bookwell/internal/repositories"
)

// ConflictDetector runs the two mandatory pre-persist checks: blackout
// overlap, then booking overlap against the service's parallel-capacity
// limit. Both must pass before a booking row is written.
type ConflictDetector struct {
	bookings  repositories.BookingRepository
	blackouts repositories.BlackoutRepository
}

// NewConflictDetector creates a new conflict detector.
func NewConflictDetector(bookings repositories.BookingRepository, blackouts repositories.BlackoutRepository) *ConflictDetector {
	return &ConflictDetector{bookings: bookings, blackouts: blackouts}
}

// WithTx scopes the detector's queries to a transaction so its reads see
// and block on rows touched by the surrounding booking creation.
func (d *ConflictDetector) WithTx(db repositories.DB) *ConflictDetector {
	return &ConflictDetector{
		bookings:  d.bookings.WithTx(db),
		blackouts: d.blackouts.WithTx(db),
	}
}

// Check validates the proposed booking's interval. A blackout in scope
// fails with *common.BlackoutError; an interval already at capacity fails
// with *common.ConflictError, so callers can present distinct remedies.
func (d *ConflictDetector) Check(ctx context.Context, proposed *models.Booking, maxParallel int) error {
	from, to := proposed.StartsAt, proposed.EndsAt()

	blackout, err := d.blackouts.FindEarliestOverlapping(ctx, proposed.TenantID, from, to,
		proposed.ServiceID, proposed.StaffID, proposed.ResourceID)
	if err != nil {
		return err
	}
	if blackout != nil {
		reason := ""
		if blackout.Reason != nil {
			reason = *blackout.Reason
		}
		return &common.BlackoutError{
			BlackoutID: blackout.ID,
			StartsAt:   blackout.StartsAt,
			EndsAt:     blackout.EndsAt,
			Reason:     reason,
		}
	}

	count, err := d.bookings.CountActiveOverlapping(ctx, proposed.TenantID, from, to,
		proposed.ServiceID, proposed.StaffID, proposed.ResourceID)
	if err != nil {
		return err
	}
	if count >= maxParallel {
		return &common.ConflictError{
			StartsAt: from,
			EndsAt:   to,
			Count:    count,
			Limit:    maxParallel,
		}
	}
	return nil
}
