package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, CanTransitionTo(BookingStatusPending, BookingStatusConfirmed))
	assert.True(t, CanTransitionTo(BookingStatusPending, BookingStatusCancelled))
	assert.True(t, CanTransitionTo(BookingStatusConfirmed, BookingStatusCancelled))

	assert.False(t, CanTransitionTo(BookingStatusConfirmed, BookingStatusPending))
	assert.False(t, CanTransitionTo(BookingStatusCancelled, BookingStatusPending))
	assert.False(t, CanTransitionTo(BookingStatusCancelled, BookingStatusConfirmed))

	// Same-state moves are always allowed; callers treat them as no-ops.
	assert.True(t, CanTransitionTo(BookingStatusCancelled, BookingStatusCancelled))
}

func TestOverlaps_HalfOpenIntervals(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 9, 7, h, m, 0, 0, time.UTC)
	}

	assert.True(t, Overlaps(at(10, 0), at(11, 0), at(10, 30), at(11, 30)))
	assert.True(t, Overlaps(at(10, 0), at(12, 0), at(10, 30), at(11, 0)))

	// Touching endpoints do not overlap.
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(11, 0), at(12, 0)))
	assert.False(t, Overlaps(at(11, 0), at(12, 0), at(10, 0), at(11, 0)))
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(13, 0), at(14, 0)))
}

func TestEndsAt(t *testing.T) {
	b := &Booking{
		StartsAt:        time.Date(2026, 9, 7, 23, 30, 0, 0, time.UTC),
		DurationMinutes: 45,
	}
	assert.Equal(t, time.Date(2026, 9, 8, 0, 15, 0, 0, time.UTC), b.EndsAt())
}

func TestCustomerMembership_Expired(t *testing.T) {
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)

	open := &CustomerMembership{}
	assert.False(t, open.Expired(now))

	future := now.Add(time.Hour)
	assert.False(t, (&CustomerMembership{ExpiresAt: &future}).Expired(now))

	assert.True(t, (&CustomerMembership{ExpiresAt: &now}).Expired(now))
	past := now.Add(-time.Hour)
	assert.True(t, (&CustomerMembership{ExpiresAt: &past}).Expired(now))
}
