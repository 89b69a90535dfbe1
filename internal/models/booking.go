package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses. The machine is pending -> {confirmed, cancelled},
// confirmed -> cancelled, cancelled terminal. Same-state transitions are
// no-op successes.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	TenantID        uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ServiceID       uuid.UUID  `json:"service_id" db:"service_id"`
	StaffID         *uuid.UUID `json:"staff_id" db:"staff_id"`
	ResourceID      *uuid.UUID `json:"resource_id" db:"resource_id"`
	CustomerID      uuid.UUID  `json:"customer_id" db:"customer_id"`
	MembershipID    *uuid.UUID `json:"membership_id" db:"membership_id"`
	StartsAt        time.Time  `json:"starts_at" db:"starts_at"`
	DurationMinutes int        `json:"duration_minutes" db:"duration_minutes"`
	Status          string     `json:"status" db:"status"`
	ListPrice       float64    `json:"list_price" db:"list_price"`
	ChargedAmount   float64    `json:"charged_amount" db:"charged_amount"`
	IdempotencyKey  string     `json:"idempotency_key" db:"idempotency_key"`
	Notes           *string    `json:"notes" db:"notes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// EndsAt is the exclusive end of the booking's interval.
func (b *Booking) EndsAt() time.Time {
	return b.StartsAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// CanTransitionTo reports whether the status machine permits moving to
// target. A same-state move is always permitted.
func CanTransitionTo(current, target string) bool {
	if current == target {
		return true
	}
	switch current {
	case BookingStatusPending:
		return target == BookingStatusConfirmed || target == BookingStatusCancelled
	case BookingStatusConfirmed:
		return target == BookingStatusCancelled
	default:
		return false
	}
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// BookingRequest is the input to booking creation. Customer identity
// fields come from the identity middleware, not the client payload.
type BookingRequest struct {
	TenantID        uuid.UUID
	ServiceID       uuid.UUID
	StaffID         *uuid.UUID
	ResourceID      *uuid.UUID
	StartsAt        time.Time
	DurationMinutes *int
	IdempotencyKey  string
	Notes           *string

	// Membership consumption: explicit id, or auto-select. Required makes
	// a failed selection abort instead of falling back to a paid booking.
	MembershipID       *uuid.UUID
	AutoMembership     bool
	MembershipRequired bool

	CustomerEmail string
	CustomerName  *string
	CustomerPhone *string
}

// BookingResult pairs a booking with a replay marker: true when the
// idempotency key matched a previously committed row.
type BookingResult struct {
	Booking *Booking `json:"booking"`
	Replay  bool     `json:"replay"`
}
