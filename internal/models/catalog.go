package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable offering. Duration and slot interval drive slot
// enumeration; max_parallel caps concurrent bookings per staff/resource.
type Service struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	TenantID             uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name                 string    `json:"name" db:"name"`
	DurationMinutes      int       `json:"duration_minutes" db:"duration_minutes"`
	SlotIntervalMinutes  int       `json:"slot_interval_minutes" db:"slot_interval_minutes"`
	MaxParallel          int       `json:"max_parallel" db:"max_parallel"`
	RequiresConfirmation bool      `json:"requires_confirmation" db:"requires_confirmation"`
	RequiresStaff        bool      `json:"requires_staff" db:"requires_staff"`
	RequiresResource     bool      `json:"requires_resource" db:"requires_resource"`
	MembershipEligible   bool      `json:"membership_eligible" db:"membership_eligible"`
	BasePrice            float64   `json:"base_price" db:"base_price"`
	Active               bool      `json:"active" db:"active"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

type Staff struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Resource struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Email     string    `json:"email" db:"email"`
	Name      *string   `json:"name" db:"name"`
	Phone     *string   `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
