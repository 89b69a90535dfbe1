package models

import (
	"time"

	"github.com/google/uuid"
)

// Blackout is an explicit closure window. Nil scope fields are wildcards:
// a blackout with no service/staff/resource blocks every booking in the
// tenant for its interval.
type Blackout struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ServiceID  *uuid.UUID `json:"service_id" db:"service_id"`
	StaffID    *uuid.UUID `json:"staff_id" db:"staff_id"`
	ResourceID *uuid.UUID `json:"resource_id" db:"resource_id"`
	StartsAt   time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt     time.Time  `json:"ends_at" db:"ends_at"`
	Reason     *string    `json:"reason" db:"reason"`
	Active     bool       `json:"active" db:"active"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
