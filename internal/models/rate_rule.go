package models

import (
	"time"

	"github.com/google/uuid"
)

// Rate rule pricing modes.
const (
	RateModeFixed      = "fixed"
	RateModeDelta      = "delta"
	RateModeMultiplier = "multiplier"
)

// RateRule is a conditional pricing override. Nil scope fields are
// wildcards. Serial ids give the resolver a deterministic recency
// tiebreak after priority and specificity.
type RateRule struct {
	ID          int64      `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Name        string     `json:"name" db:"name"`
	ServiceID   *uuid.UUID `json:"service_id" db:"service_id"`
	StaffID     *uuid.UUID `json:"staff_id" db:"staff_id"`
	ResourceID  *uuid.UUID `json:"resource_id" db:"resource_id"`
	DaysOfWeek  []int      `json:"days_of_week" db:"days_of_week"`
	TimeStart   *string    `json:"time_start" db:"time_start"`
	TimeEnd     *string    `json:"time_end" db:"time_end"`
	DateFrom    *time.Time `json:"date_from" db:"date_from"`
	DateTo      *time.Time `json:"date_to" db:"date_to"`
	MinDuration *int       `json:"min_duration" db:"min_duration"`
	MaxDuration *int       `json:"max_duration" db:"max_duration"`
	Mode        string     `json:"mode" db:"mode"`
	Amount      float64    `json:"amount" db:"amount"`
	Priority    int        `json:"priority" db:"priority"`
	Active      bool       `json:"active" db:"active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Specificity scores a rule's scope: narrower scoping wins ties at equal
// priority. Service matches count most, then staff, then resource.
func (r *RateRule) Specificity() int {
	score := 0
	if r.ServiceID != nil {
		score += 10
	}
	if r.StaffID != nil {
		score += 5
	}
	if r.ResourceID != nil {
		score += 3
	}
	return score
}
