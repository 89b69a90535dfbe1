package models

import (
	"time"

	"github.com/google/uuid"
)

// WeekdayHours is one weekday's open/close window in the tenant's local
// clock ("HH:MM"). A window whose close is not after its open wraps past
// midnight into the next day.
type WeekdayHours struct {
	Closed bool   `json:"closed"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
}

// OperatingHours holds seven entries indexed by time.Weekday (0 = Sunday).
type OperatingHours [7]WeekdayHours

// ForDay returns the hours for the given weekday.
func (h OperatingHours) ForDay(d time.Weekday) WeekdayHours {
	return h[int(d)]
}

type Tenant struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	Slug           string         `json:"slug" db:"slug"`
	Name           string         `json:"name" db:"name"`
	Timezone       string         `json:"timezone" db:"timezone"`
	OperatingHours OperatingHours `json:"operating_hours" db:"operating_hours"`
	Policy         []byte         `json:"-" db:"policy"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// Location resolves the tenant's timezone, falling back to UTC when the
// stored name is unknown.
func (t *Tenant) Location() *time.Location {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
