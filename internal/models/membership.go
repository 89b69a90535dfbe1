package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MembershipStatusActive   = "active"
	MembershipStatusExpired  = "expired"
	MembershipStatusArchived = "archived"
)

// Ledger entry types. Entries are append-only; balances on the membership
// row are a cache recomputed from the ledger after every insert.
const (
	LedgerEntryGrant = "grant"
	LedgerEntryDebit = "debit"
	LedgerEntryTopUp = "topup"
)

// CustomerMembership is a pre-paid entitlement. MinutesRemaining and
// UsesRemaining mirror the ledger sum clamped at zero; the ledger stays
// the source of truth.
type CustomerMembership struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	TenantID         uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	CustomerID       uuid.UUID  `json:"customer_id" db:"customer_id"`
	Status           string     `json:"status" db:"status"`
	MinutesRemaining int        `json:"minutes_remaining" db:"minutes_remaining"`
	UsesRemaining    int        `json:"uses_remaining" db:"uses_remaining"`
	ExpiresAt        *time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Expired reports whether the membership's time window has elapsed.
func (m *CustomerMembership) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && !m.ExpiresAt.After(now)
}

type LedgerEntry struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	MembershipID uuid.UUID  `json:"membership_id" db:"membership_id"`
	BookingID    *uuid.UUID `json:"booking_id" db:"booking_id"`
	EntryType    string     `json:"entry_type" db:"entry_type"`
	MinutesDelta int        `json:"minutes_delta" db:"minutes_delta"`
	UsesDelta    int        `json:"uses_delta" db:"uses_delta"`
	Note         *string    `json:"note" db:"note"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
