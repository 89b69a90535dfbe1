package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for the booking engine. Handlers map these onto HTTP
// statuses; services wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound covers absent rows and cross-tenant lookups alike, so
	// existence never leaks across tenants.
	ErrNotFound = errors.New("not found")

	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrProfileIncomplete     = errors.New("profile incomplete")
	ErrMembershipNotEligible = errors.New("membership not eligible for this service")
	ErrInternalFault         = errors.New("internal fault")
)

// ValidationError is a malformed-input failure tied to one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports an overlap with existing bookings at capacity.
type ConflictError struct {
	StartsAt time.Time
	EndsAt   time.Time
	Count    int
	Limit    int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict: %d of %d parallel bookings already occupy %s-%s",
		e.Count, e.Limit, e.StartsAt.Format(time.RFC3339), e.EndsAt.Format(time.RFC3339))
}

// BlackoutError reports a closure window overlapping the proposed interval.
type BlackoutError struct {
	BlackoutID uuid.UUID
	StartsAt   time.Time
	EndsAt     time.Time
	Reason     string
}

func (e *BlackoutError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("closed %s-%s: %s",
			e.StartsAt.Format(time.RFC3339), e.EndsAt.Format(time.RFC3339), e.Reason)
	}
	return fmt.Sprintf("closed %s-%s",
		e.StartsAt.Format(time.RFC3339), e.EndsAt.Format(time.RFC3339))
}

// InvalidTransitionError is a status-machine violation; the booking's
// status is left unchanged.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// Remediation options a tenant can offer when a balance falls short.
const (
	RemediationTopUp  = "top_up"
	RemediationRenew  = "renew"
	RemediationRefuse = "refuse"
)

// Remediation describes how a customer can recover from an insufficient
// balance, per tenant policy.
type Remediation struct {
	ShortfallMinutes int      `json:"shortfall_minutes"`
	ShortfallUses    int      `json:"shortfall_uses"`
	Options          []string `json:"options"`
}

// InsufficientBalanceError carries a structured remediation payload so
// clients can present top-up or renewal paths.
type InsufficientBalanceError struct {
	MembershipID uuid.UUID
	Remediation  Remediation
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient membership balance: short %d minutes, %d uses",
		e.Remediation.ShortfallMinutes, e.Remediation.ShortfallUses)
}
