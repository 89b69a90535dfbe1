package config

import (
	"encoding/json"
	"fmt"
)

// TenantPolicy is the typed booking policy stored on the tenant row.
// Defaults are merged at parse time; services never do ad-hoc key
// lookups against the raw document.
type TenantPolicy struct {
	// RequirePhone makes booking creation fail with a profile-incomplete
	// error when the customer has no phone number on file.
	RequirePhone bool `json:"require_phone"`

	// Remediation lists what a customer may do about an insufficient
	// membership balance: top_up, renew, refuse.
	Remediation RemediationPolicy `json:"remediation"`
}

type RemediationPolicy struct {
	AllowTopUp bool `json:"allow_top_up"`
	AllowRenew bool `json:"allow_renew"`

	// MinTopUpMinutes floors the offered top-up so tiny shortfalls still
	// produce a sensible purchase size.
	MinTopUpMinutes int `json:"min_top_up_minutes"`
}

// DefaultTenantPolicy returns the policy applied when a tenant has not
// configured one.
func DefaultTenantPolicy() TenantPolicy {
	return TenantPolicy{
		RequirePhone: false,
		Remediation: RemediationPolicy{
			AllowTopUp:      true,
			AllowRenew:      true,
			MinTopUpMinutes: 30,
		},
	}
}

// ParseTenantPolicy decodes the tenant's policy document on top of the
// defaults. An empty document yields the defaults unchanged.
func ParseTenantPolicy(raw []byte) (TenantPolicy, error) {
	policy := DefaultTenantPolicy()
	if len(raw) == 0 {
		return policy, nil
	}
	if err := json.Unmarshal(raw, &policy); err != nil {
		return policy, fmt.Errorf("decode tenant policy: %w", err)
	}
	return policy, nil
}

// Options renders the remediation option list for error payloads. A
// policy permitting nothing yields the single option "refuse".
func (p RemediationPolicy) Options() []string {
	var opts []string
	if p.AllowTopUp {
		opts = append(opts, "top_up")
	}
	if p.AllowRenew {
		opts = append(opts, "renew")
	}
	if len(opts) == 0 {
		opts = append(opts, "refuse")
	}
	return opts
}
