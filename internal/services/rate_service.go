package services

import (
	"context"
	"sort"
	"time"

	"bookwell/internal/common"
	"bookwell/internal/models"
	"bookwell/internal/repositories"

	"github.com/google/uuid"
)

// RatePreview is the outcome of rule resolution. AppliedRuleID is nil
// when the base price passed through unchanged.
type RatePreview struct {
	BasePrice     float64 `json:"base_price"`
	AdjustedPrice float64 `json:"adjusted_price"`
	AppliedRuleID *int64  `json:"applied_rule_id,omitempty"`
}

// RateResolver selects the single winning pricing rule for a proposed
// booking. It is a pure function of its inputs and the stored rules, so
// preview calls are always safe.
type RateResolver struct {
	rules repositories.RateRuleRepository
}

// NewRateResolver creates a new rate resolver.
func NewRateResolver(rules repositories.RateRuleRepository) *RateResolver {
	return &RateResolver{rules: rules}
}

// WithTx scopes rule loads to a transaction.
func (r *RateResolver) WithTx(db repositories.DB) *RateResolver {
	return &RateResolver{rules: r.rules.WithTx(db)}
}

// Resolve loads the scope-matching rules, filters them against the
// proposed time and duration in the tenant's local clock, and applies the
// winner to basePrice. Results are rounded to two decimals.
func (r *RateResolver) Resolve(ctx context.Context, tenantID, serviceID uuid.UUID, staffID, resourceID *uuid.UUID, startsAt time.Time, loc *time.Location, durationMinutes int, basePrice float64) (*RatePreview, error) {
	rules, err := r.rules.ListActiveMatching(ctx, tenantID, serviceID, staffID, resourceID)
	if err != nil {
		return nil, err
	}

	local := startsAt.In(loc)
	var matches []*models.RateRule
	for _, rule := range rules {
		if ruleMatches(rule, local, durationMinutes) {
			matches = append(matches, rule)
		}
	}
	preview := &RatePreview{
		BasePrice:     common.RoundMoney(basePrice),
		AdjustedPrice: common.RoundMoney(basePrice),
	}
	if len(matches) == 0 {
		return preview, nil
	}

	// Priority first, specificity breaks ties, newest rule breaks the
	// rest.
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Specificity() != b.Specificity() {
			return a.Specificity() > b.Specificity()
		}
		return a.ID > b.ID
	})
	winner := matches[0]

	adjusted := basePrice
	switch winner.Mode {
	case models.RateModeFixed:
		adjusted = winner.Amount
	case models.RateModeDelta:
		adjusted = basePrice + winner.Amount
	case models.RateModeMultiplier:
		adjusted = basePrice * winner.Amount
	}
	preview.AdjustedPrice = common.RoundMoney(adjusted)
	preview.AppliedRuleID = &winner.ID
	return preview, nil
}

func ruleMatches(rule *models.RateRule, local time.Time, durationMinutes int) bool {
	if len(rule.DaysOfWeek) > 0 {
		found := false
		for _, d := range rule.DaysOfWeek {
			if d == int(local.Weekday()) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if rule.DateFrom != nil && local.Before(*rule.DateFrom) {
		return false
	}
	if rule.DateTo != nil && local.After(*rule.DateTo) {
		return false
	}
	if rule.TimeStart != nil && rule.TimeEnd != nil {
		start, err := common.ParseClock(*rule.TimeStart)
		if err != nil {
			return false
		}
		end, err := common.ParseClock(*rule.TimeEnd)
		if err != nil {
			return false
		}
		minute := local.Hour()*60 + local.Minute()
		if end < start {
			// Window wraps midnight: 22:00-02:00 matches 23:30 and 01:00.
			if minute < start && minute > end {
				return false
			}
		} else if minute < start || minute > end {
			return false
		}
	}
	if rule.MinDuration != nil && durationMinutes < *rule.MinDuration {
		return false
	}
	if rule.MaxDuration != nil && durationMinutes > *rule.MaxDuration {
		return false
	}
	return true
}
