package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"bookwell/internal/models"

	"github.com/google/uuid"
)

type RateRuleRepository interface {
	// ListActiveMatching returns active rules whose scope fields are
	// wildcards or equal to the given ids. Time/day/duration filtering
	// happens in the resolver so rule evaluation stays a pure function.
	ListActiveMatching(ctx context.Context, tenantID, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) ([]*models.RateRule, error)
	WithTx(db DB) RateRuleRepository
}

type rateRuleRepo struct {
	db DB
}

func NewRateRuleRepo(db DB) RateRuleRepository {
	return &rateRuleRepo{db: db}
}

func (r *rateRuleRepo) WithTx(db DB) RateRuleRepository {
	return &rateRuleRepo{db: db}
}

func (r *rateRuleRepo) ListActiveMatching(ctx context.Context, tenantID, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) ([]*models.RateRule, error) {
	query := `
		SELECT id, tenant_id, name, service_id, staff_id, resource_id, days_of_week,
		       time_start, time_end, date_from, date_to, min_duration, max_duration,
		       mode, amount, priority, active, created_at, updated_at
		FROM rate_rules
		WHERE tenant_id = $1
		  AND active
		  AND (service_id IS NULL OR service_id = $2)
		  AND (staff_id IS NULL OR staff_id = $3)
		  AND (resource_id IS NULL OR resource_id = $4)
	`
	rows, err := r.db.Query(ctx, query, tenantID, serviceID, staffID, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*models.RateRule
	for rows.Next() {
		rule := &models.RateRule{}
		var days []byte
		if err := rows.Scan(
			&rule.ID, &rule.TenantID, &rule.Name, &rule.ServiceID, &rule.StaffID, &rule.ResourceID,
			&days, &rule.TimeStart, &rule.TimeEnd, &rule.DateFrom, &rule.DateTo,
			&rule.MinDuration, &rule.MaxDuration, &rule.Mode, &rule.Amount, &rule.Priority,
			&rule.Active, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(days) > 0 {
			if err := json.Unmarshal(days, &rule.DaysOfWeek); err != nil {
				return nil, fmt.Errorf("decode days_of_week for rule %d: %w", rule.ID, err)
			}
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
