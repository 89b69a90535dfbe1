package services

import (
	"context"
	"testing"
	"time"

	"bookwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type RateResolverTestSuite struct {
	suite.Suite
	rules    *MockRateRuleRepository
	resolver *RateResolver
	ctx      context.Context

	tenantID  uuid.UUID
	serviceID uuid.UUID
	staffID   uuid.UUID
}

func (suite *RateResolverTestSuite) SetupTest() {
	suite.rules = &MockRateRuleRepository{}
	suite.resolver = NewRateResolver(suite.rules)
	suite.ctx = context.Background()
	suite.tenantID = uuid.New()
	suite.serviceID = uuid.New()
	suite.staffID = uuid.New()
}

func (suite *RateResolverTestSuite) rule(id int64, priority int, mode string, amount float64) *models.RateRule {
	return &models.RateRule{
		ID:       id,
		TenantID: suite.tenantID,
		Mode:     mode,
		Amount:   amount,
		Priority: priority,
		Active:   true,
	}
}

func (suite *RateResolverTestSuite) expectRules(rules ...*models.RateRule) {
	suite.rules.On("ListActiveMatching", suite.ctx, suite.tenantID, suite.serviceID,
		uuidPtr(suite.staffID), (*uuid.UUID)(nil)).Return(rules, nil)
}

func (suite *RateResolverTestSuite) resolve(startsAt time.Time, duration int, base float64) (*RatePreview, error) {
	return suite.resolver.Resolve(suite.ctx, suite.tenantID, suite.serviceID,
		uuidPtr(suite.staffID), nil, startsAt, time.UTC, duration, base)
}

func (suite *RateResolverTestSuite) TestResolve_NoRules_BasePassesThrough() {
	suite.expectRules()

	preview, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 80)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 80.0, preview.BasePrice)
	assert.Equal(suite.T(), 80.0, preview.AdjustedPrice)
	assert.Nil(suite.T(), preview.AppliedRuleID)
}

func (suite *RateResolverTestSuite) TestResolve_PriorityWins() {
	low := suite.rule(1, 10, models.RateModeFixed, 50)
	high := suite.rule(2, 100, models.RateModeFixed, 40)
	suite.expectRules(low, high)

	preview, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 80)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 40.0, preview.AdjustedPrice)
	assert.Equal(suite.T(), int64(2), *preview.AppliedRuleID)
}

func (suite *RateResolverTestSuite) TestResolve_SpecificityBreaksPriorityTie() {
	broad := suite.rule(1, 100, models.RateModeFixed, 50)
	narrow := suite.rule(2, 100, models.RateModeFixed, 40)
	narrow.ServiceID = uuidPtr(suite.serviceID)
	narrow.StaffID = uuidPtr(suite.staffID)
	suite.expectRules(broad, narrow)

	preview, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 80)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 40.0, preview.AdjustedPrice)
	assert.Equal(suite.T(), int64(2), *preview.AppliedRuleID)
}

func (suite *RateResolverTestSuite) TestResolve_NewestRuleBreaksFullTie() {
	older := suite.rule(7, 100, models.RateModeFixed, 50)
	newer := suite.rule(12, 100, models.RateModeFixed, 45)
	suite.expectRules(older, newer)

	preview, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 80)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(12), *preview.AppliedRuleID)
	assert.Equal(suite.T(), 45.0, preview.AdjustedPrice)
}

func (suite *RateResolverTestSuite) TestResolve_DeltaAndMultiplierModes() {
	delta := suite.rule(1, 50, models.RateModeDelta, -10)
	suite.expectRules(delta)

	preview, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 80)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 70.0, preview.AdjustedPrice)

	suite.SetupTest()
	multiplier := suite.rule(1, 50, models.RateModeMultiplier, 1.5)
	suite.expectRules(multiplier)

	preview, err = suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 80)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 120.0, preview.AdjustedPrice)
}

func (suite *RateResolverTestSuite) TestResolve_MultiplierRoundsToCents() {
	multiplier := suite.rule(1, 50, models.RateModeMultiplier, 1.1)
	suite.expectRules(multiplier)

	preview, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 33.33)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 36.66, preview.AdjustedPrice)
}

func (suite *RateResolverTestSuite) TestResolve_DayOfWeekFilter() {
	weekend := suite.rule(1, 50, models.RateModeMultiplier, 2)
	weekend.DaysOfWeek = []int{int(time.Saturday), int(time.Sunday)}
	suite.expectRules(weekend)

	// September 7th 2026 is a Monday.
	preview, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 80)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 80.0, preview.AdjustedPrice)
	assert.Nil(suite.T(), preview.AppliedRuleID)
}

func (suite *RateResolverTestSuite) TestResolve_TimeWindowWrapsMidnight() {
	late := suite.rule(1, 50, models.RateModeDelta, 15)
	late.TimeStart = stringPtr("22:00")
	late.TimeEnd = stringPtr("02:00")
	suite.expectRules(late)

	inside, err := suite.resolve(time.Date(2026, 9, 7, 23, 30, 0, 0, time.UTC), 60, 80)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 95.0, inside.AdjustedPrice)

	suite.SetupTest()
	late = suite.rule(1, 50, models.RateModeDelta, 15)
	late.TimeStart = stringPtr("22:00")
	late.TimeEnd = stringPtr("02:00")
	suite.expectRules(late)

	earlyMorning, err := suite.resolve(time.Date(2026, 9, 8, 1, 0, 0, 0, time.UTC), 60, 80)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 95.0, earlyMorning.AdjustedPrice)

	suite.SetupTest()
	late = suite.rule(1, 50, models.RateModeDelta, 15)
	late.TimeStart = stringPtr("22:00")
	late.TimeEnd = stringPtr("02:00")
	suite.expectRules(late)

	afternoon, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 80)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 80.0, afternoon.AdjustedPrice)
	assert.Nil(suite.T(), afternoon.AppliedRuleID)
}

func (suite *RateResolverTestSuite) TestResolve_DurationBounds() {
	long := suite.rule(1, 50, models.RateModeMultiplier, 0.9)
	long.MinDuration = intPtr(90)
	suite.expectRules(long)

	short, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 60, 80)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), short.AppliedRuleID)

	suite.SetupTest()
	long = suite.rule(1, 50, models.RateModeMultiplier, 0.9)
	long.MinDuration = intPtr(90)
	suite.expectRules(long)

	qualifying, err := suite.resolve(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), 120, 80)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 72.0, qualifying.AdjustedPrice)
}

func TestRateResolverTestSuite(t *testing.T) {
	suite.Run(t, new(RateResolverTestSuite))
}
