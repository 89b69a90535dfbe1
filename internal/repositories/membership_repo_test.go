package repositories

import (
	"context"
	"testing"
	"time"

	"bookwell/internal/common"
	"bookwell/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type MembershipRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       MembershipRepository
	tenantID   uuid.UUID
	customerID uuid.UUID
	ctx        context.Context
}

func (suite *MembershipRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewMembershipRepo(mock)
	suite.tenantID = uuid.New()
	suite.customerID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *MembershipRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestMembershipRepoTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipRepoTestSuite))
}

func membershipRows(m *models.CustomerMembership) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "tenant_id", "customer_id", "status", "minutes_remaining",
		"uses_remaining", "expires_at", "created_at", "updated_at",
	}).AddRow(m.ID, m.TenantID, m.CustomerID, m.Status, m.MinutesRemaining,
		m.UsesRemaining, m.ExpiresAt, time.Now(), time.Now())
}

func (suite *MembershipRepoTestSuite) TestPickEligibleForUpdate_SelectsOne() {
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	m := &models.CustomerMembership{
		ID:               uuid.New(),
		TenantID:         suite.tenantID,
		CustomerID:       suite.customerID,
		Status:           models.MembershipStatusActive,
		MinutesRemaining: 90,
	}

	suite.mock.ExpectQuery(`SELECT .+ FROM customer_memberships\s+WHERE tenant_id = \$1 AND customer_id = \$2`).
		WithArgs(suite.tenantID, suite.customerID, now).
		WillReturnRows(membershipRows(m))

	got, err := suite.repo.PickEligibleForUpdate(suite.ctx, suite.tenantID, suite.customerID, now)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), m.ID, got.ID)
}

func (suite *MembershipRepoTestSuite) TestPickEligibleForUpdate_NoneIsNotAnError() {
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(`SELECT .+ FROM customer_memberships\s+WHERE tenant_id = \$1 AND customer_id = \$2`).
		WithArgs(suite.tenantID, suite.customerID, now).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "tenant_id", "customer_id", "status", "minutes_remaining",
			"uses_remaining", "expires_at", "created_at", "updated_at",
		}))

	// No eligible membership comes back as nil, nil so the caller can
	// fall through to a paid booking.
	got, err := suite.repo.PickEligibleForUpdate(suite.ctx, suite.tenantID, suite.customerID, now)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *MembershipRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()

	suite.mock.ExpectQuery(`SELECT .+ FROM customer_memberships WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "tenant_id", "customer_id", "status", "minutes_remaining",
			"uses_remaining", "expires_at", "created_at", "updated_at",
		}))

	_, err := suite.repo.GetByID(suite.ctx, suite.tenantID, id)

	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *MembershipRepoTestSuite) TestUpdateBalances_Updates() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE customer_memberships`).
		WithArgs(60, 1, models.MembershipStatusActive, suite.tenantID, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateBalances(suite.ctx, suite.tenantID, id, 60, 1, models.MembershipStatusActive)

	assert.NoError(suite.T(), err)
}

func (suite *MembershipRepoTestSuite) TestUpdateBalances_MissingRow() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE customer_memberships`).
		WithArgs(60, 1, models.MembershipStatusActive, suite.tenantID, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateBalances(suite.ctx, suite.tenantID, id, 60, 1, models.MembershipStatusActive)

	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *MembershipRepoTestSuite) TestExpireElapsed_CountsChangedRows() {
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)

	suite.mock.ExpectExec(`UPDATE customer_memberships\s+SET status = 'expired'`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	count, err := suite.repo.ExpireElapsed(suite.ctx, now)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), count)
}
