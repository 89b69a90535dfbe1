package services

import (
	"context"
	"testing"

	"bookwell/internal/common"
	"bookwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MembershipServiceTestSuite struct {
	suite.Suite
	memberships *MockMembershipRepository
	ledger      *MockLedgerRepository
	signals     *fakeSignals
	service     MembershipServiceInterface
	ctx         context.Context

	tenantID     uuid.UUID
	membershipID uuid.UUID
}

func (suite *MembershipServiceTestSuite) SetupTest() {
	suite.memberships = &MockMembershipRepository{}
	suite.ledger = &MockLedgerRepository{}
	suite.signals = &fakeSignals{}
	suite.service = NewMembershipService(
		fakeTxManager{},
		suite.memberships,
		suite.ledger,
		NewLedgerEngine(suite.ledger, suite.memberships),
		suite.signals,
	)
	suite.ctx = context.Background()
	suite.tenantID = uuid.New()
	suite.membershipID = uuid.New()
}

func (suite *MembershipServiceTestSuite) membership(status string) *models.CustomerMembership {
	return &models.CustomerMembership{
		ID:         suite.membershipID,
		TenantID:   suite.tenantID,
		CustomerID: uuid.New(),
		Status:     status,
	}
}

func (suite *MembershipServiceTestSuite) TestTopUp_CreditsAndRecomputes() {
	membership := suite.membership(models.MembershipStatusExpired)

	suite.memberships.On("GetByIDForUpdate", suite.ctx, suite.tenantID, suite.membershipID).
		Return(membership, nil)
	suite.ledger.On("InsertCredit", suite.ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.MembershipID == suite.membershipID &&
			e.EntryType == models.LedgerEntryTopUp &&
			e.MinutesDelta == 120 && e.UsesDelta == 0
	})).Return(nil)
	suite.ledger.On("SumDeltas", suite.ctx, suite.membershipID).Return(120, 0, nil)
	suite.memberships.On("UpdateBalances", suite.ctx, suite.tenantID, suite.membershipID,
		120, 0, models.MembershipStatusActive).Return(nil)

	result, err := suite.service.TopUp(suite.ctx, suite.tenantID, suite.membershipID, 120, 0, nil)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 120, result.MinutesRemaining)
	assert.Equal(suite.T(), models.MembershipStatusActive, result.Status)
	assert.Equal(suite.T(), 1, suite.signals.membershipEvents)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *MembershipServiceTestSuite) TestTopUp_ArchivedRejected() {
	membership := suite.membership(models.MembershipStatusArchived)

	suite.memberships.On("GetByIDForUpdate", suite.ctx, suite.tenantID, suite.membershipID).
		Return(membership, nil)

	_, err := suite.service.TopUp(suite.ctx, suite.tenantID, suite.membershipID, 60, 0, nil)

	var validationErr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
	suite.ledger.AssertNotCalled(suite.T(), "InsertCredit")
	assert.Equal(suite.T(), 0, suite.signals.membershipEvents)
}

func (suite *MembershipServiceTestSuite) TestTopUp_ZeroAmountsRejected() {
	_, err := suite.service.TopUp(suite.ctx, suite.tenantID, suite.membershipID, 0, 0, nil)

	var validationErr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
	suite.memberships.AssertNotCalled(suite.T(), "GetByIDForUpdate")
}

func (suite *MembershipServiceTestSuite) TestTopUp_NegativeMinutesRejected() {
	_, err := suite.service.TopUp(suite.ctx, suite.tenantID, suite.membershipID, -30, 0, nil)

	var validationErr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
}

func (suite *MembershipServiceTestSuite) TestLedgerStatement_ClampsPagination() {
	membership := suite.membership(models.MembershipStatusActive)
	entries := []*models.LedgerEntry{{ID: uuid.New(), MembershipID: suite.membershipID}}

	suite.memberships.On("GetByID", suite.ctx, suite.tenantID, suite.membershipID).
		Return(membership, nil)
	suite.ledger.On("ListByMembership", suite.ctx, suite.tenantID, suite.membershipID, 50, 0).
		Return(entries, nil)

	result, err := suite.service.LedgerStatement(suite.ctx, suite.tenantID, suite.membershipID, -1, -5)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *MembershipServiceTestSuite) TestLedgerStatement_UnknownMembership() {
	suite.memberships.On("GetByID", suite.ctx, suite.tenantID, suite.membershipID).
		Return(nil, common.ErrNotFound)

	_, err := suite.service.LedgerStatement(suite.ctx, suite.tenantID, suite.membershipID, 50, 0)

	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
	suite.ledger.AssertNotCalled(suite.T(), "ListByMembership")
}

func TestMembershipServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipServiceTestSuite))
}
