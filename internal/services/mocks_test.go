package services

import (
	"context"
	"time"

	"bookwell/internal/models"
	"bookwell/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeTxManager runs the transactional function directly; repository
// mocks ignore the DB handle anyway.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, db repositories.DB) error) error {
	return fn(ctx, nil)
}

type fakeSignals struct {
	bookingEvents    int
	membershipEvents int
}

func (f *fakeSignals) BookingChanged(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ string) {
	f.bookingEvents++
}

func (f *fakeSignals) MembershipChanged(_ context.Context, _ uuid.UUID, _ uuid.UUID) {
	f.membershipEvents++
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) WithTx(db repositories.DB) repositories.TenantRepository {
	return m
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetService(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockCatalogRepository) GetStaff(ctx context.Context, tenantID, id uuid.UUID) (*models.Staff, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Staff), args.Error(1)
}

func (m *MockCatalogRepository) GetResource(ctx context.Context, tenantID, id uuid.UUID) (*models.Resource, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *MockCatalogRepository) WithTx(db repositories.DB) repositories.CatalogRepository {
	return m
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.Customer, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) WithTx(db repositories.DB) repositories.CustomerRepository {
	return m
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) InsertIdempotent(ctx context.Context, booking *models.Booking) (bool, error) {
	args := m.Called(ctx, booking)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*models.Booking, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) ListActiveOverlapping(ctx context.Context, tenantID uuid.UUID, from, to time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, from, to, serviceID, staffID, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountActiveOverlapping(ctx context.Context, tenantID uuid.UUID, from, to time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID, from, to, serviceID, staffID, resourceID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, limit, offset int) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) WithTx(db repositories.DB) repositories.BookingRepository {
	return m
}

type MockBlackoutRepository struct {
	mock.Mock
}

func (m *MockBlackoutRepository) FindEarliestOverlapping(ctx context.Context, tenantID uuid.UUID, from, to time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) (*models.Blackout, error) {
	args := m.Called(ctx, tenantID, from, to, serviceID, staffID, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blackout), args.Error(1)
}

func (m *MockBlackoutRepository) WithTx(db repositories.DB) repositories.BlackoutRepository {
	return m
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.CustomerMembership, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerMembership), args.Error(1)
}

func (m *MockMembershipRepository) GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.CustomerMembership, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerMembership), args.Error(1)
}

func (m *MockMembershipRepository) PickEligibleForUpdate(ctx context.Context, tenantID, customerID uuid.UUID, now time.Time) (*models.CustomerMembership, error) {
	args := m.Called(ctx, tenantID, customerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerMembership), args.Error(1)
}

func (m *MockMembershipRepository) UpdateBalances(ctx context.Context, tenantID, id uuid.UUID, minutes, uses int, status string) error {
	args := m.Called(ctx, tenantID, id, minutes, uses, status)
	return args.Error(0)
}

func (m *MockMembershipRepository) ExpireElapsed(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMembershipRepository) WithTx(db repositories.DB) repositories.MembershipRepository {
	return m
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) InsertDebit(ctx context.Context, entry *models.LedgerEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) InsertCredit(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetDebitForBooking(ctx context.Context, membershipID, bookingID uuid.UUID) (*models.LedgerEntry, error) {
	args := m.Called(ctx, membershipID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumDeltas(ctx context.Context, membershipID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, membershipID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockLedgerRepository) ListByMembership(ctx context.Context, tenantID, membershipID uuid.UUID, limit, offset int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, membershipID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) WithTx(db repositories.DB) repositories.LedgerRepository {
	return m
}

type MockRateRuleRepository struct {
	mock.Mock
}

func (m *MockRateRuleRepository) ListActiveMatching(ctx context.Context, tenantID, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) ([]*models.RateRule, error) {
	args := m.Called(ctx, tenantID, serviceID, staffID, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RateRule), args.Error(1)
}

func (m *MockRateRuleRepository) WithTx(db repositories.DB) repositories.RateRuleRepository {
	return m
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }
func uuidPtr(u uuid.UUID) *uuid.UUID {
	return &u
}
