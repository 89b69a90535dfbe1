package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookwell/internal/caching"
	"bookwell/internal/common"
	"bookwell/internal/config"
	"bookwell/internal/models"
	"bookwell/internal/repositories"

	"github.com/google/uuid"
)

// creationGracePeriod is how far in the past a start time may lie before
// the request is rejected; it absorbs clock skew and slow submissions.
const creationGracePeriod = 60 * time.Second

// BookingServiceInterface is the booking orchestrator: it composes the
// conflict detector, rate resolver and ledger engine into one atomic
// create operation and owns the booking status machine.
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.BookingResult, error)
	ChangeStatus(ctx context.Context, tenantID, bookingID uuid.UUID, target string) (*models.Booking, error)
	GetBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error)
	ListCustomerBookings(ctx context.Context, tenantID uuid.UUID, customerEmail string, limit, offset int) ([]*models.Booking, error)
}

type bookingService struct {
	txm         repositories.TxManager
	tenants     repositories.TenantRepository
	catalog     repositories.CatalogRepository
	customers   repositories.CustomerRepository
	bookings    repositories.BookingRepository
	memberships repositories.MembershipRepository
	conflicts   *ConflictDetector
	rates       *RateResolver
	ledger      *LedgerEngine
	signals     caching.SignalPublisher
}

// NewBookingService creates the booking orchestrator.
func NewBookingService(
	txm repositories.TxManager,
	tenants repositories.TenantRepository,
	catalog repositories.CatalogRepository,
	customers repositories.CustomerRepository,
	bookings repositories.BookingRepository,
	memberships repositories.MembershipRepository,
	conflicts *ConflictDetector,
	rates *RateResolver,
	ledger *LedgerEngine,
	signals caching.SignalPublisher,
) BookingServiceInterface {
	return &bookingService{
		txm:         txm,
		tenants:     tenants,
		catalog:     catalog,
		customers:   customers,
		bookings:    bookings,
		memberships: memberships,
		conflicts:   conflicts,
		rates:       rates,
		ledger:      ledger,
		signals:     signals,
	}
}

// CreateBooking runs the whole creation pipeline inside one transaction:
// resolve customer, enforce tenant policy, check conflicts, select and
// debit a membership, price, and persist under the idempotency key. Any
// failure rolls everything back; a key collision returns the previously
// committed booking with Replay set.
func (s *bookingService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.BookingResult, error) {
	if req.IdempotencyKey == "" {
		return nil, common.NewValidationError("idempotency_key", "is required")
	}
	if req.CustomerEmail == "" {
		return nil, common.ErrUnauthenticated
	}
	now := time.Now()
	if now.Sub(req.StartsAt) > creationGracePeriod {
		return nil, common.NewValidationError("starts_at", "must not be in the past")
	}

	tenant, err := s.tenants.GetByID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	policy, err := config.ParseTenantPolicy(tenant.Policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfiguration, err)
	}

	var result *models.BookingResult
	err = s.txm.RunInTx(ctx, func(ctx context.Context, db repositories.DB) error {
		var txErr error
		result, txErr = s.createInTx(ctx, db, tenant, policy, req, now)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	if !result.Replay {
		s.signals.BookingChanged(ctx, tenant.ID, result.Booking.ID, result.Booking.Status)
	}
	return result, nil
}

func (s *bookingService) createInTx(ctx context.Context, db repositories.DB, tenant *models.Tenant, policy config.TenantPolicy, req *models.BookingRequest, now time.Time) (*models.BookingResult, error) {
	bookings := s.bookings.WithTx(db)
	customers := s.customers.WithTx(db)
	catalog := s.catalog.WithTx(db)
	memberships := s.memberships.WithTx(db)
	conflicts := s.conflicts.WithTx(db)
	rates := s.rates.WithTx(db)
	ledger := s.ledger.WithTx(db)

	// A retry of an already committed create must replay that result
	// before any other check runs; the prior booking occupies its own
	// slot and would otherwise trip the conflict detector.
	prior, err := bookings.GetByIdempotencyKey(ctx, tenant.ID, req.IdempotencyKey)
	if err == nil {
		return &models.BookingResult{Booking: prior, Replay: true}, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	customer, err := s.resolveCustomer(ctx, customers, tenant.ID, req)
	if err != nil {
		return nil, err
	}
	if policy.RequirePhone && (customer.Phone == nil || *customer.Phone == "") {
		return nil, common.ErrProfileIncomplete
	}

	svc, err := catalog.GetService(ctx, tenant.ID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, common.ErrNotFound
	}
	if svc.DurationMinutes <= 0 || svc.SlotIntervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: service %s has non-positive duration or slot interval", common.ErrInvalidConfiguration, svc.ID)
	}
	duration := svc.DurationMinutes
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, common.NewValidationError("duration_minutes", "must be positive")
		}
		duration = *req.DurationMinutes
	}
	if svc.RequiresStaff && req.StaffID == nil {
		return nil, common.NewValidationError("staff_id", "is required for this service")
	}
	if svc.RequiresResource && req.ResourceID == nil {
		return nil, common.NewValidationError("resource_id", "is required for this service")
	}
	if req.StaffID != nil {
		if _, err := catalog.GetStaff(ctx, tenant.ID, *req.StaffID); err != nil {
			return nil, err
		}
	}
	if req.ResourceID != nil {
		if _, err := catalog.GetResource(ctx, tenant.ID, *req.ResourceID); err != nil {
			return nil, err
		}
	}

	status := models.BookingStatusConfirmed
	if svc.RequiresConfirmation {
		status = models.BookingStatusPending
	}
	booking := &models.Booking{
		ID:              uuid.New(),
		TenantID:        tenant.ID,
		ServiceID:       svc.ID,
		StaffID:         req.StaffID,
		ResourceID:      req.ResourceID,
		CustomerID:      customer.ID,
		StartsAt:        req.StartsAt,
		DurationMinutes: duration,
		Status:          status,
		IdempotencyKey:  req.IdempotencyKey,
		Notes:           req.Notes,
	}

	if err := conflicts.Check(ctx, booking, svc.MaxParallel); err != nil {
		return nil, err
	}

	membership, debitMinutes, debitUses, err := s.selectMembership(ctx, memberships, tenant.ID, customer.ID, svc, req, policy, duration, now)
	if err != nil {
		return nil, err
	}

	base := svc.BasePrice
	if duration != svc.DurationMinutes {
		base = base * float64(duration) / float64(svc.DurationMinutes)
	}
	preview, err := rates.Resolve(ctx, tenant.ID, svc.ID, req.StaffID, req.ResourceID, req.StartsAt, tenant.Location(), duration, base)
	if err != nil {
		return nil, err
	}
	booking.ListPrice = preview.AdjustedPrice
	booking.ChargedAmount = preview.AdjustedPrice
	if membership != nil {
		booking.MembershipID = &membership.ID
		booking.ChargedAmount = 0
	}

	inserted, err := bookings.InsertIdempotent(ctx, booking)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// A concurrent first attempt with the same key committed between
		// the early lookup and this insert; adopt its row.
		prior, err := bookings.GetByIdempotencyKey(ctx, tenant.ID, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		return &models.BookingResult{Booking: prior, Replay: true}, nil
	}

	if membership != nil {
		if _, _, err := ledger.Debit(ctx, membership, booking.ID, debitMinutes, debitUses, "booking debit"); err != nil {
			return nil, err
		}
		rawMinutes, rawUses, err := ledger.RecomputeBalance(ctx, membership, now)
		if err != nil {
			return nil, err
		}
		// Races between step-8 eligibility and this recompute surface
		// here: a negative raw sum means another transaction spent the
		// balance first, so the whole creation rolls back.
		if rawMinutes < 0 || rawUses < 0 {
			return nil, s.insufficientBalance(membership, policy, duration)
		}
	}
	return &models.BookingResult{Booking: booking, Replay: false}, nil
}

func (s *bookingService) resolveCustomer(ctx context.Context, customers repositories.CustomerRepository, tenantID uuid.UUID, req *models.BookingRequest) (*models.Customer, error) {
	customer, err := customers.GetByEmail(ctx, tenantID, req.CustomerEmail)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	customer = &models.Customer{
		ID:       uuid.New(),
		TenantID: tenantID,
		Email:    req.CustomerEmail,
		Name:     req.CustomerName,
		Phone:    req.CustomerPhone,
	}
	if err := customers.Create(ctx, customer); err != nil {
		// Two first bookings for the same new customer can race on the
		// email uniqueness; the loser adopts the committed row.
		if repositories.IsUniqueViolation(err) {
			return customers.GetByEmail(ctx, tenantID, req.CustomerEmail)
		}
		return nil, err
	}
	return customer, nil
}

// selectMembership picks and locks the entitlement to consume, and
// decides the debit. Nil membership means the booking proceeds paid.
func (s *bookingService) selectMembership(ctx context.Context, memberships repositories.MembershipRepository, tenantID, customerID uuid.UUID, svc *models.Service, req *models.BookingRequest, policy config.TenantPolicy, duration int, now time.Time) (*models.CustomerMembership, int, int, error) {
	wanted := req.MembershipID != nil || req.AutoMembership
	if !wanted {
		return nil, 0, 0, nil
	}
	if !svc.MembershipEligible {
		if req.MembershipRequired {
			return nil, 0, 0, common.ErrMembershipNotEligible
		}
		return nil, 0, 0, nil
	}

	var membership *models.CustomerMembership
	var err error
	if req.MembershipID != nil {
		membership, err = memberships.GetByIDForUpdate(ctx, tenantID, *req.MembershipID)
		if err != nil {
			return nil, 0, 0, err
		}
		// A membership owned by another customer must look absent.
		if membership.CustomerID != customerID {
			return nil, 0, 0, common.ErrNotFound
		}
	} else {
		membership, err = memberships.PickEligibleForUpdate(ctx, tenantID, customerID, now)
		if err != nil {
			return nil, 0, 0, err
		}
	}

	if membership != nil && membership.Status == models.MembershipStatusActive && !membership.Expired(now) {
		if membership.MinutesRemaining >= duration {
			return membership, duration, 0, nil
		}
		if membership.UsesRemaining >= 1 {
			return membership, 0, 1, nil
		}
	}
	if req.MembershipRequired {
		return nil, 0, 0, s.insufficientBalance(membership, policy, duration)
	}
	return nil, 0, 0, nil
}

func (s *bookingService) insufficientBalance(membership *models.CustomerMembership, policy config.TenantPolicy, duration int) error {
	remediation := common.Remediation{
		ShortfallMinutes: duration,
		ShortfallUses:    1,
		Options:          policy.Remediation.Options(),
	}
	e := &common.InsufficientBalanceError{Remediation: remediation}
	if membership != nil {
		e.MembershipID = membership.ID
		remaining := max(0, membership.MinutesRemaining)
		e.Remediation.ShortfallMinutes = max(0, duration-remaining)
		if e.Remediation.ShortfallMinutes < policy.Remediation.MinTopUpMinutes {
			e.Remediation.ShortfallMinutes = policy.Remediation.MinTopUpMinutes
		}
	}
	return e
}

// ChangeStatus applies one status-machine transition under a row lock.
// Transitions to the current status succeed without side effects.
func (s *bookingService) ChangeStatus(ctx context.Context, tenantID, bookingID uuid.UUID, target string) (*models.Booking, error) {
	switch target {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCancelled:
	default:
		return nil, common.NewValidationError("status", "must be pending, confirmed or cancelled")
	}

	var booking *models.Booking
	changed := false
	err := s.txm.RunInTx(ctx, func(ctx context.Context, db repositories.DB) error {
		bookings := s.bookings.WithTx(db)
		current, err := bookings.GetByIDForUpdate(ctx, tenantID, bookingID)
		if err != nil {
			return err
		}
		if current.Status == target {
			booking = current
			return nil
		}
		if !models.CanTransitionTo(current.Status, target) {
			return &common.InvalidTransitionError{From: current.Status, To: target}
		}
		if err := bookings.UpdateStatus(ctx, tenantID, bookingID, target); err != nil {
			return err
		}
		current.Status = target
		booking = current
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.signals.BookingChanged(ctx, tenantID, booking.ID, booking.Status)
	}
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, tenantID, bookingID)
}

func (s *bookingService) ListCustomerBookings(ctx context.Context, tenantID uuid.UUID, customerEmail string, limit, offset int) ([]*models.Booking, error) {
	customer, err := s.customers.GetByEmail(ctx, tenantID, customerEmail)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByCustomer(ctx, tenantID, customer.ID, limit, offset)
}
