package services

import (
	"context"
	"time"

	"bookwell/internal/caching"
	"bookwell/internal/common"
	"bookwell/internal/models"
	"bookwell/internal/repositories"

	"github.com/google/uuid"
)

// MembershipServiceInterface exposes the manual entitlement operations:
// top-ups and the ledger statement. Debits stay with the booking
// orchestrator.
type MembershipServiceInterface interface {
	TopUp(ctx context.Context, tenantID, membershipID uuid.UUID, minutes, uses int, note *string) (*models.CustomerMembership, error)
	GetMembership(ctx context.Context, tenantID, membershipID uuid.UUID) (*models.CustomerMembership, error)
	LedgerStatement(ctx context.Context, tenantID, membershipID uuid.UUID, limit, offset int) ([]*models.LedgerEntry, error)
}

type membershipService struct {
	txm         repositories.TxManager
	memberships repositories.MembershipRepository
	ledgerRepo  repositories.LedgerRepository
	ledger      *LedgerEngine
	signals     caching.SignalPublisher
}

// NewMembershipService creates a new membership service.
func NewMembershipService(txm repositories.TxManager, memberships repositories.MembershipRepository, ledgerRepo repositories.LedgerRepository, ledger *LedgerEngine, signals caching.SignalPublisher) MembershipServiceInterface {
	return &membershipService{
		txm:         txm,
		memberships: memberships,
		ledgerRepo:  ledgerRepo,
		ledger:      ledger,
		signals:     signals,
	}
}

// TopUp appends a positive ledger entry and recomputes the cached
// balance in the same transaction, under a row lock on the membership.
func (s *membershipService) TopUp(ctx context.Context, tenantID, membershipID uuid.UUID, minutes, uses int, note *string) (*models.CustomerMembership, error) {
	if minutes < 0 {
		return nil, common.NewValidationError("minutes", "must not be negative")
	}
	if uses < 0 {
		return nil, common.NewValidationError("uses", "must not be negative")
	}
	if minutes == 0 && uses == 0 {
		return nil, common.NewValidationError("minutes", "top-up must add minutes or uses")
	}

	var membership *models.CustomerMembership
	err := s.txm.RunInTx(ctx, func(ctx context.Context, db repositories.DB) error {
		memberships := s.memberships.WithTx(db)
		ledger := s.ledger.WithTx(db)

		m, err := memberships.GetByIDForUpdate(ctx, tenantID, membershipID)
		if err != nil {
			return err
		}
		if m.Status == models.MembershipStatusArchived {
			return common.NewValidationError("membership_id", "membership is archived")
		}
		if _, err := ledger.Credit(ctx, m, models.LedgerEntryTopUp, minutes, uses, note); err != nil {
			return err
		}
		if _, _, err := ledger.RecomputeBalance(ctx, m, time.Now()); err != nil {
			return err
		}
		membership = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.signals.MembershipChanged(ctx, tenantID, membershipID)
	return membership, nil
}

func (s *membershipService) GetMembership(ctx context.Context, tenantID, membershipID uuid.UUID) (*models.CustomerMembership, error) {
	return s.memberships.GetByID(ctx, tenantID, membershipID)
}

func (s *membershipService) LedgerStatement(ctx context.Context, tenantID, membershipID uuid.UUID, limit, offset int) ([]*models.LedgerEntry, error) {
	if _, err := s.memberships.GetByID(ctx, tenantID, membershipID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledgerRepo.ListByMembership(ctx, tenantID, membershipID, limit, offset)
}
