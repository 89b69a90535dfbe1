package services

import (
	"context"
	"fmt"
	"time"

	"bookwell/internal/common"
	"bookwell/internal/models"
	"bookwell/internal/repositories"

	"github.com/google/uuid"
)

// Slot is one candidate start time on the requested date. Clock is the
// tenant-local start wrapped onto the 24h dial even when the underlying
// interval crosses midnight.
type Slot struct {
	StartsAt  time.Time `json:"starts_at"`
	Clock     string    `json:"clock"`
	Available bool      `json:"available"`
}

// SlotResult is the computed slot sequence plus the service parameters
// the client needs to render it.
type SlotResult struct {
	Date                string `json:"date"`
	DurationMinutes     int    `json:"duration_minutes"`
	SlotIntervalMinutes int    `json:"slot_interval_minutes"`
	Slots               []Slot `json:"slots"`
}

// SlotServiceInterface derives bookable start times from tenant operating
// hours, service duration/interval and existing bookings. Read-only; runs
// at default isolation with no locks.
type SlotServiceInterface interface {
	ComputeSlots(ctx context.Context, tenantID uuid.UUID, date time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) (*SlotResult, error)
}

type slotService struct {
	tenants  repositories.TenantRepository
	catalog  repositories.CatalogRepository
	bookings repositories.BookingRepository
}

// NewSlotService creates a new slot calculator.
func NewSlotService(tenants repositories.TenantRepository, catalog repositories.CatalogRepository, bookings repositories.BookingRepository) SlotServiceInterface {
	return &slotService{tenants: tenants, catalog: catalog, bookings: bookings}
}

func (s *slotService) ComputeSlots(ctx context.Context, tenantID uuid.UUID, date time.Time, serviceID uuid.UUID, staffID, resourceID *uuid.UUID) (*SlotResult, error) {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	svc, err := s.catalog.GetService(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, common.ErrNotFound
	}
	if svc.SlotIntervalMinutes <= 0 || svc.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service %s has non-positive duration or slot interval", common.ErrInvalidConfiguration, svc.ID)
	}
	if staffID != nil {
		if _, err := s.catalog.GetStaff(ctx, tenantID, *staffID); err != nil {
			return nil, err
		}
	}
	if resourceID != nil {
		if _, err := s.catalog.GetResource(ctx, tenantID, *resourceID); err != nil {
			return nil, err
		}
	}

	loc := tenant.Location()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	result := &SlotResult{
		Date:                day.Format("2006-01-02"),
		DurationMinutes:     svc.DurationMinutes,
		SlotIntervalMinutes: svc.SlotIntervalMinutes,
		Slots:               []Slot{},
	}

	// A service needing a staff member or resource with none supplied has
	// nothing to offer; this is a safe empty result, not an error.
	if (svc.RequiresStaff && staffID == nil) || (svc.RequiresResource && resourceID == nil) {
		return result, nil
	}

	hours := tenant.OperatingHours.ForDay(day.Weekday())
	if hours.Closed || hours.Open == "" || hours.Close == "" {
		return result, nil
	}
	open, err := common.ParseClock(hours.Open)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfiguration, err)
	}
	clos, err := common.ParseClock(hours.Close)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfiguration, err)
	}
	// A close at or before the open means the business runs past
	// midnight; extend the window into the next day.
	if clos <= open {
		clos += 24 * 60
	}

	windowStart := day.Add(time.Duration(open) * time.Minute)
	windowEnd := day.Add(time.Duration(clos) * time.Minute)
	existing, err := s.bookings.ListActiveOverlapping(ctx, tenantID, windowStart, windowEnd, serviceID, staffID, resourceID)
	if err != nil {
		return nil, err
	}

	// Candidates step through the window up to close minus one interval;
	// the final appointment may run past the posted close.
	for start := open; start+svc.SlotIntervalMinutes <= clos; start += svc.SlotIntervalMinutes {
		slotStart := day.Add(time.Duration(start) * time.Minute)
		slotEnd := slotStart.Add(time.Duration(svc.DurationMinutes) * time.Minute)
		count := 0
		for _, b := range existing {
			if models.Overlaps(slotStart, slotEnd, b.StartsAt, b.EndsAt()) {
				count++
			}
		}
		result.Slots = append(result.Slots, Slot{
			StartsAt:  slotStart,
			Clock:     common.FormatClock(start),
			Available: count < svc.MaxParallel,
		})
	}
	return result, nil
}
