package handlers

import (
	"net/http"
	"time"

	"bookwell/internal/common"
	"bookwell/internal/models"
	"bookwell/internal/services"

	"github.com/labstack/echo/v4"
)

// BookingHandlers handles HTTP requests for bookings.
type BookingHandlers struct {
	bookingService services.BookingServiceInterface
}

// NewBookingHandlers creates a new booking handlers instance.
func NewBookingHandlers(bookingService services.BookingServiceInterface) *BookingHandlers {
	return &BookingHandlers{bookingService: bookingService}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()

	email, ok := common.GetCustomerEmailFromContext(ctx)
	if !ok {
		return common.SendDomainError(c, common.ErrUnauthenticated)
	}

	var req struct {
		TenantID           string  `json:"tenant_id"`
		ServiceID          string  `json:"service_id"`
		StaffID            *string `json:"staff_id"`
		ResourceID         *string `json:"resource_id"`
		StartsAt           string  `json:"starts_at"`
		DurationMinutes    *int    `json:"duration_minutes"`
		IdempotencyKey     string  `json:"idempotency_key"`
		MembershipID       *string `json:"membership_id"`
		AutoMembership     bool    `json:"auto_membership"`
		MembershipRequired bool    `json:"membership_required"`
		Notes              *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	serviceID, err := common.ValidateUUID(req.ServiceID, "service_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	staffID, err := common.ValidateOptionalUUID(req.StaffID, "staff_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	resourceID, err := common.ValidateOptionalUUID(req.ResourceID, "resource_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	membershipID, err := common.ValidateOptionalUUID(req.MembershipID, "membership_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return common.SendValidationError(c, "starts_at", "must be an RFC 3339 timestamp")
	}
	if req.IdempotencyKey == "" {
		return common.SendValidationError(c, "idempotency_key", "is required")
	}

	booking := &models.BookingRequest{
		TenantID:           tenantID,
		ServiceID:          serviceID,
		StaffID:            staffID,
		ResourceID:         resourceID,
		StartsAt:           startsAt,
		DurationMinutes:    req.DurationMinutes,
		IdempotencyKey:     req.IdempotencyKey,
		MembershipID:       membershipID,
		AutoMembership:     req.AutoMembership,
		MembershipRequired: req.MembershipRequired,
		Notes:              req.Notes,
		CustomerEmail:      email,
	}
	if name, ok := common.GetCustomerNameFromContext(ctx); ok {
		booking.CustomerName = &name
	}
	if phone, ok := common.GetCustomerPhoneFromContext(ctx); ok {
		booking.CustomerPhone = &phone
	}

	result, err := h.bookingService.CreateBooking(ctx, booking)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	status := http.StatusCreated
	if result.Replay {
		status = http.StatusOK
	}
	return c.JSON(status, result)
}

// ChangeStatus handles PUT /bookings/:id/status.
func (h *BookingHandlers) ChangeStatus(c echo.Context) error {
	ctx := c.Request().Context()

	bookingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		TenantID string `json:"tenant_id"`
		Status   string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	booking, err := h.bookingService.ChangeStatus(ctx, tenantID, bookingID, req.Status)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandlers) GetBooking(c echo.Context) error {
	ctx := c.Request().Context()

	bookingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	tenantID, err := common.ValidateUUID(c.QueryParam("tenant_id"), "tenant_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	booking, err := h.bookingService.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// ListBookings handles GET /bookings for the authenticated customer.
func (h *BookingHandlers) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()

	email, ok := common.GetCustomerEmailFromContext(ctx)
	if !ok {
		return common.SendDomainError(c, common.ErrUnauthenticated)
	}
	tenantID, err := common.ValidateUUID(c.QueryParam("tenant_id"), "tenant_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	limit, offset := common.ValidatePaginationParams(intQueryParam(c, "limit"), intQueryParam(c, "offset"))

	bookings, err := h.bookingService.ListCustomerBookings(ctx, tenantID, email, limit, offset)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}
