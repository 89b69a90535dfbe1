package handlers

import (
	"net/http"
	"time"

	"bookwell/internal/common"
	"bookwell/internal/services"

	"github.com/labstack/echo/v4"
)

// SlotHandlers serves the read path: candidate start times for a date.
type SlotHandlers struct {
	slotService services.SlotServiceInterface
}

// NewSlotHandlers creates a new slot handlers instance.
func NewSlotHandlers(slotService services.SlotServiceInterface) *SlotHandlers {
	return &SlotHandlers{slotService: slotService}
}

// ComputeSlots handles GET /slots.
func (h *SlotHandlers) ComputeSlots(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := common.ValidateUUID(c.QueryParam("tenant_id"), "tenant_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	serviceID, err := common.ValidateUUID(c.QueryParam("service_id"), "service_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return common.SendValidationError(c, "date", "must be formatted YYYY-MM-DD")
	}
	staffParam := c.QueryParam("staff_id")
	staffID, err := common.ValidateOptionalUUID(&staffParam, "staff_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	resourceParam := c.QueryParam("resource_id")
	resourceID, err := common.ValidateOptionalUUID(&resourceParam, "resource_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	result, err := h.slotService.ComputeSlots(ctx, tenantID, date, serviceID, staffID, resourceID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
