package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bookwell/internal/common"
	"bookwell/internal/repositories"
	"bookwell/internal/services"

	"github.com/labstack/echo/v4"
)

func intQueryParam(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

// RateHandlers serves pricing previews. Resolution is pure, so previews
// never write anything.
type RateHandlers struct {
	tenants  repositories.TenantRepository
	catalog  repositories.CatalogRepository
	resolver *services.RateResolver
}

// NewRateHandlers creates a new rate handlers instance.
func NewRateHandlers(tenants repositories.TenantRepository, catalog repositories.CatalogRepository, resolver *services.RateResolver) *RateHandlers {
	return &RateHandlers{tenants: tenants, catalog: catalog, resolver: resolver}
}

// PreviewRate handles POST /rates/preview.
func (h *RateHandlers) PreviewRate(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		TenantID        string   `json:"tenant_id"`
		ServiceID       string   `json:"service_id"`
		StaffID         *string  `json:"staff_id"`
		ResourceID      *string  `json:"resource_id"`
		StartsAt        string   `json:"starts_at"`
		DurationMinutes int      `json:"duration_minutes"`
		BasePrice       *float64 `json:"base_price"`
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
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return common.SendValidationError(c, "starts_at", "must be an RFC 3339 timestamp")
	}
	if req.DurationMinutes <= 0 {
		return common.SendValidationError(c, "duration_minutes", "must be positive")
	}

	tenant, err := h.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	svc, err := h.catalog.GetService(ctx, tenantID, serviceID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	basePrice := svc.BasePrice
	if req.BasePrice != nil {
		basePrice = *req.BasePrice
	}

	preview, err := h.resolver.Resolve(ctx, tenantID, serviceID, staffID, resourceID, startsAt, tenant.Location(), req.DurationMinutes, basePrice)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, preview)
}
