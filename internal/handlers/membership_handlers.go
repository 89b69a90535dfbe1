package handlers

import (
	"net/http"

	"bookwell/internal/common"
	"bookwell/internal/services"

	"github.com/labstack/echo/v4"
)

// MembershipHandlers handles top-ups and ledger statements.
type MembershipHandlers struct {
	membershipService services.MembershipServiceInterface
}

// NewMembershipHandlers creates a new membership handlers instance.
func NewMembershipHandlers(membershipService services.MembershipServiceInterface) *MembershipHandlers {
	return &MembershipHandlers{membershipService: membershipService}
}

// TopUp handles POST /memberships/:id/topup.
func (h *MembershipHandlers) TopUp(c echo.Context) error {
	ctx := c.Request().Context()

	membershipID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		TenantID string  `json:"tenant_id"`
		Minutes  int     `json:"minutes"`
		Uses     int     `json:"uses"`
		Note     *string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	membership, err := h.membershipService.TopUp(ctx, tenantID, membershipID, req.Minutes, req.Uses, req.Note)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, membership)
}

// GetMembership handles GET /memberships/:id.
func (h *MembershipHandlers) GetMembership(c echo.Context) error {
	ctx := c.Request().Context()

	membershipID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	tenantID, err := common.ValidateUUID(c.QueryParam("tenant_id"), "tenant_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	membership, err := h.membershipService.GetMembership(ctx, tenantID, membershipID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, membership)
}

// LedgerStatement handles GET /memberships/:id/ledger.
func (h *MembershipHandlers) LedgerStatement(c echo.Context) error {
	ctx := c.Request().Context()

	membershipID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	tenantID, err := common.ValidateUUID(c.QueryParam("tenant_id"), "tenant_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	limit, offset := common.ValidatePaginationParams(intQueryParam(c, "limit"), intQueryParam(c, "offset"))

	entries, err := h.membershipService.LedgerStatement(ctx, tenantID, membershipID, limit, offset)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
