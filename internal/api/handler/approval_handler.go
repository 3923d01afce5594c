package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmcs/claims-api/internal/core/ports"
)

// ApprovalHandler handles manual approve/reject decisions by staff.
type ApprovalHandler struct {
	service ports.ApprovalService
}

func NewApprovalHandler(service ports.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: service}
}

// Approve handles POST /v1/claims/:id/approve.
//
// @Summary      Approve a pending claim
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Claim id"
// @Success      200  {object}  getClaimResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/claims/{id}/approve [post]
func (h *ApprovalHandler) Approve(c echo.Context) error {
	return h.decide(c, true)
}

// Reject handles POST /v1/claims/:id/reject.
//
// @Summary      Reject a pending claim
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Claim id"
// @Success      200  {object}  getClaimResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/claims/{id}/reject [post]
func (h *ApprovalHandler) Reject(c echo.Context) error {
	return h.decide(c, false)
}

func (h *ApprovalHandler) decide(c echo.Context, approve bool) error {
	_, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	actor, _ := c.Get("username").(string)

	detail, err := h.service.Decide(c.Request().Context(), ports.DecisionInput{
		ClaimID: c.Param("id"),
		Approve: approve,
		Actor:   actor,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toGetClaimResponse(detail))
}
