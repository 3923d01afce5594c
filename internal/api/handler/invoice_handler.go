package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmcs/claims-api/internal/api/metrics"
	"github.com/cmcs/claims-api/internal/core/ports"
)

// InvoiceHandler renders invoices for approved claims.
type InvoiceHandler struct {
	service ports.InvoiceService
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Generate handles GET /v1/claims/:id/invoice.
//
// @Summary      Generate an invoice for an approved claim
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Claim id"
// @Success      200  {object}  ports.Invoice
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/claims/{id}/invoice [get]
func (h *InvoiceHandler) Generate(c echo.Context) error {
	invoice, err := h.service.GenerateInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.InvoicesGeneratedTotal.Inc()
	return c.JSON(http.StatusOK, invoice)
}
