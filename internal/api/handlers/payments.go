package handlers

import (
	"net/http"

	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
)

// PaymentHandler holds dependencies for payment operations.
type PaymentHandler struct {
	service services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// ListPayments godoc
// @Summary      List the caller's payments
// @Description  Payments where the caller is the employer or the freelancer, newest first, with the total of completed ones.
// @Tags         payments
// @Produce      json
// @Success      200 {object}  dto.ListPaymentsResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      503 {object}  map[string]string "Store unavailable"
// @Router       /payments [get]
// @Security     BearerAuth
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}

	views, total, err := h.service.ListPayments(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "list payments")
		return
	}
	resp := dto.ListPaymentsResponse{Payments: make([]dto.PaymentResponse, 0, len(views)), TotalCompleted: total}
	for i := range views {
		resp.Payments = append(resp.Payments, MapPaymentViewToResponse(&views[i]))
	}
	c.JSON(http.StatusOK, resp)
}
