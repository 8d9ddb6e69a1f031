package routes

import (
	"marketplace-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterPaymentRoutes registers the read-only payment ledger and the dashboard.
func RegisterPaymentRoutes(
	rg *gin.RouterGroup,
	paymentHandler *handlers.PaymentHandler,
	dashboardHandler *handlers.DashboardHandler,
	authMiddleware gin.HandlerFunc,
	profileMiddleware gin.HandlerFunc,
) {
	authed := rg.Group("")
	authed.Use(authMiddleware, profileMiddleware)
	{
		authed.GET("/payments", paymentHandler.ListPayments)
		authed.GET("/dashboard", dashboardHandler.GetDashboard)
	}
}
