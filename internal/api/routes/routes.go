package routes

import (
	"marketplace-api/internal/api/handlers"
	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/app"
	"marketplace-api/internal/metrics"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(router *gin.Engine, app *app.Application) {

	// --- Base API Group ---
	apiV1 := router.Group("/api/v1")

	// Create handlers
	authHandler := handlers.NewAuthHandler(app.Auth, app.Validator)
	profileHandler := handlers.NewProfileHandler(app.Profiles, app.Validator)
	jobHandler := handlers.NewJobHandler(app.Jobs, app.Validator)
	applicationHandler := handlers.NewApplicationHandler(app.Applications, app.Validator)
	paymentHandler := handlers.NewPaymentHandler(app.Payments)
	dashboardHandler := handlers.NewDashboardHandler(app.Dashboard)
	healthHandler := handlers.NewHealthHandler(app.HealthChecks())

	// --- Middleware ---
	authenticate := middleware.Authenticate(app.Verifier)
	requireProfile := middleware.RequireProfile(app.Profiles)
	rateLimit := middleware.RateLimit(app.AuthLimiter)

	// --- Register Resource Routes ---
	RegisterAuthRoutes(apiV1, authHandler, rateLimit, authenticate)
	RegisterProfileRoutes(apiV1, profileHandler, authenticate, requireProfile)
	RegisterJobRoutes(apiV1, jobHandler, applicationHandler, authenticate, requireProfile)
	RegisterApplicationRoutes(apiV1, applicationHandler, authenticate, requireProfile)
	RegisterPaymentRoutes(apiV1, paymentHandler, dashboardHandler, authenticate, requireProfile)

	// --- Health Check and Metrics ---
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	log.Debug("Configuring Swagger UI handler")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
