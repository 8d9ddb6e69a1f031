package routes

import (
	"marketplace-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterApplicationRoutes registers the routes addressing applications directly.
func RegisterApplicationRoutes(
	rg *gin.RouterGroup,
	applicationHandler handlers.ApplicationHandlerInterface,
	authMiddleware gin.HandlerFunc,
	profileMiddleware gin.HandlerFunc,
) {
	applications := rg.Group("/applications")
	applications.Use(authMiddleware, profileMiddleware)
	{
		applications.GET("/my", applicationHandler.ListMyApplications)
		applications.GET("/:id", applicationHandler.GetApplication)
		applications.PATCH("/:id/decision", applicationHandler.DecideApplication)
	}
}
