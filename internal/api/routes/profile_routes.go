package routes

import (
	"marketplace-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterProfileRoutes registers all routes related to profiles.
// Creating a profile only needs an identity; everything else needs the profile.
func RegisterProfileRoutes(
	rg *gin.RouterGroup,
	profileHandler handlers.ProfileHandlerInterface,
	authMiddleware gin.HandlerFunc,
	profileMiddleware gin.HandlerFunc,
) {
	profiles := rg.Group("/profiles")
	profiles.Use(authMiddleware)
	{
		profiles.POST("", profileHandler.CreateProfile)
		profiles.GET("/me", profileMiddleware, profileHandler.GetMe)
		profiles.GET("/:id", profileMiddleware, profileHandler.GetProfile)
		profiles.PATCH("/:id", profileMiddleware, profileHandler.UpdateProfile)
	}
}
