package routes

import (
	"marketplace-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers sign-up, sign-in and sign-out. The credential endpoints are rate limited.
func RegisterAuthRoutes(
	rg *gin.RouterGroup,
	authHandler handlers.AuthHandlerInterface,
	rateLimit gin.HandlerFunc,
	authMiddleware gin.HandlerFunc,
) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/signup", rateLimit, authHandler.SignUp)
		authGroup.POST("/signin", rateLimit, authHandler.SignIn)
		authGroup.POST("/signout", authMiddleware, authHandler.SignOut)
	}
}
