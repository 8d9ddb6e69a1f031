// internal/api/handlers/interfaces.go
package handlers

import "github.com/gin-gonic/gin"

// AuthHandlerInterface defines the methods needed by the auth routes.
type AuthHandlerInterface interface {
	SignUp(c *gin.Context)
	SignIn(c *gin.Context)
	SignOut(c *gin.Context)
}

// ProfileHandlerInterface defines the methods needed by the profile routes.
type ProfileHandlerInterface interface {
	CreateProfile(c *gin.Context)
	GetMe(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
}

// JobHandlerInterface defines the methods needed by the job routes.
type JobHandlerInterface interface {
	CreateJob(c *gin.Context)
	ListJobs(c *gin.Context)
	GetJob(c *gin.Context)
	UpdateJobStatus(c *gin.Context)
	HasApplied(c *gin.Context)
}

// ApplicationHandlerInterface defines the methods needed by the application routes.
type ApplicationHandlerInterface interface {
	SubmitApplication(c *gin.Context)
	ListJobApplications(c *gin.Context)
	ListMyApplications(c *gin.Context)
	GetApplication(c *gin.Context)
	DecideApplication(c *gin.Context)
}

// Ensure handlers implements the interface (compile-time check)
var _ AuthHandlerInterface = (*AuthHandler)(nil)
var _ ProfileHandlerInterface = (*ProfileHandler)(nil)
var _ JobHandlerInterface = (*JobHandler)(nil)
var _ ApplicationHandlerInterface = (*ApplicationHandler)(nil)
