package routes

import (
	"marketplace-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes registers all routes related to jobs, including a job's applications.
// It applies the provided authentication middleware to all job routes.
func RegisterJobRoutes(
	rg *gin.RouterGroup, // Base group (e.g., /api/v1)
	jobHandler handlers.JobHandlerInterface,
	applicationHandler handlers.ApplicationHandlerInterface,
	authMiddleware gin.HandlerFunc,
	profileMiddleware gin.HandlerFunc,
) {
	jobs := rg.Group("/jobs")
	jobs.Use(authMiddleware, profileMiddleware)
	{
		jobs.POST("", jobHandler.CreateJob)                   // Employers post a job
		jobs.GET("", jobHandler.ListJobs)                     // Own jobs for employers, open jobs for freelancers
		jobs.GET("/:id", jobHandler.GetJob)                   // Get a specific job by ID
		jobs.PATCH("/:id/status", jobHandler.UpdateJobStatus) // Lifecycle transition
		jobs.GET("/:id/applied", jobHandler.HasApplied)       // Has the calling freelancer applied
		jobs.POST("/:id/applications", applicationHandler.SubmitApplication)
		jobs.GET("/:id/applications", applicationHandler.ListJobApplications)
	}
}
