package handlers

import (
	"net/http"

	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// JobHandler holds dependencies for job operations.
type JobHandler struct {
	service   services.JobService
	validator *validator.Validate
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(service services.JobService, validate *validator.Validate) *JobHandler {
	return &JobHandler{service: service, validator: validate}
}

// CreateJob godoc
// @Summary      Create a new job posting
// @Description  Posts a new open job. The employer is taken from the auth context.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job body      dto.CreateJobRequest true "Job details"
// @Success      201 {object}  dto.JobResponse "Job created successfully"
// @Failure      400 {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Only employers post jobs"
// @Failure      503 {object}  map[string]string "Store unavailable"
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateJobRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err, "create job")
		return
	}
	c.JSON(http.StatusCreated, MapJobToResponse(job))
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Employers get their own jobs, freelancers get open jobs. Newest first.
// @Tags         jobs
// @Produce      json
// @Param        status query string false "Status filter" Enums(open, in_progress, completed, cancelled)
// @Param        skill  query string false "Required skill filter"
// @Param        limit  query int    false "Pagination limit" default(20)
// @Param        offset query int    false "Pagination offset" default(0)
// @Success      200 {array}   dto.JobResponse
// @Failure      400 {object}  map[string]string "Invalid query parameters"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListJobs(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req dto.ListJobsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}

	views, err := h.service.ListJobs(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err, "list jobs")
		return
	}
	resp := make([]dto.JobResponse, 0, len(views))
	for i := range views {
		resp = append(resp, MapJobViewToResponse(&views[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetJob godoc
// @Summary      Get a job by ID
// @Description  Retrieves a job with its employer profile.
// @Tags         jobs
// @Produce      json
// @Param        id path      string true "Job ID" Format(uuid)
// @Success      200 {object}  dto.JobResponse "Successfully retrieved job"
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      403 {object}  map[string]string "No acting profile"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) GetJob(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	view, err := h.service.GetJob(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "retrieve job")
		return
	}
	c.JSON(http.StatusOK, MapJobViewToResponse(view))
}

// UpdateJobStatus godoc
// @Summary      Move a job through its lifecycle
// @Description  open -> in_progress -> completed, or open/in_progress -> cancelled. Owner only.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id     path      string                     true "Job ID" Format(uuid)
// @Param        status body      dto.UpdateJobStatusRequest true "Target status"
// @Success      200 {object}  dto.JobResponse
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      403 {object}  map[string]string "Not the job owner"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      409 {object}  map[string]string "Transition not allowed"
// @Router       /jobs/{id}/status [patch]
// @Security     BearerAuth
func (h *JobHandler) UpdateJobStatus(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	var req dto.UpdateJobStatusRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	job, err := h.service.TransitionJob(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, err, "update job status")
		return
	}
	c.JSON(http.StatusOK, MapJobToResponse(job))
}

// HasApplied godoc
// @Summary      Check whether the caller applied to a job
// @Tags         jobs
// @Produce      json
// @Param        id path      string true "Job ID" Format(uuid)
// @Success      200 {object}  dto.HasAppliedResponse
// @Failure      403 {object}  map[string]string "Freelancers only"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Router       /jobs/{id}/applied [get]
// @Security     BearerAuth
func (h *JobHandler) HasApplied(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	app, err := h.service.HasApplied(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "check application")
		return
	}
	resp := dto.HasAppliedResponse{Applied: app != nil}
	if app != nil {
		resp.ApplicationID = &app.ID
		resp.Status = &app.Status
	}
	c.JSON(http.StatusOK, resp)
}
