package handlers

import (
	"net/http"

	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ApplicationHandler holds dependencies for application operations.
type ApplicationHandler struct {
	service   services.ApplicationService
	validator *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(service services.ApplicationService, validate *validator.Validate) *ApplicationHandler {
	return &ApplicationHandler{service: service, validator: validate}
}

func applicationViews(views []models.ApplicationView) []dto.ApplicationResponse {
	resp := make([]dto.ApplicationResponse, 0, len(views))
	for i := range views {
		resp = append(resp, MapApplicationViewToResponse(&views[i]))
	}
	return resp
}

// SubmitApplication godoc
// @Summary      Apply to a job
// @Description  Submits a pending application from the calling freelancer. One application per job.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id          path      string                       true "Job ID" Format(uuid)
// @Param        application body      dto.SubmitApplicationRequest true "Cover letter and rate"
// @Success      201 {object}  dto.ApplicationResponse
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      403 {object}  map[string]string "Freelancers only"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      409 {object}  map[string]string "Already applied, or job not open"
// @Router       /jobs/{id}/applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	var req dto.SubmitApplicationRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	app, err := h.service.SubmitApplication(c.Request.Context(), actor, jobID, &req)
	if err != nil {
		respondError(c, err, "submit application")
		return
	}
	c.JSON(http.StatusCreated, MapApplicationToResponse(app))
}

// ListJobApplications godoc
// @Summary      List the applications of a job
// @Tags         applications
// @Produce      json
// @Param        id     path  string true  "Job ID" Format(uuid)
// @Param        limit  query int    false "Pagination limit" default(20)
// @Param        offset query int    false "Pagination offset" default(0)
// @Success      200 {array}   dto.ApplicationResponse
// @Failure      403 {object}  map[string]string "Not the job owner"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Router       /jobs/{id}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	var req dto.ListApplicationsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}
	req.JobID = jobID

	views, err := h.service.ListApplicationsForJob(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err, "list applications")
		return
	}
	c.JSON(http.StatusOK, applicationViews(views))
}

// ListMyApplications godoc
// @Summary      List the caller's applications
// @Tags         applications
// @Produce      json
// @Param        limit  query int false "Pagination limit" default(20)
// @Param        offset query int false "Pagination offset" default(0)
// @Success      200 {array}   dto.ApplicationResponse
// @Router       /applications/my [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req dto.ListApplicationsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}

	views, err := h.service.ListApplicationsForFreelancer(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err, "list applications")
		return
	}
	c.JSON(http.StatusOK, applicationViews(views))
}

// GetApplication godoc
// @Summary      Get an application
// @Description  Visible to the applicant and to the job's employer.
// @Tags         applications
// @Produce      json
// @Param        id path      string true "Application ID" Format(uuid)
// @Success      200 {object}  dto.ApplicationResponse
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Application Not Found"
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "application")
	if !ok {
		return
	}

	view, err := h.service.GetApplication(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "retrieve application")
		return
	}
	c.JSON(http.StatusOK, MapApplicationViewToResponse(view))
}

// DecideApplication godoc
// @Summary      Accept or reject an application
// @Description  Only the employer owning the job may decide, and only while the application is pending.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true "Application ID" Format(uuid)
// @Param        decision body      dto.DecideApplicationRequest true "accepted or rejected"
// @Success      200 {object}  dto.ApplicationResponse
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      403 {object}  map[string]string "Not the job owner"
// @Failure      404 {object}  map[string]string "Application Not Found"
// @Failure      409 {object}  map[string]string "Already decided"
// @Router       /applications/{id}/decision [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) DecideApplication(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "application")
	if !ok {
		return
	}
	var req dto.DecideApplicationRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	app, err := h.service.DecideApplication(c.Request.Context(), actor, id, req.Decision)
	if err != nil {
		respondError(c, err, "decide application")
		return
	}
	c.JSON(http.StatusOK, MapApplicationToResponse(app))
}
