package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func FormatValidationErrors(err error) map[string]string {
	errorsMap := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorsMap["error"] = "Invalid validation error type"
		return errorsMap
	}
	for _, fieldError := range validationErrors {
		fieldName := fieldError.Field()
		errorsMap[fieldName] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fieldName, fieldError.Tag())
		switch fieldError.Tag() {
		case "required":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' is required", fieldName)
		case "email":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be a valid email address", fieldName)
		case "min":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be at least %s long", fieldName, fieldError.Param())
		case "max":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be at most %s long", fieldName, fieldError.Param())
		case "oneof":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be one of: %s", fieldName, fieldError.Param())
		case "uuid":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be a valid UUID", fieldName)
		}
	}
	return errorsMap
}

// bindJSON decodes and validates the request body. It writes the 400 response itself.
func bindJSON(c *gin.Context, validate *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": services.KindValidation, "error": "Invalid request body: " + err.Error()})
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": services.KindValidation, "error": "Validation failed", "details": FormatValidationErrors(err)})
		return false
	}
	return true
}

// bindQuery is bindJSON for query strings.
func bindQuery(c *gin.Context, validate *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": services.KindValidation, "error": "Invalid query parameters: " + err.Error()})
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": services.KindValidation, "error": "Validation failed", "details": FormatValidationErrors(err)})
		return false
	}
	return true
}

// pathID parses the named path parameter as a UUID.
func pathID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": services.KindValidation, "error": fmt.Sprintf("Invalid %s ID format", what)})
		return uuid.Nil, false
	}
	return id, true
}

// caller returns the profile loaded by middleware.RequireProfile.
func caller(c *gin.Context) (*models.Profile, bool) {
	p, ok := middleware.GetProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"kind": services.KindUnauthenticated, "error": "Unauthorized"})
		return nil, false
	}
	return p, true
}

// --- Model to DTO mappers ---

// MapProfileToResponse converts a models.Profile to a dto.ProfileResponse
func MapProfileToResponse(p *models.Profile) dto.ProfileResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return dto.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		Bio:       p.Bio,
		Skills:    skills,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// MapProfileToSummary returns nil for a missing profile.
func MapProfileToSummary(p *models.Profile) *dto.ProfileSummary {
	if p == nil {
		return nil
	}
	return &dto.ProfileSummary{ID: p.ID, FullName: p.FullName, Role: p.Role, AvatarURL: p.AvatarURL, Skills: p.Skills}
}

// MapJobToResponse converts a models.Job to a dto.JobResponse
func MapJobToResponse(job *models.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:             job.ID,
		EmployerID:     job.EmployerID,
		Title:          job.Title,
		Description:    job.Description,
		Budget:         job.Budget,
		RequiredSkills: job.RequiredSkills,
		Status:         job.Status,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

func MapJobViewToResponse(v *models.JobView) dto.JobResponse {
	resp := MapJobToResponse(&v.Job)
	resp.Employer = MapProfileToSummary(v.Employer)
	return resp
}

// MapApplicationToResponse converts a models.Application to a dto.ApplicationResponse
func MapApplicationToResponse(app *models.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:           app.ID,
		JobID:        app.JobID,
		FreelancerID: app.FreelancerID,
		CoverLetter:  app.CoverLetter,
		ProposedRate: app.ProposedRate,
		Status:       app.Status,
		CreatedAt:    app.CreatedAt,
		UpdatedAt:    app.UpdatedAt,
	}
}

func MapApplicationViewToResponse(v *models.ApplicationView) dto.ApplicationResponse {
	resp := MapApplicationToResponse(&v.Application)
	if v.Job != nil {
		job := MapJobToResponse(v.Job)
		resp.Job = &job
	}
	resp.Freelancer = MapProfileToSummary(v.Freelancer)
	return resp
}

// MapPaymentViewToResponse converts a models.PaymentView to a dto.PaymentResponse
func MapPaymentViewToResponse(v *models.PaymentView) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:           v.ID,
		JobID:        v.JobID,
		FreelancerID: v.FreelancerID,
		EmployerID:   v.EmployerID,
		Amount:       v.Amount,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
		Freelancer:   MapProfileToSummary(v.Freelancer),
		Employer:     MapProfileToSummary(v.Employer),
	}
	if v.Job != nil {
		resp.JobTitle = v.Job.Title
	}
	return resp
}
