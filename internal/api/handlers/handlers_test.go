package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Helper Functions for Setup ---

// withCaller stands in for the auth middleware.
func withCaller(p *models.Profile) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			middleware.SetIdentity(c, &auth.Identity{ID: p.ID, Email: p.Email}, "token-"+p.ID.String())
			middleware.SetProfile(c, p)
		}
		c.Next()
	}
}

func newTestRouter(p *models.Profile) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withCaller(p))
	return r
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var employer = &models.Profile{ID: uuid.New(), Email: "e@test.com", FullName: "Employer", Role: models.RoleEmployer}
var freelancer = &models.Profile{ID: uuid.New(), Email: "f@test.com", FullName: "Freelancer", Role: models.RoleFreelancer}

// --- Test Cases ---

func TestRespondError_StatusPerKind(t *testing.T) {
	tests := []struct {
		err          error
		expectedCode int
		expectedKind string
	}{
		{fmt.Errorf("%w: title is required", services.ErrValidation), http.StatusBadRequest, "validation"},
		{services.ErrForbidden, http.StatusForbidden, "authorization"},
		{services.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{services.ErrDuplicateApplication, http.StatusConflict, "duplicate_application"},
		{services.ErrConflict, http.StatusConflict, "conflict"},
		{services.ErrNotFound, http.StatusNotFound, "not_found"},
		{services.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "unauthenticated"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.expectedKind, func(t *testing.T) {
			r := newTestRouter(nil)
			r.GET("/x", func(c *gin.Context) { respondError(c, tt.err, "do x") })
			w := performRequest(r, http.MethodGet, "/x", nil)
			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Equal(t, tt.expectedKind, decodeBody(t, w)["kind"])
		})
	}
}

func TestJobHandler_CreateJob(t *testing.T) {
	validate := validator.New()

	t.Run("Success", func(t *testing.T) {
		svc := new(MockJobService)
		h := NewJobHandler(svc, validate)
		r := newTestRouter(employer)
		r.POST("/jobs", h.CreateJob)

		created := &models.Job{ID: uuid.New(), EmployerID: employer.ID, Title: "API", Budget: decimal.NewFromInt(500), RequiredSkills: []string{"Go"}, Status: models.JobStatusOpen}
		svc.On("CreateJob", mock.Anything, employer, mock.MatchedBy(func(req *dto.CreateJobRequest) bool {
			return req.Title == "API" && req.Budget.Equal(decimal.NewFromInt(500))
		})).Return(created, nil).Once()

		w := performRequest(r, http.MethodPost, "/jobs", gin.H{"title": "API", "description": "Backend", "budget": "500", "required_skills": []string{"Go"}})

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, created.ID.String(), body["id"])
		assert.Equal(t, "open", body["status"])
		assert.Equal(t, "500", body["budget"])
		svc.AssertExpectations(t)
	})

	t.Run("Missing skills fails validation", func(t *testing.T) {
		svc := new(MockJobService)
		h := NewJobHandler(svc, validate)
		r := newTestRouter(employer)
		r.POST("/jobs", h.CreateJob)

		w := performRequest(r, http.MethodPost, "/jobs", gin.H{"title": "API", "description": "Backend", "budget": 500})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "validation", body["kind"])
		assert.Contains(t, body["details"], "RequiredSkills")
		svc.AssertNotCalled(t, "CreateJob", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Forbidden for freelancers", func(t *testing.T) {
		svc := new(MockJobService)
		h := NewJobHandler(svc, validate)
		r := newTestRouter(freelancer)
		r.POST("/jobs", h.CreateJob)

		svc.On("CreateJob", mock.Anything, freelancer, mock.Anything).Return(nil, services.ErrForbidden).Once()
		w := performRequest(r, http.MethodPost, "/jobs", gin.H{"title": "API", "description": "Backend", "budget": 500, "required_skills": []string{"Go"}})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "authorization", decodeBody(t, w)["kind"])
	})

	t.Run("No caller", func(t *testing.T) {
		h := NewJobHandler(new(MockJobService), validate)
		r := newTestRouter(nil)
		r.POST("/jobs", h.CreateJob)
		w := performRequest(r, http.MethodPost, "/jobs", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestJobHandler_ListAndGet(t *testing.T) {
	validate := validator.New()
	svc := new(MockJobService)
	h := NewJobHandler(svc, validate)
	r := newTestRouter(freelancer)
	r.GET("/jobs", h.ListJobs)
	r.GET("/jobs/:id", h.GetJob)

	job := models.Job{ID: uuid.New(), EmployerID: employer.ID, Title: "API", Status: models.JobStatusOpen}
	svc.On("ListJobs", mock.Anything, freelancer, mock.MatchedBy(func(req *dto.ListJobsRequest) bool {
		return req.Skill == "Go" && req.Limit == 5
	})).Return([]models.JobView{{Job: job, Employer: employer}}, nil).Once()

	w := performRequest(r, http.MethodGet, "/jobs?skill=Go&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Employer)
	assert.Equal(t, "Employer", list[0].Employer.FullName)

	w = performRequest(r, http.MethodGet, "/jobs?status=archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, "/jobs/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	missing := uuid.New()
	svc.On("GetJob", mock.Anything, freelancer, missing).Return(nil, fmt.Errorf("%w: job", services.ErrNotFound)).Once()
	w = performRequest(r, http.MethodGet, "/jobs/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestJobHandler_UpdateJobStatus(t *testing.T) {
	svc := new(MockJobService)
	h := NewJobHandler(svc, validator.New())
	r := newTestRouter(employer)
	r.PATCH("/jobs/:id/status", h.UpdateJobStatus)

	jobID := uuid.New()
	svc.On("TransitionJob", mock.Anything, employer, jobID, models.JobStatusCompleted).
		Return(nil, fmt.Errorf("%w: job cannot move from open to completed", services.ErrInvalidTransition)).Once()
	svc.On("TransitionJob", mock.Anything, employer, jobID, models.JobStatusInProgress).
		Return(&models.Job{ID: jobID, Status: models.JobStatusInProgress}, nil).Once()

	w := performRequest(r, http.MethodPatch, "/jobs/"+jobID.String()+"/status", gin.H{"status": "completed"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", decodeBody(t, w)["kind"])

	w = performRequest(r, http.MethodPatch, "/jobs/"+jobID.String()+"/status", gin.H{"status": "in_progress"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "in_progress", decodeBody(t, w)["status"])

	w = performRequest(r, http.MethodPatch, "/jobs/"+jobID.String()+"/status", gin.H{"status": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestJobHandler_HasApplied(t *testing.T) {
	svc := new(MockJobService)
	h := NewJobHandler(svc, validator.New())
	r := newTestRouter(freelancer)
	r.GET("/jobs/:id/applied", h.HasApplied)

	notApplied, applied := uuid.New(), uuid.New()
	app := &models.Application{ID: uuid.New(), JobID: applied, Status: models.ApplicationStatusPending}
	svc.On("HasApplied", mock.Anything, freelancer, notApplied).Return(nil, nil).Once()
	svc.On("HasApplied", mock.Anything, freelancer, applied).Return(app, nil).Once()

	w := performRequest(r, http.MethodGet, "/jobs/"+notApplied.String()+"/applied", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["applied"])

	w = performRequest(r, http.MethodGet, "/jobs/"+applied.String()+"/applied", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["applied"])
	assert.Equal(t, app.ID.String(), body["application_id"])
	assert.Equal(t, "pending", body["status"])
}

func TestApplicationHandler_SubmitAndDecide(t *testing.T) {
	validate := validator.New()
	svc := new(MockApplicationService)
	h := NewApplicationHandler(svc, validate)

	jobID, appID := uuid.New(), uuid.New()

	t.Run("Duplicate submission is 409", func(t *testing.T) {
		r := newTestRouter(freelancer)
		r.POST("/jobs/:id/applications", h.SubmitApplication)
		svc.On("SubmitApplication", mock.Anything, freelancer, jobID, mock.Anything).
			Return(nil, services.ErrDuplicateApplication).Once()

		w := performRequest(r, http.MethodPost, "/jobs/"+jobID.String()+"/applications", gin.H{"cover_letter": "Hi", "proposed_rate": 450})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "duplicate_application", decodeBody(t, w)["kind"])
	})

	t.Run("Decide by non-owner is 403", func(t *testing.T) {
		r := newTestRouter(freelancer)
		r.PATCH("/applications/:id/decision", h.DecideApplication)
		svc.On("DecideApplication", mock.Anything, freelancer, appID, models.ApplicationStatusAccepted).
			Return(nil, services.ErrForbidden).Once()

		w := performRequest(r, http.MethodPatch, "/applications/"+appID.String()+"/decision", gin.H{"decision": "accepted"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Decision must be accepted or rejected", func(t *testing.T) {
		r := newTestRouter(employer)
		r.PATCH("/applications/:id/decision", h.DecideApplication)
		w := performRequest(r, http.MethodPatch, "/applications/"+appID.String()+"/decision", gin.H{"decision": "pending"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Accept", func(t *testing.T) {
		r := newTestRouter(employer)
		r.PATCH("/applications/:id/decision", h.DecideApplication)
		svc.On("DecideApplication", mock.Anything, employer, appID, models.ApplicationStatusAccepted).
			Return(&models.Application{ID: appID, JobID: jobID, Status: models.ApplicationStatusAccepted}, nil).Once()

		w := performRequest(r, http.MethodPatch, "/applications/"+appID.String()+"/decision", gin.H{"decision": "accepted"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "accepted", decodeBody(t, w)["status"])
	})

	svc.AssertExpectations(t)
}

func TestApplicationHandler_ListMyApplications(t *testing.T) {
	svc := new(MockApplicationService)
	h := NewApplicationHandler(svc, validator.New())
	r := newTestRouter(freelancer)
	r.GET("/applications/my", h.ListMyApplications)

	job := &models.Job{ID: uuid.New(), Title: "API"}
	svc.On("ListApplicationsForFreelancer", mock.Anything, freelancer, mock.Anything).Return([]models.ApplicationView{{
		Application: models.Application{ID: uuid.New(), JobID: job.ID, FreelancerID: freelancer.ID, Status: models.ApplicationStatusPending},
		Job:         job,
		Freelancer:  freelancer,
	}}, nil).Once()

	w := performRequest(r, http.MethodGet, "/applications/my", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.ApplicationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Job)
	assert.Equal(t, "API", list[0].Job.Title)
}

func TestPaymentHandler_ListPayments(t *testing.T) {
	svc := new(MockPaymentService)
	h := NewPaymentHandler(svc)
	r := newTestRouter(freelancer)
	r.GET("/payments", h.ListPayments)

	job := &models.Job{ID: uuid.New(), Title: "API"}
	views := []models.PaymentView{
		{Payment: models.Payment{ID: uuid.New(), JobID: job.ID, Amount: decimal.NewFromInt(100), Status: models.PaymentStatusCompleted}, Job: job, Employer: employer, Freelancer: freelancer},
		{Payment: models.Payment{ID: uuid.New(), JobID: job.ID, Amount: decimal.NewFromInt(50), Status: models.PaymentStatusPending}, Job: job},
	}
	svc.On("ListPayments", mock.Anything, freelancer).Return(views, decimal.NewFromInt(100), nil).Once()

	w := performRequest(r, http.MethodGet, "/payments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListPaymentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Payments, 2)
	assert.Equal(t, "100", resp.TotalCompleted.String())
	assert.Equal(t, "API", resp.Payments[0].JobTitle)
	require.NotNil(t, resp.Payments[0].Employer)
	assert.Equal(t, employer.ID, resp.Payments[0].Employer.ID)
}

func TestAuthHandler(t *testing.T) {
	validate := validator.New()
	svc := new(MockAuthService)
	h := NewAuthHandler(svc, validate)
	r := newTestRouter(freelancer)
	r.POST("/auth/signup", h.SignUp)
	r.POST("/auth/signin", h.SignIn)
	r.POST("/auth/signout", h.SignOut)

	session := &auth.Session{AccessToken: "abc", TokenType: "bearer", ExpiresIn: 3600, User: auth.Identity{ID: freelancer.ID}}

	t.Run("Sign up", func(t *testing.T) {
		svc.On("SignUp", mock.Anything, mock.MatchedBy(func(req *dto.SignUpRequest) bool { return req.Role == models.RoleFreelancer })).
			Return(session, freelancer, nil).Once()
		w := performRequest(r, http.MethodPost, "/auth/signup", gin.H{"email": "f@test.com", "password": "longenough", "full_name": "Freelancer", "role": "freelancer"})
		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "abc", body["access_token"])
		assert.NotNil(t, body["profile"])
	})

	t.Run("Sign up rejects unknown role", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/auth/signup", gin.H{"email": "f@test.com", "password": "longenough", "full_name": "F", "role": "admin"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Sign in with wrong password", func(t *testing.T) {
		svc.On("SignIn", mock.Anything, mock.MatchedBy(func(req *dto.SignInRequest) bool { return req.Password == "wrong" })).
			Return(nil, nil, services.ErrInvalidCredentials).Once()
		w := performRequest(r, http.MethodPost, "/auth/signin", gin.H{"email": "f@test.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Sign in without profile", func(t *testing.T) {
		svc.On("SignIn", mock.Anything, mock.MatchedBy(func(req *dto.SignInRequest) bool { return req.Password == "right" })).
			Return(session, nil, nil).Once()
		w := performRequest(r, http.MethodPost, "/auth/signin", gin.H{"email": "f@test.com", "password": "right"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, decodeBody(t, w)["profile"])
	})

	t.Run("Sign out revokes the caller's token", func(t *testing.T) {
		svc.On("SignOut", mock.Anything, "token-"+freelancer.ID.String()).Return(nil).Once()
		w := performRequest(r, http.MethodPost, "/auth/signout", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	svc.AssertExpectations(t)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	healthy := NewHealthHandler(map[string]PingFunc{
		"store": func(context.Context) error { return nil },
		"redis": nil,
	})
	r := gin.New()
	r.GET("/health", healthy.HealthCheck)
	w := performRequest(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])

	broken := NewHealthHandler(map[string]PingFunc{
		"store": func(context.Context) error { return errors.New("connection refused") },
	})
	r = gin.New()
	r.GET("/health", broken.HealthCheck)
	w = performRequest(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, map[string]interface{}{"store": "down"}, decodeBody(t, w)["checks"])
}
