package handlers

import (
	"net/http"

	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AuthHandler holds dependencies for sign-up, sign-in and sign-out.
type AuthHandler struct {
	service   services.AuthService
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{service: service, validator: validate}
}

func sessionResponse(session *auth.Session, profile *models.Profile) dto.SessionResponse {
	resp := dto.SessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresIn:   session.ExpiresIn,
	}
	if profile != nil {
		p := MapProfileToResponse(profile)
		resp.Profile = &p
	}
	return resp
}

// SignUp godoc
// @Summary      Sign up
// @Description  Registers an identity and creates its profile with the chosen role.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body      dto.SignUpRequest true "Sign-up details"
// @Success      201 {object}  dto.SessionResponse
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      409 {object}  map[string]string "Email already registered"
// @Failure      429 {object}  map[string]string "Too many requests"
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	session, profile, err := h.service.SignUp(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "sign up")
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(session, profile))
}

// SignIn godoc
// @Summary      Sign in
// @Description  Exchanges email and password for a bearer token. The profile is omitted when none exists yet.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body      dto.SignInRequest true "Credentials"
// @Success      200 {object}  dto.SessionResponse
// @Failure      401 {object}  map[string]string "Invalid credentials"
// @Failure      429 {object}  map[string]string "Too many requests"
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	session, profile, err := h.service.SignIn(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "sign in")
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session, profile))
}

// SignOut godoc
// @Summary      Sign out
// @Description  Ends the session and revokes the bearer token.
// @Tags         auth
// @Success      204 "Signed out"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /auth/signout [post]
// @Security     BearerAuth
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), middleware.GetAccessToken(c)); err != nil {
		respondError(c, err, "sign out")
		return
	}
	c.Status(http.StatusNoContent)
}
