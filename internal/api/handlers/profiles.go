package handlers

import (
	"net/http"

	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ProfileHandler holds dependencies for profile operations.
type ProfileHandler struct {
	service   services.ProfileService
	validator *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service services.ProfileService, validate *validator.Validate) *ProfileHandler {
	return &ProfileHandler{service: service, validator: validate}
}

// CreateProfile godoc
// @Summary      Create the caller's profile
// @Description  Creates the profile of an authenticated identity that has none yet. The role cannot be changed later.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        profile body      dto.CreateProfileRequest true "Profile details"
// @Success      201 {object}  dto.ProfileResponse
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      409 {object}  map[string]string "Profile already exists"
// @Router       /profiles [post]
// @Security     BearerAuth
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"kind": services.KindUnauthenticated, "error": "Unauthorized"})
		return
	}

	var req dto.CreateProfileRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	req.ID = identity.ID
	req.Email = identity.Email

	profile, err := h.service.CreateProfile(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "create profile")
		return
	}
	c.JSON(http.StatusCreated, MapProfileToResponse(profile))
}

// GetMe godoc
// @Summary      Get the caller's profile
// @Tags         profiles
// @Produce      json
// @Success      200 {object}  dto.ProfileResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "No profile yet"
// @Router       /profiles/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, ok := caller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// GetProfile godoc
// @Summary      Get a profile by ID
// @Tags         profiles
// @Produce      json
// @Param        id path      string true "Profile ID" Format(uuid)
// @Success      200 {object}  dto.ProfileResponse
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      404 {object}  map[string]string "Profile not found"
// @Router       /profiles/{id} [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := pathID(c, "id", "profile")
	if !ok {
		return
	}
	profile, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "retrieve profile")
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// UpdateProfile godoc
// @Summary      Update a profile
// @Description  Partially updates the caller's own profile. Changing the role is refused.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id      path      string                   true "Profile ID" Format(uuid)
// @Param        profile body      dto.UpdateProfileRequest true "Fields to update"
// @Success      200 {object}  dto.ProfileResponse
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      403 {object}  map[string]string "Not your profile, or role change"
// @Failure      404 {object}  map[string]string "Profile not found"
// @Router       /profiles/{id} [patch]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "profile")
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	req.ID = id

	profile, err := h.service.UpdateProfile(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}
