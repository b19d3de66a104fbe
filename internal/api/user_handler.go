package api

import (
	"errors"
	"jadwal/program-vault/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles profile and vault HTTP requests.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateProfileRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profilePicture"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type changeEmailRequest struct {
	NewEmail string `json:"newEmail" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type uploadProfileImageRequest struct {
	ImageData string `json:"imageData" binding:"required"`
}

type addSavedProgramRequest struct {
	ProgramID string `json:"programId" binding:"required"`
	Status    string `json:"status"`
}

// UpdateProfile godoc
// @Summary Update profile fields
// @Tags users
// @Accept json
// @Produce json
// @Param profile body updateProfileRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/updateProfile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		Username:       req.Username,
		Email:          req.Email,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Profile updated successfully", gin.H{"user": userPayload(user)})
}

// ChangePassword godoc
// @Summary Change the account password
// @Tags users
// @Accept json
// @Produce json
// @Param passwords body changePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/changePassword [patch]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Current password and new password are required", err.Error())
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondUserError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Password changed successfully", nil)
}

// ChangeEmail godoc
// @Summary Change the account email
// @Tags users
// @Accept json
// @Produce json
// @Param email body changeEmailRequest true "New email and current password"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/changeEmail [patch]
func (h *UserHandler) ChangeEmail(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req changeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "New email and password are required", err.Error())
		return
	}

	user, err := h.userService.ChangeEmail(c.Request.Context(), userID, req.NewEmail, req.Password)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Email changed successfully", gin.H{"user": userPayload(user)})
}

// UploadProfileImage godoc
// @Summary Upload or link a profile picture
// @Tags users
// @Accept json
// @Produce json
// @Param image body uploadProfileImageRequest true "Image URL or base64 data"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/uploadProfileImage [post]
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req uploadProfileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Image data is required", err.Error())
		return
	}

	url, err := h.userService.UploadProfileImage(c.Request.Context(), userID, req.ImageData)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Profile picture updated", gin.H{"profilePicture": url})
}

// GetSavedPrograms godoc
// @Summary List the user's saved programs
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{id}/saved-programs [get]
func (h *UserHandler) GetSavedPrograms(c *gin.Context) {
	userID, ok := h.selfUserID(c)
	if !ok {
		return
	}

	entries, err := h.userService.GetVault(c.Request.Context(), userID)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"savedPrograms": entries})
}

// AddSavedProgram godoc
// @Summary Save a program to the vault
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param entry body addSavedProgramRequest true "Program to save"
// @Success 201 {object} map[string]interface{}
// @Router /api/users/{id}/saved-programs [post]
func (h *UserHandler) AddSavedProgram(c *gin.Context) {
	userID, ok := h.selfUserID(c)
	if !ok {
		return
	}

	var req addSavedProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Program ID is required", err.Error())
		return
	}

	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	entry, err := h.userService.AddSavedProgram(c.Request.Context(), userID, programID, req.Status)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Program saved", gin.H{"entry": entry})
}

// RemoveSavedProgram godoc
// @Summary Remove a saved program entry
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param savedId path string true "Saved entry ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{id}/saved-programs/{savedId} [delete]
func (h *UserHandler) RemoveSavedProgram(c *gin.Context) {
	userID, ok := h.selfUserID(c)
	if !ok {
		return
	}

	entryID, ok := parseObjectID(c, "savedId")
	if !ok {
		return
	}

	if err := h.userService.RemoveSavedProgram(c.Request.Context(), userID, entryID); err != nil {
		h.respondUserError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Saved program removed", nil)
}

// selfUserID parses the :id path parameter and verifies it names the
// authenticated user. Vault access is strictly self-service.
func (h *UserHandler) selfUserID(c *gin.Context) (primitive.ObjectID, bool) {
	pathID, ok := parseObjectID(c, "id")
	if !ok {
		return primitive.NilObjectID, false
	}

	currentID, ok := getCurrentUserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, false
	}

	if pathID != currentID {
		abortWithError(c, http.StatusForbidden, "You can only manage your own saved programs")
		return primitive.NilObjectID, false
	}
	return currentID, true
}

func (h *UserHandler) respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrSavedEntryMissing):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrNoPasswordSet),
		errors.Is(err, service.ErrImageDataRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Something went wrong")
	}
}
