package api

import (
	"errors"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related HTTP requests.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userPayload is the sanitized account representation returned by the auth
// and profile endpoints.
func userPayload(user *domain.User) gin.H {
	return gin.H{
		"id":                  user.ID.Hex(),
		"username":            user.Username,
		"email":               user.Email,
		"role":                user.Role,
		"isBanned":            user.IsBanned,
		"profilePicture":      user.ProfilePicture,
		"createdProgramCount": user.CreatedProgramCount,
		"joinedAt":            user.JoinedAt,
	}
}

// Signup godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body signupRequest true "Signup details"
// @Success 201 {object} map[string]interface{}
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, token, err := h.authService.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken),
			errors.Is(err, service.ErrEmailTaken),
			errors.Is(err, service.ErrInvalidEmail):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	respondSuccess(c, http.StatusCreated, "Account created successfully", gin.H{
		"user":  userPayload(user),
		"token": token,
	})
}

// Login godoc
// @Summary Log in with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Username and password are required", err.Error())
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", gin.H{
		"user":  userPayload(user),
		"token": token,
	})
}

// AdminLogin godoc
// @Summary Log in to the admin panel
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Admin credentials"
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Username and password are required", err.Error())
		return
	}

	token, user, err := h.authService.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			abortWithError(c, http.StatusForbidden, "Admin access required")
			return
		}
		h.respondLoginError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", gin.H{
		"user":  userPayload(user),
		"token": token,
	})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"user": userPayload(user)})
}

// Logout acknowledges a logout. Tokens are stateless, so the client discards
// the token; nothing is revoked server side.
func (h *AuthHandler) Logout(c *gin.Context) {
	respondSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) respondLoginError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAuthenticationFailed) {
		abortWithError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	abortWithError(c, http.StatusInternalServerError, "Login failed")
}
