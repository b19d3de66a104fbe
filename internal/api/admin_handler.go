package api

import (
	"errors"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles the moderation HTTP requests.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type updateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=guest user admin"`
}

type editProgramRequest struct {
	Title        *string             `json:"title"`
	ShortLabel   *string             `json:"shortLabel"`
	Summary      *string             `json:"summary"`
	Description  *string             `json:"description"`
	Tags         *[]string           `json:"tags"`
	DurationHint *string             `json:"durationHint"`
	Type         *string             `json:"type" binding:"omitempty,oneof=system community"`
	IsPublic     *bool               `json:"isPublic"`
	AuthorName   *string             `json:"authorName"`
	ProgramInfo  *programInfoPayload `json:"programInfo"`
}

type createCategoryRequest struct {
	Label string `json:"label" binding:"required"`
	Slug  string `json:"slug" binding:"required"`
	Type  string `json:"type" binding:"required"`
}

// ListUsers godoc
// @Summary List all accounts
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"users": users})
}

// BanUser godoc
// @Summary Ban an account
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/banUser/{id} [patch]
func (h *AdminHandler) BanUser(c *gin.Context) {
	h.setBanned(c, true, "User banned successfully")
}

// UnbanUser godoc
// @Summary Lift a ban
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/unbanUser/{id} [patch]
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	h.setBanned(c, false, "User unbanned successfully")
}

func (h *AdminHandler) setBanned(c *gin.Context, banned bool, message string) {
	userID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	user, err := h.adminService.SetUserBanned(c.Request.Context(), userID, banned)
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, message, gin.H{"user": userPayload(user)})
}

// UpdateUserRole godoc
// @Summary Change an account's role
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param role body updateUserRoleRequest true "New role"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/updateUserRole/{id} [patch]
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req updateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Valid role is required (guest, user, admin)", err.Error())
		return
	}

	user, err := h.adminService.UpdateUserRole(c.Request.Context(), userID, domain.Role(req.Role))
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "User role updated", gin.H{"user": userPayload(user)})
}

// ListPrograms godoc
// @Summary List every program, including private ones
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/programs [get]
func (h *AdminHandler) ListPrograms(c *gin.Context) {
	programs, err := h.adminService.ListPrograms(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch programs")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"programs": programs})
}

// CreateProgram godoc
// @Summary Create a program as the acting admin
// @Tags admin
// @Accept json
// @Produce json
// @Param program body createProgramRequest true "Program payload"
// @Success 201 {object} map[string]interface{}
// @Router /api/admin/createProgram [post]
func (h *AdminHandler) CreateProgram(c *gin.Context) {
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Invalid program payload", err.Error())
		return
	}

	actor, _ := getCurrentUser(c)
	input := service.ProgramInput{
		Title:        req.Title,
		ShortLabel:   req.ShortLabel,
		Summary:      req.Summary,
		Description:  req.Description,
		Tags:         req.Tags,
		DurationHint: req.DurationHint,
		Type:         domain.ProgramType(req.Type),
		IsPublic:     req.IsPublic,
		ProgramInfo:  req.ProgramInfo.toDomain(),
	}

	program, err := h.adminService.CreateProgram(c.Request.Context(), actor, input)
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Program created successfully", gin.H{"program": program})
}

// EditProgram godoc
// @Summary Edit any program's fields
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param program body editProgramRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/editProgram/{id} [patch]
func (h *AdminHandler) EditProgram(c *gin.Context) {
	programID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req editProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	edit := service.ProgramEdit{
		Title:        req.Title,
		ShortLabel:   req.ShortLabel,
		Summary:      req.Summary,
		Description:  req.Description,
		Tags:         req.Tags,
		DurationHint: req.DurationHint,
		IsPublic:     req.IsPublic,
		AuthorName:   req.AuthorName,
	}
	if req.Type != nil {
		t := domain.ProgramType(*req.Type)
		edit.Type = &t
	}
	if req.ProgramInfo != nil {
		info := req.ProgramInfo.toDomain()
		edit.ProgramInfo = &info
	}

	program, err := h.adminService.EditProgram(c.Request.Context(), programID, edit)
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Program updated", gin.H{"program": program})
}

// DeleteProgram godoc
// @Summary Delete a program and its ratings
// @Tags admin
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/deleteProgram/{id} [delete]
func (h *AdminHandler) DeleteProgram(c *gin.Context) {
	programID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteProgram(c.Request.Context(), programID); err != nil {
		h.respondAdminError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Program deleted successfully", nil)
}

// CreateCategory godoc
// @Summary Add a category
// @Tags admin
// @Accept json
// @Produce json
// @Param category body createCategoryRequest true "Category fields"
// @Success 201 {object} map[string]interface{}
// @Router /categories [post]
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Label, slug, and type are required", err.Error())
		return
	}

	category, err := h.adminService.CreateCategory(c.Request.Context(), req.Label, req.Slug, req.Type)
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Category created", gin.H{"category": category})
}

func (h *AdminHandler) respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidProgramType),
		errors.Is(err, service.ErrProgramTitle),
		errors.Is(err, service.ErrExerciseIncomplete),
		errors.Is(err, service.ErrCategoryFields),
		errors.Is(err, service.ErrCategoryExists):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Something went wrong")
	}
}
