package api

import (
	"jadwal/program-vault/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the public category taxonomy.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler instance.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories godoc
// @Summary List all categories
// @Tags categories
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /getCategories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"categories": categories})
}
