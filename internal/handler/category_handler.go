package handler

import (
	"net/http"

	"officina/internal/model"
	"officina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	boards *service.BoardService
}

func NewCategoryHandler(boards *service.BoardService) *CategoryHandler {
	return &CategoryHandler{boards: boards}
}

type SaveCategoryRequest struct {
	ID           *string `json:"id"`
	Name         string  `json:"name" binding:"required"`
	Identifier   string  `json:"identifier" binding:"required"`
	DisplayOrder int     `json:"display_order"`
}

type DeleteCategoryRequest struct {
	ID string `json:"id" binding:"required"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Identifier   string `json:"identifier"`
	DisplayOrder int    `json:"display_order"`
}

func categoryResponse(category *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:           category.ID.String(),
		Name:         category.Name,
		Identifier:   category.Identifier,
		DisplayOrder: category.DisplayOrder,
	}
}

// List returns the categories of the resolved site.
// @Summary List categories
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Success 200 {array} CategoryResponse
// @Router /kanban/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	categories, err := h.boards.ListCategories(c.Request.Context(), siteID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i := range categories {
		response[i] = categoryResponse(&categories[i])
	}
	c.JSON(http.StatusOK, response)
}

// Save creates or updates a category.
// @Summary Save a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SaveCategoryRequest true "Category"
// @Success 200 {object} CategoryResponse
// @Router /kanban/categories/save [post]
func (h *CategoryHandler) Save(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	var req SaveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	categoryID, ok := parseOptionalUUID(req.ID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
		return
	}

	category, err := h.boards.SaveCategory(c.Request.Context(), siteID, service.CategoryInput{
		ID:           categoryID,
		Name:         req.Name,
		Identifier:   req.Identifier,
		DisplayOrder: req.DisplayOrder,
	}, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryResponse(category))
}

type DuplicateCategoryRequest struct {
	ID string `json:"id" binding:"required"`
}

// Duplicate copies a category under a fresh identifier.
// @Summary Duplicate a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body DuplicateCategoryRequest true "Category to duplicate"
// @Success 200 {object} CategoryResponse
// @Router /kanban/categories/duplicate [post]
func (h *CategoryHandler) Duplicate(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	var req DuplicateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	categoryID, err := uuid.Parse(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
		return
	}

	category, err := h.boards.DuplicateCategory(c.Request.Context(), siteID, categoryID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryResponse(category))
}

// Delete removes a category, detaching referencing boards.
// @Summary Delete a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body DeleteCategoryRequest true "Category to delete"
// @Success 200 {object} map[string]string
// @Router /kanban/categories/delete [post]
func (h *CategoryHandler) Delete(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	var req DeleteCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	categoryID, err := uuid.Parse(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
		return
	}

	if err := h.boards.DeleteCategory(c.Request.Context(), siteID, categoryID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
