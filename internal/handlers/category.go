package handlers

import (
	"net/http"
	"strings"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/pkg/errors"
	"github.com/gin-gonic/gin"
)

// ListCategories handles GET /categories (session-cached)
func ListCategories(c *gin.Context) {
	categories, err := Categories.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ResolveCategory handles GET /categories/resolve?id=<raw>
// Maps a canonical id, short-code or slug to the canonical id, tagged with
// how confident the match is.
func ResolveCategory(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		c.Error(errors.BadRequest("id required"))
		return
	}

	id, outcome := Categories.ResolveCategoryID(c.Request.Context(), raw)
	c.JSON(http.StatusOK, gin.H{
		"categoryId": id,
		"resolution": outcome,
	})
}

// CreateCategory handles POST /admin/categories (admin only)
func CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}

	if err := database.DB.Create(&category).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate key") {
			c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	Categories.Invalidate()

	c.JSON(http.StatusCreated, gin.H{"category": category})
}
