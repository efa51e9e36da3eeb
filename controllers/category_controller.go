package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/models"
	"github.com/moringadesk/moringadesk/utils"
)

// CategoryController manages question categories. Writes are admin only.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a CategoryController.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// ListCategories returns all categories.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	var categories []models.Category
	if err := c.db.Order("name ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to list categories")
		return
	}
	utils.Success(ctx, gin.H{"items": categories})
}

// CreateCategory adds a category.
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "name is required")
		return
	}

	category := models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := c.db.Create(&category).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			utils.Error(ctx, http.StatusConflict, 40902, "category already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to create category")
		return
	}

	utils.Created(ctx, category)
}

// UpdateCategory edits a category.
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	var category models.Category
	if err := c.db.First(&category, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40460, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to load category")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40081, "invalid request payload")
		return
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		category.Name = v
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		category.Description = v
	}

	if err := c.db.Save(&category).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			utils.Error(ctx, http.StatusConflict, 40902, "category already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to update category")
		return
	}

	utils.Success(ctx, category)
}

// DeleteCategory removes a category; questions keep a dangling nil category.
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	var category models.Category
	if err := c.db.First(&category, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40460, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to load category")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Question{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50085, "failed to delete category")
		return
	}

	utils.Success(ctx, gin.H{"message": "category deleted"})
}
