package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
	"github.com/moringadesk/moringadesk/utils"
)

// UserController manages user administration and profile endpoints.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// ListUsers returns paginated users. Admin only (enforced by route middleware).
func (u *UserController) ListUsers(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var users []models.User
	var total int64

	if err := u.db.Model(&models.User{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to count users")
		return
	}
	if err := u.db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list users")
		return
	}

	items := make([]gin.H, 0, len(users))
	for _, usr := range users {
		items = append(items, publicUser(usr))
	}
	utils.Success(ctx, gin.H{
		"items":      items,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

// GetUser returns one user's public info.
func (u *UserController) GetUser(ctx *gin.Context) {
	var user models.User
	if err := u.db.First(&user, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load user")
		return
	}
	utils.Success(ctx, publicUser(user))
}

// UpdateUser lets a user update their own profile fields.
func (u *UserController) UpdateUser(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	targetID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid user id")
		return
	}
	if uint(targetID) != actor.ID {
		utils.Error(ctx, http.StatusForbidden, 40311, "you can only update your own profile")
		return
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid request payload")
		return
	}

	var user models.User
	if err := u.db.First(&user, actor.ID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	if v := strings.TrimSpace(req.Username); v != "" {
		user.Username = v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		user.Email = v
	}

	if err := u.db.Save(&user).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			utils.Error(ctx, http.StatusConflict, 40901, "username or email already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update user")
		return
	}

	utils.Success(ctx, publicUser(user))
}

// ActivateUser toggles the active flag. Admin only (route middleware).
func (u *UserController) ActivateUser(ctx *gin.Context) {
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, "is_active (true/false) is required")
		return
	}

	var user models.User
	if err := u.db.First(&user, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load user")
		return
	}

	if err := u.db.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to update user")
		return
	}

	utils.Success(ctx, gin.H{"id": user.ID, "is_active": *req.IsActive})
}

// DeleteUser removes an account. Self or admin.
func (u *UserController) DeleteUser(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := u.db.First(&user, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to load user")
		return
	}

	if user.ID != actor.ID && !actor.IsAdmin() {
		utils.Error(ctx, http.StatusForbidden, 40312, "only the user or an admin can delete this account")
		return
	}

	if err := u.db.Delete(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to delete user")
		return
	}

	utils.Success(ctx, gin.H{"message": "user deleted"})
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func paginationMeta(page, pageSize int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}
