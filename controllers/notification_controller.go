package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
	"github.com/moringadesk/moringadesk/services"
	"github.com/moringadesk/moringadesk/utils"
)

// NotificationController serves each user's notification inbox.
type NotificationController struct {
	db *gorm.DB
}

// NewNotificationController creates a NotificationController.
func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

func unreadCountCacheKey(userID uint) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

// MyNotifications lists the actor's notifications, newest first. Supports
// is_read, limit and offset query filters.
func (n *NotificationController) MyNotifications(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	limit := 20
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(ctx.Query("offset")); err == nil && v > 0 {
		offset = v
	}

	query := n.db.Model(&models.Notification{}).Where("user_id = ?", actor.ID)
	if raw := ctx.Query("is_read"); raw != "" {
		isRead, err := strconv.ParseBool(raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40070, "is_read must be true or false")
			return
		}
		query = query.Where("is_read = ?", isRead)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to count notifications")
		return
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to list notifications")
		return
	}

	items := make([]gin.H, 0, len(notifications))
	for _, item := range notifications {
		items = append(items, notificationView(item))
	}
	utils.Success(ctx, gin.H{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// UnreadCount returns the actor's unread notification count, cached briefly
// in Redis since clients poll this endpoint.
func (n *NotificationController) UnreadCount(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	key := unreadCountCacheKey(actor.ID)
	if b, ok := utils.CacheGetBytes(key); ok {
		if count, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			utils.Success(ctx, gin.H{"unread": count})
			return
		}
	}

	var count int64
	if err := n.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.ID, false).
		Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to count notifications")
		return
	}

	utils.CacheSetBytes(key, []byte(strconv.FormatInt(count, 10)), utils.ListCacheTTL)
	utils.Success(ctx, gin.H{"unread": count})
}

// ListAll lists every notification. Admin only (route middleware).
func (n *NotificationController) ListAll(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var total int64
	if err := n.db.Model(&models.Notification{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to count notifications")
		return
	}

	var notifications []models.Notification
	if err := n.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&notifications).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to list notifications")
		return
	}

	items := make([]gin.H, 0, len(notifications))
	for _, item := range notifications {
		items = append(items, notificationView(item))
	}
	utils.Success(ctx, gin.H{
		"items":      items,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

// MarkRead marks one notification read. Recipient only.
func (n *NotificationController) MarkRead(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var notification models.Notification
	if err := n.db.First(&notification, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40450, "notification not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to load notification")
		return
	}

	if notification.UserID != actor.ID {
		utils.Error(ctx, http.StatusForbidden, 40350, "notification belongs to another user")
		return
	}

	if err := n.db.Model(&notification).Update("is_read", true).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to update notification")
		return
	}

	utils.InvalidateByPrefix(unreadCountCacheKey(actor.ID))
	utils.Success(ctx, gin.H{"id": notification.ID, "is_read": true})
}

// MarkAllRead marks every unread notification of the actor as read.
func (n *NotificationController) MarkAllRead(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	res := n.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.ID, false).
		Update("is_read", true)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50077, "failed to update notifications")
		return
	}

	utils.InvalidateByPrefix(unreadCountCacheKey(actor.ID))
	utils.Success(ctx, gin.H{"marked": res.RowsAffected})
}

// DeleteNotification removes a notification. Recipient or admin.
func (n *NotificationController) DeleteNotification(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var notification models.Notification
	if err := n.db.First(&notification, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40450, "notification not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50078, "failed to load notification")
		return
	}

	if err := services.Authorize(actor, &notification, services.OpDelete); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40351, "only the recipient or an admin can delete this notification")
		return
	}

	if err := n.db.Delete(&notification).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50079, "failed to delete notification")
		return
	}

	utils.InvalidateByPrefix(unreadCountCacheKey(notification.UserID))
	utils.Success(ctx, gin.H{"message": "notification deleted"})
}

func notificationView(n models.Notification) gin.H {
	return gin.H{
		"id":         n.ID,
		"user_id":    n.UserID,
		"type":       n.Type,
		"message":    n.Message,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt,
	}
}
