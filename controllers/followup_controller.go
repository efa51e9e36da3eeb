package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
	"github.com/moringadesk/moringadesk/services"
	"github.com/moringadesk/moringadesk/utils"
)

// FollowUpController handles follow-up comments on question threads.
type FollowUpController struct {
	db *gorm.DB
}

// NewFollowUpController creates a FollowUpController.
func NewFollowUpController(db *gorm.DB) *FollowUpController {
	return &FollowUpController{db: db}
}

// CreateFollowUp posts a follow-up on a question thread, optionally attached
// to a specific answer. Fan-out runs in the same transaction as the insert.
func (f *FollowUpController) CreateFollowUp(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		QuestionID uint   `json:"question_id" binding:"required"`
		AnswerID   *uint  `json:"answer_id"`
		Content    string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "question_id and content are required")
		return
	}
	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40040, "question_id and content are required")
		return
	}

	var question models.Question
	if err := f.db.First(&question, req.QuestionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load question")
		return
	}

	if req.AnswerID != nil {
		var answer models.Answer
		if err := f.db.Where("id = ? AND question_id = ?", *req.AnswerID, question.ID).First(&answer).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.Error(ctx, http.StatusNotFound, 40430, "answer not found on this question")
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load answer")
			return
		}
	}

	followUp := models.FollowUp{
		QuestionID: question.ID,
		AnswerID:   req.AnswerID,
		UserID:     actor.ID,
		Content:    content,
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&followUp).Error; err != nil {
			return err
		}
		return services.NotifyFollowUpCreated(tx, &question, actor)
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to create follow-up")
		return
	}

	utils.Created(ctx, followUpView(followUp))
}

// ListFollowUps returns follow-ups for a question, oldest first.
func (f *FollowUpController) ListFollowUps(ctx *gin.Context) {
	var question models.Question
	if err := f.db.First(&question, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load question")
		return
	}

	var followUps []models.FollowUp
	if err := f.db.Preload("User").
		Where("question_id = ?", question.ID).
		Order("created_at ASC").
		Find(&followUps).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to list follow-ups")
		return
	}

	items := make([]gin.H, 0, len(followUps))
	for _, item := range followUps {
		items = append(items, followUpView(item))
	}
	utils.Success(ctx, gin.H{"items": items})
}

// UpdateFollowUp edits follow-up content. Owner or admin.
func (f *FollowUpController) UpdateFollowUp(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var followUp models.FollowUp
	if err := f.db.First(&followUp, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "follow-up not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to load follow-up")
		return
	}

	if err := services.Authorize(actor, &followUp, services.OpUpdate); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40340, "only the owner or an admin can update this follow-up")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "content is required")
		return
	}
	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "content is required")
		return
	}

	if err := f.db.Model(&followUp).Update("content", content).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50056, "failed to update follow-up")
		return
	}
	followUp.Content = content
	utils.Success(ctx, followUpView(followUp))
}

// DeleteFollowUp removes a follow-up. Owner or admin.
func (f *FollowUpController) DeleteFollowUp(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var followUp models.FollowUp
	if err := f.db.First(&followUp, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "follow-up not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50057, "failed to load follow-up")
		return
	}

	if err := services.Authorize(actor, &followUp, services.OpDelete); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40341, "only the owner or an admin can delete this follow-up")
		return
	}

	if err := f.db.Delete(&followUp).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50058, "failed to delete follow-up")
		return
	}

	utils.Success(ctx, gin.H{"message": "follow-up deleted"})
}

func followUpView(f models.FollowUp) gin.H {
	view := gin.H{
		"id":          f.ID,
		"question_id": f.QuestionID,
		"answer_id":   f.AnswerID,
		"user_id":     f.UserID,
		"content":     f.Content,
		"created_at":  f.CreatedAt,
		"updated_at":  f.UpdatedAt,
	}
	if f.User.ID != 0 {
		view["username"] = f.User.Username
	}
	return view
}
