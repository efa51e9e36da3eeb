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

// AnswerController handles answers and the notification fan-out that
// accompanies every new contribution.
type AnswerController struct {
	db *gorm.DB
}

// NewAnswerController creates an AnswerController.
func NewAnswerController(db *gorm.DB) *AnswerController {
	return &AnswerController{db: db}
}

// CreateAnswer posts an answer on a question. The answer insert and the
// notification fan-out commit in the same transaction.
func (a *AnswerController) CreateAnswer(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "content is required")
		return
	}
	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40030, "content is required")
		return
	}

	var question models.Question
	if err := a.db.First(&question, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load question")
		return
	}

	answer := models.Answer{
		QuestionID: question.ID,
		UserID:     actor.ID,
		Content:    content,
	}
	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		return services.NotifyAnswerCreated(tx, &question, actor)
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create answer")
		return
	}

	utils.Created(ctx, answerView(answer))
}

// ListAnswers returns all answers for a question, oldest first.
func (a *AnswerController) ListAnswers(ctx *gin.Context) {
	var question models.Question
	if err := a.db.First(&question, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load question")
		return
	}

	var answers []models.Answer
	if err := a.db.Preload("User").
		Where("question_id = ?", question.ID).
		Order("created_at ASC").
		Find(&answers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to list answers")
		return
	}

	items := make([]gin.H, 0, len(answers))
	for _, item := range answers {
		items = append(items, answerView(item))
	}
	utils.Success(ctx, gin.H{"items": items})
}

// GetAnswer returns one answer.
func (a *AnswerController) GetAnswer(ctx *gin.Context) {
	var answer models.Answer
	if err := a.db.Preload("User").First(&answer, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load answer")
		return
	}
	utils.Success(ctx, answerView(answer))
}

// UpdateAnswer edits answer content. Owner or admin.
func (a *AnswerController) UpdateAnswer(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var answer models.Answer
	if err := a.db.First(&answer, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to load answer")
		return
	}

	if err := services.Authorize(actor, &answer, services.OpUpdate); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40330, "only the owner or an admin can update this answer")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "content is required")
		return
	}
	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40030, "content is required")
		return
	}

	if err := a.db.Model(&answer).Update("content", content).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to update answer")
		return
	}
	answer.Content = content
	utils.Success(ctx, answerView(answer))
}

// ApproveAnswer marks an answer approved. Admin only.
func (a *AnswerController) ApproveAnswer(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var answer models.Answer
	if err := a.db.First(&answer, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50037, "failed to load answer")
		return
	}

	if err := services.Authorize(actor, &answer, services.OpApprove); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40331, "only an admin can approve answers")
		return
	}

	if err := a.db.Model(&answer).Update("is_approved", true).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50038, "failed to approve answer")
		return
	}

	utils.Success(ctx, gin.H{"id": answer.ID, "is_approved": true})
}

// DeleteAnswer removes an answer plus its votes and the follow-ups that
// target it, in one transaction. Owner or admin.
func (a *AnswerController) DeleteAnswer(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var answer models.Answer
	if err := a.db.First(&answer, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50039, "failed to load answer")
		return
	}

	if err := services.Authorize(actor, &answer, services.OpDelete); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40332, "only the owner or an admin can delete this answer")
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", answer.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("answer_id = ?", answer.ID).Delete(&models.FollowUp{}).Error; err != nil {
			return err
		}
		return tx.Delete(&answer).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to delete answer")
		return
	}

	utils.Success(ctx, gin.H{"message": "answer deleted"})
}

func answerView(a models.Answer) gin.H {
	view := gin.H{
		"id":          a.ID,
		"question_id": a.QuestionID,
		"user_id":     a.UserID,
		"content":     a.Content,
		"is_approved": a.IsApproved,
		"created_at":  a.CreatedAt,
		"updated_at":  a.UpdatedAt,
	}
	if a.User.ID != 0 {
		view["username"] = a.User.Username
	}
	return view
}
