package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
	"github.com/moringadesk/moringadesk/services"
	"github.com/moringadesk/moringadesk/utils"
)

// QuestionController handles question CRUD and thread listing.
type QuestionController struct {
	db *gorm.DB
}

// NewQuestionController creates a QuestionController.
func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{db: db}
}

type questionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Language    string `json:"language"`
	CategoryID  *uint  `json:"category_id"`
}

// CreateQuestion posts a new question owned by the authenticated actor.
func (q *QuestionController) CreateQuestion(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req questionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "title and description are required")
		return
	}

	question := models.Question{
		UserID:      actor.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: utils.Sanitize(req.Description),
		Language:    strings.TrimSpace(req.Language),
		CategoryID:  req.CategoryID,
	}
	if question.Title == "" || question.Description == "" {
		utils.Error(ctx, http.StatusBadRequest, 40020, "title and description are required")
		return
	}

	if err := q.db.Create(&question).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create question")
		return
	}

	utils.InvalidateByPrefix("questions:list:")
	utils.Created(ctx, questionView(question))
}

// ListQuestions returns a paginated question feed, optionally filtered by
// language or category. Results for the first pages are cached briefly.
func (q *QuestionController) ListQuestions(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	language := strings.TrimSpace(ctx.Query("language"))
	categoryID := strings.TrimSpace(ctx.Query("category_id"))
	solved := strings.TrimSpace(ctx.Query("is_solved"))

	cacheKey := fmt.Sprintf("questions:list:%d:%d:%s:%s:%s", page, pageSize, language, categoryID, solved)
	if page <= 3 {
		if cached, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
	}

	query := q.db.Model(&models.Question{})
	if language != "" {
		query = query.Where("language = ?", language)
	}
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if solved != "" {
		isSolved, err := strconv.ParseBool(solved)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40022, "is_solved must be true or false")
			return
		}
		query = query.Where("is_solved = ?", isSolved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count questions")
		return
	}

	var questions []models.Question
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&questions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list questions")
		return
	}

	items := make([]gin.H, 0, len(questions))
	for _, item := range questions {
		items = append(items, questionView(item))
	}
	payload := gin.H{
		"items":      items,
		"pagination": paginationMeta(page, pageSize, total),
	}

	if page <= 3 {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, utils.ListCacheTTL)
	}
	utils.Success(ctx, payload)
}

// GetQuestion returns one question with its answers and follow-ups.
func (q *QuestionController) GetQuestion(ctx *gin.Context) {
	var question models.Question
	err := q.db.Preload("User").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Answers.User").
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("FollowUps.User").
		First(&question, ctx.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load question")
		return
	}

	view := questionView(question)
	answers := make([]gin.H, 0, len(question.Answers))
	for _, a := range question.Answers {
		answers = append(answers, answerView(a))
	}
	followUps := make([]gin.H, 0, len(question.FollowUps))
	for _, f := range question.FollowUps {
		followUps = append(followUps, followUpView(f))
	}
	view["answers"] = answers
	view["follow_ups"] = followUps
	utils.Success(ctx, view)
}

// UpdateQuestion edits title/description/flags. Owner or admin.
func (q *QuestionController) UpdateQuestion(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var question models.Question
	if err := q.db.First(&question, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load question")
		return
	}

	if err := services.Authorize(actor, &question, services.OpUpdate); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40320, "only the owner or an admin can update this question")
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Language    string `json:"language"`
		CategoryID  *uint  `json:"category_id"`
		IsSolved    *bool  `json:"is_solved"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	if v := strings.TrimSpace(req.Title); v != "" {
		question.Title = v
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		question.Description = utils.Sanitize(v)
	}
	if v := strings.TrimSpace(req.Language); v != "" {
		question.Language = v
	}
	if req.CategoryID != nil {
		question.CategoryID = req.CategoryID
	}
	if req.IsSolved != nil {
		question.IsSolved = *req.IsSolved
	}

	if err := q.db.Save(&question).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update question")
		return
	}

	utils.InvalidateByPrefix("questions:list:")
	utils.Success(ctx, questionView(question))
}

// MarkSolved flips the solved flag. Owner or admin.
func (q *QuestionController) MarkSolved(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var question models.Question
	if err := q.db.First(&question, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to load question")
		return
	}

	if err := services.Authorize(actor, &question, services.OpUpdate); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40320, "only the owner or an admin can mark this question solved")
		return
	}

	if err := q.db.Model(&question).Update("is_solved", true).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to update question")
		return
	}

	utils.Success(ctx, gin.H{"id": question.ID, "is_solved": true})
}

// DeleteQuestion removes a question and its whole thread: votes on its
// answers, follow-ups, answers, then the question, all in one transaction.
func (q *QuestionController) DeleteQuestion(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var question models.Question
	if err := q.db.First(&question, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to load question")
		return
	}

	if err := services.Authorize(actor, &question, services.OpDelete); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40321, "only the owner or an admin can delete this question")
		return
	}

	err := q.db.Transaction(func(tx *gorm.DB) error {
		var answerIDs []uint
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", question.ID).Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.FollowUp{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to delete question")
		return
	}

	utils.InvalidateByPrefix("questions:list:")
	utils.Success(ctx, gin.H{"message": "question deleted"})
}

func questionView(q models.Question) gin.H {
	view := gin.H{
		"id":          q.ID,
		"user_id":     q.UserID,
		"title":       q.Title,
		"description": q.Description,
		"language":    q.Language,
		"category_id": q.CategoryID,
		"is_solved":   q.IsSolved,
		"created_at":  q.CreatedAt,
		"updated_at":  q.UpdatedAt,
	}
	if q.User.ID != 0 {
		view["username"] = q.User.Username
	}
	return view
}
