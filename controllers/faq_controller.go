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

// FAQController manages the frequently-asked-questions knowledge base.
type FAQController struct {
	db *gorm.DB
}

// NewFAQController creates an FAQController.
func NewFAQController(db *gorm.DB) *FAQController {
	return &FAQController{db: db}
}

// ListFAQs returns all FAQ entries.
func (f *FAQController) ListFAQs(ctx *gin.Context) {
	var faqs []models.FAQ
	if err := f.db.Order("created_at DESC").Find(&faqs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to list faqs")
		return
	}
	utils.Success(ctx, gin.H{"items": faqs})
}

// CreateFAQ adds an FAQ entry owned by the actor.
func (f *FAQController) CreateFAQ(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Question string `json:"question" binding:"required"`
		Answer   string `json:"answer" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40090, "question and answer are required")
		return
	}

	faq := models.FAQ{
		Question:  strings.TrimSpace(req.Question),
		Answer:    utils.Sanitize(strings.TrimSpace(req.Answer)),
		CreatedBy: actor.ID,
	}
	if faq.Question == "" || faq.Answer == "" {
		utils.Error(ctx, http.StatusBadRequest, 40090, "question and answer are required")
		return
	}

	if err := f.db.Create(&faq).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to create faq")
		return
	}

	utils.Created(ctx, faq)
}

// UpdateFAQ edits an FAQ entry. Owner or admin.
func (f *FAQController) UpdateFAQ(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var faq models.FAQ
	if err := f.db.First(&faq, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40470, "faq not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to load faq")
		return
	}

	if err := services.Authorize(actor, &faq, services.OpUpdate); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40360, "only the owner or an admin can update this faq")
		return
	}

	var req struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40091, "invalid request payload")
		return
	}
	if v := strings.TrimSpace(req.Question); v != "" {
		faq.Question = v
	}
	if v := strings.TrimSpace(req.Answer); v != "" {
		faq.Answer = utils.Sanitize(v)
	}

	if err := f.db.Save(&faq).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to update faq")
		return
	}

	utils.Success(ctx, faq)
}

// DeleteFAQ removes an FAQ entry. Owner or admin.
func (f *FAQController) DeleteFAQ(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var faq models.FAQ
	if err := f.db.First(&faq, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40470, "faq not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to load faq")
		return
	}

	if err := services.Authorize(actor, &faq, services.OpDelete); err != nil {
		utils.Error(ctx, http.StatusForbidden, 40361, "only the owner or an admin can delete this faq")
		return
	}

	if err := f.db.Delete(&faq).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to delete faq")
		return
	}

	utils.Success(ctx, gin.H{"message": "faq deleted"})
}
