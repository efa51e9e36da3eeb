package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
	"github.com/moringadesk/moringadesk/services"
	"github.com/moringadesk/moringadesk/utils"
)

// VoteController exposes the vote ledger over HTTP.
type VoteController struct {
	db     *gorm.DB
	ledger *services.VoteLedger
}

// NewVoteController creates a VoteController.
func NewVoteController(db *gorm.DB) *VoteController {
	return &VoteController{db: db, ledger: services.NewVoteLedger(db)}
}

// CastVote applies a vote toggle on an answer. Repeating the same direction
// retracts the vote; the opposite direction switches it.
func (v *VoteController) CastVote(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		AnswerID uint   `json:"answer_id" binding:"required"`
		VoteType string `json:"vote_type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "answer_id and vote_type are required")
		return
	}

	var answer models.Answer
	if err := v.db.First(&answer, req.AnswerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load answer")
		return
	}

	var question models.Question
	if err := v.db.Select("id", "title").First(&question, answer.QuestionID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load question")
		return
	}

	result, err := v.ledger.Toggle(actor, &answer, question.Title, req.VoteType)
	if err != nil {
		if errors.Is(err, services.ErrBadDirection) {
			utils.Error(ctx, http.StatusBadRequest, 40061, err.Error())
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to record vote")
		return
	}

	status := http.StatusOK
	if result.Effect == services.EffectInsert {
		status = http.StatusCreated
	}
	utils.Respond(ctx, status, 0, "success", gin.H{
		"answer_id": answer.ID,
		"previous":  result.Previous.String(),
		"current":   result.Current.String(),
	})
}

// VoteCounts returns the up/down tallies for an answer.
func (v *VoteController) VoteCounts(ctx *gin.Context) {
	var answer models.Answer
	if err := v.db.Select("id").First(&answer, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to load answer")
		return
	}

	up, down, err := v.ledger.Counts(answer.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to count votes")
		return
	}

	utils.Success(ctx, gin.H{
		"answer_id": answer.ID,
		"upvotes":   up,
		"downvotes": down,
	})
}
