package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
)

// Reason records why a user qualified for a notification. When a user
// qualifies more than once, the first reason claims the slot; the owner check
// runs before the contributor checks, so "owner" always wins.
type Reason string

const (
	ReasonOwner      Reason = "owner"
	ReasonCoAnswerer Reason = "co-answerer"
	ReasonCoFollowUp Reason = "co-follow-up"
)

// Recipient is one entry of the computed fan-out set.
type Recipient struct {
	UserID uint
	Reason Reason
}

// ThreadReader exposes the store lookups the fan-out engine needs. The
// production implementation wraps the transaction the contribution was
// written in, so the recipient queries read the same committed snapshot.
type ThreadReader interface {
	// AnswerAuthorIDs returns the distinct author ids of all answers on the question.
	AnswerAuthorIDs(questionID uint) ([]uint, error)
	// FollowUpAuthorIDs returns the distinct author ids of all follow-ups on the question.
	FollowUpAuthorIDs(questionID uint) ([]uint, error)
}

// Recipients computes the deduplicated set of users to notify about a
// contribution to the question by actorID. The actor never appears in the
// result, regardless of how many ways they qualify.
func Recipients(store ThreadReader, question *models.Question, actorID uint) ([]Recipient, error) {
	seen := make(map[uint]bool)
	var out []Recipient

	if question.UserID != actorID {
		seen[question.UserID] = true
		out = append(out, Recipient{UserID: question.UserID, Reason: ReasonOwner})
	}

	answerers, err := store.AnswerAuthorIDs(question.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range answerers {
		if id == actorID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Recipient{UserID: id, Reason: ReasonCoAnswerer})
	}

	followers, err := store.FollowUpAuthorIDs(question.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range followers {
		if id == actorID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Recipient{UserID: id, Reason: ReasonCoFollowUp})
	}

	return out, nil
}

// AnswerMessage renders the notification text for an answer contribution.
// Deterministic given (actor, question, reason).
func AnswerMessage(actorName, questionTitle string, reason Reason) string {
	switch reason {
	case ReasonOwner:
		return fmt.Sprintf("%s answered your question %q", actorName, questionTitle)
	case ReasonCoAnswerer:
		return fmt.Sprintf("%s also answered %q, a question you answered", actorName, questionTitle)
	default:
		return fmt.Sprintf("%s answered %q, a question you followed up on", actorName, questionTitle)
	}
}

// FollowUpMessage renders the notification text for a follow-up contribution.
func FollowUpMessage(actorName, questionTitle string, reason Reason) string {
	switch reason {
	case ReasonOwner:
		return fmt.Sprintf("%s added a follow-up on your question %q", actorName, questionTitle)
	case ReasonCoAnswerer:
		return fmt.Sprintf("%s added a follow-up on %q, a question you answered", actorName, questionTitle)
	default:
		return fmt.Sprintf("%s also followed up on %q", actorName, questionTitle)
	}
}

// NotifyAnswerCreated writes one notification per recipient for a freshly
// inserted answer. Must run inside the same transaction as the answer insert
// so the contribution and its notifications commit or roll back together.
func NotifyAnswerCreated(tx *gorm.DB, question *models.Question, actor middleware.Actor) error {
	return writeContributionNotifications(tx, question, actor, models.NotificationAnswer, AnswerMessage)
}

// NotifyFollowUpCreated is the follow-up counterpart of NotifyAnswerCreated.
func NotifyFollowUpCreated(tx *gorm.DB, question *models.Question, actor middleware.Actor) error {
	return writeContributionNotifications(tx, question, actor, models.NotificationFollowUp, FollowUpMessage)
}

func writeContributionNotifications(tx *gorm.DB, question *models.Question, actor middleware.Actor, kind string, message func(actorName, questionTitle string, reason Reason) string) error {
	recipients, err := Recipients(gormThreadReader{tx: tx}, question, actor.ID)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	notifications := make([]models.Notification, 0, len(recipients))
	for _, r := range recipients {
		notifications = append(notifications, models.Notification{
			UserID:  r.UserID,
			Type:    kind,
			Message: message(actor.Username, question.Title, r.Reason),
		})
	}
	return tx.Create(&notifications).Error
}

// gormThreadReader implements ThreadReader over the contribution's transaction.
type gormThreadReader struct {
	tx *gorm.DB
}

func (r gormThreadReader) AnswerAuthorIDs(questionID uint) ([]uint, error) {
	var ids []uint
	err := r.tx.Model(&models.Answer{}).
		Distinct("user_id").
		Where("question_id = ?", questionID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r gormThreadReader) FollowUpAuthorIDs(questionID uint) ([]uint, error) {
	var ids []uint
	err := r.tx.Model(&models.FollowUp{}).
		Distinct("user_id").
		Where("question_id = ?", questionID).
		Pluck("user_id", &ids).Error
	return ids, err
}
