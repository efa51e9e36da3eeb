package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moringadesk/moringadesk/config"
	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
)

// ErrBadDirection is returned for a vote direction other than up or down.
var ErrBadDirection = errors.New("vote direction must be \"up\" or \"down\"")

// VoteState is the standing of one (voter, answer) pair.
type VoteState int

const (
	NoVote VoteState = iota
	VotedUp
	VotedDown
)

func (s VoteState) String() string {
	switch s {
	case VotedUp:
		return "up"
	case VotedDown:
		return "down"
	default:
		return "none"
	}
}

// VoteEffect is the storage action a transition requires.
type VoteEffect int

const (
	EffectNone VoteEffect = iota
	EffectInsert
	EffectDelete
	EffectUpdate
)

// NextVoteState applies the toggle state machine: voting the current
// direction again retracts the vote, voting the other direction flips it.
func NextVoteState(current VoteState, direction string) (VoteState, VoteEffect, error) {
	var requested VoteState
	switch direction {
	case models.VoteUp:
		requested = VotedUp
	case models.VoteDown:
		requested = VotedDown
	default:
		return current, EffectNone, ErrBadDirection
	}

	switch current {
	case NoVote:
		return requested, EffectInsert, nil
	case requested:
		return NoVote, EffectDelete, nil
	default:
		return requested, EffectUpdate, nil
	}
}

// stateOf maps a stored vote_type to its state.
func stateOf(voteType string) VoteState {
	if voteType == models.VoteDown {
		return VotedDown
	}
	return VotedUp
}

// VoteResult describes what a toggle did.
type VoteResult struct {
	Previous VoteState
	Current  VoteState
	Effect   VoteEffect
	Notified bool
}

// VoteLedger owns the Vote entity: an idempotent toggle and count queries.
// The unique index on (user_id, answer_id) is the only concurrency control;
// a racing insert loses to the constraint and is retried against the row the
// winner created. Requests on different pairs never block each other.
type VoteLedger struct {
	db *gorm.DB
}

// NewVoteLedger creates a VoteLedger over the given database handle.
func NewVoteLedger(db *gorm.DB) *VoteLedger {
	return &VoteLedger{db: db}
}

// Toggle applies one vote request from actor on answer and, when the
// transition calls for it, writes the owner notification in the same
// transaction. Retractions are always silent; notifications never target the
// voter themselves.
func (l *VoteLedger) Toggle(actor middleware.Actor, answer *models.Answer, questionTitle, direction string) (*VoteResult, error) {
	if direction != models.VoteUp && direction != models.VoteDown {
		return nil, ErrBadDirection
	}

	result := &VoteResult{}
	err := l.db.Transaction(func(tx *gorm.DB) error {
		// Two attempts: the second runs only when a concurrent insert on the
		// same pair won the unique index race, and re-reads the winner's row.
		for attempt := 0; attempt < 2; attempt++ {
			var existing models.Vote
			current := NoVote
			err := voteLookup(tx, actor.ID, answer.ID, attempt > 0).First(&existing).Error
			switch {
			case err == nil:
				current = stateOf(existing.VoteType)
			case errors.Is(err, gorm.ErrRecordNotFound):
				// no standing vote
			default:
				return err
			}

			next, effect, err := NextVoteState(current, direction)
			if err != nil {
				return err
			}
			result.Previous = current
			result.Current = next
			result.Effect = effect

			switch effect {
			case EffectInsert:
				vote := models.Vote{UserID: actor.ID, AnswerID: answer.ID, VoteType: direction}
				if err := tx.Create(&vote).Error; err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 0 {
						continue
					}
					return err
				}
			case EffectDelete:
				if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
					return err
				}
			case EffectUpdate:
				if err := tx.Model(&existing).Update("vote_type", direction).Error; err != nil {
					return err
				}
			}

			if l.shouldNotify(effect, direction, actor.ID, answer.UserID) {
				notification := models.Notification{
					UserID:  answer.UserID,
					Type:    models.NotificationVote,
					Message: VoteMessage(actor.Username, questionTitle, direction),
				}
				if err := tx.Create(&notification).Error; err != nil {
					return err
				}
				result.Notified = true
			}
			return nil
		}
		return errors.New("vote toggle did not converge")
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// voteLookup builds the query for one (voter, answer) pair. The retry after a
// lost insert race must be a locking read: a plain SELECT would reuse the
// transaction's consistent-read snapshot, taken before the winner committed,
// and the winner's row would stay invisible. FOR UPDATE reads the latest
// committed version.
func voteLookup(tx *gorm.DB, userID, answerID uint, lock bool) *gorm.DB {
	q := tx.Where("user_id = ? AND answer_id = ?", userID, answerID)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// shouldNotify applies the notification policy for one transition.
func (l *VoteLedger) shouldNotify(effect VoteEffect, direction string, voterID, ownerID uint) bool {
	if voterID == ownerID {
		return false
	}
	cfg := config.Get()
	switch effect {
	case EffectInsert:
		return direction != models.VoteDown || cfg.NotifyOnDownvote
	case EffectUpdate:
		if !cfg.NotifyOnVoteChange {
			return false
		}
		return direction != models.VoteDown || cfg.NotifyOnDownvote
	default:
		// retracting is silent
		return false
	}
}

// VoteMessage renders the notification text for a vote. Deterministic given
// (actor, question, direction).
func VoteMessage(actorName, questionTitle, direction string) string {
	if direction == models.VoteDown {
		return fmt.Sprintf("%s downvoted your answer on %q", actorName, questionTitle)
	}
	return fmt.Sprintf("%s upvoted your answer on %q", actorName, questionTitle)
}

// Counts returns the up and down totals for an answer.
func (l *VoteLedger) Counts(answerID uint) (up int64, down int64, err error) {
	if err = l.db.Model(&models.Vote{}).
		Where("answer_id = ? AND vote_type = ?", answerID, models.VoteUp).
		Count(&up).Error; err != nil {
		return 0, 0, err
	}
	if err = l.db.Model(&models.Vote{}).
		Where("answer_id = ? AND vote_type = ?", answerID, models.VoteDown).
		Count(&down).Error; err != nil {
		return 0, 0, err
	}
	return up, down, nil
}
