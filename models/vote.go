package models

import "time"

// Vote directions accepted on the wire and stored in vote_type.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Vote records one user's standing vote on one answer. The composite unique
// index is the concurrency-control primitive: two racing requests for the
// same (user, answer) pair cannot both insert, the loser hits the constraint
// and is retried as an update.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_votes_user_answer;not null" json:"user_id"`
	AnswerID  uint      `gorm:"uniqueIndex:idx_votes_user_answer;index;not null" json:"answer_id"`
	VoteType  string    `gorm:"size:8;not null" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID satisfies the authorization guard's ownable contract.
func (v *Vote) OwnerID() uint { return v.UserID }
