package models

import "time"

// FollowUp is a reply within a thread. AnswerID is optional: a follow-up may
// target the thread generally or one specific answer.
type FollowUp struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	AnswerID   *uint     `gorm:"index" json:"answer_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// OwnerID satisfies the authorization guard's ownable contract.
func (f *FollowUp) OwnerID() uint { return f.UserID }
