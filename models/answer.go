package models

import "time"

// Answer belongs to exactly one Question. IsApproved is flipped only by an
// admin via the approve endpoint; there is no fan-out on approval.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// OwnerID satisfies the authorization guard's ownable contract.
func (a *Answer) OwnerID() uint { return a.UserID }
