package models

import "time"

// Question is the root of a thread. The owner is immutable after creation;
// fan-out reads it to find the thread owner.
type Question struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Language    string     `gorm:"size:50" json:"language"`
	CategoryID  *uint      `gorm:"index" json:"category_id"`
	IsSolved    bool       `gorm:"not null;default:false" json:"is_solved"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	User        User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Answers     []Answer   `json:"answers,omitempty"`
	FollowUps   []FollowUp `json:"followups,omitempty"`
}

// OwnerID satisfies the authorization guard's ownable contract.
func (q *Question) OwnerID() uint { return q.UserID }
