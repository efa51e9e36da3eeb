package models

import "time"

// FAQ is a curated question/answer pair maintained outside the thread flow.
type FAQ struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Question  string    `gorm:"size:512;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	CreatedBy uint      `gorm:"index;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID satisfies the authorization guard's ownable contract.
func (f *FAQ) OwnerID() uint { return f.CreatedBy }
