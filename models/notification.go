package models

import "time"

// Notification kinds written by the fan-out engine.
const (
	NotificationAnswer   = "answer"
	NotificationFollowUp = "followup"
	NotificationVote     = "vote"
)

// Notification is append-only except for the IsRead flag. UserID is always
// the recipient and is never the actor whose action produced the record.
// The composite index backs the common unread-inbox query.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_notifications_user_read;not null" json:"user_id"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Message   string    `gorm:"size:512;not null" json:"message"`
	IsRead    bool      `gorm:"index:idx_notifications_user_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerID satisfies the authorization guard's ownable contract; a
// notification is owned by its recipient.
func (n *Notification) OwnerID() uint { return n.UserID }
