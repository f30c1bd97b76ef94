package models

import "time"

// Notification verbs. The strings are part of the API contract; unlike
// matches on the exact liked verb when cleaning up.
const (
	VerbLikedPost     = "liked your post"
	VerbCommentedPost = "commented on your post"
)

// Target types for notifications.
const (
	TargetPost = "post"
)

// Notification is a best-effort record of a social interaction. It is
// created as a side effect and never required to exist.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	ActorID     uint      `gorm:"not null" json:"actor_id"`
	Verb        string    `gorm:"not null" json:"verb"`
	TargetType  string    `gorm:"not null" json:"target_type"`
	TargetID    uint      `gorm:"not null" json:"target_id"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `json:"created_at"`

	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	Actor     User `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE" json:"actor,omitempty"`
}
