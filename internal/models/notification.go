package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeLike    NotificationType = "LIKE"
	NotificationTypeComment NotificationType = "COMMENT"
	NotificationTypeMessage NotificationType = "MESSAGE"
	NotificationTypeRating  NotificationType = "RATING"
)

// Notification is an in-app notification for a user.
type Notification struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID string `gorm:"index" json:"userId"`

	ActorID string `json:"actorId"`
	Actor   User   `gorm:"foreignKey:ActorID" json:"actor"`

	Type    NotificationType `gorm:"type:text" json:"type"`
	Message string           `json:"message"`

	PostID *string `json:"postId"`
	Post   *Post   `gorm:"foreignKey:PostID" json:"post,omitempty"`

	IsRead bool `gorm:"default:false" json:"isRead"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
