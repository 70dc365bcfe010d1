package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message represents a direct message between users. Messages are immutable
// once created; read state is tracked per user by the unread tracker, not on
// the message row.
type Message struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	SenderID    string    `gorm:"index" json:"senderId"`
	Sender      User      `gorm:"foreignKey:SenderID" json:"sender"`
	RecipientID string    `gorm:"index" json:"recipientId"`
	Recipient   User      `gorm:"foreignKey:RecipientID" json:"recipient"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
