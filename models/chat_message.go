package models

import "time"

// ChatMessage is one post on the shared chat board.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;not null" json:"username"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Channel   string    `gorm:"size:32;not null;default:'general';index:idx_chat_channel_created" json:"channel"`
	CreatedAt time.Time `gorm:"index:idx_chat_channel_created" json:"created_at"`
}

// TableName pins the table name so existing chat databases keep working.
func (ChatMessage) TableName() string { return "chat_messages" }
