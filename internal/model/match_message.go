package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	MatchID   string    `gorm:"column:match_id;size:36;index" json:"matchId"`
	SenderUID string    `gorm:"column:sender_uid;size:128;index" json:"senderUid"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (MatchMessage) TableName() string {
	return "match_messages"
}

func (m *MatchMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
