package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review holds one evaluation per (item, user). Resubmitting replaces the
// existing row via the unique index rather than creating a second one.
type Review struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ItemID        uint64    `gorm:"column:item_id;uniqueIndex:uk_reviews_item_user;not null" json:"itemId"`
	UserUID       string    `gorm:"column:user_uid;size:128;uniqueIndex:uk_reviews_item_user;not null" json:"userUid"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment,omitempty"`
	Communication *int      `json:"communication,omitempty"`
	Quality       *int      `json:"quality,omitempty"`
	Delivery      *int      `json:"delivery,omitempty"`
	Value         *int      `json:"value,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
