package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "PENDING"
	MatchStatusConfirmed MatchStatus = "CONFIRMED"
)

type MatchRole string

const (
	MatchRoleBuyer  MatchRole = "buyer"
	MatchRoleSeller MatchRole = "seller"
)

// Match pairs a buyer and a seller over a single item. Participants and
// the item are fixed at creation; only the confirmation flags and status
// change afterwards.
type Match struct {
	ID              string      `gorm:"primaryKey;size:36"`
	ItemID          uint64      `gorm:"column:item_id;index;not null"`
	BuyerUID        string      `gorm:"column:buyer_uid;size:128;index;not null"`
	SellerUID       string      `gorm:"column:seller_uid;size:128;index;not null"`
	BuyerConfirmed  bool        `gorm:"column:buyer_confirmed;not null;default:false"`
	SellerConfirmed bool        `gorm:"column:seller_confirmed;not null;default:false"`
	Status          MatchStatus `gorm:"size:32;not null;index"`
	CreatedAt       time.Time   `gorm:"autoCreateTime"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime"`
}

func (Match) TableName() string {
	return "matches"
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = MatchStatusPending
	}
	return nil
}

// HasParticipant reports whether uid is the buyer or the seller.
func (m *Match) HasParticipant(uid string) bool {
	return m.BuyerUID == uid || m.SellerUID == uid
}
