package model

import "time"

type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "ACTIVE"
	ItemStatusInactive ItemStatus = "INACTIVE"
	ItemStatusSold     ItemStatus = "SOLD"
)

type ItemType string

const (
	ItemTypeProduct       ItemType = "PRODUCT"
	ItemTypeService       ItemType = "SERVICE"
	ItemTypeExperience    ItemType = "EXPERIENCE"
	ItemTypeSkillExchange ItemType = "SKILL_EXCHANGE"
)

type Item struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement"`
	Title         string     `gorm:"size:120;not null"`
	Description   string     `gorm:"type:text;not null"`
	ItemType      ItemType   `gorm:"column:item_type;size:32;not null"`
	PriceUnits    int64      `gorm:"column:price_units;not null"`
	PriceToins    int64      `gorm:"column:price_toins;not null;default:0"`
	Currency      string     `gorm:"size:16;not null;default:UNITS"`
	Tags          []string   `gorm:"serializer:json"`
	ImageURL      *string    `gorm:"size:512"`
	Location      string     `gorm:"size:255"`
	SellerUID     string     `gorm:"column:seller_uid;size:128;index;not null"`
	Status        ItemStatus `gorm:"size:32;not null;index"`
	ViewCount     uint       `gorm:"column:view_count;not null;default:0"`
	FavoriteCount uint       `gorm:"column:favorite_count;not null;default:0"`
	IsDeleted     bool       `gorm:"column:is_deleted;not null;default:false;index"`
	DeletedAt     *time.Time `gorm:"column:deleted_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}
