package repository

import (
	"context"
	"errors"
	"time"

	"github.com/coomunity/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

// ItemSearch carries the optional filters for Search. Zero values mean
// "no filter".
type ItemSearch struct {
	Query    string
	ItemType model.ItemType
	MinPrice int64
	MaxPrice int64
	Location string
	Tag      string
	Limit    int
	Offset   int
}

// ItemStats aggregates marketplace-wide counters.
type ItemStats struct {
	TotalItems    int64
	ActiveItems   int64
	TotalSellers  int64
	ItemsByType   map[string]int64
	ItemsByStatus map[string]int64
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uint64) (*model.Item, error)
	Search(ctx context.Context, q ItemSearch) ([]model.Item, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	SoftDelete(ctx context.Context, id uint64) error
	IncrementViewCount(ctx context.Context, id uint64) error
	Stats(ctx context.Context) (*ItemStats, error)
	SetDB(db *gorm.DB)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uint64) (*model.Item, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var item model.Item
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Search(ctx context.Context, q ItemSearch) ([]model.Item, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	tx := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("is_deleted = false AND status = ?", model.ItemStatusActive)
	if q.ItemType != "" {
		tx = tx.Where("item_type = ?", q.ItemType)
	}
	if q.MinPrice > 0 {
		tx = tx.Where("price_units >= ?", q.MinPrice)
	}
	if q.MaxPrice > 0 {
		tx = tx.Where("price_units <= ?", q.MaxPrice)
	}
	if q.Location != "" {
		tx = tx.Where("location LIKE ?", "%"+q.Location+"%")
	}
	if q.Query != "" {
		like := "%" + q.Query + "%"
		tx = tx.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if q.Tag != "" {
		// tags is a JSON array column; a quoted LIKE matches whole entries
		tx = tx.Where("tags LIKE ?", "%\""+q.Tag+"\"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Item
	if err := tx.
		Order("favorite_count DESC, created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *itemRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Item, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var items []model.Item
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ? AND is_deleted = false", sellerUID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) SoftDelete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"status":     model.ItemStatusInactive,
		}).Error
}

func (r *itemRepository) IncrementViewCount(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *itemRepository) Stats(ctx context.Context) (*ItemStats, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	stats := &ItemStats{
		ItemsByType:   map[string]int64{},
		ItemsByStatus: map[string]int64{},
	}
	base := r.db.WithContext(ctx).Model(&model.Item{}).Where("is_deleted = false")

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", model.ItemStatusActive).
		Count(&stats.ActiveItems).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Distinct("seller_uid").
		Count(&stats.TotalSellers).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byType []bucket
	if err := base.Session(&gorm.Session{}).
		Select("item_type AS `key`, COUNT(*) AS count").
		Group("item_type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, b := range byType {
		stats.ItemsByType[b.Key] = b.Count
	}
	var byStatus []bucket
	if err := base.Session(&gorm.Session{}).
		Select("status AS `key`, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ItemsByStatus[b.Key] = b.Count
	}
	return stats, nil
}

func (r *itemRepository) SetDB(db *gorm.DB) {
	r.db = db
}
