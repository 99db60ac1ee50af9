package repository

import (
	"context"
	"errors"

	"github.com/coomunity/marketplace-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	// Upsert inserts the review or, when a row already exists for the
	// (item, user) pair, updates it in place. Atomic at the store level.
	Upsert(ctx context.Context, rv *model.Review) error
	FindByItemAndUser(ctx context.Context, itemID uint64, userUID string) (*model.Review, error)
	SetDB(db *gorm.DB)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *reviewRepository) Upsert(ctx context.Context, rv *model.Review) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_id"}, {Name: "user_uid"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"rating", "comment", "communication", "quality", "delivery", "value",
			}),
		}).
		Create(rv).Error
}

func (r *reviewRepository) FindByItemAndUser(ctx context.Context, itemID uint64, userUID string) (*model.Review, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rv model.Review
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND user_uid = ?", itemID, userUID).
		First(&rv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rv, nil
}
