package repository

import (
	"context"
	"fmt"

	"github.com/coomunity/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type MatchRepository interface {
	Create(ctx context.Context, m *model.Match) error
	FindByID(ctx context.Context, id string) (*model.Match, error)
	ListByUser(ctx context.Context, uid string) ([]model.Match, error)
	SetConfirmed(ctx context.Context, id string, role model.MatchRole) error
	FinalizeIfConfirmed(ctx context.Context, id string) (int64, error)
	CreateMessage(ctx context.Context, msg *model.MatchMessage) error
	ListMessages(ctx context.Context, matchID string) ([]model.MatchMessage, error)
	SetDB(db *gorm.DB)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *matchRepository) Create(ctx context.Context, m *model.Match) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *matchRepository) FindByID(ctx context.Context, id string) (*model.Match, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var m model.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) ListByUser(ctx context.Context, uid string) ([]model.Match, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Match
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ? OR seller_uid = ?", uid, uid).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// SetConfirmed flips the flag for the given role. Writing true over true
// is a no-op, so the call is idempotent.
func (r *matchRepository) SetConfirmed(ctx context.Context, id string, role model.MatchRole) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	var column string
	switch role {
	case model.MatchRoleBuyer:
		column = "buyer_confirmed"
	case model.MatchRoleSeller:
		column = "seller_confirmed"
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	return r.db.WithContext(ctx).
		Model(&model.Match{}).
		Where("id = ?", id).
		Update(column, true).Error
}

// FinalizeIfConfirmed moves the match to CONFIRMED only when both flags
// are set and the status has not been finalized yet. Returns the number
// of rows changed.
func (r *matchRepository) FinalizeIfConfirmed(ctx context.Context, id string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Match{}).
		Where("id = ? AND buyer_confirmed = true AND seller_confirmed = true AND status <> ?", id, model.MatchStatusConfirmed).
		Update("status", model.MatchStatusConfirmed)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *matchRepository) CreateMessage(ctx context.Context, msg *model.MatchMessage) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *matchRepository) ListMessages(ctx context.Context, matchID string) ([]model.MatchMessage, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.MatchMessage
	if err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
