package service

import (
	"context"
	"errors"
	"strings"

	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/coomunity/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type ItemInput struct {
	Title       string
	Description string
	ItemType    model.ItemType
	PriceUnits  int64
	PriceToins  int64
	Tags        []string
	ImageURL    *string
	Location    string
}

type ItemService interface {
	Create(ctx context.Context, sellerUID string, in ItemInput) (*model.Item, error)
	Get(ctx context.Context, id uint64) (*model.Item, error)
	Search(ctx context.Context, q repository.ItemSearch) ([]model.Item, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Item, error)
	Update(ctx context.Context, id uint64, sellerUID string, in ItemInput) (*model.Item, error)
	Delete(ctx context.Context, id uint64, sellerUID string) error
	Stats(ctx context.Context) (*repository.ItemStats, error)
	// EnsureOwned fails with ErrNotFound or ErrForbidden unless sellerUID
	// owns the item. Callers with side effects check this before writing
	// anywhere.
	EnsureOwned(ctx context.Context, id uint64, sellerUID string) error
	SetImageURL(ctx context.Context, id uint64, sellerUID, imageURL string) (*model.Item, error)
}

type itemService struct {
	repo repository.ItemRepository
}

func NewItemService(repo repository.ItemRepository) ItemService {
	return &itemService{repo: repo}
}

func validItemType(t model.ItemType) bool {
	switch t {
	case model.ItemTypeProduct, model.ItemTypeService, model.ItemTypeExperience, model.ItemTypeSkillExchange:
		return true
	}
	return false
}

func (s *itemService) Create(ctx context.Context, sellerUID string, in ItemInput) (*model.Item, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || len(in.Title) > 120 {
		return nil, errors.New("invalid title")
	}
	if in.Description == "" {
		return nil, errors.New("invalid description")
	}
	if !validItemType(in.ItemType) {
		return nil, errors.New("invalid item type")
	}
	if in.PriceUnits < 0 || in.PriceToins < 0 {
		return nil, errors.New("invalid price")
	}
	if in.ImageURL != nil && strings.HasPrefix(strings.TrimSpace(*in.ImageURL), "data:") {
		return nil, errors.New("inline image data is not accepted")
	}
	item := &model.Item{
		Title:       in.Title,
		Description: in.Description,
		ItemType:    in.ItemType,
		PriceUnits:  in.PriceUnits,
		PriceToins:  in.PriceToins,
		Currency:    "UNITS",
		Tags:        in.Tags,
		ImageURL:    in.ImageURL,
		Location:    in.Location,
		SellerUID:   sellerUID,
		Status:      model.ItemStatusActive,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get returns the item and bumps its view counter. The counter write is
// best-effort; a failed bump does not fail the read.
func (s *itemService) Get(ctx context.Context, id uint64) (*model.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.repo.IncrementViewCount(ctx, id); err == nil {
		item.ViewCount++
	}
	return item, nil
}

func (s *itemService) Search(ctx context.Context, q repository.ItemSearch) ([]model.Item, int64, error) {
	return s.repo.Search(ctx, q)
}

func (s *itemService) ListBySeller(ctx context.Context, sellerUID string) ([]model.Item, error) {
	return s.repo.ListBySeller(ctx, sellerUID)
}

func (s *itemService) ownedItem(ctx context.Context, id uint64, sellerUID string) (*model.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.SellerUID != sellerUID {
		return nil, ErrForbidden
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, id uint64, sellerUID string, in ItemInput) (*model.Item, error) {
	item, err := s.ownedItem(ctx, id, sellerUID)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		if len(t) > 120 {
			return nil, errors.New("invalid title")
		}
		item.Title = t
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		item.Description = d
	}
	if in.ItemType != "" {
		if !validItemType(in.ItemType) {
			return nil, errors.New("invalid item type")
		}
		item.ItemType = in.ItemType
	}
	if in.PriceUnits > 0 {
		item.PriceUnits = in.PriceUnits
	}
	if in.PriceToins > 0 {
		item.PriceToins = in.PriceToins
	}
	if in.Tags != nil {
		item.Tags = in.Tags
	}
	if in.ImageURL != nil {
		item.ImageURL = in.ImageURL
	}
	if in.Location != "" {
		item.Location = in.Location
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, id uint64, sellerUID string) error {
	if _, err := s.ownedItem(ctx, id, sellerUID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *itemService) Stats(ctx context.Context) (*repository.ItemStats, error) {
	return s.repo.Stats(ctx)
}

func (s *itemService) EnsureOwned(ctx context.Context, id uint64, sellerUID string) error {
	_, err := s.ownedItem(ctx, id, sellerUID)
	return err
}

func (s *itemService) SetImageURL(ctx context.Context, id uint64, sellerUID, imageURL string) (*model.Item, error) {
	item, err := s.ownedItem(ctx, id, sellerUID)
	if err != nil {
		return nil, err
	}
	item.ImageURL = &imageURL
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
