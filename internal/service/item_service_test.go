package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/coomunity/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

type fakeItemRepo struct {
	items   map[uint64]*model.Item
	nextID  uint64
	deleted map[uint64]bool
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[uint64]*model.Item{}, deleted: map[uint64]bool{}}
}

func (r *fakeItemRepo) Create(ctx context.Context, item *model.Item) error {
	r.nextID++
	item.ID = r.nextID
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) FindByID(ctx context.Context, id uint64) (*model.Item, error) {
	item, ok := r.items[id]
	if !ok || item.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *fakeItemRepo) Search(ctx context.Context, q repository.ItemSearch) ([]model.Item, int64, error) {
	var out []model.Item
	for _, item := range r.items {
		if !item.IsDeleted {
			out = append(out, *item)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeItemRepo) ListBySeller(ctx context.Context, sellerUID string) ([]model.Item, error) {
	var out []model.Item
	for _, item := range r.items {
		if item.SellerUID == sellerUID && !item.IsDeleted {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *model.Item) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) SoftDelete(ctx context.Context, id uint64) error {
	if item, ok := r.items[id]; ok {
		item.IsDeleted = true
		item.Status = model.ItemStatusInactive
	}
	return nil
}

func (r *fakeItemRepo) IncrementViewCount(ctx context.Context, id uint64) error {
	if item, ok := r.items[id]; ok {
		item.ViewCount++
	}
	return nil
}

func (r *fakeItemRepo) Stats(ctx context.Context) (*repository.ItemStats, error) {
	return &repository.ItemStats{}, nil
}

func (r *fakeItemRepo) SetDB(db *gorm.DB) {}

func validInput() ItemInput {
	return ItemInput{
		Title:       "Huerto urbano",
		Description: "Clases de huerto en casa",
		ItemType:    model.ItemTypeService,
		PriceUnits:  50,
	}
}

func TestCreateItemValidation(t *testing.T) {
	svc := NewItemService(newFakeItemRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ItemInput)
	}{
		{"empty title", func(in *ItemInput) { in.Title = "  " }},
		{"long title", func(in *ItemInput) { in.Title = strings.Repeat("x", 121) }},
		{"empty description", func(in *ItemInput) { in.Description = "" }},
		{"bad type", func(in *ItemInput) { in.ItemType = "GADGET" }},
		{"negative price", func(in *ItemInput) { in.PriceUnits = -1 }},
		{"inline image", func(in *ItemInput) {
			u := "data:image/png;base64,AAAA"
			in.ImageURL = &u
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(ctx, "seller-1", in); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	item, err := svc.Create(ctx, "seller-1", validInput())
	if err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if item.Status != model.ItemStatusActive || item.SellerUID != "seller-1" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestGetItemBumpsViews(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewItemService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "seller-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 1; i <= 3; i++ {
		got, err := svc.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got.ViewCount != uint(i) {
			t.Fatalf("get %d: viewCount=%d want %d", i, got.ViewCount, i)
		}
	}
}

func TestItemOwnerGuard(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewItemService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "seller-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, created.ID, "intruder", ItemInput{Title: "hijacked"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("update by stranger: err=%v want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, created.ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete by stranger: err=%v want ErrForbidden", err)
	}
	if _, err := svc.Update(ctx, 9999, "seller-1", ItemInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: err=%v want ErrNotFound", err)
	}
	if err := svc.EnsureOwned(ctx, created.ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("ensure owned by stranger: err=%v want ErrForbidden", err)
	}
	if err := svc.EnsureOwned(ctx, created.ID, "seller-1"); err != nil {
		t.Fatalf("ensure owned by seller: %v", err)
	}
}

func TestDeleteItemHidesIt(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewItemService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "seller-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID, "seller-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: err=%v want ErrNotFound", err)
	}
}

func TestUpdateItemPartialFields(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewItemService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "seller-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.Update(ctx, created.ID, "seller-1", ItemInput{Location: "Medellín"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Location != "Medellín" {
		t.Fatalf("location not updated: %+v", updated)
	}
	if updated.Title != created.Title || updated.PriceUnits != created.PriceUnits {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
}
