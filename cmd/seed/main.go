package main

import (
	"fmt"
	"log"
	"os"

	"github.com/coomunity/marketplace-backend/internal/config"
	"github.com/coomunity/marketplace-backend/internal/db"
	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type seedItem struct {
	Title       string
	Description string
	ItemType    model.ItemType
	PriceUnits  int64
	Location    string
	Tags        []string
	SellerUID   string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	if err := gdb.AutoMigrate(
		&model.Item{},
		&model.Match{},
		&model.MatchMessage{},
		&model.Review{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	canSeed, err := shouldSeed(gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("items already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		items := buildSeedItems()
		for i := range items {
			item := model.Item{
				Title:       items[i].Title,
				Description: items[i].Description,
				ItemType:    items[i].ItemType,
				PriceUnits:  items[i].PriceUnits,
				Currency:    "UNITS",
				Tags:        items[i].Tags,
				Location:    items[i].Location,
				SellerUID:   items[i].SellerUID,
				Status:      model.ItemStatusActive,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("seed item %q: %w", item.Title, err)
			}
			// Demo match between the seller and a fixed demo buyer so
			// the match endpoints are exercisable out of the box.
			m := model.Match{
				ItemID:    item.ID,
				BuyerUID:  "demo-buyer",
				SellerUID: item.SellerUID,
			}
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("seed match for %q: %w", item.Title, err)
			}
			msg := model.MatchMessage{
				MatchID:   m.ID,
				SenderUID: "demo-buyer",
				Body:      "Hi! Is this still available?",
			}
			if err := tx.Create(&msg).Error; err != nil {
				return fmt.Errorf("seed message for %q: %w", item.Title, err)
			}
			log.Printf("seeded item=%d match=%s", item.ID, m.ID)
		}
		return nil
	})
}

func shouldSeed(gdb *gorm.DB) (bool, error) {
	if os.Getenv("FORCE_SEED") == "true" {
		return true, nil
	}
	var count int64
	if err := gdb.Model(&model.Item{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count items: %w", err)
	}
	return count == 0, nil
}

func buildSeedItems() []seedItem {
	return []seedItem{
		{
			Title:       "Organic garden consulting",
			Description: "Two-hour session to plan a balcony or backyard garden, including seed selection and a seasonal care calendar tailored to your microclimate.",
			ItemType:    model.ItemTypeService,
			PriceUnits:  45,
			Location:    "Medellín",
			Tags:        []string{"garden", "sustainability", "consulting"},
			SellerUID:   "demo-seller-1",
		},
		{
			Title:       "Handmade ceramic mug set",
			Description: "Set of four stoneware mugs, wheel-thrown and glazed in earth tones. Minor variations between pieces, food safe.",
			ItemType:    model.ItemTypeProduct,
			PriceUnits:  80,
			Location:    "Bogotá",
			Tags:        []string{"ceramics", "handmade", "kitchen"},
			SellerUID:   "demo-seller-1",
		},
		{
			Title:       "Intro to sound healing circle",
			Description: "Group experience with singing bowls and guided breathing. Bring a mat; tea included afterwards.",
			ItemType:    model.ItemTypeExperience,
			PriceUnits:  30,
			Location:    "Medellín",
			Tags:        []string{"wellness", "community", "experience"},
			SellerUID:   "demo-seller-2",
		},
	}
}
