package service

import "github.com/coomunity/marketplace-backend/internal/model"

type ConsciousnessLevel string

const (
	LevelSeed         ConsciousnessLevel = "SEED"
	LevelGrowing      ConsciousnessLevel = "GROWING"
	LevelFlourishing  ConsciousnessLevel = "FLOURISHING"
	LevelTranscendent ConsciousnessLevel = "TRANSCENDENT"
)

// ReciprocidadScore rates how much an item contributes back to the
// community, capped at 100. Detailed listings, local and service/
// experience offerings score higher.
func ReciprocidadScore(item *model.Item) int {
	score := 10

	if len(item.Description) > 100 {
		score += 15
	}
	if item.ImageURL != nil && *item.ImageURL != "" {
		score += 10
	}
	if len(item.Tags) > 2 {
		score += 10
	}
	if item.Location != "" {
		score += 15
	}
	if item.PriceUnits < 100 {
		score += 10
	}
	if item.ItemType == model.ItemTypeService || item.ItemType == model.ItemTypeExperience {
		score += 20
	}

	if score > 100 {
		score = 100
	}
	return score
}

func ConsciousnessLevelFor(item *model.Item) ConsciousnessLevel {
	score := ReciprocidadScore(item)
	switch {
	case score >= 80:
		return LevelTranscendent
	case score >= 60:
		return LevelFlourishing
	case score >= 40:
		return LevelGrowing
	default:
		return LevelSeed
	}
}
