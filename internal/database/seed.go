package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"EstateRef-Backend/internal/domain"
)

// SeedData inserts sample catalog data for local development. It is a no-op
// when listings already exist.
func SeedData(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database seeding")

	var count int64
	db.Model(&domain.Listing{}).Count(&count)
	if count > 0 {
		log.Info("listings already exist, skipping seeding", zap.Int64("existing_count", count))
		return nil
	}

	listings := []domain.Listing{
		{
			Title:       "Villa X - 4BR Lakeview",
			Slug:        "villa-x",
			Location:    "Naivasha",
			Price:       18500000,
			Description: "Four-bedroom villa with a private garden overlooking the lake.",
			IsPublished: true,
		},
		{
			Title:       "Plot 12 - Serviced Quarter Acre",
			Slug:        "plot-12",
			Location:    "Kitengela",
			Price:       3950000,
			Description: "Serviced quarter-acre plot with water and power on site.",
			IsPublished: true,
		},
		{
			Title:       "Sunrise Apartments - 2BR",
			Slug:        "sunrise-apartments-2br",
			Location:    "Ruaka",
			Price:       7200000,
			Description: "Two-bedroom apartment in a gated community with borehole water.",
			IsPublished: true,
		},
		{
			Title:       "Acacia Court - Off-plan Townhouse",
			Slug:        "acacia-court",
			Location:    "Athi River",
			Price:       11800000,
			Description: "Off-plan three-bedroom townhouse, completion next year.",
			IsPublished: false,
		},
	}

	if err := db.Create(&listings).Error; err != nil {
		return fmt.Errorf("failed to seed listings: %w", err)
	}

	log.Info("database seeding completed", zap.Int("listings", len(listings)))
	return nil
}
