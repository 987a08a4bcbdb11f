package mock

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cocktailbar/internal/db"
	applog "cocktailbar/internal/log"
	"cocktailbar/models"
)

// New returns an in-memory sqlite database seeded with a demo menu.
func New(ctx context.Context) (*gorm.DB, error) {
	return NewNamed(ctx, "cocktailbar-mock")
}

// NewNamed is New with an explicit database name so tests stay isolated.
func NewNamed(ctx context.Context, name string) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database", "name", name)

	database, err := db.OpenMemory(name, logger.Silent)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

// Menu is the demo menu seeded into mock databases.
func Menu() []models.Cocktail {
	return []models.Cocktail{
		{
			Name:         "Mojito",
			Ingredients:  "white rum, mint, lime, sugar, soda water",
			Instructions: "Muddle mint with lime and sugar, add rum and crushed ice, top with soda.",
			Strength:     "medium",
			GlassType:    "highball",
			Garnish:      "mint sprig",
			Tags:         "fresh, citrus",
		},
		{
			Name:         "Negroni",
			Ingredients:  "gin, Campari, sweet vermouth",
			Instructions: "Stir over ice and strain onto a large cube.",
			Strength:     "strong",
			GlassType:    "rocks",
			Garnish:      "orange peel",
			Tags:         "bitter, classic",
		},
		{
			Name:         "Aperol Spritz",
			Ingredients:  "Aperol, prosecco, soda water",
			Instructions: "Build over ice in a wine glass.",
			Strength:     "light",
			GlassType:    "wine",
			Garnish:      "orange slice",
			Tags:         "sparkling",
		},
	}
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	var count int64
	if err := database.WithContext(ctx).Model(&models.Cocktail{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		applog.Debug(ctx, "mock database already seeded", "cocktails", count)
		return nil
	}

	menu := Menu()
	for i := range menu {
		if err := database.WithContext(ctx).Create(&menu[i]).Error; err != nil {
			return fmt.Errorf("seed cocktail %q: %w", menu[i].Name, err)
		}
	}

	order := models.Order{
		CustomerName: "Avery",
		CocktailID:   menu[0].ID,
		CocktailName: menu[0].Name,
		Note:         "extra mint",
	}
	if err := database.WithContext(ctx).Omit("Cocktail").Create(&order).Error; err != nil {
		return fmt.Errorf("seed order: %w", err)
	}

	applog.Debug(ctx, "mock database seeded", "cocktails", len(menu))
	return nil
}
