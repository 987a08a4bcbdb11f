package mock

import (
	"context"
	"testing"

	"cocktailbar/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database, err := NewNamed(ctx, t.Name())
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var cocktails []models.Cocktail
	if err := database.WithContext(ctx).Order("id asc").Find(&cocktails).Error; err != nil {
		t.Fatalf("query cocktails: %v", err)
	}
	if len(cocktails) != len(Menu()) {
		t.Fatalf("expected %d seeded cocktails, got %d", len(Menu()), len(cocktails))
	}

	var orders []models.Order
	if err := database.WithContext(ctx).Find(&orders).Error; err != nil {
		t.Fatalf("query orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one seeded order, got %d", len(orders))
	}
	if orders[0].CocktailName != cocktails[0].Name {
		t.Fatalf("expected order snapshot %q, got %q", cocktails[0].Name, orders[0].CocktailName)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database, err := NewNamed(ctx, t.Name())
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}
	if err := seed(ctx, database); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	var count int64
	if err := database.Model(&models.Cocktail{}).Count(&count).Error; err != nil {
		t.Fatalf("count cocktails: %v", err)
	}
	if count != int64(len(Menu())) {
		t.Fatalf("expected reseed to be a no-op, got %d cocktails", count)
	}
}
