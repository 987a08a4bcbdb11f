package bar

import (
	"context"
	"strings"

	"cocktailbar/internal/db"
	"cocktailbar/models"
)

// Dashboard is everything the admin page lists.
type Dashboard struct {
	Cocktails []models.Cocktail
	Orders    []models.Order
	Editing   *models.Cocktail
	Problem   string
}

// Dashboard loads the cocktails newest first, the latest orders and the
// cocktail selected for editing. An edit id that matches nothing sets
// Problem.
func (s *Service) Dashboard(ctx context.Context, editID string) (Dashboard, error) {
	cocktails, err := s.store.LatestCocktails(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	orders, err := s.store.RecentOrders(ctx, db.RecentOrdersLimit)
	if err != nil {
		return Dashboard{}, err
	}

	data := Dashboard{Cocktails: cocktails, Orders: orders}
	if strings.TrimSpace(editID) == "" {
		return data, nil
	}

	id, ok := ParseID(editID)
	if !ok {
		data.Problem = MsgEditTargetMissing
		return data, nil
	}
	editing, err := s.store.FindCocktail(ctx, id)
	switch {
	case isNotFound(err):
		data.Problem = MsgEditTargetMissing
	case err != nil:
		return Dashboard{}, err
	default:
		data.Editing = editing
	}
	return data, nil
}
