package bar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	applog "cocktailbar/internal/log"
	"cocktailbar/internal/notify"
	"cocktailbar/models"
)

// OrderRequest is the customer's order form.
type OrderRequest struct {
	CustomerName string
	CocktailID   string
	Note         string
}

type orderInput struct {
	CustomerName string `validate:"required"`
	CocktailID   uint   `validate:"required"`
	Note         string `validate:"max=1000"`
}

// OrderResult is the outcome of PlaceOrder. On OutcomeInvalid, Message
// explains the problem and SelectedID echoes the chosen cocktail so the menu
// can restore it.
type OrderResult struct {
	Outcome    Outcome
	Message    string
	SelectedID string
	Order      *models.Order
	Delivery   notify.Result
}

// PlaceOrder validates and persists an order, then notifies staff. A failed
// notification never undoes the order.
func (s *Service) PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	id, parsed := ParseID(req.CocktailID)
	selected := ""
	if parsed {
		selected = fmt.Sprint(id)
	}

	input := orderInput{
		CustomerName: strings.TrimSpace(req.CustomerName),
		CocktailID:   id,
		Note:         strings.TrimSpace(req.Note),
	}
	if err := s.validate.Struct(input); err != nil {
		applog.Debug(ctx, "order rejected", "reason", err.Error())
		return OrderResult{Outcome: OutcomeInvalid, Message: orderProblem(err), SelectedID: selected}, nil
	}

	cocktail, err := s.store.FindCocktail(ctx, input.CocktailID)
	if isNotFound(err) {
		return OrderResult{Outcome: OutcomeInvalid, Message: MsgUnknownCocktail, SelectedID: selected}, nil
	}
	if err != nil {
		return OrderResult{}, fmt.Errorf("load cocktail %d: %w", input.CocktailID, err)
	}

	order := &models.Order{
		CustomerName: input.CustomerName,
		CocktailID:   cocktail.ID,
		CocktailName: cocktail.Name,
		Note:         input.Note,
	}
	if _, err := s.store.CreateOrder(ctx, order); err != nil {
		return OrderResult{}, err
	}
	applog.Info(ctx, "order placed", "order", order.ID, "cocktail", cocktail.ID)

	var delivery notify.Result
	if s.notifier != nil {
		delivery = s.notifier.Dispatch(ctx, *order)
	}

	return OrderResult{Outcome: OutcomeOK, Order: order, Delivery: delivery, SelectedID: selected}, nil
}

// Confirmation is what the order confirmation page shows.
type Confirmation struct {
	Order     *models.Order
	ManualURL string
	Fallback  bool
}

// OrderConfirmation loads an order for its confirmation page. The manual URL
// is dropped unless it is a wa.me deep link. It returns OutcomeNotFound when
// the id is malformed or unknown.
func (s *Service) OrderConfirmation(ctx context.Context, orderID, manualURL string, fallback bool) (Confirmation, Outcome, error) {
	id, ok := ParseID(orderID)
	if !ok {
		return Confirmation{}, OutcomeNotFound, nil
	}
	order, err := s.store.FindOrder(ctx, id)
	if isNotFound(err) {
		return Confirmation{}, OutcomeNotFound, nil
	}
	if err != nil {
		return Confirmation{}, OutcomeOK, err
	}

	link := strings.TrimSpace(manualURL)
	if !notify.IsDeepLink(link) {
		link = ""
	}
	return Confirmation{Order: order, ManualURL: link, Fallback: fallback}, OutcomeOK, nil
}

// DeleteOrder removes one order. Unknown ids are reported as not found.
func (s *Service) DeleteOrder(ctx context.Context, rawID string) (Outcome, error) {
	id, ok := ParseID(rawID)
	if !ok {
		return OutcomeInvalid, nil
	}
	res, err := s.store.DeleteOrder(ctx, id)
	if err != nil {
		return OutcomeOK, err
	}
	if res.RowsAffected == 0 {
		return OutcomeNotFound, nil
	}
	applog.Info(ctx, "order deleted", "order", id)
	return OutcomeOK, nil
}

func orderProblem(err error) string {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return MsgOrderIncomplete
	}
	for _, field := range fields {
		if field.Field() != "Note" {
			return MsgOrderIncomplete
		}
	}
	return MsgNoteTooLong
}
