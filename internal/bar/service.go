// Package bar holds the venue's business operations. Every operation returns
// a structured result that the HTTP layer turns into a redirect or a page, so
// the rules here can be exercised without a request in flight.
package bar

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"cocktailbar/internal/db"
	"cocktailbar/internal/notify"
	"cocktailbar/internal/uploads"
	"cocktailbar/models"
)

// Outcome classifies what an operation did.
type Outcome int

const (
	// OutcomeOK means the operation completed.
	OutcomeOK Outcome = iota
	// OutcomeInvalid means the submitted input was rejected.
	OutcomeInvalid
	// OutcomeNotFound means the referenced record does not exist.
	OutcomeNotFound
)

// User-facing messages.
const (
	MsgOrderIncomplete       = "Please enter your name and choose a drink."
	MsgUnknownCocktail       = "The selected drink does not exist."
	MsgCocktailRequired      = "Name and ingredients are required."
	MsgCocktailInstrRequired = "Name, ingredients and instructions are required."
	MsgInvalidCocktailID     = "Invalid cocktail id."
	MsgCocktailMissing       = "Cocktail not found."
	MsgEditTargetMissing     = "The cocktail selected for editing does not exist."
	MsgImageNotAllowed       = "Only image uploads are allowed."
	MsgImageTooLarge         = "The image is too large."
	MsgInvalidOrderID        = "Invalid order id."
	MsgNoteTooLong           = "The note is too long."
	MsgOrderMissing          = "Order not found."

	MsgCocktailSaved   = "Saved"
	MsgCocktailUpdated = "Cocktail updated"
	MsgCocktailDeleted = "Deleted"
	MsgOrderDeleted    = "Order deleted"
)

// Notifier relays a persisted order to staff.
type Notifier interface {
	Dispatch(ctx context.Context, order models.Order) notify.Result
	Configured() bool
}

// Options carries deployment variants.
type Options struct {
	RequireInstructions bool
}

// Service implements the ordering and catalogue rules.
type Service struct {
	store    *db.Store
	files    *uploads.Store
	notifier Notifier
	validate *validator.Validate
	opts     Options
}

// NewService wires the service to its collaborators.
func NewService(store *db.Store, files *uploads.Store, notifier Notifier, opts Options) *Service {
	return &Service{
		store:    store,
		files:    files,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		opts:     opts,
	}
}

// NotificationsConfigured reports whether orders reach staff in any way.
func (s *Service) NotificationsConfigured() bool {
	return s.notifier != nil && s.notifier.Configured()
}

// Ping checks that the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// RequireInstructions reports whether the cocktail form needs instructions.
func (s *Service) RequireInstructions() bool {
	return s.opts.RequireInstructions
}

// ParseID parses a positive record id.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrNotFound)
}
