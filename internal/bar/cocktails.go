package bar

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	applog "cocktailbar/internal/log"
	"cocktailbar/internal/uploads"
	"cocktailbar/models"
)

var errNoUploads = errors.New("bar: image uploads are not configured")

// CocktailForm is the admin cocktail form. Image is nil when no file was
// attached.
type CocktailForm struct {
	Name         string
	Ingredients  string
	Instructions string
	Strength     string
	GlassType    string
	Garnish      string
	Tags         string
	Image        *multipart.FileHeader
}

type cocktailInput struct {
	Name        string `validate:"required"`
	Ingredients string `validate:"required"`
}

func (f CocktailForm) trimmed() CocktailForm {
	return CocktailForm{
		Name:         strings.TrimSpace(f.Name),
		Ingredients:  strings.TrimSpace(f.Ingredients),
		Instructions: strings.TrimSpace(f.Instructions),
		Strength:     strings.TrimSpace(f.Strength),
		GlassType:    strings.TrimSpace(f.GlassType),
		Garnish:      strings.TrimSpace(f.Garnish),
		Tags:         strings.TrimSpace(f.Tags),
		Image:        f.Image,
	}
}

func (f CocktailForm) apply(c *models.Cocktail) {
	c.Name = f.Name
	c.Ingredients = f.Ingredients
	c.Instructions = f.Instructions
	c.Strength = f.Strength
	c.GlassType = f.GlassType
	c.Garnish = f.Garnish
	c.Tags = f.Tags
}

// merge overlays the non-blank form values on a stored cocktail.
func (f CocktailForm) merge(stored models.Cocktail) *models.Cocktail {
	pick := func(value, fallback string) string {
		if value != "" {
			return value
		}
		return fallback
	}
	stored.Name = pick(f.Name, stored.Name)
	stored.Ingredients = pick(f.Ingredients, stored.Ingredients)
	stored.Instructions = pick(f.Instructions, stored.Instructions)
	stored.Strength = pick(f.Strength, stored.Strength)
	stored.GlassType = pick(f.GlassType, stored.GlassType)
	stored.Garnish = pick(f.Garnish, stored.Garnish)
	stored.Tags = pick(f.Tags, stored.Tags)
	return &stored
}

// CocktailResult is the outcome of a cocktail write. On OutcomeInvalid,
// Cocktail holds the values to show in the form again.
type CocktailResult struct {
	Outcome  Outcome
	Message  string
	Cocktail *models.Cocktail
}

// Menu lists cocktails alphabetically.
func (s *Service) Menu(ctx context.Context) ([]models.Cocktail, error) {
	return s.store.MenuCocktails(ctx)
}

// Cocktail loads a single cocktail for its detail page.
func (s *Service) Cocktail(ctx context.Context, rawID string) (*models.Cocktail, Outcome, error) {
	id, ok := ParseID(rawID)
	if !ok {
		return nil, OutcomeNotFound, nil
	}
	cocktail, err := s.store.FindCocktail(ctx, id)
	if isNotFound(err) {
		return nil, OutcomeNotFound, nil
	}
	if err != nil {
		return nil, OutcomeOK, err
	}
	return cocktail, OutcomeOK, nil
}

// CreateCocktail validates the form, stores the optional image and inserts
// the cocktail. Nothing is left on disk when the request is rejected.
func (s *Service) CreateCocktail(ctx context.Context, form CocktailForm) (CocktailResult, error) {
	form = form.trimmed()
	draft := &models.Cocktail{}
	form.apply(draft)

	if msg := s.cocktailProblem(form); msg != "" {
		return CocktailResult{Outcome: OutcomeInvalid, Message: msg, Cocktail: draft}, nil
	}

	imagePath, msg, err := s.storeImage(form.Image)
	if err != nil {
		return CocktailResult{}, err
	}
	if msg != "" {
		return CocktailResult{Outcome: OutcomeInvalid, Message: msg, Cocktail: draft}, nil
	}
	draft.ImagePath = imagePath

	if _, err := s.store.CreateCocktail(ctx, draft); err != nil {
		s.discardImage(ctx, imagePath)
		return CocktailResult{}, err
	}
	applog.Info(ctx, "cocktail created", "cocktail", draft.ID, "image", draft.ImagePath != "")
	return CocktailResult{Outcome: OutcomeOK, Message: MsgCocktailSaved, Cocktail: draft}, nil
}

// UpdateCocktail rewrites an existing cocktail. A replaced image is removed
// only once the row points at the new one.
func (s *Service) UpdateCocktail(ctx context.Context, rawID string, form CocktailForm) (CocktailResult, error) {
	id, ok := ParseID(rawID)
	if !ok {
		return CocktailResult{Outcome: OutcomeNotFound, Message: MsgInvalidCocktailID}, nil
	}

	existing, err := s.store.FindCocktail(ctx, id)
	if isNotFound(err) {
		return CocktailResult{Outcome: OutcomeNotFound, Message: MsgCocktailMissing}, nil
	}
	if err != nil {
		return CocktailResult{}, fmt.Errorf("load cocktail %d: %w", id, err)
	}

	form = form.trimmed()
	if msg := s.cocktailProblem(form); msg != "" {
		return CocktailResult{Outcome: OutcomeInvalid, Message: msg, Cocktail: form.merge(*existing)}, nil
	}

	newImage, msg, err := s.storeImage(form.Image)
	if err != nil {
		return CocktailResult{}, err
	}
	if msg != "" {
		return CocktailResult{Outcome: OutcomeInvalid, Message: msg, Cocktail: form.merge(*existing)}, nil
	}

	updated := *existing
	form.apply(&updated)
	if newImage != "" {
		updated.ImagePath = newImage
	}

	res, err := s.store.UpdateCocktail(ctx, &updated)
	if err != nil {
		s.discardImage(ctx, newImage)
		return CocktailResult{}, err
	}
	if res.RowsAffected == 0 {
		s.discardImage(ctx, newImage)
		return CocktailResult{Outcome: OutcomeNotFound, Message: MsgCocktailMissing}, nil
	}

	if newImage != "" && existing.ImagePath != newImage {
		if err := s.releaseImage(ctx, existing.ImagePath, existing.ID); err != nil {
			applog.Error(ctx, "failed to remove replaced image", "cocktail", id, "error", err)
		}
	}
	applog.Info(ctx, "cocktail updated", "cocktail", id, "imageReplaced", newImage != "")
	return CocktailResult{Outcome: OutcomeOK, Message: MsgCocktailUpdated, Cocktail: &updated}, nil
}

// DeleteCocktail removes the cocktail image, then the cocktail and its
// orders.
func (s *Service) DeleteCocktail(ctx context.Context, rawID string) (Outcome, error) {
	id, ok := ParseID(rawID)
	if !ok {
		return OutcomeInvalid, nil
	}

	existing, err := s.store.FindCocktail(ctx, id)
	if isNotFound(err) {
		return OutcomeNotFound, nil
	}
	if err != nil {
		return OutcomeOK, fmt.Errorf("load cocktail %d: %w", id, err)
	}

	if err := s.releaseImage(ctx, existing.ImagePath, existing.ID); err != nil {
		return OutcomeOK, err
	}
	if _, err := s.store.DeleteCocktail(ctx, id); err != nil {
		return OutcomeOK, err
	}
	applog.Info(ctx, "cocktail deleted", "cocktail", id)
	return OutcomeOK, nil
}

func (s *Service) cocktailProblem(form CocktailForm) string {
	msg := MsgCocktailRequired
	if s.opts.RequireInstructions {
		msg = MsgCocktailInstrRequired
	}
	if err := s.validate.Struct(cocktailInput{Name: form.Name, Ingredients: form.Ingredients}); err != nil {
		return msg
	}
	if s.opts.RequireInstructions {
		if err := s.validate.Var(form.Instructions, "required"); err != nil {
			return msg
		}
	}
	return ""
}

// storeImage saves an attached image. A rejected file yields a message
// rather than an error.
func (s *Service) storeImage(header *multipart.FileHeader) (string, string, error) {
	if header == nil {
		return "", "", nil
	}
	if s.files == nil {
		return "", "", errNoUploads
	}
	path, err := s.files.Save(header)
	switch {
	case errors.Is(err, uploads.ErrNotImage):
		return "", MsgImageNotAllowed, nil
	case errors.Is(err, uploads.ErrTooLarge):
		return "", MsgImageTooLarge, nil
	case err != nil:
		return "", "", err
	}
	return path, "", nil
}

func (s *Service) discardImage(ctx context.Context, path string) {
	if path == "" || s.files == nil {
		return
	}
	if err := s.files.Remove(path); err != nil {
		applog.Error(ctx, "failed to discard upload", "path", path, "error", err)
	}
}

// releaseImage removes a cocktail's image unless another cocktail still
// uses the same file.
func (s *Service) releaseImage(ctx context.Context, path string, ownerID uint) error {
	if strings.TrimSpace(path) == "" || s.files == nil {
		return nil
	}
	shared, err := s.store.CountImageReferences(ctx, path, ownerID)
	if err != nil {
		return err
	}
	if shared > 0 {
		applog.Debug(ctx, "image still referenced, keeping file", "path", path, "references", shared)
		return nil
	}
	return s.files.Remove(path)
}
