package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"cocktailbar/internal/bar"
	applog "cocktailbar/internal/log"
	"cocktailbar/internal/views/pages"
	"cocktailbar/models"
)

// multipartMemory is how much of a form is kept in memory before spilling
// to temporary files.
const multipartMemory = 1 << 20

// Dashboard lists cocktails and recent orders.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	data, err := h.service.Dashboard(r.Context(), query.Get("edit_id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	message := query.Get("error")
	if data.Problem != "" {
		message = data.Problem
	}
	h.render(w, r, http.StatusOK, pages.AdminDashboard(pages.DashboardData{
		Cocktails:           data.Cocktails,
		Orders:              data.Orders,
		Editing:             data.Editing,
		Error:               message,
		Success:             query.Get("success"),
		RequireInstructions: h.service.RequireInstructions(),
	}))
}

// CreateCocktail adds a cocktail from the dashboard form.
func (h *Handler) CreateCocktail(w http.ResponseWriter, r *http.Request) {
	form, problem, err := h.parseCocktailForm(w, r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer cleanupMultipart(r)
	if problem != "" {
		h.renderDashboardProblem(w, r, problem, nil, &models.Cocktail{})
		return
	}

	res, err := h.service.CreateCocktail(r.Context(), form)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if res.Outcome != bar.OutcomeOK {
		h.renderDashboardProblem(w, r, res.Message, nil, res.Cocktail)
		return
	}
	redirect(w, r, "/admin", map[string]string{"success": res.Message})
}

// UpdateCocktail rewrites an existing cocktail.
func (h *Handler) UpdateCocktail(w http.ResponseWriter, r *http.Request) {
	form, problem, err := h.parseCocktailForm(w, r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer cleanupMultipart(r)
	if problem != "" {
		cocktail, outcome, err := h.service.Cocktail(r.Context(), r.PathValue("id"))
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		if outcome != bar.OutcomeOK {
			redirect(w, r, "/admin", map[string]string{"error": problem})
			return
		}
		h.renderDashboardProblem(w, r, problem, cocktail, nil)
		return
	}

	res, err := h.service.UpdateCocktail(r.Context(), r.PathValue("id"), form)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	switch res.Outcome {
	case bar.OutcomeNotFound:
		redirect(w, r, "/admin", map[string]string{"error": res.Message})
	case bar.OutcomeInvalid:
		h.renderDashboardProblem(w, r, res.Message, res.Cocktail, nil)
	default:
		redirect(w, r, "/admin", map[string]string{"success": res.Message})
	}
}

// DeleteCocktail removes a cocktail, its image and its orders.
func (h *Handler) DeleteCocktail(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.service.DeleteCocktail(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	switch outcome {
	case bar.OutcomeInvalid:
		redirect(w, r, "/admin", map[string]string{"error": bar.MsgInvalidCocktailID})
	case bar.OutcomeNotFound:
		redirect(w, r, "/admin", map[string]string{"error": bar.MsgCocktailMissing})
	default:
		redirect(w, r, "/admin", map[string]string{"success": bar.MsgCocktailDeleted})
	}
}

// DeleteOrder removes a single order.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.service.DeleteOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	switch outcome {
	case bar.OutcomeInvalid:
		redirect(w, r, "/admin", map[string]string{"error": bar.MsgInvalidOrderID})
	case bar.OutcomeNotFound:
		redirect(w, r, "/admin", map[string]string{"error": bar.MsgOrderMissing})
	default:
		redirect(w, r, "/admin", map[string]string{"success": bar.MsgOrderDeleted})
	}
}

// renderDashboardProblem re-renders the dashboard with a 400 and the
// rejected form values.
func (h *Handler) renderDashboardProblem(w http.ResponseWriter, r *http.Request, message string, editing, draft *models.Cocktail) {
	data, err := h.service.Dashboard(r.Context(), "")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.render(w, r, http.StatusBadRequest, pages.AdminDashboard(pages.DashboardData{
		Cocktails:           data.Cocktails,
		Orders:              data.Orders,
		Editing:             editing,
		Draft:               draft,
		Error:               message,
		RequireInstructions: h.service.RequireInstructions(),
	}))
}

// parseCocktailForm reads the cocktail form. An oversized body is reported
// as a problem message rather than an error.
func (h *Handler) parseCocktailForm(w http.ResponseWriter, r *http.Request) (bar.CocktailForm, string, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartMemory)
	}

	err := r.ParseMultipartForm(multipartMemory)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		applog.Debug(r.Context(), "cocktail form exceeds size limit", "limit", tooLarge.Limit)
		return bar.CocktailForm{}, bar.MsgImageTooLarge, nil
	case errors.Is(err, http.ErrNotMultipart):
		if err := r.ParseForm(); err != nil {
			return bar.CocktailForm{}, "", err
		}
	case err != nil:
		return bar.CocktailForm{}, "", err
	}

	return bar.CocktailForm{
		Name:         r.PostFormValue("name"),
		Ingredients:  r.PostFormValue("ingredients"),
		Instructions: r.PostFormValue("instructions"),
		Strength:     r.PostFormValue("strength"),
		GlassType:    r.PostFormValue("glass_type"),
		Garnish:      r.PostFormValue("garnish"),
		Tags:         r.PostFormValue("tags"),
		Image:        imageHeader(r),
	}, "", nil
}

func imageHeader(r *http.Request) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return files[0]
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			applog.Error(r.Context(), "failed to remove multipart temp files", "error", err)
		}
	}
}
