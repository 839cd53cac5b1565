package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"folio/internal/editor"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/slug"
	"folio/internal/storage"
)

// Dashboard groups the handlers of the signed-in portfolio list: create,
// delete, visibility, details and cover image.
type Dashboard struct {
	renderer   *render.Renderer
	portfolios Portfolios
	templates  Templates
	covers     CoverStorage
	pages      PageCache
	workspace  *editor.Workspace
	baseURL    string
}

// NewDashboard creates a new Dashboard handler group. covers may be nil
// when object storage is not configured.
func NewDashboard(renderer *render.Renderer, portfolios Portfolios, templates Templates, covers CoverStorage, pages PageCache, workspace *editor.Workspace, baseURL string) *Dashboard {
	return &Dashboard{
		renderer:   renderer,
		portfolios: portfolios,
		templates:  templates,
		covers:     covers,
		pages:      pages,
		workspace:  workspace,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// List renders the owner's portfolios, newest first.
func (d *Dashboard) List(w http.ResponseWriter, r *http.Request) {
	d.renderList(w, r, 0)
}

func (d *Dashboard) renderList(w http.ResponseWriter, r *http.Request, status int, flashes ...render.Flash) {
	ctx := r.Context()
	list, err := d.portfolios.ListByOwner(ctx, ownerID(r))
	if err != nil {
		serverError(d.renderer, w, r, "list portfolios failed", err)
		return
	}
	templates, err := d.templates.List(ctx)
	if err != nil {
		slog.Error("list templates failed", "error", err)
	}

	// Pointers keep the pointer-receiver helpers reachable from templates.
	portfolios := make([]*models.Portfolio, len(list))
	for i := range list {
		portfolios[i] = &list[i]
	}

	d.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "My portfolios",
		Nav:     "dashboard",
		Status:  status,
		Flashes: flashes,
		Data: map[string]any{
			"Portfolios":     portfolios,
			"Templates":      templates,
			"Statuses":       models.VisibilityStatuses,
			"StorageEnabled": d.covers != nil,
			"BaseURL":        d.baseURL,
		},
	})
}

// Create makes a new draft portfolio, optionally from a template, and
// opens it in the editor.
func (d *Dashboard) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	if msg := validatePortfolio(name, description); msg != "" {
		d.renderList(w, r, http.StatusUnprocessableEntity, render.Flash{Type: "error", Message: msg})
		return
	}

	structure := models.TemplateStructure{}
	if raw := r.FormValue("template_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			d.renderList(w, r, http.StatusUnprocessableEntity, render.Flash{Type: "error", Message: "Unknown template."})
			return
		}
		tmpl, err := d.templates.FindByID(ctx, id)
		if err != nil {
			serverError(d.renderer, w, r, "find template failed", err)
			return
		}
		if tmpl == nil {
			d.renderList(w, r, http.StatusUnprocessableEntity, render.Flash{Type: "error", Message: "Unknown template."})
			return
		}
		structure = tmpl.Structure
	}

	content, th := structure.Instantiate()
	p := &models.Portfolio{
		UserID:           ownerID(r),
		Name:             name,
		Slug:             slug.New(name),
		Description:      optional(description),
		VisibilityStatus: models.StatusDraft,
		Content:          content,
		ThemeSettings:    th,
		Tags:             []string{},
	}
	if err := d.portfolios.Create(ctx, p); err != nil {
		serverError(d.renderer, w, r, "create portfolio failed", err)
		return
	}

	slog.Info("portfolio created", "portfolio_id", p.ID, "sections", len(content.Sections))
	htmxRedirect(w, r, editorPath(p.ID))
}

// owned loads the {id} portfolio of the signed-in user or answers 404.
func (d *Dashboard) owned(w http.ResponseWriter, r *http.Request) *models.Portfolio {
	id, ok := portfolioID(r)
	if !ok {
		errorPage(d.renderer, w, r, http.StatusNotFound, "Portfolio not found.")
		return nil
	}
	p, err := d.portfolios.FindOwned(r.Context(), ownerID(r), id)
	if err != nil {
		serverError(d.renderer, w, r, "find portfolio failed", err)
		return nil
	}
	if p == nil {
		errorPage(d.renderer, w, r, http.StatusNotFound, "Portfolio not found.")
		return nil
	}
	return p
}

// card re-renders one dashboard card after an HTMX action.
func (d *Dashboard) card(w http.ResponseWriter, r *http.Request, p *models.Portfolio, status int, flash render.Flash) {
	d.renderer.Partial(w, r, "dashboard", "card_fragment", &render.PageData{
		Status:  status,
		Flashes: []render.Flash{flash},
		Data: map[string]any{
			"Portfolio":      p,
			"Statuses":       models.VisibilityStatuses,
			"StorageEnabled": d.covers != nil,
			"BaseURL":        d.baseURL,
		},
	})
}

// reload fetches p again after an update, falling back to the stale copy.
func (d *Dashboard) reload(r *http.Request, p *models.Portfolio) *models.Portfolio {
	fresh, err := d.portfolios.FindOwned(r.Context(), p.UserID, p.ID)
	if err != nil || fresh == nil {
		slog.Warn("reload portfolio failed", "portfolio_id", p.ID, "error", err)
		return p
	}
	return fresh
}

// Delete removes a portfolio, its open editor, cached page and cover.
func (d *Dashboard) Delete(w http.ResponseWriter, r *http.Request) {
	p := d.owned(w, r)
	if p == nil {
		return
	}
	ctx := r.Context()
	if err := d.portfolios.Delete(ctx, p.UserID, p.ID); err != nil {
		serverError(d.renderer, w, r, "delete portfolio failed", err)
		return
	}
	d.workspace.Discard(editor.Key{Owner: p.UserID, Portfolio: p.ID})
	d.pages.Invalidate(ctx, p.Slug)
	if d.covers != nil && ownCover(p) {
		if err := d.covers.DeleteURL(ctx, *p.CoverImageURL); err != nil {
			slog.Warn("delete cover failed", "portfolio_id", p.ID, "error", err)
		}
	}

	slog.Info("portfolio deleted", "portfolio_id", p.ID)
	if !middleware.IsHTMX(r) {
		http.Redirect(w, r, appHome, http.StatusSeeOther)
		return
	}
	toast(d.renderer, w, r, http.StatusOK, "success", "Portfolio deleted.")
}

// Status changes the visibility of a portfolio.
func (d *Dashboard) Status(w http.ResponseWriter, r *http.Request) {
	p := d.owned(w, r)
	if p == nil {
		return
	}
	status, err := models.ParseVisibility(r.FormValue("status"))
	if err != nil {
		d.card(w, r, p, http.StatusUnprocessableEntity, render.Flash{Type: "error", Message: "Unknown visibility status."})
		return
	}
	if err := d.portfolios.UpdateStatus(r.Context(), p.UserID, p.ID, status); err != nil {
		storeError(d.renderer, w, r, "update status failed", err)
		return
	}
	d.pages.Invalidate(r.Context(), p.Slug)

	slog.Info("portfolio visibility changed", "portfolio_id", p.ID, "status", status)
	d.card(w, r, d.reload(r, p), http.StatusOK, render.Flash{Type: "success", Message: "Visibility set to " + status.Label() + "."})
}

// Details updates the name, description and tags.
func (d *Dashboard) Details(w http.ResponseWriter, r *http.Request) {
	p := d.owned(w, r)
	if p == nil {
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	if msg := validatePortfolio(name, description); msg != "" {
		d.card(w, r, p, http.StatusUnprocessableEntity, render.Flash{Type: "error", Message: msg})
		return
	}
	tags, msg := parseTags(r.FormValue("tags"))
	if msg != "" {
		d.card(w, r, p, http.StatusUnprocessableEntity, render.Flash{Type: "error", Message: msg})
		return
	}

	if err := d.portfolios.UpdateDetails(r.Context(), p.UserID, p.ID, name, optional(description), tags); err != nil {
		storeError(d.renderer, w, r, "update details failed", err)
		return
	}
	d.pages.Invalidate(r.Context(), p.Slug)
	d.card(w, r, d.reload(r, p), http.StatusOK, render.Flash{Type: "success", Message: "Details saved."})
}

// Cover uploads a new cover image and removes the previous one.
func (d *Dashboard) Cover(w http.ResponseWriter, r *http.Request) {
	if d.covers == nil {
		toast(d.renderer, w, r, http.StatusServiceUnavailable, "error", "Image uploads are not configured.")
		return
	}
	p := d.owned(w, r)
	if p == nil {
		return
	}
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+64<<10)
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		d.card(w, r, p, http.StatusRequestEntityTooLarge, render.Flash{Type: "error", Message: "Image too large. Maximum size is 5 MB."})
		return
	}
	file, _, err := r.FormFile("cover")
	if err != nil {
		d.card(w, r, p, http.StatusBadRequest, render.Flash{Type: "error", Message: "No image selected."})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxImageSize+1))
	if err != nil {
		serverError(d.renderer, w, r, "read cover upload failed", err)
		return
	}
	img, err := storage.DetectImage(data)
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		d.card(w, r, p, http.StatusRequestEntityTooLarge, render.Flash{Type: "error", Message: "Image too large. Maximum size is 5 MB."})
		return
	case err != nil:
		d.card(w, r, p, http.StatusUnsupportedMediaType, render.Flash{Type: "error", Message: "Use a JPEG, PNG, WebP or GIF image."})
		return
	}

	url, err := d.covers.PutCover(ctx, p.UserID, p.ID, img)
	if err != nil {
		serverError(d.renderer, w, r, "upload cover failed", err)
		return
	}
	if err := d.portfolios.SetCoverImage(ctx, p.UserID, p.ID, &url); err != nil {
		storeError(d.renderer, w, r, "set cover failed", err)
		return
	}
	if ownCover(p) && *p.CoverImageURL != url {
		if err := d.covers.DeleteURL(ctx, *p.CoverImageURL); err != nil {
			slog.Warn("delete old cover failed", "portfolio_id", p.ID, "error", err)
		}
	}
	d.pages.Invalidate(ctx, p.Slug)

	p.CoverImageURL = &url
	d.card(w, r, p, http.StatusOK, render.Flash{Type: "success", Message: "Cover updated."})
}

// ownCover reports whether p's cover object was uploaded for p itself and
// may be deleted along with it.
func ownCover(p *models.Portfolio) bool {
	return p.CoverImageURL != nil && storage.CoverOwnedBy(*p.CoverImageURL, p.UserID, p.ID)
}

func editorPath(id uuid.UUID) string {
	return "/app/portfolios/" + id.String() + "/edit"
}
