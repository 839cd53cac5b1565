// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for Folio. Handlers are
// grouped by concern (auth, settings, dashboard, editor, public) and
// receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/storage"
	"folio/internal/store"
)

// Profiles is the subset of store.ProfileStore the handlers use.
type Profiles interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, email, password, displayName string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName, bio *string) error
	SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, id uuid.UUID) error
	DisableTOTP(ctx context.Context, id uuid.UUID) error
	CheckPassword(p *models.Profile, password string) bool
}

// Portfolios is the subset of store.PortfolioStore the handlers use. It
// includes the editor repository methods.
type Portfolios interface {
	Create(ctx context.Context, p *models.Portfolio) error
	FindOwned(ctx context.Context, owner, id uuid.UUID) (*models.Portfolio, error)
	FindCopyable(ctx context.Context, owner, id uuid.UUID) (*models.Portfolio, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Portfolio, error)
	LoadDocument(ctx context.Context, owner, id uuid.UUID) (*models.Document, error)
	SaveDocument(ctx context.Context, owner, id uuid.UUID, doc models.Document) error
	UpdateStatus(ctx context.Context, owner, id uuid.UUID, status models.VisibilityStatus) error
	UpdateDetails(ctx context.Context, owner, id uuid.UUID, name string, description *string, tags []string) error
	SetCoverImage(ctx context.Context, owner, id uuid.UUID, url *string) error
	Delete(ctx context.Context, owner, id uuid.UUID) error
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Portfolio, error)
	Copy(ctx context.Context, source, owner uuid.UUID, name, slug string) (*uuid.UUID, error)
}

// Templates lists the starting points offered when creating a portfolio.
type Templates interface {
	List(ctx context.Context) ([]models.Template, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

// Feed lists public portfolios.
type Feed interface {
	List(ctx context.Context, q store.FeedQuery) ([]models.FeedItem, bool, error)
}

// CoverStorage uploads and removes cover images. A nil CoverStorage
// disables cover uploads.
type CoverStorage interface {
	PutCover(ctx context.Context, owner, portfolio uuid.UUID, img storage.Image) (string, error)
	DeleteURL(ctx context.Context, url string) error
}

// PageCache caches rendered public portfolio pages by slug.
type PageCache interface {
	Get(ctx context.Context, slug string) ([]byte, bool)
	Set(ctx context.Context, slug string, html []byte)
	Invalidate(ctx context.Context, slug string)
}

// ownerID returns the signed-in user's id. RequireAuth guarantees a session
// on every route that calls it.
func ownerID(r *http.Request) uuid.UUID {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		return sess.UserID
	}
	return uuid.Nil
}

// portfolioID parses the {id} URL parameter.
func portfolioID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// toast answers an HTMX request with a single flash message swapped into
// the page's flash area.
func toast(rn *render.Renderer, w http.ResponseWriter, r *http.Request, status int, kind, msg string) {
	rn.Partial(w, r, "error", "toast", &render.PageData{
		Status:  status,
		Flashes: []render.Flash{{Type: kind, Message: msg}},
	})
}

// errorPage renders the app error page, or a toast for HTMX requests.
func errorPage(rn *render.Renderer, w http.ResponseWriter, r *http.Request, status int, msg string) {
	if middleware.IsHTMX(r) {
		toast(rn, w, r, status, "error", msg)
		return
	}
	rn.Page(w, r, "error", &render.PageData{
		Title:  http.StatusText(status),
		Status: status,
		Data:   map[string]any{"Message": msg},
	})
}

// serverError logs err and answers with a generic 500.
func serverError(rn *render.Renderer, w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "path", r.URL.Path)
	errorPage(rn, w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// storeError maps a missing row to 404 and anything else to 500.
func storeError(rn *render.Renderer, w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		errorPage(rn, w, r, http.StatusNotFound, "Portfolio not found.")
		return
	}
	serverError(rn, w, r, msg, err)
}

// htmxRedirect sends a full-page redirect that also works for HTMX requests.
func htmxRedirect(w http.ResponseWriter, r *http.Request, target string) {
	if middleware.IsHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
