// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/engine"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/slug"
	"folio/internal/store"
)

// copySuffix is appended to the name of a copied portfolio.
const copySuffix = " (Copy)"

// Public groups the handlers reachable without signing in: shared
// portfolio pages and the discovery feed. Rendered portfolio pages are
// cached in Valkey and served from there on hit.
type Public struct {
	renderer   *render.Renderer
	engine     *engine.Renderer
	portfolios Portfolios
	feed       Feed
	pages      PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, eng *engine.Renderer, portfolios Portfolios, feed Feed, pages PageCache) *Public {
	return &Public{
		renderer:   renderer,
		engine:     eng,
		portfolios: portfolios,
		feed:       feed,
		pages:      pages,
	}
}

// Portfolio renders a published portfolio by its share slug.
func (p *Public) Portfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if cached, ok := p.pages.Get(ctx, slugParam); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Cache", "HIT")
		w.Write(cached)
		return
	}

	portfolio, err := p.portfolios.FindPublishedBySlug(ctx, slugParam)
	if err != nil {
		slog.Error("find portfolio by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if portfolio == nil {
		http.NotFound(w, r)
		return
	}

	doc := engine.Document{
		Name:        portfolio.Name,
		Description: portfolio.DescriptionText(),
		Sections:    portfolio.Content.Sections,
		Theme:       portfolio.ThemeSettings,
	}
	if portfolio.CoverImageURL != nil {
		doc.CoverImageURL = *portfolio.CoverImageURL
	}
	rendered, err := p.engine.Page(doc)
	if err != nil {
		slog.Error("render portfolio failed", "error", err, "slug", slugParam)
		http.Error(w, "This portfolio could not be rendered.", http.StatusInternalServerError)
		return
	}

	p.pages.Set(ctx, slugParam, rendered)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(rendered)
}

// feedQuery reads the feed filters from the query string.
func feedQuery(v url.Values) store.FeedQuery {
	q := store.FeedQuery{
		Sort:   v.Get("sort"),
		Tags:   v["tag"],
		Search: v.Get("q"),
	}
	q.Limit, _ = strconv.Atoi(v.Get("limit"))
	q.Offset, _ = strconv.Atoi(v.Get("offset"))
	return q.Normalize()
}

// nextHref is the query string of the following feed page.
func nextHref(q store.FeedQuery) string {
	v := url.Values{}
	v.Set("sort", q.Sort)
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	for _, t := range q.Tags {
		v.Add("tag", t)
	}
	v.Set("offset", strconv.Itoa(q.Offset+q.Limit))
	return "/feed?" + v.Encode()
}

// Feed renders the public portfolio listing. HTMX requests from the
// filter form and the "load more" button get only the results block.
func (p *Public) Feed(w http.ResponseWriter, r *http.Request) {
	q := feedQuery(r.URL.Query())

	items, hasMore, err := p.feed.List(r.Context(), q)
	if err != nil {
		serverError(p.renderer, w, r, "list feed failed", err)
		return
	}
	views := make([]*models.FeedItem, len(items))
	for i := range items {
		views[i] = &items[i]
	}

	data := &render.PageData{
		Title: "Explore",
		Nav:   "feed",
		Data: map[string]any{
			"Items":       views,
			"Query":       q,
			"PopularTags": models.PopularTags,
			"HasMore":     hasMore,
			"NextHref":    nextHref(q),
		},
	}
	if middleware.IsHTMX(r) {
		p.renderer.Partial(w, r, "feed", "feed_results", data)
		return
	}
	p.renderer.Page(w, r, "feed", data)
}

// Copy creates a draft copy of a public portfolio for the signed-in user
// and opens it in the editor.
func (p *Public) Copy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errorPage(p.renderer, w, r, http.StatusNotFound, "Portfolio not found.")
		return
	}
	owner := ownerID(r)

	src, err := p.portfolios.FindCopyable(ctx, owner, id)
	if err != nil {
		serverError(p.renderer, w, r, "find portfolio to copy failed", err)
		return
	}
	if src == nil {
		errorPage(p.renderer, w, r, http.StatusNotFound, "Portfolio not found.")
		return
	}

	name := src.Name + copySuffix
	newID, err := p.portfolios.Copy(ctx, src.ID, owner, name, slug.New(name))
	if err != nil {
		serverError(p.renderer, w, r, "copy portfolio failed", err)
		return
	}
	if newID == nil {
		errorPage(p.renderer, w, r, http.StatusNotFound, "Portfolio not found.")
		return
	}

	slog.Info("portfolio copied", "source_id", src.ID, "portfolio_id", *newID, "user_id", owner)
	htmxRedirect(w, r, editorPath(*newID))
}
