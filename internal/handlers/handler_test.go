// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory repositories and an in-memory Valkey for sessions and the
// page cache.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"folio/internal/cache"
	"folio/internal/editor"
	"folio/internal/engine"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/section"
	"folio/internal/session"
	"folio/internal/storage"
	"folio/internal/store"
	"folio/internal/theme"
)

// --- fake profiles ---

type fakeProfiles struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*models.Profile
	password map[uuid.UUID]string
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byID: map[uuid.UUID]*models.Profile{}, password: map[uuid.UUID]string{}}
}

func (f *fakeProfiles) add(email, password string) *models.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := "Test User"
	p := &models.Profile{ID: uuid.New(), Email: email, DisplayName: &name, CreatedAt: time.Now()}
	f.byID[p.ID] = p
	f.password[p.ID] = password
	return p
}

func (f *fakeProfiles) copyOf(p *models.Profile) *models.Profile {
	c := *p
	return &c
}

func (f *fakeProfiles) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if strings.EqualFold(p.Email, email) {
			return f.copyOf(p), nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		return f.copyOf(p), nil
	}
	return nil, nil
}

func (f *fakeProfiles) Create(ctx context.Context, email, password, displayName string) (*models.Profile, error) {
	if p, _ := f.FindByEmail(ctx, email); p != nil {
		return nil, store.ErrEmailTaken
	}
	p := f.add(email, password)
	f.mu.Lock()
	defer f.mu.Unlock()
	p.DisplayName = optional(displayName)
	return f.copyOf(p), nil
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, id uuid.UUID, displayName, bio *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	p.DisplayName, p.Bio = displayName, bio
	return nil
}

func (f *fakeProfiles) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id].TOTPSecret = &secret
	return nil
}

func (f *fakeProfiles) EnableTOTP(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byID[id].TOTPSecret != nil {
		f.byID[id].TOTPEnabled = true
	}
	return nil
}

func (f *fakeProfiles) DisableTOTP(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id].TOTPEnabled = false
	f.byID[id].TOTPSecret = nil
	return nil
}

func (f *fakeProfiles) CheckPassword(p *models.Profile, password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.password[p.ID] == password
}

// --- fake portfolios ---

type fakePortfolios struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*models.Portfolio
	saveErr error
	saves   int
	// findErrAfterSave makes FindOwned fail once a save has gone through.
	findErrAfterSave error
}

func newFakePortfolios() *fakePortfolios {
	return &fakePortfolios{byID: map[uuid.UUID]*models.Portfolio{}}
}

func clonePortfolio(p *models.Portfolio) *models.Portfolio {
	c := *p
	c.Content.Sections = make([]section.Section, len(p.Content.Sections))
	for i, s := range p.Content.Sections {
		c.Content.Sections[i] = s.Clone()
	}
	c.ThemeSettings = p.ThemeSettings.Clone()
	c.Tags = append([]string(nil), p.Tags...)
	return &c
}

func (f *fakePortfolios) add(owner uuid.UUID, name string, status models.VisibilityStatus, sections ...section.Section) *models.Portfolio {
	p := &models.Portfolio{
		UserID:           owner,
		Name:             name,
		Slug:             strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-" + uuid.NewString()[:8],
		VisibilityStatus: status,
		Content:          models.PortfolioContent{Sections: sections},
		ThemeSettings:    theme.Default(),
		Tags:             []string{},
	}
	f.Create(context.Background(), p)
	return p
}

func (f *fakePortfolios) get(id uuid.UUID) *models.Portfolio {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		return clonePortfolio(p)
	}
	return nil
}

func (f *fakePortfolios) Create(_ context.Context, p *models.Portfolio) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.byID[p.ID] = clonePortfolio(p)
	return nil
}

func (f *fakePortfolios) FindOwned(_ context.Context, owner, id uuid.UUID) (*models.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErrAfterSave != nil && f.saves > 0 {
		return nil, f.findErrAfterSave
	}
	if p, ok := f.byID[id]; ok && p.UserID == owner {
		return clonePortfolio(p), nil
	}
	return nil, nil
}

func (f *fakePortfolios) FindCopyable(_ context.Context, owner, id uuid.UUID) (*models.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok && (p.UserID == owner || p.VisibilityStatus == models.StatusPublishedPublic) {
		return clonePortfolio(p), nil
	}
	return nil, nil
}

func (f *fakePortfolios) ListByOwner(_ context.Context, owner uuid.UUID) ([]models.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Portfolio
	for _, p := range f.byID {
		if p.UserID == owner {
			out = append(out, *clonePortfolio(p))
		}
	}
	return out, nil
}

func (f *fakePortfolios) LoadDocument(ctx context.Context, owner, id uuid.UUID) (*models.Document, error) {
	p, _ := f.FindOwned(ctx, owner, id)
	if p == nil {
		return nil, nil
	}
	return &models.Document{Content: p.Content, Theme: p.ThemeSettings, UpdatedAt: p.UpdatedAt}, nil
}

func (f *fakePortfolios) SaveDocument(_ context.Context, owner, id uuid.UUID, doc models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	p, ok := f.byID[id]
	if !ok || p.UserID != owner {
		return store.ErrNotFound
	}
	p.Content = doc.Content
	p.ThemeSettings = doc.Theme
	p.UpdatedAt = doc.UpdatedAt
	f.saves++
	return nil
}

func (f *fakePortfolios) update(owner, id uuid.UUID, fn func(p *models.Portfolio)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok || p.UserID != owner {
		return store.ErrNotFound
	}
	fn(p)
	return nil
}

func (f *fakePortfolios) UpdateStatus(_ context.Context, owner, id uuid.UUID, status models.VisibilityStatus) error {
	return f.update(owner, id, func(p *models.Portfolio) { p.VisibilityStatus = status })
}

func (f *fakePortfolios) UpdateDetails(_ context.Context, owner, id uuid.UUID, name string, description *string, tags []string) error {
	return f.update(owner, id, func(p *models.Portfolio) {
		p.Name, p.Description, p.Tags = name, description, tags
	})
}

func (f *fakePortfolios) SetCoverImage(_ context.Context, owner, id uuid.UUID, url *string) error {
	return f.update(owner, id, func(p *models.Portfolio) { p.CoverImageURL = url })
}

func (f *fakePortfolios) Delete(_ context.Context, owner, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok && p.UserID == owner {
		delete(f.byID, id)
	}
	return nil
}

func (f *fakePortfolios) FindPublishedBySlug(_ context.Context, slug string) (*models.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Slug == slug && p.VisibilityStatus.IsPublished() {
			return clonePortfolio(p), nil
		}
	}
	return nil, nil
}

func (f *fakePortfolios) Copy(ctx context.Context, source, owner uuid.UUID, name, slug string) (*uuid.UUID, error) {
	src, _ := f.FindCopyable(ctx, owner, source)
	if src == nil {
		return nil, nil
	}
	dup := clonePortfolio(src)
	dup.UserID, dup.Name, dup.Slug = owner, name, slug
	dup.VisibilityStatus, dup.CopyCount, dup.CoverImageURL = models.StatusDraft, 0, nil
	f.Create(ctx, dup)
	f.update(src.UserID, src.ID, func(p *models.Portfolio) { p.CopyCount++ })
	return &dup.ID, nil
}

// --- fake templates and feed ---

type fakeTemplates struct {
	list []models.Template
}

func (f *fakeTemplates) List(context.Context) ([]models.Template, error) { return f.list, nil }

func (f *fakeTemplates) FindByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	for i := range f.list {
		if f.list[i].ID == id {
			return &f.list[i], nil
		}
	}
	return nil, nil
}

type fakeFeed struct {
	items []models.FeedItem
	last  store.FeedQuery
}

func (f *fakeFeed) List(_ context.Context, q store.FeedQuery) ([]models.FeedItem, bool, error) {
	f.last = q
	items := f.items
	if q.Offset < len(items) {
		items = items[q.Offset:]
	} else {
		items = nil
	}
	if len(items) > q.Limit {
		return items[:q.Limit], true, nil
	}
	return items, false, nil
}

// --- fake cover storage ---

type fakeCovers struct {
	mu      sync.Mutex
	put     []storage.Image
	deleted []string
}

func (f *fakeCovers) PutCover(_ context.Context, owner, portfolio uuid.UUID, img storage.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put = append(f.put, img)
	return "https://cdn.test/" + storage.CoverKey(owner, portfolio, img.Ext), nil
}

func (f *fakeCovers) DeleteURL(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

// --- environment ---

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Valkey     *redis.Client
	Miniredis  *miniredis.Miniredis
	Renderer   *render.Renderer
	Engine     *engine.Renderer
	Sessions   *session.Store
	Profiles   *fakeProfiles
	Portfolios *fakePortfolios
	Templates  *fakeTemplates
	Feed       *fakeFeed
	Covers     *fakeCovers
	PageCache  *cache.PageCache
	Workspace  *editor.Workspace

	Auth      *Auth
	Settings  *Settings
	Dashboard *Dashboard
	Editor    *Editor
	Public    *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	vk := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { vk.Close() })

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	eng := engine.MustNew()

	env := &testEnv{
		Valkey:     vk,
		Miniredis:  mr,
		Renderer:   renderer,
		Engine:     eng,
		Sessions:   session.NewStore(vk, false),
		Profiles:   newFakeProfiles(),
		Portfolios: newFakePortfolios(),
		Templates:  &fakeTemplates{},
		Feed:       &fakeFeed{},
		Covers:     &fakeCovers{},
		PageCache:  cache.NewPageCache(vk, time.Minute),
	}
	env.Workspace = editor.NewWorkspace(env.Portfolios, eng, time.Hour)
	t.Cleanup(env.Workspace.Stop)

	env.Auth = NewAuth(renderer, env.Sessions, env.Profiles)
	env.Settings = NewSettings(renderer, env.Sessions, env.Profiles)
	env.Dashboard = NewDashboard(renderer, env.Portfolios, env.Templates, env.Covers, env.PageCache, env.Workspace, "http://folio.test")
	env.Editor = NewEditor(renderer, eng, env.Workspace, env.Portfolios, env.PageCache)
	env.Public = NewPublic(renderer, eng, env.Portfolios, env.Feed, env.PageCache)
	return env
}

// testSession creates a signed-in session.Data for testing.
func testSession(userID uuid.UUID, pending bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       "test@folio.local",
		DisplayName: "Test User",
		Pending2FA:  pending,
	}
}

// withSession stores data in Valkey and attaches both the cookie and the
// context value to r, the way LoadSession would.
func (env *testEnv) withSession(t *testing.T, r *http.Request, data *session.Data) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := env.Sessions.Create(context.Background(), rec, data); err != nil {
		t.Fatalf("create session: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r.WithContext(middleware.WithSession(r.Context(), data))
}

// withParams adds chi URL parameters to a request.
func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// formRequest builds a POST with an url-encoded body.
func formRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// htmx marks r as an HTMX request.
func htmx(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}
