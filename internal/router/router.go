// Package router sets up all HTTP routes and middleware chains for Folio.
// Routes are split into the auth pages, the signed-in app area and the
// public feed and portfolio pages.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/session"
	"folio/web"
)

// Handlers groups the handler sets the router mounts.
type Handlers struct {
	Auth      *handlers.Auth
	Settings  *handlers.Settings
	Dashboard *handlers.Dashboard
	Editor    *handlers.Editor
	Public    *handlers.Public
}

// Options carries the middleware settings that come from configuration.
type Options struct {
	SecureCookies bool
	AuthPerMinute int
	CopyPerMinute int
}

// New creates the configured Chi router. The returned stop function
// releases the rate limiters' cleanup goroutines.
func New(sessions *session.Store, h Handlers, opts Options) (chi.Router, func()) {
	r := chi.NewRouter()

	authLimiter := middleware.NewRateLimiter(opts.AuthPerMinute, time.Minute)
	copyLimiter := middleware.NewRateLimiter(opts.CopyPerMinute, time.Minute)
	csrf := middleware.NewCSRF(opts.SecureCookies)

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	r.Get("/health", healthHandler)
	r.Handle("/static/*", staticHandler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/feed", http.StatusSeeOther)
	})

	// Published portfolios carry no forms and skip CSRF.
	r.Get("/p/{slug}", h.Public.Portfolio)

	r.Group(func(r chi.Router) {
		r.Use(csrf)

		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Get("/login", h.Auth.LoginPage)
			r.Post("/login", h.Auth.LoginSubmit)
			r.Get("/signup", h.Auth.SignupPage)
			r.Post("/signup", h.Auth.SignupSubmit)
			r.Get("/2fa/verify", h.Auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", h.Auth.TwoFAVerifySubmit)
		})
		r.Post("/logout", h.Auth.Logout)

		r.Get("/feed", h.Public.Feed)
		r.With(middleware.RequireAuth, copyLimiter.Middleware).Post("/feed/{id}/copy", h.Public.Copy)

		r.Route("/app", func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", h.Dashboard.List)

			r.Route("/portfolios", func(r chi.Router) {
				r.Post("/", h.Dashboard.Create)
				r.Delete("/{id}", h.Dashboard.Delete)
				r.Post("/{id}/status", h.Dashboard.Status)
				r.Post("/{id}/details", h.Dashboard.Details)
				r.Post("/{id}/cover", h.Dashboard.Cover)

				r.Route("/{id}/edit", func(r chi.Router) {
					r.Get("/", h.Editor.Open)
					r.Get("/preview", h.Editor.Preview)
					r.Post("/sections", h.Editor.AddSection)
					r.Post("/sections/{sid}", h.Editor.UpdateSection)
					r.Delete("/sections/{sid}", h.Editor.RemoveSection)
					r.Post("/sections/{sid}/duplicate", h.Editor.DuplicateSection)
					r.Post("/reorder", h.Editor.Reorder)
					r.Post("/select", h.Editor.Select)
					r.Post("/theme/preset", h.Editor.ApplyPreset)
					r.Post("/theme/color", h.Editor.SetColors)
					r.Post("/theme/typography", h.Editor.SetTypography)
					r.Post("/device", h.Editor.SetDevice)
					r.Post("/save", h.Editor.Save)
					r.Post("/discard", h.Editor.Discard)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.Settings.Page)
				r.Post("/profile", h.Settings.UpdateProfile)
				r.Post("/2fa/setup", h.Settings.Setup2FA)
				r.Post("/2fa/enable", h.Settings.Enable2FA)
				r.Post("/2fa/disable", h.Settings.Disable2FA)
			})
		})
	})

	return r, func() {
		authLimiter.Stop()
		copyLimiter.Stop()
	}
}

// staticHandler serves the embedded stylesheets under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
