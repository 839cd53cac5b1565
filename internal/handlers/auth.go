package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"

	"folio/internal/middleware"
	"folio/internal/render"
	"folio/internal/session"
	"folio/internal/store"
)

// appHome is where signed-in users land.
const appHome = "/app"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	profiles Profiles
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, profiles Profiles) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		profiles: profiles,
	}
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return appHome
	}
	return next
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()).Authenticated() {
		http.Redirect(w, r, appHome, http.StatusSeeOther)
		return
	}
	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Next": r.URL.Query().Get("next")},
	})
}

// LoginSubmit processes the login form. Profiles with 2FA enabled get a
// pending session and are sent to the code prompt.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	fail := func(status int, msg string) {
		a.renderer.Page(w, r, "login", &render.PageData{
			Title:  "Sign In",
			Status: status,
			Data:   map[string]any{"Error": msg, "Email": email, "Next": next},
		})
	}

	profile, err := a.profiles.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		fail(http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if profile == nil || !a.profiles.CheckPassword(profile, password) {
		fail(http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	pending := profile.Needs2FA()
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      profile.ID,
		Email:       profile.Email,
		DisplayName: profile.Name(),
		Pending2FA:  pending,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user signed in", "user_id", profile.ID, "pending_2fa", pending)
	if pending {
		http.Redirect(w, r, middleware.TwoFactorPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// SignupPage renders the registration form.
func (a *Auth) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()).Authenticated() {
		http.Redirect(w, r, appHome, http.StatusSeeOther)
		return
	}
	a.renderer.Page(w, r, "signup", &render.PageData{Title: "Create account"})
}

// SignupSubmit creates a profile and signs it in.
func (a *Auth) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	displayName := strings.TrimSpace(r.FormValue("display_name"))

	fail := func(status int, msg string) {
		a.renderer.Page(w, r, "signup", &render.PageData{
			Title:  "Create account",
			Status: status,
			Data:   map[string]any{"Error": msg, "Email": email, "DisplayName": displayName},
		})
	}

	if msg := validateSignup(email, password, displayName); msg != "" {
		fail(http.StatusUnprocessableEntity, msg)
		return
	}

	profile, err := a.profiles.Create(r.Context(), email, password, displayName)
	if errors.Is(err, store.ErrEmailTaken) {
		fail(http.StatusConflict, "An account with this email already exists.")
		return
	}
	if err != nil {
		slog.Error("signup failed", "error", err)
		fail(http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      profile.ID,
		Email:       profile.Email,
		DisplayName: profile.Name(),
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("profile created", "user_id", profile.ID)
	http.Redirect(w, r, appHome, http.StatusSeeOther)
}

// TwoFAVerifyPage renders the code prompt for a pending session.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	switch {
	case sess == nil:
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	case !sess.Pending2FA:
		http.Redirect(w, r, appHome, http.StatusSeeOther)
		return
	}
	a.renderer.Page(w, r, "2fa_verify", &render.PageData{Title: "Two-Factor Authentication"})
}

// TwoFAVerifySubmit validates the TOTP code and completes sign-in.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	if !sess.Pending2FA {
		http.Redirect(w, r, appHome, http.StatusSeeOther)
		return
	}

	profile, err := a.profiles.FindByID(r.Context(), sess.UserID)
	if err != nil || profile == nil {
		slog.Error("profile lookup for 2fa failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// A profile that disabled 2FA after the login started needs no code.
	if profile.Needs2FA() && !totp.Validate(strings.TrimSpace(r.FormValue("code")), *profile.TOTPSecret) {
		a.renderer.Page(w, r, "2fa_verify", &render.PageData{
			Title:  "Two-Factor Authentication",
			Status: http.StatusUnauthorized,
			Data:   map[string]any{"Error": "Invalid code. Please try again."},
		})
		return
	}

	sess.Pending2FA = false
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, appHome, http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}
