// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/session"
)

// totpIssuer is shown as the account label in authenticator apps.
const totpIssuer = "Folio"

// Settings groups the account settings handlers: profile fields and
// optional two-factor authentication.
type Settings struct {
	renderer *render.Renderer
	sessions *session.Store
	profiles Profiles
}

// NewSettings creates a new Settings handler group.
func NewSettings(renderer *render.Renderer, sessions *session.Store, profiles Profiles) *Settings {
	return &Settings{renderer: renderer, sessions: sessions, profiles: profiles}
}

// otpauthURL builds the key URI understood by authenticator apps.
func otpauthURL(email, secret string) string {
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + totpIssuer + ":" + email,
		RawQuery: url.Values{"secret": {secret}, "issuer": {totpIssuer}}.Encode(),
	}
	return u.String()
}

// qrDataURI renders a key URI as an inline PNG.
func qrDataURI(keyURL string) (template.URL, error) {
	png, err := qrcode.Encode(keyURL, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

// profile loads the signed-in profile or answers with an error.
func (s *Settings) profile(w http.ResponseWriter, r *http.Request) *models.Profile {
	p, err := s.profiles.FindByID(r.Context(), ownerID(r))
	if err != nil {
		serverError(s.renderer, w, r, "load profile failed", err)
		return nil
	}
	if p == nil {
		errorPage(s.renderer, w, r, http.StatusNotFound, "Your profile could not be found.")
		return nil
	}
	return p
}

func (s *Settings) render(w http.ResponseWriter, r *http.Request, p *models.Profile, status int, data map[string]any, flashes ...render.Flash) {
	if data == nil {
		data = map[string]any{}
	}
	data["Profile"] = p
	s.renderer.Page(w, r, "settings", &render.PageData{
		Title:   "Settings",
		Nav:     "settings",
		Status:  status,
		Data:    data,
		Flashes: flashes,
	})
}

// Page renders the settings page.
func (s *Settings) Page(w http.ResponseWriter, r *http.Request) {
	p := s.profile(w, r)
	if p == nil {
		return
	}
	s.render(w, r, p, 0, nil)
}

// UpdateProfile saves the display name and bio.
func (s *Settings) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p := s.profile(w, r)
	if p == nil {
		return
	}
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	bio := strings.TrimSpace(r.FormValue("bio"))
	if msg := validateProfile(displayName, bio); msg != "" {
		s.render(w, r, p, http.StatusUnprocessableEntity, nil, render.Flash{Type: "error", Message: msg})
		return
	}

	if err := s.profiles.UpdateProfile(r.Context(), p.ID, optional(displayName), optional(bio)); err != nil {
		serverError(s.renderer, w, r, "update profile failed", err)
		return
	}
	p.DisplayName, p.Bio = optional(displayName), optional(bio)

	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		sess.DisplayName = p.Name()
		if err := s.sessions.Update(r.Context(), r, sess); err != nil {
			slog.Warn("session update failed", "error", err)
		}
	}
	s.render(w, r, p, 0, nil, render.Flash{Type: "success", Message: "Profile saved."})
}

// Setup2FA generates a new TOTP secret and shows its QR code. 2FA stays
// off until a code from the secret is confirmed.
func (s *Settings) Setup2FA(w http.ResponseWriter, r *http.Request) {
	p := s.profile(w, r)
	if p == nil {
		return
	}
	if p.TOTPEnabled {
		http.Redirect(w, r, "/app/settings", http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: totpIssuer, AccountName: p.Email})
	if err != nil {
		serverError(s.renderer, w, r, "totp generate failed", err)
		return
	}
	if err := s.profiles.SetTOTPSecret(r.Context(), p.ID, key.Secret()); err != nil {
		serverError(s.renderer, w, r, "save totp secret failed", err)
		return
	}
	qr, err := qrDataURI(key.URL())
	if err != nil {
		serverError(s.renderer, w, r, "qr code generation failed", err)
		return
	}
	s.render(w, r, p, 0, map[string]any{"QR": qr, "Secret": key.Secret()})
}

// Enable2FA turns 2FA on once the user proves their app holds the secret.
func (s *Settings) Enable2FA(w http.ResponseWriter, r *http.Request) {
	p := s.profile(w, r)
	if p == nil {
		return
	}
	if p.TOTPEnabled {
		http.Redirect(w, r, "/app/settings", http.StatusSeeOther)
		return
	}
	if p.TOTPSecret == nil {
		s.render(w, r, p, http.StatusUnprocessableEntity, map[string]any{"Error": "Start the setup first."})
		return
	}

	if !totp.Validate(strings.TrimSpace(r.FormValue("code")), *p.TOTPSecret) {
		qr, err := qrDataURI(otpauthURL(p.Email, *p.TOTPSecret))
		if err != nil {
			serverError(s.renderer, w, r, "qr code generation failed", err)
			return
		}
		s.render(w, r, p, http.StatusUnprocessableEntity, map[string]any{
			"QR":     qr,
			"Secret": *p.TOTPSecret,
			"Error":  "Invalid code. Please try again.",
		})
		return
	}

	if err := s.profiles.EnableTOTP(r.Context(), p.ID); err != nil {
		serverError(s.renderer, w, r, "enable totp failed", err)
		return
	}
	p.TOTPEnabled = true
	slog.Info("2fa enabled", "user_id", p.ID)
	s.render(w, r, p, 0, nil, render.Flash{Type: "success", Message: "Two-factor authentication is on."})
}

// Disable2FA turns 2FA off. A current code is required.
func (s *Settings) Disable2FA(w http.ResponseWriter, r *http.Request) {
	p := s.profile(w, r)
	if p == nil {
		return
	}
	if !p.Needs2FA() {
		http.Redirect(w, r, "/app/settings", http.StatusSeeOther)
		return
	}
	if !totp.Validate(strings.TrimSpace(r.FormValue("code")), *p.TOTPSecret) {
		s.render(w, r, p, http.StatusUnprocessableEntity, map[string]any{"Error": "Invalid code. Please try again."})
		return
	}

	if err := s.profiles.DisableTOTP(r.Context(), p.ID); err != nil {
		serverError(s.renderer, w, r, "disable totp failed", err)
		return
	}
	p.TOTPEnabled, p.TOTPSecret = false, nil
	slog.Info("2fa disabled", "user_id", p.ID)
	s.render(w, r, p, 0, nil, render.Flash{Type: "success", Message: "Two-factor authentication is off."})
}
