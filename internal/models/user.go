// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Profile is a registered user. Only the display fields are public.
type Profile struct {
	ID            uuid.UUID       `json:"id"`
	Email         string          `json:"email"`
	PasswordHash  string          `json:"-"` // Never serialize the hash
	DisplayName   *string         `json:"display_name,omitempty"`
	AvatarURL     *string         `json:"avatar_url,omitempty"`
	Bio           *string         `json:"bio,omitempty"`
	PublicProfile json.RawMessage `json:"public_profile,omitempty"`
	TOTPSecret    *string         `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled   bool            `json:"totp_enabled"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Name returns the display name, falling back to the email address.
func (p *Profile) Name() string {
	if p.DisplayName != nil && *p.DisplayName != "" {
		return *p.DisplayName
	}
	return p.Email
}

// Needs2FA reports whether login must be completed with a TOTP code.
// Two-factor authentication is opt-in for portfolio owners.
func (p *Profile) Needs2FA() bool {
	return p.TOTPEnabled && p.TOTPSecret != nil
}
