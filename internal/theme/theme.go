// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme defines the color roles and typography applied to every
// rendered portfolio section, plus the built-in palette presets.
package theme

import (
	"encoding/json"
	"fmt"
)

// Role names one slot in the palette.
type Role string

const (
	RolePrimary    Role = "primary"
	RoleSecondary  Role = "secondary"
	RoleAccent     Role = "accent"
	RoleBackground Role = "background"
	RoleText       Role = "text"
)

// Roles lists every color role in display order.
var Roles = []Role{RolePrimary, RoleSecondary, RoleAccent, RoleBackground, RoleText}

// ParseRole validates a role name coming from a form or query string.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown color role %q", s)
}

// Colors maps each role to a CSS color string. Values are never validated;
// whatever the user typed is what the renderer receives.
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Get returns the color stored for a role.
func (c Colors) Get(r Role) string {
	switch r {
	case RolePrimary:
		return c.Primary
	case RoleSecondary:
		return c.Secondary
	case RoleAccent:
		return c.Accent
	case RoleBackground:
		return c.Background
	case RoleText:
		return c.Text
	}
	return ""
}

// Set stores a color for a role. It reports false for unknown roles.
func (c *Colors) Set(r Role, value string) bool {
	switch r {
	case RolePrimary:
		c.Primary = value
	case RoleSecondary:
		c.Secondary = value
	case RoleAccent:
		c.Accent = value
	case RoleBackground:
		c.Background = value
	case RoleText:
		c.Text = value
	default:
		return false
	}
	return true
}

// Theme is the full visual configuration persisted as theme_settings.
type Theme struct {
	Colors
	Typography *Typography `json:"typography,omitempty"`
}

// DefaultColors is the palette used when a portfolio has none.
var DefaultColors = Colors{
	Primary:    "#2563eb",
	Secondary:  "#64748b",
	Accent:     "#3b82f6",
	Background: "#ffffff",
	Text:       "#1e293b",
}

// Default returns a fresh copy of the default theme.
func Default() Theme {
	return Theme{Colors: DefaultColors}
}

// Clone returns a deep copy.
func (t Theme) Clone() Theme {
	out := Theme{Colors: t.Colors}
	if t.Typography != nil {
		ty := *t.Typography
		out.Typography = &ty
	}
	return out
}

// Fonts returns the effective typography, falling back to defaults.
func (t Theme) Fonts() Typography {
	if t.Typography == nil {
		return DefaultTypography
	}
	return *t.Typography
}

// storedTheme mirrors every key a theme_settings document may carry,
// including the legacy *Color names written by the original templates.
type storedTheme struct {
	Primary    *string     `json:"primary"`
	Secondary  *string     `json:"secondary"`
	Accent     *string     `json:"accent"`
	Background *string     `json:"background"`
	Text       *string     `json:"text"`
	Typography *Typography `json:"typography"`

	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

// UnmarshalJSON accepts both the current and the legacy key names. Roles
// missing from the document keep the default palette value so a partial
// theme still renders; a present key is kept as stored, even when empty.
func (t *Theme) UnmarshalJSON(data []byte) error {
	var st storedTheme
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	*t = Default()
	pick := func(role Role, current *string, legacy string) {
		if current != nil {
			t.Set(role, *current)
		} else if legacy != "" {
			t.Set(role, legacy)
		}
	}
	pick(RolePrimary, st.Primary, st.PrimaryColor)
	pick(RoleSecondary, st.Secondary, st.SecondaryColor)
	pick(RoleAccent, st.Accent, st.AccentColor)
	pick(RoleBackground, st.Background, st.BackgroundColor)
	pick(RoleText, st.Text, st.TextColor)
	if st.Typography != nil {
		ty := st.Typography.Normalize()
		t.Typography = &ty
	}
	return nil
}

// Decode parses a stored theme_settings document. Empty documents and
// JSON null decode to the default theme.
func Decode(raw []byte) (Theme, error) {
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
		return Default(), nil
	}
	var t Theme
	if err := json.Unmarshal(raw, &t); err != nil {
		return Default(), fmt.Errorf("decode theme: %w", err)
	}
	return t, nil
}
