package editor

import "folio/internal/theme"

// ThemeStore holds the theme of the portfolio being edited. Colors are
// stored exactly as given.
type ThemeStore struct {
	theme theme.Theme
}

// NewThemeStore starts from a loaded theme.
func NewThemeStore(t theme.Theme) *ThemeStore {
	return &ThemeStore{theme: t.Clone()}
}

// Theme returns a copy of the current theme.
func (s *ThemeStore) Theme() theme.Theme { return s.theme.Clone() }

// SetPreset replaces every color role at once. Typography is kept.
func (s *ThemeStore) SetPreset(c theme.Colors) {
	s.theme.Colors = c
}

// SetField changes a single color role. It reports false for unknown roles.
func (s *ThemeStore) SetField(r theme.Role, value string) bool {
	return s.theme.Set(r, value)
}

// SetTypography replaces the typography block after clamping it.
func (s *ThemeStore) SetTypography(t theme.Typography) {
	n := t.Normalize()
	s.theme.Typography = &n
}
