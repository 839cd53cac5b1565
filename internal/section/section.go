// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package section defines the content blocks a portfolio is composed of
// and the closed catalog of section types the editor can create.
package section

import (
	"github.com/google/uuid"
)

// Type identifies the kind of a section. Persisted documents may carry
// types this build does not know; those are kept and rendered through the
// fallback branch.
type Type string

const (
	TypeHero         Type = "hero"
	TypeAbout        Type = "about"
	TypeSkills       Type = "skills"
	TypeProjects     Type = "projects"
	TypeContact      Type = "contact"
	TypeGallery      Type = "gallery"
	TypeTestimonials Type = "testimonials"
	TypeExperience   Type = "experience"
)

// DefaultPadding is applied to newly created sections.
const DefaultPadding = "4rem 2rem"

// idPrefix keeps section ids recognisable in DOM ids and JSON.
const idPrefix = "section-"

// Styles are optional per-section overrides. An empty field falls back to
// the theme (colors) or DefaultPadding.
type Styles struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	Padding         string `json:"padding,omitempty"`
}

// Section is one reorderable content block of a portfolio.
type Section struct {
	ID      string         `json:"id"`
	Type    Type           `json:"type"`
	Title   string         `json:"title"`
	Content map[string]any `json:"content"`
	Styles  *Styles        `json:"styles,omitempty"`
}

// NewID returns a fresh section id. UUIDv7 embeds the creation time, so ids
// sort by age while staying unique within a millisecond.
func NewID() string {
	return idPrefix + uuid.Must(uuid.NewV7()).String()
}

// New builds a section of the given type from its registry defaults.
func New(t Type) Section {
	return Section{
		ID:      NewID(),
		Type:    t,
		Title:   DefaultTitle(t),
		Content: DefaultContent(t),
		Styles:  &Styles{Padding: DefaultPadding},
	}
}

// Clone returns a deep copy of the section, including nested content.
func (s Section) Clone() Section {
	out := s
	out.Content = CloneContent(s.Content)
	if s.Styles != nil {
		st := *s.Styles
		out.Styles = &st
	}
	return out
}

// Known reports whether the section's type is in the registry.
func (s Section) Known() bool {
	_, ok := Lookup(s.Type)
	return ok
}

// CloneContent deep-copies a JSON-shaped content map.
func CloneContent(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return CloneContent(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	case []map[string]any:
		out := make([]map[string]any, len(x))
		for i, e := range x {
			out[i] = CloneContent(e)
		}
		return out
	default:
		return v
	}
}
