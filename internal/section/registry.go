// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package section

import "fmt"

// Entry describes one section type in the catalog.
type Entry struct {
	Type        Type
	Label       string
	Description string
	Icon        string
	defaults    func() map[string]any
}

// fallbackTitle is used for types outside the catalog.
const fallbackTitle = "New Section"

// registry is the closed catalog, in sidebar order. Defaults are built by
// functions so each call hands out an independent map.
var registry = []Entry{
	{
		Type: TypeHero, Label: "Hero Section", Icon: "user",
		Description: "Main header with your name and title",
		defaults: func() map[string]any {
			return map[string]any{
				"title":           "Your Name",
				"subtitle":        "Your Profession",
				"description":     "A short description of what you do and what you love about it",
				"buttonText":      "Learn more",
				"backgroundImage": nil,
			}
		},
	},
	{
		Type: TypeAbout, Label: "About Me", Icon: "file-text",
		Description: "Biography and introduction",
		defaults: func() map[string]any {
			return map[string]any{
				"title": "About Me",
				"text":  "Tell your professional story, your passions and what sets you apart in your field.",
				"image": nil,
				"highlights": []any{
					"Years of experience",
					"Innovative projects",
					"Passion for quality",
				},
			}
		},
	},
	{
		Type: TypeSkills, Label: "Skills", Icon: "star",
		Description: "Skills and technologies with progress bars",
		defaults: func() map[string]any {
			return map[string]any{
				"title": "My Skills",
				"skills": []any{
					map[string]any{"name": "JavaScript", "level": 90.0},
					map[string]any{"name": "React", "level": 85.0},
					map[string]any{"name": "Node.js", "level": 80.0},
					map[string]any{"name": "Python", "level": 75.0},
					map[string]any{"name": "Design", "level": 70.0},
				},
			}
		},
	},
	{
		Type: TypeProjects, Label: "Projects", Icon: "briefcase",
		Description: "Showcase of your work and projects",
		defaults: func() map[string]any {
			return map[string]any{"title": "My Projects", "projects": []any{}}
		},
	},
	{
		Type: TypeExperience, Label: "Experience", Icon: "layers",
		Description: "Professional timeline",
		defaults: func() map[string]any {
			return map[string]any{"title": "Experience", "entries": []any{}}
		},
	},
	{
		Type: TypeTestimonials, Label: "Testimonials", Icon: "message-circle",
		Description: "Reviews and client feedback",
		defaults: func() map[string]any {
			return map[string]any{"title": "What People Say", "testimonials": []any{}}
		},
	},
	{
		Type: TypeGallery, Label: "Gallery", Icon: "image",
		Description: "Collection of images and media",
		defaults: func() map[string]any {
			return map[string]any{"title": "Gallery", "images": []any{}}
		},
	},
	{
		Type: TypeContact, Label: "Contact", Icon: "mail",
		Description: "Contact form and details",
		defaults: func() map[string]any {
			return map[string]any{
				"title":    "Get in Touch",
				"email":    "you@example.com",
				"phone":    "+1 555 010 0000",
				"location": "Your City",
				"socials":  []any{},
			}
		},
	},
}

// Entries returns the catalog in sidebar order.
func Entries() []Entry {
	return append([]Entry(nil), registry...)
}

// Types returns every known section type in sidebar order.
func Types() []Type {
	out := make([]Type, len(registry))
	for i, e := range registry {
		out[i] = e.Type
	}
	return out
}

// Lookup returns the catalog entry for a type.
func Lookup(t Type) (Entry, bool) {
	for _, e := range registry {
		if e.Type == t {
			return e, true
		}
	}
	return Entry{}, false
}

// ParseType validates a type name coming from user input. Only catalog
// types may be created.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := Lookup(t); !ok {
		return "", fmt.Errorf("unknown section type %q", s)
	}
	return t, nil
}

// DefaultContent returns a fresh copy of the default payload for a type,
// or an empty map for types outside the catalog.
func DefaultContent(t Type) map[string]any {
	if e, ok := Lookup(t); ok {
		return e.defaults()
	}
	return map[string]any{}
}

// DefaultTitle returns the title given to a new section of type t.
func DefaultTitle(t Type) string {
	if e, ok := Lookup(t); ok {
		return e.Label
	}
	return fallbackTitle
}

// Label is the human-readable name of a type, or the raw type string for
// types outside the catalog.
func Label(t Type) string {
	if e, ok := Lookup(t); ok {
		return e.Label
	}
	return string(t)
}
