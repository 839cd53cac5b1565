package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"folio/internal/section"
	"folio/internal/theme"
)

// Template is a starting point offered when creating a portfolio.
type Template struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Description  *string           `json:"description,omitempty"`
	IsPremium    bool              `json:"is_premium"`
	Structure    TemplateStructure `json:"structure"`
	ThumbnailURL *string           `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// TemplateSection is a section stub inside a template. Content is
// optional; missing content is filled from the section registry.
type TemplateSection struct {
	Type    section.Type   `json:"type"`
	Title   string         `json:"title,omitempty"`
	Content map[string]any `json:"content,omitempty"`
}

// TemplateStructure is the persisted structure column of a template.
type TemplateStructure struct {
	Sections []TemplateSection `json:"sections"`
	Theme    *theme.Theme      `json:"theme,omitempty"`
}

// DecodeStructure parses a stored template structure.
func DecodeStructure(raw []byte) (TemplateStructure, error) {
	var s TemplateStructure
	if len(raw) == 0 || string(raw) == "null" {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return TemplateStructure{}, fmt.Errorf("decode template structure: %w", err)
	}
	return s, nil
}

// Instantiate builds the initial editable document of a portfolio created
// from this structure. Every section gets a fresh id and registry
// defaults for whatever the template leaves out.
func (s TemplateStructure) Instantiate() (PortfolioContent, theme.Theme) {
	content := PortfolioContent{Sections: make([]section.Section, 0, len(s.Sections))}
	for _, ts := range s.Sections {
		sec := section.New(ts.Type)
		if ts.Title != "" {
			sec.Title = ts.Title
		}
		for k, v := range section.CloneContent(ts.Content) {
			sec.Content[k] = v
		}
		content.Sections = append(content.Sections, sec)
	}
	th := theme.Default()
	if s.Theme != nil {
		th = s.Theme.Clone()
	}
	return content, th
}
