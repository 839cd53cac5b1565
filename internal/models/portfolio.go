// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"folio/internal/section"
	"folio/internal/theme"
)

// VisibilityStatus controls who can see a portfolio.
type VisibilityStatus string

const (
	// StatusDraft is visible to the owner only.
	StatusDraft VisibilityStatus = "draft"
	// StatusPublishedPrivate is reachable by anyone holding the link.
	StatusPublishedPrivate VisibilityStatus = "published_private"
	// StatusPublishedPublic is reachable by link and listed in the feed.
	StatusPublishedPublic VisibilityStatus = "published_public"
)

// VisibilityStatuses lists the states in the order the status menu shows them.
var VisibilityStatuses = []VisibilityStatus{StatusDraft, StatusPublishedPrivate, StatusPublishedPublic}

// ParseVisibility validates a status value from a form.
func ParseVisibility(s string) (VisibilityStatus, error) {
	for _, v := range VisibilityStatuses {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid visibility status %q", s)
}

// Label is the human readable status name.
func (v VisibilityStatus) Label() string {
	switch v {
	case StatusPublishedPrivate:
		return "Private link"
	case StatusPublishedPublic:
		return "Public"
	}
	return "Draft"
}

// Description explains who can see a portfolio in this state.
func (v VisibilityStatus) Description() string {
	switch v {
	case StatusPublishedPrivate:
		return "Visible only to people with the direct link"
	case StatusPublishedPublic:
		return "Visible to everyone in the public feed"
	}
	return "Only you can see this portfolio"
}

// IsPublished reports whether the portfolio is reachable by its share link.
func (v VisibilityStatus) IsPublished() bool {
	return v == StatusPublishedPrivate || v == StatusPublishedPublic
}

// PortfolioContent is the persisted shape of the content column.
type PortfolioContent struct {
	Sections []section.Section `json:"sections"`
}

// DecodeContent parses a stored content document. Empty or null documents
// and documents without a sections array give an empty sequence.
func DecodeContent(raw []byte) (PortfolioContent, error) {
	var c PortfolioContent
	if len(raw) == 0 || string(raw) == "null" {
		return c, nil
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return PortfolioContent{}, fmt.Errorf("decode content: %w", err)
	}
	return c, nil
}

// Portfolio is a user's portfolio site.
type Portfolio struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Description      *string          `json:"description,omitempty"`
	VisibilityStatus VisibilityStatus `json:"visibility_status"`
	Content          PortfolioContent `json:"content"`
	ThemeSettings    theme.Theme      `json:"theme_settings"`
	CopyCount        int              `json:"copy_count"`
	Tags             []string         `json:"tags"`
	CoverImageURL    *string          `json:"cover_image_url,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SharePath is the public path of the portfolio.
func (p *Portfolio) SharePath() string {
	return "/p/" + p.Slug
}

// DescriptionText returns the description or an empty string.
func (p *Portfolio) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// Document is the editable part of a portfolio: what the editor loads and
// writes back on save.
type Document struct {
	Content   PortfolioContent
	Theme     theme.Theme
	UpdatedAt time.Time
}
