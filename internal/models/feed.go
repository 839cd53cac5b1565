package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedItem is one row of the public_portfolios view.
type FeedItem struct {
	ID             uuid.UUID
	Name           string
	Slug           string
	Description    *string
	Tags           []string
	CoverImageURL  *string
	CopyCount      int
	CreatedAt      time.Time
	OwnerName      *string
	OwnerAvatarURL *string
}

// SharePath is the public path of the listed portfolio.
func (f *FeedItem) SharePath() string {
	return "/p/" + f.Slug
}

// Owner returns the owner's display name or a placeholder.
func (f *FeedItem) Owner() string {
	if f.OwnerName != nil && *f.OwnerName != "" {
		return *f.OwnerName
	}
	return "Anonymous"
}

// PopularTags are offered as quick filters above the feed.
var PopularTags = []string{
	"design", "development", "photography", "marketing", "writing",
	"frontend", "backend", "ux", "branding", "illustration",
}
