package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"folio/internal/models"
)

// Feed sort orders.
const (
	SortRecent  = "recent"
	SortPopular = "popular"
)

const (
	// DefaultFeedLimit is the page size when a query does not set one.
	DefaultFeedLimit = 12
	// MaxFeedLimit caps the page size.
	MaxFeedLimit = 48
)

// FeedQuery filters the public feed.
type FeedQuery struct {
	Sort   string   // SortRecent (default) or SortPopular
	Tags   []string // items must carry every tag
	Search string   // matched against name and description
	Limit  int
	Offset int
}

// Normalize fills defaults and clamps out-of-range values.
func (q FeedQuery) Normalize() FeedQuery {
	if q.Sort != SortPopular {
		q.Sort = SortRecent
	}
	if q.Limit <= 0 {
		q.Limit = DefaultFeedLimit
	}
	if q.Limit > MaxFeedLimit {
		q.Limit = MaxFeedLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Search = strings.TrimSpace(q.Search)
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	q.Tags = tags
	return q
}

// FeedStore lists publicly shared portfolios.
type FeedStore struct {
	db *sql.DB
}

// NewFeedStore creates a new FeedStore with the given database connection.
func NewFeedStore(db *sql.DB) *FeedStore {
	return &FeedStore{db: db}
}

// likeEscaper escapes LIKE wildcards in user search terms.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildFeedQuery returns the SQL and arguments for a normalized query.
func buildFeedQuery(q FeedQuery) (string, []any) {
	var b strings.Builder
	var args []any
	b.WriteString(`SELECT id, name, slug, description, array_to_json(tags), cover_image_url,
		copy_count, created_at, display_name, avatar_url
		FROM public_portfolios WHERE TRUE`)

	if len(q.Tags) > 0 {
		args = append(args, q.Tags)
		fmt.Fprintf(&b, ` AND tags @> $%d`, len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(q.Search)+"%")
		fmt.Fprintf(&b, ` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}

	if q.Sort == SortPopular {
		b.WriteString(` ORDER BY copy_count DESC, created_at DESC`)
	} else {
		b.WriteString(` ORDER BY created_at DESC`)
	}

	args = append(args, q.Limit, q.Offset)
	fmt.Fprintf(&b, ` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return b.String(), args
}

// List returns one page of the feed and whether another page follows.
func (s *FeedStore) List(ctx context.Context, q FeedQuery) ([]models.FeedItem, bool, error) {
	q = q.Normalize()
	query, args := buildFeedQuery(q)
	// One extra row tells whether another page exists.
	args[len(args)-2] = q.Limit + 1
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list feed: %w", err)
	}
	defer rows.Close()

	var out []models.FeedItem
	for rows.Next() {
		var item models.FeedItem
		var tags []byte
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug, &item.Description, &tags,
			&item.CoverImageURL, &item.CopyCount, &item.CreatedAt, &item.OwnerName, &item.OwnerAvatarURL); err != nil {
			return nil, false, fmt.Errorf("scan feed item: %w", err)
		}
		if item.Tags, err = decodeTags(tags); err != nil {
			return nil, false, fmt.Errorf("scan feed item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("list feed: %w", err)
	}
	if len(out) > q.Limit {
		return out[:q.Limit], true, nil
	}
	return out, false, nil
}
