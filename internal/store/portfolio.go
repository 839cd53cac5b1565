// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
	"folio/internal/section"
	"folio/internal/theme"
)

// PortfolioStore handles all portfolio-related database operations.
// It also serves as the editor's document repository.
type PortfolioStore struct {
	db *sql.DB
}

// NewPortfolioStore creates a new PortfolioStore with the given database connection.
func NewPortfolioStore(db *sql.DB) *PortfolioStore {
	return &PortfolioStore{db: db}
}

// portfolioColumns lists the columns selected in portfolio queries. Tags
// are read as JSON so they scan into a plain byte slice.
const portfolioColumns = `id, user_id, name, slug, description, visibility_status,
	content, theme_settings, copy_count, array_to_json(tags), cover_image_url,
	created_at, updated_at`

func scanPortfolio(scanner interface{ Scan(...any) error }) (*models.Portfolio, error) {
	var p models.Portfolio
	var content, themeRaw, tags []byte
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Slug, &p.Description, &p.VisibilityStatus,
		&content, &themeRaw, &p.CopyCount, &tags, &p.CoverImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Content, err = models.DecodeContent(content); err != nil {
		return nil, err
	}
	if p.ThemeSettings, err = theme.Decode(themeRaw); err != nil {
		return nil, err
	}
	if p.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeTags(raw []byte) ([]string, error) {
	tags := []string{}
	if len(raw) == 0 || string(raw) == "null" {
		return tags, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

// encodeDocument serializes the editable columns of a portfolio.
func encodeDocument(content models.PortfolioContent, th theme.Theme) (string, string, error) {
	if content.Sections == nil {
		content.Sections = []section.Section{}
	}
	c, err := json.Marshal(content)
	if err != nil {
		return "", "", fmt.Errorf("encode content: %w", err)
	}
	t, err := json.Marshal(th)
	if err != nil {
		return "", "", fmt.Errorf("encode theme: %w", err)
	}
	return string(c), string(t), nil
}

// Create inserts a new portfolio. ID, status, copy count and timestamps
// are filled by the database and written back into p.
func (s *PortfolioStore) Create(ctx context.Context, p *models.Portfolio) error {
	content, th, err := encodeDocument(p.Content, p.ThemeSettings)
	if err != nil {
		return fmt.Errorf("create portfolio: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.VisibilityStatus == "" {
		p.VisibilityStatus = models.StatusDraft
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO portfolios (user_id, name, slug, description, visibility_status,
		                        content, theme_settings, tags, cover_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, copy_count, created_at, updated_at`,
		p.UserID, p.Name, p.Slug, p.Description, p.VisibilityStatus,
		content, th, p.Tags, p.CoverImageURL,
	)
	if err := row.Scan(&p.ID, &p.CopyCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create portfolio: %w", err)
	}
	return nil
}

// FindOwned retrieves a portfolio by id if it belongs to owner.
func (s *PortfolioStore) FindOwned(ctx context.Context, owner, id uuid.UUID) (*models.Portfolio, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+portfolioColumns+` FROM portfolios WHERE id = $1 AND user_id = $2`, id, owner)
	p, err := scanPortfolio(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find portfolio: %w", err)
	}
	return p, nil
}

// FindCopyable retrieves a portfolio that owner may copy: any public
// portfolio, or one of their own.
func (s *PortfolioStore) FindCopyable(ctx context.Context, owner, id uuid.UUID) (*models.Portfolio, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+portfolioColumns+` FROM portfolios
		 WHERE id = $1 AND (visibility_status = 'published_public' OR user_id = $2)`, id, owner)
	p, err := scanPortfolio(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find copyable portfolio: %w", err)
	}
	return p, nil
}

// ListByOwner returns all portfolios of a user, newest first.
func (s *PortfolioStore) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Portfolio, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+portfolioColumns+` FROM portfolios WHERE user_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	defer rows.Close()

	var out []models.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan portfolio: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// LoadDocument returns the editable document of an owned portfolio, or
// nil when the portfolio does not exist or belongs to someone else.
func (s *PortfolioStore) LoadDocument(ctx context.Context, owner, id uuid.UUID) (*models.Document, error) {
	var content, themeRaw []byte
	var doc models.Document
	err := s.db.QueryRowContext(ctx, `
		SELECT content, theme_settings, updated_at FROM portfolios
		WHERE id = $1 AND user_id = $2`, id, owner,
	).Scan(&content, &themeRaw, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc.Content, err = models.DecodeContent(content); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc.Theme, err = theme.Decode(themeRaw); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return &doc, nil
}

// SaveDocument overwrites the content and theme of an owned portfolio.
// The last write wins.
func (s *PortfolioStore) SaveDocument(ctx context.Context, owner, id uuid.UUID, doc models.Document) error {
	content, th, err := encodeDocument(doc.Content, doc.Theme)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	updated := doc.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE portfolios SET content = $1, theme_settings = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5`,
		content, th, updated, id, owner,
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("save document: %w", ErrNotFound)
	}
	return nil
}

// UpdateStatus moves a portfolio to a new visibility state.
func (s *PortfolioStore) UpdateStatus(ctx context.Context, owner, id uuid.UUID, status models.VisibilityStatus) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE portfolios SET visibility_status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3`, status, id, owner)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("update status: %w", ErrNotFound)
	}
	return nil
}

// UpdateDetails changes the name, description and tags of a portfolio.
// The slug stays the same so shared links keep working.
func (s *PortfolioStore) UpdateDetails(ctx context.Context, owner, id uuid.UUID, name string, description *string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE portfolios SET name = $1, description = $2, tags = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5`, name, description, tags, id, owner)
	if err != nil {
		return fmt.Errorf("update details: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("update details: %w", ErrNotFound)
	}
	return nil
}

// SetCoverImage stores or clears (nil) the cover image URL.
func (s *PortfolioStore) SetCoverImage(ctx context.Context, owner, id uuid.UUID, url *string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE portfolios SET cover_image_url = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3`, url, id, owner)
	if err != nil {
		return fmt.Errorf("set cover image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("set cover image: %w", ErrNotFound)
	}
	return nil
}

// Delete removes an owned portfolio. Deleting something that is already
// gone is not an error.
func (s *PortfolioStore) Delete(ctx context.Context, owner, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("delete portfolio: %w", err)
	}
	return nil
}

// FindPublishedBySlug retrieves a portfolio reachable by its share link.
// Drafts are never returned.
func (s *PortfolioStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Portfolio, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+portfolioColumns+` FROM get_portfolio_by_slug($1)`, slug)
	p, err := scanPortfolio(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find portfolio by slug: %w", err)
	}
	return p, nil
}

// Copy creates a draft copy of source for owner and bumps the source's
// copy count. It returns nil when the source is not copyable by owner.
func (s *PortfolioStore) Copy(ctx context.Context, source, owner uuid.UUID, name, slug string) (*uuid.UUID, error) {
	var id uuid.NullUUID
	err := s.db.QueryRowContext(ctx,
		`SELECT copy_portfolio($1, $2, $3, $4)`, source, owner, name, slug,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("copy portfolio: %w", err)
	}
	if !id.Valid {
		return nil, nil
	}
	return &id.UUID, nil
}
