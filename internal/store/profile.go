// Package store provides database access methods for all Folio entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Lookups return (nil, nil) when nothing matches.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"folio/internal/models"
)

var (
	// ErrNotFound is returned by updates that matched no row the caller owns.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned by ProfileStore.Create for a duplicate email.
	ErrEmailTaken = errors.New("email already registered")
)

// ProfileStore handles all profile-related database operations.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// profileColumns lists the columns selected in profile queries.
const profileColumns = `id, email, password_hash, display_name, avatar_url, bio,
	public_profile, totp_secret, totp_enabled, created_at, updated_at`

func scanProfile(scanner interface{ Scan(...any) error }) (*models.Profile, error) {
	var p models.Profile
	var public []byte
	err := scanner.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName, &p.AvatarURL, &p.Bio,
		&public, &p.TOTPSecret, &p.TOTPEnabled, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.PublicProfile = public
	return &p, nil
}

// FindByEmail retrieves a profile by email address (case-insensitive).
func (s *ProfileStore) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by email: %w", err)
	}
	return p, nil
}

// FindByID retrieves a profile by its UUID.
func (s *ProfileStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return p, nil
}

// Create registers a new profile with a bcrypt-hashed password.
func (s *ProfileStore) Create(ctx context.Context, email, password, displayName string) (*models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var name *string
	if displayName = strings.TrimSpace(displayName); displayName != "" {
		name = &displayName
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING `+profileColumns,
		strings.ToLower(strings.TrimSpace(email)), string(hash), name,
	)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// UpdateProfile changes the public display fields.
func (s *ProfileStore) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, bio *string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET display_name = $1, bio = $2, updated_at = NOW() WHERE id = $3
	`, displayName, bio, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTOTPSecret saves a pending TOTP secret during 2FA enrollment.
func (s *ProfileStore) SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active after a successful code verification.
func (s *ProfileStore) EnableTOTP(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET totp_enabled = TRUE, updated_at = NOW()
		WHERE id = $1 AND totp_secret IS NOT NULL
	`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// DisableTOTP clears the secret and turns 2FA off.
func (s *ProfileStore) DisableTOTP(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("disable totp: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (s *ProfileStore) CheckPassword(p *models.Profile, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}
