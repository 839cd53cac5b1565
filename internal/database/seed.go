package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"folio/internal/models"
	"folio/internal/section"
	"folio/internal/theme"
)

// Demo account created by SeedDemo in development.
const (
	DemoEmail    = "demo@folio.local"
	DemoPassword = "demo"
)

// starterTemplate is one entry of the built-in template catalog.
type starterTemplate struct {
	name        string
	description string
	structure   models.TemplateStructure
}

func palette(primary, background, text string) *theme.Theme {
	t := theme.Default()
	t.Primary, t.Background, t.Text = primary, background, text
	return &t
}

func stubs(pairs ...string) []models.TemplateSection {
	out := make([]models.TemplateSection, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.TemplateSection{Type: section.Type(pairs[i]), Title: pairs[i+1]})
	}
	return out
}

// starterTemplates is the catalog offered in the create dialog.
var starterTemplates = []starterTemplate{
	{
		name:        "Minimal",
		description: "Clean and professional design",
		structure: models.TemplateStructure{
			Theme: palette("#3b82f6", "#ffffff", "#1f2937"),
			Sections: stubs(
				"hero", "Your Name",
				"about", "About Me",
				"skills", "Skills",
				"projects", "Projects",
				"contact", "Contact",
			),
		},
	},
	{
		name:        "Creative",
		description: "Colorful and dynamic",
		structure: models.TemplateStructure{
			Theme: palette("#8b5cf6", "#fafafa", "#111827"),
			Sections: stubs(
				"hero", "Creative Designer",
				"gallery", "Portfolio",
				"about", "My Story",
				"contact", "Let's Work Together",
			),
		},
	},
	{
		name:        "Professional",
		description: "For businesses and consultants",
		structure: models.TemplateStructure{
			Theme: palette("#10b981", "#ffffff", "#1f2937"),
			Sections: stubs(
				"hero", "Professional Consultant",
				"about", "About Me",
				"projects", "Case Studies",
				"experience", "Experience",
				"testimonials", "Clients",
				"contact", "Start Today",
			),
		},
	},
}

// Seed inserts the built-in templates. Existing templates with the same
// name are left alone, so Seed is safe to run on every start.
func Seed(db *sql.DB) error {
	for _, t := range starterTemplates {
		structure, err := json.Marshal(t.structure)
		if err != nil {
			return fmt.Errorf("seed marshal template %s: %w", t.name, err)
		}
		_, err = db.Exec(`
			INSERT INTO templates (name, description, structure)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, t.name, t.description, structure)
		if err != nil {
			return fmt.Errorf("seed insert template %s: %w", t.name, err)
		}
	}
	slog.Info("template catalog seeded", "templates", len(starterTemplates))
	return nil
}

// SeedDemo creates a demo account if no profiles exist yet. Development
// only.
func SeedDemo(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&count); err != nil {
		return fmt.Errorf("seed check profiles: %w", err)
	}
	if count > 0 {
		slog.Info("profiles already present, skipping demo account")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO profiles (email, password_hash, display_name)
		VALUES ($1, $2, $3)
	`, DemoEmail, string(hash), "Demo User")
	if err != nil {
		return fmt.Errorf("seed insert demo profile: %w", err)
	}

	slog.Info("demo account created",
		"email", DemoEmail,
		"password", DemoPassword,
	)
	return nil
}
