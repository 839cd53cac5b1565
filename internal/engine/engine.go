// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders portfolio sections and whole portfolio pages.
//
// Section rendering is a pure function of (Section, Theme): the same inputs
// always produce the same markup, inputs are never modified, and nothing
// outside the process is consulted. Each catalog type has its own
// template; unknown types fall back to a placeholder block. Malformed
// content never fails a render, it just renders empty.
package engine

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"folio/internal/section"
	"folio/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer holds the parsed section and page templates. It is safe for
// concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("engine").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse section templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew is New for package initialisation and tests.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Section renders one section with the given theme.
func (r *Renderer) Section(s section.Section, th theme.Theme) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "section", buildView(s, th)); err != nil {
		return "", fmt.Errorf("render section %s: %w", s.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// Sections renders every section in order.
func (r *Renderer) Sections(sections []section.Section, th theme.Theme) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(sections))
	for _, s := range sections {
		h, err := r.Section(s, th)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// Document is everything needed to render a standalone portfolio page.
type Document struct {
	Name          string
	Description   string
	CoverImageURL string
	Sections      []section.Section
	Theme         theme.Theme
	Device        Device
}

type pageView struct {
	Name          string
	Description   string
	CoverImageURL string
	FontsHref     string
	RootStyle     template.CSS
	CanvasStyle   template.CSS
	Sections      []template.HTML
}

// Page renders a full HTML document for a portfolio.
func (r *Renderer) Page(doc Document) ([]byte, error) {
	sections, err := r.Sections(doc.Sections, doc.Theme)
	if err != nil {
		return nil, err
	}
	fonts := doc.Theme.Fonts()
	device := doc.Device
	if device == "" {
		device = DeviceDesktop
	}
	data := pageView{
		Name:          doc.Name,
		Description:   doc.Description,
		CoverImageURL: doc.CoverImageURL,
		FontsHref:     FontsHref(fonts),
		RootStyle:     rootStyle(doc.Theme, fonts),
		CanvasStyle:   declarations("max-width", device.Width(), "margin", "0 auto"),
		Sections:      sections,
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// FontsHref builds the Google Fonts stylesheet URL for the heading and
// body fonts.
func FontsHref(t theme.Typography) string {
	families := []string{t.HeadingFont}
	if t.BodyFont != t.HeadingFont {
		families = append(families, t.BodyFont)
	}
	parts := make([]string, 0, len(families)+1)
	for _, f := range families {
		parts = append(parts, "family="+url.QueryEscape(f)+":wght@400;600;700")
	}
	parts = append(parts, "display=swap")
	return "https://fonts.googleapis.com/css2?" + strings.Join(parts, "&")
}

// rootStyle exposes the theme as CSS custom properties on :root.
func rootStyle(th theme.Theme, t theme.Typography) template.CSS {
	return template.CSS(":root { " + string(themeVars(th, t)) + " }")
}

// ThemeVars returns the theme's custom properties as inline declarations,
// for hosting rendered sections inside another page such as the editor.
func ThemeVars(th theme.Theme) template.CSS {
	return themeVars(th, th.Fonts())
}

// CanvasStyle is ThemeVars plus the device width, for the editor canvas.
func CanvasStyle(th theme.Theme, d Device) template.CSS {
	return ThemeVars(th) + "; " + declarations("max-width", d.Width(), "margin", "0 auto")
}

func themeVars(th theme.Theme, t theme.Typography) template.CSS {
	return declarations(
		"--fs-primary", th.Primary,
		"--fs-secondary", th.Secondary,
		"--fs-accent", th.Accent,
		"--fs-background", th.Background,
		"--fs-text", th.Text,
		"--fs-heading-font", quoteFont(t.HeadingFont),
		"--fs-body-font", quoteFont(t.BodyFont),
		"--fs-h1-size", strconv.Itoa(t.H1Size)+"px",
		"--fs-h2-size", strconv.Itoa(t.H2Size)+"px",
		"--fs-body-size", strconv.Itoa(t.BodySize)+"px",
		"--fs-line-height", strconv.FormatFloat(t.LineHeight, 'f', -1, 64),
		"--fs-letter-spacing", strconv.FormatFloat(t.LetterSpacing, 'f', -1, 64)+"px",
	)
}

// quoteFont turns a font name into a font-family list. Names come from the
// theme.Fonts whitelist, so they contain letters and spaces only.
func quoteFont(name string) string {
	return name + ", system-ui, sans-serif"
}
