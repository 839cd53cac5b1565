// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the app pages.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"folio/internal/middleware"
	"folio/internal/session"
)

//go:embed templates/app/*.html
var appFS embed.FS

// PageData holds all data passed to app templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Nav       string         // Active nav item ("dashboard", "feed", "settings")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms and HTMX headers
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
	Status    int            // response status, 200 when zero
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "info"
	Message string
}

// Renderer handles template parsing and execution for app pages.
type Renderer struct {
	templates map[string]*template.Template
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout.
var standaloneTemplates = map[string]bool{
	"login":      true,
	"signup":     true,
	"2fa_verify": true,
}

// New creates a Renderer by parsing all app templates from the embedded
// filesystem. Each page template is paired with the base layout and the
// shared partials. devMode only toggles the dev badge in the nav.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	funcs := funcMap(devMode)

	entries, err := appFS.ReadDir("templates/app")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || strings.HasPrefix(name, "_") {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		files := []string{"templates/app/_partials.html", "templates/app/" + name}
		root := name
		if !standaloneTemplates[tmplName] {
			files = append([]string{"templates/app/base.html"}, files...)
			root = "base.html"
		}

		tmpl, err := template.New(root).Funcs(funcs).ParseFS(appFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// prepare fills the request-scoped fields of data.
func prepare(r *http.Request, data *PageData) *PageData {
	if data == nil {
		data = &PageData{}
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}
	return data
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. For HTMX requests to layout pages only the "content" block is
// sent.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}
	data = prepare(r, data)

	execName := "base.html"
	switch {
	case standaloneTemplates[name]:
		execName = name + ".html"
	case middleware.IsHTMX(r):
		execName = "content"
	}
	rn.execute(w, tmpl, execName, data, data.Status)
}

// Partial renders one named block of a page template. HTMX actions use it
// to swap a fragment such as the editor workspace or a portfolio card.
func (rn *Renderer) Partial(w http.ResponseWriter, r *http.Request, page, block string, data *PageData) {
	tmpl, ok := rn.templates[page]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", page), http.StatusInternalServerError)
		return
	}
	data = prepare(r, data)
	rn.execute(w, tmpl, block, data, data.Status)
}

// execute buffers the output so a failing template never leaves a half
// written page behind.
func (rn *Renderer) execute(w http.ResponseWriter, tmpl *template.Template, name string, data any, status int) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != 0 {
		w.WriteHeader(status)
	}
	w.Write(buf.Bytes())
}
