// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"folio/internal/editor"
	"folio/internal/engine"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/section"
	"folio/internal/theme"
)

// Editor groups the portfolio editor handlers. Every action mutates the
// in-memory editor held by the workspace and answers with the re-rendered
// workspace fragment; nothing is persisted until Save.
type Editor struct {
	renderer   *render.Renderer
	engine     *engine.Renderer
	workspace  *editor.Workspace
	portfolios Portfolios
	pages      PageCache
}

// NewEditor creates a new Editor handler group.
func NewEditor(renderer *render.Renderer, eng *engine.Renderer, workspace *editor.Workspace, portfolios Portfolios, pages PageCache) *Editor {
	return &Editor{
		renderer:   renderer,
		engine:     eng,
		workspace:  workspace,
		portfolios: portfolios,
		pages:      pages,
	}
}

// errBadInput marks action input the user can fix.
type errBadInput string

func (e errBadInput) Error() string { return string(e) }

// open resolves the portfolio and its editor for the current request.
func (h *Editor) open(w http.ResponseWriter, r *http.Request) (*models.Portfolio, *editor.Editor, bool) {
	id, ok := portfolioID(r)
	if !ok {
		errorPage(h.renderer, w, r, http.StatusNotFound, "Portfolio not found.")
		return nil, nil, false
	}
	owner := ownerID(r)
	p, err := h.portfolios.FindOwned(r.Context(), owner, id)
	if err != nil {
		serverError(h.renderer, w, r, "find portfolio failed", err)
		return nil, nil, false
	}
	if p == nil {
		errorPage(h.renderer, w, r, http.StatusNotFound, "Portfolio not found.")
		return nil, nil, false
	}

	ed, err := h.workspace.Open(r.Context(), editor.Key{Owner: owner, Portfolio: id})
	switch {
	case errors.Is(err, editor.ErrNotFound):
		errorPage(h.renderer, w, r, http.StatusNotFound, "Portfolio not found.")
		return nil, nil, false
	case err != nil:
		serverError(h.renderer, w, r, "open editor failed", err)
		return nil, nil, false
	}
	return p, ed, true
}

// workspaceData builds the template data shared by the editor page and
// the workspace fragment.
func (h *Editor) workspaceData(p *models.Portfolio, ed *editor.Editor) (map[string]any, error) {
	canvas, err := ed.Canvas()
	if err != nil {
		return nil, err
	}
	data := map[string]any{
		"Portfolio":   p,
		"Canvas":      canvas,
		"CanvasStyle": engine.CanvasStyle(canvas.Theme, canvas.Device),
		"FontsHref":   engine.FontsHref(canvas.Theme.Fonts()),
		"Catalog":     section.Entries(),
		"Presets":     theme.Presets,
		"Roles":       theme.Roles,
		"Fonts":       theme.Fonts,
		"Typography":  canvas.Theme.Fonts(),
		"Devices":     engine.Devices,
	}
	if sel, ok := ed.Selected(); ok {
		data["Selected"] = &sel
		data["SelectedLabel"] = section.Label(sel.Type)
	}
	if err := ed.LastError(); err != nil && canvas.State != editor.StateIdle {
		data["SaveError"] = "changes are kept, try again"
	}
	return data, nil
}

// Open renders the editor page.
func (h *Editor) Open(w http.ResponseWriter, r *http.Request) {
	p, ed, ok := h.open(w, r)
	if !ok {
		return
	}
	data, err := h.workspaceData(p, ed)
	if err != nil {
		serverError(h.renderer, w, r, "render canvas failed", err)
		return
	}
	h.renderer.Page(w, r, "editor", &render.PageData{
		Title: p.Name,
		Nav:   "dashboard",
		Data:  data,
	})
}

// Preview renders the editor's current state as the full public page,
// unsaved edits included.
func (h *Editor) Preview(w http.ResponseWriter, r *http.Request) {
	p, ed, ok := h.open(w, r)
	if !ok {
		return
	}
	doc := ed.Snapshot()
	html, err := h.engine.Page(engine.Document{
		Name:        p.Name,
		Description: p.DescriptionText(),
		Sections:    doc.Content.Sections,
		Theme:       doc.Theme,
		Device:      ed.Device(),
	})
	if err != nil {
		serverError(h.renderer, w, r, "render preview failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(html)
}

// act runs one editor action and answers with the refreshed workspace.
func (h *Editor) act(w http.ResponseWriter, r *http.Request, fn func(ed *editor.Editor) (render.Flash, error)) {
	p, ed, ok := h.open(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		toast(h.renderer, w, r, http.StatusBadRequest, "error", "Malformed request.")
		return
	}

	flash, err := fn(ed)
	var bad errBadInput
	status := http.StatusOK
	switch {
	case errors.As(err, &bad):
		status = http.StatusUnprocessableEntity
		flash = render.Flash{Type: "error", Message: bad.Error()}
	case errors.Is(err, editor.ErrSaveInProgress):
		status = http.StatusConflict
		flash = render.Flash{Type: "info", Message: "A save is already running."}
	case err != nil:
		slog.Warn("editor action failed", "portfolio_id", p.ID, "path", r.URL.Path, "error", err)
		status = http.StatusBadGateway
		flash = render.Flash{Type: "error", Message: "Could not save. Your changes are kept; try again."}
	}

	data, err := h.workspaceData(p, ed)
	if err != nil {
		serverError(h.renderer, w, r, "render canvas failed", err)
		return
	}
	var flashes []render.Flash
	if flash.Message != "" {
		flashes = append(flashes, flash)
	}
	h.renderer.Partial(w, r, "editor", "workspace", &render.PageData{
		Status:  status,
		Data:    data,
		Flashes: flashes,
	})
}

// AddSection appends a section of the posted type.
func (h *Editor) AddSection(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		t, err := section.ParseType(r.PostFormValue("type"))
		if err != nil {
			return render.Flash{}, errBadInput("Unknown section type.")
		}
		if _, err := ed.AddSection(t); err != nil {
			return render.Flash{}, errBadInput("Unknown section type.")
		}
		return render.Flash{}, nil
	})
}

// RemoveSection deletes the {sid} section.
func (h *Editor) RemoveSection(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		ed.RemoveSection(chi.URLParam(r, "sid"))
		return render.Flash{}, nil
	})
}

// DuplicateSection copies the {sid} section right after itself.
func (h *Editor) DuplicateSection(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		ed.DuplicateSection(chi.URLParam(r, "sid"))
		return render.Flash{}, nil
	})
}

// Reorder moves a section, either by index (from, to) or by id and a
// relative step (id, delta). Out of range moves are ignored.
func (h *Editor) Reorder(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		if id := r.PostFormValue("id"); id != "" {
			delta, err := strconv.Atoi(r.PostFormValue("delta"))
			if err != nil {
				return render.Flash{}, errBadInput("Invalid move.")
			}
			ed.MoveSectionByID(id, delta)
			return render.Flash{}, nil
		}
		from, err1 := strconv.Atoi(r.PostFormValue("from"))
		to, err2 := strconv.Atoi(r.PostFormValue("to"))
		if err1 != nil || err2 != nil {
			return render.Flash{}, errBadInput("Invalid move.")
		}
		ed.MoveSection(from, to)
		return render.Flash{}, nil
	})
}

// Select changes the section shown in the inspector. An empty id closes it.
func (h *Editor) Select(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		ed.Select(r.PostFormValue("id"))
		return render.Flash{}, nil
	})
}

// UpdateSection applies the inspector form to the {sid} section.
func (h *Editor) UpdateSection(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		patch, err := parsePatch(r)
		if err != nil {
			return render.Flash{}, err
		}
		ed.UpdateSection(chi.URLParam(r, "sid"), patch)
		return render.Flash{}, nil
	})
}

// parsePatch reads the inspector fields: title, content.<key> for plain
// strings, json.<key> for structured values and style.<field>.
func parsePatch(r *http.Request) (section.Patch, error) {
	var p section.Patch
	for key, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		v := values[0]
		switch {
		case key == "title":
			p.Title = &v
		case strings.HasPrefix(key, "content."):
			if p.Content == nil {
				p.Content = map[string]any{}
			}
			p.Content[strings.TrimPrefix(key, "content.")] = v
		case strings.HasPrefix(key, "json."):
			name := strings.TrimPrefix(key, "json.")
			if p.Content == nil {
				p.Content = map[string]any{}
			}
			if strings.TrimSpace(v) == "" {
				p.Content[name] = nil
				continue
			}
			var decoded any
			if err := json.Unmarshal([]byte(v), &decoded); err != nil {
				return section.Patch{}, errBadInput("Invalid JSON in " + name + ".")
			}
			p.Content[name] = decoded
		case strings.HasPrefix(key, "style."):
			if p.Styles == nil {
				p.Styles = &section.StylesPatch{}
			}
			val := strings.TrimSpace(v)
			switch strings.TrimPrefix(key, "style.") {
			case "backgroundColor":
				p.Styles.BackgroundColor = &val
			case "textColor":
				p.Styles.TextColor = &val
			case "padding":
				p.Styles.Padding = &val
			}
		}
	}
	return p, nil
}

// ApplyPreset replaces the palette with a named preset.
func (h *Editor) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		preset, ok := theme.FindPreset(r.PostFormValue("preset"))
		if !ok {
			return render.Flash{}, errBadInput("Unknown preset.")
		}
		ed.ApplyPreset(preset.Colors)
		return render.Flash{}, nil
	})
}

// SetColors updates every role present in the form. Values are stored
// as typed.
func (h *Editor) SetColors(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		current := ed.Theme()
		for _, role := range theme.Roles {
			values, ok := r.PostForm[string(role)]
			if !ok || len(values) == 0 || values[0] == current.Get(role) {
				continue
			}
			ed.SetColor(role, values[0])
		}
		return render.Flash{}, nil
	})
}

// SetTypography replaces fonts and sizes. Out of range values are clamped.
func (h *Editor) SetTypography(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		t := ed.Theme().Fonts()
		form := r.PostForm
		if v := form.Get("headingFont"); v != "" {
			t.HeadingFont = v
		}
		if v := form.Get("bodyFont"); v != "" {
			t.BodyFont = v
		}
		for key, dst := range map[string]*int{"h1Size": &t.H1Size, "h2Size": &t.H2Size, "bodySize": &t.BodySize} {
			if v, err := strconv.Atoi(form.Get(key)); err == nil {
				*dst = v
			}
		}
		for key, dst := range map[string]*float64{"lineHeight": &t.LineHeight, "letterSpacing": &t.LetterSpacing} {
			if v, err := strconv.ParseFloat(form.Get(key), 64); err == nil {
				*dst = v
			}
		}
		ed.SetTypography(t.Normalize())
		return render.Flash{}, nil
	})
}

// SetDevice switches the canvas preview width.
func (h *Editor) SetDevice(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		ed.SetDevice(engine.ParseDevice(r.PostFormValue("device")))
		return render.Flash{}, nil
	})
}

// Save writes the whole document and drops the cached public page.
func (h *Editor) Save(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ed *editor.Editor) (render.Flash, error) {
		if err := ed.Save(r.Context()); err != nil {
			return render.Flash{}, err
		}
		p, err := h.portfolios.FindOwned(r.Context(), ed.Key().Owner, ed.Key().Portfolio)
		switch {
		case err != nil:
			slog.Warn("page cache invalidation skipped", "portfolio_id", ed.Key().Portfolio, "error", err)
		case p == nil:
			slog.Warn("page cache invalidation skipped", "portfolio_id", ed.Key().Portfolio, "error", "portfolio not found")
		default:
			h.pages.Invalidate(r.Context(), p.Slug)
		}
		return render.Flash{Type: "success", Message: "Saved."}, nil
	})
}

// Discard drops unsaved changes and reloads the stored document.
func (h *Editor) Discard(w http.ResponseWriter, r *http.Request) {
	id, ok := portfolioID(r)
	if !ok {
		errorPage(h.renderer, w, r, http.StatusNotFound, "Portfolio not found.")
		return
	}
	h.workspace.Discard(editor.Key{Owner: ownerID(r), Portfolio: id})
	htmxRedirect(w, r, editorPath(id))
}
