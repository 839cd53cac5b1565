// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor implements the portfolio editor: an ordered sequence of
// sections, a theme, a live canvas, and the save state machine
//
//	idle --mutation--> dirty --Save--> saving --ok--> idle
//	                                         \--err--> dirty
//
// Saves always write the full snapshot and overwrite whatever is stored.
// Only one save may be in flight per editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"folio/internal/engine"
	"folio/internal/models"
	"folio/internal/section"
	"folio/internal/theme"
)

var (
	// ErrNotFound is returned by Open when the portfolio does not exist or
	// belongs to someone else.
	ErrNotFound = errors.New("portfolio not found")
	// ErrSaveInProgress is returned by Save while a previous save is still
	// running.
	ErrSaveInProgress = errors.New("save already in progress")
	// ErrUnknownSectionType is returned when adding a type outside the catalog.
	ErrUnknownSectionType = errors.New("unknown section type")
)

// State is the save state of an editor.
type State int

const (
	StateIdle State = iota
	StateDirty
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	}
	return "idle"
}

// Key identifies an open editor: one per owner and portfolio.
type Key struct {
	Owner     uuid.UUID
	Portfolio uuid.UUID
}

// Repository persists portfolio documents. Implementations return
// (nil, nil) from LoadDocument when the portfolio is not owned by owner.
type Repository interface {
	LoadDocument(ctx context.Context, owner, id uuid.UUID) (*models.Document, error)
	SaveDocument(ctx context.Context, owner, id uuid.UUID, doc models.Document) error
}

// Editor is one open portfolio. All methods are safe for concurrent use.
type Editor struct {
	mu       sync.Mutex
	key      Key
	repo     Repository
	renderer *engine.Renderer

	seq    *Sequence
	themes *ThemeStore
	device engine.Device

	state    State
	revision uint64 // bumped by every mutation
	savedAt  time.Time
	lastErr  error

	now func() time.Time
}

// Open loads a portfolio and returns an idle editor for it. A load failure
// is returned as is; nothing is rendered until it succeeds.
func Open(ctx context.Context, repo Repository, r *engine.Renderer, key Key) (*Editor, error) {
	doc, err := repo.LoadDocument(ctx, key.Owner, key.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return New(repo, r, key, *doc), nil
}

// New builds an editor around an already loaded document.
func New(repo Repository, r *engine.Renderer, key Key, doc models.Document) *Editor {
	return &Editor{
		key:      key,
		repo:     repo,
		renderer: r,
		seq:      NewSequence(doc.Content.Sections),
		themes:   NewThemeStore(doc.Theme),
		device:   engine.DeviceDesktop,
		savedAt:  doc.UpdatedAt,
		now:      time.Now,
	}
}

// Key returns the editor's key.
func (e *Editor) Key() Key { return e.key }

// State returns the current save state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastError returns the error of the most recent failed save, cleared on
// the next successful one.
func (e *Editor) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// SavedAt is the updated-at timestamp of the document as last loaded or saved.
func (e *Editor) SavedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.savedAt
}

// markDirtyLocked records a mutation. A mutation during a save leaves the
// state at saving; Save notices the revision change when it finishes.
func (e *Editor) markDirtyLocked() {
	e.revision++
	if e.state != StateSaving {
		e.state = StateDirty
	}
}

// AddSection appends a new section of type t and selects it.
func (e *Editor) AddSection(t section.Type) (section.Section, error) {
	if _, ok := section.Lookup(t); !ok {
		return section.Section{}, fmt.Errorf("%w: %q", ErrUnknownSectionType, t)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.seq.Add(t)
	e.markDirtyLocked()
	return s, nil
}

// RemoveSection deletes a section. Unknown ids are a no-op.
func (e *Editor) RemoveSection(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.seq.Remove(id) {
		return false
	}
	e.markDirtyLocked()
	return true
}

// DuplicateSection copies a section in place after the original.
func (e *Editor) DuplicateSection(id string) (section.Section, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	dup, ok := e.seq.Duplicate(id)
	if ok {
		e.markDirtyLocked()
	}
	return dup, ok
}

// MoveSection moves the section at from to to.
func (e *Editor) MoveSection(from, to int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.seq.Reorder(from, to) {
		return false
	}
	e.markDirtyLocked()
	return true
}

// MoveSectionByID moves a section one step up (delta -1) or down (+1), or
// by any other offset. Moves past either end are ignored.
func (e *Editor) MoveSectionByID(id string, delta int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	from := e.seq.Index(id)
	if from < 0 || !e.seq.Reorder(from, from+delta) {
		return false
	}
	e.markDirtyLocked()
	return true
}

// UpdateSection merges a patch into a section.
func (e *Editor) UpdateSection(id string, p section.Patch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.seq.Update(id, p) {
		return false
	}
	e.markDirtyLocked()
	return true
}

// Select changes the selected section. Selection is view state and does
// not make the editor dirty.
func (e *Editor) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq.Select(id)
}

// Selected returns the selected section, if any.
func (e *Editor) Selected() (section.Section, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.seq.SelectedID()
	if id == "" {
		return section.Section{}, false
	}
	return e.seq.Get(id)
}

// Section returns a copy of one section.
func (e *Editor) Section(id string) (section.Section, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq.Get(id)
}

// Sections returns a copy of the current sequence.
func (e *Editor) Sections() []section.Section {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq.Sections()
}

// Theme returns a copy of the current theme.
func (e *Editor) Theme() theme.Theme {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.themes.Theme()
}

// ApplyPreset replaces the palette.
func (e *Editor) ApplyPreset(c theme.Colors) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.themes.SetPreset(c)
	e.markDirtyLocked()
}

// SetColor changes one color role.
func (e *Editor) SetColor(r theme.Role, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.themes.SetField(r, value) {
		return false
	}
	e.markDirtyLocked()
	return true
}

// SetTypography replaces the typography settings.
func (e *Editor) SetTypography(t theme.Typography) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.themes.SetTypography(t)
	e.markDirtyLocked()
}

// SetDevice switches the preview viewport.
func (e *Editor) SetDevice(d engine.Device) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.device = d
}

// Device returns the preview viewport.
func (e *Editor) Device() engine.Device {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.device
}

// Snapshot returns the document that Save would write now.
func (e *Editor) Snapshot() models.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Editor) snapshotLocked() models.Document {
	return models.Document{
		Content: models.PortfolioContent{Sections: e.seq.Sections()},
		Theme:   e.themes.Theme(),
	}
}

// Save writes the full snapshot to the repository. While it runs, further
// Save calls fail with ErrSaveInProgress; edits are still accepted. On
// failure the editor stays dirty and nothing is rolled back. On success
// it becomes idle, unless edits arrived during the save.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateSaving {
		e.mu.Unlock()
		return ErrSaveInProgress
	}
	doc := e.snapshotLocked()
	doc.UpdatedAt = e.now().UTC()
	rev := e.revision
	e.state = StateSaving
	e.mu.Unlock()

	err := e.repo.SaveDocument(ctx, e.key.Owner, e.key.Portfolio, doc)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateDirty
		e.lastErr = err
		slog.Warn("portfolio save failed", "portfolio_id", e.key.Portfolio, "error", err)
		return fmt.Errorf("save portfolio: %w", err)
	}
	e.lastErr = nil
	e.savedAt = doc.UpdatedAt
	if e.revision == rev {
		e.state = StateIdle
	} else {
		e.state = StateDirty
	}
	slog.Debug("portfolio saved", "portfolio_id", e.key.Portfolio, "sections", len(doc.Content.Sections))
	return nil
}

// CanvasSection is one rendered block of the editor canvas.
type CanvasSection struct {
	Section  section.Section
	Label    string
	HTML     template.HTML
	Selected bool
	First    bool
	Last     bool
	Index    int
}

// Canvas is the render of the whole editor at one instant.
type Canvas struct {
	Sections []CanvasSection
	Theme    theme.Theme
	Device   engine.Device
	Width    string
	State    State
}

// Canvas renders the current sequence with the current theme.
func (e *Editor) Canvas() (Canvas, error) {
	e.mu.Lock()
	sections := e.seq.Sections()
	selected := e.seq.SelectedID()
	th := e.themes.Theme()
	device := e.device
	state := e.state
	e.mu.Unlock()

	c := Canvas{
		Sections: make([]CanvasSection, 0, len(sections)),
		Theme:    th,
		Device:   device,
		Width:    device.Width(),
		State:    state,
	}
	for i, s := range sections {
		html, err := e.renderer.Section(s, th)
		if err != nil {
			return Canvas{}, err
		}
		c.Sections = append(c.Sections, CanvasSection{
			Section:  s,
			Label:    section.Label(s.Type),
			HTML:     html,
			Selected: s.ID == selected,
			First:    i == 0,
			Last:     i == len(sections)-1,
			Index:    i,
		})
	}
	return c, nil
}
