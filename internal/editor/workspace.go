package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"folio/internal/engine"
)

// DefaultIdleTimeout is how long an untouched editor stays open.
const DefaultIdleTimeout = 30 * time.Minute

// workspaceEntry tracks an open editor and its last use.
type workspaceEntry struct {
	editor   *Editor
	lastUsed time.Time
}

// Workspace keeps editors open between HTTP requests so edits accumulate
// in memory until the owner saves. Idle editors are dropped by a
// background sweep; unsaved changes in them are abandoned.
type Workspace struct {
	mu       sync.Mutex
	editors  map[Key]*workspaceEntry
	repo     Repository
	renderer *engine.Renderer
	idle     time.Duration
	stopCh   chan struct{}
	now      func() time.Time
}

// NewWorkspace creates a workspace and starts its cleanup goroutine.
func NewWorkspace(repo Repository, r *engine.Renderer, idle time.Duration) *Workspace {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	w := &Workspace{
		editors:  make(map[Key]*workspaceEntry),
		repo:     repo,
		renderer: r,
		idle:     idle,
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}

	interval := min(idle/2, 5*time.Minute)
	if interval <= 0 {
		interval = idle
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.cleanup()
			case <-w.stopCh:
				return
			}
		}
	}()

	return w
}

// Stop terminates the background cleanup goroutine.
func (w *Workspace) Stop() {
	close(w.stopCh)
}

// Open returns the open editor for key, loading it from the repository if
// needed.
func (w *Workspace) Open(ctx context.Context, key Key) (*Editor, error) {
	if ed, ok := w.Get(key); ok {
		return ed, nil
	}

	// Load outside the lock; a concurrent Open of the same key keeps
	// whichever editor registered first.
	ed, err := Open(ctx, w.repo, w.renderer, key)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if existing, ok := w.editors[key]; ok {
		existing.lastUsed = w.now()
		return existing.editor, nil
	}
	w.editors[key] = &workspaceEntry{editor: ed, lastUsed: w.now()}
	return ed, nil
}

// Get returns the open editor for key without loading.
func (w *Workspace) Get(key Key) (*Editor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.editors[key]
	if !ok {
		return nil, false
	}
	entry.lastUsed = w.now()
	return entry.editor, true
}

// Discard closes the editor for key, dropping unsaved changes. Used when
// the owner reloads from storage or deletes the portfolio.
func (w *Workspace) Discard(key Key) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.editors, key)
}

// Len returns the number of open editors.
func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.editors)
}

// cleanup drops editors idle for longer than the timeout. Editors with a
// save in flight are kept until the save finishes.
func (w *Workspace) cleanup() {
	cutoff := w.now().Add(-w.idle)

	w.mu.Lock()
	defer w.mu.Unlock()

	for key, entry := range w.editors {
		if entry.lastUsed.After(cutoff) {
			continue
		}
		state := entry.editor.State()
		if state == StateSaving {
			continue
		}
		if state == StateDirty {
			slog.Info("discarding idle editor with unsaved changes", "portfolio_id", key.Portfolio)
		}
		delete(w.editors, key)
	}
}
