package editor

import (
	"folio/internal/section"
)

// copySuffix is appended to the title of a duplicated section.
const copySuffix = " (Copy)"

// Sequence is the ordered list of sections of the portfolio being edited,
// plus the current selection. It is not safe for concurrent use; Editor
// serialises access.
type Sequence struct {
	items    []section.Section
	selected string
}

// NewSequence builds a sequence from loaded sections. Missing or
// duplicated ids are replaced so every id is unique.
func NewSequence(sections []section.Section) *Sequence {
	q := &Sequence{items: make([]section.Section, 0, len(sections))}
	seen := make(map[string]bool, len(sections))
	for _, s := range sections {
		s = s.Clone()
		if s.ID == "" || seen[s.ID] {
			s.ID = section.NewID()
		}
		seen[s.ID] = true
		q.items = append(q.items, s)
	}
	return q
}

// Len returns the number of sections.
func (q *Sequence) Len() int { return len(q.items) }

// Index returns the position of id, or -1.
func (q *Sequence) Index(id string) int {
	for i, s := range q.items {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Sections returns a deep copy of the sequence.
func (q *Sequence) Sections() []section.Section {
	out := make([]section.Section, len(q.items))
	for i, s := range q.items {
		out[i] = s.Clone()
	}
	return out
}

// Get returns a copy of the section with the given id.
func (q *Sequence) Get(id string) (section.Section, bool) {
	if i := q.Index(id); i >= 0 {
		return q.items[i].Clone(), true
	}
	return section.Section{}, false
}

// Add appends a new section of type t built from the registry defaults and
// selects it.
func (q *Sequence) Add(t section.Type) section.Section {
	s := section.New(t)
	q.items = append(q.items, s)
	q.selected = s.ID
	return s.Clone()
}

// Remove deletes the section with the given id. It reports whether
// anything was removed, and clears the selection if it pointed at id.
func (q *Sequence) Remove(id string) bool {
	i := q.Index(id)
	if i < 0 {
		return false
	}
	q.items = append(q.items[:i], q.items[i+1:]...)
	if q.selected == id {
		q.selected = ""
	}
	return true
}

// Duplicate inserts a copy of the section right after the original. The
// copy gets a new id and a suffixed title.
func (q *Sequence) Duplicate(id string) (section.Section, bool) {
	i := q.Index(id)
	if i < 0 {
		return section.Section{}, false
	}
	dup := q.items[i].Clone()
	dup.ID = section.NewID()
	dup.Title += copySuffix

	q.items = append(q.items, section.Section{})
	copy(q.items[i+2:], q.items[i+1:])
	q.items[i+1] = dup
	return dup.Clone(), true
}

// Reorder moves the section at from to position to, shifting the ones in
// between. Out-of-range indices are ignored. It reports whether the order
// changed.
func (q *Sequence) Reorder(from, to int) bool {
	n := len(q.items)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	moved := q.items[from]
	if from < to {
		copy(q.items[from:to], q.items[from+1:to+1])
	} else {
		copy(q.items[to+1:from+1], q.items[to:from])
	}
	q.items[to] = moved
	return true
}

// Update merges a partial patch into the section with the given id.
func (q *Sequence) Update(id string, p section.Patch) bool {
	i := q.Index(id)
	if i < 0 || p.Empty() {
		return false
	}
	q.items[i].Apply(p)
	return true
}

// Select marks id as the selected section; an empty id clears the
// selection. Unknown ids are ignored.
func (q *Sequence) Select(id string) bool {
	if id == "" {
		q.selected = ""
		return true
	}
	if q.Index(id) < 0 {
		return false
	}
	q.selected = id
	return true
}

// SelectedID returns the id of the selected section, or "".
func (q *Sequence) SelectedID() string { return q.selected }
