// Package history keeps a bounded, linear undo/redo history of full scene
// snapshots.
package history

import (
	"sync"
	"time"

	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/model"
)

const (
	DefaultMaxSize     = 100
	DefaultRecentLimit = 20
)

// State is an immutable scene snapshot.
type State struct {
	Atoms       []model.Atom `json:"atoms"`
	Bonds       []model.Bond `json:"bonds"`
	Timestamp   time.Time    `json:"timestamp"`
	Action      string       `json:"action"`
	Description string       `json:"description"`
}

// Entry is a recorded State plus a back-reference to the state that was
// current when it was recorded.
type Entry struct {
	ID string `json:"id"`
	State
	Previous *State `json:"previous,omitempty"`
}

// Listener is called with the resulting entry after every cursor movement.
type Listener func(Entry)

// Options configures a Manager.
type Options struct {
	MaxSize int
	Clock   func() time.Time
	IDs     ids.Generator
}

// DefaultOptions returns the default history options.
func DefaultOptions() Options {
	return Options{
		MaxSize: DefaultMaxSize,
		Clock:   time.Now,
		IDs:     ids.NewGenerator(),
	}
}

// Stats summarizes the history.
type Stats struct {
	TotalActions    int        `json:"total_actions"`
	CurrentPosition int        `json:"current_position"`
	CanUndo         bool       `json:"can_undo"`
	CanRedo         bool       `json:"can_redo"`
	OldestTimestamp *time.Time `json:"oldest_timestamp,omitempty"`
	NewestTimestamp *time.Time `json:"newest_timestamp,omitempty"`
}

type subscription struct {
	id int
	fn Listener
}

// Manager owns the entry sequence and the cursor. It is meant to be driven
// from a single goroutine; listeners run synchronously on that goroutine.
type Manager struct {
	opts    Options
	entries []Entry
	cursor  int

	mu        sync.Mutex // guards listeners only
	listeners []subscription
	nextSub   int
}

// NewManager creates an empty history. Zero-valued options fall back to defaults.
func NewManager(opts Options) *Manager {
	def := DefaultOptions()
	if opts.MaxSize <= 0 {
		opts.MaxSize = def.MaxSize
	}
	if opts.Clock == nil {
		opts.Clock = def.Clock
	}
	if opts.IDs == nil {
		opts.IDs = def.IDs
	}
	return &Manager{opts: opts, cursor: -1}
}

// RecordState discards any entries after the cursor, appends a copy of the
// given scene and moves the cursor onto it. The oldest entry is evicted once
// MaxSize is exceeded.
func (m *Manager) RecordState(atoms []model.Atom, bonds []model.Bond, action, description string) Entry {
	m.entries = m.entries[:m.cursor+1]

	entry := Entry{
		ID: m.opts.IDs.New(),
		State: State{
			Atoms:       model.CloneAtoms(atoms),
			Bonds:       model.CloneBonds(bonds),
			Timestamp:   m.opts.Clock(),
			Action:      action,
			Description: description,
		},
	}
	if m.cursor >= 0 {
		prev := m.entries[m.cursor].State
		entry.Previous = &prev
	}

	m.entries = append(m.entries, entry)
	m.cursor++

	if len(m.entries) > m.opts.MaxSize {
		m.entries[0] = Entry{}
		m.entries = m.entries[1:]
		m.cursor--
	}

	m.notify(entry)
	return entry.clone()
}

// Undo moves the cursor back one entry.
func (m *Manager) Undo() (Entry, bool) {
	if !m.CanUndo() {
		return Entry{}, false
	}
	m.cursor--
	return m.moved()
}

// Redo moves the cursor forward one entry.
func (m *Manager) Redo() (Entry, bool) {
	if !m.CanRedo() {
		return Entry{}, false
	}
	m.cursor++
	return m.moved()
}

// CanUndo reports whether an earlier entry exists before the cursor.
func (m *Manager) CanUndo() bool { return m.cursor > 0 }

// CanRedo reports whether a later entry exists after the cursor.
func (m *Manager) CanRedo() bool { return m.cursor < len(m.entries)-1 }

// Cursor returns the current index, -1 when empty.
func (m *Manager) Cursor() int { return m.cursor }

// Len returns the number of stored entries.
func (m *Manager) Len() int { return len(m.entries) }

// Current returns the entry at the cursor.
func (m *Manager) Current() (Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[m.cursor].clone(), true
}

// JumpTo moves the cursor to the entry with the given id.
func (m *Manager) JumpTo(id string) (Entry, bool) {
	for i, e := range m.entries {
		if e.ID == id {
			m.cursor = i
			return m.moved()
		}
	}
	return Entry{}, false
}

// Clear empties the history. Listeners are not notified.
func (m *Manager) Clear() {
	m.entries = nil
	m.cursor = -1
}

func (m *Manager) moved() (Entry, bool) {
	e := m.entries[m.cursor]
	m.notify(e)
	return e.clone(), true
}

// Subscribe registers fn and returns a function that removes it.
// Listeners are invoked in registration order.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSub++
	id := m.nextSub
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.listeners {
			if s.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notify(e Entry) {
	m.mu.Lock()
	subs := make([]subscription, len(m.listeners))
	copy(subs, m.listeners)
	m.mu.Unlock()

	for _, s := range subs {
		s.fn(e.clone())
	}
}

// Entries returns a copy of every stored entry, oldest first.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.clone()
	}
	return out
}

// Recent returns the last limit entries (DefaultRecentLimit when limit <= 0).
func (m *Manager) Recent(limit int) []Entry {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	start := len(m.entries) - limit
	if start < 0 {
		start = 0
	}
	out := make([]Entry, 0, len(m.entries)-start)
	for _, e := range m.entries[start:] {
		out = append(out, e.clone())
	}
	return out
}

// ActionSummary counts stored entries per action tag.
func (m *Manager) ActionSummary() map[string]int {
	summary := map[string]int{}
	for _, e := range m.entries {
		summary[e.Action]++
	}
	return summary
}

// Stats returns a summary of the history.
func (m *Manager) Stats() Stats {
	st := Stats{
		TotalActions:    len(m.entries),
		CurrentPosition: m.cursor + 1,
		CanUndo:         m.CanUndo(),
		CanRedo:         m.CanRedo(),
	}
	if n := len(m.entries); n > 0 {
		oldest := m.entries[0].Timestamp
		newest := m.entries[n-1].Timestamp
		st.OldestTimestamp = &oldest
		st.NewestTimestamp = &newest
	}
	return st
}

func (e Entry) clone() Entry {
	out := e
	out.Atoms = model.CloneAtoms(e.Atoms)
	out.Bonds = model.CloneBonds(e.Bonds)
	if e.Previous != nil {
		prev := *e.Previous
		prev.Atoms = model.CloneAtoms(prev.Atoms)
		prev.Bonds = model.CloneBonds(prev.Bonds)
		out.Previous = &prev
	}
	return out
}
