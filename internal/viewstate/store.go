// Package viewstate holds the selected flood level and keeps it in sync with
// the address bar so a view survives reload and can be shared.
package viewstate

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
)

// LevelParam is the query parameter that carries the flood level.
const LevelParam = "level"

// Listener is notified with the new level after it changes.
type Listener func(domain.FloodLevel)

// Store is the single source of truth for the selected flood level.
type Store struct {
	bar    AddressBar
	logger *slog.Logger

	mu        sync.Mutex
	level     domain.FloodLevel
	listeners map[int]Listener
	nextID    int
}

// New creates a store seeded from the address bar.
func New(bar AddressBar, logger *slog.Logger) *Store {
	s := &Store{
		bar:       bar,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
	s.level = s.readAddress()
	return s
}

// Level reads the level from the address bar, falling back to
// domain.DefaultLevel when the parameter is absent, unparsable, or out of range.
func (s *Store) Level() domain.FloodLevel {
	return s.readAddress()
}

// SetLevel writes the level into the address bar without reloading and
// updates the in-memory value. Listeners fire only on an actual change.
func (s *Store) SetLevel(v domain.FloodLevel) error {
	if !v.Valid() {
		return fmt.Errorf("set level %v: %w", float64(v), domain.ErrInvalidLevel)
	}

	s.mu.Lock()
	u := s.bar.URL()
	q := u.Query()
	q.Set(LevelParam, v.String())
	u.RawQuery = q.Encode()
	s.bar.Push(u)

	changed := s.level != v
	s.level = v
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(v)
		}
	}
	return nil
}

// Sync re-reads the address bar after an external navigation (back/forward)
// and notifies listeners if the level moved.
func (s *Store) Sync() domain.FloodLevel {
	level := s.readAddress()

	s.mu.Lock()
	changed := s.level != level
	s.level = level
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(level)
		}
	}
	return level
}

// Back steps the address bar one entry back, like the browser back button.
// It reports false when there is no earlier entry or the address bar keeps
// no history. Call Sync afterwards to pick up the level.
func (s *Store) Back() bool {
	nav, ok := s.bar.(Navigator)
	return ok && nav.Back()
}

// Address returns the current address as a string.
func (s *Store) Address() string {
	return s.bar.URL().String()
}

// Subscribe registers fn for change notifications and returns a func that
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// snapshotListeners must be called with s.mu held.
func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (s *Store) readAddress() domain.FloodLevel {
	raw := s.bar.URL().Query().Get(LevelParam)
	if raw == "" {
		return domain.DefaultLevel
	}
	level, err := domain.ParseLevel(raw)
	if err != nil {
		s.logger.Debug("ignoring level parameter", "value", raw, "error", err)
		return domain.DefaultLevel
	}
	return level
}
