// Package session owns the live seating map of each authenticated user.
// The aggregate is deliberately not a process-wide singleton: every user
// gets their own entry with an explicit lifecycle (created on first
// access, replaced wholesale on restore) and all edits funnel through
// Mutate so no reader ever observes a partially applied change.
package session

import (
	"sync"

	"github.com/hyunsol/choir-seating-map/internal/seating"
)

// entry holds one user's aggregate plus the remote in-flight flag.
type entry struct {
	m          seating.Map
	remoteBusy bool // a remote save or load is currently running
}

// Store maps user identities to their seating map. All methods are safe
// for concurrent use by handler goroutines.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// lockedEntry returns the entry for a user, creating an empty aggregate
// on first access. Callers must hold s.mu.
func (s *Store) lockedEntry(userID string) *entry {
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{m: seating.NewMap()}
		s.entries[userID] = e
	}
	return e
}

// Get returns the user's current seating map snapshot. The snapshot is
// the immutable value the aggregate methods produce, so the caller may
// read it without further locking.
func (s *Store) Get(userID string) seating.Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockedEntry(userID).m
}

// Mutate applies fn to the user's aggregate and installs the map it
// returns. The swap happens under the store lock, so two concurrent
// edits serialize and each one sees the other's completed result, never
// an intermediate state. When fn returns an error the stored map is left
// untouched.
func (s *Store) Mutate(userID string, fn func(seating.Map) (seating.Map, error)) (seating.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lockedEntry(userID)
	next, err := fn(e.m)
	if err != nil {
		return e.m, err
	}
	e.m = next
	return next, nil
}

// Replace installs a restored snapshot wholesale, discarding whatever
// the user had in memory. Used after a local load, remote load or file
// import.
func (s *Store) Replace(userID string, m seating.Map) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockedEntry(userID).m = m
}

// Discard drops a user's entry entirely, ending the session lifecycle.
func (s *Store) Discard(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// BeginRemote marks a remote save or load as in flight for the user. It
// reports false when another remote operation is already running: the
// remote replace sequence must not interleave with itself, so callers
// reject the second trigger instead of queueing it.
func (s *Store) BeginRemote(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lockedEntry(userID)
	if e.remoteBusy {
		return false
	}
	e.remoteBusy = true
	return true
}

// EndRemote clears the in-flight flag once the remote operation has run
// to completion or failure.
func (s *Store) EndRemote(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockedEntry(userID).remoteBusy = false
}
