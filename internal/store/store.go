// Package store is the single source of truth for planner state: an
// observable container around an immutable AppData snapshot, mutated only
// through the fixed action catalog and persisted locally on every change.
package store

import (
	"sync"
	"time"

	"github.com/planloop/planloop/internal/domain"
	"github.com/planloop/planloop/internal/logger"
)

// DefaultPersistDebounce batches rapid mutations into one local write.
// This is the fast local debounce, distinct from the sync adapter's much
// slower push debounce.
const DefaultPersistDebounce = 200 * time.Millisecond

// Persister receives the data-only projection after every committed change.
type Persister interface {
	Save(domain.AppData) error
}

// Options configures a Store.
type Options struct {
	Persist         Persister             // local durable record, optional in tests
	PersistDebounce time.Duration         // defaults to DefaultPersistDebounce
	KeepDoneHistory bool                  // retain unposted done records in DoneHistory
	Defaults        func() domain.AppData // seeded reset state for ClearAll
}

// Store owns AppData. One instance per process, constructed and injected at
// startup; never a package-level global.
type Store struct {
	mu   sync.RWMutex
	data domain.AppData

	// commitMu serializes whole actions: one mutation is fully applied and
	// its subscribers notified before the next begins.
	commitMu sync.Mutex

	subs    map[int]func()
	nextSub int

	log  logger.Logger
	opts Options

	persistMu       sync.Mutex
	persistTimer    *time.Timer
	lastLocalSaveAt time.Time
}

// New creates a Store holding the given initial state.
func New(initial domain.AppData, opts Options, log logger.Logger) *Store {
	if opts.PersistDebounce <= 0 {
		opts.PersistDebounce = DefaultPersistDebounce
	}
	if opts.Defaults == nil {
		opts.Defaults = func() domain.AppData { return domain.AppData{Version: domain.SchemaVersion} }
	}
	return &Store{
		data: initial.Clone(),
		subs: make(map[int]func()),
		log:  log,
		opts: opts,
	}
}

// Snapshot returns a deep copy of the current state. Callers can do
// anything with it without affecting the store.
func (s *Store) Snapshot() domain.AppData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Subscribe registers a callback invoked after every committed change.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// update runs one action: clone current state, apply fn, commit the result.
// Commit is skipped entirely (no notification, no persistence) when fn left
// the data equal to what it was.
func (s *Store) update(fn func(*domain.AppData) error) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.RLock()
	next := s.data.Clone()
	s.mu.RUnlock()

	if err := fn(&next); err != nil {
		return err
	}
	s.commitLocked(next)
	return nil
}

// commitLocked swaps in next unless it equals current, then notifies
// subscribers and schedules the debounced local save. Caller holds commitMu.
func (s *Store) commitLocked(next domain.AppData) {
	s.mu.Lock()
	if s.data.Equal(next) {
		s.mu.Unlock()
		return
	}
	s.data = next
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	s.schedulePersist()
}

// schedulePersist (re)arms the local save debounce. Best effort and
// fire-and-forget: a failing save degrades durability, never state.
func (s *Store) schedulePersist() {
	if s.opts.Persist == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if s.persistTimer != nil {
		s.persistTimer.Stop()
	}
	s.persistTimer = time.AfterFunc(s.opts.PersistDebounce, s.flushPersist)
}

func (s *Store) flushPersist() {
	if s.opts.Persist == nil {
		return
	}
	if err := s.opts.Persist.Save(s.Snapshot()); err != nil {
		s.log.Warn("local save failed, in-memory state stays authoritative",
			logger.Error(err))
		return
	}
	s.persistMu.Lock()
	s.lastLocalSaveAt = time.Now()
	s.persistMu.Unlock()
}

// FlushPersist cancels any pending debounce and saves immediately.
// Used on shutdown.
func (s *Store) FlushPersist() {
	s.persistMu.Lock()
	if s.persistTimer != nil {
		s.persistTimer.Stop()
		s.persistTimer = nil
	}
	s.persistMu.Unlock()
	s.flushPersist()
}

// LastLocalSaveAt reports when the local record was last written.
func (s *Store) LastLocalSaveAt() time.Time {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.lastLocalSaveAt
}
