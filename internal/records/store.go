// Package records implements an indexed collection persisted as a whole on every change.
//
// Each mutation stashes the in-memory items and the id allocator, applies the change,
// and asks the backend to save. A failed save restores the stash, so readers only ever
// observe the state before the call or the fully persisted state after it.
package records

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"dmb-chatter/internal/idalloc"
)

var (
	ErrInvalid   = errors.New("records: invalid item")
	ErrDuplicate = errors.New("records: item already exists")
	ErrNotFound  = errors.New("records: item not found")
	ErrPersist   = errors.New("records: persist failed")
)

// Backend loads and saves the full collection.
type Backend[T any] interface {
	Load() ([]T, error)
	Save(items []T) error
}

// Kind describes a record type to the store. T must be a plain value type:
// the store copies items by assignment when it stashes them.
type Kind[T any] interface {
	Name() string
	ID(item T) uint
	WithID(item T, id uint) T
	// Key is the natural lookup key, compared case-insensitively.
	Key(item T) string
	Validate(item T) error
	// Merge resolves Add of an item whose key is already stored.
	// Returning ErrDuplicate rejects the add.
	Merge(existing, incoming T) (T, error)
	// Update applies the mutable fields of incoming onto existing.
	Update(existing, incoming T) T
}

type Store[T any] struct {
	kind    Kind[T]
	backend Backend[T]
	log     *slog.Logger

	mu     sync.RWMutex
	items  []T
	ids    *idalloc.Allocator
	loaded bool
}

type StoreOption func(*storeOptions)

type storeOptions struct {
	log *slog.Logger
}

func WithLogger(l *slog.Logger) StoreOption {
	return func(o *storeOptions) { o.log = l }
}

func newStore[T any](kind Kind[T], backend Backend[T], opts ...StoreOption) *Store[T] {
	o := storeOptions{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		kind:    kind,
		backend: backend,
		log:     o.log.With("store", kind.Name()),
		ids:     idalloc.New(),
	}
}

// Open creates a store and loads it from the backend. It is the only constructor,
// so reads never see a store that has not been loaded.
func Open[T any](kind Kind[T], backend Backend[T], opts ...StoreOption) (*Store[T], error) {
	s := newStore(kind, backend, opts...)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store[T]) Name() string { return s.kind.Name() }

// Load replaces the in-memory items with the backend content and resyncs the id allocator.
func (s *Store[T]) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUnlocked()
}

func (s *Store[T]) loadUnlocked() error {
	items, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("load %s: %w", s.kind.Name(), err)
	}
	s.items = items
	s.ids.Zero()
	s.ids.MarkUsed(s.usedIDs())
	s.loaded = true
	s.log.Debug("store loaded", "count", len(items), "max_id", s.ids.Current())
	return nil
}

func (s *Store[T]) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	return s.loadUnlocked()
}

// Add stores item under a fresh id, or merges it into the stored item with the same key.
func (s *Store[T]) Add(item T) (T, error) {
	var zero T
	if err := s.kind.Validate(item); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return zero, err
	}
	var stored T
	err := s.mutate(func() error {
		if i := s.indexOfKey(s.kind.Key(item)); i >= 0 {
			merged, err := s.kind.Merge(s.items[i], item)
			if err != nil {
				return err
			}
			s.items[i] = s.kind.WithID(merged, s.kind.ID(s.items[i]))
			stored = s.items[i]
			return nil
		}
		stored = s.kind.WithID(item, s.ids.Next())
		s.items = append(s.items, stored)
		return nil
	})
	if err != nil {
		return zero, err
	}
	return stored, nil
}

// AddAll replaces every stored item sharing a key with the batch and
// appends the batch under fresh ids, persisting once.
func (s *Store[T]) AddAll(items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: empty batch", ErrInvalid)
	}
	for _, it := range items {
		if err := s.kind.Validate(it); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	return s.mutate(func() error {
		keys := make(map[string]struct{}, len(items))
		for _, it := range items {
			keys[normKey(s.kind.Key(it))] = struct{}{}
		}
		kept := s.items[:0:0]
		for _, it := range s.items {
			if _, ok := keys[normKey(s.kind.Key(it))]; ok {
				s.ids.ReturnUnused(s.kind.ID(it))
				continue
			}
			kept = append(kept, it)
		}
		for _, it := range items {
			kept = append(kept, s.kind.WithID(it, s.ids.Next()))
		}
		s.items = kept
		return nil
	})
}

func (s *Store[T]) Get(id uint) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if s.kind.ID(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) GetAll(ids []uint) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := idSet(ids)
	var out []T
	for _, it := range s.items {
		if _, ok := want[s.kind.ID(it)]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Find looks an item up by its natural key, ignoring case and surrounding space.
func (s *Store[T]) Find(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOfKey(key); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// List returns a copy of all items ordered by id.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]T(nil), s.items...)
	sort.SliceStable(out, func(i, j int) bool { return s.kind.ID(out[i]) < s.kind.ID(out[j]) })
	return out
}

// Update replaces the mutable fields of every item stored under id.
// Changing the key to one held by another item is ErrDuplicate.
func (s *Store[T]) Update(id uint, item T) error {
	if err := s.kind.Validate(item); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	return s.mutate(func() error {
		found := false
		for i, it := range s.items {
			if s.kind.ID(it) != id {
				continue
			}
			updated := s.kind.Update(it, item)
			if j := s.indexOfKey(s.kind.Key(updated)); j >= 0 && s.kind.ID(s.items[j]) != id {
				return fmt.Errorf("%w: %q", ErrDuplicate, s.kind.Key(updated))
			}
			s.items[i] = updated
			found = true
		}
		if !found {
			return fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil
	})
}

func (s *Store[T]) Remove(id uint) error {
	if id == idalloc.None {
		return fmt.Errorf("%w: zero id", ErrInvalid)
	}
	return s.RemoveAll([]uint{id})
}

// RemoveKey removes every item whose key matches.
func (s *Store[T]) RemoveKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	k := normKey(key)
	return s.mutate(func() error {
		return s.removeWhere(func(it T) bool { return normKey(s.kind.Key(it)) == k })
	})
}

func (s *Store[T]) RemoveAll(ids []uint) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no ids", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	want := idSet(ids)
	return s.mutate(func() error {
		return s.removeWhere(func(it T) bool {
			_, ok := want[s.kind.ID(it)]
			return ok
		})
	})
}

// Clear removes everything and restarts ids at 1.
func (s *Store[T]) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	return s.mutate(func() error {
		s.items = []T{}
		s.ids.Zero()
		return nil
	})
}

// Persist flushes the current items to the backend.
func (s *Store[T]) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	return s.mutate(func() error { return nil })
}

func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) IsEmpty() bool { return s.Count() == 0 }

// MaxID is the allocator's high-water mark.
func (s *Store[T]) MaxID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ids.Current()
}

type stash[T any] struct {
	items []T
	ids   *idalloc.Allocator
}

func (s *Store[T]) stashList() stash[T] {
	return stash[T]{items: append([]T(nil), s.items...), ids: s.ids.Clone()}
}

func (s *Store[T]) rollback(st stash[T]) {
	s.items = st.items
	s.ids = st.ids
}

// mutate runs change against the live items and commits it only if the backend saves.
// Must be called with mu held.
func (s *Store[T]) mutate(change func() error) error {
	st := s.stashList()
	if err := change(); err != nil {
		s.rollback(st)
		return err
	}
	if err := s.backend.Save(s.items); err != nil {
		s.rollback(st)
		s.log.Warn("rollback: could not persist change", "err", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.ids.MarkUsed(s.usedIDs())
	return nil
}

func (s *Store[T]) removeWhere(match func(T) bool) error {
	kept := s.items[:0:0]
	var removed []uint
	for _, it := range s.items {
		if match(it) {
			removed = append(removed, s.kind.ID(it))
			continue
		}
		kept = append(kept, it)
	}
	if len(removed) == 0 {
		return ErrNotFound
	}
	s.items = kept
	for _, id := range removed {
		s.ids.ReturnUnused(id)
	}
	return nil
}

func (s *Store[T]) indexOfKey(key string) int {
	k := normKey(key)
	if k == "" {
		return -1
	}
	for i, it := range s.items {
		if normKey(s.kind.Key(it)) == k {
			return i
		}
	}
	return -1
}

func (s *Store[T]) usedIDs() []uint {
	out := make([]uint, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, s.kind.ID(it))
	}
	return out
}

func idSet(ids []uint) map[uint]struct{} {
	m := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func normKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
