// Package collection keeps an ordered in-memory collection mirrored into a durable slot.
//
// The memory copy is authoritative. Every mutation re-serializes the whole
// collection as a JSON array into the slot; the slot is read only once, by Initialize.
// Failures of the slot never reach the caller: they are logged and counted.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"slices"
	"sync"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/internal/serviceerr"
	"github.com/openkcm/storefront-client/pkg/slot"
)

// MergeFunc is consulted for every existing entry on Add.
// It reports whether existing is equivalent to item and, if it updated existing, whether the collection changed.
type MergeFunc[T any] func(existing *T, item T) (matched, changed bool)

// Store is a collection of T keyed by K.
// A Store built with a nil slot.Store keeps its entries in memory only.
type Store[K comparable, T any] struct {
	mu          sync.Mutex
	slots       slot.Store
	slotName    string
	key         func(T) K
	items       []T
	initialized bool
}

func New[K comparable, T any](slots slot.Store, slotName string, key func(T) K) *Store[K, T] {
	return &Store[K, T]{
		slots:    slots,
		slotName: slotName,
		key:      key,
	}
}

// Initialize loads the collection from the slot on its first call; later calls do nothing.
// An absent, unreadable or malformed slot yields an empty collection.
func (s *Store[K, T]) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}
	s.initialized = true

	if s.slots == nil {
		return
	}

	data, err := s.slots.Get(ctx, s.slotName)
	if err != nil {
		if !errors.Is(err, serviceerr.ErrNotFound) {
			slogctx.Error(ctx, "Failed to load collection", "slot", s.slotName, "error", err)
			countFailure(ctx, loadMeters().loadFailures, s.slotName)
		}
		return
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slogctx.Error(ctx, "Failed to decode collection", "slot", s.slotName, "error", err)
		countFailure(ctx, loadMeters().loadFailures, s.slotName)
		return
	}

	s.items = items
	slogctx.Debug(ctx, "Loaded collection", "slot", s.slotName, "count", len(items))
}

// Initialized reports whether Initialize has run.
func (s *Store[K, T]) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.initialized
}

// Add merges item into the first equivalent entry or appends it.
// It returns the resulting entry and whether item was appended.
// A nil merge treats entries with the same key as equivalent and leaves them untouched.
func (s *Store[K, T]) Add(ctx context.Context, item T, merge MergeFunc[T]) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if merge == nil {
		merge = s.sameKey
	}

	for i := range s.items {
		matched, changed := merge(&s.items[i], item)
		if !matched {
			continue
		}
		if changed {
			s.persist(ctx)
		}
		return s.items[i], false
	}

	s.items = append(s.items, item)
	s.persist(ctx)

	return item, true
}

// Toggle removes the entries sharing item's key, or appends item when there are none.
// It reports whether item was appended. The check and the change happen under one lock.
func (s *Store[K, T]) Toggle(ctx context.Context, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.key(item)
	n := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(existing T) bool { return s.key(existing) == key })
	added := len(s.items) == n
	if added {
		s.items = append(s.items, item)
	}

	s.persist(ctx)

	return added
}

// Remove deletes every entry with the given key and reports whether one existed.
func (s *Store[K, T]) Remove(ctx context.Context, key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(item T) bool { return s.key(item) == key })
	removed := len(s.items) != n

	s.persist(ctx)

	return removed
}

// Update applies fn to the entry with the given key and persists.
// It reports false, without persisting, when no entry has the key.
func (s *Store[K, T]) Update(ctx context.Context, key K, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(item T) bool { return s.key(item) == key })
	if i < 0 {
		return false
	}

	fn(&s.items[i])
	s.persist(ctx)

	return true
}

// Clear empties the collection and deletes the slot.
func (s *Store[K, T]) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	if s.slots == nil {
		return
	}
	if err := s.slots.Delete(ctx, s.slotName); err != nil {
		slogctx.Error(ctx, "Failed to delete collection slot", "slot", s.slotName, "error", err)
		countFailure(ctx, loadMeters().persistFailures, s.slotName)
	}
}

// Items returns a copy of the entries in insertion order.
func (s *Store[K, T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

// All iterates over a snapshot of the entries taken when iteration starts.
func (s *Store[K, T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range s.Items() {
			if !yield(item) {
				return
			}
		}
	}
}

func (s *Store[K, T]) Find(key K) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if s.key(item) == key {
			return item, true
		}
	}

	var zero T
	return zero, false
}

func (s *Store[K, T]) Contains(key K) bool {
	_, ok := s.Find(key)
	return ok
}

func (s *Store[K, T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *Store[K, T]) sameKey(existing *T, item T) (bool, bool) {
	return s.key(*existing) == s.key(item), false
}

// persist must be called with s.mu held.
func (s *Store[K, T]) persist(ctx context.Context) {
	if s.slots == nil {
		return
	}

	items := s.items
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		slogctx.Error(ctx, "Failed to encode collection", "slot", s.slotName, "error", err)
		countFailure(ctx, loadMeters().persistFailures, s.slotName)
		return
	}

	if err := s.slots.Set(ctx, s.slotName, data); err != nil {
		slogctx.Error(ctx, "Failed to persist collection", "slot", s.slotName, "error", err)
		countFailure(ctx, loadMeters().persistFailures, s.slotName)
	}
}
