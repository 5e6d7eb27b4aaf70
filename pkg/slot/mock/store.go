package slotmock

import (
	"context"
	"slices"
	"sync"

	"github.com/openkcm/storefront-client/internal/serviceerr"
	"github.com/openkcm/storefront-client/pkg/slot"
)

type StoreOption func(*Store)

// Store is an in-memory slot.Store with injectable failures.
// A failure configured for the empty slot name applies to every slot.
type Store struct {
	mu     sync.Mutex
	values map[string][]byte

	getErr, setErr, deleteErr map[string]error

	sets, deletes map[string]int
}

func WithSlot(name string, value []byte) StoreOption {
	return func(s *Store) { s.values[name] = slices.Clone(value) }
}
func WithGetError(name string, err error) StoreOption {
	return func(s *Store) { s.getErr[name] = err }
}
func WithSetError(name string, err error) StoreOption {
	return func(s *Store) { s.setErr[name] = err }
}
func WithDeleteError(name string, err error) StoreOption {
	return func(s *Store) { s.deleteErr[name] = err }
}

var _ = slot.Store(&Store{})

func NewInMemStore(opts ...StoreOption) *Store {
	s := &Store{
		values:    make(map[string][]byte),
		getErr:    make(map[string]error),
		setErr:    make(map[string]error),
		deleteErr: make(map[string]error),
		sets:      make(map[string]int),
		deletes:   make(map[string]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := failure(s.getErr, name); err != nil {
		return nil, err
	}
	if v, ok := s.values[name]; ok {
		return slices.Clone(v), nil
	}
	return nil, serviceerr.ErrNotFound
}

func (s *Store) Set(_ context.Context, name string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets[name]++
	if err := failure(s.setErr, name); err != nil {
		return err
	}
	s.values[name] = slices.Clone(value)
	return nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletes[name]++
	if err := failure(s.deleteErr, name); err != nil {
		return err
	}
	delete(s.values, name)
	return nil
}

// Value returns the stored value of a slot without going through the failure injection.
func (s *Store) Value(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[name]
	return slices.Clone(v), ok
}

// SetCalls returns how often Set was called for a slot, failed calls included.
func (s *Store) SetCalls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sets[name]
}

// DeleteCalls returns how often Delete was called for a slot, failed calls included.
func (s *Store) DeleteCalls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deletes[name]
}

func failure(errs map[string]error, name string) error {
	if err, ok := errs[name]; ok {
		return err
	}
	return errs[""]
}
