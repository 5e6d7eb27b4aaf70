package slotmemory

import (
	"context"
	"fmt"
	"slices"

	"github.com/patrickmn/go-cache"

	"github.com/openkcm/storefront-client/internal/serviceerr"
	"github.com/openkcm/storefront-client/pkg/slot"
)

// Store keeps slots in process memory. Slots never expire.
type Store struct {
	cache *cache.Cache
}

var _ = slot.Store(&Store{})

func NewStore() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (s *Store) Get(_ context.Context, name string) ([]byte, error) {
	v, ok := s.cache.Get(name)
	if !ok {
		return nil, fmt.Errorf("getting slot %s: %w", name, serviceerr.ErrNotFound)
	}

	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("slot %s holds %T", name, v)
	}

	return slices.Clone(b), nil
}

func (s *Store) Set(_ context.Context, name string, value []byte) error {
	s.cache.Set(name, slices.Clone(value), cache.NoExpiration)
	return nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	s.cache.Delete(name)
	return nil
}
