package slotvalkey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/openkcm/storefront-client/internal/serviceerr"
	"github.com/openkcm/storefront-client/pkg/slot"
)

const objectTypeSlot = "slot"

var (
	ErrGetSlot    = errors.New("getting slot from store")
	ErrSetSlot    = errors.New("setting slot into store")
	ErrDeleteSlot = errors.New("deleting slot from store")
)

// Store keeps slots in Valkey under "<prefix>:slot:<name>".
// The prefix scopes one client (a device or a customer) so several clients can share one Valkey.
type Store struct {
	valkey valkey.Client
	prefix string
}

var _ = slot.Store(&Store{})

func NewStore(valkeyClient valkey.Client, prefix string) *Store {
	return &Store{
		valkey: valkeyClient,
		prefix: strings.TrimSuffix(prefix, ":"),
	}
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	bytes, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(s.key(name)).Build()).AsBytes()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return nil, errors.Join(ErrGetSlot, serviceerr.ErrNotFound)
		}

		return nil, errors.Join(ErrGetSlot, fmt.Errorf("executing get command: %w", err))
	}

	return bytes, nil
}

func (s *Store) Set(ctx context.Context, name string, value []byte) error {
	cmd := s.valkey.B().Set().Key(s.key(name)).Value(valkey.BinaryString(value)).Build()
	if err := s.valkey.Do(ctx, cmd).Error(); err != nil {
		return errors.Join(ErrSetSlot, fmt.Errorf("executing set command: %w", err))
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.valkey.Do(ctx, s.valkey.B().Del().Key(s.key(name)).Build()).Error(); err != nil {
		return errors.Join(ErrDeleteSlot, fmt.Errorf("executing del command: %w", err))
	}

	return nil
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return fmt.Sprintf("%s:%s", objectTypeSlot, name)
	}

	return fmt.Sprintf("%s:%s:%s", s.prefix, objectTypeSlot, name)
}
