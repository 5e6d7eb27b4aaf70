package slotfirestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/openkcm/storefront-client/internal/serviceerr"
	"github.com/openkcm/storefront-client/pkg/slot"
)

const DefaultCollection = "durable_slots"

var (
	ErrGetSlot    = errors.New("getting slot document")
	ErrSetSlot    = errors.New("setting slot document")
	ErrDeleteSlot = errors.New("deleting slot document")
)

type slotDocument struct {
	Owner     string    `firestore:"owner"`
	Name      string    `firestore:"name"`
	Value     []byte    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp"`
}

// Store keeps the slots of one owner as documents "<owner>_<name>" of a Firestore collection.
type Store struct {
	client     *firestore.Client
	collection string
	owner      string
}

var _ = slot.Store(&Store{})

type Option func(*Store)

// WithCollection overrides DefaultCollection.
func WithCollection(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.collection = name
		}
	}
}

func NewStore(client *firestore.Client, owner string, opts ...Option) *Store {
	s := &Store{
		client:     client,
		collection: DefaultCollection,
		owner:      owner,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	snap, err := s.doc(name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.Join(ErrGetSlot, serviceerr.ErrNotFound)
		}

		return nil, errors.Join(ErrGetSlot, err)
	}

	var doc slotDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Join(ErrGetSlot, fmt.Errorf("decoding document: %w", err))
	}

	return doc.Value, nil
}

func (s *Store) Set(ctx context.Context, name string, value []byte) error {
	doc := slotDocument{
		Owner: s.owner,
		Name:  name,
		Value: value,
	}
	if _, err := s.doc(name).Set(ctx, doc); err != nil {
		return errors.Join(ErrSetSlot, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.doc(name).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}

		return errors.Join(ErrDeleteSlot, err)
	}

	return nil
}

func (s *Store) doc(name string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(documentID(s.owner, name))
}

// documentID joins owner and slot name. Slashes would address a sub-collection, so they are replaced.
func documentID(owner, name string) string {
	return strings.ReplaceAll(owner+"_"+name, "/", "_")
}
