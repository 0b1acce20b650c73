package store

import (
	"context"
	"sync"

	"github.com/fjod/jazzys-box/internal/domain"
)

type entry struct {
	cart     []byte
	discount []byte
}

// MemoryStore implements Store in process memory. It keeps the encoded form
// so it behaves like the durable backends.
type MemoryStore struct {
	mu      sync.RWMutex
	prefix  string
	entries map[string]entry // cart key -> encoded state
}

func NewMemoryStore(prefix string) *MemoryStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &MemoryStore{
		prefix:  prefix,
		entries: make(map[string]entry),
	}
}

func (s *MemoryStore) Load(ctx context.Context, boxID string) (domain.Box, error) {
	if err := ctx.Err(); err != nil {
		return domain.Box{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[cartKey(s.prefix, boxID)]
	if !ok {
		return domain.Box{}, nil
	}
	return decodeBox(e.cart, e.discount), nil
}

func (s *MemoryStore) Save(ctx context.Context, boxID string, box domain.Box) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cart, discount, err := encodeBox(box)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[cartKey(s.prefix, boxID)] = entry{cart: cart, discount: discount}
	return nil
}

// SetRaw stores already-encoded state, bypassing the codec.
func (s *MemoryStore) SetRaw(boxID string, cart, discount []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[cartKey(s.prefix, boxID)] = entry{cart: cart, discount: discount}
}

// Len is the number of boxes held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
