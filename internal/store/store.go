package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/jazzys-box/internal/domain"
)

// DefaultPrefix namespaces persisted keys, after the site's local storage
// jazzy_cart / jazzy_discount entries.
const DefaultPrefix = "jazzy"

var ErrUnknownBackend = errors.New("unknown store backend")

// Store persists the state of a box between page loads.
// Consumers define this interface, the backends only implement it.
type Store interface {
	// Load returns the saved box. Missing or unreadable state is an empty
	// box, not an error; errors are reserved for the backend being unreachable.
	Load(ctx context.Context, boxID string) (domain.Box, error)

	// Save writes the cart and the discount together: either both are
	// stored or neither is.
	Save(ctx context.Context, boxID string, box domain.Box) error
}

func cartKey(prefix, boxID string) string {
	return fmt.Sprintf("%s:%s:cart", prefix, boxID)
}

func discountKey(prefix, boxID string) string {
	return fmt.Sprintf("%s:%s:discount", prefix, boxID)
}
