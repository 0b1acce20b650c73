// Package customizer implements the "skip the..." drawer: the customer
// picks ingredients to leave out before the product goes into the box.
package customizer

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/fjod/jazzys-box/internal/menu"
)

var ErrNoSession = errors.New("no product is being customized")

// Adder is the part of the box engine the customizer commits to.
type Adder interface {
	Add(ctx context.Context, name, price string, customizations []string, image string) (domain.CartItem, error)
}

// Session is the state of one open customizer drawer.
type Session struct {
	ProductName string
	BasePrice   string
	Category    string
	Image       string
	Available   []string
	removed     map[string]bool
}

// Toggle flips whether ingredient is left out and reports whether it is now
// removed. Ingredients the product does not have are ignored.
func (s *Session) Toggle(ingredient string) bool {
	if !slices.Contains(s.Available, ingredient) {
		return false
	}
	s.removed[ingredient] = !s.removed[ingredient]
	return s.removed[ingredient]
}

func (s *Session) IsRemoved(ingredient string) bool {
	return s.removed[ingredient]
}

// Removed lists the left-out ingredients in the order the drawer shows
// them, whatever order they were tapped in.
func (s *Session) Removed() []string {
	out := []string{}
	for _, ing := range s.Available {
		if s.removed[ing] {
			out = append(out, ing)
		}
	}
	return out
}

func (s *Session) clone() *Session {
	c := *s
	c.Available = slices.Clone(s.Available)
	c.removed = make(map[string]bool, len(s.removed))
	for k, v := range s.removed {
		c.removed[k] = v
	}
	return &c
}

// Customizer holds at most one open session for a box.
type Customizer struct {
	mu      sync.Mutex
	box     Adder
	session *Session
}

func New(box Adder) *Customizer {
	return &Customizer{box: box}
}

// Open starts customizing a product. Drinks and sides other than nuggets
// skip the drawer and go straight into the box; Open then returns a nil
// session and the added item. Opening replaces any session left open.
func (c *Customizer) Open(ctx context.Context, name, price, category, image string) (*Session, *domain.CartItem, error) {
	if menu.IsSimple(name, category) {
		item, err := c.box.Add(ctx, name, price, []string{}, image)
		if err != nil {
			return nil, nil, err
		}
		return nil, &item, nil
	}

	s := &Session{
		ProductName: name,
		BasePrice:   price,
		Category:    category,
		Image:       image,
		Available:   menu.Ingredients(category),
		removed:     make(map[string]bool),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
	return s.clone(), nil, nil
}

// Current returns a copy of the open session, or nil.
func (c *Customizer) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.clone()
}

// Toggle flips an ingredient in the open session.
func (c *Customizer) Toggle(ingredient string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return false, ErrNoSession
	}
	return c.session.Toggle(ingredient), nil
}

// Commit adds the product with its removals to the box and closes the
// session. If the add fails the session stays open.
func (c *Customizer) Commit(ctx context.Context) (domain.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return domain.CartItem{}, ErrNoSession
	}

	s := c.session
	item, err := c.box.Add(ctx, s.ProductName, s.BasePrice, s.Removed(), s.Image)
	if err != nil {
		return domain.CartItem{}, err
	}
	c.session = nil
	return item, nil
}

// Cancel closes the session without touching the box.
func (c *Customizer) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
}
