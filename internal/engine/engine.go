// Package engine owns the state of one box and is the only place it is
// mutated. Every mutation is persisted before observers hear about it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fjod/jazzys-box/internal/discount"
	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/fjod/jazzys-box/internal/pricing"
	"github.com/fjod/jazzys-box/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrItemNotFound    = errors.New("item not found in box")
	ErrIndexOutOfRange = errors.New("item index out of range")
	ErrInvalidCode     = errors.New("invalid promo code")
)

// Toast texts shown to the customer.
const (
	MsgPromoApplied = "Promo code applied!"
	MsgPromoInvalid = "Invalid promo code"
	MsgPromoRemoved = "Promo code removed"
	MsgBoxCleared   = "Box emptied"
)

// Notifier shows short-lived feedback to the customer.
type Notifier interface {
	Notify(message string)
}

// Observer is told about every mutation once it is durable. Observers run
// while the engine is locked and must not call back into it.
type Observer interface {
	Observe(ev domain.Event)
}

type ObserverFunc func(ev domain.Event)

func (f ObserverFunc) Observe(ev domain.Event) { f(ev) }

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type Engine struct {
	mu        sync.Mutex
	id        string
	box       domain.Box
	store     store.Store
	notifier  Notifier
	observers []Observer
	newID     func() string
	now       func() time.Time
}

type Option func(*Engine)

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New rehydrates the box stored under id. Lines saved before items carried
// ids are given one, and the result is written back so the ids stay stable.
func New(ctx context.Context, id string, st store.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		id:       id,
		store:    st,
		notifier: nopNotifier{},
		newID:    func() string { return uuid.New().String() },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	box, err := st.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load box: %w", err)
	}
	e.box = box

	assigned := false
	for i := range e.box.Items {
		if e.box.Items[i].ID == "" {
			e.box.Items[i].ID = e.newID()
			assigned = true
		}
	}
	if assigned {
		if err := st.Save(ctx, id, e.box); err != nil {
			log.Warn().Err(err).Str("box_id", id).Msg("could not persist assigned item ids")
		}
	}
	return e, nil
}

func (e *Engine) ID() string {
	return e.id
}

// Add puts one unit of the product into the box. A line with the same name
// and the same removals in the same order gains a unit and keeps its
// original price and image; anything else becomes a new line at the end.
func (e *Engine) Add(ctx context.Context, name, price string, customizations []string, image string) (domain.CartItem, error) {
	if image == "" {
		image = domain.DefaultImage
	}
	customizations = slices.Clone(customizations)
	if customizations == nil {
		customizations = []string{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.box.Clone()
	idx := slices.IndexFunc(e.box.Items, func(it domain.CartItem) bool {
		return it.Matches(name, customizations)
	})
	if idx >= 0 {
		e.box.Items[idx].Quantity++
	} else {
		e.box.Items = append(e.box.Items, domain.CartItem{
			ID:             e.newID(),
			Name:           name,
			Price:          price,
			Customizations: customizations,
			Image:          image,
			Quantity:       1,
		})
		idx = len(e.box.Items) - 1
	}

	if err := e.save(ctx, prev); err != nil {
		return domain.CartItem{}, err
	}

	item := e.box.Items[idx]
	e.emit(domain.Event{Type: domain.EventItemAdded, ItemID: item.ID, Name: item.Name, Quantity: item.Quantity})
	e.notifier.Notify(fmt.Sprintf("%s added to box!", name))

	item.Customizations = slices.Clone(item.Customizations)
	return item, nil
}

// UpdateQuantity changes the quantity of the line with itemID by delta and
// returns the new quantity. A line that drops to zero or below is removed
// and 0 is returned.
func (e *Engine) UpdateQuantity(ctx context.Context, itemID string, delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := slices.IndexFunc(e.box.Items, func(it domain.CartItem) bool { return it.ID == itemID })
	if idx < 0 {
		return 0, ErrItemNotFound
	}
	return e.updateAt(ctx, idx, delta)
}

// UpdateQuantityAt is UpdateQuantity addressed by position in the current
// box. Positions shift when a line is removed.
func (e *Engine) UpdateQuantityAt(ctx context.Context, index, delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.box.Items) {
		return 0, ErrIndexOutOfRange
	}
	return e.updateAt(ctx, index, delta)
}

// RemoveItem drops the whole line regardless of its quantity.
func (e *Engine) RemoveItem(ctx context.Context, itemID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := slices.IndexFunc(e.box.Items, func(it domain.CartItem) bool { return it.ID == itemID })
	if idx < 0 {
		return ErrItemNotFound
	}
	_, err := e.updateAt(ctx, idx, -e.box.Items[idx].Quantity)
	return err
}

func (e *Engine) updateAt(ctx context.Context, idx, delta int) (int, error) {
	prev := e.box.Clone()
	item := e.box.Items[idx]
	item.Quantity += delta

	ev := domain.Event{ItemID: item.ID, Name: item.Name, Quantity: item.Quantity}
	if item.Quantity <= 0 {
		e.box.Items = slices.Delete(e.box.Items, idx, idx+1)
		ev.Type = domain.EventItemRemoved
		ev.Quantity = 0
	} else {
		e.box.Items[idx] = item
		ev.Type = domain.EventQuantityChanged
	}

	if err := e.save(ctx, prev); err != nil {
		return 0, err
	}
	e.emit(ev)
	return ev.Quantity, nil
}

// ApplyDiscount activates the promo code, replacing any active one. An
// unknown code leaves the box untouched and returns ErrInvalidCode.
func (e *Engine) ApplyDiscount(ctx context.Context, code string) (domain.Discount, error) {
	d, ok := discount.Lookup(code)
	if !ok {
		log.Debug().Str("box_id", e.id).Str("code", discount.Normalize(code)).Msg("rejected promo code")
		e.notifier.Notify(MsgPromoInvalid)
		return domain.Discount{}, ErrInvalidCode
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.box.Clone()
	active := d
	e.box.Discount = &active
	if err := e.save(ctx, prev); err != nil {
		return domain.Discount{}, err
	}

	e.emit(domain.Event{Type: domain.EventDiscountApplied, Code: d.Code})
	e.notifier.Notify(MsgPromoApplied)
	return d, nil
}

func (e *Engine) RemoveDiscount(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.box.Clone()
	e.box.Discount = nil
	if err := e.save(ctx, prev); err != nil {
		return err
	}

	code := ""
	if prev.Discount != nil {
		code = prev.Discount.Code
	}
	e.emit(domain.Event{Type: domain.EventDiscountRemoved, Code: code})
	e.notifier.Notify(MsgPromoRemoved)
	return nil
}

// Clear empties the box and drops the discount.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.box.Clone()
	e.box = domain.Box{}
	if err := e.save(ctx, prev); err != nil {
		return err
	}

	e.emit(domain.Event{Type: domain.EventBoxCleared})
	e.notifier.Notify(MsgBoxCleared)
	return nil
}

// Snapshot returns a copy of the current box.
func (e *Engine) Snapshot() domain.Box {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.box.Clone()
}

func (e *Engine) Totals() pricing.Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return pricing.Compute(e.box)
}

// BadgeCount is the number shown on the header cart icon.
func (e *Engine) BadgeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.box.Count()
}

// save persists the current box, restoring prev if the write fails.
func (e *Engine) save(ctx context.Context, prev domain.Box) error {
	if err := e.store.Save(ctx, e.id, e.box); err != nil {
		e.box = prev
		log.Error().Err(err).Str("box_id", e.id).Msg("failed to persist box")
		return fmt.Errorf("failed to persist box: %w", err)
	}
	return nil
}

func (e *Engine) emit(ev domain.Event) {
	ev.BoxID = e.id
	ev.Count = e.box.Count()
	ev.At = e.now()
	for _, o := range e.observers {
		o.Observe(ev)
	}
}
