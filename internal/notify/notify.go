// Package notify delivers short feedback messages ("toasts") to the
// customer. Toasts carry no state: once they expire they are gone.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ToastTTL is how long a toast stays on screen.
const ToastTTL = 3000 * time.Millisecond

type Toast struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Queue holds the toasts of one box until they expire.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	ttl    time.Duration
	now    func() time.Time
}

func NewQueue() *Queue {
	return &Queue{ttl: ToastTTL, now: time.Now}
}

// NewQueueWithClock is NewQueue with an injected clock.
func NewQueueWithClock(now func() time.Time) *Queue {
	return &Queue{ttl: ToastTTL, now: now}
}

func (q *Queue) Notify(message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	q.pruneLocked(now)
	q.toasts = append(q.toasts, Toast{Message: message, ExpiresAt: now.Add(q.ttl)})
}

// Active returns the toasts still on screen, oldest first, and forgets
// the expired ones.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked(q.now())
	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

// Len is the number of toasts held, expired or not.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}

// pruneLocked drops expired toasts. q.mu must be held.
func (q *Queue) pruneLocked(now time.Time) {
	live := q.toasts[:0]
	for _, t := range q.toasts {
		if now.Before(t.ExpiresAt) {
			live = append(live, t)
		}
	}
	clear(q.toasts[len(live):])
	q.toasts = live
}

// Log writes each message to the structured log.
type Log struct {
	BoxID string
}

func (l Log) Notify(message string) {
	log.Info().Str("box_id", l.BoxID).Str("toast", message).Msg("notify")
}

// Fanout delivers every message to each of its notifiers in order.
type Fanout []interface{ Notify(string) }

func (f Fanout) Notify(message string) {
	for _, n := range f {
		n.Notify(message)
	}
}
