// Package service keeps the live box of every active browser session.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/jazzys-box/internal/customizer"
	"github.com/fjod/jazzys-box/internal/engine"
	"github.com/fjod/jazzys-box/internal/notify"
	"github.com/fjod/jazzys-box/internal/store"
	"github.com/fjod/jazzys-box/internal/view"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheSize = 10000

var ErrEmptyBoxID = errors.New("box id is required")

// Session is everything that lives for one box while it is in use.
type Session struct {
	Engine     *engine.Engine
	Customizer *customizer.Customizer
	Toasts     *notify.Queue

	refs int // guarded by BoxService.mu
}

// View renders the current state of the box.
func (s *Session) View() view.Model {
	return view.Build(s.Engine.Snapshot(), s.Engine.Totals())
}

// BoxService hands out at most one live Session per box. A session pushed
// out of the cache while a caller still holds it is retained until
// released, so a box never has two engines writing to it.
type BoxService struct {
	store     store.Store
	observers []engine.Observer
	sfg       singleflight.Group // Prevents concurrent rehydration of one box

	// mu guards refs, retained and every cache call that can evict.
	mu       sync.Mutex
	sessions *lru.Cache[string, *Session]
	retained map[string]*Session
}

// NewBoxService keeps at most cacheSize idle boxes in memory. An evicted box
// is rehydrated from the store on its next request.
func NewBoxService(st store.Store, cacheSize int, observers ...engine.Observer) (*BoxService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	s := &BoxService{
		store:     st,
		observers: observers,
		retained:  make(map[string]*Session),
	}
	sessions, err := lru.NewWithEvict(cacheSize, s.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	s.sessions = sessions
	return s, nil
}

// onEvict runs inside cache calls made with s.mu held.
func (s *BoxService) onEvict(boxID string, sess *Session) {
	if sess.refs > 0 {
		s.retained[boxID] = sess
		log.Debug().Str("box_id", boxID).Int("refs", sess.refs).Msg("box evicted while in use, retained")
		return
	}
	log.Debug().Str("box_id", boxID).Msg("box evicted from memory")
}

// Session returns the live session for boxID, loading it from the store on
// first use. Every successful call must be paired with Release.
func (s *BoxService) Session(ctx context.Context, boxID string) (*Session, error) {
	if boxID == "" {
		return nil, ErrEmptyBoxID
	}
	if sess, ok := s.acquire(boxID, nil); ok {
		return sess, nil
	}

	v, err, _ := s.sfg.Do(boxID, func() (interface{}, error) {
		toasts := notify.NewQueue()
		opts := []engine.Option{
			engine.WithNotifier(notify.Fanout{toasts, notify.Log{BoxID: boxID}}),
		}
		for _, o := range s.observers {
			opts = append(opts, engine.WithObserver(o))
		}

		e, err := engine.New(ctx, boxID, s.store, opts...)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("box_id", boxID).Int("count", e.BadgeCount()).Msg("box rehydrated")
		return &Session{
			Engine:     e,
			Customizer: customizer.New(e),
			Toasts:     toasts,
		}, nil
	})
	if err != nil {
		log.Error().Err(err).Str("box_id", boxID).Msg("failed to load box")
		return nil, err
	}

	sess, _ := s.acquire(boxID, v.(*Session))
	return sess, nil
}

// acquire takes a reference on the registered session for boxID. When none
// is registered, loaded (if non-nil) becomes the session.
func (s *BoxService) acquire(boxID string, loaded *Session) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions.Get(boxID); ok {
		sess.refs++
		return sess, true
	}
	sess, ok := s.retained[boxID]
	if ok {
		delete(s.retained, boxID)
	} else if loaded != nil {
		sess = loaded
	} else {
		return nil, false
	}
	sess.refs++
	s.sessions.Add(boxID, sess)
	return sess, true
}

// Release gives back a session obtained from Session.
func (s *BoxService) Release(sess *Session) {
	if sess == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.refs--
	boxID := sess.Engine.ID()
	if sess.refs <= 0 && s.retained[boxID] == sess {
		delete(s.retained, boxID)
	}
}

// Forget drops the in-memory session for boxID once nobody holds it. The
// persisted box is kept.
func (s *BoxService) Forget(boxID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(boxID)
}

// Live is the number of boxes currently held in memory.
func (s *BoxService) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Len() + len(s.retained)
}
