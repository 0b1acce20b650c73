package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// NewRouter mounts the box API under /api/v1/box. Request bodies larger
// than maxBodySize are rejected with 413.
func NewRouter(h *BoxHandler, requestTimeout time.Duration, maxBodySize int64) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(middleware.RequestSize(maxBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/box", func(r chi.Router) {
		r.Use(SessionMiddleware)

		r.Get("/", h.GetBox)
		r.Delete("/", h.ClearBox)
		r.Get("/drawer", h.GetDrawer)
		r.Get("/toasts", h.GetToasts)

		r.Post("/items", h.AddItem)
		r.Patch("/items/{item_id}", h.UpdateQuantity)
		r.Delete("/items/{item_id}", h.RemoveItem)
		r.Patch("/lines/{index}", h.UpdateQuantityAt)

		r.Post("/discount", h.ApplyDiscount)
		r.Delete("/discount", h.RemoveDiscount)

		r.Route("/customizer", func(r chi.Router) {
			r.Get("/", h.GetCustomizer)
			r.Post("/", h.OpenCustomizer)
			r.Delete("/", h.CancelCustomizer)
			r.Post("/toggle", h.ToggleIngredient)
			r.Post("/commit", h.CommitCustomizer)
		})
	})

	return r
}
