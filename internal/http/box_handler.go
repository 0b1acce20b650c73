package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/fjod/jazzys-box/internal/notify"
	"github.com/fjod/jazzys-box/internal/service"
	"github.com/fjod/jazzys-box/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Sessions resolves the live box of a browser session. Every session
// handed out is released when the request is done with it.
type Sessions interface {
	Session(ctx context.Context, boxID string) (*service.Session, error)
	Release(sess *service.Session)
}

type BoxHandler struct {
	sessions Sessions
	timeout  time.Duration
}

func NewBoxHandler(sessions Sessions, timeout time.Duration) *BoxHandler {
	return &BoxHandler{
		sessions: sessions,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	Name           string   `json:"name"`
	Price          string   `json:"price"`
	Customizations []string `json:"customizations"`
	Image          string   `json:"img"`
}

type UpdateQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type ApplyDiscountRequestDTO struct {
	Code string `json:"code"`
}

type ItemResponse struct {
	Item domain.CartItem `json:"item"`
	Box  view.Model      `json:"box"`
}

type QuantityResponse struct {
	Quantity int        `json:"quantity"`
	Box      view.Model `json:"box"`
}

type DiscountResponse struct {
	Discount domain.Discount `json:"discount"`
	Box      view.Model      `json:"box"`
}

type ToastsResponse struct {
	Toasts []notify.Toast `json:"toasts"`
}

// session resolves the caller's box, writing the error response itself
// when it cannot.
func (h *BoxHandler) session(ctx context.Context, w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	sess, err := h.sessions.Session(ctx, getBoxIDFromContext(r.Context()))
	if err != nil {
		handleBoxError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (h *BoxHandler) GetBox(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)
	respondJSON(w, http.StatusOK, sess.View())
}

func (h *BoxHandler) GetDrawer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Render(w, sess.View()); err != nil {
		log.Error().Err(err).Str("box_id", sess.Engine.ID()).Msg("failed to render drawer")
	}
}

func (h *BoxHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	item, err := sess.Engine.Add(ctx, req.Name, req.Price, req.Customizations, req.Image)
	if err != nil {
		handleBoxError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, ItemResponse{Item: item, Box: sess.View()})
}

func (h *BoxHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	qty, err := sess.Engine.UpdateQuantity(ctx, itemID, req.Delta)
	if err != nil {
		handleBoxError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, QuantityResponse{Quantity: qty, Box: sess.View()})
}

// UpdateQuantityAt addresses the line by its position in the box.
func (h *BoxHandler) UpdateQuantityAt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_index", "index must be an integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	qty, err := sess.Engine.UpdateQuantityAt(ctx, index, req.Delta)
	if err != nil {
		handleBoxError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, QuantityResponse{Quantity: qty, Box: sess.View()})
}

func (h *BoxHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	if err := sess.Engine.RemoveItem(ctx, itemID); err != nil {
		handleBoxError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}

func (h *BoxHandler) ClearBox(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	if err := sess.Engine.Clear(ctx); err != nil {
		handleBoxError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}

func (h *BoxHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ApplyDiscountRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	d, err := sess.Engine.ApplyDiscount(ctx, req.Code)
	if err != nil {
		handleBoxError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, DiscountResponse{Discount: d, Box: sess.View()})
}

func (h *BoxHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	if err := sess.Engine.RemoveDiscount(ctx); err != nil {
		handleBoxError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}

func (h *BoxHandler) GetToasts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)
	respondJSON(w, http.StatusOK, ToastsResponse{Toasts: sess.Toasts.Active()})
}
