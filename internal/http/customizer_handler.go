package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/fjod/jazzys-box/internal/customizer"
)

type OpenCustomizerRequestDTO struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Image    string `json:"img"`
}

type ToggleRequestDTO struct {
	Ingredient string `json:"ingredient"`
}

type IngredientDTO struct {
	Name    string `json:"name"`
	Removed bool   `json:"removed"`
}

type CustomizerResponse struct {
	ProductName string          `json:"product_name"`
	BasePrice   string          `json:"base_price"`
	Category    string          `json:"category"`
	Image       string          `json:"img"`
	Ingredients []IngredientDTO `json:"ingredients"`
	Removed     []string        `json:"removed"`
}

func toCustomizerResponse(s *customizer.Session) CustomizerResponse {
	resp := CustomizerResponse{
		ProductName: s.ProductName,
		BasePrice:   s.BasePrice,
		Category:    s.Category,
		Image:       s.Image,
		Ingredients: make([]IngredientDTO, 0, len(s.Available)),
		Removed:     s.Removed(),
	}
	for _, ing := range s.Available {
		resp.Ingredients = append(resp.Ingredients, IngredientDTO{Name: ing, Removed: s.IsRemoved(ing)})
	}
	return resp
}

// OpenCustomizer opens the drawer for a product. Products that need no
// customizing are added straight away and answered with 201.
func (h *BoxHandler) OpenCustomizer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req OpenCustomizerRequestDTO
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

	cs, item, err := sess.Customizer.Open(ctx, req.Name, req.Price, req.Category, req.Image)
	if err != nil {
		handleBoxError(w, r, err)
		return
	}
	if cs == nil {
		respondJSON(w, http.StatusCreated, ItemResponse{Item: *item, Box: sess.View()})
		return
	}
	respondJSON(w, http.StatusOK, toCustomizerResponse(cs))
}

func (h *BoxHandler) GetCustomizer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	cs := sess.Customizer.Current()
	if cs == nil {
		handleBoxError(w, r, customizer.ErrNoSession)
		return
	}
	respondJSON(w, http.StatusOK, toCustomizerResponse(cs))
}

func (h *BoxHandler) ToggleIngredient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ToggleRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	if _, err := sess.Customizer.Toggle(req.Ingredient); err != nil {
		handleBoxError(w, r, err)
		return
	}
	cs := sess.Customizer.Current()
	if cs == nil {
		handleBoxError(w, r, customizer.ErrNoSession)
		return
	}
	respondJSON(w, http.StatusOK, toCustomizerResponse(cs))
}

func (h *BoxHandler) CommitCustomizer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	item, err := sess.Customizer.Commit(ctx)
	if err != nil {
		handleBoxError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, ItemResponse{Item: item, Box: sess.View()})
}

func (h *BoxHandler) CancelCustomizer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, ok := h.session(ctx, w, r)
	if !ok {
		return
	}
	defer h.sessions.Release(sess)

	sess.Customizer.Cancel()
	w.WriteHeader(http.StatusNoContent)
}
