package store

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/rs/zerolog/log"
)

// EncodeCart serializes the cart lines as the JSON array the site has always
// stored: {id, name, price, customizations, img, quantity}.
func EncodeCart(items []domain.CartItem) ([]byte, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	out := make([]domain.CartItem, len(items))
	for i, it := range items {
		if it.Customizations == nil {
			it.Customizations = []string{}
		}
		out[i] = it
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// DecodeCart never fails: absent or unreadable data is an empty cart, and
// lines without a positive quantity are dropped.
func DecodeCart(data []byte) []domain.CartItem {
	if len(data) == 0 {
		return nil
	}
	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Debug().Err(err).Msg("discarding unreadable cart state")
		return nil
	}
	return normalizeItems(items)
}

func normalizeItems(items []domain.CartItem) []domain.CartItem {
	var out []domain.CartItem
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if it.Customizations == nil {
			it.Customizations = []string{}
		}
		out = append(out, it)
	}
	return out
}

// EncodeDiscount writes null when no discount is active.
func EncodeDiscount(d *domain.Discount) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal discount failed: %w", err)
	}
	return data, nil
}

// DecodeDiscount treats null, garbage and unknown kinds as no discount.
func DecodeDiscount(data []byte) *domain.Discount {
	if len(data) == 0 {
		return nil
	}
	var d *domain.Discount
	if err := json.Unmarshal(data, &d); err != nil {
		log.Debug().Err(err).Msg("discarding unreadable discount state")
		return nil
	}
	return validDiscount(d)
}

func validDiscount(d *domain.Discount) *domain.Discount {
	if d == nil {
		return nil
	}
	if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) || d.Value < 0 {
		log.Debug().Float64("value", d.Value).Msg("discarding discount with invalid value")
		return nil
	}
	switch d.Kind {
	case domain.DiscountPercent:
		if d.Value > 100 {
			log.Debug().Float64("value", d.Value).Msg("discarding percent discount above 100")
			return nil
		}
	case domain.DiscountFixed:
	default:
		log.Debug().Str("type", string(d.Kind)).Msg("discarding discount of unknown type")
		return nil
	}
	return d
}

func decodeBox(cart, discount []byte) domain.Box {
	return domain.Box{
		Items:    DecodeCart(cart),
		Discount: DecodeDiscount(discount),
	}
}

func encodeBox(box domain.Box) (cart, discount []byte, err error) {
	cart, err = EncodeCart(box.Items)
	if err != nil {
		return nil, nil, err
	}
	discount, err = EncodeDiscount(box.Discount)
	if err != nil {
		return nil, nil, err
	}
	return cart, discount, nil
}
