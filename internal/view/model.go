// Package view turns a box into what the drawer shows. Build produces a
// typed model that the JSON API returns as is; Render draws it as HTML.
package view

import (
	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/fjod/jazzys-box/internal/menu"
	"github.com/fjod/jazzys-box/internal/pricing"
)

type Line struct {
	ID             string   `json:"id"`
	Index          int      `json:"index"`
	Name           string   `json:"name"`
	Price          string   `json:"price"`
	Image          string   `json:"img"`
	Quantity       int      `json:"quantity"`
	Customizations []string `json:"customizations"`
}

// Notes lists the customization text shown under a line, one per removed
// ingredient.
func (l Line) Notes() []string {
	out := make([]string, len(l.Customizations))
	for i, c := range l.Customizations {
		out[i] = "- No " + c
	}
	return out
}

type DiscountBadge struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Footer struct {
	Subtotal string         `json:"subtotal"`
	Discount string         `json:"discount,omitempty"`
	Total    string         `json:"total"`
	Badge    *DiscountBadge `json:"badge,omitempty"`
}

type Model struct {
	Empty       bool                  `json:"empty"`
	BadgeCount  int                   `json:"badge_count"`
	Lines       []Line                `json:"lines"`
	Recommended []menu.Recommendation `json:"recommended,omitempty"`
	// Footer is nil while the box is empty.
	Footer *Footer `json:"footer,omitempty"`
}

// Build is a pure function of the box and its totals.
func Build(box domain.Box, totals pricing.Totals) Model {
	m := Model{
		Empty:      box.IsEmpty(),
		BadgeCount: box.Count(),
		Lines:      make([]Line, 0, len(box.Items)),
	}

	if m.Empty {
		m.Recommended = menu.Recommended()
		return m
	}

	for i, it := range box.Items {
		custom := it.Customizations
		if custom == nil {
			custom = []string{}
		}
		m.Lines = append(m.Lines, Line{
			ID:             it.ID,
			Index:          i,
			Name:           it.Name,
			Price:          it.Price,
			Image:          it.Image,
			Quantity:       it.Quantity,
			Customizations: custom,
		})
	}

	m.Footer = &Footer{
		Subtotal: totals.Subtotal.String(),
		Total:    pricing.FormatAmount(totals.Total),
	}
	if box.Discount != nil {
		m.Footer.Discount = "-" + pricing.FormatAmount(totals.Discount)
		m.Footer.Badge = &DiscountBadge{Code: box.Discount.Code, Message: box.Discount.Message}
	}
	return m
}
