// Package discount holds the fixed table of promo codes.
package discount

import (
	"sort"
	"strings"

	"github.com/fjod/jazzys-box/internal/domain"
)

var codes = map[string]domain.Discount{
	"JAZZY20":    {Code: "JAZZY20", Kind: domain.DiscountPercent, Value: 20, Message: "20% OFF Applied!"},
	"DONJAZZY":   {Code: "DONJAZZY", Kind: domain.DiscountPercent, Value: 50, Message: "50% VIP Discount Applied!"},
	"FIRSTORDER": {Code: "FIRSTORDER", Kind: domain.DiscountFixed, Value: 2000, Message: "₦2,000 OFF Applied!"},
	"LOVN100":    {Code: "LOVN100", Kind: domain.DiscountFixed, Value: 1000, Message: "₦1,000 Love Discount Applied!"},
	"CUPIDSZN":   {Code: "CUPIDSZN", Kind: domain.DiscountPercent, Value: 14, Message: "14% Cupid Season Applied!"},
}

// Normalize trims surrounding whitespace and upper-cases a typed code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup resolves a code as typed by the customer.
func Lookup(code string) (domain.Discount, bool) {
	d, ok := codes[Normalize(code)]
	return d, ok
}

// Codes lists the registered codes in alphabetical order.
func Codes() []string {
	out := make([]string, 0, len(codes))
	for c := range codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
