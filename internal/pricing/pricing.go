// Package pricing computes box totals. Every function here is pure.
package pricing

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/shopspring/decimal"
)

// fractionDigits is the most fraction digits a displayed amount keeps.
const fractionDigits = 3

var hundred = decimal.NewFromInt(100)

type Totals struct {
	Subtotal    domain.Money
	Discount    decimal.Decimal
	Total       decimal.Decimal
	HasDiscount bool
}

// Subtotal is the sum of unit price times quantity. A line too large to
// hold counts as zero, like an unreadable price, and a sum too large to
// hold is zero.
func Subtotal(items []domain.CartItem) domain.Money {
	var sum domain.Money
	for _, it := range items {
		line := it.UnitPrice().Mul(it.Quantity)
		if line > 0 && sum > math.MaxInt64-line {
			return 0
		}
		sum += line
	}
	return sum
}

// DiscountAmount is not capped at the subtotal: a fixed discount larger than
// the subtotal yields a negative total.
func DiscountAmount(subtotal domain.Money, d *domain.Discount) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	v := decimal.NewFromFloat(d.Value)
	switch d.Kind {
	case domain.DiscountPercent:
		return decimal.NewFromInt(subtotal.Int64()).Mul(v).Div(hundred)
	case domain.DiscountFixed:
		return v
	default:
		return decimal.Zero
	}
}

func Total(subtotal domain.Money, discountAmount decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(subtotal.Int64()).Sub(discountAmount)
}

func Compute(box domain.Box) Totals {
	sub := Subtotal(box.Items)
	disc := DiscountAmount(sub, box.Discount)
	return Totals{
		Subtotal:    sub,
		Discount:    disc,
		Total:       Total(sub, disc),
		HasDiscount: box.Discount != nil,
	}
}

// FormatAmount renders an amount with thousands separators and at most three
// fraction digits: 2500 -> "₦2,500", 350.5 -> "₦350.5", -1500 -> "₦-1,500".
func FormatAmount(d decimal.Decimal) string {
	s := humanize.CommafWithDigits(d.Round(fractionDigits).InexactFloat64(), fractionDigits)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return domain.CurrencySymbol + s
}
