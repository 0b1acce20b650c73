package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "₦"

// Money is a whole currency amount as shown on the menu.
type Money int64

// ParseMoney keeps only the ASCII digits of a formatted price, so "₦1,000"
// and "1.000" both read as 1000. Anything without digits, or too large to
// hold, is zero.
func ParseMoney(s string) Money {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return Money(n)
}

// Mul is m times qty, or zero when the product does not fit.
func (m Money) Mul(qty int) Money {
	if m == 0 || qty == 0 {
		return 0
	}
	p := m * Money(qty)
	if p/Money(qty) != m || (qty == -1 && m == math.MinInt64) {
		return 0
	}
	return p
}

func (m Money) Int64() int64 {
	return int64(m)
}

// String renders the amount the way the box footer shows it, e.g. "₦17,050".
func (m Money) String() string {
	return CurrencySymbol + humanize.Comma(int64(m))
}
