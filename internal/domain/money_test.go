package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{"₦1,000", 1000},
		{"₦17,050", 17050},
		{"500", 500},
		{"₦3,999.50", 399950}, // separators are not interpreted
		{"", 0},
		{"free", 0},
		{"₦99999999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMoney(tt.in))
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "₦0", Money(0).String())
	assert.Equal(t, "₦2,500", Money(2500).String())
	assert.Equal(t, "₦17,050", Money(17050).String())
	assert.Equal(t, "₦-1,500", Money(-1500).String())
}

func TestMoney_Mul(t *testing.T) {
	assert.Equal(t, Money(2000), Money(1000).Mul(2))
	assert.Equal(t, Money(0), Money(1000).Mul(0))
}

func TestMoney_MulOverflowIsZero(t *testing.T) {
	huge := ParseMoney("₦5,000,000,000,000,000,000")
	assert.Equal(t, Money(5_000_000_000_000_000_000), huge)
	assert.Equal(t, Money(0), huge.Mul(2))
	assert.Equal(t, Money(0), Money(math.MinInt64).Mul(-1))
	assert.Equal(t, Money(math.MaxInt64), Money(math.MaxInt64).Mul(1))
}
