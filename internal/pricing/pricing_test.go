package pricing

import (
	"testing"

	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	items := []domain.CartItem{
		{Name: "Single Beef Burger", Price: "₦1,000", Quantity: 2},
		{Name: "French Fries", Price: "₦500", Quantity: 1},
	}
	assert.Equal(t, domain.Money(2500), Subtotal(items))
}

func TestSubtotal_UnparseablePriceCountsAsZero(t *testing.T) {
	items := []domain.CartItem{
		{Name: "Mystery", Price: "market price", Quantity: 3},
		{Name: "French Fries", Price: "₦500", Quantity: 1},
	}
	assert.Equal(t, domain.Money(500), Subtotal(items))
}

func TestSubtotal_Overflow(t *testing.T) {
	line := []domain.CartItem{
		{Name: "Gold Burger", Price: "₦5,000,000,000,000,000,000", Quantity: 2},
		{Name: "French Fries", Price: "₦500", Quantity: 1},
	}
	assert.Equal(t, domain.Money(500), Subtotal(line))

	sum := []domain.CartItem{
		{Name: "Gold Burger", Price: "₦5,000,000,000,000,000,000", Quantity: 1},
		{Name: "Gold Combo", Price: "₦5,000,000,000,000,000,000", Quantity: 1},
	}
	assert.Equal(t, domain.Money(0), Subtotal(sum))
}

func TestSubtotal_Empty(t *testing.T) {
	assert.Equal(t, domain.Money(0), Subtotal(nil))
}

func TestDiscountAmount_Percent(t *testing.T) {
	d := &domain.Discount{Kind: domain.DiscountPercent, Value: 20}
	amount := DiscountAmount(2500, d)
	assert.True(t, amount.Equal(decimal.NewFromInt(500)), "got %s", amount)
	assert.True(t, Total(2500, amount).Equal(decimal.NewFromInt(2000)))
}

func TestDiscountAmount_PercentKeepsFraction(t *testing.T) {
	d := &domain.Discount{Kind: domain.DiscountPercent, Value: 14}
	amount := DiscountAmount(3999, d)
	assert.True(t, amount.Equal(decimal.RequireFromString("559.86")), "got %s", amount)
}

func TestDiscountAmount_FixedExceedsSubtotal(t *testing.T) {
	d := &domain.Discount{Kind: domain.DiscountFixed, Value: 2000}
	amount := DiscountAmount(500, d)
	assert.True(t, amount.Equal(decimal.NewFromInt(2000)))
	assert.True(t, Total(500, amount).Equal(decimal.NewFromInt(-1500)))
}

func TestDiscountAmount_None(t *testing.T) {
	assert.True(t, DiscountAmount(2500, nil).IsZero())
	assert.True(t, DiscountAmount(2500, &domain.Discount{Kind: "bogus", Value: 10}).IsZero())
}

func TestCompute(t *testing.T) {
	box := domain.Box{
		Items: []domain.CartItem{
			{Price: "₦1,000", Quantity: 2},
			{Price: "₦500", Quantity: 1},
		},
		Discount: &domain.Discount{Code: "JAZZY20", Kind: domain.DiscountPercent, Value: 20},
	}
	got := Compute(box)
	assert.Equal(t, domain.Money(2500), got.Subtotal)
	assert.True(t, got.Discount.Equal(decimal.NewFromInt(500)))
	assert.True(t, got.Total.Equal(decimal.NewFromInt(2000)))
	assert.True(t, got.HasDiscount)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₦2,500", FormatAmount(decimal.NewFromInt(2500)))
	assert.Equal(t, "₦-1,500", FormatAmount(decimal.NewFromInt(-1500)))
	assert.Equal(t, "₦350.5", FormatAmount(decimal.RequireFromString("350.5")))
	assert.Equal(t, "₦0", FormatAmount(decimal.Zero))
}
