package view

import (
	"bytes"
	"testing"

	"github.com/fjod/jazzys-box/internal/discount"
	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/fjod/jazzys-box/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxWith(items ...domain.CartItem) domain.Box {
	return domain.Box{Items: items}
}

func build(box domain.Box) Model {
	return Build(box, pricing.Compute(box))
}

func TestBuild_EmptyBox(t *testing.T) {
	m := build(domain.Box{})

	assert.True(t, m.Empty)
	assert.Equal(t, 0, m.BadgeCount)
	assert.Empty(t, m.Lines)
	assert.Nil(t, m.Footer)
	require.Len(t, m.Recommended, 3)
	assert.Equal(t, "Single Beef Burger", m.Recommended[0].Name)
}

func TestBuild_Lines(t *testing.T) {
	box := boxWith(
		domain.CartItem{ID: "a", Name: "Burger", Price: "₦1,000", Image: "b.png", Quantity: 2, Customizations: []string{"Onions", "Cheese"}},
		domain.CartItem{ID: "b", Name: "Fries", Price: "₦500", Image: "f.png", Quantity: 1},
	)
	m := build(box)

	assert.False(t, m.Empty)
	assert.Equal(t, 3, m.BadgeCount)
	assert.Empty(t, m.Recommended)
	require.Len(t, m.Lines, 2)

	assert.Equal(t, "a", m.Lines[0].ID)
	assert.Equal(t, 0, m.Lines[0].Index)
	assert.Equal(t, []string{"- No Onions", "- No Cheese"}, m.Lines[0].Notes())
	assert.Equal(t, 1, m.Lines[1].Index)
	assert.Equal(t, []string{}, m.Lines[1].Customizations)
	assert.Empty(t, m.Lines[1].Notes())

	require.NotNil(t, m.Footer)
	assert.Equal(t, "₦2,500", m.Footer.Subtotal)
	assert.Equal(t, "₦2,500", m.Footer.Total)
	assert.Empty(t, m.Footer.Discount)
	assert.Nil(t, m.Footer.Badge)
}

func TestBuild_WithDiscount(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		price    string
		discount string
		total    string
	}{
		{name: "percent", code: "JAZZY20", price: "₦2,500", discount: "-₦500", total: "₦2,000"},
		{name: "fixed exceeding subtotal", code: "FIRSTORDER", price: "₦500", discount: "-₦2,000", total: "₦-1,500"},
		{name: "fractional percent", code: "CUPIDSZN", price: "₦3,999", discount: "-₦559.86", total: "₦3,439.14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := discount.Lookup(tt.code)
			require.True(t, ok)
			box := boxWith(domain.CartItem{ID: "a", Name: "X", Price: tt.price, Quantity: 1})
			box.Discount = &d

			m := build(box)
			require.NotNil(t, m.Footer)
			require.NotNil(t, m.Footer.Badge)
			assert.Equal(t, tt.code, m.Footer.Badge.Code)
			assert.Equal(t, d.Message, m.Footer.Badge.Message)
			assert.Equal(t, tt.discount, m.Footer.Discount)
			assert.Equal(t, tt.total, m.Footer.Total)
		})
	}
}

func TestRender_EmptyBox(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, build(domain.Box{})))

	out := buf.String()
	assert.Contains(t, out, "Your box is looking a bit light.")
	assert.Contains(t, out, "Pepsi (50cl)")
	assert.NotContains(t, out, "cart-footer")
}

func TestRender_ActiveBox(t *testing.T) {
	d, _ := discount.Lookup("JAZZY20")
	box := boxWith(domain.CartItem{ID: "a", Name: "Burger", Price: "₦1,000", Image: "b.png", Quantity: 2, Customizations: []string{"Onions", "Cheese"}})
	box.Discount = &d

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, build(box)))

	out := buf.String()
	assert.Contains(t, out, `data-id="a"`)
	assert.Contains(t, out, "- No Onions<br>- No Cheese")
	assert.Contains(t, out, `<span class="stepper__count">2</span>`)
	assert.Contains(t, out, "20% OFF Applied!")
	assert.Contains(t, out, "-₦400")
	assert.Contains(t, out, "₦1,600")
	assert.NotContains(t, out, "Have a discount code?")
}

func TestRender_EscapesNames(t *testing.T) {
	box := boxWith(domain.CartItem{ID: "a", Name: "<script>x</script>", Price: "₦1", Quantity: 1})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, build(box)))
	assert.NotContains(t, buf.String(), "<script>x</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}
