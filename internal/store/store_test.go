package store

import (
	"context"
	"testing"

	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBox() domain.Box {
	return domain.Box{
		Items: []domain.CartItem{
			{ID: "i-1", Name: "Single Beef Burger", Price: "₦17,050", Customizations: []string{"Cheese", "Onions"}, Image: "assets/burger-classic.png", Quantity: 2},
			{ID: "i-2", Name: "Pepsi (50cl)", Price: "₦2,200", Customizations: []string{}, Image: "assets/drink-pepsi.png", Quantity: 1},
		},
		Discount: &domain.Discount{Code: "JAZZY20", Kind: domain.DiscountPercent, Value: 20, Message: "20% OFF Applied!"},
	}
}

// assertRoundTrip saves through one store and loads through another that
// shares the same backing storage, as a page reload would.
func assertRoundTrip(t *testing.T, writer, reader Store) {
	t.Helper()
	ctx := context.Background()

	want := sampleBox()
	require.NoError(t, writer.Save(ctx, "box-1", want))

	got, err := reader.Load(ctx, "box-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func assertMissingIsEmpty(t *testing.T, s Store) {
	t.Helper()
	got, err := s.Load(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.Nil(t, got.Discount)
}

func assertOverwriteClearsDiscount(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "box-2", sampleBox()))
	require.NoError(t, s.Save(ctx, "box-2", domain.Box{Items: sampleBox().Items[:1]}))

	got, err := s.Load(ctx, "box-2")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Nil(t, got.Discount)
}

func TestCartKey_Format(t *testing.T) {
	assert.Equal(t, "jazzy:abc:cart", cartKey(DefaultPrefix, "abc"))
	assert.Equal(t, "jazzy:abc:discount", discountKey(DefaultPrefix, "abc"))
}
