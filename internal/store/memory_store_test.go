package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore("")
	assertRoundTrip(t, s, s)
}

func TestMemoryStore_MissingIsEmpty(t *testing.T) {
	assertMissingIsEmpty(t, NewMemoryStore(""))
}

func TestMemoryStore_Overwrite(t *testing.T) {
	assertOverwriteClearsDiscount(t, NewMemoryStore(""))
}

func TestMemoryStore_MalformedIsEmpty(t *testing.T) {
	s := NewMemoryStore("")
	s.SetRaw("box-1", []byte(`[{"name":`), []byte(`{{`))

	got, err := s.Load(context.Background(), "box-1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.Nil(t, got.Discount)
}

func TestMemoryStore_SavedStateIsNotAliased(t *testing.T) {
	s := NewMemoryStore("")
	box := sampleBox()
	require.NoError(t, s.Save(context.Background(), "box-1", box))

	box.Items[0].Quantity = 99
	got, err := s.Load(context.Background(), "box-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := NewMemoryStore("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Save(ctx, "box-1", sampleBox()), context.Canceled)
	_, err := s.Load(ctx, "box-1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.Len())
}
