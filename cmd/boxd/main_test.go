package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/jazzys-box/internal/config"
	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/fjod/jazzys-box/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"memory", config.Config{StoreBackend: config.BackendMemory, KeyPrefix: "jazzy"}},
		{"redis", config.Config{StoreBackend: config.BackendRedis, KeyPrefix: "jazzy", RedisAddr: mr.Addr()}},
		{"sqlite", config.Config{StoreBackend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "boxes.db")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, closeStore, err := openStore(ctx, &tt.cfg)
			require.NoError(t, err)
			defer closeStore()

			box := domain.Box{Items: []domain.CartItem{{ID: "a", Name: "Burger", Price: "₦1,000", Customizations: []string{}, Image: "b.png", Quantity: 1}}}
			require.NoError(t, st.Save(ctx, "box-1", box))

			got, err := st.Load(ctx, "box-1")
			require.NoError(t, err)
			assert.Equal(t, box, got)
		})
	}
}

func TestOpenStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := openStore(ctx, &config.Config{StoreBackend: "postgres"})
	assert.ErrorIs(t, err, store.ErrUnknownBackend)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, _, err = openStore(ctx, &config.Config{StoreBackend: config.BackendRedis, RedisAddr: addr})
	assert.ErrorContains(t, err, "redis connection failed")
}
