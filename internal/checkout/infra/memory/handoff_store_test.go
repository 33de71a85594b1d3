package memory

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

func TestHandoffStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewHandoffStore()
	store.now = func() time.Time { return now }

	_, err := store.Get(ctx, "qamarCart")
	assert.True(t, errors.Is(err, checkoutapp.ErrNoHandoff))

	data := []byte(`[{"lineId":"p1|black|M"}]`)
	require.NoError(t, store.Put(ctx, "qamarCart", data, 0))
	data[0] = 'x'

	got, err := store.Get(ctx, "qamarCart")
	require.NoError(t, err)
	assert.Equal(t, byte('['), got[0], "stored bytes must not alias the caller's slice")

	require.NoError(t, store.Put(ctx, "ttl", []byte(`[]`), time.Minute))
	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "ttl")
	assert.True(t, errors.Is(err, checkoutapp.ErrNoHandoff))

	require.NoError(t, store.Delete(ctx, "qamarCart"))
	_, err = store.Get(ctx, "qamarCart")
	assert.True(t, errors.Is(err, checkoutapp.ErrNoHandoff))
}
