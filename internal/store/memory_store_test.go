package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
)

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore(clock.Func(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "session:x", "agent", 30*time.Minute))
	require.NoError(t, s.Set(ctx, "defaultSacPhone", "+5511910251959", 0))

	now = now.Add(29 * time.Minute)
	got, err := s.Get(ctx, "session:x")
	require.NoError(t, err)
	assert.Equal(t, "agent", got)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "session:x")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = s.Get(ctx, "defaultSacPhone")
	require.NoError(t, err)
	assert.Equal(t, "+5511910251959", got)
}

func TestMemoryStore_ExpiryKeepsRewrittenKey(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	var beforeExpiry func()
	s := NewMemoryStore(clock.Func(func() time.Time {
		if hook := beforeExpiry; hook != nil {
			beforeExpiry = nil
			hook()
		}
		return now
	}))

	require.NoError(t, s.Set(ctx, "session:x", "old", time.Minute))
	now = now.Add(2 * time.Minute)

	// A writer lands between the expiry check and the delete.
	beforeExpiry = func() {
		require.NoError(t, s.Set(ctx, "session:x", "new", 0))
	}

	got, err := s.Get(ctx, "session:x")
	require.NoError(t, err)
	assert.Equal(t, "new", got)

	got, err = s.Get(ctx, "session:x")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestMemoryStore_JSONHelpers(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}

	require.NoError(t, SetJSON(ctx, s, "p", payload{Name: "duonn"}, 0))

	var got payload
	require.NoError(t, GetJSON(ctx, s, "p", &got))
	assert.Equal(t, "duonn", got.Name)

	err := GetJSON(ctx, s, "missing", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}
