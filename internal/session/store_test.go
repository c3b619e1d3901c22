package session

import (
	"context"
	"testing"

	"github.com/codelens-edu/codelens-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *model.User {
	return &model.User{
		ID:       "u-1",
		FullName: "Asha Nair",
		Email:    "asha@example.edu",
		Roles:    []string{"student"},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := Session{ID: "s-1", Token: "tok1", User: testUser()}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "tok1", loaded.Token)
	assert.Equal(t, sess.User, loaded.User)
	assert.True(t, loaded.IsAuthenticated())
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Session{ID: "s-1", Token: "tok1", User: testUser()}))
	require.NoError(t, store.Clear(ctx, "s-1"))

	_, err := store.Load(ctx, "s-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing again is a no-op, not an error.
	assert.NoError(t, store.Clear(ctx, "s-1"))
}

func TestMemoryStoreRejectsPartialSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, Session{ID: "s-1", Token: "tok1"}))
	assert.Error(t, store.Save(ctx, Session{ID: "s-1", User: testUser()}))

	// Neither rejected save left anything observable behind.
	_, err := store.Load(ctx, "s-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCorruptEntryIsNoSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Session{ID: "s-1", Token: "tok1", User: testUser()}))
	store.Corrupt("s-1")

	_, err := store.Load(ctx, "s-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := FromContext(ctx)
	assert.False(t, ok)

	sess := Session{ID: "s-1", Token: "tok1", User: testUser()}
	got, ok := FromContext(NewContext(ctx, sess))
	require.True(t, ok)
	assert.Equal(t, sess, got)
}
