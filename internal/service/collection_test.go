package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/scentsearchapp/scentsearch-server/internal/errors"
	"github.com/scentsearchapp/scentsearch-server/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func setupCollectionService(t *testing.T) *CollectionService {
	t.Helper()
	return NewCollectionService(setupStore(t), testLogger())
}

func TestCollectionService_EnsureProfile_CreatesOnce(t *testing.T) {
	svc := setupCollectionService(t)
	ctx := context.Background()

	created, err := svc.EnsureProfile(ctx, "user-1", "nose@example.com", "Nose")
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.ID)

	// A second call returns the persisted profile, not a fresh one.
	_, _, err = svc.AddToCollection(ctx, "user-1", "frag-1")
	require.NoError(t, err)

	again, err := svc.EnsureProfile(ctx, "user-1", "nose@example.com", "Nose")
	require.NoError(t, err)
	assert.Equal(t, []string{"frag-1"}, again.Collection)
}

func TestCollectionService_GetProfile_NotFound(t *testing.T) {
	svc := setupCollectionService(t)

	_, err := svc.GetProfile(context.Background(), "ghost")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestCollectionService_MutationsPersist(t *testing.T) {
	svc := setupCollectionService(t)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "user-1", "", "")
	require.NoError(t, err)

	_, changed, err := svc.AddToWishlist(ctx, "user-1", "frag-1")
	require.NoError(t, err)
	assert.True(t, changed)

	// Moving it to the collection pulls it off the wishlist, and the
	// persisted record reflects both sides of the move.
	_, changed, err = svc.AddToCollection(ctx, "user-1", "frag-1")
	require.NoError(t, err)
	assert.True(t, changed)

	profile, err := svc.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"frag-1"}, profile.Collection)
	assert.Empty(t, profile.Wishlist)
}

func TestCollectionService_NoOpMutationReportsUnchanged(t *testing.T) {
	svc := setupCollectionService(t)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "user-1", "", "")
	require.NoError(t, err)

	_, changed, err := svc.AddToCollection(ctx, "user-1", "frag-1")
	require.NoError(t, err)
	assert.True(t, changed)

	_, changed, err = svc.AddToCollection(ctx, "user-1", "frag-1")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCollectionService_MutateUnknownProfile(t *testing.T) {
	svc := setupCollectionService(t)

	_, _, err := svc.AddToCollection(context.Background(), "ghost", "frag-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestCollectionService_TopFiveFlow(t *testing.T) {
	svc := setupCollectionService(t)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "user-1", "", "")
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		_, _, err = svc.AddToCollection(ctx, "user-1", id)
		require.NoError(t, err)
	}

	_, changed, err := svc.AddToTopFive(ctx, "user-1", "a")
	require.NoError(t, err)
	assert.True(t, changed)

	// Unowned fragrances are refused without an error.
	_, changed, err = svc.AddToTopFive(ctx, "user-1", "ghost")
	require.NoError(t, err)
	assert.False(t, changed)

	profile, changed, err := svc.ReorderTopFive(ctx, "user-1", []string{"c", "a"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"c", "a"}, profile.TopFive)
}

func TestCollectionService_SetSignature(t *testing.T) {
	svc := setupCollectionService(t)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "user-1", "", "")
	require.NoError(t, err)
	_, _, err = svc.AddToCollection(ctx, "user-1", "frag-1")
	require.NoError(t, err)

	profile, changed, err := svc.SetSignature(ctx, "user-1", "frag-1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "frag-1", profile.SignatureScent)

	// Empty ID clears the signature.
	profile, changed, err = svc.SetSignature(ctx, "user-1", "")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, profile.SignatureScent)
}

func TestCollectionService_PassOnIdempotent(t *testing.T) {
	svc := setupCollectionService(t)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "user-1", "", "")
	require.NoError(t, err)

	_, changed, err := svc.PassOn(ctx, "user-1", "frag-1")
	require.NoError(t, err)
	assert.True(t, changed)

	_, changed, err = svc.PassOn(ctx, "user-1", "frag-1")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCollectionService_SeenIDs(t *testing.T) {
	svc := setupCollectionService(t)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "user-1", "", "")
	require.NoError(t, err)

	_, _, err = svc.AddToCollection(ctx, "user-1", "owned")
	require.NoError(t, err)
	_, _, err = svc.AddToWishlist(ctx, "user-1", "wanted")
	require.NoError(t, err)
	_, _, err = svc.PassOn(ctx, "user-1", "skipped")
	require.NoError(t, err)

	seen, err := svc.SeenIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"owned": true, "wanted": true, "skipped": true}, seen)
}

func TestCollectionService_UpdateDisplayName(t *testing.T) {
	svc := setupCollectionService(t)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "user-1", "", "Nose")
	require.NoError(t, err)

	profile, err := svc.UpdateDisplayName(ctx, "user-1", "Scent Hound")
	require.NoError(t, err)
	assert.Equal(t, "Scent Hound", profile.DisplayName)

	got, err := svc.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Scent Hound", got.DisplayName)
}
