package artifacts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "run-1", KindSummary, []byte("the summary"), "text/plain; charset=utf-8"))

	data, mimeType, err := store.Get(ctx, "run-1", KindSummary)
	require.NoError(t, err)
	require.Equal(t, "the summary", string(data))
	require.Equal(t, "text/plain; charset=utf-8", mimeType)
}

func TestMemoryStoreMiss(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	_, _, err := store.Get(context.Background(), "run-1", KindTranscript)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreKindsAreSeparate(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "run-1", KindSummary, []byte("summary"), "text/plain"))

	_, _, err := store.Get(ctx, "run-1", KindTranscript)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "run-1", KindSummary, []byte("summary"), "text/plain"))
	time.Sleep(30 * time.Millisecond)

	_, _, err := store.Get(ctx, "run-1", KindSummary)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIsKind(t *testing.T) {
	require.True(t, IsKind(KindSummary))
	require.True(t, IsKind(KindTranscript))
	require.False(t, IsKind("notes"))
	require.False(t, IsKind(""))
}
