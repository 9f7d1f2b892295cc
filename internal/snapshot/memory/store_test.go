package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	t.Parallel()

	store := NewStore()

	uri, err := store.Put(context.Background(), "listings/technology/1.html", "text/html", []byte("<html/>"))
	require.NoError(t, err)
	require.Equal(t, "memory://listings/technology/1.html", uri)
	require.Equal(t, 1, store.Len())

	data, ok := store.Get("listings/technology/1.html")
	require.True(t, ok)
	require.Equal(t, []byte("<html/>"), data)

	_, ok = store.Get("listings/technology/2.html")
	require.False(t, ok)
}

func TestStoredDataIsolation(t *testing.T) {
	t.Parallel()

	store := NewStore()
	payload := []byte("original")
	_, err := store.Put(context.Background(), "a", "text/plain", payload)
	require.NoError(t, err)

	payload[0] = 'X'
	data, ok := store.Get("a")
	require.True(t, ok)
	require.Equal(t, []byte("original"), data)
}
