package pebble_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fasmat/merk/merkstore"
	"github.com/fasmat/merk/merkstore/pebble"
)

func TestStoreRoundTripsEncodedNodes(t *testing.T) {
	t.Parallel()

	store, err := pebble.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	encoded := merkstore.EncodeNode([]byte("value-a"), nil, nil)
	require.NoError(t, store.Put([]byte("a"), encoded))

	it, err := store.NewIterator()
	require.NoError(t, err)
	defer it.(interface{ Close() error }).Close()

	require.True(t, it.Valid())
	require.Equal(t, []byte("a"), it.Key())

	decoded, err := merkstore.Decode(it.Value())
	require.NoError(t, err)
	require.Equal(t, []byte("value-a"), decoded.Value())

	it.Next()
	require.False(t, it.Valid())
}

func TestStoreIteratesInKeyOrder(t *testing.T) {
	t.Parallel()

	store, err := pebble.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	for _, k := range []string{"c", "a", "b"} {
		require.NoError(t, store.Put([]byte(k), merkstore.EncodeNode([]byte(k), nil, nil)))
	}

	it, err := store.NewIterator()
	require.NoError(t, err)
	defer it.(interface{ Close() error }).Close()

	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestEmptyStoreIteratorIsInvalid(t *testing.T) {
	t.Parallel()

	store, err := pebble.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	it, err := store.NewIterator()
	require.NoError(t, err)
	defer it.(interface{ Close() error }).Close()

	require.False(t, it.Valid())
}
