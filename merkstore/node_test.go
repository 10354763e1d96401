package merkstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fasmat/merk/merkhash"
	"github.com/fasmat/merk/merkstore"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	left := &merkstore.Link{Key: []byte("left-key"), Hash: merkhash.Hash{1, 2, 3}}
	right := &merkstore.Link{Key: []byte("right-key"), Hash: merkhash.Hash{4, 5, 6}}

	encoded := merkstore.EncodeNode([]byte("value"), left, right)
	decoded, err := merkstore.Decode(encoded)
	require.NoError(t, err)

	require.Equal(t, []byte("value"), decoded.Value())
	require.Equal(t, left.Key, decoded.NodeLink(true).ChildKey())
	require.Equal(t, right.Key, decoded.NodeLink(false).ChildKey())
}

func TestEncodeDecodeMissingLinks(t *testing.T) {
	t.Parallel()

	encoded := merkstore.EncodeNode([]byte("leaf"), nil, nil)
	decoded, err := merkstore.Decode(encoded)
	require.NoError(t, err)

	require.Equal(t, []byte("leaf"), decoded.Value())
	require.Nil(t, decoded.NodeLink(true))
	require.Nil(t, decoded.NodeLink(false))
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	_, err := merkstore.Decode([]byte{5, 1, 2})
	require.ErrorIs(t, err, merkstore.ErrTruncated)
}
