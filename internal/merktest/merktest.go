// Package merktest builds small, deterministic in-memory trees for use in
// this module's own tests. It constructs a balanced tree directly from a
// sorted key range rather than through insertion, so tests get reproducible
// shapes without depending on any particular balancing algorithm.
package merktest

import (
	"encoding/binary"

	"github.com/fasmat/merk"
	"github.com/fasmat/merk/merkhash"
)

// Sequential builds a balanced tree over n keys, numbered 1..n as
// big-endian uint32s, with each key's value equal to its key. It returns
// the root, fully in memory (every Link is Stored, never Pruned), ready to
// drive a Walker backed by merk.PanicSource.
func Sequential(n int) *merk.Tree {
	keys := make([][]byte, n)
	for i := range keys {
		keys[i] = encodeKey(uint32(i + 1))
	}
	root, _ := build(keys, merkhash.Default)
	return root
}

func encodeKey(n uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, n)
	return buf
}

// build recursively splits a sorted key slice around its midpoint, so the
// resulting tree is balanced by construction: a slice of length m produces
// a root with left subtree over the first (m-1)/2 keys and right subtree
// over the rest.
func build(keys [][]byte, hasher merkhash.Hasher) (*merk.Tree, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	mid := (len(keys) - 1) / 2
	key := keys[mid]
	tree := merk.NewTree(key, key, hasher)

	left, err := build(keys[:mid], hasher)
	if err != nil {
		return nil, err
	}
	if left != nil {
		h, err := left.Hash()
		if err != nil {
			return nil, err
		}
		tree.Left = merk.NewStoredLink(h, left)
	}

	right, err := build(keys[mid+1:], hasher)
	if err != nil {
		return nil, err
	}
	if right != nil {
		h, err := right.Hash()
		if err != nil {
			return nil, err
		}
		tree.Right = merk.NewStoredLink(h, right)
	}

	return tree, nil
}
