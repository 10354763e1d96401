package merk

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrOpaqueNode is returned by Lookup when the search reaches a node that
// doesn't expose a key (a KVHash or Hash node) before it can determine
// whether the requested key is present. This is expected once a search
// descends past a trunk proof's cut line: only the leaf chunk below it
// carries the keys at that depth.
var ErrOpaqueNode = errors.New("lookup reached a node with no exposed key")

// Lookup searches a verified ProofTree for key, walking the same authenticated
// binary-search-tree structure the trunk builder and leaf streamer walked to
// produce it: at each KV node, key is compared against the node's key to
// decide which child to descend into. It returns ErrOpaqueNode if the search
// reaches a KVHash or Hash node (no key to compare against) before resolving
// presence or absence.
//
// Because this package's proofs authenticate a keyed AVL tree, and a
// ProofTree already mirrors the tree's real left/right structure, answering
// "what's the value for key X" is a direct BST search rather than a
// recomputation over positional indices.
func Lookup(tree *ProofTree, key []byte) (value []byte, found bool, err error) {
	for tree != nil {
		if tree.Node.Kind != NodeKV {
			return nil, false, fmt.Errorf("at a node with no exposed key: %w", ErrOpaqueNode)
		}

		switch c := bytes.Compare(key, tree.Node.Key); {
		case c == 0:
			return tree.Node.Value, true, nil
		case c < 0:
			tree = tree.Left
		default:
			tree = tree.Right
		}
	}
	return nil, false, nil
}
