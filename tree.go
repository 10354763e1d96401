package merk

import (
	"fmt"

	"github.com/fasmat/merk/merkhash"
)

// Tree is an in-memory, AVL-balanced authenticated binary search tree node.
// height = 1 + max(leftHeight, rightHeight); a missing child has height 0.
// Keys strictly increase under in-order traversal.
//
// Children are addressed individually rather than folded pairwise, since
// both the trunk builder and the leaf streamer need to descend a specific
// side of a specific node rather than reduce a flat list of leaves.
type Tree struct {
	Key   []byte
	Value []byte

	Left  *Link
	Right *Link

	hash      merkhash.Hash
	hashValid bool
	hasher    merkhash.Hasher
}

// NewTree builds a leaf Tree node (no children) from a key and value.
func NewTree(key, value []byte, hasher merkhash.Hasher) *Tree {
	if hasher == nil {
		hasher = merkhash.Default
	}
	return &Tree{Key: key, Value: value, hasher: hasher}
}

// Height returns 1 + max(leftHeight, rightHeight); a missing child
// contributes height 0.
func (t *Tree) Height() uint8 {
	var left, right uint8
	if t.Left != nil {
		left = t.Left.Height()
	}
	if t.Right != nil {
		right = t.Right.Height()
	}
	if left > right {
		return left + 1
	}
	return right + 1
}

// Link returns the left (or right) edge of this node, or nil if absent.
func (t *Tree) Link(left bool) *Link {
	if left {
		return t.Left
	}
	return t.Right
}

// Hash returns this node's Merkle hash: H(kvHash, leftHash, rightHash),
// with NullHash standing in for an absent child. The result is cached on the
// first call and never recomputed: changing Key, Value, Left or Right after
// that does not invalidate it.
func (t *Tree) Hash() (merkhash.Hash, error) {
	if t.hashValid {
		return t.hash, nil
	}

	left := merkhash.NullHash
	if t.Left != nil {
		h, err := t.Left.Hash()
		if err != nil {
			return merkhash.Hash{}, err
		}
		left = h
	}
	right := merkhash.NullHash
	if t.Right != nil {
		h, err := t.Right.Hash()
		if err != nil {
			return merkhash.Hash{}, err
		}
		right = h
	}

	kvHash := t.hasher.KV(t.Key, t.Value)
	t.hash = t.hasher.Node(kvHash, left, right)
	t.hashValid = true
	return t.hash, nil
}

// ToKVNode returns the full-payload proof Node for this position.
func (t *Tree) ToKVNode() Node {
	return KVNode(t.Key, t.Value)
}

// ToKVHashNode returns the opaque (key, value) digest proof Node for this
// position.
func (t *Tree) ToKVHashNode() Node {
	return KVHashNode(t.hasher.KV(t.Key, t.Value))
}

// ToHashNode returns the whole-subtree digest proof Node for this position.
func (t *Tree) ToHashNode() (Node, error) {
	h, err := t.Hash()
	if err != nil {
		return Node{}, err
	}
	return HashNode(h), nil
}

// Source fetches a pruned subtree by its root key, materializing it from
// backing storage. A Walker calls this whenever it needs to descend through
// a Pruned Link.
type Source interface {
	Fetch(key []byte) (*Tree, error)
}

// PanicSource is a Source that panics if Fetch is ever called. It's useful
// in tests that construct a fully in-memory tree with no Pruned links, to
// assert a trunk build never needs to touch storage.
type PanicSource struct{}

// Fetch implements Source.
func (PanicSource) Fetch(key []byte) (*Tree, error) {
	panic(fmt.Sprintf("merk: unexpected fetch of pruned key %x", key))
}

// Walker holds exclusive access to a Tree for the duration of a trunk proof
// build, descending links and materializing Pruned subtrees from its Source
// as needed.
type Walker struct {
	tree   *Tree
	source Source
}

// NewWalker wraps tree for a proof build backed by source.
func NewWalker(tree *Tree, source Source) *Walker {
	return &Walker{tree: tree, source: source}
}

// Tree returns the node the walker currently sits on.
func (w *Walker) Tree() *Tree { return w.tree }

// Walk descends one edge (left or right), materializing a Pruned link via
// the walker's Source if necessary, and returns a new Walker positioned on
// the child, or nil if that edge is absent.
func (w *Walker) Walk(left bool) (*Walker, error) {
	link := w.tree.Link(left)
	if link == nil {
		return nil, nil
	}

	if link.IsPruned() {
		child, err := w.source.Fetch(link.key)
		if err != nil {
			return nil, fmt.Errorf("fetching pruned subtree %x: %w", link.key, err)
		}
		stored := NewStoredLink(link.hash, child)
		if left {
			w.tree.Left = stored
		} else {
			w.tree.Right = stored
		}
		link = stored
	}

	return &Walker{tree: link.tree, source: w.source}, nil
}
