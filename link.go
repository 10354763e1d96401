package merk

import (
	"fmt"

	"github.com/fasmat/merk/merkhash"
)

// LinkState identifies which of the three Link variants a Link holds.
type LinkState uint8

const (
	// LinkPruned means the subtree is not loaded; only its hash, height,
	// and root key are known.
	LinkPruned LinkState = iota
	// LinkModified means the subtree is loaded and dirty; its hash is
	// undefined until it is persisted.
	LinkModified
	// LinkStored means the subtree is loaded and clean; its hash is
	// known.
	LinkStored
)

// Link is an in-memory tree edge, in one of three states. Ownership is
// top-down: a Link is held by its parent node and, when non-pruned, owns
// the *Tree it points to.
type Link struct {
	state LinkState

	hash   merkhash.Hash // valid for LinkPruned, LinkStored
	height uint8
	key    []byte // valid for LinkPruned

	pendingWrites int   // valid for LinkModified
	tree          *Tree // valid for LinkModified, LinkStored
}

// NewPrunedLink builds a Link whose subtree is not loaded.
func NewPrunedLink(hash merkhash.Hash, height uint8, key []byte) *Link {
	return &Link{state: LinkPruned, hash: hash, height: height, key: key}
}

// NewModifiedLink builds a Link from a dirty, in-memory subtree.
func NewModifiedLink(tree *Tree) *Link {
	pending := 1
	if tree.Left != nil {
		pending += tree.Left.pendingWrites
	}
	if tree.Right != nil {
		pending += tree.Right.pendingWrites
	}
	return &Link{state: LinkModified, height: tree.Height(), pendingWrites: pending, tree: tree}
}

// NewStoredLink builds a Link from a clean, in-memory subtree whose hash is
// already known.
func NewStoredLink(hash merkhash.Hash, tree *Tree) *Link {
	return &Link{state: LinkStored, hash: hash, height: tree.Height(), tree: tree}
}

// State reports which variant the link is in.
func (l *Link) State() LinkState { return l.state }

// IsPruned reports whether the link is Pruned.
func (l *Link) IsPruned() bool { return l.state == LinkPruned }

// IsModified reports whether the link is Modified.
func (l *Link) IsModified() bool { return l.state == LinkModified }

// IsStored reports whether the link is Stored.
func (l *Link) IsStored() bool { return l.state == LinkStored }

// Tree returns the in-memory subtree, or nil if the link is Pruned.
func (l *Link) Tree() *Tree {
	if l.state == LinkPruned {
		return nil
	}
	return l.tree
}

// Key returns the root key of the subtree this link points to, materializing
// it from the loaded tree when the link isn't Pruned.
func (l *Link) Key() []byte {
	if l.state == LinkPruned {
		return l.key
	}
	return l.tree.Key
}

// Hash returns the digest binding the subtree this link points to. It is
// undefined for a Modified link: a dirty subtree hasn't been authenticated
// yet, so calling this is a programmer error, reported rather than panicking
// since this package is embedded by other services.
func (l *Link) Hash() (merkhash.Hash, error) {
	switch l.state {
	case LinkModified:
		return merkhash.Hash{}, fmt.Errorf("cannot get hash of a modified link: %w", ErrInvalidLinkOperation)
	default:
		return l.hash, nil
	}
}

// Height returns the height of the subtree this link points to.
func (l *Link) Height() uint8 { return l.height }

// ToPruned converts a Stored link into a Pruned one, dropping the in-memory
// subtree. It is a programmer error to call this on a Modified link, since
// a dirty subtree has no hash to remember it by.
func (l *Link) ToPruned() (*Link, error) {
	switch l.state {
	case LinkPruned:
		return l, nil
	case LinkModified:
		return nil, fmt.Errorf("cannot prune a modified link: %w", ErrInvalidLinkOperation)
	default: // LinkStored
		return NewPrunedLink(l.hash, l.height, l.tree.Key), nil
	}
}
