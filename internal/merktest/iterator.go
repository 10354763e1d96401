package merktest

import (
	"bytes"
	"sort"

	"github.com/fasmat/merk"
)

// storedLink is the minimal merk.StoredLink a MemIterator's decoder needs.
type storedLink struct {
	key []byte
}

func (l *storedLink) ChildKey() []byte { return l.key }

// storedNode is the minimal merk.StoredNode a MemIterator's decoder needs.
type storedNode struct {
	value []byte
	left  *storedLink
	right *storedLink
}

func (n *storedNode) Value() []byte { return n.value }

func (n *storedNode) NodeLink(left bool) merk.StoredLink {
	l := n.right
	if left {
		l = n.left
	}
	if l == nil {
		return nil
	}
	return l
}

// Decoder decodes the byte-slice values a MemIterator stores, which are
// just the node's own key (used as a sentinel payload by Flatten).
type Decoder struct {
	nodes map[string]*storedNode
}

func (d Decoder) Decode(encoded []byte) (merk.StoredNode, error) {
	n, ok := d.nodes[string(encoded)]
	if !ok {
		return nil, errUnknownKey(encoded)
	}
	return n, nil
}

type unknownKeyError struct{ key []byte }

func (e unknownKeyError) Error() string { return "merktest: unknown key " + string(e.key) }

func errUnknownKey(key []byte) error { return unknownKeyError{key: key} }

// Flatten walks root in order and returns a MemIterator over its nodes
// together with a Decoder that resolves each node's encoded placeholder
// back to its key, value, and child keys.
func Flatten(root *merk.Tree) (*MemIterator, Decoder) {
	nodes := map[string]*storedNode{}
	var keys [][]byte

	var walk func(t *merk.Tree)
	walk = func(t *merk.Tree) {
		if t == nil {
			return
		}
		if t.Left != nil {
			walk(t.Left.Tree())
		}
		n := &storedNode{value: t.Value}
		if t.Left != nil {
			n.left = &storedLink{key: t.Left.Key()}
		}
		if t.Right != nil {
			n.right = &storedLink{key: t.Right.Key()}
		}
		nodes[string(t.Key)] = n
		keys = append(keys, t.Key)
		if t.Right != nil {
			walk(t.Right.Tree())
		}
	}
	walk(root)

	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	return &MemIterator{keys: keys}, Decoder{nodes: nodes}
}

// MemIterator is an in-memory merk.NodeIterator over a fixed, sorted key
// slice. Value() returns the key itself; pair it with a Decoder from
// Flatten to get back the real payload.
type MemIterator struct {
	keys [][]byte
	pos  int
}

func (it *MemIterator) Valid() bool   { return it.pos < len(it.keys) }
func (it *MemIterator) Key() []byte   { return it.keys[it.pos] }
func (it *MemIterator) Value() []byte { return it.keys[it.pos] }
func (it *MemIterator) Next() { it.pos++ }
