package merk

import "bytes"

// StoredLink is the minimal view of a child edge a decoded, persisted node
// must expose: at least the child's key; a concrete storage binding (see
// package merkstore) may also carry the child's hash.
type StoredLink interface {
	ChildKey() []byte
}

// StoredNode is a decoded, persisted tree node as read off a NodeIterator:
// its value and its two (possibly absent) links.
type StoredNode interface {
	Value() []byte
	NodeLink(left bool) StoredLink
}

// NodeDecoder decodes the raw bytes a NodeIterator yields for Value() into
// a StoredNode. Package merkstore provides the concrete binding.
type NodeDecoder interface {
	Decode(encoded []byte) (StoredNode, error)
}

// NodeIterator is the ordered key/value iterator over persisted tree nodes
// the leaf chunk streamer consumes. Keys must be returned in strict
// ascending lexicographic order.
type NodeIterator interface {
	// Valid reports whether the iterator is positioned at an entry.
	Valid() bool
	// Key returns the key at the iterator's current position.
	Key() []byte
	// Value returns the raw encoded node at the iterator's current
	// position.
	Value() []byte
	// Next advances the iterator by one position.
	Next()
}

// Chunker streams leaf chunks from a NodeIterator. Use it with NewChunker()
// and With...() methods to override its defaults.
type Chunker struct {
	decoder       NodeDecoder
	opCapacity    int
	stackCapacity int
}

// NewChunker creates a Chunker that decodes nodes with decoder, defaulting
// to buffer size hints of 512 ops and 32 stack entries.
func NewChunker(decoder NodeDecoder) Chunker {
	return Chunker{decoder: decoder, opCapacity: 512, stackCapacity: 32}
}

// WithOpCapacity overrides the Op buffer's preallocation size.
func (c Chunker) WithOpCapacity(n int) Chunker {
	c.opCapacity = n
	return c
}

// WithStackCapacity overrides the pending-right-child-key stack's
// preallocation size.
func (c Chunker) WithStackCapacity(n int) Chunker {
	c.stackCapacity = n
	return c
}

// GetNextChunk consumes iter starting at its current position and returns
// the Ops reconstructing the in-order traversal of the subtree as a
// ProofTree of KV nodes, stopping before endKey (if non-nil) or at
// exhaustion.
//
// The endKey node itself is not included; callers must advance iter past it
// explicitly before requesting the next chunk. An iterator already
// positioned at endKey (or past the end of data) yields an empty Op
// sequence — callers must not pass that to VerifyLeaf, which rejects it as
// an under-specified proof.
func (c Chunker) GetNextChunk(iter NodeIterator, endKey []byte) ([]Op, error) {
	chunk := make([]Op, 0, c.opCapacity)
	stack := make([][]byte, 0, c.stackCapacity)

	for iter.Valid() {
		key := iter.Key()
		if endKey != nil && bytes.Equal(key, endKey) {
			break
		}

		node, err := c.decoder.Decode(iter.Value())
		if err != nil {
			return nil, errUpstreamDecode(key, err)
		}

		chunk = append(chunk, PushOp(KVNode(key, node.Value())))

		if left := node.NodeLink(true); left != nil {
			chunk = append(chunk, ParentOp())
		}

		if right := node.NodeLink(false); right != nil {
			stack = append(stack, right.ChildKey())
		} else {
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if bytes.Compare(key, top) < 0 {
					break
				}
				stack = stack[:len(stack)-1]
				chunk = append(chunk, ChildOp())
			}
		}

		iter.Next()
	}

	log.Tracef("merk: streamed leaf chunk of %d ops", len(chunk))
	return chunk, nil
}

// GetNextChunk is a package-level convenience wrapping a Chunker with its
// default buffer sizes.
func GetNextChunk(iter NodeIterator, decoder NodeDecoder, endKey []byte) ([]Op, error) {
	return NewChunker(decoder).GetNextChunk(iter, endKey)
}
