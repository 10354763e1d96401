// Package merkstore binds the merk package's NodeIterator/NodeDecoder
// interfaces to concrete storage engines, and provides the length-prefixed
// node encoding those bindings share.
//
// The trunk builder and verifier operate on an in-memory tree; the leaf
// chunk streamer and verifier operate on whatever ordered key/value store
// holds the persisted tree. That store is treated as an external
// collaborator, reached only through the NodeIterator/NodeDecoder shape.
// This package supplies three interchangeable bindings: merkstore/leveldb,
// merkstore/pebble, and merkstore/filestore.
package merkstore

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/fasmat/merk"
	"github.com/fasmat/merk/merkhash"
)

// ErrTruncated is returned by Decode when the encoded bytes end before a
// length-prefixed field can be fully read.
var ErrTruncated = errors.New("truncated encoded node")

// Link is the minimal, decoded view of a child edge: at least the child's
// key, and its hash once known. It implements merk.StoredLink.
type Link struct {
	Key  []byte
	Hash merkhash.Hash
}

// ChildKey implements merk.StoredLink.
func (l *Link) ChildKey() []byte { return l.Key }

// Node is a decoded, persisted tree node: its value and its two (possibly
// absent) child links. It implements merk.StoredNode.
type Node struct {
	value []byte
	left  *Link
	right *Link
}

// Value implements merk.StoredNode.
func (n *Node) Value() []byte { return n.value }

// NodeLink implements merk.StoredNode. A nil *Link is converted to a nil
// merk.StoredLink explicitly, since a typed nil pointer boxed in an
// interface would otherwise compare non-nil to a caller.
func (n *Node) NodeLink(left bool) merk.StoredLink {
	l := n.right
	if left {
		l = n.left
	}
	if l == nil {
		return nil
	}
	return l
}

// EncodeNode serializes value and the two optional child links into the
// length-prefixed wire format Decode expects:
//
//	value:      varint length, bytes
//	left link:  1-byte present flag, [varint key length, key bytes, 20-byte hash]
//	right link: same shape as left
func EncodeNode(value []byte, left, right *Link) []byte {
	buf := make([]byte, 0, binary.MaxVarintLen64+len(value)+2*(1+binary.MaxVarintLen64+2*merkhash.Size))

	buf = appendBytes(buf, value)
	buf = appendLink(buf, left)
	buf = appendLink(buf, right)
	return buf
}

func appendBytes(buf, data []byte) []byte {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(data)))
	buf = append(buf, lenBuf[:n]...)
	return append(buf, data...)
}

func appendLink(buf []byte, l *Link) []byte {
	if l == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	buf = appendBytes(buf, l.Key)
	return append(buf, l.Hash[:]...)
}

// Decode parses bytes produced by EncodeNode back into a Node.
func Decode(encoded []byte) (*Node, error) {
	r := &byteReader{buf: encoded}

	value, err := r.readBytes()
	if err != nil {
		return nil, fmt.Errorf("reading value: %w", err)
	}
	left, err := r.readLink()
	if err != nil {
		return nil, fmt.Errorf("reading left link: %w", err)
	}
	right, err := r.readLink()
	if err != nil {
		return nil, fmt.Errorf("reading right link: %w", err)
	}

	return &Node{value: value, left: left, right: right}, nil
}

type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) readBytes() ([]byte, error) {
	n, err := r.readUvarint()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, ErrTruncated
	}
	data := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return data, nil
}

func (r *byteReader) readUvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, ErrTruncated
	}
	r.pos += n
	return v, nil
}

func (r *byteReader) readLink() (*Link, error) {
	if r.pos >= len(r.buf) {
		return nil, ErrTruncated
	}
	present := r.buf[r.pos]
	r.pos++
	if present == 0 {
		return nil, nil
	}

	key, err := r.readBytes()
	if err != nil {
		return nil, err
	}
	if r.pos+merkhash.Size > len(r.buf) {
		return nil, ErrTruncated
	}
	var hash merkhash.Hash
	copy(hash[:], r.buf[r.pos:r.pos+merkhash.Size])
	r.pos += merkhash.Size

	return &Link{Key: key, Hash: hash}, nil
}

// Decoder adapts the package-level Decode function to merk.NodeDecoder.
type Decoder struct{}

// Decode implements merk.NodeDecoder.
func (Decoder) Decode(encoded []byte) (merk.StoredNode, error) {
	return Decode(encoded)
}
