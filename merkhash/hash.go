// Package merkhash provides the digest primitives shared by the proof VM,
// the trunk builder, and the leaf chunk streamer: a fixed-width Hash type
// and the byte-deterministic combining function used to authenticate tree
// nodes.
package merkhash

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Size is the width in bytes of a Hash.
const Size = 20

// Hash is a fixed-width opaque digest. Equality is bytewise.
type Hash [Size]byte

// NullHash is the all-zero sentinel used for an absent child in interior
// node hash composition.
var NullHash = Hash{}

// IsNull reports whether h is the all-zero sentinel.
func (h Hash) IsNull() bool {
	return h == NullHash
}

// Hasher computes the hash of an interior node from its kv-hash and its two
// child hashes (NullHash standing in for an absent child), and the hash of
// a leaf from its key and value. Implementations must be byte-deterministic:
// the same inputs always produce the same digest on both the producing and
// verifying side.
type Hasher interface {
	// Node computes the hash of an interior node given the kv-hash bound at
	// that position and the hashes of its left and right subtrees.
	Node(kvHash, left, right Hash) Hash

	// KV computes the hash binding a key and value.
	KV(key, value []byte) Hash
}

type blake2bHasher struct {
	pool *sync.Pool
}

func (blake2bHasher) newHash() hash.Hash {
	h, err := blake2b.New(Size, nil)
	if err != nil {
		// blake2b.New only fails for an invalid key or out-of-range size;
		// both are fixed constants here, so this can't happen.
		panic(err)
	}
	return h
}

func (b *blake2bHasher) sum(parts ...[]byte) Hash {
	h := b.pool.Get().(hash.Hash)
	defer b.pool.Put(h)
	h.Reset()

	for _, p := range parts {
		h.Write(p)
	}

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func (b *blake2bHasher) Node(kvHash, left, right Hash) Hash {
	return b.sum(kvHash[:], left[:], right[:])
}

func (b *blake2bHasher) KV(key, value []byte) Hash {
	return b.sum(key, value)
}

// Blake2b returns a Hasher that derives digests from BLAKE2b truncated to
// Size bytes. A sync.Pool reuses hash.Hash instances across concurrent
// proof builds instead of allocating one per call.
func Blake2b() Hasher {
	b := &blake2bHasher{}
	b.pool = &sync.Pool{
		New: func() any {
			return b.newHash()
		},
	}
	return b
}

// Default is the Hasher used when no alternative is configured.
var Default = Blake2b()
