package merk

import "github.com/fasmat/merk/merkhash"

// NodeKind identifies which of the three proof Node variants a Node holds.
type NodeKind uint8

const (
	// NodeKV carries a full leaf payload: key and value.
	NodeKV NodeKind = iota
	// NodeKVHash carries an opaque digest binding a (key, value) pair at
	// a position, without revealing them.
	NodeKVHash
	// NodeHash carries an opaque digest binding a whole subtree.
	NodeHash
)

func (k NodeKind) String() string {
	switch k {
	case NodeKV:
		return "KV"
	case NodeKVHash:
		return "KVHash"
	case NodeHash:
		return "Hash"
	default:
		return "unknown"
	}
}

// Node is the payload carried by a Push Op: one of KV, KVHash, or Hash.
// Exactly one of (Key, Value) or Digest is meaningful, selected by Kind.
type Node struct {
	Kind   NodeKind
	Key    []byte
	Value  []byte
	Digest merkhash.Hash
}

// KVNode constructs a full leaf payload Node.
func KVNode(key, value []byte) Node {
	return Node{Kind: NodeKV, Key: key, Value: value}
}

// KVHashNode constructs a Node binding a (key, value) pair by digest only.
func KVHashNode(h merkhash.Hash) Node {
	return Node{Kind: NodeKVHash, Digest: h}
}

// HashNode constructs a Node binding a whole subtree by digest only.
func HashNode(h merkhash.Hash) Node {
	return Node{Kind: NodeHash, Digest: h}
}

// Hash returns the digest this Node contributes at its position: H(k,v) for
// KV, the carried digest for KVHash and Hash.
func (n Node) Hash(hasher merkhash.Hasher) merkhash.Hash {
	switch n.Kind {
	case NodeKV:
		return hasher.KV(n.Key, n.Value)
	case NodeKVHash, NodeHash:
		return n.Digest
	default:
		panic("merk: unknown node kind")
	}
}
