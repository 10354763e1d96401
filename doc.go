// Package merk implements the authenticated-tree chunking and proof
// subsystem of a Merkle-AVL key/value store: a stack-based proof VM, a
// trunk builder that authenticates the upper half of the tree, a leaf
// chunk streamer that authenticates the bottom half from an ordered
// on-disk iterator, and a two-phase verifier for both.
//
// A trunk proof is rooted at the real tree root and extends down to
// roughly half the tree's height; its leaves authenticate the root hashes
// of the leaf chunks below them. Each leaf chunk is a full subtree proof
// covering the rest of the way down, streamed from persisted, key-ordered
// storage. Together they let a remote peer reconstruct and incrementally
// trust the tree while downloading it in bounded-size pieces.
package merk
