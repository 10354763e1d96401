package merk

import (
	"errors"
	"fmt"
)

// Sentinel errors for the proof VM, trunk/leaf shape checks, and link
// invariant violations. Wrap these with fmt.Errorf("...: %w", ErrX) at the
// point of failure so callers can still errors.Is against the taxonomy.
var (
	// ErrUpstream wraps a failure that originated in the Op source feeding
	// the VM (a failing iterator, a decode error) rather than in the VM
	// itself.
	ErrUpstream = errors.New("upstream op source failed")

	// ErrMalformedProof is returned by the VM on stack underflow, an
	// attempt to attach a child to a slot that already has one, or a
	// non-singleton stack at end of stream.
	ErrMalformedProof = errors.New("malformed proof")

	// ErrMalformedLeaf is returned by VerifyLeaf when a leaf chunk
	// contains anything other than a KV node.
	ErrMalformedLeaf = errors.New("leaf chunks must contain full subtree")

	// ErrMalformedTrunk is returned by VerifyTrunk when the height proof
	// or the completeness check finds a node of the wrong kind, or a
	// missing child, at a position the trunk shape requires.
	ErrMalformedTrunk = errors.New("malformed trunk")

	// ErrHashMismatch is returned by VerifyLeaf when the reconstructed
	// tree's hash does not equal the hash the caller expected.
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrInvalidLinkOperation is returned when a caller requests Hash()
	// or ToPruned() on a Modified Link, both of which are undefined until
	// the link is persisted.
	ErrInvalidLinkOperation = errors.New("invalid operation on modified link")

	// ErrNotDense is returned by the trunk builder when the tree isn't
	// dense enough to reach the cut line computed from its height. A
	// producer must fail rather than emit a truncated trunk proof.
	ErrNotDense = errors.New("tree is not dense enough for a trunk proof")
)

// errUpstreamDecode reports that decoding a persisted node read off a
// NodeIterator failed.
func errUpstreamDecode(key []byte, cause error) error {
	return fmt.Errorf("decoding node at key %x: %w: %w", key, ErrUpstream, cause)
}

// errMissingTrunkChild reports that the trunk builder expected a child at
// remainingDepth levels above the cut line but found none.
func errMissingTrunkChild(left bool, remainingDepth int) error {
	side := "right"
	if left {
		side = "left"
	}
	return fmt.Errorf("missing %s child %d levels above trunk cut line: %w", side, remainingDepth, ErrNotDense)
}
