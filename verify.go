package merk

import (
	"fmt"

	"github.com/fasmat/merk/merkhash"
)

// verifyOpts configures VerifyTrunk and VerifyLeaf.
type verifyOpts struct {
	hasher merkhash.Hasher
}

// VerifyOpt is a functional option for VerifyTrunk and VerifyLeaf.
type VerifyOpt func(*verifyOpts)

// WithVerifyHasher sets the Hasher used to reconstruct node hashes. If not
// set, merkhash.Default is used.
func WithVerifyHasher(h merkhash.Hasher) VerifyOpt {
	return func(o *verifyOpts) { o.hasher = h }
}

func resolveVerifyOpts(opts []VerifyOpt) *verifyOpts {
	o := &verifyOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if o.hasher == nil {
		o.hasher = merkhash.Default
	}
	return o
}

// VerifyLeaf runs the proof VM over ops with collapse=false, rejecting any
// Node other than KV, then compares the reconstructed tree's hash against
// expectedHash.
func VerifyLeaf(ops []Op, expectedHash merkhash.Hash, opts ...VerifyOpt) (*ProofTree, error) {
	o := resolveVerifyOpts(opts)

	visit := func(n Node) error {
		if n.Kind != NodeKV {
			return fmt.Errorf("got %s node: %w", n.Kind, ErrMalformedLeaf)
		}
		return nil
	}

	tree, err := Execute(Ops(ops), false, visit, o.hasher)
	if err != nil {
		return nil, err
	}

	if tree.Hash() != expectedHash {
		log.Debugf("merk: leaf chunk hash mismatch: expected %x, got %x", expectedHash, tree.Hash())
		return nil, fmt.Errorf("expected %x, got %x: %w", expectedHash, tree.Hash(), ErrHashMismatch)
	}

	return tree, nil
}

// VerifyTrunk runs the proof VM over ops with an unrestricted visitor, then
// enforces the trunk's two shape invariants: the height proof (the
// leftmost spine must be all KV/KVHash) and completeness (every trunk
// interior node is KV with both children present; leaves are KVHash on the
// leftmost path and Hash elsewhere). It does not compare the result against
// a trusted root hash — callers do that with ProofTree.Hash() out of band.
func VerifyTrunk(ops []Op, opts ...VerifyOpt) (*ProofTree, error) {
	o := resolveVerifyOpts(opts)

	tree, err := Execute(Ops(ops), false, nil, o.hasher)
	if err != nil {
		return nil, err
	}

	height, err := verifyHeightProof(tree)
	if err != nil {
		return nil, err
	}

	expectedDepth := height / 2
	if err := verifyCompleteness(tree, expectedDepth, true); err != nil {
		return nil, err
	}

	log.Tracef("merk: verified trunk proof, height %d", height)
	return tree, nil
}

// verifyHeightProof walks left children from the root, counting 1 for the
// root and +1 per step. Every node below the root along this spine, the
// bottom one included, must be KV or KVHash; the root itself is not checked
// here.
func verifyHeightProof(tree *ProofTree) (int, error) {
	child := tree.Child(true)
	if child == nil {
		return 1, nil
	}
	if child.Node.Kind == NodeHash {
		return 0, fmt.Errorf("expected height proof to only contain KV and KVHash nodes: %w", ErrMalformedTrunk)
	}
	height, err := verifyHeightProof(child)
	if err != nil {
		return 0, err
	}
	return height + 1, nil
}

// verifyCompleteness recurses from the root with remainingDepth =
// height/2. At each interior step the node must be KV with both children
// present. At the leaves, the leftmost node must be KVHash and every other
// leaf must be Hash.
func verifyCompleteness(tree *ProofTree, remainingDepth int, leftmost bool) error {
	if remainingDepth > 0 {
		if tree.Node.Kind != NodeKV {
			return fmt.Errorf("expected trunk inner nodes to contain keys and values, got %s: %w", tree.Node.Kind, ErrMalformedTrunk)
		}

		left := tree.Child(true)
		if left == nil {
			return fmt.Errorf("trunk is missing expected left child: %w", ErrMalformedTrunk)
		}
		if err := verifyCompleteness(left, remainingDepth-1, leftmost); err != nil {
			return err
		}

		right := tree.Child(false)
		if right == nil {
			return fmt.Errorf("trunk is missing expected right child: %w", ErrMalformedTrunk)
		}
		return verifyCompleteness(right, remainingDepth-1, false)
	}

	if leftmost {
		if tree.Node.Kind != NodeKVHash {
			return fmt.Errorf("expected leftmost trunk leaf to contain a KVHash node, got %s: %w", tree.Node.Kind, ErrMalformedTrunk)
		}
		return nil
	}

	if tree.Node.Kind != NodeHash {
		return fmt.Errorf("expected trunk leaves to contain Hash nodes, got %s: %w", tree.Node.Kind, ErrMalformedTrunk)
	}
	return nil
}
