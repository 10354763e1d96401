package merk_test

import (
	"testing"

	"github.com/fasmat/merk"
	"github.com/fasmat/merk/internal/merktest"
	"github.com/fasmat/merk/merkhash"
)

func TestTrunkRoundTrip(t *testing.T) {
	t.Parallel()

	root := merktest.Sequential(31)
	rootHash, err := root.Hash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	walker := merk.NewWalker(root, merk.PanicSource{})
	ops, err := merk.CreateTrunkProof(walker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tree, err := merk.VerifyTrunk(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Hash() != rootHash {
		t.Fatalf("expected verified trunk hash to equal tree root hash")
	}
}

func TestTrunkBuilderDeterministic(t *testing.T) {
	t.Parallel()

	a := merktest.Sequential(31)
	b := merktest.Sequential(31)

	opsA, err := merk.CreateTrunkProof(merk.NewWalker(a, merk.PanicSource{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opsB, err := merk.CreateTrunkProof(merk.NewWalker(b, merk.PanicSource{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(opsA) != len(opsB) {
		t.Fatalf("expected identical op counts, got %d and %d", len(opsA), len(opsB))
	}
	for i := range opsA {
		if opsA[i].Kind != opsB[i].Kind {
			t.Fatalf("op %d kind mismatch: %v != %v", i, opsA[i].Kind, opsB[i].Kind)
		}
		if opsA[i].Node.Hash(merkhash.Default) != opsB[i].Node.Hash(merkhash.Default) {
			t.Fatalf("op %d node hash mismatch", i)
		}
	}
}

func TestTrunkBuilderWithCapacityHint(t *testing.T) {
	t.Parallel()

	root := merktest.Sequential(15)
	b := merk.NewTrunkBuilder().WithCapacityHint(64)
	ops, err := b.Build(merk.NewWalker(root, merk.PanicSource{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) == 0 {
		t.Fatalf("expected a non-empty trunk proof")
	}
}

func TestTrunkTamperDetection(t *testing.T) {
	t.Parallel()

	root := merktest.Sequential(31)
	ops, err := merk.CreateTrunkProof(merk.NewWalker(root, merk.PanicSource{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Replacing the final op with Parent leaves either a stack with too few
	// entries, or a duplicate child slot: both are MalformedProof.
	tampered := append([]merk.Op{}, ops...)
	tampered[len(tampered)-1] = merk.ParentOp()

	if _, err := merk.VerifyTrunk(tampered); err == nil {
		t.Fatalf("expected tampered trunk proof to fail verification")
	}
}

func TestTrunkShapeCounts(t *testing.T) {
	t.Parallel()

	root := merktest.Sequential(31)
	ops, err := merk.CreateTrunkProof(merk.NewWalker(root, merk.PanicSource{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tree, err := merk.VerifyTrunk(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := countKinds(tree)
	if counts[merk.NodeHash] == 0 {
		t.Fatalf("expected at least one Hash node in the trunk")
	}
	if counts[merk.NodeKV] == 0 {
		t.Fatalf("expected at least one KV node in the trunk")
	}
	if counts[merk.NodeKVHash] == 0 {
		t.Fatalf("expected at least one KVHash node on the height-proof spine")
	}
}

func countKinds(t *merk.ProofTree) map[merk.NodeKind]int {
	counts := map[merk.NodeKind]int{}
	var walk func(*merk.ProofTree)
	walk = func(n *merk.ProofTree) {
		if n == nil {
			return
		}
		counts[n.Node.Kind]++
		walk(n.Left)
		walk(n.Right)
	}
	walk(t)
	return counts
}
