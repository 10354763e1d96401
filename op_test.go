package merk_test

import (
	"errors"
	"testing"

	"github.com/fasmat/merk"
)

func leaf(key string) merk.Node {
	return merk.KVNode([]byte(key), []byte(key))
}

func TestExecutePushParentChild(t *testing.T) {
	t.Parallel()

	ops := []merk.Op{
		merk.PushOp(leaf("a")),
		merk.PushOp(leaf("b")),
		merk.ParentOp(),
		merk.PushOp(leaf("c")),
		merk.ChildOp(),
	}

	var visited []string
	visit := func(n merk.Node) error {
		visited = append(visited, string(n.Key))
		return nil
	}

	tree, err := merk.Execute(merk.Ops(ops), false, visit, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(tree.Node.Key) != "b" {
		t.Fatalf("expected root b, got %s", tree.Node.Key)
	}
	if tree.Left == nil || string(tree.Left.Node.Key) != "a" {
		t.Fatalf("expected left child a")
	}
	if tree.Right == nil || string(tree.Right.Node.Key) != "c" {
		t.Fatalf("expected right child c")
	}
	if got, want := visited, []string{"a", "b", "c"}; !equalStrings(got, want) {
		t.Fatalf("visit order = %v, want %v", got, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestExecuteStackUnderflow(t *testing.T) {
	t.Parallel()

	ops := []merk.Op{merk.PushOp(leaf("a")), merk.ParentOp()}
	_, err := merk.Execute(merk.Ops(ops), false, nil, nil)
	if !errors.Is(err, merk.ErrMalformedProof) {
		t.Fatalf("expected ErrMalformedProof, got %v", err)
	}
}

func TestExecuteDuplicateChildSlot(t *testing.T) {
	t.Parallel()

	ops := []merk.Op{
		merk.PushOp(leaf("a")),
		merk.PushOp(leaf("b")),
		merk.PushOp(leaf("c")),
		merk.ParentOp(), // c.Left = b
		merk.ParentOp(), // c already has a left child
	}
	_, err := merk.Execute(merk.Ops(ops), false, nil, nil)
	if !errors.Is(err, merk.ErrMalformedProof) {
		t.Fatalf("expected ErrMalformedProof, got %v", err)
	}
}

func TestExecuteNonSingletonEndOfStream(t *testing.T) {
	t.Parallel()

	ops := []merk.Op{merk.PushOp(leaf("a")), merk.PushOp(leaf("b"))}
	_, err := merk.Execute(merk.Ops(ops), false, nil, nil)
	if !errors.Is(err, merk.ErrMalformedProof) {
		t.Fatalf("expected ErrMalformedProof, got %v", err)
	}
}

func TestExecuteVisitAbortsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	visit := func(merk.Node) error { return boom }

	ops := []merk.Op{merk.PushOp(leaf("a"))}
	_, err := merk.Execute(merk.Ops(ops), false, visit, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected visit error to propagate, got %v", err)
	}
}

type failingIterator struct{ err error }

func (f failingIterator) Next() (merk.Op, bool, error) { return merk.Op{}, false, f.err }

func TestExecuteWrapsUpstreamFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk on fire")
	_, err := merk.Execute(failingIterator{err: cause}, false, nil, nil)
	if !errors.Is(err, merk.ErrUpstream) || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped ErrUpstream+cause, got %v", err)
	}
}

func TestProofTreeHashCombinesChildren(t *testing.T) {
	t.Parallel()

	ops := []merk.Op{
		merk.PushOp(leaf("a")),
		merk.PushOp(leaf("b")),
		merk.ParentOp(),
	}
	tree, err := merk.Execute(merk.Ops(ops), false, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	onlyRoot, err := merk.Execute(merk.Ops([]merk.Op{merk.PushOp(leaf("b"))}), false, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Hash() == onlyRoot.Hash() {
		t.Fatalf("expected hash to change once a child is attached")
	}
}
