package merk

import (
	"fmt"

	"github.com/fasmat/merk/merkhash"
)

// OpKind identifies which of the three VM instructions an Op carries out.
type OpKind uint8

const (
	// OpPush pushes a Node as a new singleton subtree.
	OpPush OpKind = iota
	// OpParent pops two stack entries and attaches the one beneath as the
	// left child of the top entry, then pushes the result.
	OpParent
	// OpChild pops two stack entries and attaches the top entry as the
	// right child of the one beneath, then pushes the result.
	OpChild
)

// Op is a single proof VM instruction. Node is only meaningful when Kind is
// OpPush.
type Op struct {
	Kind OpKind
	Node Node
}

// PushOp builds a Push instruction for n.
func PushOp(n Node) Op { return Op{Kind: OpPush, Node: n} }

// ParentOp builds a Parent instruction.
func ParentOp() Op { return Op{Kind: OpParent} }

// ChildOp builds a Child instruction.
func ChildOp() Op { return Op{Kind: OpChild} }

// ProofTree is the proof VM's output: a binary tree of Nodes whose Hash
// reflects the Merkle hash rooted at that position.
type ProofTree struct {
	Node  Node
	Left  *ProofTree
	Right *ProofTree

	hasher merkhash.Hasher
}

// Child returns the left or right subtree, or nil if absent.
func (t *ProofTree) Child(left bool) *ProofTree {
	if left {
		return t.Left
	}
	return t.Right
}

// Hash returns the Merkle hash rooted at t: the node's own contribution
// combined with its children's hashes (NullHash for an absent child).
func (t *ProofTree) Hash() merkhash.Hash {
	left := merkhash.NullHash
	if t.Left != nil {
		left = t.Left.Hash()
	}
	right := merkhash.NullHash
	if t.Right != nil {
		right = t.Right.Hash()
	}

	kvHash := t.Node.Hash(t.hasher)
	if t.Node.Kind == NodeHash {
		// A Hash node already binds the whole subtree; it has no
		// children to combine with.
		return kvHash
	}
	return t.hasher.Node(kvHash, left, right)
}

// VisitFunc is invoked for every Node pushed onto the VM's stack, in push
// order. Returning an error aborts execution.
type VisitFunc func(Node) error

// OpIterator is a possibly-lazy, possibly-fallible source of Ops. It models
// an Op stream coming from a decoder or network reader as well as a plain
// in-memory slice.
type OpIterator interface {
	// Next returns the next Op. ok is false once the stream is exhausted.
	// A non-nil error is always fatal and wrapped in ErrUpstream by the
	// VM.
	Next() (op Op, ok bool, err error)
}

type sliceOpIterator struct {
	ops []Op
	pos int
}

func (s *sliceOpIterator) Next() (Op, bool, error) {
	if s.pos >= len(s.ops) {
		return Op{}, false, nil
	}
	op := s.ops[s.pos]
	s.pos++
	return op, true, nil
}

// Ops adapts a plain slice of Ops into an OpIterator.
func Ops(ops []Op) OpIterator {
	return &sliceOpIterator{ops: ops}
}

// Execute runs a finite sequence of Ops against a LIFO stack of partial
// ProofTrees, producing exactly one reconstructed ProofTree. visit is
// called for every pushed Node in push order; a non-nil return aborts
// execution immediately.
//
// collapse, when true, may prune fully-authenticated interior subtrees into
// Hash nodes after each combine. Neither verifier entry point in this
// package exercises collapse=true; it is left for callers building a
// streaming-combine proof representation.
func Execute(iter OpIterator, collapse bool, visit VisitFunc, hasher merkhash.Hasher) (*ProofTree, error) {
	if hasher == nil {
		hasher = merkhash.Default
	}
	if visit == nil {
		visit = func(Node) error { return nil }
	}

	var stack []*ProofTree
	for {
		op, ok, err := iter.Next()
		if err != nil {
			return nil, fmt.Errorf("reading next op: %w: %w", ErrUpstream, err)
		}
		if !ok {
			break
		}

		switch op.Kind {
		case OpPush:
			if err := visit(op.Node); err != nil {
				return nil, err
			}
			stack = append(stack, &ProofTree{Node: op.Node, hasher: hasher})

		case OpParent:
			top, second, err := popTwo(stack)
			if err != nil {
				return nil, err
			}
			// top was pushed after second (e.g. self pushed after its
			// already-assembled left subtree): top becomes the surviving
			// parent, with second attached as its left child.
			if top.Left != nil {
				return nil, fmt.Errorf("parent already has a left child: %w", ErrMalformedProof)
			}
			top.Left = second
			stack = append(stack[:len(stack)-2], top)

		case OpChild:
			top, second, err := popTwo(stack)
			if err != nil {
				return nil, err
			}
			// second is the already-established node (e.g. self, pushed
			// before its right subtree): second stays the surviving
			// parent, with top attached as its right child.
			if second.Right != nil {
				return nil, fmt.Errorf("parent already has a right child: %w", ErrMalformedProof)
			}
			second.Right = top
			stack = append(stack[:len(stack)-2], second)

		default:
			return nil, fmt.Errorf("unknown op kind %d: %w", op.Kind, ErrMalformedProof)
		}

		if collapse {
			maybeCollapse(stack)
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("expected exactly one node on the stack, got %d: %w", len(stack), ErrMalformedProof)
	}
	return stack[0], nil
}

// popTwo returns the top two stack entries as (top, second), the most
// recently pushed and the one beneath it. It does not pop them; the caller
// truncates the stack after deciding which of the two survives.
func popTwo(stack []*ProofTree) (top, second *ProofTree, err error) {
	if len(stack) < 2 {
		return nil, nil, fmt.Errorf("stack underflow (have %d entries): %w", len(stack), ErrMalformedProof)
	}
	top = stack[len(stack)-1]
	second = stack[len(stack)-2]
	return top, second, nil
}

// maybeCollapse is the hook for pruning fully-authenticated interior
// subtrees into Hash nodes. Left as a no-op until a caller needs
// streaming-combine behavior.
func maybeCollapse(_ []*ProofTree) {}
