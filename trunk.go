package merk

// CreateTrunkProof builds the trunk proof for the tree walker sits on: the
// upper portion of the tree, rooted at the real root, extending down to
// roughly half the tree's height.
func CreateTrunkProof(walker *Walker) ([]Op, error) {
	return createTrunkProof(walker, 0)
}

func createTrunkProof(walker *Walker, capacityHint int) ([]Op, error) {
	if capacityHint <= 0 {
		capacityHint = 1 << (walker.Tree().Height() / 2)
	}
	proof := make([]Op, 0, capacityHint)

	trunkHeight, err := traverseForHeightProof(walker, &proof, 1)
	if err != nil {
		return nil, err
	}
	if err := traverseForTrunk(walker, &proof, trunkHeight, true); err != nil {
		return nil, err
	}

	log.Tracef("merk: built trunk proof of %d ops, trunk height %d", len(proof), trunkHeight)
	return proof, nil
}

// traverseForHeightProof descends the leftmost link, incrementing depth.
// At the bottom (no further left child), trunkHeight = depth/2 (floor),
// which is the cut line between trunk and leaves. Unwinding, every node at
// depth > trunkHeight emits the ops that authenticate it into the leftmost
// spine of the trunk.
func traverseForHeightProof(walker *Walker, proof *[]Op, depth int) (int, error) {
	left, err := walker.Walk(true)
	if err != nil {
		return 0, err
	}
	hasLeftChild := left != nil

	var trunkHeight int
	if hasLeftChild {
		trunkHeight, err = traverseForHeightProof(left, proof, depth+1)
		if err != nil {
			return 0, err
		}
	} else {
		trunkHeight = depth / 2
	}

	if depth > trunkHeight {
		*proof = append(*proof, PushOp(walker.Tree().ToKVHashNode()))

		if hasLeftChild {
			*proof = append(*proof, ParentOp())
		}

		right, err := walker.Walk(false)
		if err != nil {
			return 0, err
		}
		if right != nil {
			rightHashNode, err := right.Tree().ToHashNode()
			if err != nil {
				return 0, err
			}
			*proof = append(*proof, PushOp(rightHashNode), ChildOp())
		}
	}

	return trunkHeight, nil
}

// traverseForTrunk descends to remainingDepth == 0, building the trunk body:
// the authenticated subtree down to the cut line computed by
// traverseForHeightProof. Both children are assumed present above the cut
// line; a producer whose tree isn't dense enough must fail before emitting
// a proof rather than silently truncate it.
func traverseForTrunk(walker *Walker, proof *[]Op, remainingDepth int, isLeftmost bool) error {
	if remainingDepth == 0 {
		// Connect to the hash of the left child. For the leftmost node,
		// the height proof already supplied this.
		if !isLeftmost {
			if left := walker.Tree().Link(true); left != nil {
				h, err := left.Hash()
				if err != nil {
					return err
				}
				*proof = append(*proof, PushOp(HashNode(h)))
			}
		}

		*proof = append(*proof, PushOp(walker.Tree().ToKVNode()))

		if walker.Tree().Link(true) != nil {
			*proof = append(*proof, ParentOp())
		}

		if right := walker.Tree().Link(false); right != nil {
			h, err := right.Hash()
			if err != nil {
				return err
			}
			*proof = append(*proof, PushOp(HashNode(h)), ChildOp())
		}

		return nil
	}

	left, err := requireWalk(walker, true, remainingDepth)
	if err != nil {
		return err
	}
	if err := traverseForTrunk(left, proof, remainingDepth-1, isLeftmost); err != nil {
		return err
	}

	*proof = append(*proof, PushOp(walker.Tree().ToKVNode()), ParentOp())

	right, err := requireWalk(walker, false, remainingDepth)
	if err != nil {
		return err
	}
	if err := traverseForTrunk(right, proof, remainingDepth-1, false); err != nil {
		return err
	}
	*proof = append(*proof, ChildOp())

	return nil
}

// requireWalk descends one edge that the trunk shape guarantees is
// present; a nil result means the producer's tree wasn't dense enough to
// reach remainingDepth, which is a bug in the caller rather than a proof
// shape error, so it fails loudly instead of silently truncating the proof.
func requireWalk(walker *Walker, left bool, remainingDepth int) (*Walker, error) {
	child, err := walker.Walk(left)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, errMissingTrunkChild(left, remainingDepth)
	}
	return child, nil
}
