package index

import (
	"errors"
	"fmt"
)

var ErrInvariant = errors.New("red-black invariant violated")

// Validate walks every root-to-leaf path and checks the coloring rules,
// parent links, key order and the cached size.
func (t *Tree[K, V]) Validate() error {
	if t.nil.color != black {
		return fmt.Errorf("%w: sentinel is red", ErrInvariant)
	}
	if t.root.color != black {
		return fmt.Errorf("%w: root is red", ErrInvariant)
	}
	if t.root != t.nil && t.root.parent != t.nil {
		return fmt.Errorf("%w: root has a parent", ErrInvariant)
	}

	count := 0
	if _, err := t.check(t.root, nil, nil, &count); err != nil {
		return err
	}
	if count != t.size {
		return fmt.Errorf("%w: size %d but %d nodes reachable", ErrInvariant, t.size, count)
	}
	return nil
}

// check returns the black height of the subtree rooted at n.
func (t *Tree[K, V]) check(n *node[K, V], lo, hi *K, count *int) (int, error) {
	if n == t.nil {
		return 1, nil
	}
	*count++

	if lo != nil && n.key <= *lo {
		return 0, fmt.Errorf("%w: key %v out of order", ErrInvariant, n.key)
	}
	if hi != nil && n.key >= *hi {
		return 0, fmt.Errorf("%w: key %v out of order", ErrInvariant, n.key)
	}
	if n.color == red && (n.left.color == red || n.right.color == red) {
		return 0, fmt.Errorf("%w: red node %v has a red child", ErrInvariant, n.key)
	}
	if n.left != t.nil && n.left.parent != n {
		return 0, fmt.Errorf("%w: broken parent link under %v", ErrInvariant, n.key)
	}
	if n.right != t.nil && n.right.parent != n {
		return 0, fmt.Errorf("%w: broken parent link under %v", ErrInvariant, n.key)
	}

	lh, err := t.check(n.left, lo, &n.key, count)
	if err != nil {
		return 0, err
	}
	rh, err := t.check(n.right, &n.key, hi, count)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("%w: black height %d != %d under %v", ErrInvariant, lh, rh, n.key)
	}

	if n.color == black {
		lh++
	}
	return lh, nil
}
