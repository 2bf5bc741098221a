package index

// Red-black tree keyed by an ordered type.
// - Single-writer API; the caller coordinates concurrency.
// - Sentinel nil node to simplify rotations & fixups.
// - O(log n) Find/Insert/Delete; lazy in-order iterators.

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
)

var (
	ErrDuplicateKey = errors.New("key already present")
	ErrKeyNotFound  = errors.New("key not found")
)

type color uint8

const (
	red   color = 0
	black color = 1
)

type node[K cmp.Ordered, V any] struct {
	key    K
	value  V
	color  color
	left   *node[K, V]
	right  *node[K, V]
	parent *node[K, V]
}

type Tree[K cmp.Ordered, V any] struct {
	root *node[K, V]
	nil  *node[K, V] // sentinel (black)
	size int
}

// New constructs an empty tree with a black sentinel.
func New[K cmp.Ordered, V any]() *Tree[K, V] {
	nilNode := &node[K, V]{color: black}
	return &Tree[K, V]{
		root: nilNode,
		nil:  nilNode,
	}
}

// Len returns the number of keys currently present.
func (t *Tree[K, V]) Len() int { return t.size }

// Find returns the value stored under k.
func (t *Tree[K, V]) Find(k K) (V, error) {
	n := t.searchNode(k)
	if n == t.nil {
		var zero V
		return zero, ErrKeyNotFound
	}
	return n.value, nil
}

// Contains reports whether k is present.
func (t *Tree[K, V]) Contains(k K) bool {
	return t.searchNode(k) != t.nil
}

// Insert adds k -> v. Existing keys are never overwritten.
func (t *Tree[K, V]) Insert(k K, v V) error {
	y := t.nil
	x := t.root
	for x != t.nil {
		y = x
		switch {
		case k < x.key:
			x = x.left
		case k > x.key:
			x = x.right
		default:
			return fmt.Errorf("%w: %v", ErrDuplicateKey, k)
		}
	}

	z := &node[K, V]{
		key:    k,
		value:  v,
		color:  red, // new insertions start red
		left:   t.nil,
		right:  t.nil,
		parent: y,
	}

	if y == t.nil {
		t.root = z
	} else if z.key < y.key {
		y.left = z
	} else {
		y.right = z
	}
	t.insertFixup(z)
	t.size++
	return nil
}

// Delete removes k and returns the value it held.
func (t *Tree[K, V]) Delete(k K) (V, error) {
	z := t.searchNode(k)
	if z == t.nil {
		var zero V
		return zero, ErrKeyNotFound
	}
	v := z.value
	t.deleteNode(z)
	t.size--
	return v, nil
}

// Min returns the smallest key and its value.
func (t *Tree[K, V]) Min() (K, V, bool) {
	n := t.minNode(t.root)
	if n == t.nil {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	return n.key, n.value, true
}

// Ascend yields every pair in ascending key order. The sequence is lazy and
// can be ranged over again; it must not be used across a mutation.
func (t *Tree[K, V]) Ascend() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := t.minNode(t.root); n != t.nil; n = t.next(n) {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Range yields pairs with lo <= key <= hi in ascending order.
func (t *Tree[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if lo > hi {
			return
		}
		for n := t.ceilNode(lo); n != t.nil && n.key <= hi; n = t.next(n) {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[K, V]) Height() int {
	return t.height(t.root)
}

func (t *Tree[K, V]) height(n *node[K, V]) int {
	if n == t.nil {
		return 0
	}
	return 1 + max(t.height(n.left), t.height(n.right))
}

/*************** Internal helpers (nodes & search) ***************/

func (t *Tree[K, V]) searchNode(k K) *node[K, V] {
	n := t.root
	for n != t.nil {
		if k < n.key {
			n = n.left
		} else if k > n.key {
			n = n.right
		} else {
			return n
		}
	}
	return t.nil
}

// ceilNode returns the node with the smallest key >= k.
func (t *Tree[K, V]) ceilNode(k K) *node[K, V] {
	n := t.root
	ceil := t.nil
	for n != t.nil {
		if k <= n.key {
			ceil = n
			n = n.left
		} else {
			n = n.right
		}
	}
	return ceil
}

func (t *Tree[K, V]) minNode(n *node[K, V]) *node[K, V] {
	if n == t.nil {
		return t.nil
	}
	for n.left != t.nil {
		n = n.left
	}
	return n
}

// In-order successor
func (t *Tree[K, V]) next(n *node[K, V]) *node[K, V] {
	if n.right != t.nil {
		return t.minNode(n.right)
	}
	p := n.parent
	for p != t.nil && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

/******************** Rotations & Fixups ********************/

func (t *Tree[K, V]) leftRotate(x *node[K, V]) {
	y := x.right
	x.right = y.left
	if y.left != t.nil {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.nil {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *Tree[K, V]) rightRotate(y *node[K, V]) {
	x := y.left
	y.left = x.right
	if x.right != t.nil {
		x.right.parent = y
	}
	x.parent = y.parent
	if y.parent == t.nil {
		t.root = x
	} else if y == y.parent.right {
		y.parent.right = x
	} else {
		y.parent.left = x
	}
	x.right = y
	y.parent = x
}

func (t *Tree[K, V]) insertFixup(z *node[K, V]) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			u := z.parent.parent.right
			if u.color == red {
				// uncle red: recolor and move up
				z.parent.color = black
				u.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					// triangle: turn into a line
					z = z.parent
					t.leftRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rightRotate(z.parent.parent)
			}
		} else {
			u := z.parent.parent.left
			if u.color == red {
				z.parent.color = black
				u.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rightRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.leftRotate(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

func (t *Tree[K, V]) transplant(u, v *node[K, V]) {
	if u.parent == t.nil {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *Tree[K, V]) deleteNode(z *node[K, V]) {
	y := z
	yOrigColor := y.color
	var x *node[K, V]

	if z.left == t.nil {
		x = z.right
		t.transplant(z, z.right)
	} else if z.right == t.nil {
		x = z.left
		t.transplant(z, z.left)
	} else {
		y = t.minNode(z.right) // successor
		yOrigColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOrigColor == black {
		t.deleteFixup(x)
	}

	// The sentinel's parent is scratch space during fixup.
	t.nil.parent = nil
}

// deleteFixup resolves the extra black carried by x.
func (t *Tree[K, V]) deleteFixup(x *node[K, V]) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				// sibling red: rotate so the sibling becomes black
				w.color = black
				x.parent.color = red
				t.leftRotate(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				// sibling black, both children black: push the extra black up
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					// near child red: rotate it into the far position
					w.left.color = black
					w.color = red
					t.rightRotate(w)
					w = x.parent.right
				}
				// far child red: rotate parent and finish
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				t.leftRotate(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rightRotate(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					t.leftRotate(w)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				t.rightRotate(x.parent)
				x = t.root
			}
		}
	}
	x.color = black
}
