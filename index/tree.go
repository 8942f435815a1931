// SPDX-License-Identifier: MIT

// Package index provides an AVL tree used to resolve ordered keys in logarithmic time.
package index

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// REF: https://www.geeksforgeeks.org/insertion-in-an-avl-tree
//
// REF: https://en.wikipedia.org/wiki/AVL_tree#Rebalancing

type (
	// Tree is a self-balancing binary search tree mapping keys to values.
	//
	// Keys are never removed; the zero value is an empty Tree ready for use.
	Tree[K constraints.Ordered, V any] struct {
		root *node[K, V]
		len  int
	}

	node[K constraints.Ordered, V any] struct {
		key   K
		value V

		// height of the subtree rooted at the node, a leaf has a height of 0.
		height int

		left  *node[K, V]
		right *node[K, V]
	}
)

const (
	// absentHeight is the height of a missing subtree.
	absentHeight = -1

	// maxImbalance is the largest height difference tolerated between sibling subtrees.
	maxImbalance = 1
)

// Validation errors.
var (
	ErrUnordered  = errors.New("breaks the search order")
	ErrHeight     = errors.New("holds a stale height")
	ErrUnbalanced = errors.New("is unbalanced")
)

// New instantiates a Tree.
func New[K constraints.Ordered, V any]() *Tree[K, V] { return &Tree[K, V]{} }

// Len is the number of keys held by the Tree.
func (t *Tree[K, V]) Len() int { return t.len }

// Height of the Tree's root; an empty Tree has a height of -1.
func (t *Tree[K, V]) Height() int { return t.root.getHeight() }

// Insert a key & its value into the Tree.
//
// An existing key is left untouched, inserted reports whether the key was added.
func (t *Tree[K, V]) Insert(key K, value V) (inserted bool) {
	t.root, inserted = t.root.insert(key, value)
	if inserted {
		t.len++
	}

	return
}

// Find the value stored for some key.
func (t *Tree[K, V]) Find(key K) (value V, ok bool) {
	current := t.root
	for current != nil {
		switch {
		case key < current.key:
			current = current.left
		case key > current.key:
			current = current.right
		default:
			return current.value, true
		}
	}

	return
}

// Ascend calls fn for every key in ascending order until fn returns false.
func (t *Tree[K, V]) Ascend(fn func(key K, value V) bool) { t.root.ascend(fn) }

// Validate checks the search order, the stored heights & the balance of every node.
func (t *Tree[K, V]) Validate() (err error) {
	_, err = t.root.validate(nil, nil)
	return
}

func (n *node[K, V]) insert(key K, value V) (*node[K, V], bool) {
	if n == nil {
		return &node[K, V]{key: key, value: value}, true
	}

	var inserted bool
	switch {
	case key < n.key:
		n.left, inserted = n.left.insert(key, value)
	case key > n.key:
		n.right, inserted = n.right.insert(key, value)
	default:
		return n, false
	}
	if !inserted {
		return n, false
	}

	n.resetHeight()

	return n.rebalance(), true
}

func (n *node[K, V]) getHeight() int {
	if n == nil {
		return absentHeight
	}

	return n.height
}

func (n *node[K, V]) resetHeight() {
	n.height = max(n.left.getHeight(), n.right.getHeight()) + 1
}

// balanceFactor is positive for a left-heavy node & negative for a right-heavy one.
func (n *node[K, V]) balanceFactor() int {
	if n == nil {
		return 0
	}

	return n.left.getHeight() - n.right.getHeight()
}

func (n *node[K, V]) rebalance() *node[K, V] {
	switch factor := n.balanceFactor(); {
	case factor > maxImbalance:
		// Left-right case.
		if n.left.balanceFactor() < 0 {
			n.left = n.left.rotateLeft()
		}

		return n.rotateRight()
	case factor < -maxImbalance:
		// Right-left case.
		if n.right.balanceFactor() > 0 {
			n.right = n.right.rotateRight()
		}

		return n.rotateLeft()
	default:
		return n
	}
}

func (n *node[K, V]) rotateLeft() *node[K, V] {
	pivot := n.right

	n.right = pivot.left
	pivot.left = n

	n.resetHeight()
	pivot.resetHeight()

	return pivot
}

func (n *node[K, V]) rotateRight() *node[K, V] {
	pivot := n.left

	n.left = pivot.right
	pivot.right = n

	n.resetHeight()
	pivot.resetHeight()

	return pivot
}

func (n *node[K, V]) ascend(fn func(K, V) bool) bool {
	if n == nil {
		return true
	}

	return n.left.ascend(fn) && fn(n.key, n.value) && n.right.ascend(fn)
}

// validate checks the subtree against the exclusive bounds lower & upper, returning its height.
func (n *node[K, V]) validate(lower, upper *K) (height int, err error) {
	if n == nil {
		return absentHeight, nil
	}

	if (lower != nil && n.key <= *lower) || (upper != nil && n.key >= *upper) {
		return 0, fmt.Errorf("key (%v) %w", n.key, ErrUnordered)
	}

	leftHeight, err := n.left.validate(lower, &n.key)
	if err != nil {
		return
	}
	rightHeight, err := n.right.validate(&n.key, upper)
	if err != nil {
		return
	}

	if height = max(leftHeight, rightHeight) + 1; height != n.height {
		return height, fmt.Errorf("key (%v) %w: %d, want %d", n.key, ErrHeight, n.height, height)
	}

	if diff := leftHeight - rightHeight; diff > maxImbalance || diff < -maxImbalance {
		err = fmt.Errorf("key (%v) %w: left %d, right %d", n.key, ErrUnbalanced, leftHeight, rightHeight)
	}

	return
}
