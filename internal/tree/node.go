// Copyright 2023 The first-fit-experiments Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tree

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// node is a subtree handle.  A nil *node is the empty subtree.
//
// It must at all times maintain the invariants that
//   - every key in left is < key and every key in right is > key,
//   - priority >= the priority of either child,
//   - reduced equals the in-order fold of the subtree rooted here.
//
// key, value and priority never change once the node is installed; only the
// children and the cached reduction do.
type node[K constraints.Ordered, V, R any] struct {
	priority uint64
	key      K
	value    V
	reduced  R
	left     *node[K, V, R]
	right    *node[K, V, R]
}

// find returns the node holding key, or nil.
func (n *node[K, V, R]) find(key K) *node[K, V, R] {
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// forAll applies fn to every entry in ascending key order, quitting early if
// fn ever returns false.  Returns true if fn returned true every time.
// The reduction passed to fn is the cached fold of the subtree rooted at the
// visited node, not a running prefix.
func (n *node[K, V, R]) forAll(fn func(key K, value V, reduced R) bool) bool {
	if n == nil {
		return true
	}
	return n.left.forAll(fn) && fn(n.key, n.value, n.reduced) && n.right.forAll(fn)
}

// recompute refreshes n.reduced from n's entry and the cached reductions of
// its children.  Every routine that replaces a child must call recompute on
// the node before returning its handle; the combine sequence below is the
// in-order one, which non-commutative reducers depend on.
func recompute[K constraints.Ordered, V, R any, M Reducer[K, V, R]](m M, n *node[K, V, R]) {
	r := m.Seed(n.key, n.value)
	if n.left != nil {
		r = m.Combine(n.left.reduced, r)
	}
	if n.right != nil {
		r = m.Combine(r, n.right.reduced)
	}
	n.reduced = r
}

// reduce returns the cached reduction of a subtree, or the identity for the
// empty subtree.
func reduce[K constraints.Ordered, V, R any, M Reducer[K, V, R]](m M, n *node[K, V, R]) R {
	if n == nil {
		return m.Identity()
	}
	return n.reduced
}

// insert inserts n into the subtree rooted at root, returning the new root of
// the subtree.  n must be childless and its key must not be in the subtree.
//
// When n's priority does not beat root's, root stays and we descend by key;
// otherwise n becomes the new subtree root and root is split around n's key.
// On a priority tie the existing root stays, which validate's tie-tolerant
// heap check accepts.
func insert[K constraints.Ordered, V, R any, M Reducer[K, V, R]](m M, root, n *node[K, V, R]) *node[K, V, R] {
	if root == nil {
		recompute(m, n)
		return n
	}
	if n.priority <= root.priority {
		switch {
		case n.key < root.key:
			root.left = insert(m, root.left, n)
		case n.key > root.key:
			root.right = insert(m, root.right, n)
		default:
			panic(fmt.Sprintf("tree: insert of duplicate key %v", n.key))
		}
		recompute(m, root)
		return root
	}
	n.left, n.right = split(m, root, n.key)
	recompute(m, n)
	return n
}

// split partitions a subtree into the entries with keys < key and those with
// keys > key.  key must not be present in the subtree.
func split[K constraints.Ordered, V, R any, M Reducer[K, V, R]](m M, n *node[K, V, R], key K) (left, right *node[K, V, R]) {
	if n == nil {
		return nil, nil
	}
	switch {
	case key < n.key:
		left, n.left = split(m, n.left, key)
		recompute(m, n)
		return left, n
	case key > n.key:
		n.right, right = split(m, n.right, key)
		recompute(m, n)
		return n, right
	default:
		panic(fmt.Sprintf("tree: split on key %v present in the tree", key))
	}
}

// merge combines two subtrees into one.  Every key in a must be < every key
// in b.  Both inputs are heap ordered, so whichever root has the higher
// priority becomes the root of the result.
func merge[K constraints.Ordered, V, R any, M Reducer[K, V, R]](m M, a, b *node[K, V, R]) *node[K, V, R] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.priority > b.priority {
		a.right = merge(m, a.right, b)
		recompute(m, a)
		return a
	}
	b.left = merge(m, a, b.left)
	recompute(m, b)
	return b
}

// erase removes the node holding key, if any, returning the new subtree root
// and whether a node was removed.
func erase[K constraints.Ordered, V, R any, M Reducer[K, V, R]](m M, n *node[K, V, R], key K) (*node[K, V, R], bool) {
	if n == nil {
		return nil, false
	}
	var erased bool
	switch {
	case key < n.key:
		n.left, erased = erase(m, n.left, key)
	case key > n.key:
		n.right, erased = erase(m, n.right, key)
	default:
		return merge(m, n.left, n.right), true
	}
	recompute(m, n)
	return n, erased
}

// prefixLt returns the fold over all entries with keys strictly less than
// key, combined in ascending key order.  The cached subtree reductions make
// this logarithmic: whole left subtrees contribute their cached value.
func prefixLt[K constraints.Ordered, V, R any, M Reducer[K, V, R]](m M, n *node[K, V, R], key K) R {
	if n == nil {
		return m.Identity()
	}
	switch {
	case key < n.key:
		return prefixLt(m, n.left, key)
	case key > n.key:
		return m.Combine(m.Combine(reduce(m, n.left), m.Seed(n.key, n.value)), prefixLt(m, n.right, key))
	default:
		return reduce(m, n.left)
	}
}

// validate checks the subtree rooted at n: every key must lie strictly
// between lo and hi where given, the priority heap must hold against each
// child (ties allowed), and the cached reduction must equal the recomputed
// fold.  Returns the subtree node count.
func validate[K constraints.Ordered, V, R any, M Reducer[K, V, R]](m M, n *node[K, V, R], lo, hi *K) (int, error) {
	if n == nil {
		return 0, nil
	}
	if lo != nil && !(*lo < n.key) {
		return 0, fmt.Errorf("tree: key %v at or below lower bound %v", n.key, *lo)
	}
	if hi != nil && !(n.key < *hi) {
		return 0, fmt.Errorf("tree: key %v at or above upper bound %v", n.key, *hi)
	}
	if n.left != nil && n.priority < n.left.priority {
		return 0, fmt.Errorf("tree: key %v has priority %d below left child's %d", n.key, n.priority, n.left.priority)
	}
	if n.right != nil && n.priority < n.right.priority {
		return 0, fmt.Errorf("tree: key %v has priority %d below right child's %d", n.key, n.priority, n.right.priority)
	}
	leftSize, err := validate(m, n.left, lo, &n.key)
	if err != nil {
		return 0, err
	}
	rightSize, err := validate(m, n.right, &n.key, hi)
	if err != nil {
		return 0, err
	}
	want := m.Seed(n.key, n.value)
	if n.left != nil {
		want = m.Combine(n.left.reduced, want)
	}
	if n.right != nil {
		want = m.Combine(want, n.right.reduced)
	}
	if !m.Equal(want, n.reduced) {
		return 0, fmt.Errorf("tree: key %v caches reduction %v, recomputed %v", n.key, n.reduced, want)
	}
	return 1 + leftSize + rightSize, nil
}
