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

// Package tree implements an in-memory ordered map that also maintains, at
// every node, the reduction of the subtree below it under a user-supplied
// associative reducer.  Prefix folds over key ranges therefore run in
// logarithmic expected time.
//
// The tree is a treap: a binary search tree on keys that is simultaneously
// heap ordered on per-node random priorities, which gives expected
// logarithmic depth without any balancing metadata.
//
// We don't try to be compatible with an iterator-style map API.  Insert
// reports whether the insertion happened, Find returns the matching entry
// together with its subtree reduction, and iteration goes through ForAll,
// which applies a functor to every entry in key order.
//
// Write operations are not safe for concurrent mutation by multiple
// goroutines, but read operations are.
package tree

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/exp/constraints"
)

// Tree is an ordered map from K to V carrying cached range reductions of
// type R, maintained through the reducer M.
type Tree[K constraints.Ordered, V, R any, M Reducer[K, V, R]] struct {
	reducer M
	root    *node[K, V, R]
	size    int
	rng     *rand.Rand
}

// New creates an empty tree.  Each tree draws node priorities from its own
// generator so that the shapes of distinct trees are independent.
func New[K constraints.Ordered, V, R any, M Reducer[K, V, R]]() *Tree[K, V, R, M] {
	return &Tree[K, V, R, M]{rng: rand.New(rand.NewSource(seed()))}
}

// seed returns a non-deterministic seed for a tree's priority generator.
func seed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Insert inserts {key, value} into the tree, if it's not there.  If it is
// there, nothing is changed.
//
// Returns true if the insertion happened, false if the key was already there.
func (t *Tree[K, V, R, M]) Insert(key K, value V) bool {
	if t.root.find(key) != nil {
		return false
	}
	n := &node[K, V, R]{
		priority: t.rng.Uint64(),
		key:      key,
		value:    value,
	}
	t.root = insert(t.reducer, t.root, n)
	t.size++
	return true
}

// Find looks for key in the tree.  On a hit it returns the associated value
// and the reduction of the subtree rooted at the matching node; note that
// the latter is a subtree fold, not a range fold ending at key.
func (t *Tree[K, V, R, M]) Find(key K) (value V, reduced R, ok bool) {
	n := t.root.find(key)
	if n == nil {
		return
	}
	return n.value, n.reduced, true
}

// Erase removes the entry whose key equals key, if there is one.  Returns
// true if an entry was removed.
func (t *Tree[K, V, R, M]) Erase(key K) bool {
	root, erased := erase(t.reducer, t.root, key)
	t.root = root
	if erased {
		t.size--
	}
	return erased
}

// PrefixLt returns the reduction of all entries whose keys are < key,
// combined in ascending key order.  On an empty tree it returns the
// reducer's identity.
func (t *Tree[K, V, R, M]) PrefixLt(key K) R {
	return prefixLt(t.reducer, t.root, key)
}

// ForAll applies fn to every entry in ascending key order, quitting early if
// fn ever returns false.  Returns true if fn returned true every time it was
// called; on an empty tree it returns true.  The reduction passed to fn is
// the subtree reduction at the visited node.
func (t *Tree[K, V, R, M]) ForAll(fn func(key K, value V, reduced R) bool) bool {
	return t.root.forAll(fn)
}

// Len returns the number of entries currently in the tree.
func (t *Tree[K, V, R, M]) Len() int {
	return t.size
}

// Empty reports whether the tree has no entries.
func (t *Tree[K, V, R, M]) Empty() bool {
	return t.size == 0
}

// Validate checks the search order, the priority heap order and the cached
// reductions of the whole tree, and that the running size matches the node
// count.  It returns nil if every invariant holds.
func (t *Tree[K, V, R, M]) Validate() error {
	size, err := validate(t.reducer, t.root, nil, nil)
	if err != nil {
		return err
	}
	if size != t.size {
		return fmt.Errorf("tree: counted %d nodes, size is %d", size, t.size)
	}
	return nil
}
