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

// Package fitness implements a toy first-fit allocator over an unbounded
// address space.  The allocated blocks live in a reducer tree keyed by block
// start, so the allocator doubles as an exercise of the tree as an ordered
// interval index: the usage reducer keeps the total allocated length and the
// rightmost extent of every key range.
package fitness

import (
	"fmt"
	"math"

	"github.com/kuszmaul/first-fit-experiments/internal/tree"
)

// Block identifies an allocated address range.
type Block struct {
	Start  uint64
	Length uint64
}

func (b Block) String() string {
	return fmt.Sprintf("{%d, %d}", b.Start, b.Length)
}

// Usage summarizes a contiguous run of allocated blocks.
type Usage struct {
	// Bytes is the total length of the blocks in the run.
	Bytes uint64

	// End is the largest start+length among the blocks in the run.
	End uint64
}

// usageReducer accumulates Usage over key ranges of the block index.
type usageReducer struct{}

func (usageReducer) Identity() Usage {
	return Usage{}
}

func (usageReducer) Seed(start, length uint64) Usage {
	return Usage{Bytes: length, End: start + length}
}

func (usageReducer) Combine(left, right Usage) Usage {
	end := left.End
	if end < right.End {
		end = right.End
	}
	return Usage{Bytes: left.Bytes + right.Bytes, End: end}
}

func (usageReducer) Equal(a, b Usage) bool {
	return a == b
}

// FirstFit places each allocation at the lowest address where it fits and
// remembers the high-water mark of the space it has had to extend into.
type FirstFit struct {
	blocks    *tree.Tree[uint64, uint64, Usage, usageReducer]
	highWater uint64
}

// New creates a first-fit allocator with no live blocks.
func New() *FirstFit {
	return &FirstFit{blocks: tree.New[uint64, uint64, Usage, usageReducer]()}
}

// Alloc allocates a block of the given size at the first gap that can hold
// it, extending the space past the last live block when no gap can.
// size must be positive.
func (f *FirstFit) Alloc(size uint64) Block {
	var (
		prevEnd uint64
		start   uint64
		found   bool
	)
	f.blocks.ForAll(func(blockStart, length uint64, _ Usage) bool {
		if size <= blockStart-prevEnd {
			start, found = prevEnd, true
			return false
		}
		prevEnd = blockStart + length
		return true
	})
	if !found {
		start = prevEnd
		if f.highWater < start+size {
			f.highWater = start + size
		}
	}
	f.blocks.Insert(start, size)
	return Block{Start: start, Length: size}
}

// Free releases a previously allocated block.  Freeing a block that was
// never allocated, or one whose length disagrees with the allocation, is an
// error and leaves the allocator unchanged.
func (f *FirstFit) Free(b Block) error {
	length, _, ok := f.blocks.Find(b.Start)
	if !ok {
		return fmt.Errorf("fitness: free of unallocated block %v", b)
	}
	if length != b.Length {
		return fmt.Errorf("fitness: free of block %v recorded with length %d", b, length)
	}
	f.blocks.Erase(b.Start)
	return nil
}

// Allocated returns the total length of the live blocks.
func (f *FirstFit) Allocated() uint64 {
	// Block extents fit in the address space, so no block starts at the
	// maximal address and the prefix below covers every live block.
	return f.blocks.PrefixLt(math.MaxUint64).Bytes
}

// HighWater returns the largest extent the allocator has ever grown to.
func (f *FirstFit) HighWater() uint64 {
	return f.highWater
}

// Len returns the number of live blocks.
func (f *FirstFit) Len() int {
	return f.blocks.Len()
}
