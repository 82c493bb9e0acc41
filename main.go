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

// Package main drives the first-fit allocation experiment: it runs a random
// mix of allocations and frees against the allocator and reports how much of
// the address space first fit had to grow into.
package main

import (
	"flag"
	"math/rand"

	"github.com/golang/glog"
	"github.com/kuszmaul/first-fit-experiments/fitness"
)

func main() {
	ops := flag.Int("n", 1<<16, "The number of operations to perform")
	maxSize := flag.Uint64("max-size", 64, "The largest block size to request")
	seed := flag.Int64("seed", 1, "The workload seed")
	flag.Parse()
	defer glog.Flush()

	run(*ops, *maxSize, *seed)
}

func run(ops int, maxSize uint64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	allocator := fitness.New()
	live := make([]fitness.Block, 0, ops)

	for i := 0; i < ops; i++ {
		if 0 < len(live) && rng.Intn(2) == 0 {
			index := rng.Intn(len(live))
			if err := allocator.Free(live[index]); err != nil {
				glog.Fatalf("failed to free: %v", err)
			}
			live[index] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		live = append(live, allocator.Alloc(rng.Uint64()%maxSize+1))
	}

	glog.Infof("performed %d operations: %d live blocks, %d bytes allocated, high water %d",
		ops, allocator.Len(), allocator.Allocated(), allocator.HighWater())
}
