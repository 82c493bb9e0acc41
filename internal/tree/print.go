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
	"bytes"
	"fmt"
)

// String renders the tree for debugging.  Each node prints as
// (key value priority reduced left right) with _ standing for a missing
// child; the exact whitespace is not a contract.
func (t *Tree[K, V, R, M]) String() string {
	buffer := new(bytes.Buffer)
	buffer.WriteByte('{')
	if t.root != nil {
		t.root.describe(buffer)
	}
	buffer.WriteByte('}')
	return buffer.String()
}

func (n *node[K, V, R]) describe(buffer *bytes.Buffer) {
	if n == nil {
		buffer.WriteByte('_')
		return
	}
	fmt.Fprintf(buffer, "(%v %v %d %v ", n.key, n.value, n.priority, n.reduced)
	n.left.describe(buffer)
	buffer.WriteByte(' ')
	n.right.describe(buffer)
	buffer.WriteByte(')')
}
