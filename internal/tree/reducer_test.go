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

import "fmt"

// concatReducer concatenates string keys in key order.  Being
// non-commutative, it catches any combine done out of in-order sequence.
type concatReducer struct{}

func (concatReducer) Identity() string                   { return "" }
func (concatReducer) Seed(key string, _ struct{}) string { return key }
func (concatReducer) Combine(left, right string) string  { return left + right }
func (concatReducer) Equal(a, b string) bool             { return a == b }

// lengthReducer sums the lengths of the string values.
type lengthReducer struct{}

func (lengthReducer) Identity() int                { return 0 }
func (lengthReducer) Seed(_ int, value string) int { return len(value) }
func (lengthReducer) Combine(left, right int) int  { return left + right }
func (lengthReducer) Equal(a, b int) bool          { return a == b }

// countReducer counts entries.
type countReducer struct{}

func (countReducer) Identity() int               { return 0 }
func (countReducer) Seed(_ int, _ struct{}) int  { return 1 }
func (countReducer) Combine(left, right int) int { return left + right }
func (countReducer) Equal(a, b int) bool         { return a == b }

// traceReducer records the visited keys as text, again non-commutative so
// that combine order shows in the result.
type traceReducer struct{}

func (traceReducer) Identity() string                  { return "" }
func (traceReducer) Seed(key, _ int) string            { return fmt.Sprintf("%d;", key) }
func (traceReducer) Combine(left, right string) string { return left + right }
func (traceReducer) Equal(a, b string) bool            { return a == b }
