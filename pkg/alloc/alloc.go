// Package alloc holds the three ways of getting a zeroed array of Size ints:
// process-wide static storage, the stack frame, and an explicit heap allocator.
package alloc

import (
	"sync"
)

// Size is the element count of every array.
const Size = 10_000

// Array is the fixed-size buffer every strategy allocates.
type Array [Size]int

// A global "black-hole" stops the compiler from eliminating the allocation.
// probe is a variable so the read cannot be folded into a constant.
var (
	sink  int
	probe = Size - 1
)

var (
	staticOnce  sync.Once
	staticArr   *Array
	staticInits int
)

// Static touches the process-wide array, creating it on the first call only.
//
//go:noinline
func Static() {
	sink = StaticArray()[probe]
}

// StaticArray returns the process-wide array, creating it if needed.
func StaticArray() *Array {
	staticOnce.Do(func() {
		staticArr = new(Array)
		staticInits++
	})
	return staticArr
}

// StaticInits reports how many times the static array was created.
func StaticInits() int { return staticInits }

// Stack declares a fresh zeroed array in its own frame on every call.
// arr does NOT escape: it is reclaimed when Stack returns.
//
//go:noinline
func Stack() {
	var arr Array
	sink = arr[probe]
}
