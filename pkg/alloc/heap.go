package alloc

import (
	"io"
	"unsafe"

	"github.com/pkg/errors"
	"modernc.org/memory"
)

// intSize is the byte size of one element.
const intSize = int(unsafe.Sizeof(int(0)))

// Allocator hands out zeroed memory that must be given back explicitly.
// *memory.Allocator satisfies it.
type Allocator interface {
	Calloc(size int) ([]byte, error)
	Free(b []byte) error
}

// Heap allocates and releases one Array per Run through an Allocator.
// The memory lives outside the Go heap, so nothing but Free reclaims it.
//
// A Heap is not safe for concurrent use.
type Heap struct {
	alloc Allocator
	live  int
}

// NewHeap returns a Heap drawing from a.
func NewHeap(a Allocator) *Heap {
	return &Heap{alloc: a}
}

// Run acquires a zeroed array, touches it and releases it before returning.
// If the acquisition fails nothing is released and an *AllocationError is returned.
func (h *Heap) Run() error {
	return h.run(nil)
}

// run is Run with an optional look at the array before it is released.
func (h *Heap) run(inspect func([]int)) (err error) {
	b, err := h.alloc.Calloc(Size * intSize)
	if err != nil {
		return errors.WithStack(&AllocationError{Size: Size * intSize, Err: err})
	}
	h.live++
	defer func() {
		if ferr := h.alloc.Free(b); ferr != nil {
			if err == nil {
				err = errors.Wrap(ferr, "free")
			}
			return
		}
		h.live--
	}()

	arr := unsafe.Slice((*int)(unsafe.Pointer(&b[0])), Size)
	if inspect != nil {
		inspect(arr)
	}
	sink = arr[probe]
	return nil
}

// Live reports how many arrays are acquired and not yet released.
func (h *Heap) Live() int { return h.live }

// Close releases the allocator's own resources, if it has any.
func (h *Heap) Close() error {
	if c, ok := h.alloc.(io.Closer); ok {
		return errors.Wrap(c.Close(), "close allocator")
	}
	return nil
}

var defaultHeap = NewHeap(new(memory.Allocator))

// HeapArray runs the process-wide Heap, backed by a memory.Allocator.
//
//go:noinline
func HeapArray() error {
	return defaultHeap.Run()
}

// DefaultHeap returns the process-wide Heap used by HeapArray.
func DefaultHeap() *Heap { return defaultHeap }
