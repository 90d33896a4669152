// Package lane hands out the horizontal tracks used by the commit graph.
//
// An Allocator always returns the smallest free lane so that the drawing stays
// compact; released lanes are reused by older commits further down the graph.
package lane

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNotAllocated is matched by every *NotAllocatedError.
var ErrNotAllocated = errors.New("lane not allocated")

// NotAllocatedError reports a release of a lane that was never handed out (or
// was already released). It always signals broken lane bookkeeping.
type NotAllocatedError struct {
	Lane int
}

func (e *NotAllocatedError) Error() string {
	return fmt.Sprintf("cannot release not allocated lane %d", e.Lane)
}

func (e *NotAllocatedError) Is(target error) bool {
	return target == ErrNotAllocated
}

// Allocator hands out the lowest free lane number.
type Allocator struct {
	allocated map[int]struct{}
}

// New returns an allocator with no lane in use.
func New() *Allocator {
	return &Allocator{allocated: make(map[int]struct{})}
}

// Allocate reserves and returns the lowest lane not currently in use.
func (a *Allocator) Allocate() int {
	if a.allocated == nil {
		a.allocated = make(map[int]struct{})
	}
	v := 0
	for {
		if _, ok := a.allocated[v]; !ok {
			break
		}
		v++
	}
	a.allocated[v] = struct{}{}
	return v
}

// Release gives v back to the pool. The set is left untouched on error.
func (a *Allocator) Release(v int) error {
	if _, ok := a.allocated[v]; !ok {
		return &NotAllocatedError{Lane: v}
	}
	delete(a.allocated, v)
	return nil
}

func (a *Allocator) IsAllocated(v int) bool {
	_, ok := a.allocated[v]
	return ok
}

// Allocated returns the lanes in use in ascending order.
func (a *Allocator) Allocated() []int {
	out := make([]int, 0, len(a.allocated))
	for v := range a.allocated {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func (a *Allocator) Len() int {
	return len(a.allocated)
}

// Copy returns an independent allocator holding the same lanes.
func (a *Allocator) Copy() *Allocator {
	cp := New()
	for v := range a.allocated {
		cp.allocated[v] = struct{}{}
	}
	return cp
}
