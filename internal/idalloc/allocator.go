// Package idalloc hands out positive integer ids for a single record collection.
// Ids returned with ReturnUnused are reissued, smallest first, before new ones are minted.
package idalloc

import "sort"

// None is never issued and marks a missing id.
const None uint = 0

// Allocator is not safe for concurrent use; the owning store serializes access.
type Allocator struct {
	current uint
	free    []uint // ascending, no duplicates
}

func New() *Allocator {
	return &Allocator{}
}

// Next returns the smallest freed id if any, otherwise the next counter value.
func (a *Allocator) Next() uint {
	if len(a.free) > 0 {
		id := a.free[0]
		a.free = a.free[1:]
		return id
	}
	a.current++
	return a.current
}

// Current is the high-water mark of the running counter.
func (a *Allocator) Current() uint { return a.current }

// Zero resets the counter and forgets every freed id.
func (a *Allocator) Zero() {
	a.current = 0
	a.free = nil
}

// MarkUsed resynchronizes the allocator with ids known to be in use, e.g. after a load.
// The counter becomes the largest used id and freed ids above it are dropped,
// since the counter will mint them again.
func (a *Allocator) MarkUsed(used []uint) {
	if len(used) == 0 {
		a.Zero()
		return
	}
	inUse := make(map[uint]struct{}, len(used))
	var top uint
	for _, id := range used {
		inUse[id] = struct{}{}
		if id > top {
			top = id
		}
	}
	a.current = top
	kept := a.free[:0]
	for _, id := range a.free {
		if _, ok := inUse[id]; ok || id > top {
			continue
		}
		kept = append(kept, id)
	}
	a.free = kept
}

// ReturnUnused makes id available again. The caller guarantees nothing references it.
func (a *Allocator) ReturnUnused(id uint) {
	if id == None || id > a.current {
		return
	}
	i := sort.Search(len(a.free), func(i int) bool { return a.free[i] >= id })
	if i < len(a.free) && a.free[i] == id {
		return
	}
	a.free = append(a.free, 0)
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = id
}

// Clone returns an independent copy, used to stash allocator state around a mutation.
func (a *Allocator) Clone() *Allocator {
	c := &Allocator{current: a.current}
	if len(a.free) > 0 {
		c.free = append([]uint(nil), a.free...)
	}
	return c
}
