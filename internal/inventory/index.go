// Package inventory maintains the ordered gear collection keyed by id.
package inventory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/gearopt/internal/gear"
)

// ErrGearNotFound indicates a gear id absent from the inventory.
var ErrGearNotFound = errors.New("gear not found in inventory")

// Index is an id-ordered collection of gear. Ids are assigned sequentially by
// Append, so the backing slice stays sorted without reordering. Index is not
// safe for concurrent mutation; the optimizer and importer only mutate it
// from the coordinating goroutine.
type Index struct {
	gears []*gear.Gear
}

// NewIndex builds an Index over the given gear, sorting by id.
//
// Postcondition: the index owns the slice; callers must not retain it.
func NewIndex(gears []*gear.Gear) *Index {
	sort.SliceStable(gears, func(i, j int) bool { return gears[i].ID < gears[j].ID })
	return &Index{gears: gears}
}

// Len returns the number of gear pieces held.
func (x *Index) Len() int {
	return len(x.gears)
}

// Gears returns the pieces in id order. The returned slice is shared with the
// index and must be treated as read-only.
func (x *Index) Gears() []*gear.Gear {
	return x.gears
}

// search locates the position of id in the sorted slice.
func (x *Index) search(id int) (int, bool) {
	i := sort.Search(len(x.gears), func(i int) bool { return x.gears[i].ID >= id })
	if i < len(x.gears) && x.gears[i].ID == id {
		return i, true
	}
	return 0, false
}

// Get returns the gear with the given id.
//
// Postcondition: returns ErrGearNotFound (wrapped with the id) when absent.
func (x *Index) Get(id int) (*gear.Gear, error) {
	i, ok := x.search(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrGearNotFound, id)
	}
	return x.gears[i], nil
}

// SetUsage flips the in-use flag of the gear with the given id in place.
//
// Postcondition: returns ErrGearNotFound (wrapped with the id) when absent.
func (x *Index) SetUsage(id int, inUse bool) error {
	i, ok := x.search(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrGearNotFound, id)
	}
	x.gears[i].InUse = inUse
	return nil
}

// Append assigns g the next sequential id and adds it to the collection.
// Because ids only ever grow, appending preserves sort order.
//
// Postcondition: g.ID == previous max id + 1, or 0 for an empty index.
func (x *Index) Append(g *gear.Gear) int {
	g.ID = 0
	if n := len(x.gears); n > 0 {
		g.ID = x.gears[n-1].ID + 1
	}
	x.gears = append(x.gears, g)
	return g.ID
}

// BySlot returns the not-in-use pieces occupying the given slot, in id order.
func (x *Index) BySlot(slot gear.Slot) []*gear.Gear {
	var out []*gear.Gear
	for _, g := range x.gears {
		if g.Slot == slot && !g.InUse {
			out = append(out, g)
		}
	}
	return out
}
