package inventory_test

import (
	"errors"
	"testing"

	"github.com/cory-johannsen/gearopt/internal/gear"
	"github.com/cory-johannsen/gearopt/internal/inventory"
)

func piece(id int, slot gear.Slot) *gear.Gear {
	return &gear.Gear{
		ID:   id,
		Slot: slot,
		Set:  gear.SetSpeed,
		Main: gear.Stat{Kind: gear.StatAttack, Value: 100, IsFlat: true},
	}
}

func TestNewIndex_SortsByID(t *testing.T) {
	idx := inventory.NewIndex([]*gear.Gear{
		piece(7, gear.SlotWeapon),
		piece(2, gear.SlotHelmet),
		piece(5, gear.SlotArmor),
	})
	gears := idx.Gears()
	for i := 1; i < len(gears); i++ {
		if gears[i-1].ID >= gears[i].ID {
			t.Fatalf("index not sorted: id %d before id %d", gears[i-1].ID, gears[i].ID)
		}
	}
}

func TestGet(t *testing.T) {
	idx := inventory.NewIndex([]*gear.Gear{
		piece(0, gear.SlotWeapon),
		piece(1, gear.SlotHelmet),
		piece(3, gear.SlotArmor),
	})

	g, err := idx.Get(3)
	if err != nil {
		t.Fatal(err)
	}
	if g.Slot != gear.SlotArmor {
		t.Fatalf("Get(3) returned slot %v, want %v", g.Slot, gear.SlotArmor)
	}

	// Id 2 sits in a gap of the sorted ids.
	if _, err := idx.Get(2); !errors.Is(err, inventory.ErrGearNotFound) {
		t.Fatalf("Get(2): expected ErrGearNotFound, got %v", err)
	}
	if _, err := idx.Get(99); !errors.Is(err, inventory.ErrGearNotFound) {
		t.Fatalf("Get(99): expected ErrGearNotFound, got %v", err)
	}
}

func TestSetUsage(t *testing.T) {
	idx := inventory.NewIndex([]*gear.Gear{piece(0, gear.SlotWeapon)})

	if err := idx.SetUsage(0, true); err != nil {
		t.Fatal(err)
	}
	g, err := idx.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if !g.InUse {
		t.Fatal("SetUsage(0, true) did not flag the piece in use")
	}

	if err := idx.SetUsage(1, true); !errors.Is(err, inventory.ErrGearNotFound) {
		t.Fatalf("SetUsage(1): expected ErrGearNotFound, got %v", err)
	}
}

func TestAppend_AssignsSequentialIDs(t *testing.T) {
	idx := inventory.NewIndex(nil)

	if id := idx.Append(piece(99, gear.SlotWeapon)); id != 0 {
		t.Fatalf("first Append assigned id %d, want 0", id)
	}
	if id := idx.Append(piece(99, gear.SlotHelmet)); id != 1 {
		t.Fatalf("second Append assigned id %d, want 1", id)
	}

	// Ids continue from the max even when the existing sequence has gaps.
	idx = inventory.NewIndex([]*gear.Gear{piece(0, gear.SlotWeapon), piece(4, gear.SlotRing)})
	if id := idx.Append(piece(99, gear.SlotBoot)); id != 5 {
		t.Fatalf("Append after gap assigned id %d, want 5", id)
	}
}

func TestBySlot_SkipsInUse(t *testing.T) {
	ring := piece(1, gear.SlotRing)
	ring.InUse = true
	idx := inventory.NewIndex([]*gear.Gear{
		piece(0, gear.SlotRing),
		ring,
		piece(2, gear.SlotRing),
		piece(3, gear.SlotBoot),
	})

	rings := idx.BySlot(gear.SlotRing)
	if len(rings) != 2 {
		t.Fatalf("BySlot returned %d rings, want 2", len(rings))
	}
	if rings[0].ID != 0 || rings[1].ID != 2 {
		t.Fatalf("BySlot returned ids %d,%d, want 0,2", rings[0].ID, rings[1].ID)
	}
}
