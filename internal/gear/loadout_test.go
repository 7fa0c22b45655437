package gear_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/gearopt/internal/gear"
)

// baseStats is the reference hero used throughout loadout tests.
func baseStats() gear.BaseStats {
	return gear.BaseStats{
		gear.StatAttack:        1000,
		gear.StatDefense:       500,
		gear.StatHealth:        5000,
		gear.StatSpeed:         100,
		gear.StatCritChance:    5,
		gear.StatCritDamage:    35,
		gear.StatEffectiveness: 0,
		gear.StatEffectResist:  0,
	}
}

// pieceOf returns a gear piece with the given slot, set, and main stat and no
// substats.
func pieceOf(id int, slot gear.Slot, set gear.Set, main gear.Stat) *gear.Gear {
	return &gear.Gear{ID: id, Slot: slot, Set: set, Main: main, Substats: nil}
}

// fillerLoadout builds a full loadout where every piece belongs to the given
// sets slice (indexed by slot) with a throwaway main stat.
func fillerLoadout(sets [gear.NumSlots]gear.Set) gear.Loadout {
	var l gear.Loadout
	for i, slot := range gear.Slots {
		l[i] = pieceOf(i, slot, sets[i], gear.Stat{Kind: gear.StatDefense, Value: 1, IsFlat: true})
	}
	return l
}

func TestAggregateStats_SingleFlatWeapon(t *testing.T) {
	weapon := pieceOf(0, gear.SlotWeapon, gear.SetUnity, gear.Stat{Kind: gear.StatAttack, Value: 100, IsFlat: true})
	l := gear.Loadout{weapon}

	agg := l.AggregateStats()
	if c := agg[gear.StatAttack]; c.Percent != 0 || c.Flat != 100 {
		t.Fatalf("Attack contribution = %+v, want {Percent:0 Flat:100}", c)
	}

	final := gear.Resolve(baseStats(), agg)
	if final[gear.StatAttack] != 1100 {
		t.Fatalf("final Attack = %d, want 1100", final[gear.StatAttack])
	}
}

func TestSets_FourPieceSetCompleted(t *testing.T) {
	// Four speed pieces and two unity pieces: speed (needs 4) completes,
	// unity (needs 2) completes as well.
	l := fillerLoadout([gear.NumSlots]gear.Set{
		gear.SetSpeed, gear.SetSpeed, gear.SetSpeed, gear.SetSpeed,
		gear.SetUnity, gear.SetUnity,
	})
	sets := l.Sets()
	if !containsSet(sets, gear.SetSpeed) {
		t.Errorf("Sets() = %v, want speed included", sets)
	}
	if !containsSet(sets, gear.SetUnity) {
		t.Errorf("Sets() = %v, want unity included", sets)
	}
}

func TestSets_ThreePiecesDoNotComplete(t *testing.T) {
	l := fillerLoadout([gear.NumSlots]gear.Set{
		gear.SetSpeed, gear.SetSpeed, gear.SetSpeed,
		gear.SetImmunity, gear.SetImmunity, gear.SetHealth,
	})
	if sets := l.Sets(); containsSet(sets, gear.SetSpeed) {
		t.Errorf("Sets() = %v: three speed pieces must not complete the set", sets)
	}
}

func TestAggregateStats_SetBonusAddedOnce(t *testing.T) {
	// Four speed pieces: the completed set adds its 25% speed bonus exactly
	// once, on top of the pieces' own stats.
	l := fillerLoadout([gear.NumSlots]gear.Set{
		gear.SetSpeed, gear.SetSpeed, gear.SetSpeed, gear.SetSpeed,
		gear.SetImmunity, gear.SetImmunity,
	})
	agg := l.AggregateStats()
	if c := agg[gear.StatSpeed]; c.Percent != 25 {
		t.Fatalf("Speed contribution = %+v, want Percent 25 from the set bonus", c)
	}

	// The immunity pair completes too but grants no stat.
	if !containsSet(l.Sets(), gear.SetImmunity) {
		t.Fatal("immunity pair should complete")
	}
}

func TestAggregateStats_SubstatsCounted(t *testing.T) {
	weapon := pieceOf(0, gear.SlotWeapon, gear.SetUnity, gear.Stat{Kind: gear.StatAttack, Value: 100, IsFlat: true})
	weapon.Substats = []gear.Stat{
		{Kind: gear.StatSpeed, Value: 4, IsFlat: true},
		{Kind: gear.StatAttack, Value: 8, IsFlat: false},
	}
	l := gear.Loadout{weapon}
	agg := l.AggregateStats()
	if c := agg[gear.StatAttack]; c.Percent != 8 || c.Flat != 100 {
		t.Errorf("Attack contribution = %+v, want {Percent:8 Flat:100}", c)
	}
	if c := agg[gear.StatSpeed]; c.Flat != 4 {
		t.Errorf("Speed contribution = %+v, want Flat 4", c)
	}
}

func TestResolve_PercentAndFlat(t *testing.T) {
	agg := gear.Loadout{}.AggregateStats()
	agg[gear.StatHealth] = gear.Contribution{Percent: 15, Flat: 200}
	final := gear.Resolve(baseStats(), agg)
	// 5000 * 1.15 + 200
	if final[gear.StatHealth] != 5950 {
		t.Fatalf("final Health = %d, want 5950", final[gear.StatHealth])
	}
}

// TestAggregateStats_SlotPermutationInvariant verifies that aggregate stats
// depend only on which pieces are present, not on their tuple position.
func TestAggregateStats_SlotPermutationInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var l gear.Loadout
		for i, slot := range gear.Slots {
			set := gear.Sets[rapid.IntRange(0, gear.NumSets-1).Draw(t, "set")]
			kind := gear.StatKinds[rapid.IntRange(0, gear.NumStatKinds-1).Draw(t, "kind")]
			flat := kind.PercentOnly() || rapid.Bool().Draw(t, "flat")
			main := gear.Stat{Kind: kind, Value: rapid.IntRange(0, 100).Draw(t, "value"), IsFlat: flat}
			l[i] = pieceOf(i, slot, set, main)
		}

		perm := rapid.Permutation([]int{0, 1, 2, 3, 4, 5}).Draw(t, "perm")
		var shuffled gear.Loadout
		for i, j := range perm {
			shuffled[i] = l[j]
		}

		want := l.AggregateStats()
		got := shuffled.AggregateStats()
		for _, kind := range gear.StatKinds {
			if want[kind] != got[kind] {
				t.Fatalf("aggregate for %s changed under permutation: %+v vs %+v", kind, want[kind], got[kind])
			}
		}
	})
}

func containsSet(sets []gear.Set, set gear.Set) bool {
	for _, s := range sets {
		if s == set {
			return true
		}
	}
	return false
}
