package gear

import "fmt"

// fourPieceSets marks the sets that need four pieces to complete; every other
// set completes at two.
var fourPieceSets = map[Set]bool{
	SetSpeed:       true,
	SetAttack:      true,
	SetDestruction: true,
	SetLifesteal:   true,
	SetCounter:     true,
	SetRage:        true,
}

// setBonuses maps each set to the stat bonus granted on completion. Sets that
// grant non-stat effects (lifesteal, counter, unity, immunity, rage) have no
// entry.
var setBonuses = map[Set]Stat{
	SetCritical:    {Kind: StatCritChance, Value: 12, IsFlat: true},
	SetHit:         {Kind: StatEffectiveness, Value: 20, IsFlat: true},
	SetSpeed:       {Kind: StatSpeed, Value: 25, IsFlat: false},
	SetAttack:      {Kind: StatAttack, Value: 35, IsFlat: false},
	SetHealth:      {Kind: StatHealth, Value: 15, IsFlat: false},
	SetDefense:     {Kind: StatDefense, Value: 15, IsFlat: false},
	SetResist:      {Kind: StatEffectResist, Value: 20, IsFlat: true},
	SetDestruction: {Kind: StatCritDamage, Value: 40, IsFlat: true},
}

// SetRequirement returns the number of pieces needed to complete the set,
// 2 or 4.
//
// Precondition: set is a declared Set constant; anything else panics.
func SetRequirement(set Set) int {
	if set < 0 || int(set) >= NumSets {
		panic(fmt.Sprintf("gear: invalid set %d", int(set)))
	}
	if fourPieceSets[set] {
		return 4
	}
	return 2
}

// SetBonus returns the stat bonus a completed set grants, or ok == false for
// pure-utility sets with no numeric bonus.
//
// Precondition: set is a declared Set constant; anything else panics.
func SetBonus(set Set) (Stat, bool) {
	if set < 0 || int(set) >= NumSets {
		panic(fmt.Sprintf("gear: invalid set %d", int(set)))
	}
	bonus, ok := setBonuses[set]
	return bonus, ok
}

// Loadout is one piece of gear per slot, in canonical slot order. Its set
// completions and stat totals are pure functions of the six pieces and are
// recomputed on demand, never stored.
type Loadout [NumSlots]*Gear

// Sets returns the completed set affiliations of the loadout, in Set
// declaration order. A set is completed when the piece count reaches its
// requirement.
func (l Loadout) Sets() []Set {
	var counts [NumSets]int
	for _, g := range l {
		if g != nil {
			counts[g.Set]++
		}
	}
	var completed []Set
	for _, set := range Sets {
		if counts[set] >= SetRequirement(set) {
			completed = append(completed, set)
		}
	}
	return completed
}

// Contribution is the total percent and flat bonus a loadout gives one stat.
type Contribution struct {
	Percent int
	Flat    int
}

// Aggregate maps every stat kind to the loadout's total contribution for it.
// All eight kinds are always present.
type Aggregate map[StatKind]Contribution

// AggregateStats sums every piece's main stat and substats plus the bonus of
// each completed set, producing the loadout's total percent/flat contribution
// per stat. Slot order does not affect the result.
func (l Loadout) AggregateStats() Aggregate {
	total := make(Aggregate, NumStatKinds)
	for _, kind := range StatKinds {
		total[kind] = Contribution{}
	}

	add := func(s Stat) {
		c := total[s.Kind]
		if s.IsFlat {
			c.Flat += s.Value
		} else {
			c.Percent += s.Value
		}
		total[s.Kind] = c
	}

	for _, g := range l {
		if g == nil {
			continue
		}
		add(g.Main)
		for _, sub := range g.Substats {
			add(sub)
		}
	}

	// Each completed set contributes its bonus exactly once.
	for _, set := range l.Sets() {
		if bonus, ok := SetBonus(set); ok {
			add(bonus)
		}
	}
	return total
}

// BaseStats holds a hero's base stats at the reference power level, keyed by
// stat kind. Percent-natured stats (crit chance and the like) are stored as
// percentages, e.g. 15 for 15%.
type BaseStats map[StatKind]float64

// FinalStats is a hero's resolved stat line after applying a loadout,
// the display- and score-ready form.
type FinalStats map[StatKind]int

// Resolve applies an aggregate contribution to a hero's base stats:
// final = base * (1 + percent/100) + flat, truncated to an integer.
//
// Precondition: base contains every stat kind.
func Resolve(base BaseStats, agg Aggregate) FinalStats {
	final := make(FinalStats, NumStatKinds)
	for _, kind := range StatKinds {
		c := agg[kind]
		final[kind] = int(base[kind]*(1+float64(c.Percent)/100) + float64(c.Flat))
	}
	return final
}
