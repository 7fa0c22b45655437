// Package gear defines the equipment domain model: stat kinds, slots, sets,
// individual gear pieces, and loadout resolution.
package gear

import "fmt"

// Slot identifies one of the six equipment slots a hero can fill.
type Slot int

const (
	SlotWeapon Slot = iota
	SlotHelmet
	SlotArmor
	SlotNecklace
	SlotRing
	SlotBoot

	// NumSlots is the number of equipment slots in a loadout.
	NumSlots int = iota
)

// Slots lists every slot in canonical loadout order.
var Slots = [NumSlots]Slot{SlotWeapon, SlotHelmet, SlotArmor, SlotNecklace, SlotRing, SlotBoot}

var slotNames = [NumSlots]string{"weapon", "helmet", "armor", "necklace", "ring", "boot"}

// String returns the canonical lowercase slot name.
//
// Precondition: s is a declared Slot constant; anything else panics.
func (s Slot) String() string {
	if s < 0 || int(s) >= NumSlots {
		panic(fmt.Sprintf("gear: invalid slot %d", int(s)))
	}
	return slotNames[s]
}

// SlotFromName maps a canonical slot name back to its Slot. Unlike
// ParseSlotText this is an exact match, used when loading persisted gear.
func SlotFromName(name string) (Slot, error) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGearSlot, name)
}

// Set identifies a named equipment set. Wearing enough pieces of a set
// (see SetRequirement) grants its bonus.
type Set int

const (
	SetCritical Set = iota
	SetHit
	SetSpeed
	SetAttack
	SetHealth
	SetDefense
	SetResist
	SetDestruction
	SetLifesteal
	SetCounter
	SetUnity
	SetImmunity
	SetRage

	// NumSets is the number of distinct equipment sets.
	NumSets int = iota
)

// Sets lists every equipment set.
var Sets = [NumSets]Set{
	SetCritical, SetHit, SetSpeed, SetAttack, SetHealth, SetDefense,
	SetResist, SetDestruction, SetLifesteal, SetCounter, SetUnity,
	SetImmunity, SetRage,
}

var setNames = [NumSets]string{
	"critical", "hit", "speed", "attack", "health", "defense",
	"resist", "destruction", "lifesteal", "counter", "unity",
	"immunity", "rage",
}

// String returns the canonical lowercase set name.
//
// Precondition: s is a declared Set constant; anything else panics.
func (s Set) String() string {
	if s < 0 || int(s) >= NumSets {
		panic(fmt.Sprintf("gear: invalid set %d", int(s)))
	}
	return setNames[s]
}

// SetFromName maps a canonical set name back to its Set. Exact match only.
func SetFromName(name string) (Set, error) {
	for i, n := range setNames {
		if n == name {
			return Set(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGearSet, name)
}

// StatKind identifies one of the eight base stats gear can modify.
type StatKind int

const (
	StatAttack StatKind = iota
	StatDefense
	StatHealth
	StatSpeed
	StatCritChance
	StatCritDamage
	StatEffectiveness
	StatEffectResist

	// NumStatKinds is the number of distinct stat kinds.
	NumStatKinds int = iota
)

// StatKinds lists every stat kind in declaration order.
var StatKinds = [NumStatKinds]StatKind{
	StatAttack, StatDefense, StatHealth, StatSpeed,
	StatCritChance, StatCritDamage, StatEffectiveness, StatEffectResist,
}

var statKindNames = [NumStatKinds]string{
	"Attack", "Defense", "Health", "Speed",
	"Crit. C", "Crit. D", "Eff", "Eff. Resist",
}

// statKindAliases maps every accepted display spelling to its StatKind.
// The first alias per kind is the canonical name returned by String.
var statKindAliases = map[string]StatKind{
	"Attack":            StatAttack,
	"Defense":           StatDefense,
	"Health":            StatHealth,
	"Speed":             StatSpeed,
	"Crit. C":           StatCritChance,
	"Critical Chance":   StatCritChance,
	"CritC":             StatCritChance,
	"Crit. D":           StatCritDamage,
	"Critical Damage":   StatCritDamage,
	"CritD":             StatCritDamage,
	"Eff":               StatEffectiveness,
	"Effectiveness":     StatEffectiveness,
	"Eff. Resist":       StatEffectResist,
	"Effect Resistance": StatEffectResist,
	"ER":                StatEffectResist,
}

// String returns the canonical display name ("Crit. C", "Eff. Resist", ...).
//
// Precondition: k is a declared StatKind constant; anything else panics.
func (k StatKind) String() string {
	if k < 0 || int(k) >= NumStatKinds {
		panic(fmt.Sprintf("gear: invalid stat kind %d", int(k)))
	}
	return statKindNames[k]
}

// StatKindFromName resolves any registered alias ("Critical Chance", "CritC",
// "Crit. C", ...) to its StatKind.
func StatKindFromName(name string) (StatKind, error) {
	if k, ok := statKindAliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStat, name)
}

// PercentOnly reports whether the kind has no separate flat form. These four
// stats are percentages by nature and are recorded with IsFlat set.
func (k StatKind) PercentOnly() bool {
	switch k {
	case StatCritChance, StatCritDamage, StatEffectiveness, StatEffectResist:
		return true
	}
	return false
}

// Stat is a single stat line on a piece of gear: a kind, a non-negative
// value, and whether the value is an additive flat bonus. Percent-only kinds
// (crit chance, crit damage, effectiveness, effect resistance) always carry
// IsFlat == true even though they display as percentages.
type Stat struct {
	Kind   StatKind
	Value  int
	IsFlat bool
}

// String renders the stat the way it appears on gear, e.g. "Attack 35%" or
// "Speed 4".
func (s Stat) String() string {
	if s.IsFlat && !s.Kind.PercentOnly() {
		return fmt.Sprintf("%s %d", s.Kind, s.Value)
	}
	return fmt.Sprintf("%s %d%%", s.Kind, s.Value)
}

// Gear is a single piece of equipment. All fields except InUse are fixed at
// import time; InUse is mutated only through the inventory index.
type Gear struct {
	// ID is the unique, monotonically increasing identifier assigned when
	// the piece is appended to the inventory.
	ID int
	// Slot is the equipment slot the piece occupies.
	Slot Slot
	// Set is the piece's set affiliation.
	Set Set
	// Main is the guaranteed primary stat.
	Main Stat
	// Substats holds up to four secondary stats.
	Substats []Stat
	// InUse marks the piece as committed to a saved loadout.
	InUse bool
}
