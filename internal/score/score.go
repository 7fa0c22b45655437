// Package score grades stats, gear pieces, and resolved stat lines on a
// common utility scale so the optimizer can rank candidates.
package score

import "github.com/cory-johannsen/gearopt/internal/gear"

// Stat grades a single stat line. Crit chance and speed are the most valuable
// points (2x), crit damage close behind (1.43x). Flat attack/defense/health/
// speed are normalized against the hero's base stat so a flat bonus on a
// low-base hero is worth what the equivalent percent would be; everything
// else scores at 1.25x its percent value.
//
// Precondition: base contains the stat's kind when the stat is flat.
func Stat(s gear.Stat, base gear.BaseStats) float64 {
	switch {
	case s.Kind == gear.StatCritChance || s.Kind == gear.StatSpeed:
		return float64(s.Value) * 2
	case s.Kind == gear.StatCritDamage:
		return float64(s.Value) * 1.43
	case s.IsFlat && s.Kind != gear.StatEffectiveness && s.Kind != gear.StatEffectResist:
		return float64(s.Value) / base[s.Kind] * 1.25
	default:
		return float64(s.Value) * 1.25
	}
}

// Gear grades a single piece against the caller's stat priorities and
// desired sets. Each prioritized stat on the piece contributes its Stat score
// weighted by (len(priorities) - rank), so the first priority dominates. The
// sum is then multiplied by a set factor: a stat-granting set adds its bonus
// score amortized over the pieces needed to complete it, and a set the caller
// requires adds a further +1.
//
// This is the local pruning heuristic applied per slot before combination;
// it deliberately trades global optimality for a tractable candidate pool.
func Gear(g *gear.Gear, requiredSets []gear.Set, priorities []gear.StatKind, base gear.BaseStats) float64 {
	var total float64
	for i, priority := range priorities {
		weight := float64(len(priorities) - i)
		if g.Main.Kind == priority {
			total += Stat(g.Main, base) * weight
		}
		for _, sub := range g.Substats {
			if sub.Kind == priority {
				total += Stat(sub, base) * weight
			}
		}
	}

	factor := 1.0
	if bonus, ok := gear.SetBonus(g.Set); ok {
		factor += Stat(bonus, base) / float64(gear.SetRequirement(g.Set)) / 100
	}
	for _, required := range requiredSets {
		if g.Set == required {
			factor++
			break
		}
	}
	return total * factor
}

// FinalStats grades a fully resolved stat line as approximate effective DPS
// plus effective HP plus utility, the whole scaled by speed. Only prioritized
// stats move their term off its neutral default; the damage term starts at
// zero, and when health is prioritized without attack, health stands in for
// the damage term as well.
func FinalStats(final gear.FinalStats, priorities []gear.StatKind) float64 {
	dmg := 0.0
	crit := 1.0
	critDmg := 1.0
	hp := 1.0
	defense := 1.0
	eff := 1.0
	er := 1.0
	spd := 1.0

	for _, priority := range priorities {
		switch priority {
		case gear.StatAttack:
			dmg = float64(final[gear.StatAttack]) / 1000
		case gear.StatHealth:
			hp = float64(final[gear.StatHealth]) / 10000
			if !contains(priorities, gear.StatAttack) {
				dmg = float64(final[gear.StatHealth]) / 10000
			}
		case gear.StatCritChance:
			// Builds that chase crit chance are assumed to cap it, so the
			// crit multiplier stays at full value.
			crit = 1
		case gear.StatCritDamage:
			critDmg = float64(final[gear.StatCritDamage])/100 - 1
		case gear.StatDefense:
			defense = float64(final[gear.StatDefense])/300 + 1
		case gear.StatEffectResist:
			er = float64(final[gear.StatEffectResist])
		case gear.StatSpeed:
			spd = float64(final[gear.StatSpeed]) / 100
		case gear.StatEffectiveness:
			eff = float64(final[gear.StatEffectiveness])
		}
	}

	eDPS := dmg * (1 + crit*critDmg)
	eHP := hp * defense * er
	utility := eff

	return (eDPS + eHP + utility) * spd
}

func contains(kinds []gear.StatKind, kind gear.StatKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
