package gear

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownGearSlot indicates a slot string that matches no known slot.
var ErrUnknownGearSlot = errors.New("unknown equipment slot")

// ErrUnknownGearSet indicates a set string that matches no known set.
var ErrUnknownGearSet = errors.New("unknown equipment set")

// ErrUnknownStat indicates a stat string naming no known stat kind.
var ErrUnknownStat = errors.New("unknown stat")

// ErrNoStatValue indicates a stat string with no recognizable numeric value.
var ErrNoStatValue = errors.New("no numeric value in stat")

// statLine extracts a stat name followed by a value with optional percent
// sign from recognizer output.
var statLine = regexp.MustCompile(`([^\d][a-zA-Z\s]+).*?([0-9]+%*)`)

// ParseSlotText maps raw recognizer output to a Slot. Matching is a
// case-insensitive substring search so surrounding noise is tolerated.
func ParseSlotText(text string) (Slot, error) {
	// The recognizer consistently misreads the ring label as "Rina".
	cleaned := strings.ToLower(strings.ReplaceAll(text, "Rina", "Ring"))
	for _, slot := range Slots {
		if strings.Contains(cleaned, slot.String()) {
			return slot, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGearSlot, text)
}

// ParseSetText maps raw recognizer output ("Speed Set", "Set: Attack", ...)
// to a Set by matching any whitespace-separated token against the set names.
func ParseSetText(text string) (Set, error) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		for _, set := range Sets {
			if word == set.String() {
				return set, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGearSet, text)
}

// statKeywords resolves the distinguishing word of each stat label; "chance"
// and "damage" disambiguate the two crit stats, "resistance" distinguishes
// effect resistance from effectiveness.
var statKeywords = []struct {
	word string
	kind StatKind
}{
	{"attack", StatAttack},
	{"health", StatHealth},
	{"defense", StatDefense},
	{"speed", StatSpeed},
	{"chance", StatCritChance},
	{"damage", StatCritDamage},
	{"effectiveness", StatEffectiveness},
	{"resistance", StatEffectResist},
}

// ParseStatText converts a raw recognizer stat line ("Attack 35%",
// "Critical Hit Chance 4%", "Speed 5") into a typed Stat. Percent-only kinds
// come back with IsFlat set regardless of the percent sign, per the domain
// rule that those stats have no flat form.
func ParseStatText(text string) (Stat, error) {
	// "T%" is a recurring misread of "7%".
	cleaned := strings.ReplaceAll(strings.ReplaceAll(text, ",", ""), "T%", "7%")
	m := statLine.FindStringSubmatch(cleaned)
	if m == nil {
		return Stat{}, fmt.Errorf("%w: %q", ErrNoStatValue, text)
	}

	label := strings.ToLower(m[1])
	kind := StatKind(-1)
	for _, kw := range statKeywords {
		if strings.Contains(label, kw.word) {
			kind = kw.kind
			break
		}
	}
	if kind < 0 {
		return Stat{}, fmt.Errorf("%w: %q", ErrUnknownStat, text)
	}

	raw := m[2]
	isFlat := true
	if strings.Contains(raw, "%") && !kind.PercentOnly() {
		isFlat = false
	}
	value, err := strconv.Atoi(strings.TrimSuffix(raw, "%"))
	if err != nil {
		return Stat{}, fmt.Errorf("%w: %q", ErrNoStatValue, text)
	}
	return Stat{Kind: kind, Value: value, IsFlat: isFlat}, nil
}
