// Package yamlstore persists gear and loadouts as YAML documents in a data
// directory.
package yamlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/gearopt/internal/gear"
)

const (
	gearsFile    = "gears.yaml"
	loadoutsFile = "loadouts.yaml"
)

// Store reads and writes gears.yaml and loadouts.yaml under a directory.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on first Save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// statDoc is the serialized form of a gear.Stat.
type statDoc struct {
	Kind  string `yaml:"kind"`
	Value int    `yaml:"value"`
	Flat  bool   `yaml:"flat"`
}

// gearDoc is the serialized form of a gear.Gear.
type gearDoc struct {
	ID       int       `yaml:"id"`
	Slot     string    `yaml:"slot"`
	Set      string    `yaml:"set"`
	MainStat statDoc   `yaml:"main_stat"`
	Substats []statDoc `yaml:"substats"`
	InUse    bool      `yaml:"in_use"`
}

func encodeStat(s gear.Stat) statDoc {
	return statDoc{Kind: s.Kind.String(), Value: s.Value, Flat: s.IsFlat}
}

func decodeStat(d statDoc) (gear.Stat, error) {
	kind, err := gear.StatKindFromName(d.Kind)
	if err != nil {
		return gear.Stat{}, err
	}
	if d.Value < 0 {
		return gear.Stat{}, fmt.Errorf("stat %q: value must be >= 0, got %d", d.Kind, d.Value)
	}
	return gear.Stat{Kind: kind, Value: d.Value, IsFlat: d.Flat}, nil
}

func encodeGear(g *gear.Gear) gearDoc {
	doc := gearDoc{
		ID:       g.ID,
		Slot:     g.Slot.String(),
		Set:      g.Set.String(),
		MainStat: encodeStat(g.Main),
		InUse:    g.InUse,
	}
	for _, sub := range g.Substats {
		doc.Substats = append(doc.Substats, encodeStat(sub))
	}
	return doc
}

func decodeGear(doc gearDoc) (*gear.Gear, error) {
	slot, err := gear.SlotFromName(doc.Slot)
	if err != nil {
		return nil, err
	}
	set, err := gear.SetFromName(doc.Set)
	if err != nil {
		return nil, err
	}
	main, err := decodeStat(doc.MainStat)
	if err != nil {
		return nil, err
	}
	g := &gear.Gear{ID: doc.ID, Slot: slot, Set: set, Main: main, InUse: doc.InUse}
	for _, sub := range doc.Substats {
		s, err := decodeStat(sub)
		if err != nil {
			return nil, err
		}
		g.Substats = append(g.Substats, s)
	}
	return g, nil
}

// Load reads both documents. Missing files yield empty collections.
//
// Postcondition: gears are returned in stored (id) order.
func (s *Store) Load(ctx context.Context) ([]*gear.Gear, map[string][]int, error) {
	var gears []*gear.Gear
	gearPath := filepath.Join(s.dir, gearsFile)
	if data, err := os.ReadFile(gearPath); err == nil {
		var docs []gearDoc
		if err := yaml.Unmarshal(data, &docs); err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", gearPath, err)
		}
		for _, doc := range docs {
			g, err := decodeGear(doc)
			if err != nil {
				return nil, nil, fmt.Errorf("gear %d in %s: %w", doc.ID, gearPath, err)
			}
			gears = append(gears, g)
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("reading %s: %w", gearPath, err)
	}

	loadouts := make(map[string][]int)
	loadoutPath := filepath.Join(s.dir, loadoutsFile)
	if data, err := os.ReadFile(loadoutPath); err == nil {
		if err := yaml.Unmarshal(data, &loadouts); err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", loadoutPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("reading %s: %w", loadoutPath, err)
	}

	return gears, loadouts, nil
}

// Save writes both documents, replacing previous contents.
func (s *Store) Save(ctx context.Context, gears []*gear.Gear, loadouts map[string][]int) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", s.dir, err)
	}

	docs := make([]gearDoc, 0, len(gears))
	for _, g := range gears {
		docs = append(docs, encodeGear(g))
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("serializing gear: %w", err)
	}
	gearPath := filepath.Join(s.dir, gearsFile)
	if err := os.WriteFile(gearPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", gearPath, err)
	}

	data, err = yaml.Marshal(loadouts)
	if err != nil {
		return fmt.Errorf("serializing loadouts: %w", err)
	}
	loadoutPath := filepath.Join(s.dir, loadoutsFile)
	if err := os.WriteFile(loadoutPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", loadoutPath, err)
	}
	return nil
}
