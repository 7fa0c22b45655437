package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/gearopt/internal/gear"
)

// Store persists gear and hero loadouts in PostgreSQL. It implements
// storage.Store with the same replace-on-save semantics as the file store:
// Save writes the full state inside one transaction.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a Store backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the gearopt
// schema migrated.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// statRecord is the JSONB form of a gear.Stat.
type statRecord struct {
	Kind  string `json:"kind"`
	Value int    `json:"value"`
	Flat  bool   `json:"flat"`
}

func encodeStat(s gear.Stat) statRecord {
	return statRecord{Kind: s.Kind.String(), Value: s.Value, Flat: s.IsFlat}
}

func decodeStat(r statRecord) (gear.Stat, error) {
	kind, err := gear.StatKindFromName(r.Kind)
	if err != nil {
		return gear.Stat{}, err
	}
	return gear.Stat{Kind: kind, Value: r.Value, IsFlat: r.Flat}, nil
}

// Load reads all gear in id order and every saved hero loadout.
//
// Postcondition: returns empty collections when the tables are empty.
func (s *Store) Load(ctx context.Context) ([]*gear.Gear, map[string][]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, slot, gear_set, main_stat, substats, in_use
		FROM gears ORDER BY id ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("listing gear: %w", err)
	}
	defer rows.Close()

	var gears []*gear.Gear
	for rows.Next() {
		var (
			id           int64
			slotName     string
			setName      string
			mainJSON     []byte
			substatsJSON []byte
			inUse        bool
		)
		if err := rows.Scan(&id, &slotName, &setName, &mainJSON, &substatsJSON, &inUse); err != nil {
			return nil, nil, fmt.Errorf("scanning gear row: %w", err)
		}
		g, err := decodeGearRow(int(id), slotName, setName, mainJSON, substatsJSON, inUse)
		if err != nil {
			return nil, nil, fmt.Errorf("gear %d: %w", id, err)
		}
		gears = append(gears, g)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("listing gear: %w", err)
	}

	loadouts := make(map[string][]int)
	lrows, err := s.db.Query(ctx, `SELECT hero, gear_ids FROM hero_loadouts`)
	if err != nil {
		return nil, nil, fmt.Errorf("listing loadouts: %w", err)
	}
	defer lrows.Close()
	for lrows.Next() {
		var (
			hero string
			ids  []int64
		)
		if err := lrows.Scan(&hero, &ids); err != nil {
			return nil, nil, fmt.Errorf("scanning loadout row: %w", err)
		}
		out := make([]int, len(ids))
		for i, id := range ids {
			out[i] = int(id)
		}
		loadouts[hero] = out
	}
	if err := lrows.Err(); err != nil {
		return nil, nil, fmt.Errorf("listing loadouts: %w", err)
	}

	return gears, loadouts, nil
}

func decodeGearRow(id int, slotName, setName string, mainJSON, substatsJSON []byte, inUse bool) (*gear.Gear, error) {
	slot, err := gear.SlotFromName(slotName)
	if err != nil {
		return nil, err
	}
	set, err := gear.SetFromName(setName)
	if err != nil {
		return nil, err
	}
	var mainRec statRecord
	if err := json.Unmarshal(mainJSON, &mainRec); err != nil {
		return nil, fmt.Errorf("decoding main stat: %w", err)
	}
	main, err := decodeStat(mainRec)
	if err != nil {
		return nil, err
	}
	var subRecs []statRecord
	if err := json.Unmarshal(substatsJSON, &subRecs); err != nil {
		return nil, fmt.Errorf("decoding substats: %w", err)
	}
	g := &gear.Gear{ID: id, Slot: slot, Set: set, Main: main, InUse: inUse}
	for _, rec := range subRecs {
		sub, err := decodeStat(rec)
		if err != nil {
			return nil, err
		}
		g.Substats = append(g.Substats, sub)
	}
	return g, nil
}

// Save replaces the stored state with the given collections in one
// transaction.
func (s *Store) Save(ctx context.Context, gears []*gear.Gear, loadouts map[string][]int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE gears, hero_loadouts`); err != nil {
		return fmt.Errorf("clearing previous state: %w", err)
	}

	for _, g := range gears {
		mainJSON, err := json.Marshal(encodeStat(g.Main))
		if err != nil {
			return fmt.Errorf("encoding main stat of gear %d: %w", g.ID, err)
		}
		subRecs := make([]statRecord, 0, len(g.Substats))
		for _, sub := range g.Substats {
			subRecs = append(subRecs, encodeStat(sub))
		}
		substatsJSON, err := json.Marshal(subRecs)
		if err != nil {
			return fmt.Errorf("encoding substats of gear %d: %w", g.ID, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO gears (id, slot, gear_set, main_stat, substats, in_use)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			int64(g.ID), g.Slot.String(), g.Set.String(), mainJSON, substatsJSON, g.InUse,
		); err != nil {
			return fmt.Errorf("inserting gear %d: %w", g.ID, err)
		}
	}

	for hero, ids := range loadouts {
		stored := make([]int64, len(ids))
		for i, id := range ids {
			stored[i] = int64(id)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO hero_loadouts (hero, gear_ids) VALUES ($1, $2)`,
			hero, stored,
		); err != nil {
			return fmt.Errorf("inserting loadout for %q: %w", hero, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}
