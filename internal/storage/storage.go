// Package storage defines the persistence boundary for gear and saved hero
// loadouts. The core works on in-memory collections and hands them to a Store
// for durable load/save.
package storage

import (
	"context"

	"github.com/cory-johannsen/gearopt/internal/gear"
)

// Store persists the gear inventory and the hero → gear-id loadout map.
//
// Load returns empty collections (not an error) when nothing has been saved
// yet. Save replaces the stored state wholesale; gear is stored in id order
// and each loadout is the ordered list of six gear ids.
type Store interface {
	Load(ctx context.Context) ([]*gear.Gear, map[string][]int, error)
	Save(ctx context.Context, gears []*gear.Gear, loadouts map[string][]int) error
}
