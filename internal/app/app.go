// Package app wires the inventory, scoring, search, and persistence pieces
// behind the synchronous operations the CLI (or any other surface) calls.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/gearopt/internal/gear"
	"github.com/cory-johannsen/gearopt/internal/inventory"
	"github.com/cory-johannsen/gearopt/internal/optimizer"
	"github.com/cory-johannsen/gearopt/internal/recognition"
	"github.com/cory-johannsen/gearopt/internal/storage"
)

// ErrNoResults is returned when a loadout save references a result rank that
// does not exist.
var ErrNoResults = errors.New("no optimizer result at that rank")

// ErrLoadoutNotFound is returned when a hero has no saved loadout.
var ErrLoadoutNotFound = errors.New("no saved loadout for hero")

// HeroSource resolves a hero name to base stats. Satisfied by hero.Client.
type HeroSource interface {
	BaseStats(ctx context.Context, name string) (gear.BaseStats, error)
}

// Deps are the collaborators an App needs.
type Deps struct {
	Store      storage.Store
	Recognizer recognition.Recognizer
	Heroes     HeroSource
	Engine     *optimizer.Engine
	// Workers overrides the import worker count; 0 derives it from the CPU
	// count.
	Workers int
	Logger  *zap.Logger
}

// App owns the in-memory state: the gear index, the hero → gear-id loadout
// map, the selected hero, and the latest optimizer results. All methods are
// synchronous and must be called from a single goroutine; callers wanting a
// responsive surface run them off their main loop.
type App struct {
	store      storage.Store
	recognizer recognition.Recognizer
	heroes     HeroSource
	engine     *optimizer.Engine
	workers    int
	logger     *zap.Logger

	index    *inventory.Index
	loadouts map[string][]int

	heroName string
	base     gear.BaseStats

	results []optimizer.Result
}

// New constructs an App with an empty inventory.
//
// Precondition: all Deps fields except Workers are non-nil.
func New(deps Deps) *App {
	return &App{
		store:      deps.Store,
		recognizer: deps.Recognizer,
		heroes:     deps.Heroes,
		engine:     deps.Engine,
		workers:    deps.Workers,
		logger:     deps.Logger,
		index:      inventory.NewIndex(nil),
		loadouts:   make(map[string][]int),
	}
}

// Load replaces the in-memory state with the store's contents.
func (a *App) Load(ctx context.Context) error {
	gears, loadouts, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	a.index = inventory.NewIndex(gears)
	a.loadouts = loadouts
	a.logger.Info("state loaded",
		zap.Int("gear", a.index.Len()),
		zap.Int("loadouts", len(a.loadouts)),
	)
	return nil
}

// Save persists the current inventory and loadout map.
func (a *App) Save(ctx context.Context) error {
	if err := a.store.Save(ctx, a.index.Gears(), a.loadouts); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// SelectHero resolves name through the stat provider and pins the hero as the
// optimization target.
func (a *App) SelectHero(ctx context.Context, name string) error {
	base, err := a.heroes.BaseStats(ctx, name)
	if err != nil {
		return fmt.Errorf("selecting hero %q: %w", name, err)
	}
	a.heroName = name
	a.base = base
	a.logger.Info("hero selected", zap.String("hero", name))
	return nil
}

// Hero returns the currently selected hero name, empty when none is selected.
func (a *App) Hero() string {
	return a.heroName
}

// ImportGear recognizes and parses each screenshot into a gear piece, appends
// the batch to the inventory, and persists. The image list is striped across
// workers the same way the search is; ids are assigned on the coordinating
// goroutine only after every worker has finished, so they stay monotonic. Any
// recognition or parse failure aborts the whole batch: nothing is appended
// and nothing is saved.
//
// Postcondition: on success returns the number of pieces imported.
func (a *App) ImportGear(ctx context.Context, imagePaths []string) (int, error) {
	if len(imagePaths) == 0 {
		return 0, nil
	}

	workers := a.workers
	if workers <= 0 {
		workers = optimizer.DefaultWorkers()
	}
	stride := workers + 1

	partials := make([][]*gear.Gear, stride)
	g, gctx := errgroup.WithContext(ctx)
	for k := 1; k <= workers; k++ {
		stripe := k
		g.Go(func() error {
			parsed, err := a.importStripe(gctx, imagePaths, stripe, stride)
			if err != nil {
				return err
			}
			partials[stripe] = parsed
			return nil
		})
	}

	parsed, err := a.importStripe(gctx, imagePaths, 0, stride)
	if err == nil {
		partials[0] = parsed
		err = g.Wait()
	} else {
		// Drain the group so no goroutine outlives the call.
		if werr := g.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
			a.logger.Debug("import worker failed alongside coordinator", zap.Error(werr))
		}
	}
	if err != nil {
		return 0, fmt.Errorf("importing gear: %w", err)
	}

	count := 0
	for _, stripe := range partials {
		for _, piece := range stripe {
			a.index.Append(piece)
			count++
		}
	}
	if err := a.Save(ctx); err != nil {
		return count, err
	}
	a.logger.Info("gear imported",
		zap.Int("count", count),
		zap.Int("inventory", a.index.Len()),
	)
	return count, nil
}

// importStripe recognizes and parses every stride-th image starting at
// offset. Parsed pieces carry id 0; the coordinator assigns real ids.
func (a *App) importStripe(ctx context.Context, paths []string, offset, stride int) ([]*gear.Gear, error) {
	var out []*gear.Gear
	for i := offset; i < len(paths); i += stride {
		raw, err := a.recognizer.Recognize(ctx, paths[i])
		if err != nil {
			return nil, err
		}
		piece, err := parseRawGear(raw)
		if err != nil {
			return nil, fmt.Errorf("image %q: %w", paths[i], err)
		}
		out = append(out, piece)
	}
	return out, nil
}

// parseRawGear interprets a recognizer reading into a typed gear piece.
func parseRawGear(raw recognition.RawGear) (*gear.Gear, error) {
	slot, err := gear.ParseSlotText(raw.Slot)
	if err != nil {
		return nil, err
	}
	set, err := gear.ParseSetText(raw.Set)
	if err != nil {
		return nil, err
	}
	main, err := gear.ParseStatText(raw.MainStat)
	if err != nil {
		return nil, err
	}
	piece := &gear.Gear{Slot: slot, Set: set, Main: main}
	for _, text := range raw.Substats {
		if text == "" {
			continue
		}
		sub, err := gear.ParseStatText(text)
		if err != nil {
			return nil, err
		}
		piece.Substats = append(piece.Substats, sub)
	}
	return piece, nil
}

// Optimize runs the search engine against the current inventory and hero and
// replaces the ranked results. It does not persist anything. When the
// engine's preconditions fail the previous results are left untouched and
// the typed error is returned.
func (a *App) Optimize(ctx context.Context, req optimizer.Request) error {
	results, err := a.engine.Optimize(ctx, a.index.Gears(), a.base, req)
	if err != nil {
		return err
	}
	a.results = results
	return nil
}

// Results returns the ranked output of the last successful Optimize call.
func (a *App) Results() []optimizer.Result {
	return a.results
}

// GetGear returns the gear piece with the given id.
func (a *App) GetGear(id int) (*gear.Gear, error) {
	return a.index.Get(id)
}

// SetGearUsage flips the in-use flag of the gear piece with the given id.
func (a *App) SetGearUsage(id int, inUse bool) error {
	return a.index.SetUsage(id, inUse)
}

// Gears returns the inventory in id order, read-only.
func (a *App) Gears() []*gear.Gear {
	return a.index.Gears()
}

// SaveLoadout commits the result at the given rank (0-based) to the hero:
// every piece is marked in use, the hero's id list is recorded, and the state
// is persisted.
func (a *App) SaveLoadout(ctx context.Context, heroName string, rank int) error {
	if rank < 0 || rank >= len(a.results) {
		return fmt.Errorf("%w: rank %d of %d", ErrNoResults, rank, len(a.results))
	}
	ids := make([]int, 0, gear.NumSlots)
	for _, piece := range a.results[rank].Loadout {
		if err := a.index.SetUsage(piece.ID, true); err != nil {
			return err
		}
		ids = append(ids, piece.ID)
	}
	a.loadouts[heroName] = ids
	if err := a.Save(ctx); err != nil {
		return err
	}
	a.logger.Info("loadout saved",
		zap.String("hero", heroName),
		zap.Ints("gear_ids", ids),
	)
	return nil
}

// DeleteLoadout releases a hero's saved loadout: the pieces are marked
// available again, the mapping is removed, and the state is persisted.
func (a *App) DeleteLoadout(ctx context.Context, heroName string) error {
	ids, ok := a.loadouts[heroName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrLoadoutNotFound, heroName)
	}
	for _, id := range ids {
		if err := a.index.SetUsage(id, false); err != nil {
			return err
		}
	}
	delete(a.loadouts, heroName)
	if err := a.Save(ctx); err != nil {
		return err
	}
	a.logger.Info("loadout deleted", zap.String("hero", heroName))
	return nil
}

// HeroLoadout resolves a hero's saved gear ids back into a Loadout.
func (a *App) HeroLoadout(heroName string) (gear.Loadout, error) {
	ids, ok := a.loadouts[heroName]
	if !ok {
		return gear.Loadout{}, fmt.Errorf("%w: %q", ErrLoadoutNotFound, heroName)
	}
	var l gear.Loadout
	for i, id := range ids {
		if i >= gear.NumSlots {
			break
		}
		piece, err := a.index.Get(id)
		if err != nil {
			return gear.Loadout{}, err
		}
		l[i] = piece
	}
	return l, nil
}
