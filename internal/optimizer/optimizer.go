// Package optimizer enumerates and ranks gear loadouts under stat priorities,
// set requirements, and min/max constraints.
package optimizer

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gearopt/internal/config"
	"github.com/cory-johannsen/gearopt/internal/gear"
	"github.com/cory-johannsen/gearopt/internal/score"
)

// ErrNoHeroSelected is returned when Optimize runs without a hero base-stat
// reference.
var ErrNoHeroSelected = errors.New("no hero selected")

// ErrEmptyInventory is returned when Optimize runs with no gear available.
var ErrEmptyInventory = errors.New("inventory is empty")

// MinMax is an inclusive range constraint on a final stat.
type MinMax struct {
	Min int
	Max int
}

// Request carries the caller's optimization goals.
type Request struct {
	// Priorities lists the stats to chase, most important first.
	Priorities []gear.StatKind
	// RequiredSets, when non-empty, keeps only loadouts completing at least
	// one of the listed sets.
	RequiredSets []gear.Set
	// Constraints bounds final stats inclusively on both ends.
	Constraints map[gear.StatKind]MinMax
}

// Result is one ranked loadout with its resolved stats and global score.
type Result struct {
	Loadout gear.Loadout
	Final   gear.FinalStats
	Score   float64
}

// DefaultWorkers derives the worker count from the machine: half the CPUs
// minus the coordinator, but at least one.
func DefaultWorkers() int {
	w := runtime.NumCPU()/2 - 1
	if w < 1 {
		w = 1
	}
	return w
}

// Engine runs the combinatorial search. It holds no per-run state and is safe
// to reuse across runs.
type Engine struct {
	workers  int
	poolSize int
	topK     int
	logger   *zap.Logger
}

// NewEngine builds an Engine from configuration. A zero cfg.Workers defers to
// DefaultWorkers at run time.
//
// Precondition: cfg.PoolSize >= 1 and cfg.TopK >= 1; logger is non-nil.
func NewEngine(cfg config.OptimizerConfig, logger *zap.Logger) *Engine {
	return &Engine{
		workers:  cfg.Workers,
		poolSize: cfg.PoolSize,
		topK:     cfg.TopK,
		logger:   logger,
	}
}

// Optimize ranks the best loadouts assemblable from gears for a hero with the
// given base stats. Not-in-use gear is partitioned by slot, pruned to the
// strongest poolSize candidates per slot by the local heuristic, and the full
// Cartesian product of the pruned pools is resolved, filtered, and scored in
// parallel. The top topK survivors are returned in descending score order;
// equal scores keep their enumeration order.
//
// Postcondition: returns ErrNoHeroSelected or ErrEmptyInventory when the
// preconditions are unmet, leaving any previous results with the caller
// untouched.
func (e *Engine) Optimize(ctx context.Context, gears []*gear.Gear, base gear.BaseStats, req Request) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, ErrNoHeroSelected
	}
	if len(gears) == 0 {
		return nil, ErrEmptyInventory
	}

	runID := uuid.NewString()
	start := time.Now()

	pools := e.buildPools(gears, base, req)
	total := 1
	for _, pool := range pools {
		total *= len(pool)
	}
	e.logger.Info("starting optimizer run",
		zap.String("run_id", runID),
		zap.Int("candidates", total),
	)
	if total == 0 {
		e.logger.Warn("a slot has no available gear; no loadouts to rank",
			zap.String("run_id", runID))
		return nil, nil
	}

	loadouts := enumerate(pools, total)

	workers := e.workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	// Stripe the candidate list across the workers plus the coordinator:
	// worker k takes every (workers+1)-th loadout starting at offset k, the
	// coordinator takes offset 0. Each worker returns its local top-K once,
	// over a bounded channel; nothing is merged until a worker has finished.
	type partial struct {
		stripe  int
		results []Result
	}
	stride := workers + 1
	out := make(chan partial, workers)
	for k := 1; k <= workers; k++ {
		go func(stripe int) {
			out <- partial{stripe: stripe, results: e.evaluate(loadouts, stripe, stride, base, req)}
		}(k)
	}

	partials := make([][]Result, stride)
	partials[0] = e.evaluate(loadouts, 0, stride, base, req)
	for i := 0; i < workers; i++ {
		p := <-out
		partials[p.stripe] = p.results
	}

	// Concatenating in stripe order (not completion order) keeps the merge
	// deterministic; the stable sort then preserves enumeration order among
	// equal scores.
	var merged []Result
	for _, p := range partials {
		merged = append(merged, p...)
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > e.topK {
		merged = merged[:e.topK]
	}

	e.logger.Info("optimizer run complete",
		zap.String("run_id", runID),
		zap.Int("workers", workers),
		zap.Int("results", len(merged)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return merged, nil
}

// buildPools partitions available gear by slot, orders each pool by the local
// heuristic, and prunes it to poolSize candidates.
func (e *Engine) buildPools(gears []*gear.Gear, base gear.BaseStats, req Request) [gear.NumSlots][]*gear.Gear {
	var pools [gear.NumSlots][]*gear.Gear
	for _, g := range gears {
		if !g.InUse {
			pools[g.Slot] = append(pools[g.Slot], g)
		}
	}
	for slot, pool := range pools {
		scores := make(map[*gear.Gear]float64, len(pool))
		for _, g := range pool {
			scores[g] = score.Gear(g, req.RequiredSets, req.Priorities, base)
		}
		sort.SliceStable(pool, func(i, j int) bool { return scores[pool[i]] > scores[pool[j]] })
		if len(pool) > e.poolSize {
			pools[slot] = pool[:e.poolSize]
		}
	}
	return pools
}

// enumerate forms the Cartesian product of the pools in canonical slot order.
func enumerate(pools [gear.NumSlots][]*gear.Gear, total int) []gear.Loadout {
	loadouts := make([]gear.Loadout, 0, total)
	for _, weapon := range pools[gear.SlotWeapon] {
		for _, helmet := range pools[gear.SlotHelmet] {
			for _, armor := range pools[gear.SlotArmor] {
				for _, necklace := range pools[gear.SlotNecklace] {
					for _, ring := range pools[gear.SlotRing] {
						for _, boot := range pools[gear.SlotBoot] {
							loadouts = append(loadouts, gear.Loadout{weapon, helmet, armor, necklace, ring, boot})
						}
					}
				}
			}
		}
	}
	return loadouts
}

// evaluate resolves, filters, and scores one stripe of the candidate list and
// returns its local top-K in descending score order. It touches no shared
// state.
func (e *Engine) evaluate(loadouts []gear.Loadout, offset, stride int, base gear.BaseStats, req Request) []Result {
	var results []Result
	for i := offset; i < len(loadouts); i += stride {
		l := loadouts[i]

		if len(req.RequiredSets) > 0 && !intersects(l.Sets(), req.RequiredSets) {
			continue
		}

		final := gear.Resolve(base, l.AggregateStats())

		satisfied := true
		for kind, mm := range req.Constraints {
			if v := final[kind]; v < mm.Min || v > mm.Max {
				satisfied = false
				break
			}
		}
		if !satisfied {
			continue
		}

		results = append(results, Result{
			Loadout: l,
			Final:   final,
			Score:   score.FinalStats(final, req.Priorities),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > e.topK {
		results = results[:e.topK]
	}
	return results
}

func intersects(completed, required []gear.Set) bool {
	for _, r := range required {
		for _, c := range completed {
			if r == c {
				return true
			}
		}
	}
	return false
}
