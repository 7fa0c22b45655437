// Command gearopt imports gear from screenshots, optimizes hero loadouts,
// and manages the gear inventory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cory-johannsen/gearopt/internal/app"
	"github.com/cory-johannsen/gearopt/internal/config"
	"github.com/cory-johannsen/gearopt/internal/gear"
	"github.com/cory-johannsen/gearopt/internal/hero"
	"github.com/cory-johannsen/gearopt/internal/observability"
	"github.com/cory-johannsen/gearopt/internal/optimizer"
	"github.com/cory-johannsen/gearopt/internal/output"
	"github.com/cory-johannsen/gearopt/internal/recognition"
	"github.com/cory-johannsen/gearopt/internal/storage"
	"github.com/cory-johannsen/gearopt/internal/storage/postgres"
	"github.com/cory-johannsen/gearopt/internal/storage/yamlstore"
)

const usage = `usage: gearopt [-config <path>] <command> [flags]

commands:
  import <image>...   recognize gear screenshots and add them to the inventory
  list                print the gear inventory
  use                 mark a gear piece in use or available (-id, -in-use)
  heroes              list hero names known to the stat provider
  optimize            rank loadouts (-hero, -priorities, -sets, -constraints,
                      -export, -save-rank)
  show-loadout        print a hero's saved loadout (-hero)
  delete-loadout      release a hero's saved loadout (-hero)
`

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	heroes := hero.NewClient(cfg.Provider.HeroAPIURL, cfg.Provider.Timeout)
	a := app.New(app.Deps{
		Store:      store,
		Recognizer: recognition.NewHTTPRecognizer(cfg.Provider.RecognizerURL, cfg.Provider.Timeout),
		Heroes:     heroes,
		Engine:     optimizer.NewEngine(cfg.Optimizer, logger),
		Workers:    cfg.Optimizer.Workers,
		Logger:     logger,
	})
	if err := a.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(ctx, a, heroes, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func buildStore(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Kind {
	case "yaml":
		return yamlstore.New(cfg.Storage.Dir), func() {}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(pool.DB()), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage kind %q", cfg.Storage.Kind)
	}
}

func run(ctx context.Context, a *app.App, heroes *hero.Client, args []string) error {
	switch args[0] {
	case "import":
		return runImport(ctx, a, args[1:])
	case "list":
		return runList(a)
	case "use":
		return runUse(ctx, a, args[1:])
	case "heroes":
		return runHeroes(ctx, heroes)
	case "optimize":
		return runOptimize(ctx, a, args[1:])
	case "show-loadout":
		return runShowLoadout(a, args[1:])
	case "delete-loadout":
		return runDeleteLoadout(ctx, a, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runImport(ctx context.Context, a *app.App, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("import: at least one image path required")
	}
	count, err := a.ImportGear(ctx, paths)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d gear piece(s)\n", count)
	return nil
}

func runList(a *app.App) error {
	for _, g := range a.Gears() {
		status := ""
		if g.InUse {
			status = "  [in use]"
		}
		fmt.Printf("#%-5d %-9s %-12s %s%s\n", g.ID, g.Slot, g.Set, g.Main, status)
		for _, sub := range g.Substats {
			fmt.Printf("       %s\n", sub)
		}
	}
	return nil
}

func runUse(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("use", flag.ExitOnError)
	id := fs.Int("id", -1, "gear id")
	inUse := fs.Bool("in-use", true, "mark in use (false to release)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id < 0 {
		return fmt.Errorf("use: -id is required")
	}
	if err := a.SetGearUsage(*id, *inUse); err != nil {
		return err
	}
	return a.Save(ctx)
}

func runHeroes(ctx context.Context, heroes *hero.Client) error {
	names, err := heroes.Heroes(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runOptimize(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	heroName := fs.String("hero", "", "hero to optimize for")
	priorities := fs.String("priorities", "", `comma-separated stat priorities, first is highest (e.g. "Speed,Crit. C,Attack")`)
	sets := fs.String("sets", "", `comma-separated required sets (e.g. "speed,hit")`)
	constraints := fs.String("constraints", "", `semicolon-separated final-stat bounds (e.g. "Speed=150:9999;Attack=2500:99999")`)
	exportPath := fs.String("export", "", "write the ranked results to this XLSX file")
	saveRank := fs.Int("save-rank", -1, "save the result at this rank (1-based) as the hero's loadout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *heroName == "" {
		return fmt.Errorf("optimize: -hero is required")
	}

	req, err := buildRequest(*priorities, *sets, *constraints)
	if err != nil {
		return err
	}

	if err := a.SelectHero(ctx, *heroName); err != nil {
		return err
	}
	if err := a.Optimize(ctx, req); err != nil {
		return err
	}

	results := a.Results()
	fmt.Printf("%d loadout(s) ranked\n", len(results))
	for i, r := range results {
		if i >= 10 {
			fmt.Printf("... and %d more (use -export for the full list)\n", len(results)-10)
			break
		}
		fmt.Printf("#%-3d score %.2f  ", i+1, r.Score)
		for _, kind := range gear.StatKinds {
			fmt.Printf("%s %d  ", kind, r.Final[kind])
		}
		fmt.Println()
	}

	if *exportPath != "" {
		if err := output.ExportResultsXLSX(*exportPath, *heroName, results); err != nil {
			return err
		}
		fmt.Printf("results written to %s\n", *exportPath)
	}
	if *saveRank > 0 {
		if err := a.SaveLoadout(ctx, *heroName, *saveRank-1); err != nil {
			return err
		}
		fmt.Printf("loadout #%d saved for %s\n", *saveRank, *heroName)
	}
	return nil
}

func runShowLoadout(a *app.App, args []string) error {
	fs := flag.NewFlagSet("show-loadout", flag.ExitOnError)
	heroName := fs.String("hero", "", "hero name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *heroName == "" {
		return fmt.Errorf("show-loadout: -hero is required")
	}
	l, err := a.HeroLoadout(*heroName)
	if err != nil {
		return err
	}
	for _, piece := range l {
		if piece == nil {
			continue
		}
		fmt.Printf("#%-5d %-9s %-12s %s\n", piece.ID, piece.Slot, piece.Set, piece.Main)
	}
	return nil
}

func runDeleteLoadout(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("delete-loadout", flag.ExitOnError)
	heroName := fs.String("hero", "", "hero name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *heroName == "" {
		return fmt.Errorf("delete-loadout: -hero is required")
	}
	return a.DeleteLoadout(ctx, *heroName)
}

func buildRequest(priorities, sets, constraints string) (optimizer.Request, error) {
	var req optimizer.Request
	for _, name := range splitList(priorities, ",") {
		kind, err := gear.StatKindFromName(name)
		if err != nil {
			return req, fmt.Errorf("priorities: %w", err)
		}
		req.Priorities = append(req.Priorities, kind)
	}
	for _, name := range splitList(sets, ",") {
		set, err := gear.SetFromName(strings.ToLower(name))
		if err != nil {
			return req, fmt.Errorf("sets: %w", err)
		}
		req.RequiredSets = append(req.RequiredSets, set)
	}
	if len(splitList(constraints, ";")) > 0 {
		req.Constraints = make(map[gear.StatKind]optimizer.MinMax)
	}
	for _, pair := range splitList(constraints, ";") {
		name, bounds, ok := strings.Cut(pair, "=")
		if !ok {
			return req, fmt.Errorf("constraints: %q is not name=min:max", pair)
		}
		kind, err := gear.StatKindFromName(strings.TrimSpace(name))
		if err != nil {
			return req, fmt.Errorf("constraints: %w", err)
		}
		minText, maxText, ok := strings.Cut(bounds, ":")
		if !ok {
			return req, fmt.Errorf("constraints: %q is not name=min:max", pair)
		}
		minVal, err := strconv.Atoi(strings.TrimSpace(minText))
		if err != nil {
			return req, fmt.Errorf("constraints: bad minimum in %q", pair)
		}
		maxVal, err := strconv.Atoi(strings.TrimSpace(maxText))
		if err != nil {
			return req, fmt.Errorf("constraints: bad maximum in %q", pair)
		}
		req.Constraints[kind] = optimizer.MinMax{Min: minVal, Max: maxVal}
	}
	return req, nil
}

func splitList(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
