package yamlstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gearopt/internal/gear"
	"github.com/cory-johannsen/gearopt/internal/storage/yamlstore"
)

func sampleGears() []*gear.Gear {
	return []*gear.Gear{
		{
			ID:   0,
			Slot: gear.SlotWeapon,
			Set:  gear.SetSpeed,
			Main: gear.Stat{Kind: gear.StatAttack, Value: 100, IsFlat: true},
			Substats: []gear.Stat{
				{Kind: gear.StatSpeed, Value: 4, IsFlat: true},
				{Kind: gear.StatCritChance, Value: 5, IsFlat: true},
			},
		},
		{
			ID:    1,
			Slot:  gear.SlotBoot,
			Set:   gear.SetCritical,
			Main:  gear.Stat{Kind: gear.StatHealth, Value: 12, IsFlat: false},
			InUse: true,
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := yamlstore.New(filepath.Join(dir, "data"))
	ctx := context.Background()

	gears := sampleGears()
	loadouts := map[string][]int{"Vildred": {0, 1}}
	require.NoError(t, store.Save(ctx, gears, loadouts))

	loadedGears, loadedLoadouts, err := store.Load(ctx)
	require.NoError(t, err)

	require.Len(t, loadedGears, len(gears))
	for i, want := range gears {
		got := loadedGears[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Slot, got.Slot)
		assert.Equal(t, want.Set, got.Set)
		assert.Equal(t, want.Main, got.Main)
		assert.Equal(t, want.Substats, got.Substats)
		assert.Equal(t, want.InUse, got.InUse)
	}
	assert.Equal(t, loadouts, loadedLoadouts)
}

func TestLoad_MissingFilesYieldEmpty(t *testing.T) {
	store := yamlstore.New(filepath.Join(t.TempDir(), "never-created"))

	gears, loadouts, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gears)
	assert.Empty(t, loadouts)
}

func TestSave_ReplacesPreviousContents(t *testing.T) {
	dir := t.TempDir()
	store := yamlstore.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleGears(), map[string][]int{"Vildred": {0}}))
	require.NoError(t, store.Save(ctx, sampleGears()[:1], map[string][]int{}))

	gears, loadouts, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, gears, 1)
	assert.Empty(t, loadouts)
}

func TestLoad_RejectsUnknownStatKind(t *testing.T) {
	dir := t.TempDir()
	doc := "- id: 0\n  slot: weapon\n  set: speed\n  main_stat:\n    kind: Mana\n    value: 10\n    flat: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gears.yaml"), []byte(doc), 0644))

	_, _, err := yamlstore.New(dir).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, gear.ErrUnknownStat)
}

func TestLoad_RejectsNegativeStatValue(t *testing.T) {
	dir := t.TempDir()
	doc := "- id: 0\n  slot: weapon\n  set: speed\n  main_stat:\n    kind: Attack\n    value: -5\n    flat: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gears.yaml"), []byte(doc), 0644))

	_, _, err := yamlstore.New(dir).Load(context.Background())
	require.Error(t, err)
}
