package hero_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cory-johannsen/gearopt/internal/gear"
	"github.com/cory-johannsen/gearopt/internal/hero"
)

const heroBody = `{
	"results": [{
		"name": "Vildred",
		"calculatedStatus": {
			"lv60SixStarFullyAwakened": {
				"atk": 1228, "def": 473, "hp": 4895, "spd": 106,
				"chc": 0.15, "chd": 1.5, "eff": 0, "efr": 0
			}
		}
	}]
}`

func TestHeroes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hero" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"results": [{"name": "Vildred"}, {"name": "Sez"}]}`))
	}))
	defer srv.Close()

	names, err := hero.NewClient(srv.URL, 0).Heroes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Vildred" || names[1] != "Sez" {
		t.Fatalf("Heroes() = %v, want [Vildred Sez]", names)
	}
}

func TestBaseStats(t *testing.T) {
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Write([]byte(heroBody))
	}))
	defer srv.Close()

	base, err := hero.NewClient(srv.URL, 0).BaseStats(context.Background(), "Vildred")
	if err != nil {
		t.Fatal(err)
	}
	if requested != "/hero/vildred" {
		t.Fatalf("requested path %q, want /hero/vildred", requested)
	}

	want := gear.BaseStats{
		gear.StatAttack:        1228,
		gear.StatDefense:       473,
		gear.StatHealth:        4895,
		gear.StatSpeed:         106,
		gear.StatCritChance:    15,
		gear.StatCritDamage:    150,
		gear.StatEffectiveness: 0,
		gear.StatEffectResist:  0,
	}
	for kind, v := range want {
		if base[kind] != v {
			t.Errorf("%v = %v, want %v", kind, base[kind], v)
		}
	}
}

func TestBaseStats_SlugsPunctuatedNames(t *testing.T) {
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Write([]byte(heroBody))
	}))
	defer srv.Close()

	if _, err := hero.NewClient(srv.URL, 0).BaseStats(context.Background(), "Ainos 2.0"); err != nil {
		t.Fatal(err)
	}
	if requested != "/hero/ainos-2-0" {
		t.Fatalf("requested path %q, want /hero/ainos-2-0", requested)
	}
}

func TestBaseStats_MissingStatBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	if _, err := hero.NewClient(srv.URL, 0).BaseStats(context.Background(), "Nobody"); err == nil {
		t.Fatal("expected error for a response without a stat block")
	}
}

func TestBaseStats_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := hero.NewClient(srv.URL, 0).BaseStats(context.Background(), "Vildred"); err == nil {
		t.Fatal("expected error on a 500 response")
	}
}
