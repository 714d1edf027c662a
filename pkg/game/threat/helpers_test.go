package threat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/entities"
	"dreadhall/pkg/game/hazards"
)

const testCatalog = `
synergy:
  flood: [electrical]
  gas: [fire]
hazards:
  flood:
    synergy_class: flood
    spawnable: true
    initial_state: pooling
    states:
      pooling: {}
  sparks:
    synergy_class: electrical
    spawnable: true
    initial_state: dormant
    states:
      dormant: {}
      building_tension: {}
  gas:
    synergy_class: gas
    spawnable: true
    initial_state: dormant
    states:
      dormant: {}
  deaths_breath:
    initial_state: subtle_chill
    states:
      subtle_chill: {}
      cold_breeze: {}
      icy_presence: {}
      malevolent_gust: {}
`

type spawnCall struct {
	typ, room string
	opts      hazards.SpawnOptions
}

// fakeRegistry records what the antagonist asks of the hazard registry
type fakeRegistry struct {
	cat     *catalog.Catalog
	hazards []*entities.HazardInstance
	spawned []spawnCall
	set     []string
}

func (f *fakeRegistry) Catalog() *catalog.Catalog { return f.cat }

func (f *fakeRegistry) Spawn(_ context.Context, typ, room string, opts hazards.SpawnOptions) (string, bool) {
	def, ok := f.cat.Hazard(typ)
	if !ok {
		return "", false
	}
	state := def.InitialState
	if opts.InitialState != "" {
		state = opts.InitialState
	}
	h := &entities.HazardInstance{
		ID:       fmt.Sprintf("%s#%08x", typ, len(f.hazards)),
		Type:     typ,
		State:    state,
		Location: room,
		Target:   opts.Target,
		Source:   opts.Source,
	}
	f.hazards = append(f.hazards, h)
	f.spawned = append(f.spawned, spawnCall{typ, room, opts})
	return h.ID, true
}

func (f *fakeRegistry) SetState(_ context.Context, id, state string) hazards.Result {
	for _, h := range f.hazards {
		if h.ID == id {
			h.State = state
			f.set = append(f.set, id+"->"+state)
			return hazards.Result{Messages: []string{"now " + state}}
		}
	}
	return hazards.Result{}
}

func (f *fakeRegistry) ActiveHazardsForRoom(room string) []string {
	var out []string
	for _, h := range f.hazards {
		if h.Location == room {
			out = append(out, h.Type)
		}
	}
	return out
}

func (f *fakeRegistry) HazardsInLocation(room string) []entities.HazardInstance {
	var out []entities.HazardInstance
	for _, h := range f.hazards {
		if h.Location == room {
			out = append(out, h.Clone())
		}
	}
	return out
}

type fixedRoom string

func (r fixedRoom) PlayerLocation() string { return string(r) }

func newFakeRegistry(t testing.TB) *fakeRegistry {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("catalog.Parse() error = %v", err)
	}
	return &fakeRegistry{cat: c}
}

func newTestAntagonist(t testing.TB, reg Registry, room string, opts ...Option) *Antagonist {
	t.Helper()
	base := []Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(reg, fixedRoom(room), append(base, opts...)...)
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
