package hazards

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/entities"
)

var idPattern = regexp.MustCompile(`^gas_leak#[0-9a-f]{8}$`)

func TestSpawn(t *testing.T) {
	c := loadTestCatalog(t)
	r := newTestRegistry(t, c, newFakeConductor(lineLevel("A"), "A"))

	tests := []struct {
		name      string
		typ       string
		opts      SpawnOptions
		wantOK    bool
		wantState string
	}{
		{"initial state", "gas_leak", SpawnOptions{}, true, "dormant"},
		{"override", "gas_leak", SpawnOptions{InitialState: "active"}, true, "active"},
		{"unknown override falls back", "gas_leak", SpawnOptions{InitialState: "melted"}, true, "dormant"},
		{"unknown type", "poltergeist", SpawnOptions{}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := r.Spawn(t.Context(), tt.typ, "A", tt.opts)
			if ok != tt.wantOK {
				t.Fatalf("Spawn(%q) ok = %v, want %v", tt.typ, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !idPattern.MatchString(id) {
				t.Errorf("id = %q, want gas_leak#<8 hex>", id)
			}
			if h, _ := r.Hazard(id); h.State != tt.wantState {
				t.Errorf("state = %q, want %q", h.State, tt.wantState)
			}
		})
	}
}

func TestSpawn_PlacesEntities(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	level := lineLevel("Kitchen")
	r := newTestRegistry(t, c, newFakeConductor(level, "Kitchen"))
	id := mustSpawn(t, r, "gas_leak", "Kitchen", SpawnOptions{})

	h, _ := r.Hazard(id)
	if len(h.Entities) != 2 {
		t.Fatalf("Entities = %v, want stove and gas_pipe", h.Entities)
	}
	room := level.Room("Kitchen")
	if len(room.Items) != 2 {
		t.Fatalf("room items = %d, want 2", len(room.Items))
	}
	for _, it := range room.Items {
		if it.HazardType != "gas_leak" {
			t.Errorf("item %q HazardType = %q, want gas_leak", it.Name, it.HazardType)
		}
		if it.Description == "" || strings.Contains(it.Description, "{object_name}") {
			t.Errorf("item %q description = %q", it.Name, it.Description)
		}
		if it.Name != h.Entities[it.Key] {
			t.Errorf("item name %q, entity binding %q", it.Name, h.Entities[it.Key])
		}
	}

	// A second leak in the same room does not duplicate the objects
	mustSpawn(t, r, "gas_leak", "Kitchen", SpawnOptions{})
	if len(room.Items) != 2 {
		t.Errorf("room items = %d after second spawn, want 2", len(room.Items))
	}
}

func TestMove_EntitiesFollowHazard(t *testing.T) {
	c := loadTestCatalog(t)
	level := lineLevel("A", "B")
	r := newTestRegistry(t, c, newFakeConductor(level, "B"))
	id := mustSpawn(t, r, "gas_leak", "A", SpawnOptions{})
	name := r.hazards[id].Entities["stove"]

	r.hazards[id].Location = "B"
	r.removeEntities(r.hazards[id], "A")
	r.spawnEntities(r.hazards[id], c.Hazards["gas_leak"])

	if level.Room("A").FindItem("stove") != nil {
		t.Error("stove left behind in A")
	}
	it := level.Room("B").FindItem(name)
	if it == nil {
		t.Fatalf("stove %q not in B", name)
	}
}

func TestQueries(t *testing.T) {
	c := loadTestCatalog(t)
	r := newTestRegistry(t, c, newFakeConductor(nil, "A"))
	gas := mustSpawn(t, r, "gas_leak", "A", SpawnOptions{})
	mustSpawn(t, r, "floor", "A", SpawnOptions{})
	mustSpawn(t, r, "fire", "B", SpawnOptions{})

	if got := r.ActiveHazardsForRoom("A"); strings.Join(got, ",") != "gas_leak,floor" {
		t.Errorf("ActiveHazardsForRoom(A) = %v, want [gas_leak floor]", got)
	}
	if got, ok := r.HazardState("floor", "A"); !ok || got != "creaking" {
		t.Errorf("HazardState(floor, A) = %q, %v", got, ok)
	}
	if _, ok := r.HazardState("floor", "B"); ok {
		t.Error("HazardState(floor, B) found a hazard")
	}
	if id, ok := r.InstanceIDByType("A", "gas_leak"); !ok || id != gas {
		t.Errorf("InstanceIDByType = %q, want %q", id, gas)
	}

	in := r.HazardsInLocation("A")
	if len(in) != 2 {
		t.Fatalf("HazardsInLocation(A) = %d, want 2", len(in))
	}
	in[0].State = "ignited"
	if got, _ := r.Hazard(gas); got.State != "dormant" {
		t.Error("HazardsInLocation returned a live instance, not a copy")
	}
}

func TestDescribe(t *testing.T) {
	c := loadTestCatalog(t)
	r := newTestRegistry(t, c, newFakeConductor(nil, "A"))
	gas := mustSpawn(t, r, "gas_leak", "A", SpawnOptions{Target: "old stove"})

	if got, ok := r.Describe(gas); ok {
		t.Errorf("Describe(dormant) = %q, want no description", got)
	}
	r.SetState(t.Context(), gas, "active")
	if got, ok := r.Describe(gas); !ok || got != "Gas pours from the old stove." {
		t.Errorf("Describe(active) = %q, %v", got, ok)
	}
	if _, ok := r.Describe("nope"); ok {
		t.Error("Describe(unknown id) = true")
	}
}

func TestInitializeForLevel(t *testing.T) {
	c := loadTestCatalog(t)
	r := newTestRegistry(t, c, newFakeConductor(lineLevel("A", "B"), "A"))
	mustSpawn(t, r, "door", "B", SpawnOptions{})

	if n := r.InitializeForLevel(t.Context(), 1); n != 1 {
		t.Errorf("InitializeForLevel(1) = %d, want 1", n)
	}
	if got := r.ActiveHazardsForRoom("A"); len(got) != 1 || got[0] != "gas_leak" {
		t.Errorf("room A = %v, want [gas_leak]", got)
	}
	if got := r.ActiveHazardsForRoom("B"); len(got) != 0 {
		t.Errorf("room B = %v, want cleared and fire not seeded", got)
	}
	if n := r.InitializeForLevel(t.Context(), 9); n != 0 || r.Count() != 0 {
		t.Errorf("InitializeForLevel(9) = %d, Count = %d, want 0, 0", n, r.Count())
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := loadTestCatalog(t)
	r := newTestRegistry(t, c, newFakeConductor(nil, "A"))
	id := mustSpawn(t, r, "gas_leak", "A", SpawnOptions{Target: "oven"})
	r.SetState(t.Context(), id, "evaded")

	snap := r.Snapshot()
	other := newTestRegistry(t, c, newFakeConductor(nil, "A"))
	if err := other.Restore(snap); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	got, ok := other.Hazard(id)
	if !ok || got.State != "evaded" || got.Target != "oven" || got.DisplayName() != "oven" {
		t.Errorf("restored = %+v", got)
	}

	bad := Snapshot{Hazards: []entities.HazardInstance{{ID: "x#1", Type: "gas_leak", State: "melted"}}}
	if err := other.Restore(bad); !errors.Is(err, ErrUnknownState) {
		t.Errorf("Restore(bad state) error = %v, want ErrUnknownState", err)
	}
	if other.Count() != 1 {
		t.Errorf("failed Restore changed the registry: Count = %d", other.Count())
	}
	bad.Hazards[0].Type = "poltergeist"
	if err := other.Restore(bad); !errors.Is(err, ErrUnknownHazardType) {
		t.Errorf("Restore(bad type) error = %v, want ErrUnknownHazardType", err)
	}
}
