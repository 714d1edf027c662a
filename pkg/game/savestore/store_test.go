package savestore

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/entities"
	"dreadhall/pkg/game/hazards"
	"dreadhall/pkg/game/state"
	"dreadhall/pkg/game/threat"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func testSnapshot(turn int) Snapshot {
	l := world.NewLevel(1, "Hospital")
	l.Connect("Reception", world.North, "Patient Ward")
	l.Room("Patient Ward").AddItem(&world.Item{Key: "iv_pole", Name: "IV pole", Metallic: true, Weight: "medium"})

	g := state.NewGame()
	g.Location = "Patient Ward"
	g.Turn = turn
	g.Score = 15
	g.InteractionFlags.Put("noticed_gas")

	return Snapshot{
		Level:  l.Snapshot(),
		Player: g.Snapshot(),
		Hazards: hazards.Snapshot{Hazards: []entities.HazardInstance{{
			ID: "flood#0000abcd", Type: "flood", Name: "flood", State: "pooling", Location: "Patient Ward",
			Entities: map[string]string{"puddle": "puddle"},
		}}},
		Threat: threat.Snapshot{
			LocationThreat: map[string]float64{"Patient Ward": 2.5},
			ObjectThreat:   map[string]float64{},
			Safety:         map[string]float64{"Office": 1},
			Aggression:     1.2,
			Fear:           0.3,
			Pending: []threat.Strategy{{
				Reason: threat.ReasonTooSafe + "Office", Room: "Office", Priority: 8,
				Kind: threat.SpawnInSafeZone, Seq: 1,
			}},
			Seq: 1,
		},
	}
}

func TestNewStoreRequiresPath(t *testing.T) {
	if _, err := NewStore(" "); err == nil {
		t.Fatal("NewStore(\" \") error = nil, want error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	session, err := store.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	want := testSnapshot(4)
	id, err := store.Save(ctx, session, want)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got.Level, want.Level) {
		t.Errorf("Level = %+v, want %+v", got.Level, want.Level)
	}
	if !reflect.DeepEqual(got.Hazards, want.Hazards) {
		t.Errorf("Hazards = %+v, want %+v", got.Hazards, want.Hazards)
	}
	if got.Player.Location != "Patient Ward" || got.Player.Turn != 4 || got.Player.InteractionFlags[0] != "noticed_gas" {
		t.Errorf("Player = %+v", got.Player)
	}
	if !reflect.DeepEqual(got.Threat.Pending, want.Threat.Pending) || got.Threat.Fear != 0.3 {
		t.Errorf("Threat = %+v, want %+v", got.Threat, want.Threat)
	}
}

func TestLoadMissing(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(nope) error = %v, want ErrNotFound", err)
	}
	if _, _, err := store.Latest(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() on empty store error = %v, want ErrNotFound", err)
	}
}

func TestLatestAndList(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	session, err := store.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	var ids []string
	for turn := 1; turn <= 3; turn++ {
		id, err := store.Save(ctx, session, testSnapshot(turn))
		if err != nil {
			t.Fatalf("Save(turn %d) error = %v", turn, err)
		}
		ids = append(ids, id)
	}

	slot, snap, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if slot.ID != ids[2] || slot.Turn != 3 || snap.Player.Turn != 3 || slot.SessionID != session {
		t.Errorf("Latest() = %+v, turn %d, want slot %s at turn 3", slot, snap.Player.Turn, ids[2])
	}

	slots, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(slots) != 3 || slots[0].ID != ids[2] || slots[2].ID != ids[0] {
		t.Errorf("List() = %+v, want newest first", slots)
	}
}

func TestSaveRequiresSession(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.Save(context.Background(), "no-such-session", testSnapshot(1)); err == nil {
		t.Error("Save() under an unknown session succeeded, want foreign key error")
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	session, err := store.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := store.Save(ctx, session, testSnapshot(1)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.DeleteSession(ctx, session); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if slots, _ := store.List(ctx); len(slots) != 0 {
		t.Errorf("List() after delete = %+v, want empty", slots)
	}
	if err := store.DeleteSession(ctx, session); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteSession() error = %v, want ErrNotFound", err)
	}
}
