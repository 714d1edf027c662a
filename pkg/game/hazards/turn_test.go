package hazards

import (
	"context"
	"reflect"
	"testing"
)

func TestProcessTurn_MovementOneStepPerTurn(t *testing.T) {
	c := loadTestCatalog(t)
	cond := newFakeConductor(lineLevel("A", "B", "C"), "A")
	r := newTestRegistry(t, c, cond)
	fire := mustSpawn(t, r, "fire", "A", SpawnOptions{})
	gas := mustSpawn(t, r, "gas_leak", "C", SpawnOptions{})

	r.ProcessTurn(t.Context())
	if got, _ := r.Hazard(fire); got.Location != "B" {
		t.Fatalf("after one turn fire in %q, want B", got.Location)
	}

	res := r.ProcessTurn(t.Context())
	if got, _ := r.Hazard(fire); got.Location != "C" {
		t.Fatalf("after two turns fire in %q, want C", got.Location)
	}
	if got, _ := r.Hazard(gas); got.State != "ignition_risk" {
		t.Errorf("gas state = %q, want ignition_risk after collision", got.State)
	}
	if len(res.Messages) == 0 || res.Messages[0] != "The fire reaches the gas." {
		t.Errorf("messages = %v, want collision message", res.Messages)
	}
	if got := kinds(res.Consequences); !reflect.DeepEqual(got, []Kind{StartReactionCheck}) {
		t.Errorf("kinds = %v, want the ignition reaction-check", got)
	}
}

func TestProcessTurn_LockedExitBlocksMovement(t *testing.T) {
	c := loadTestCatalog(t)
	level := lineLevel("A", "B", "C")
	level.Room("A").ExitTo("B").Locked = true
	cond := newFakeConductor(level, "A")
	r := newTestRegistry(t, c, cond)
	fire := mustSpawn(t, r, "fire", "A", SpawnOptions{})
	mustSpawn(t, r, "gas_leak", "C", SpawnOptions{})

	r.ProcessTurn(t.Context())
	if got, _ := r.Hazard(fire); got.Location != "A" {
		t.Errorf("fire moved through a locked exit to %q", got.Location)
	}
}

func TestProcessTurn_SeeksPlayerAndCollides(t *testing.T) {
	c := loadTestCatalog(t)
	cond := newFakeConductor(lineLevel("A", "B"), "B")
	r := newTestRegistry(t, c, cond, WithPlayerSeekChance(1))
	smoke := mustSpawn(t, r, "smoke", "A", SpawnOptions{})

	res := r.ProcessTurn(t.Context())

	if got, _ := r.Hazard(smoke); got.Location != "B" {
		t.Fatalf("smoke in %q, want B", got.Location)
	}
	if !reflect.DeepEqual(cond.status, []string{"choking"}) {
		t.Errorf("status = %v, want [choking]", cond.status)
	}
	if !reflect.DeepEqual(res.Messages, []string{"Smoke fills your lungs."}) {
		t.Errorf("messages = %v", res.Messages)
	}
}

func TestProcessTurn_Projectile(t *testing.T) {
	c := loadTestCatalog(t)
	level := lineLevel("A")
	room := level.Room("A")
	room.AddItem(c.NewItem("scalpel"))
	room.AddItem(c.NewItem("oxygen_tank"))
	cond := newFakeConductor(level, "A")
	r := newTestRegistry(t, c, cond)
	id := mustSpawn(t, r, "magnet", "A", SpawnOptions{})

	if res := r.ProcessTurn(t.Context()); len(res.Consequences) != 0 {
		t.Fatalf("projectile launched outside the danger zone: %+v", res.Consequences)
	}

	cond.playerFlags["in_zone"] = true
	res := r.ProcessTurn(t.Context())
	if len(res.Consequences) != 1 || res.Consequences[0].Kind != StartReactionCheck {
		t.Fatalf("consequences = %+v, want one reaction-check", res.Consequences)
	}
	if got := res.Consequences[0].Check.Prompt; got != "The scalpel flies at you!" {
		t.Errorf("prompt = %q", got)
	}
	if room.FindItem("scalpel") != nil {
		t.Error("launched scalpel still in the room")
	}

	// Only the heavy tank is left
	r.ProcessTurn(t.Context())
	if got, _ := r.Hazard(id); got.State != "powered_down" {
		t.Errorf("state = %q, want powered_down with no projectiles left", got.State)
	}
}

func TestProcessTurn_FlagProgression(t *testing.T) {
	c := loadTestCatalog(t)
	cond := newFakeConductor(lineLevel("A"), "B")
	r := newTestRegistry(t, c, cond)
	id := mustSpawn(t, r, "floor", "A", SpawnOptions{})

	r.ProcessTurn(t.Context())
	if got, _ := r.Hazard(id); got.State != "creaking" {
		t.Fatalf("state = %q before the flag is set", got.State)
	}
	cond.interaction["tested"] = true
	r.ProcessTurn(t.Context())
	if got, _ := r.Hazard(id); got.State != "gone" {
		t.Errorf("state = %q, want gone", got.State)
	}
}

func TestProcessTurn_HooksRunFirst(t *testing.T) {
	c := loadTestCatalog(t)
	cond := newFakeConductor(lineLevel("A", "B"), "B")
	r := newTestRegistry(t, c, cond, WithPlayerSeekChance(1))
	mustSpawn(t, r, "smoke", "A", SpawnOptions{})
	calls := 0
	r.OnTurn(func(context.Context) Result {
		calls++
		return Result{Messages: []string{"A cold wind."}}
	})

	res := r.ProcessTurn(t.Context())
	if calls != 1 || len(res.Messages) < 2 || res.Messages[0] != "A cold wind." {
		t.Errorf("calls = %d, messages = %v, want hook message first", calls, res.Messages)
	}

	cond.gameOver = true
	if res := r.ProcessTurn(t.Context()); calls != 1 || len(res.Messages) != 0 {
		t.Errorf("turn ran after game over: calls = %d, res = %+v", calls, res)
	}
}

func TestProcessTurn_AuraNudges(t *testing.T) {
	c := loadTestCatalog(t)
	cond := newFakeConductor(lineLevel("A"), "B")
	r := newTestRegistry(t, c, cond)
	mustSpawn(t, r, "deaths_breath", "A", SpawnOptions{})
	gas := mustSpawn(t, r, "gas_leak", "A", SpawnOptions{InitialState: "paused"})

	for i := 0; i < 200; i++ {
		r.ProcessTurn(t.Context())
		if got, _ := r.Hazard(gas); got.State != "paused" {
			return
		}
	}
	t.Error("aura never nudged gas_leak out of paused in 200 turns")
}

func TestProcessTurn_DeathTriggered(t *testing.T) {
	c := loadTestCatalog(t)
	cond := newFakeConductor(lineLevel("A"), "A")
	r := newTestRegistry(t, c, cond)
	r.OnTurn(func(ctx context.Context) Result {
		id := mustSpawn(t, r, "gas_leak", "A", SpawnOptions{})
		return r.SetState(ctx, id, "ignited")
	})

	if res := r.ProcessTurn(t.Context()); !res.DeathTriggered {
		t.Error("DeathTriggered = false after a death in a turn hook")
	}
}
