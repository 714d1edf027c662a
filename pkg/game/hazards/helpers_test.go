package hazards

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/entities"
)

// fakeConductor records everything the registry reports
type fakeConductor struct {
	level    *world.Level
	location string

	gameOver  bool
	reason    string
	levelDone int

	interaction  map[string]bool
	playerFlags  map[string]bool
	evaded       []entities.EvadedHazard
	granted      []string
	achievements map[string]bool
	score        int
	status       []string
}

func newFakeConductor(level *world.Level, location string) *fakeConductor {
	return &fakeConductor{
		level:        level,
		location:     location,
		interaction:  make(map[string]bool),
		playerFlags:  make(map[string]bool),
		achievements: make(map[string]bool),
	}
}

func (f *fakeConductor) World() *world.Level                 { return f.level }
func (f *fakeConductor) PlayerLocation() string              { return f.location }
func (f *fakeConductor) IsGameOver() bool                    { return f.gameOver }
func (f *fakeConductor) MarkGameOver(reason string)          { f.gameOver, f.reason = true, reason }
func (f *fakeConductor) MarkLevelComplete()                  { f.levelDone++ }
func (f *fakeConductor) HasInteractionFlag(flag string) bool { return f.interaction[flag] }
func (f *fakeConductor) SetInteractionFlag(flag string)      { f.interaction[flag] = true }
func (f *fakeConductor) PlayerFlag(flag string) bool         { return f.playerFlags[flag] }
func (f *fakeConductor) SetPlayerFlag(flag string, v bool)   { f.playerFlags[flag] = v }
func (f *fakeConductor) RecordEvaded(e entities.EvadedHazard) {
	f.evaded = append(f.evaded, e)
}
func (f *fakeConductor) GrantItem(key string) { f.granted = append(f.granted, key) }
func (f *fakeConductor) UnlockAchievement(id string) bool {
	if f.achievements[id] {
		return false
	}
	f.achievements[id] = true
	return true
}
func (f *fakeConductor) AddScore(points int)           { f.score += points }
func (f *fakeConductor) AddStatusEffect(effect string) { f.status = append(f.status, effect) }

const testCatalog = `
items:
  stove:
    name: stove
  floorboards:
    name: floorboards
    aliases: [boards]
  scalpel:
    is_metallic: true
    weight: light
  oxygen_tank:
    name: oxygen tank
    is_metallic: true
    weight: heavy

hazards:
  gas_leak:
    initial_state: dormant
    synergy_class: gas
    spawnable: true
    spawn_entities: [stove]
    states:
      dormant: {}
      paused:
        description: The hiss grows louder.
        next_state: active
        pause_for_player_acknowledgement: true
      active:
        description: Gas pours from the {object_name}.
        popup_title: Gas Leak
        next_state: ignition_risk
      ignition_risk:
        triggers_qte_on_entry:
          type: reaction_word
          prompt: RUN!
          expected_input: run
          next_state_on_success: evaded
          next_state_on_failure: ignited
      ignited:
        instant_death_in_room: true
        death_message: The gas ignites.
      evaded: {}
    player_interaction:
      search:
        - on_target_name: stove
          requires_hazard_state: [dormant]
          effect_on_self:
            target_state: active
          blocks_action_success: true
          message: You knock the {object_name}.

  loop:
    initial_state: a
    states:
      a:
        next_state: b
      b:
        next_state: a

  bad_trigger:
    initial_state: calm
    states:
      calm: {}
      upset:
        triggers_hazard_on_state_change:
          - target_state: active
          - hazard_type: gas_leak
            target_state: active
            message: Something hisses.

  fire:
    initial_state: burning
    can_move_between_rooms: true
    movement_logic: seek_target_type_then_player
    seekable_target_types: [gas_leak]
    player_seek_chance_if_no_primary_target: 0
    collision_effects:
      gas_leak:
        message: The {object_name} reaches the gas.
        target_state: ignition_risk
    states:
      burning: {}

  smoke:
    initial_state: drifting
    can_move_between_rooms: true
    movement_logic: seek_target_type_then_player
    collision_effects:
      player:
        message: Smoke fills your lungs.
        status_effect: choking
    states:
      drifting: {}

  magnet:
    initial_state: pulling
    states:
      pulling:
        autonomous_action: find_and_launch_projectile
        qte_stage_context:
          danger_zone_flag: in_zone
          pull_from_rooms: [A]
          pull_weight_categories: [light, medium]
          check:
            type: reaction_word
            prompt: The {object_name} flies at you!
            expected_input: dodge
            next_state_on_success: pulling
            next_state_on_failure: hit
        next_state_if_no_projectiles: powered_down
      powered_down: {}
      hit:
        instant_death_in_room: true
        death_message: It hits you.

  floor:
    initial_state: creaking
    spawn_entities: [floorboards]
    states:
      creaking:
        autonomous_action: check_progression_by_flags
        progression_condition:
          requires_all_flags: [tested]
        next_state: gone
      gone: {}
    player_interaction:
      examine:
        - on_target_name: floorboards
          requires_hazard_state: [creaking]
          sets_interaction_flag: tested
          message: The boards flex.

  door:
    initial_state: locked
    states:
      locked: {}
      open:
        is_terminal_state: true
        description: Out into the night.
        completion_narrative: Done.
        on_state_entry_special_action: trigger_level_transition
        on_state_entry_rewards:
          score_bonus: 100
          achievements_to_unlock: [escaped]

  alarm:
    initial_state: quiet
    states:
      quiet: {}
      ringing:
        description: The {object_name} shrieks.
        triggers_qte_on_entry:
          type: reaction_word
          prompt: Cover your ears!
          expected_input: cover
          next_state_on_success: quiet
          next_state_on_failure: deafened
        next_state: fading
      fading: {}
      deafened:
        death_message: Your ears ring for hours.

  deaths_breath:
    initial_state: malevolent_gust
    states:
      malevolent_gust: {}

levels:
  1:
    name: Test
    start: A
    rooms:
      - name: A
        exits: [{direction: east, to: B}]
        hazards: [gas_leak]
      - name: B
        exits: [{direction: west, to: A}]
        hazards:
          - type: fire
            chance: 0
`

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("catalog.Parse() error = %v", err)
	}
	return c
}

// lineLevel builds rooms connected east to west in the given order
func lineLevel(rooms ...string) *world.Level {
	l := world.NewLevel(1, "line")
	for i, r := range rooms {
		l.AddRoom(r)
		if i > 0 {
			l.Connect(rooms[i-1], world.East, r)
		}
	}
	return l
}

func newTestRegistry(t *testing.T, c *catalog.Catalog, cond Conductor, opts ...Option) *Registry {
	t.Helper()
	base := []Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(c, cond, append(base, opts...)...)
}

func mustSpawn(t *testing.T, r *Registry, typ, room string, opts SpawnOptions) string {
	t.Helper()
	id, ok := r.Spawn(t.Context(), typ, room, opts)
	if !ok {
		t.Fatalf("Spawn(%q, %q) failed", typ, room)
	}
	return id
}

func kinds(cs []Consequence) []Kind {
	out := make([]Kind, len(cs))
	for i, c := range cs {
		out[i] = c.Kind
	}
	return out
}
