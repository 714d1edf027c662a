package gameplay

import (
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/threat"
)

const testCatalog = `
items:
  brass_key:
    name: brass key
    weight: light
  lantern:
    weight: light
  anvil:
    weight: heavy
  stove:
    name: stove

hazards:
  gas_leak:
    initial_state: dormant
    spawn_entities: [stove]
    states:
      dormant: {}
      active:
        description: Gas pours from the {object_name}.
        popup_title: Gas Leak
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

  exit_door:
    initial_state: sealed
    spawn_entities: [door]
    states:
      sealed: {}
      open:
        is_terminal_state: true
        description: Cold air rushes in.
        completion_narrative: You step out into the night.
        on_state_entry_special_action: trigger_level_transition
        on_state_entry_rewards:
          score_bonus: 100
          achievements_to_unlock: [escaped]
    player_interaction:
      use:
        - on_target_name: door
          requires_hazard_state: [sealed]
          target_state: open

levels:
  1:
    name: Ward
    start: Hall
    rooms:
      - name: Hall
        exits:
          - {direction: east, to: Kitchen}
          - {direction: north, to: Vault, locked: true}
        items: [brass_key, lantern, anvil]
      - name: Kitchen
        exits:
          - {direction: west, to: Hall}
        hazards: [gas_leak]
      - name: Vault
        exits:
          - {direction: south, to: Hall, locked: true}
        hazards: [exit_door]
  2:
    name: Attic
    start: Landing
    rooms:
      - name: Landing
  3:
    name: Cellar
    start: Stairs
    rooms:
      - name: Stairs
        hazards: [exit_door]
`

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("catalog.Parse() error = %v", err)
	}
	return c
}

// testOptions keeps the antagonist quiet so scripted runs stay predictable
func testOptions(extra ...Option) []Option {
	cfg := threat.DefaultConfig()
	cfg.EscalationThreshold = 1000
	cfg.Hallucinations = false
	return append([]Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithThreatConfig(cfg),
	}, extra...)
}

func newTestSession(t *testing.T, extra ...Option) *Session {
	t.Helper()
	s, err := NewSession(t.Context(), loadTestCatalog(t), testOptions(extra...)...)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	s.Intro()
	return s
}

// run executes a command and fails the test if it produced nothing
func run(t *testing.T, s *Session, verb, target string) []string {
	t.Helper()
	lines := s.Execute(t.Context(), verb, target)
	if len(lines) == 0 {
		t.Fatalf("Execute(%q, %q) produced no narration", verb, target)
	}
	return lines
}

func hasLine(lines []string, want string) bool {
	for _, l := range lines {
		if strings.Contains(l, want) {
			return true
		}
	}
	return false
}
