// Package catalog holds the static hazard definitions, item data, synergy table
// and level plans. A Catalog is loaded once and never mutated afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/zyedidia/generic/mapset"
	"gopkg.in/yaml.v3"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/entities"
)

//go:embed data/default.yaml
var defaultData []byte

// Catalog is the immutable game data used by the hazard registry and threat model
type Catalog struct {
	Hazards map[string]*HazardDefinition `yaml:"hazards"`
	Items   map[string]*ItemDef          `yaml:"items"`
	Synergy map[string][]string          `yaml:"synergy"` // Synergy class -> partner classes
	Levels  map[int]*LevelPlan           `yaml:"levels"`
}

// HazardDefinition is the template for one hazard type
type HazardDefinition struct {
	ID                  string                       `yaml:"-"`
	Name                string                       `yaml:"name"`
	InitialState        string                       `yaml:"initial_state"`
	States              map[string]*StateDef         `yaml:"states"`
	SpawnEntities       EntityKeyList                `yaml:"spawn_entities"`
	ObjectNameOptions   []string                     `yaml:"object_name_options"`
	SynergyClass        string                       `yaml:"synergy_class"`
	Spawnable           bool                         `yaml:"spawnable"`
	CanMove             bool                         `yaml:"can_move_between_rooms"`
	Movement            entities.MovementLogic       `yaml:"movement_logic"`
	SeekableTargetTypes []string                     `yaml:"seekable_target_types"`
	PlayerSeekChance    *float64                     `yaml:"player_seek_chance_if_no_primary_target"`
	CollisionEffects    map[string]CollisionEffect   `yaml:"collision_effects"`
	PlayerInteraction   map[string][]InteractionRule `yaml:"player_interaction"`
	RoomActionRules     []InteractionRule            `yaml:"triggered_by_room_action"`
}

// StateDef is one node of a hazard's state graph
type StateDef struct {
	Name               string                    `yaml:"-"`
	Description        string                    `yaml:"description"`
	PopupTitle         string                    `yaml:"popup_title"`
	SpecialAction      entities.SpecialAction    `yaml:"on_state_entry_special_action"`
	AutonomousAction   entities.AutonomousAction `yaml:"autonomous_action"`
	Terminal           bool                      `yaml:"is_terminal_state"`
	InstantDeath       bool                      `yaml:"instant_death_in_room"`
	DeathMessage       string                    `yaml:"death_message"`
	Check              *CheckSpec                `yaml:"triggers_qte_on_entry"`
	NextState          string                    `yaml:"next_state"`
	Pause              bool                      `yaml:"pause_for_player_acknowledgement"`
	Progression        *Progression              `yaml:"progression_condition"`
	Triggers           []Trigger                 `yaml:"triggers_hazard_on_state_change"`
	Rewards            *Rewards                  `yaml:"on_state_entry_rewards"`
	DoorsToLock        []DoorLock                `yaml:"doors_to_lock"`
	Projectiles        *ProjectileStage          `yaml:"qte_stage_context"`
	NoProjectilesState string                    `yaml:"next_state_if_no_projectiles"`
	CompletionText     string                    `yaml:"completion_narrative"`
}

// IsDeath reports whether a terminal state is a death rather than a level
// completion
func (s *StateDef) IsDeath() bool {
	return s.InstantDeath || s.DeathMessage != ""
}

// IsTerminal reports whether the state ends the hazard's story (death or level complete)
func (s *StateDef) IsTerminal() bool {
	return s.Terminal || s.InstantDeath
}

// CheckSpec describes a reaction-check to start
type CheckSpec struct {
	Type          string            `yaml:"type"`
	Prompt        string            `yaml:"prompt"`
	ExpectedInput string            `yaml:"expected_input"`
	SuccessState  string            `yaml:"next_state_on_success"`
	FailureState  string            `yaml:"next_state_on_failure"`
	Context       map[string]string `yaml:"context"`
}

// Progression gates an automatic advance on interaction flags
type Progression struct {
	RequiresAllFlags []string `yaml:"requires_all_flags"`
}

// Trigger moves another hazard when this state is entered
type Trigger struct {
	HazardType  string   `yaml:"hazard_type"`
	Location    string   `yaml:"location"`
	TargetState string   `yaml:"target_state"`
	Chance      *float64 `yaml:"chance"`
	Message     string   `yaml:"message"`
}

// Rewards are granted on entering a state
type Rewards struct {
	ItemsGranted         []string `yaml:"items_granted"`
	AchievementsToUnlock []string `yaml:"achievements_to_unlock"`
	ScoreBonus           int      `yaml:"score_bonus"`
}

// DoorLock names a room to seal
type DoorLock struct {
	Room   string `yaml:"room"`
	Target string `yaml:"target"`
}

// ProjectileStage configures the projectile autonomous action
type ProjectileStage struct {
	DangerZoneFlag   string     `yaml:"danger_zone_flag"`
	PullFromRooms    []string   `yaml:"pull_from_rooms"`
	WeightCategories []string   `yaml:"pull_weight_categories"`
	Check            *CheckSpec `yaml:"check"`
}

// CollisionEffect is what happens when a roaming hazard arrives where an occupant is
type CollisionEffect struct {
	Chance       *float64 `yaml:"chance"`
	Message      string   `yaml:"message"`
	TargetState  string   `yaml:"target_state"`
	StatusEffect string   `yaml:"status_effect"`
}

// InteractionRule reacts to a player verb aimed at a hazard's objects
type InteractionRule struct {
	ActionVerb          string     `yaml:"action_verb"`
	RequiresHazardState []string   `yaml:"requires_hazard_state"`
	OnTargetName        StringList `yaml:"on_target_name"`
	SetPlayerFlag       string     `yaml:"set_player_flag"`
	SetInteractionFlag  string     `yaml:"sets_interaction_flag"`
	Popup               *Popup     `yaml:"ui_popup_event"`
	EffectOnSelf        *Effect    `yaml:"effect_on_self"`
	TargetState         string     `yaml:"target_state"`
	Check               *CheckSpec `yaml:"qte_to_trigger"`
	Message             string     `yaml:"message"`
	BlocksActionSuccess bool       `yaml:"blocks_action_success"`
}

// NextState returns the transition the rule applies to its hazard, if any
func (r *InteractionRule) NextState() string {
	if r.EffectOnSelf != nil && r.EffectOnSelf.TargetState != "" {
		return r.EffectOnSelf.TargetState
	}
	return r.TargetState
}

// Popup is a message box shown to the player
type Popup struct {
	Title     string `yaml:"title"`
	Message   string `yaml:"message"`
	TakesTurn bool   `yaml:"takes_turn"`
}

// Effect is a change a rule applies to its own hazard
type Effect struct {
	TargetState string `yaml:"target_state"`
}

// ItemDef is catalog data for an object
type ItemDef struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Metallic bool     `yaml:"is_metallic"`
	Weight   string   `yaml:"weight"`
	Hiding   bool     `yaml:"hiding_spot"`
}

// LevelPlan is the room layout and hazard seeding of one level
type LevelPlan struct {
	Name  string     `yaml:"name"`
	Start string     `yaml:"start"`
	Rooms []RoomPlan `yaml:"rooms"`
}

// RoomPlan is one room of a level plan
type RoomPlan struct {
	Name    string       `yaml:"name"`
	Exits   []ExitPlan   `yaml:"exits"`
	Items   []string     `yaml:"items"`
	Hazards []HazardSeed `yaml:"hazards"`
}

// ExitPlan is one exit of a room plan
type ExitPlan struct {
	Direction world.Direction `yaml:"direction"`
	To        string          `yaml:"to"`
	Locked    bool            `yaml:"locked"`
	Complex   bool            `yaml:"complex"`
}

// Probability returns the trigger chance, 1 when unset
func (t Trigger) Probability() float64 {
	return chanceOrOne(t.Chance)
}

// Probability returns the collision chance, 1 when unset
func (c CollisionEffect) Probability() float64 {
	return chanceOrOne(c.Chance)
}

func chanceOrOne(p *float64) float64 {
	if p == nil {
		return 1
	}
	return *p
}

// Load reads a catalog from path. An empty path loads the embedded default data.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultData)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded catalog
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

// Parse decodes and validates catalog YAML
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c.index()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return c, nil
}

// index copies map keys into the definitions
func (c *Catalog) index() {
	if c.Hazards == nil {
		c.Hazards = make(map[string]*HazardDefinition)
	}
	if c.Items == nil {
		c.Items = make(map[string]*ItemDef)
	}
	for id, h := range c.Hazards {
		h.ID = id
		if h.Name == "" {
			h.Name = id
		}
		for name, s := range h.States {
			if s == nil {
				s = &StateDef{}
				h.States[name] = s
			}
			s.Name = name
		}
	}
}

// Hazard returns the definition of a hazard type
func (c *Catalog) Hazard(id string) (*HazardDefinition, bool) {
	h, ok := c.Hazards[id]
	return h, ok
}

// HazardTypes returns every hazard type, sorted
func (c *Catalog) HazardTypes() []string {
	out := make([]string, 0, len(c.Hazards))
	for id := range c.Hazards {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SpawnableTypes returns the hazard types the antagonist may spawn, sorted
func (c *Catalog) SpawnableTypes() []string {
	out := make([]string, 0)
	for _, id := range c.HazardTypes() {
		if c.Hazards[id].Spawnable {
			out = append(out, id)
		}
	}
	return out
}

// Item returns catalog data for an item key, also trying the key with spaces as underscores
func (c *Catalog) Item(key string) (*ItemDef, bool) {
	if it, ok := c.Items[key]; ok {
		return it, true
	}
	for k, it := range c.Items {
		if world.Normalize(k) == world.Normalize(key) {
			return it, true
		}
	}
	return nil, false
}

// Synonyms returns the normalised names an object answers to: the name itself
// plus, for every catalog item the name refers to, its key, name and aliases.
func (c *Catalog) Synonyms(name string) mapset.Set[string] {
	n := world.Normalize(name)
	syns := mapset.New[string]()
	syns.Put(n)
	for key, it := range c.Items {
		names := []string{world.Normalize(key), world.Normalize(it.Name)}
		for _, a := range it.Aliases {
			names = append(names, world.Normalize(a))
		}
		hit := false
		for _, cand := range names {
			if cand == n {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for _, cand := range names {
			if cand != "" {
				syns.Put(cand)
			}
		}
	}
	return syns
}

// Level returns the plan for a level
func (c *Catalog) Level(id int) (*LevelPlan, bool) {
	l, ok := c.Levels[id]
	return l, ok
}

// State returns a state of the definition
func (h *HazardDefinition) State(name string) (*StateDef, bool) {
	s, ok := h.States[name]
	return s, ok
}

// HasState reports whether name is a node of the state graph
func (h *HazardDefinition) HasState(name string) bool {
	_, ok := h.States[name]
	return ok
}

// SeekChance returns the chance to seek the player when nothing else is seekable
func (h *HazardDefinition) SeekChance(fallback float64) float64 {
	if h.PlayerSeekChance == nil {
		return fallback
	}
	return *h.PlayerSeekChance
}

// RulesFor returns the interaction rules for a verb: player_interaction rules
// first, then room action rules with a matching action_verb.
func (h *HazardDefinition) RulesFor(verb string) []InteractionRule {
	out := append([]InteractionRule(nil), h.PlayerInteraction[verb]...)
	for _, r := range h.RoomActionRules {
		if r.ActionVerb == verb {
			out = append(out, r)
		}
	}
	return out
}

// NewItem creates a world item from catalog data, falling back to the key as its name
func (c *Catalog) NewItem(key string) *world.Item {
	it := &world.Item{Key: key, Name: key}
	if def, ok := c.Item(key); ok {
		if def.Name != "" {
			it.Name = def.Name
		}
		it.Metallic = def.Metallic
		it.Weight = def.Weight
	}
	return it
}
