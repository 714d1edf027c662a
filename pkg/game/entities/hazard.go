// Package entities holds the runtime shapes shared by the hazard registry and
// the threat model.
package entities

// HazardInstance is one live hazard in the world
type HazardInstance struct {
	ID              string            `yaml:"id"`
	Type            string            `yaml:"type"`
	Name            string            `yaml:"name"`
	State           string            `yaml:"state"`
	Location        string            `yaml:"location"`
	Target          string            `yaml:"target,omitempty"`   // Object the hazard is bound to, overrides the definition default
	Source          string            `yaml:"source,omitempty"`   // What spawned it: level_seed, trigger, escalation, interaction
	StartedByPlayer bool              `yaml:"started_by_player"`  // Set once a player interaction rule matched it
	Entities        map[string]string `yaml:"entities,omitempty"` // Entity key -> display name chosen at spawn
}

// DisplayName returns the name shown to the player
func (h *HazardInstance) DisplayName() string {
	if h.Target != "" {
		return h.Target
	}
	if len(h.Entities) == 1 {
		for _, name := range h.Entities {
			if name != "" {
				return name
			}
		}
	}
	if h.Name != "" {
		return h.Name
	}
	return h.Type
}

// Clone returns a deep copy so callers cannot mutate registry state
func (h *HazardInstance) Clone() HazardInstance {
	c := *h
	if h.Entities != nil {
		c.Entities = make(map[string]string, len(h.Entities))
		for k, v := range h.Entities {
			c.Entities[k] = v
		}
	}
	return c
}

// EntityKey names an object a hazard owns in its room. It is either a bare
// Key or a KeyWithAlias carrying extra display names.
type EntityKey interface {
	KeyName() string
	KeyAliases() []string
	entityKey()
}

// Key is an entity key with no extra aliases
type Key string

func (k Key) KeyName() string      { return string(k) }
func (k Key) KeyAliases() []string { return nil }
func (Key) entityKey()             {}

// KeyWithAlias is an entity key with its own display aliases
type KeyWithAlias struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

func (k KeyWithAlias) KeyName() string      { return k.Name }
func (k KeyWithAlias) KeyAliases() []string { return k.Aliases }
func (KeyWithAlias) entityKey()             {}

// EvadedHazard records a hazard the player got past
type EvadedHazard struct {
	HazardID string `yaml:"hazard_id"`
	Type     string `yaml:"type"`
	Name     string `yaml:"name"`
	State    string `yaml:"state"`
}
