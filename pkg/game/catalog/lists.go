package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"dreadhall/pkg/game/entities"
)

// StringList accepts either a single scalar or a sequence of scalars
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (s *StringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*s = StringList{n.Value}
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := n.Decode(&out); err != nil {
			return err
		}
		*s = out
		return nil
	}
	return fmt.Errorf("line %d: expected string or list of strings", n.Line)
}

// EntityKeyList is a list of entity keys, each written either as a bare
// name or as a mapping with name and aliases.
type EntityKeyList []entities.EntityKey

// UnmarshalYAML implements yaml.Unmarshaler
func (l *EntityKeyList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: spawn_entities must be a list", n.Line)
	}
	out := make(EntityKeyList, 0, len(n.Content))
	for _, item := range n.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, entities.Key(item.Value))
		case yaml.MappingNode:
			var k entities.KeyWithAlias
			if err := item.Decode(&k); err != nil {
				return err
			}
			if k.Name == "" {
				return fmt.Errorf("line %d: entity key without name", item.Line)
			}
			out = append(out, k)
		default:
			return fmt.Errorf("line %d: unsupported entity key", item.Line)
		}
	}
	*l = out
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (l EntityKeyList) MarshalYAML() (any, error) {
	out := make([]any, 0, len(l))
	for _, k := range l {
		switch v := k.(type) {
		case entities.Key:
			out = append(out, string(v))
		case entities.KeyWithAlias:
			out = append(out, v)
		}
	}
	return out, nil
}

// HazardSeed places a hazard type in a room with a chance. Written either as
// a bare type name (chance 1) or as a mapping.
type HazardSeed struct {
	Type   string   `yaml:"type"`
	Chance *float64 `yaml:"chance"`
}

// Probability returns the seed chance, 1 when unset
func (h HazardSeed) Probability() float64 {
	return chanceOrOne(h.Chance)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (h *HazardSeed) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		h.Type = n.Value
		h.Chance = nil
		return nil
	}
	type plain HazardSeed
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*h = HazardSeed(p)
	return nil
}
