package world

import (
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// ItemSet is a set of items
type ItemSet = mapset.Set[*Item]

// Item represents an object lying in a room or carried by the player
type Item struct {
	Key         string `yaml:"key,omitempty"` // Catalog key, empty for purely descriptive objects
	Name        string `yaml:"name"`          // Display name
	Description string `yaml:"description,omitempty"`
	HazardType  string `yaml:"hazard_type,omitempty"` // Owning hazard type for hazard-bound objects
	Metallic    bool   `yaml:"metallic,omitempty"`
	Weight      string `yaml:"weight,omitempty"` // Weight category ("light", "medium", "heavy")
}

// NewItem creates a new item with the given name
func NewItem(name string) *Item {
	return &Item{Name: name}
}

// Normalize lowercases a name and folds underscores to spaces so "IV_pole"
// and "iv pole" compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Matches reports whether the item answers to the given name
func (i *Item) Matches(name string) bool {
	n := Normalize(name)
	return n != "" && (Normalize(i.Name) == n || (i.Key != "" && Normalize(i.Key) == n))
}
