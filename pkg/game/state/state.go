package state

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/entities"
)

const maxMessages = 5

// Game is the player and world state the conductor owns
type Game struct {
	Level    int // Current level number
	Location string
	Turn     int
	Score    int

	OwnedItems world.ItemSet

	Messages []string

	PlayerFlags      map[string]bool
	InteractionFlags mapset.Set[string]
	Achievements     mapset.Set[string]
	StatusEffects    []string
	Evaded           []entities.EvadedHazard

	GameOver       bool
	GameOverReason string
	LevelComplete  bool
	RunComplete    bool
}

// NewGame creates a new game instance
func NewGame() *Game {
	return &Game{
		Level:            1,
		OwnedItems:       mapset.New[*world.Item](),
		Messages:         make([]string, 0),
		PlayerFlags:      make(map[string]bool),
		InteractionFlags: mapset.New[string](),
		Achievements:     mapset.New[string](),
	}
}

// AddMessage adds a message to the game's message log
func (g *Game) AddMessage(msg string) {
	g.Messages = append(g.Messages, msg)

	// Keep only the last maxMessages
	if len(g.Messages) > maxMessages {
		g.Messages = g.Messages[len(g.Messages)-maxMessages:]
	}
}

// ClearMessages clears all messages
func (g *Game) ClearMessages() {
	g.Messages = make([]string, 0)
}

// PickUpItem adds an item to the player's inventory
func (g *Game) PickUpItem(item *world.Item) {
	g.OwnedItems.Put(item)
}

// HasItem checks if the player has a specific item
func (g *Game) HasItem(item *world.Item) bool {
	return g.OwnedItems.Has(item)
}

// FindItem returns the carried item answering to name, or nil
func (g *Game) FindItem(name string) *world.Item {
	var found *world.Item
	g.OwnedItems.Each(func(it *world.Item) {
		if found == nil && it.Matches(name) {
			found = it
		}
	})
	return found
}

// DropItem removes an item from the inventory
func (g *Game) DropItem(item *world.Item) {
	g.OwnedItems.Remove(item)
}

// CarriedNames returns the names of carried items in alphabetical order
func (g *Game) CarriedNames() []string {
	names := make([]string, 0, g.OwnedItems.Size())
	g.OwnedItems.Each(func(it *world.Item) {
		names = append(names, it.Name)
	})
	sort.Strings(names)
	return names
}

// MarkGameOver ends the game. The first reason given is kept.
func (g *Game) MarkGameOver(reason string) {
	if g.GameOver {
		return
	}
	g.GameOver = true
	g.GameOverReason = reason
}

// UnlockAchievement records an achievement and reports whether it is new
func (g *Game) UnlockAchievement(id string) bool {
	if g.Achievements.Has(id) {
		return false
	}
	g.Achievements.Put(id)
	return true
}

// AddStatusEffect records a status effect once
func (g *Game) AddStatusEffect(effect string) {
	for _, e := range g.StatusEffects {
		if e == effect {
			return
		}
	}
	g.StatusEffects = append(g.StatusEffects, effect)
}

// AdvanceLevel increments the level counter and resets level-specific state.
// Score, achievements and the evaded tally carry over.
func (g *Game) AdvanceLevel() {
	g.Level++
	g.OwnedItems = mapset.New[*world.Item]()
	g.PlayerFlags = make(map[string]bool)
	g.InteractionFlags = mapset.New[string]()
	g.StatusEffects = nil
	g.LevelComplete = false
	g.Location = ""
}
