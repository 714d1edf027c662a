package state

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/entities"
)

// Snapshot is the serialisable form of a Game
type Snapshot struct {
	Level            int                     `yaml:"level"`
	Location         string                  `yaml:"location"`
	Turn             int                     `yaml:"turn"`
	Score            int                     `yaml:"score"`
	Inventory        []world.Item            `yaml:"inventory"`
	PlayerFlags      map[string]bool         `yaml:"player_flags"`
	InteractionFlags []string                `yaml:"interaction_flags"`
	Achievements     []string                `yaml:"achievements"`
	StatusEffects    []string                `yaml:"status_effects"`
	Evaded           []entities.EvadedHazard `yaml:"evaded"`
	GameOver         bool                    `yaml:"game_over"`
	GameOverReason   string                  `yaml:"game_over_reason,omitempty"`
	LevelComplete    bool                    `yaml:"level_complete"`
	RunComplete      bool                    `yaml:"run_complete"`
}

// Snapshot captures the game. Sets are written sorted so saves are stable.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Level:            g.Level,
		Location:         g.Location,
		Turn:             g.Turn,
		Score:            g.Score,
		PlayerFlags:      make(map[string]bool, len(g.PlayerFlags)),
		InteractionFlags: sortedSet(g.InteractionFlags),
		Achievements:     sortedSet(g.Achievements),
		StatusEffects:    append([]string(nil), g.StatusEffects...),
		Evaded:           append([]entities.EvadedHazard(nil), g.Evaded...),
		GameOver:         g.GameOver,
		GameOverReason:   g.GameOverReason,
		LevelComplete:    g.LevelComplete,
		RunComplete:      g.RunComplete,
	}
	for k, v := range g.PlayerFlags {
		snap.PlayerFlags[k] = v
	}
	g.OwnedItems.Each(func(it *world.Item) {
		snap.Inventory = append(snap.Inventory, *it)
	})
	sort.Slice(snap.Inventory, func(i, j int) bool { return snap.Inventory[i].Name < snap.Inventory[j].Name })
	return snap
}

// Restore rebuilds a game from a snapshot
func Restore(snap Snapshot) *Game {
	g := NewGame()
	g.Level = snap.Level
	if g.Level < 1 {
		g.Level = 1
	}
	g.Location = snap.Location
	g.Turn = snap.Turn
	g.Score = snap.Score
	for i := range snap.Inventory {
		it := snap.Inventory[i]
		g.OwnedItems.Put(&it)
	}
	for k, v := range snap.PlayerFlags {
		g.PlayerFlags[k] = v
	}
	for _, f := range snap.InteractionFlags {
		g.InteractionFlags.Put(f)
	}
	for _, a := range snap.Achievements {
		g.Achievements.Put(a)
	}
	g.StatusEffects = append([]string(nil), snap.StatusEffects...)
	g.Evaded = append([]entities.EvadedHazard(nil), snap.Evaded...)
	g.GameOver = snap.GameOver
	g.GameOverReason = snap.GameOverReason
	g.LevelComplete = snap.LevelComplete
	g.RunComplete = snap.RunComplete
	return g
}

func sortedSet(s mapset.Set[string]) []string {
	out := make([]string, 0, s.Size())
	s.Each(func(v string) {
		out = append(out, v)
	})
	sort.Strings(out)
	return out
}
