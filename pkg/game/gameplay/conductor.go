package gameplay

import (
	"context"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/entities"
	"dreadhall/pkg/game/hazards"
	"dreadhall/pkg/game/threat"
)

var (
	_ hazards.Conductor = (*Session)(nil)
	_ threat.Locator    = (*Session)(nil)
)

// World returns the current level's room graph
func (s *Session) World() *world.Level {
	return s.level
}

// PlayerLocation returns the room the player is in
func (s *Session) PlayerLocation() string {
	return s.game.Location
}

// IsGameOver reports whether the player has died
func (s *Session) IsGameOver() bool {
	return s.game.GameOver
}

// MarkGameOver ends the game with reason
func (s *Session) MarkGameOver(reason string) {
	if s.game.GameOver {
		return
	}
	s.game.MarkGameOver(reason)
	s.log.Info("game over", "reason", reason, "level", s.game.Level, "turn", s.game.Turn)
}

// MarkLevelComplete flags the level as done. Safe to call more than once.
func (s *Session) MarkLevelComplete() {
	s.game.LevelComplete = true
}

// HasInteractionFlag reports whether a level interaction flag is set
func (s *Session) HasInteractionFlag(flag string) bool {
	return s.game.InteractionFlags.Has(flag)
}

// SetInteractionFlag sets a level interaction flag
func (s *Session) SetInteractionFlag(flag string) {
	s.game.InteractionFlags.Put(flag)
}

// PlayerFlag returns a player flag
func (s *Session) PlayerFlag(flag string) bool {
	return s.game.PlayerFlags[flag]
}

// SetPlayerFlag sets or clears a player flag
func (s *Session) SetPlayerFlag(flag string, value bool) {
	if value {
		s.game.PlayerFlags[flag] = true
		return
	}
	delete(s.game.PlayerFlags, flag)
}

// RecordEvaded tallies a hazard the player got past. Getting past one is a
// near miss as far as fear is concerned.
func (s *Session) RecordEvaded(e entities.EvadedHazard) {
	s.game.Evaded = append(s.game.Evaded, e)
	s.foe.UpdateFear(context.Background(), threat.FearNearMiss)
}

// GrantItem puts a catalog item straight into the inventory
func (s *Session) GrantItem(key string) {
	it := s.cat.NewItem(key)
	s.game.PickUpItem(it)
	s.say(deck.Text("ITEM_GRANTED", "ITEM{"+it.Name+"}"))
}

// UnlockAchievement records an achievement, reporting whether it is new
func (s *Session) UnlockAchievement(id string) bool {
	if !s.game.UnlockAchievement(id) {
		return false
	}
	s.say(deck.Text("ACHIEVEMENT", id))
	return true
}

// AddScore adds points to the score
func (s *Session) AddScore(points int) {
	s.game.Score += points
}

// AddStatusEffect applies a status effect to the player
func (s *Session) AddStatusEffect(effect string) {
	s.game.AddStatusEffect(effect)
}
