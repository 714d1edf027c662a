package hazards

import (
	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/entities"
)

// Conductor is the narrow view of the player and world the registry needs.
// The conductor owns this state; the registry only reads it and reports to it.
type Conductor interface {
	World() *world.Level
	PlayerLocation() string

	IsGameOver() bool
	MarkGameOver(reason string)
	MarkLevelComplete()

	HasInteractionFlag(flag string) bool
	SetInteractionFlag(flag string)
	PlayerFlag(flag string) bool
	SetPlayerFlag(flag string, value bool)

	RecordEvaded(e entities.EvadedHazard)
	GrantItem(key string)
	UnlockAchievement(id string) bool
	AddScore(points int)
	AddStatusEffect(effect string)
}
