package hazards

import (
	"context"
	"strings"

	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/entities"
)

const playerOccupant = "player"

// move takes one step toward the nearest room holding a seekable hazard type,
// else, by chance, toward the player. Bound objects follow the hazard and
// collisions are resolved in the room it arrives in.
func (r *Registry) move(ctx context.Context, chain *Chain, h *entities.HazardInstance, def *catalog.HazardDefinition) Result {
	if r.conductor == nil || r.conductor.World() == nil {
		return Result{}
	}
	lvl := r.conductor.World()

	target := r.seekTarget(h, def)
	if target == "" && r.rng.Float64() < def.SeekChance(r.playerSeekChance) {
		target = r.conductor.PlayerLocation()
		r.log.DebugContext(ctx, "hazard seeking player", "hazard", h.ID, "room", target)
	}
	if target == "" || target == h.Location {
		return Result{}
	}

	next, ok := lvl.NextStepToward(h.Location, target)
	if !ok {
		r.log.DebugContext(ctx, "no path", "hazard", h.ID, "from", h.Location, "to", target)
		return Result{}
	}

	from := h.Location
	h.Location = next
	r.removeEntities(h, from)
	r.spawnEntities(h, def)
	r.log.InfoContext(ctx, "hazard moved", "hazard", h.ID, "from", from, "to", next, "target", target)

	return r.collide(ctx, chain, h, def)
}

// seekTarget returns the first room, in level order, other than the hazard's
// own that holds a hazard of a seekable type.
func (r *Registry) seekTarget(h *entities.HazardInstance, def *catalog.HazardDefinition) string {
	if len(def.SeekableTargetTypes) == 0 {
		return ""
	}
	for _, room := range r.conductor.World().RoomNames() {
		if room == h.Location {
			continue
		}
		for _, typ := range def.SeekableTargetTypes {
			if _, ok := r.InstanceIDByType(room, typ); ok {
				return room
			}
		}
	}
	return ""
}

// collide resolves the mover's collision effects against the player and every
// other hazard sharing its room.
func (r *Registry) collide(ctx context.Context, chain *Chain, h *entities.HazardInstance, def *catalog.HazardDefinition) Result {
	var res Result
	if len(def.CollisionEffects) == 0 {
		return res
	}
	name := r.displayName(h)

	if h.Location == r.conductor.PlayerLocation() {
		if eff, ok := def.CollisionEffects[playerOccupant]; ok && r.rng.Float64() < eff.Probability() {
			if eff.Message != "" {
				res.Messages = append(res.Messages, strings.ReplaceAll(eff.Message, "{object_name}", name))
			}
			if eff.StatusEffect != "" {
				r.conductor.AddStatusEffect(eff.StatusEffect)
			}
			r.log.InfoContext(ctx, "hazard collided with player", "hazard", h.ID, "room", h.Location)
		}
	}

	for _, id := range r.ids() {
		other := r.hazards[id]
		if id == h.ID || other.Location != h.Location {
			continue
		}
		eff, ok := def.CollisionEffects[other.Type]
		if !ok || r.rng.Float64() >= eff.Probability() {
			continue
		}
		if eff.Message != "" {
			res.Messages = append(res.Messages, strings.ReplaceAll(eff.Message, "{object_name}", name))
		}
		r.log.InfoContext(ctx, "hazard collision", "hazard", h.ID, "other", id, "state", eff.TargetState)
		if eff.TargetState == "" {
			continue
		}
		if !chain.claimTransition(id, eff.TargetState) {
			r.log.WarnContext(ctx, "collision transition suppressed", "hazard", id, "state", eff.TargetState, "error", ErrLoopGuard)
			continue
		}
		res.merge(r.SetStateInChain(ctx, chain, id, eff.TargetState, TransitionOptions{}))
	}
	return res
}
