package hazards

import (
	"context"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/entities"
)

const auraHazardType = "deaths_breath"

var auraIntensity = map[string]float64{
	"subtle_chill":    0.05,
	"cold_breeze":     0.10,
	"icy_presence":    0.18,
	"malevolent_gust": 0.30,
}

const defaultAuraIntensity = 0.08

// TurnResult is what one tick of the hazard world produced
type TurnResult struct {
	Messages       []string
	Consequences   []Consequence
	DeathTriggered bool
}

func (tr *TurnResult) add(res Result) {
	tr.Messages = append(tr.Messages, res.Messages...)
	tr.Consequences = append(tr.Consequences, res.Consequences...)
	if res.Outcome.Halted() && res.Outcome.Reason == "death" {
		tr.DeathTriggered = true
	}
}

// ProcessTurn runs one tick: turn hooks first, then for each hazard in spawn
// order its autonomous action, its movement and the death's-breath aura.
func (r *Registry) ProcessTurn(ctx context.Context) TurnResult {
	var out TurnResult
	if r.conductor != nil && r.conductor.IsGameOver() {
		return out
	}

	for _, hook := range r.hooks {
		out.add(hook(ctx))
	}

	for _, id := range r.ids() {
		if r.conductor != nil && r.conductor.IsGameOver() {
			break
		}
		h, ok := r.hazards[id]
		if !ok || r.IsTerminal(id) {
			continue
		}
		def := r.definition(h)
		chain := NewChain()

		out.add(r.autonomous(ctx, chain, h))
		if def.CanMove && def.Movement == entities.SeekTargetThenPlayer {
			out.add(r.move(ctx, chain, h, def))
		}
		if h.Type == auraHazardType {
			out.add(r.aura(ctx, h))
		}
	}

	if r.conductor != nil && r.conductor.IsGameOver() {
		out.DeathTriggered = true
	}
	return out
}

// autonomous dispatches the current state's autonomous action
func (r *Registry) autonomous(ctx context.Context, chain *Chain, h *entities.HazardInstance) Result {
	s, ok := r.stateOf(h)
	if !ok {
		return Result{}
	}
	switch s.AutonomousAction {
	case entities.AutonomousNone:
		return Result{}
	case entities.CheckProgressionByFlags:
		if r.conductor == nil {
			return Result{}
		}
		return r.progressOnFlags(ctx, chain, h)
	case entities.FindAndLaunchProjectile:
		return r.launchProjectile(ctx, chain, h, s)
	}
	r.log.DebugContext(ctx, "no handler for autonomous action", "hazard", h.ID, "action", s.AutonomousAction.String())
	return Result{}
}

type projectile struct {
	room *world.Room
	item *world.Item
}

// launchProjectile pulls a metallic object of a matching weight out of the
// configured rooms and starts a reaction-check naming it. With nothing left
// to pull, the hazard moves to its no-projectiles state.
func (r *Registry) launchProjectile(ctx context.Context, chain *Chain, h *entities.HazardInstance, s *catalog.StateDef) Result {
	stage := s.Projectiles
	if stage == nil || r.conductor == nil {
		return Result{}
	}
	if stage.DangerZoneFlag != "" && !r.conductor.PlayerFlag(stage.DangerZoneFlag) {
		r.log.DebugContext(ctx, "player outside danger zone", "hazard", h.ID, "flag", stage.DangerZoneFlag)
		return Result{}
	}
	lvl := r.conductor.World()
	if lvl == nil {
		return Result{}
	}

	var candidates []projectile
	for _, name := range stage.PullFromRooms {
		room := lvl.Room(name)
		if room == nil {
			continue
		}
		for _, it := range room.Items {
			if it.Metallic && weightIn(it.Weight, stage.WeightCategories) {
				candidates = append(candidates, projectile{room: room, item: it})
			}
		}
	}

	if len(candidates) == 0 {
		if s.NoProjectilesState == "" {
			return Result{}
		}
		if !chain.claimTransition(h.ID, s.NoProjectilesState) {
			r.log.WarnContext(ctx, "no-projectile transition suppressed", "hazard", h.ID, "error", ErrLoopGuard)
			return Result{}
		}
		r.log.InfoContext(ctx, "no projectiles left", "hazard", h.ID, "state", s.NoProjectilesState)
		return r.SetStateInChain(ctx, chain, h.ID, s.NoProjectilesState, TransitionOptions{})
	}

	p := candidates[r.rng.Intn(len(candidates))]
	p.room.RemoveItem(p.item)
	r.log.InfoContext(ctx, "projectile launched", "hazard", h.ID, "item", p.item.Name, "room", p.room.Name)

	if stage.Check == nil {
		return Result{}
	}
	chk := r.reactionCheck(h, stage.Check, p.item.Name)
	chk.Context["projectile"] = p.item.Name
	return Result{Consequences: []Consequence{{
		Kind:     StartReactionCheck,
		Message:  chk.Prompt,
		HazardID: h.ID,
		Check:    &chk,
		Chain:    chain,
	}}}
}

func weightIn(w string, cats []string) bool {
	for _, c := range cats {
		if c == w {
			return true
		}
	}
	return false
}

// aura nudges the other hazards in the room toward their next state with a
// chance set by the aura's own intensity.
func (r *Registry) aura(ctx context.Context, src *entities.HazardInstance) Result {
	p, ok := auraIntensity[src.State]
	if !ok {
		p = defaultAuraIntensity
	}
	var res Result
	for _, id := range r.ids() {
		h := r.hazards[id]
		if id == src.ID || h.Location != src.Location {
			continue
		}
		s, ok := r.stateOf(h)
		if !ok || s.NextState == "" {
			continue
		}
		if r.rng.Float64() >= p {
			continue
		}
		r.log.InfoContext(ctx, "aura nudged hazard", "source", src.ID, "hazard", id, "state", s.NextState)
		res.merge(r.SetState(ctx, id, s.NextState))
	}
	return res
}
