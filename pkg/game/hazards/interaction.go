package hazards

import (
	"context"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/entities"
)

const defaultRulePopupTitle = "Alert"

// InteractionResult is what a player verb did to the hazards in the player's room
type InteractionResult struct {
	Messages     []string
	Consequences []Consequence
	BlocksAction bool // A matched rule says the verb itself does not succeed
	Matched      bool
}

func (ir *InteractionResult) add(res Result) {
	ir.Messages = append(ir.Messages, res.Messages...)
	ir.Consequences = append(ir.Consequences, res.Consequences...)
}

// ProcessPlayerInteraction applies the interaction rules of every hazard in
// the player's room that answer to verb aimed at target. Hazards in a
// terminal state, or emptied, destroyed or removed, are skipped.
func (r *Registry) ProcessPlayerInteraction(ctx context.Context, verb, target string) InteractionResult {
	var out InteractionResult
	if r.conductor == nil || r.conductor.IsGameOver() {
		return out
	}
	room := r.conductor.PlayerLocation()
	verb = strings.ToLower(strings.TrimSpace(verb))
	chain := NewChain()

	for _, id := range r.ids() {
		h := r.hazards[id]
		if h.Location != room {
			continue
		}
		s, ok := r.stateOf(h)
		if !ok || s.IsTerminal() || inertStates.Has(h.State) {
			continue
		}
		def := r.definition(h)
		syns := r.targetSynonyms(h, def, target)
		state := h.State

		for _, rule := range def.RulesFor(verb) {
			if !ruleMatches(rule, state, syns) {
				continue
			}
			out.Matched = true
			if rule.BlocksActionSuccess {
				out.BlocksAction = true
			}
			h.StartedByPlayer = true
			r.log.DebugContext(ctx, "interaction rule matched", "hazard", id, "verb", verb, "target", target)

			out.add(r.applyRule(ctx, chain, h, rule))
			out.add(r.progressOnFlags(ctx, chain, h))
		}
	}

	for _, id := range r.ids() {
		if h := r.hazards[id]; h.Location == room {
			out.add(r.progressOnFlags(ctx, chain, h))
		}
	}
	return out
}

// applyRule runs a matched rule's effects in order: flags, popup, state
// change, reaction-check, message.
func (r *Registry) applyRule(ctx context.Context, chain *Chain, h *entities.HazardInstance, rule catalog.InteractionRule) Result {
	var res Result

	if rule.SetPlayerFlag != "" {
		r.conductor.SetPlayerFlag(rule.SetPlayerFlag, true)
	}
	if rule.SetInteractionFlag != "" {
		r.conductor.SetInteractionFlag(rule.SetInteractionFlag)
	}

	if p := rule.Popup; p != nil {
		title := p.Title
		if title == "" {
			title = defaultRulePopupTitle
		}
		res.Consequences = append(res.Consequences, Consequence{
			Kind:      ShowPopup,
			Title:     title,
			Message:   r.objectName(p.Message, h),
			HazardID:  h.ID,
			TakesTurn: p.TakesTurn,
		})
	}

	if next := rule.NextState(); next != "" {
		if chain.Visited(h.ID, next) {
			r.log.WarnContext(ctx, "rule transition suppressed", "hazard", h.ID, "state", next, "error", ErrLoopGuard)
		} else {
			res.merge(r.SetStateInChain(ctx, chain, h.ID, next, TransitionOptions{}))
		}
	}

	if rule.Check != nil {
		if chain.claimCheck(h.ID, "rule:"+h.State) {
			chk := r.reactionCheck(h, rule.Check, r.displayName(h))
			res.Consequences = append(res.Consequences, Consequence{
				Kind:     StartReactionCheck,
				Message:  chk.Prompt,
				HazardID: h.ID,
				Check:    &chk,
				Chain:    chain,
			})
		} else {
			r.log.WarnContext(ctx, "rule check suppressed", "hazard", h.ID, "error", ErrLoopGuard)
		}
	}

	if rule.Message != "" {
		res.Messages = append(res.Messages, r.objectName(rule.Message, h))
	}
	return res
}

// progressOnFlags advances the hazard to its next state once every flag its
// current state's progression condition requires is set.
func (r *Registry) progressOnFlags(ctx context.Context, chain *Chain, h *entities.HazardInstance) Result {
	s, ok := r.stateOf(h)
	if !ok || s.Progression == nil || len(s.Progression.RequiresAllFlags) == 0 || s.NextState == "" {
		return Result{}
	}
	for _, flag := range s.Progression.RequiresAllFlags {
		if !r.conductor.HasInteractionFlag(flag) {
			return Result{}
		}
	}
	if !chain.claimTransition(h.ID, s.NextState) {
		r.log.WarnContext(ctx, "flag progression suppressed", "hazard", h.ID, "state", s.NextState, "error", ErrLoopGuard)
		return Result{}
	}
	r.log.InfoContext(ctx, "hazard progressing on flags", "hazard", h.ID, "state", s.NextState)
	return r.SetStateInChain(ctx, chain, h.ID, s.NextState, TransitionOptions{})
}

// targetSynonyms is every normalised name target answers to for this hazard:
// the catalog synonyms of target, plus those of any bound object whose
// display name target refers to.
func (r *Registry) targetSynonyms(h *entities.HazardInstance, def *catalog.HazardDefinition, target string) mapset.Set[string] {
	syns := r.catalog.Synonyms(target)
	n := world.Normalize(target)
	for _, key := range def.SpawnEntities {
		k := key.KeyName()
		if world.Normalize(h.Entities[k]) != n && world.Normalize(k) != n {
			continue
		}
		r.catalog.Synonyms(k).Each(func(s string) { syns.Put(s) })
		for _, a := range key.KeyAliases() {
			syns.Put(world.Normalize(a))
		}
	}
	return syns
}

func ruleMatches(rule catalog.InteractionRule, state string, syns mapset.Set[string]) bool {
	if len(rule.RequiresHazardState) > 0 {
		found := false
		for _, s := range rule.RequiresHazardState {
			if s == state {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(rule.OnTargetName) == 0 {
		return true
	}
	for _, name := range rule.OnTargetName {
		if syns.Has(world.Normalize(name)) {
			return true
		}
	}
	return false
}
