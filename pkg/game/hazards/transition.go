package hazards

import (
	"context"
	"strings"

	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/entities"
)

const (
	defaultPopupTitle  = "Notice"
	levelCompleteTitle = "Level Complete"
)

// TransitionOptions tune a single transition
type TransitionOptions struct {
	// SuppressEntryEffects skips the state's special action and rewards, used
	// when silently finalising a freshly spawned hazard.
	SuppressEntryEffects bool
}

// SetState moves a hazard to state in a fresh resolution chain
func (r *Registry) SetState(ctx context.Context, id, state string) Result {
	return r.SetStateInChain(ctx, NewChain(), id, state, TransitionOptions{})
}

// SetStateByType moves the first hazard of type typ in room to state
func (r *Registry) SetStateByType(ctx context.Context, room, typ, state string) Result {
	id, ok := r.InstanceIDByType(room, typ)
	if !ok {
		r.log.WarnContext(ctx, "no hazard of type in room", "room", room, "type", typ, "error", ErrUnknownHazard)
		return Result{}
	}
	return r.SetState(ctx, id, state)
}

// SetStateInChain moves a hazard to state as part of an existing resolution
// chain. Consequences that continue the cascade carry the same chain, so a
// hazard is never sent back to a state it already reached in this cascade.
func (r *Registry) SetStateInChain(ctx context.Context, chain *Chain, id, state string, opts TransitionOptions) Result {
	if chain == nil {
		chain = NewChain()
	}

	// Validate
	h, ok := r.hazards[id]
	if !ok {
		r.log.WarnContext(ctx, "set state skipped", "hazard", id, "state", state, "error", ErrUnknownHazard)
		return Result{}
	}
	if h.State == state {
		return Result{}
	}
	def := r.definition(h)
	s, ok := def.State(state)
	if !ok {
		r.log.WarnContext(ctx, "set state skipped", "hazard", id, "state", state, "error", ErrUnknownState)
		return Result{}
	}

	// Update
	chain.enter(id, state)
	prev := h.State
	h.State = state
	r.refreshEntityDescriptions(h, s)
	r.log.DebugContext(ctx, "hazard state changed", "hazard", id, "from", prev, "to", state, "chain", chain.Len())

	// Game-over guard
	if r.conductor != nil && r.conductor.IsGameOver() {
		r.log.WarnContext(ctx, "consequences suppressed", "hazard", id, "state", state, "error", ErrGameOver)
		return Result{Outcome: Halt("game over")}
	}

	var res Result
	triggered := r.fireTriggers(ctx, chain, h, s, &res)

	if safeStates.Has(state) && r.conductor != nil {
		r.conductor.RecordEvaded(entities.EvadedHazard{
			HazardID: h.ID,
			Type:     h.Type,
			Name:     r.displayName(h),
			State:    state,
		})
	}

	if !opts.SuppressEntryEffects {
		r.runEntryActions(ctx, h, s)
	}

	if s.IsTerminal() {
		c, outcome := r.terminal(ctx, h, s)
		res.Consequences = []Consequence{c}
		res.Outcome = outcome
		return res
	}

	res.Consequences = append(r.buildConsequences(ctx, chain, h, s), triggered...)
	return res
}

// fireTriggers rolls each cross-hazard trigger of the entered state and
// returns a state change for every one that fires.
func (r *Registry) fireTriggers(ctx context.Context, chain *Chain, h *entities.HazardInstance, s *catalog.StateDef, res *Result) []Consequence {
	var out []Consequence
	for i, t := range s.Triggers {
		if t.HazardType == "" || t.TargetState == "" {
			r.log.WarnContext(ctx, "trigger skipped", "hazard", h.ID, "state", s.Name, "index", i, "error", ErrMalformedTrigger)
			continue
		}
		if r.rng.Float64() > t.Probability() {
			continue
		}
		room := t.Location
		if room == "" {
			room = h.Location
		}
		target, ok := r.findOrCreate(ctx, t.HazardType, room, t.TargetState)
		if !ok {
			continue
		}
		if t.Message != "" {
			res.Messages = append(res.Messages, t.Message)
		}
		if !chain.claimTransition(target, t.TargetState) {
			r.log.WarnContext(ctx, "trigger suppressed", "hazard", target, "state", t.TargetState, "error", ErrLoopGuard)
			continue
		}
		out = append(out, Consequence{
			Kind:        HazardStateChange,
			HazardID:    target,
			TargetState: t.TargetState,
			Chain:       chain,
		})
	}
	return out
}

// runEntryActions runs the state's special action and grants its rewards.
// The conductor narrates the rewards it receives.
func (r *Registry) runEntryActions(ctx context.Context, h *entities.HazardInstance, s *catalog.StateDef) {
	if r.conductor == nil {
		return
	}

	switch s.SpecialAction {
	case entities.SpecialNone:
	case entities.TriggerLevelTransition:
		r.conductor.MarkLevelComplete()
	case entities.LockDoors:
		if lvl := r.conductor.World(); lvl != nil {
			for _, d := range s.DoorsToLock {
				for _, name := range []string{d.Room, d.Target} {
					if room := lvl.Room(name); room != nil {
						room.Seal(h.Type)
					}
				}
			}
		}
	case entities.UnlockDoors:
		if lvl := r.conductor.World(); lvl != nil {
			n := lvl.ReleaseAll(h.Type)
			r.log.DebugContext(ctx, "doors released", "hazard", h.ID, "rooms", n)
		}
	}

	if s.Rewards == nil {
		return
	}
	for _, item := range s.Rewards.ItemsGranted {
		r.conductor.GrantItem(item)
	}
	for _, a := range s.Rewards.AchievementsToUnlock {
		r.conductor.UnlockAchievement(a)
	}
	if s.Rewards.ScoreBonus != 0 {
		r.conductor.AddScore(s.Rewards.ScoreBonus)
	}
}

// terminal builds the single consequence of a death or level-complete state
func (r *Registry) terminal(ctx context.Context, h *entities.HazardInstance, s *catalog.StateDef) (Consequence, Outcome) {
	if s.IsDeath() {
		reason := s.DeathMessage
		if reason == "" {
			reason = r.objectName(s.Description, h)
		}
		if r.conductor != nil {
			r.conductor.MarkGameOver(reason)
		}
		r.log.InfoContext(ctx, "player killed", "hazard", h.ID, "state", s.Name)
		return Consequence{
			Kind:        ShowPopup,
			Title:       defaultPopupTitle,
			Message:     reason,
			HazardID:    h.ID,
			TargetState: s.Name,
			OnClose:     []UIEvent{{Kind: GameOver, Reason: reason}},
		}, Halt("death")
	}

	if r.conductor != nil {
		r.conductor.MarkLevelComplete()
	}
	r.log.InfoContext(ctx, "level complete", "hazard", h.ID, "state", s.Name)
	return Consequence{
		Kind:        ShowPopup,
		Title:       levelCompleteTitle,
		Message:     r.objectName(s.Description, h),
		HazardID:    h.ID,
		TargetState: s.Name,
		OnClose:     []UIEvent{{Kind: LevelComplete, Narrative: s.CompletionText}},
	}, Halt("level complete")
}

// buildConsequences picks the primary consequences of a non-terminal state:
// a popup (with a deferred check or paused transition, followed by an
// unpaused auto-advance), otherwise an immediate check, otherwise an
// auto-advance.
func (r *Registry) buildConsequences(ctx context.Context, chain *Chain, h *entities.HazardInstance, s *catalog.StateDef) []Consequence {
	var out []Consequence
	msg := r.objectName(s.Description, h)

	switch {
	case msg != "":
		title := s.PopupTitle
		if title == "" {
			title = defaultPopupTitle
		}
		popup := Consequence{
			Kind:        ShowPopup,
			Title:       title,
			Message:     msg,
			HazardID:    h.ID,
			TargetState: s.Name,
			Chain:       chain,
		}
		switch {
		case s.Check != nil:
			if chain.claimCheck(h.ID, s.Name) {
				popup.Deferred = DeferredCheck{Check: r.reactionCheck(h, s.Check, r.displayName(h)), Chain: chain}
			} else {
				r.log.WarnContext(ctx, "deferred check suppressed", "hazard", h.ID, "state", s.Name, "error", ErrLoopGuard)
			}
		case s.NextState != "" && s.Pause:
			if chain.claimTransition(h.ID, s.NextState) {
				popup.Deferred = DeferredTransition{HazardID: h.ID, State: s.NextState, Chain: chain}
			} else {
				r.log.WarnContext(ctx, "deferred transition suppressed", "hazard", h.ID, "state", s.NextState, "error", ErrLoopGuard)
			}
		}
		out = append(out, popup)
		if s.NextState != "" && !s.Pause {
			if c, ok := r.autoAdvance(ctx, chain, h, s.NextState); ok {
				out = append(out, c)
			}
		}

	case s.Check != nil:
		if chain.claimCheck(h.ID, s.Name) {
			chk := r.reactionCheck(h, s.Check, r.displayName(h))
			out = append(out, Consequence{
				Kind:     StartReactionCheck,
				Message:  chk.Prompt,
				HazardID: h.ID,
				Check:    &chk,
				Chain:    chain,
			})
		} else {
			r.log.WarnContext(ctx, "reaction check suppressed", "hazard", h.ID, "state", s.Name, "error", ErrLoopGuard)
		}

	case s.NextState != "" && !s.Pause:
		if c, ok := r.autoAdvance(ctx, chain, h, s.NextState); ok {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) autoAdvance(ctx context.Context, chain *Chain, h *entities.HazardInstance, next string) (Consequence, bool) {
	if !chain.claimTransition(h.ID, next) {
		r.log.WarnContext(ctx, "auto-advance suppressed", "hazard", h.ID, "state", next, "error", ErrLoopGuard)
		return Consequence{}, false
	}
	return Consequence{
		Kind:        HazardStateChange,
		HazardID:    h.ID,
		TargetState: next,
		Chain:       chain,
	}, true
}

// reactionCheck builds the check a state hands to the reaction-check
// subsystem, naming name in its prompt.
func (r *Registry) reactionCheck(h *entities.HazardInstance, spec *catalog.CheckSpec, name string) ReactionCheck {
	meta := make(map[string]string, len(spec.Context)+2)
	for k, v := range spec.Context {
		meta[k] = v
	}
	meta["hazard_type"] = h.Type
	meta["room"] = h.Location
	return ReactionCheck{
		Type:          spec.Type,
		Prompt:        strings.ReplaceAll(spec.Prompt, "{object_name}", name),
		ExpectedInput: spec.ExpectedInput,
		HazardID:      h.ID,
		SuccessState:  spec.SuccessState,
		FailureState:  spec.FailureState,
		Context:       meta,
	}
}

// refreshEntityDescriptions rewrites the descriptions of the hazard's objects
// in its room to match the entered state.
func (r *Registry) refreshEntityDescriptions(h *entities.HazardInstance, s *catalog.StateDef) {
	if r.conductor == nil || r.conductor.World() == nil || s.Description == "" {
		return
	}
	room := r.conductor.World().Room(h.Location)
	if room == nil {
		return
	}
	for _, it := range room.Items {
		if _, bound := h.Entities[it.Key]; bound && it.HazardType == h.Type {
			it.Description = strings.ReplaceAll(s.Description, "{object_name}", it.Name)
		}
	}
}

// Follow applies every HazardStateChange in res within its chain, depth
// first, and returns the flattened result. Applied state changes stay in the
// returned list in the order they were produced.
func (r *Registry) Follow(ctx context.Context, res Result) Result {
	out := Result{Messages: res.Messages, Outcome: res.Outcome}
	for _, c := range res.Consequences {
		out.Consequences = append(out.Consequences, c)
		if c.Kind != HazardStateChange || out.Outcome.Halted() {
			continue
		}
		next := r.SetStateInChain(ctx, c.Chain, c.HazardID, c.TargetState, TransitionOptions{})
		out.merge(r.Follow(ctx, next))
	}
	return out
}
