package gameplay

import (
	"context"

	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/hazards"
	"dreadhall/pkg/game/threat"
)

// Popup is a message the player must acknowledge before its continuation runs
type Popup struct {
	Title     string
	Message   string
	HazardID  string
	Deferred  hazards.Deferred
	OnClose   []hazards.UIEvent
	TakesTurn bool
}

type pendingCheck struct {
	check hazards.ReactionCheck
	chain *hazards.Chain
}

// ReactionChecker runs a reaction-check and reports whether the player passed
type ReactionChecker interface {
	Run(ctx context.Context, check hazards.ReactionCheck) bool
}

// ReactionCheckerFunc adapts a function to ReactionChecker
type ReactionCheckerFunc func(ctx context.Context, check hazards.ReactionCheck) bool

// Run calls f
func (f ReactionCheckerFunc) Run(ctx context.Context, check hazards.ReactionCheck) bool {
	return f(ctx, check)
}

// resolve applies every cascaded state change in res, then hands each
// consequence to the part of the game that deals with it, in order.
func (s *Session) resolve(ctx context.Context, res hazards.Result) {
	res = s.reg.Follow(ctx, res)
	for _, msg := range res.Messages {
		s.say(msg)
	}
	for _, c := range res.Consequences {
		switch c.Kind {
		case hazards.ShowPopup:
			s.popups = append(s.popups, Popup{
				Title:     c.Title,
				Message:   c.Message,
				HazardID:  c.HazardID,
				Deferred:  c.Deferred,
				OnClose:   c.OnClose,
				TakesTurn: c.TakesTurn,
			})
		case hazards.ShowMessage:
			s.say(c.Message)
		case hazards.StartReactionCheck:
			if c.Check != nil {
				s.checks = append(s.checks, pendingCheck{check: *c.Check, chain: c.Chain})
			}
		case hazards.HazardStateChange:
			// Applied by Follow
		case hazards.GameOver:
			s.MarkGameOver(c.Message)
		case hazards.LevelComplete:
			s.MarkLevelComplete()
		}
	}
	if res.Outcome.Halted() {
		s.log.DebugContext(ctx, "resolution halted", "reason", res.Outcome.Reason)
	}
}

// PendingPopup returns the popup waiting for acknowledgement
func (s *Session) PendingPopup() (Popup, bool) {
	if len(s.popups) == 0 {
		return Popup{}, false
	}
	return s.popups[0], true
}

// PendingCheck returns the reaction-check waiting for a result. Checks wait
// until every popup in front of them has been dismissed.
func (s *Session) PendingCheck() (hazards.ReactionCheck, bool) {
	if len(s.popups) > 0 || len(s.checks) == 0 {
		return hazards.ReactionCheck{}, false
	}
	return s.checks[0].check, true
}

// Acknowledge dismisses the front popup, applies its close events and runs
// its deferred continuation. It returns the narration that followed.
func (s *Session) Acknowledge(ctx context.Context) []string {
	if len(s.popups) == 0 {
		s.say(deck.Text("NOTHING_TO_ACK"))
		return s.flush()
	}
	p := s.popups[0]
	s.popups = s.popups[1:]

	for _, ev := range p.OnClose {
		switch ev.Kind {
		case hazards.GameOver:
			s.MarkGameOver(ev.Reason)
			s.say(deck.Text("GAME_OVER", s.game.GameOverReason))
		case hazards.LevelComplete:
			s.MarkLevelComplete()
			s.say(ev.Narrative)
		}
	}

	switch d := p.Deferred.(type) {
	case hazards.DeferredCheck:
		s.checks = append(s.checks, pendingCheck{check: d.Check, chain: d.Chain})
	case hazards.DeferredTransition:
		s.resolve(ctx, s.reg.SetStateInChain(ctx, d.Chain, d.HazardID, d.State, hazards.TransitionOptions{}))
	}

	if p.TakesTurn && !s.Over() {
		s.endTurn(ctx, turnAction{verb: "wait", success: true})
	}
	s.advanceLevel(ctx)
	return s.flush()
}

// ResolveCheck applies the outcome of the front reaction-check: the hazard
// moves to the success or failure state and the antagonist learns how the
// player reacted.
func (s *Session) ResolveCheck(ctx context.Context, success bool) []string {
	if len(s.checks) == 0 {
		return s.flush()
	}
	pc := s.checks[0]
	s.checks = s.checks[1:]

	verb, next, line := threat.VerbQTEFailure, pc.check.FailureState, "CHECK_FAILURE"
	if success {
		verb, next, line = threat.VerbQTESuccess, pc.check.SuccessState, "CHECK_SUCCESS"
	}
	s.say(deck.Text(line))
	s.log.DebugContext(ctx, "reaction check resolved", "hazard", pc.check.HazardID, "type", pc.check.Type, "success", success)

	if next != "" {
		s.resolve(ctx, s.reg.SetStateInChain(ctx, pc.chain, pc.check.HazardID, next, hazards.TransitionOptions{}))
	}
	target := ""
	if h, ok := s.reg.Hazard(pc.check.HazardID); ok {
		target = h.DisplayName()
	}
	s.foe.AnalyzePlayerAction(ctx, threat.Action{
		Verb:    verb,
		Target:  target,
		Room:    s.game.Location,
		Success: success,
		Turn:    s.game.Turn,
	})
	s.advanceLevel(ctx)
	return s.flush()
}

// Drain dismisses every popup and runs every reaction-check until nothing is
// left or the game ends. show is called with each popup before it is
// dismissed and with the narration that followed.
func (s *Session) Drain(ctx context.Context, checker ReactionChecker, show func(p *Popup, lines []string)) {
	for {
		if p, ok := s.PendingPopup(); ok {
			show(&p, nil)
			if lines := s.Acknowledge(ctx); len(lines) > 0 {
				show(nil, lines)
			}
			continue
		}
		chk, ok := s.PendingCheck()
		if !ok || s.game.GameOver {
			return
		}
		success := checker != nil && checker.Run(ctx, chk)
		if lines := s.ResolveCheck(ctx, success); len(lines) > 0 {
			show(nil, lines)
		}
	}
}
