package gameplay

import (
	"context"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/hazards"
	"dreadhall/pkg/game/threat"
)

// presenceHazard is the hazard whose presence makes examining things an omen
const presenceHazard = "deaths_breath"

// Verbs the conductor handles itself. Any other verb only does something if a
// hazard rule answers to it.
var knownVerbs = mapset.Of("move", "examine", "search", "take", "drop", "use", "unlock", "wait")

type turnAction struct {
	verb    string
	target  string
	success bool
}

// Execute runs one player command: hazard interaction rules first, then the
// verb itself, then the turn tick. It returns the narration produced.
func (s *Session) Execute(ctx context.Context, verb, target string) []string {
	verb = strings.ToLower(strings.TrimSpace(verb))
	target = strings.TrimSpace(target)

	switch {
	case s.game.GameOver:
		s.say(deck.Text("GAME_OVER", s.game.GameOverReason))
		return s.flush()
	case s.game.RunComplete:
		s.say(deck.Text("RUN_COMPLETE"))
		return s.flush()
	}

	// Free actions
	switch {
	case verb == "":
		return s.flush()
	case verb == "ack":
		return s.Acknowledge(ctx)
	case verb == "inventory" || verb == "i":
		s.sayInventory()
		return s.flush()
	case verb == "examine" && target == "":
		s.describeRoom()
		return s.flush()
	}

	if !s.mayAttempt(verb, target) {
		return s.flush()
	}

	ir := s.reg.ProcessPlayerInteraction(ctx, verb, target)
	if !ir.Matched && !knownVerbs.Has(verb) {
		s.say(deck.Text("UNKNOWN_COMMAND", verb))
		return s.flush()
	}
	s.resolve(ctx, hazards.Result{Messages: ir.Messages, Consequences: ir.Consequences})

	success := !ir.BlocksAction
	if success && !s.game.GameOver {
		success = s.perform(ctx, verb, target, ir.Matched)
	}

	if !s.game.GameOver {
		s.endTurn(ctx, turnAction{verb: verb, target: target, success: success})
	}
	s.advanceLevel(ctx)
	return s.flush()
}

// mayAttempt refuses commands the player has no means to carry out. A refused
// command costs no turn.
func (s *Session) mayAttempt(verb, target string) bool {
	switch verb {
	case "use":
		if target != "" && s.reachable(target) == nil {
			s.say(deck.Text("NOT_CARRYING", target))
			return false
		}
	case "unlock":
		if exitFor(s.level.Room(s.game.Location), target) == nil && s.carriedKey() == nil {
			s.say(deck.Text("NEED_KEY"))
			return false
		}
	}
	return true
}

// perform carries out a verb once no hazard rule has blocked it, reporting
// whether it succeeded
func (s *Session) perform(ctx context.Context, verb, target string, matched bool) bool {
	room := s.level.Room(s.game.Location)

	switch verb {
	case "move":
		return s.MoveRoom(target)

	case "examine":
		if _, ok := s.reg.HazardState(presenceHazard, s.game.Location); ok {
			s.foe.UpdateFear(ctx, threat.FearExamineOmen)
		}
		it := s.reachable(target)
		switch {
		case it != nil && it.Description != "":
			s.say(it.Description)
		case it != nil:
			s.say(deck.Text("NOTHING_SPECIAL", it.Name))
		case s.describeHazard(target):
		case !matched:
			s.say(deck.Text("NOTHING_HERE"))
			return false
		}
		return true

	case "search":
		if target != "" && s.reachable(target) == nil && !matched {
			s.say(deck.Text("NOTHING_HERE"))
			return false
		}
		if !matched {
			s.say(deck.Text("NOTHING_FOUND"))
		}
		return true

	case "take":
		var it *world.Item
		if room != nil {
			it = room.FindItem(target)
		}
		switch {
		case it == nil:
			s.say(deck.Text("NOTHING_HERE"))
			return false
		case !portable(it):
			s.say(deck.Text("CANNOT_TAKE", it.Name))
			return false
		}
		room.RemoveItem(it)
		s.game.PickUpItem(it)
		s.say(deck.Text("PICKED_UP", "ITEM{"+it.Name+"}"))
		return true

	case "drop":
		it := s.game.FindItem(target)
		if it == nil || room == nil {
			s.say(deck.Text("NOT_CARRYING", target))
			return false
		}
		s.game.DropItem(it)
		room.AddItem(it)
		s.say(deck.Text("DROPPED", "ITEM{"+it.Name+"}"))
		return true

	case "unlock":
		if e := exitFor(room, target); e != nil {
			return s.unlockExit(e)
		}
		if !matched {
			s.say(deck.Text("NOTHING_HAPPENS"))
		}
		return matched

	case "use":
		if !matched {
			s.say(deck.Text("NOTHING_HAPPENS"))
		}
		return matched

	case "wait":
		s.say(deck.Text("WAIT"))
		return true
	}
	return matched
}

// unlockExit opens a locked exit from both sides with a carried key
func (s *Session) unlockExit(e *world.Exit) bool {
	if !e.Locked {
		s.say(deck.Text("NOTHING_HAPPENS"))
		return false
	}
	if s.carriedKey() == nil {
		s.say(deck.Text("NEED_KEY"))
		return false
	}
	e.Unlock()
	if back := s.level.Room(e.To); back != nil {
		if be := back.ExitTo(s.game.Location); be != nil {
			be.Unlock()
		}
	}
	s.say(deck.Text("EXIT_UNLOCKED", e.Direction.String()))
	return true
}

// endTurn ticks the hazard world, then lets the antagonist learn from the
// action, lets fear ebb and rolls for a hallucination
func (s *Session) endTurn(ctx context.Context, a turnAction) {
	s.game.Turn++
	tr := s.reg.ProcessTurn(ctx)
	s.resolve(ctx, hazards.Result{Messages: tr.Messages, Consequences: tr.Consequences})
	if tr.DeathTriggered || s.game.GameOver {
		return
	}

	s.foe.AnalyzePlayerAction(ctx, threat.Action{
		Verb:    a.verb,
		Target:  a.target,
		Room:    s.game.Location,
		Success: a.success,
		Turn:    s.game.Turn,
	})
	s.foe.DecayFear()

	if msg, ok := s.foe.MaybeHallucinate(ctx, s.game.Level, s.game.Location); ok {
		s.say("[i]" + msg + "[/i]")
	}
	if omen, ok := s.foe.OmenMessage(); ok && omen != s.lastOmen {
		s.lastOmen = omen
		s.say("[i]" + omen + "[/i]")
	}
}

func (s *Session) sayInventory() {
	names := s.game.CarriedNames()
	if len(names) == 0 {
		s.say(deck.Text("INVENTORY_EMPTY"))
		return
	}
	for i, n := range names {
		names[i] = "ITEM{" + n + "}"
	}
	s.say(deck.Text("INVENTORY", strings.Join(names, ", ")))
}

// reachable returns the item named target that is carried or in the room
func (s *Session) reachable(target string) *world.Item {
	if it := s.game.FindItem(target); it != nil {
		return it
	}
	if r := s.level.Room(s.game.Location); r != nil {
		return r.FindItem(target)
	}
	return nil
}

// describeHazard narrates the hazard in the room answering to target
func (s *Session) describeHazard(target string) bool {
	want := world.Normalize(target)
	for _, h := range s.reg.HazardsInLocation(s.game.Location) {
		if want != world.Normalize(h.DisplayName()) && want != world.Normalize(h.Type) {
			continue
		}
		if desc, ok := s.reg.Describe(h.ID); ok {
			s.say(desc)
			return true
		}
	}
	return false
}

func (s *Session) carriedKey() *world.Item {
	var key *world.Item
	s.game.OwnedItems.Each(func(it *world.Item) {
		if key == nil && isKey(it) {
			key = it
		}
	})
	return key
}

// portable reports whether the player can pick an item up. Hazard-bound and
// heavy objects stay where they are.
func portable(it *world.Item) bool {
	if it.HazardType != "" {
		return false
	}
	return isKey(it) || (it.Weight != "" && it.Weight != "heavy")
}
