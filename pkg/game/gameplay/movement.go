package gameplay

import (
	"sort"
	"strings"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/deck"
)

// CanEnter checks whether the player may take exit e out of room from. The
// returned key names the narration for a refusal.
func CanEnter(l *world.Level, from *world.Room, e *world.Exit) (bool, string) {
	if from == nil || e == nil {
		return false, "DIRECTION_BLOCKED"
	}
	if from.Locked {
		return false, "ROOM_SEALED"
	}
	if e.Locked {
		return false, "DIRECTION_LOCKED"
	}
	to := l.Room(e.To)
	if to == nil {
		return false, "DIRECTION_BLOCKED"
	}
	if to.Locked {
		return false, "ROOM_SEALED"
	}
	return true, ""
}

// exitFor finds the exit named by target, either a direction or the name of
// the room it leads to
func exitFor(r *world.Room, target string) *world.Exit {
	if r == nil {
		return nil
	}
	if d, ok := world.ParseDirection(target); ok {
		return r.Exit(d)
	}
	want := world.Normalize(target)
	for _, e := range r.Exits {
		if world.Normalize(e.To) == want {
			return e
		}
	}
	return nil
}

// MoveRoom moves the player through the exit named by target and reports
// whether the player moved
func (s *Session) MoveRoom(target string) bool {
	here := s.level.Room(s.game.Location)
	e := exitFor(here, target)
	ok, reason := CanEnter(s.level, here, e)
	if !ok {
		switch reason {
		case "ROOM_SEALED":
			name := s.game.Location
			if e != nil && (here == nil || !here.Locked) {
				name = e.To
			}
			s.say(deck.Text(reason, name))
		default:
			s.say(deck.Text(reason, target))
		}
		return false
	}

	s.game.Location = e.To
	s.describeRoom()
	return true
}

// describeRoom narrates the player's room: where they are, what the hazards
// in it are doing, and a flavour line when the player is frightened
func (s *Session) describeRoom() {
	room := s.game.Location
	s.say(deck.Text("ROOM_ENTER", room))
	for _, h := range s.reg.HazardsInLocation(room) {
		if desc, ok := s.reg.Describe(h.ID); ok {
			s.say(desc)
		}
	}
	if flavour := s.foe.FearFlavour(s.game.Level, room); flavour != "" {
		s.say("[i]" + flavour + "[/i]")
	}
}

// exitLabels lists the exits of the player's room in direction order
func (s *Session) exitLabels() []string {
	r := s.level.Room(s.game.Location)
	if r == nil {
		return nil
	}
	exits := append([]*world.Exit(nil), r.Exits...)
	sort.SliceStable(exits, func(i, j int) bool { return exits[i].Direction < exits[j].Direction })

	labels := make([]string, 0, len(exits))
	for _, e := range exits {
		label := e.Direction.String()
		if e.Locked {
			label += " (locked)"
		}
		labels = append(labels, label)
	}
	return labels
}

// itemNames lists what lies in the player's room
func (s *Session) itemNames() []string {
	r := s.level.Room(s.game.Location)
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		names = append(names, it.Name)
	}
	return names
}

// isKey reports whether an item opens locked exits
func isKey(it *world.Item) bool {
	return strings.HasSuffix(it.Key, "_key")
}
