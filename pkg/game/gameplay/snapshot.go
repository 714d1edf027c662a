package gameplay

import (
	"context"
	"fmt"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/renderer"
	"dreadhall/pkg/game/savestore"
	"dreadhall/pkg/game/state"
	"dreadhall/pkg/game/threat"
)

// Snapshot captures the session for saving. Popups and reaction-checks still
// waiting are not part of it.
func (s *Session) Snapshot() savestore.Snapshot {
	return savestore.Snapshot{
		Level:   s.level.Snapshot(),
		Player:  s.game.Snapshot(),
		Hazards: s.reg.Snapshot(),
		Threat:  s.foe.Snapshot(),
	}
}

// RestoreSession resumes a session from a saved snapshot
func RestoreSession(ctx context.Context, cat *catalog.Catalog, snap savestore.Snapshot, opts ...Option) (*Session, error) {
	s := newSession(cat, opts...)
	s.level = world.RestoreLevel(snap.Level)
	s.game = state.Restore(snap.Player)
	if s.level.Room(s.game.Location) == nil {
		return nil, fmt.Errorf("restore session: player in unknown room %q", s.game.Location)
	}
	if err := s.reg.Restore(snap.Hazards); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s.foe.Restore(snap.Threat)

	s.log.InfoContext(ctx, "session restored", "level", s.game.Level, "turn", s.game.Turn)
	s.say(deck.Text("GAME_LOADED", s.game.Level, s.game.Turn))
	s.describeRoom()
	return s, nil
}

// Frame gathers what the renderer shows after a command
func (s *Session) Frame(lines []string) renderer.Frame {
	return renderer.Frame{
		Level:     s.game.Level,
		LevelName: s.level.Name,
		Room:      s.game.Location,
		Lines:     lines,
		Exits:     s.exitLabels(),
		Items:     s.itemNames(),
		Inventory: s.game.CarriedNames(),
		Fear:      s.foe.Fear(),
		Score:     s.game.Score,
		Turn:      s.game.Turn,
	}
}

// ThreatReport returns the antagonist's view of the level
func (s *Session) ThreatReport() threat.StatusReport {
	return s.foe.StatusReport()
}
