// Package setup checks that a freshly built level is playable before the
// registry seeds it.
package setup

import (
	"errors"
	"fmt"
	"strings"

	"dreadhall/pkg/engine/world"
)

// ErrDisconnected is returned when some rooms cannot be reached from the start room
var ErrDisconnected = errors.New("level has unreachable rooms")

// UnreachableRooms returns the rooms that cannot be reached from the start room,
// in level order. Locked exits count as traversable since they can be opened;
// complex exits do not.
func UnreachableRooms(l *world.Level) []string {
	reached := l.ReachableFrom(l.Start)
	var out []string
	for _, name := range l.RoomNames() {
		if !reached.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// CheckConnectivity returns ErrDisconnected naming every unreachable room
func CheckConnectivity(l *world.Level) error {
	if l.Room(l.Start) == nil {
		return fmt.Errorf("start room %q: %w", l.Start, ErrDisconnected)
	}
	if missing := UnreachableRooms(l); len(missing) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrDisconnected)
	}
	return nil
}

// HasExitBack reports whether every exit has a matching exit in the other
// direction. One-way exits are legal but usually a typo in level data.
func HasExitBack(l *world.Level) []string {
	var oneWay []string
	l.ForEachRoom(func(r *world.Room) {
		for _, e := range r.Exits {
			to := l.Room(e.To)
			if to == nil || to.ExitTo(r.Name) == nil {
				oneWay = append(oneWay, r.Name+" -> "+e.To)
			}
		}
	})
	return oneWay
}
