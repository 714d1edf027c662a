package world

// LevelSnapshot is the serialisable form of a Level
type LevelSnapshot struct {
	ID    int            `yaml:"id"`
	Name  string         `yaml:"name"`
	Start string         `yaml:"start"`
	Rooms []RoomSnapshot `yaml:"rooms"`
}

// RoomSnapshot is the serialisable form of a Room
type RoomSnapshot struct {
	Name         string `yaml:"name"`
	Exits        []Exit `yaml:"exits"`
	Items        []Item `yaml:"items"`
	Locked       bool   `yaml:"locked"`
	LockedBy     string `yaml:"locked_by,omitempty"`
	LockedBefore bool   `yaml:"locked_before,omitempty"`
}

// Snapshot copies the level in room order. Exit and item lists are never
// nil so a snapshot compares equal to its decoded copy.
func (l *Level) Snapshot() LevelSnapshot {
	snap := LevelSnapshot{ID: l.ID, Name: l.Name, Start: l.Start}
	l.ForEachRoom(func(r *Room) {
		rs := RoomSnapshot{
			Name:         r.Name,
			Locked:       r.Locked,
			LockedBy:     r.LockedBy,
			LockedBefore: r.lockedBefore,
			Exits:        make([]Exit, 0, len(r.Exits)),
			Items:        make([]Item, 0, len(r.Items)),
		}
		for _, e := range r.Exits {
			rs.Exits = append(rs.Exits, *e)
		}
		for _, it := range r.Items {
			rs.Items = append(rs.Items, *it)
		}
		snap.Rooms = append(snap.Rooms, rs)
	})
	return snap
}

// RestoreLevel rebuilds a level from a snapshot
func RestoreLevel(snap LevelSnapshot) *Level {
	l := NewLevel(snap.ID, snap.Name)
	for _, rs := range snap.Rooms {
		r := l.AddRoom(rs.Name)
		r.Locked = rs.Locked
		r.LockedBy = rs.LockedBy
		r.lockedBefore = rs.LockedBefore
		for _, e := range rs.Exits {
			e := e
			r.Exits = append(r.Exits, &e)
		}
		for _, it := range rs.Items {
			it := it
			r.Items = append(r.Items, &it)
		}
	}
	if snap.Start != "" {
		l.Start = snap.Start
	}
	return l
}
