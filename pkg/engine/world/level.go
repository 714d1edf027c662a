package world

import (
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
)

// Level is the room graph of one level
type Level struct {
	ID    int
	Name  string
	Start string

	rooms map[string]*Room
	order []string
}

// NewLevel creates an empty level
func NewLevel(id int, name string) *Level {
	return &Level{
		ID:    id,
		Name:  name,
		rooms: make(map[string]*Room),
	}
}

// AddRoom adds a room, returning the existing one if the name is taken.
// The first room added becomes the start room.
func (l *Level) AddRoom(name string) *Room {
	if r, ok := l.rooms[name]; ok {
		return r
	}
	r := &Room{Name: name}
	l.rooms[name] = r
	l.order = append(l.order, name)
	if l.Start == "" {
		l.Start = name
	}
	return r
}

// Connect links two rooms in both directions, creating them if needed
func (l *Level) Connect(from string, d Direction, to string) (*Exit, *Exit) {
	a := l.AddRoom(from)
	b := l.AddRoom(to)
	out := &Exit{Direction: d, To: to}
	back := &Exit{Direction: d.Opposite(), To: from}
	a.Exits = append(a.Exits, out)
	b.Exits = append(b.Exits, back)
	return out, back
}

// Room returns the named room, or nil
func (l *Level) Room(name string) *Room {
	return l.rooms[name]
}

// HasRoom reports whether the level has the named room
func (l *Level) HasRoom(name string) bool {
	_, ok := l.rooms[name]
	return ok
}

// RoomNames returns room names in insertion order
func (l *Level) RoomNames() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// ForEachRoom calls fn for every room in insertion order
func (l *Level) ForEachRoom(fn func(r *Room)) {
	for _, name := range l.order {
		fn(l.rooms[name])
	}
}

// NextStepToward returns the first room on a shortest path from start to target,
// travelling only through passable exits. ok is false when start == target or no
// path exists.
func (l *Level) NextStepToward(start, target string) (string, bool) {
	if start == target || l.Room(start) == nil || l.Room(target) == nil {
		return "", false
	}

	type step struct {
		room  string
		first string
	}

	visited := mapset.New[string]()
	visited.Put(start)
	q := queue.New[step]()
	q.Enqueue(step{room: start})

	for !q.Empty() {
		cur := q.Dequeue()
		for _, e := range l.Room(cur.room).Exits {
			if !e.Passable() || visited.Has(e.To) || l.Room(e.To) == nil {
				continue
			}
			first := cur.first
			if first == "" {
				first = e.To
			}
			if e.To == target {
				return first, true
			}
			visited.Put(e.To)
			q.Enqueue(step{room: e.To, first: first})
		}
	}
	return "", false
}

// ReachableFrom returns every room reachable from start through exits that are
// not complex. Locked exits count as reachable since they can be opened.
func (l *Level) ReachableFrom(start string) mapset.Set[string] {
	visited := mapset.New[string]()
	if l.Room(start) == nil {
		return visited
	}
	q := queue.New[string]()
	q.Enqueue(start)
	visited.Put(start)
	for !q.Empty() {
		cur := q.Dequeue()
		for _, e := range l.Room(cur).Exits {
			if e.Complex || visited.Has(e.To) || l.Room(e.To) == nil {
				continue
			}
			visited.Put(e.To)
			q.Enqueue(e.To)
		}
	}
	return visited
}

// FindItem searches every room for an item answering to name
func (l *Level) FindItem(name string) (*Room, *Item) {
	for _, rn := range l.order {
		r := l.rooms[rn]
		if it := r.FindItem(name); it != nil {
			return r, it
		}
	}
	return nil, nil
}

// ReleaseAll restores every room sealed by by and returns how many were released
func (l *Level) ReleaseAll(by string) int {
	n := 0
	l.ForEachRoom(func(r *Room) {
		if r.LockedBy == by {
			r.Release()
			n++
		}
	})
	return n
}
