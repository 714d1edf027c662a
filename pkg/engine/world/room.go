package world

// Room is one node of the level graph
type Room struct {
	Name  string
	Exits []*Exit
	Items []*Item

	Locked   bool   // Whole room sealed; entering is refused regardless of exits
	LockedBy string // Who sealed the room, empty when Locked comes from level data

	lockedBefore bool
}

// Exit returns the exit in the given direction, or nil
func (r *Room) Exit(d Direction) *Exit {
	for _, e := range r.Exits {
		if e.Direction == d {
			return e
		}
	}
	return nil
}

// ExitTo returns the first exit leading to the named room, or nil
func (r *Room) ExitTo(name string) *Exit {
	for _, e := range r.Exits {
		if e.To == name {
			return e
		}
	}
	return nil
}

// FindItem returns the first item answering to name, or nil
func (r *Room) FindItem(name string) *Item {
	for _, it := range r.Items {
		if it.Matches(name) {
			return it
		}
	}
	return nil
}

// AddItem places an item in the room
func (r *Room) AddItem(it *Item) {
	r.Items = append(r.Items, it)
}

// RemoveItem removes the item from the room and reports whether it was present
func (r *Room) RemoveItem(it *Item) bool {
	for i, cur := range r.Items {
		if cur == it {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Seal locks the room on behalf of by, remembering the previous lock state
func (r *Room) Seal(by string) {
	if r.LockedBy == "" {
		r.lockedBefore = r.Locked
	}
	r.Locked = true
	r.LockedBy = by
}

// Release restores the lock state the room had before Seal
func (r *Room) Release() {
	r.Locked = r.lockedBefore
	r.LockedBy = ""
	r.lockedBefore = false
}
