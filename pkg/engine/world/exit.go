package world

// Exit connects a room to a neighbouring room
type Exit struct {
	Direction Direction `yaml:"direction"`
	To        string    `yaml:"to"`
	Locked    bool      `yaml:"locked,omitempty"`  // Locked exits refuse the player until unlocked
	Complex   bool      `yaml:"complex,omitempty"` // Puzzle or multi step exits; roaming hazards never path through them
}

// Passable returns true if roaming hazards may use this exit
func (e *Exit) Passable() bool {
	return !e.Locked && !e.Complex
}

// Unlock unlocks the exit
func (e *Exit) Unlock() {
	e.Locked = false
}
