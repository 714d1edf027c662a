package world

import "strings"

// Direction represents the direction of an exit out of a room
type Direction int

// Direction constants
const (
	North Direction = iota
	East
	South
	West
	Up
	Down
)

// AllDirections returns all valid directions for iteration
func AllDirections() []Direction {
	return []Direction{North, East, South, West, Up, Down}
}

// String returns the string representation of a direction
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	case Up:
		return "Up"
	case Down:
		return "Down"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the direction is a known direction
func (d Direction) IsValid() bool {
	return d >= North && d <= Down
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Up:
		return Down
	case Down:
		return Up
	default:
		return d
	}
}

// ParseDirection accepts full names and the usual one letter abbreviations.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, true
	case "e", "east":
		return East, true
	case "s", "south":
		return South, true
	case "w", "west":
		return West, true
	case "u", "up":
		return Up, true
	case "d", "down":
		return Down, true
	}
	return 0, false
}

// MarshalText encodes the direction as its lower case name
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(d.String())), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, ok := ParseDirection(string(b))
	if !ok {
		return &UnknownDirectionError{Name: string(b)}
	}
	*d = parsed
	return nil
}

// UnknownDirectionError is returned when a direction name cannot be parsed
type UnknownDirectionError struct {
	Name string
}

func (e *UnknownDirectionError) Error() string {
	return "unknown direction " + `"` + e.Name + `"`
}
