package entities

import "fmt"

// AutonomousAction is a per-turn action a hazard state may run on its own
type AutonomousAction int

const (
	AutonomousNone AutonomousAction = iota
	CheckProgressionByFlags         // Advance to next_state once the required interaction flags are set
	FindAndLaunchProjectile         // Pull a metallic object toward the player and start a reaction-check
)

var autonomousNames = map[AutonomousAction]string{
	AutonomousNone:          "",
	CheckProgressionByFlags: "check_progression_by_flags",
	FindAndLaunchProjectile: "find_and_launch_projectile",
}

func (a AutonomousAction) String() string {
	if s, ok := autonomousNames[a]; ok && s != "" {
		return s
	}
	return "none"
}

// MarshalText encodes the action by name
func (a AutonomousAction) MarshalText() ([]byte, error) {
	return []byte(autonomousNames[a]), nil
}

// UnmarshalText decodes an action name, rejecting names that are not known
func (a *AutonomousAction) UnmarshalText(b []byte) error {
	for k, v := range autonomousNames {
		if v == string(b) {
			*a = k
			return nil
		}
	}
	return fmt.Errorf("unknown autonomous action %q", string(b))
}

// SpecialAction is run once when a hazard enters a state
type SpecialAction int

const (
	SpecialNone            SpecialAction = iota
	TriggerLevelTransition                // Mark the level complete and emit the completion narrative
	LockDoors                             // Seal the rooms listed in doors_to_lock
	UnlockDoors                           // Release every room this hazard type sealed
)

var specialNames = map[SpecialAction]string{
	SpecialNone:            "",
	TriggerLevelTransition: "trigger_level_transition",
	LockDoors:              "lock_doors",
	UnlockDoors:            "unlock_doors",
}

func (s SpecialAction) String() string {
	if n, ok := specialNames[s]; ok && n != "" {
		return n
	}
	return "none"
}

// MarshalText encodes the action by name
func (s SpecialAction) MarshalText() ([]byte, error) {
	return []byte(specialNames[s]), nil
}

// UnmarshalText decodes an action name, rejecting names that are not known
func (s *SpecialAction) UnmarshalText(b []byte) error {
	for k, v := range specialNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown special action %q", string(b))
}

// MovementLogic selects how a roaming hazard picks its destination
type MovementLogic int

const (
	Stationary           MovementLogic = iota
	SeekTargetThenPlayer                // Head for seekable hazard types, else sometimes for the player
)

// MarshalText encodes the movement logic by name
func (m MovementLogic) MarshalText() ([]byte, error) {
	if m == SeekTargetThenPlayer {
		return []byte("seek_target_type_then_player"), nil
	}
	return []byte(""), nil
}

// UnmarshalText decodes a movement logic name
func (m *MovementLogic) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "none", "stationary":
		*m = Stationary
	case "seek_target_type_then_player":
		*m = SeekTargetThenPlayer
	default:
		return fmt.Errorf("unknown movement logic %q", string(b))
	}
	return nil
}
