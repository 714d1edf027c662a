package hazards

import "errors"

// Gameplay never returns these; they are logged under the "error" key so a
// malformed rule or a tripped guard can be told apart in the logs.
var (
	ErrUnknownHazardType = errors.New("unknown hazard type")
	ErrUnknownHazard     = errors.New("unknown hazard instance")
	ErrUnknownState      = errors.New("state not in hazard state graph")
	ErrMalformedTrigger  = errors.New("malformed trigger")
	ErrLoopGuard         = errors.New("loop guard triggered")
	ErrGameOver          = errors.New("game over")
)
