package hazards

// Kind is the kind of a consequence
type Kind int

const (
	ShowPopup          Kind = iota // Message box the player must acknowledge
	ShowMessage                    // Plain narration line
	StartReactionCheck             // Hand a reaction-check to the reaction-check subsystem
	HazardStateChange              // Apply a transition to a hazard in the same resolution chain
	GameOver                       // The player died
	LevelComplete                  // The level was completed
)

func (k Kind) String() string {
	switch k {
	case ShowPopup:
		return "show_popup"
	case ShowMessage:
		return "show_message"
	case StartReactionCheck:
		return "start_reaction_check"
	case HazardStateChange:
		return "hazard_state_change"
	case GameOver:
		return "game_over"
	case LevelComplete:
		return "level_complete"
	default:
		return "unknown"
	}
}

// ReactionCheck is a timed-input challenge handed to the reaction-check subsystem
type ReactionCheck struct {
	Type          string
	Prompt        string
	ExpectedInput string
	HazardID      string // Hazard whose state the outcome applies to
	SuccessState  string
	FailureState  string
	Context       map[string]string
}

// UIEvent is emitted by the conductor once a popup is closed
type UIEvent struct {
	Kind      Kind // GameOver or LevelComplete
	Reason    string
	Narrative string
}

// Deferred is a continuation to run once the player acknowledges a popup.
// It is either a DeferredCheck or a DeferredTransition.
type Deferred interface {
	ResolutionChain() *Chain
	deferred()
}

// DeferredCheck starts a reaction-check on dismissal
type DeferredCheck struct {
	Check ReactionCheck
	Chain *Chain
}

func (d DeferredCheck) ResolutionChain() *Chain { return d.Chain }
func (DeferredCheck) deferred()                 {}

// DeferredTransition moves a hazard to a state on dismissal
type DeferredTransition struct {
	HazardID string
	State    string
	Chain    *Chain
}

func (d DeferredTransition) ResolutionChain() *Chain { return d.Chain }
func (DeferredTransition) deferred()                 {}

// Consequence is one unit of effect produced by a state transition
type Consequence struct {
	Kind        Kind
	Title       string
	Message     string
	HazardID    string
	TargetState string
	Check       *ReactionCheck
	OnClose     []UIEvent
	Deferred    Deferred
	Chain       *Chain // Chain a HazardStateChange continues in
	TakesTurn   bool   // Acknowledging the popup consumes the player's turn
}

// Outcome tells the caller whether a processing step let the chain continue
type Outcome struct {
	halted bool
	Reason string
}

// Continue is the outcome of a step that let processing go on
var Continue = Outcome{}

// Halt stops further consequence construction for the given reason
func Halt(reason string) Outcome {
	return Outcome{halted: true, Reason: reason}
}

// Halted reports whether processing stopped
func (o Outcome) Halted() bool {
	return o.halted
}

// Result is what a state transition hands back to the conductor
type Result struct {
	Messages     []string
	Consequences []Consequence
	Outcome      Outcome
}

// merge appends other's messages and consequences, keeping the first halt
func (r *Result) merge(other Result) {
	r.Messages = append(r.Messages, other.Messages...)
	r.Consequences = append(r.Consequences, other.Consequences...)
	if !r.Outcome.Halted() && other.Outcome.Halted() {
		r.Outcome = other.Outcome
	}
}
