package threat

import (
	"context"
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/hazards"
)

// Escalation reasons. The room-scoped ones are prefixes completed by a room
// name, or by a "room:target" key for hiding spots.
const (
	ReasonQTESuccess = "player_too_successful_at_qtes"
	ReasonTooSafe    = "player_feels_too_safe_"
	ReasonThreatHigh = "location_threat_high_"
	ReasonHidingSpot = "overused_hiding_spot_"
)

// Checked in order; the first substring found in a reason gives its priority
var reasonPriority = []struct {
	substr   string
	priority float64
}{
	{"player_too_successful_at_qtes", 10},
	{"player_feels_too_safe", 8},
	{"location_threat_high", 6},
	{"overused_hiding_spot", 7},
}

const defaultPriority = 5.0

const (
	safetyContamination = 2.0
	qteAggressionCap    = 3.0
	qteAggressionStep   = 1.2
	manifestFear        = 0.6
	manifestChance      = 0.2
	elevatedState       = "building_tension"
)

// StrategyKind is what a counter-strategy does when executed
type StrategyKind int

const (
	GeneralEscalation StrategyKind = iota
	ContaminateHidingSpot
	SpawnInSafeZone
	IncreaseQTEDifficulty
	TargetedHazardSpawn
)

var strategyNames = map[StrategyKind]string{
	GeneralEscalation:     "general_escalation",
	ContaminateHidingSpot: "contaminate_hiding_spot",
	SpawnInSafeZone:       "spawn_in_safe_zone",
	IncreaseQTEDifficulty: "increase_qte_difficulty",
	TargetedHazardSpawn:   "targeted_hazard_spawn",
}

func (k StrategyKind) String() string {
	if name, ok := strategyNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (k StrategyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *StrategyKind) UnmarshalText(b []byte) error {
	for kind, name := range strategyNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown strategy kind %q", string(b))
}

// Strategy is a queued counter-move
type Strategy struct {
	Reason   string       `yaml:"reason"`
	Room     string       `yaml:"room"`
	Priority float64      `yaml:"priority"`
	Kind     StrategyKind `yaml:"kind"`
	Seq      uint64       `yaml:"seq"` // Insertion order, breaks priority ties
}

// strategyBefore orders the queue: highest priority first, then oldest
func strategyBefore(a, b Strategy) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Seq < b.Seq
}

// StrategyPriority returns the priority a reason is queued with
func StrategyPriority(reason string) float64 {
	for _, rp := range reasonPriority {
		if strings.Contains(reason, rp.substr) {
			return rp.priority
		}
	}
	return defaultPriority
}

// StrategyKindFor derives what a reason should be answered with
func StrategyKindFor(reason string) StrategyKind {
	switch {
	case strings.Contains(reason, "hiding_spot"):
		return ContaminateHidingSpot
	case strings.Contains(reason, "too_safe"):
		return SpawnInSafeZone
	case strings.Contains(reason, "qte"):
		return IncreaseQTEDifficulty
	case strings.Contains(reason, "location_threat_high"):
		return TargetedHazardSpawn
	default:
		return GeneralEscalation
	}
}

// QueueEscalation queues a counter-strategy for reason in room. A reason
// already waiting in the queue is not queued twice.
func (a *Antagonist) QueueEscalation(ctx context.Context, reason, room string) {
	if a.pendingReasons.Has(reason) {
		return
	}
	a.seq++
	s := Strategy{
		Reason:   reason,
		Room:     room,
		Priority: StrategyPriority(reason),
		Kind:     StrategyKindFor(reason),
		Seq:      a.seq,
	}
	a.pending.Push(s)
	a.pendingReasons.Put(reason)
	a.log.InfoContext(ctx, "queued counter-strategy",
		"reason", reason, "room", room, "priority", s.Priority, "kind", s.Kind.String(), "pending", a.pending.Size())
}

// ExecuteCounterStrategies pops the highest-priority strategy and carries it
// out. At most one strategy runs per call.
func (a *Antagonist) ExecuteCounterStrategies(ctx context.Context) hazards.Result {
	s, ok := a.pending.Pop()
	if !ok {
		a.log.DebugContext(ctx, "no pending counter-strategies")
		return hazards.Result{}
	}
	a.pendingReasons.Remove(s.Reason)
	a.log.InfoContext(ctx, "executing counter-strategy", "reason", s.Reason, "kind", s.Kind.String(), "room", s.Room)

	var res hazards.Result
	msgs, done := a.execute(ctx, s)
	if done {
		res.Messages = append(res.Messages, deck.Text("STRATEGY_EXECUTED"))
		res.Messages = append(res.Messages, msgs...)
	} else {
		a.log.WarnContext(ctx, "counter-strategy had no effect", "reason", s.Reason, "kind", s.Kind.String())
	}

	if a.fear > manifestFear && a.rng.Float64() < manifestChance {
		if room := a.playerRoom(); room != "" {
			if more, ok := a.ManifestPresence(ctx, room); ok {
				res.Messages = append(res.Messages, more.Messages...)
				res.Consequences = append(res.Consequences, more.Consequences...)
				res.Outcome = more.Outcome
			}
		}
	}
	return res
}

func (a *Antagonist) execute(ctx context.Context, s Strategy) ([]string, bool) {
	switch s.Kind {
	case SpawnInSafeZone:
		return nil, a.spawnInSafeZone(ctx, s.Room)
	case IncreaseQTEDifficulty:
		a.raiseQTEDifficulty(ctx)
		return nil, true
	case TargetedHazardSpawn:
		return a.escalateMessages(ctx, s.Room)
	case ContaminateHidingSpot:
		return nil, a.contaminateHidingSpot(ctx, s.Reason)
	case GeneralEscalation:
		room := a.playerRoom()
		if room == "" {
			room = s.Room
		}
		return a.escalateMessages(ctx, room)
	}
	a.log.WarnContext(ctx, "no handler for strategy kind", "kind", s.Kind.String())
	return nil, false
}

func (a *Antagonist) escalateMessages(ctx context.Context, room string) ([]string, bool) {
	omen, ok := a.Escalate(ctx, room)
	if !ok {
		return nil, false
	}
	return []string{omen}, true
}

// spawnInSafeZone plants a hazard the room does not have yet, already
// building up, and spoils the room's sense of safety.
func (a *Antagonist) spawnInSafeZone(ctx context.Context, room string) bool {
	cat := a.reg.Catalog()
	present := mapset.Of(a.reg.ActiveHazardsForRoom(room)...)
	var candidates []string
	for _, typ := range cat.SpawnableTypes() {
		if !present.Has(typ) {
			candidates = append(candidates, typ)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	typ := candidates[a.rng.Intn(len(candidates))]
	opts := hazards.SpawnOptions{Source: hazards.SourceEscalation}
	if def, ok := cat.Hazard(typ); ok && def.HasState(elevatedState) {
		opts.InitialState = elevatedState
	}
	if _, ok := a.reg.Spawn(ctx, typ, room, opts); !ok {
		return false
	}
	a.setSafety(room, a.safety[room]-safetyContamination)
	a.log.InfoContext(ctx, "spawned hazard in perceived safe zone", "type", typ, "room", room)
	return true
}

func (a *Antagonist) raiseQTEDifficulty(ctx context.Context) {
	if a.aggression >= qteAggressionCap {
		a.log.DebugContext(ctx, "aggression already at reaction-check cap", "aggression", a.aggression)
		return
	}
	old := a.aggression
	a.aggression = min(a.aggression*qteAggressionStep, qteAggressionCap)
	a.log.InfoContext(ctx, "reaction-check difficulty raised", "from", old, "to", a.aggression)
}

// contaminateHidingSpot binds a new hazard to the overused hiding spot named
// by the reason's "room:target" key.
func (a *Antagonist) contaminateHidingSpot(ctx context.Context, reason string) bool {
	key := strings.TrimPrefix(reason, ReasonHidingSpot)
	room, target, ok := strings.Cut(key, ":")
	if !ok || room == "" {
		a.log.WarnContext(ctx, "cannot parse hiding spot key", "key", key)
		return false
	}
	spawnable := a.reg.Catalog().SpawnableTypes()
	if len(spawnable) == 0 {
		return false
	}
	typ := spawnable[a.rng.Intn(len(spawnable))]
	if _, ok := a.reg.Spawn(ctx, typ, room, hazards.SpawnOptions{Target: target, Source: hazards.SourceEscalation}); !ok {
		return false
	}
	a.profile.HidingSpots[key] = 0
	a.setSafety(room, a.safety[room]-safetyContamination)
	a.log.InfoContext(ctx, "contaminated hiding spot", "room", room, "target", target, "type", typ)
	return true
}

// OmenMessage foreshadows the strategy at the head of the queue
func (a *Antagonist) OmenMessage() (string, bool) {
	s, ok := a.pending.Peek()
	if !ok {
		return "", false
	}
	switch {
	case strings.HasPrefix(s.Reason, ReasonTooSafe):
		return deck.Text("OMEN_TOO_SAFE", strings.TrimPrefix(s.Reason, ReasonTooSafe)), true
	case strings.HasPrefix(s.Reason, ReasonThreatHigh):
		return deck.Text("OMEN_DRAWN", strings.TrimPrefix(s.Reason, ReasonThreatHigh)), true
	case s.Reason == ReasonQTESuccess:
		return deck.Text("OMEN_MALICE"), true
	}
	return deck.Text("OMEN_DEFAULT"), true
}
