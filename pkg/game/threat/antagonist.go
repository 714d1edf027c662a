// Package threat is the antagonist: it watches what the player does, keeps
// per-room and per-object threat and safety scores plus a behaviour profile,
// queues counter-strategies when the player gets comfortable and carries them
// out through the hazard registry. It also owns the player's fear.
package threat

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"

	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/entities"
	"dreadhall/pkg/game/hazards"
)

// Registry is the part of the hazard registry the antagonist acts through
type Registry interface {
	Catalog() *catalog.Catalog
	Spawn(ctx context.Context, typ, room string, opts hazards.SpawnOptions) (string, bool)
	SetState(ctx context.Context, id, state string) hazards.Result
	ActiveHazardsForRoom(room string) []string
	HazardsInLocation(room string) []entities.HazardInstance
}

// Locator tells the antagonist where the player is
type Locator interface {
	PlayerLocation() string
}

// Config holds the antagonist's tuning
type Config struct {
	MaxThreat           float64 // Upper bound of every threat and safety score
	EscalationThreshold float64 // Location threat that queues a targeted spawn
	FearDecay           float64 // Fear lost per turn
	AggressionCap       float64 // Ceiling for IncreaseAggression
	Hallucinations      bool
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		MaxThreat:           20,
		EscalationThreshold: 5,
		FearDecay:           0.03,
		AggressionCap:       5,
		Hallucinations:      true,
	}
}

// Antagonist is the adaptive threat model
type Antagonist struct {
	reg    Registry
	player Locator
	cfg    Config
	rng    *rand.Rand
	log    *slog.Logger

	locationThreat map[string]float64
	objectThreat   map[string]float64
	safety         map[string]float64
	profile        Profile

	aggression float64
	fear       float64
	peakFear   float64
	fearGained float64

	pending        *heap.Heap[Strategy]
	pendingReasons mapset.Set[string]
	seq            uint64
}

// Option configures an Antagonist
type Option func(*Antagonist)

// WithRand sets the random source
func WithRand(rng *rand.Rand) Option {
	return func(a *Antagonist) { a.rng = rng }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *Antagonist) { a.log = l }
}

// WithConfig replaces the default tuning
func WithConfig(cfg Config) Option {
	return func(a *Antagonist) { a.cfg = cfg }
}

// New creates an antagonist acting through reg. player may be nil, in which
// case every analysed action must name its room.
func New(reg Registry, player Locator, opts ...Option) *Antagonist {
	a := &Antagonist{
		reg:            reg,
		player:         player,
		cfg:            DefaultConfig(),
		locationThreat: make(map[string]float64),
		objectThreat:   make(map[string]float64),
		safety:         make(map[string]float64),
		profile:        newProfile(),
		aggression:     1,
		pending:        heap.New(strategyBefore),
		pendingReasons: mapset.New[string](),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	return a
}

// LocationThreat returns the threat score of a room
func (a *Antagonist) LocationThreat(room string) float64 {
	return a.locationThreat[room]
}

// ObjectThreat returns the threat score of an object in a room
func (a *Antagonist) ObjectThreat(room, target string) float64 {
	return a.objectThreat[objectKey(room, target)]
}

// Safety returns how safe the player seems to feel in a room
func (a *Antagonist) Safety(room string) float64 {
	return a.safety[room]
}

// Aggression returns the current aggression multiplier
func (a *Antagonist) Aggression() float64 {
	return a.aggression
}

// Profile returns a copy of the behaviour profile
func (a *Antagonist) Profile() Profile {
	return a.profile.clone()
}

// Pending returns the number of queued counter-strategies
func (a *Antagonist) Pending() int {
	return a.pending.Size()
}

// IncreaseAggression raises the aggression multiplier by delta, up to the
// configured cap. Non-positive deltas are ignored.
func (a *Antagonist) IncreaseAggression(ctx context.Context, delta float64, reason string) {
	if delta <= 0 {
		a.log.DebugContext(ctx, "ignoring non-positive aggression change", "delta", delta)
		return
	}
	old := a.aggression
	a.aggression = min(a.aggression+delta, a.cfg.AggressionCap)
	a.log.InfoContext(ctx, "aggression increased", "reason", reason, "from", old, "to", a.aggression)
}

func (a *Antagonist) setThreat(room string, v float64) {
	a.locationThreat[room] = clamp(v, 0, a.cfg.MaxThreat)
}

func (a *Antagonist) setSafety(room string, v float64) {
	a.safety[room] = clamp(v, 0, a.cfg.MaxThreat)
}

func (a *Antagonist) playerRoom() string {
	if a.player == nil {
		return ""
	}
	return a.player.PlayerLocation()
}

func objectKey(room, target string) string {
	return room + ":" + target
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
