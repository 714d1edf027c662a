// Package gameplay is the conductor: it owns the player, runs commands through
// the hazard registry and the antagonist, and resolves what they produce.
package gameplay

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/hazards"
	"dreadhall/pkg/game/levelgen"
	"dreadhall/pkg/game/setup"
	"dreadhall/pkg/game/state"
	"dreadhall/pkg/game/threat"
)

// Session is one play-through
type Session struct {
	cat   *catalog.Catalog
	game  *state.Game
	level *world.Level
	reg   *hazards.Registry
	foe   *threat.Antagonist
	log   *slog.Logger
	rng   *rand.Rand

	threatCfg  threat.Config
	seekChance float64
	startLevel int

	popups   []Popup
	checks   []pendingCheck
	lines    []string // Narration gathered for the command being run
	lastOmen string
}

// Option configures a Session
type Option func(*Session)

// WithRand sets the random source shared by the registry and the antagonist
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithThreatConfig sets the antagonist tuning
func WithThreatConfig(cfg threat.Config) Option {
	return func(s *Session) { s.threatCfg = cfg }
}

// WithPlayerSeekChance sets the registry's default seek-player chance
func WithPlayerSeekChance(p float64) Option {
	return func(s *Session) { s.seekChance = p }
}

// WithStartLevel starts the run on a later level
func WithStartLevel(level int) Option {
	return func(s *Session) { s.startLevel = level }
}

func newSession(cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		cat:        cat,
		game:       state.NewGame(),
		threatCfg:  threat.DefaultConfig(),
		seekChance: -1,
		startLevel: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	regOpts := []hazards.Option{hazards.WithRand(s.rng), hazards.WithLogger(s.log)}
	if s.seekChance >= 0 {
		regOpts = append(regOpts, hazards.WithPlayerSeekChance(s.seekChance))
	}
	s.reg = hazards.New(cat, s, regOpts...)
	s.foe = threat.New(s.reg, s,
		threat.WithRand(s.rng),
		threat.WithLogger(s.log),
		threat.WithConfig(s.threatCfg),
	)
	s.reg.OnTurn(func(ctx context.Context) hazards.Result {
		return s.foe.ExecuteCounterStrategies(ctx)
	})
	return s
}

// NewSession starts a run on the configured start level
func NewSession(ctx context.Context, cat *catalog.Catalog, opts ...Option) (*Session, error) {
	s := newSession(cat, opts...)
	s.game.Level = s.startLevel
	if err := s.startLevelPlay(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// startLevelPlay builds the current level, seeds its hazards and places the
// player at the start room
func (s *Session) startLevelPlay(ctx context.Context) error {
	l, err := levelgen.Build(s.cat, s.game.Level)
	if err != nil {
		return fmt.Errorf("start level: %w", err)
	}
	if err := setup.CheckConnectivity(l); err != nil {
		s.log.WarnContext(ctx, "level graph incomplete", "level", l.ID, "rooms", setup.UnreachableRooms(l), "error", err)
	}
	s.level = l
	s.game.Location = l.Start
	s.game.LevelComplete = false
	s.popups = nil
	s.checks = nil
	s.lastOmen = ""

	seeded := s.reg.InitializeForLevel(ctx, l.ID)
	s.log.InfoContext(ctx, "level started", "level", l.ID, "name", l.Name, "hazards", seeded)

	s.say(deck.Text("LEVEL_INTRO", l.ID, l.Name))
	s.describeRoom()
	return nil
}

// advanceLevel moves on once the level is complete and every popup has been
// dismissed. Finishing the last level completes the run.
func (s *Session) advanceLevel(ctx context.Context) {
	if !s.game.LevelComplete || s.game.GameOver || s.game.RunComplete || len(s.popups) > 0 {
		return
	}
	s.say(deck.Text("LEVEL_COMPLETE", s.level.Name))
	if deck.IsFinalLevel(s.game.Level) {
		s.game.RunComplete = true
		s.say(deck.Text("RUN_COMPLETE"))
		s.log.InfoContext(ctx, "run complete", "score", s.game.Score, "turns", s.game.Turn)
		return
	}
	s.game.AdvanceLevel()
	if err := s.startLevelPlay(ctx); err != nil {
		s.log.ErrorContext(ctx, "cannot start next level", "level", s.game.Level, "error", err)
		s.game.RunComplete = true
	}
}

// Game returns the player state
func (s *Session) Game() *state.Game {
	return s.game
}

// Registry returns the hazard registry
func (s *Session) Registry() *hazards.Registry {
	return s.reg
}

// Antagonist returns the threat model
func (s *Session) Antagonist() *threat.Antagonist {
	return s.foe
}

// Over reports whether nothing more can be played
func (s *Session) Over() bool {
	return s.game.GameOver || s.game.RunComplete
}

// say adds a narration line for the current command
func (s *Session) say(line string) {
	if line == "" {
		return
	}
	s.lines = append(s.lines, line)
	s.game.AddMessage(line)
}

// flush returns and clears the narration gathered so far
func (s *Session) flush() []string {
	out := s.lines
	s.lines = nil
	return out
}

// Intro returns the narration produced while the session was set up
func (s *Session) Intro() []string {
	return s.flush()
}
