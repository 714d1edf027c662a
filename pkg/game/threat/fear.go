package threat

import (
	"context"

	"dreadhall/pkg/game/deck"
)

// FearEvent is something that frightens the player by a fixed amount
type FearEvent string

const (
	FearNearMiss           FearEvent = "near_miss"
	FearWitnessDeath       FearEvent = "witness_death"
	FearGruesomeEvent      FearEvent = "gruesome_event"
	FearHighThreatLocation FearEvent = "high_threat_location"
	FearQTEFailure         FearEvent = "qte_failure"
	FearAmbientNoise       FearEvent = "ambient_noise"
	FearExamineOmen        FearEvent = "examine_omen"
)

var fearIncrease = map[FearEvent]float64{
	FearNearMiss:           0.15,
	FearWitnessDeath:       0.25,
	FearGruesomeEvent:      0.20,
	FearHighThreatLocation: 0.10,
	FearQTEFailure:         0.08,
	FearAmbientNoise:       0.05,
	FearExamineOmen:        0.20,
}

const (
	fearPerHP        = 0.01
	fearFlavourLevel = 0.5
)

// Fear returns the player's fear in [0, 1]
func (a *Antagonist) Fear() float64 {
	return a.fear
}

// PeakFear returns the highest fear reached
func (a *Antagonist) PeakFear() float64 {
	return a.peakFear
}

// FearGained returns the total fear gained over the run, ignoring decay
func (a *Antagonist) FearGained() float64 {
	return a.fearGained
}

// UpdateFear raises fear by the amount the event is worth
func (a *Antagonist) UpdateFear(ctx context.Context, ev FearEvent) {
	inc, ok := fearIncrease[ev]
	if !ok {
		a.log.DebugContext(ctx, "unknown fear event", "event", string(ev))
		return
	}
	a.AdjustFear(ctx, inc, string(ev))
}

// UpdateFearFromHP raises fear in proportion to health lost
func (a *Antagonist) UpdateFearFromHP(ctx context.Context, loss int) {
	if loss <= 0 {
		return
	}
	a.AdjustFear(ctx, float64(loss)*fearPerHP, "hp_loss")
}

// AdjustFear changes fear by delta, clamped to [0, 1]
func (a *Antagonist) AdjustFear(ctx context.Context, delta float64, cause string) {
	before := a.fear
	a.fear = clamp(a.fear+delta, 0, 1)
	a.fearGained += max(0, a.fear-before)
	a.peakFear = max(a.peakFear, a.fear)
	a.log.DebugContext(ctx, "fear changed", "cause", cause, "from", before, "to", a.fear)
}

// DecayFear lets fear ebb by the configured per-turn amount
func (a *Antagonist) DecayFear() {
	a.fear = max(0, a.fear-a.cfg.FearDecay)
}

// MaybeHallucinate draws against the player's fear and, on a hit, returns a
// hallucination suited to the level and room.
func (a *Antagonist) MaybeHallucinate(ctx context.Context, level int, room string) (string, bool) {
	if !a.cfg.Hallucinations || a.rng.Float64() >= a.fear {
		return "", false
	}
	keys := deck.HallucinationKeys(level, room)
	msg := deck.Text(keys[a.rng.Intn(len(keys))])
	a.log.DebugContext(ctx, "hallucination", "level", level, "room", room, "fear", a.fear)
	return msg, true
}

// FearFlavour returns a sentence to append to a room description while the
// player is afraid, or "" when calm.
func (a *Antagonist) FearFlavour(level int, room string) string {
	if a.fear < fearFlavourLevel {
		return ""
	}
	key := deck.FearFlavourKey(level, room)
	if key == "" {
		return ""
	}
	return deck.Text(key)
}
