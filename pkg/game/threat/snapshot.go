package threat

import (
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

// Snapshot is the serialisable state of the antagonist
type Snapshot struct {
	LocationThreat map[string]float64 `yaml:"location_threat"`
	ObjectThreat   map[string]float64 `yaml:"object_threat"`
	Safety         map[string]float64 `yaml:"safety"`
	Profile        Profile            `yaml:"profile"`
	Aggression     float64            `yaml:"aggression"`
	Fear           float64            `yaml:"fear"`
	PeakFear       float64            `yaml:"peak_fear"`
	FearGained     float64            `yaml:"fear_gained"`
	Pending        []Strategy         `yaml:"pending"` // Execution order
	Seq            uint64             `yaml:"seq"`
}

// Snapshot captures the antagonist's state
func (a *Antagonist) Snapshot() Snapshot {
	var pending []Strategy
	for {
		s, ok := a.pending.Pop()
		if !ok {
			break
		}
		pending = append(pending, s)
	}
	a.pending = heap.From(strategyBefore, pending...)

	return Snapshot{
		LocationThreat: copyScores(a.locationThreat),
		ObjectThreat:   copyScores(a.objectThreat),
		Safety:         copyScores(a.safety),
		Profile:        a.profile.clone(),
		Aggression:     a.aggression,
		Fear:           a.fear,
		PeakFear:       a.peakFear,
		FearGained:     a.fearGained,
		Pending:        pending,
		Seq:            a.seq,
	}
}

// Restore replaces the antagonist's state with snap. Scores are clamped to
// the configured bounds.
func (a *Antagonist) Restore(snap Snapshot) {
	a.locationThreat = clampScores(snap.LocationThreat, a.cfg.MaxThreat)
	a.objectThreat = clampScores(snap.ObjectThreat, a.cfg.MaxThreat)
	a.safety = clampScores(snap.Safety, a.cfg.MaxThreat)
	a.profile = snap.Profile.clone()
	a.aggression = snap.Aggression
	if a.aggression <= 0 {
		a.aggression = 1
	}
	a.fear = clamp(snap.Fear, 0, 1)
	a.peakFear = snap.PeakFear
	a.fearGained = snap.FearGained

	pending := append([]Strategy(nil), snap.Pending...)
	a.pending = heap.From(strategyBefore, pending...)
	a.pendingReasons = mapset.New[string]()
	a.seq = snap.Seq
	for _, s := range pending {
		a.pendingReasons.Put(s.Reason)
		a.seq = max(a.seq, s.Seq)
	}
}

func copyScores(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clampScores(m map[string]float64, hi float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = clamp(v, 0, hi)
	}
	return out
}
