package threat

import (
	"context"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/hazards"
)

const presenceType = "deaths_breath"

// Death's breath states from faintest to worst
var presenceLadder = []string{"subtle_chill", "cold_breeze", "icy_presence", "malevolent_gust"}

const (
	presenceSpawnIntensity = 0.18
	presenceEscalateFactor = 0.7
)

// Escalate spawns a hazard in room, preferring one whose synergy class
// partners a hazard already there. On success the room's threat resets and
// an omen is returned.
func (a *Antagonist) Escalate(ctx context.Context, room string) (string, bool) {
	typ, ok := a.EscalationType(room)
	if !ok {
		a.log.WarnContext(ctx, "no spawnable hazards to escalate with", "room", room)
		return "", false
	}
	id, ok := a.reg.Spawn(ctx, typ, room, hazards.SpawnOptions{Source: hazards.SourceEscalation})
	if !ok {
		return "", false
	}
	a.setThreat(room, 0)
	a.log.InfoContext(ctx, "escalated room", "room", room, "type", typ, "hazard", id)
	return a.omen(), true
}

// EscalationType picks the hazard type Escalate would spawn in room. When
// exactly one spawnable type partners the room's hazards it is always chosen.
func (a *Antagonist) EscalationType(room string) (string, bool) {
	cat := a.reg.Catalog()
	spawnable := cat.SpawnableTypes()
	if len(spawnable) == 0 {
		return "", false
	}

	partners := mapset.New[string]()
	for _, h := range a.reg.HazardsInLocation(room) {
		def, ok := cat.Hazard(h.Type)
		if !ok || def.SynergyClass == "" {
			continue
		}
		for _, class := range cat.Synergy[def.SynergyClass] {
			partners.Put(class)
		}
	}

	var matches []string
	for _, typ := range spawnable {
		if partners.Has(cat.Hazards[typ].SynergyClass) {
			matches = append(matches, typ)
		}
	}
	switch len(matches) {
	case 0:
		return spawnable[a.rng.Intn(len(spawnable))], true
	case 1:
		return matches[0], true
	default:
		return matches[a.rng.Intn(len(matches))], true
	}
}

func (a *Antagonist) omen() string {
	keys := deck.OmenKeys()
	return deck.Text(keys[a.rng.Intn(len(keys))])
}

// ManifestPresence makes the antagonist felt in room through death's breath:
// an existing presence may deepen one step, otherwise a new one appears at a
// strength matching the player's fear.
func (a *Antagonist) ManifestPresence(ctx context.Context, room string) (hazards.Result, bool) {
	intensity := min(1, a.fear*1.5)
	a.log.InfoContext(ctx, "manifesting presence", "room", room, "fear", a.fear, "intensity", intensity)

	for _, h := range a.reg.HazardsInLocation(room) {
		if h.Type != presenceType {
			continue
		}
		idx := 0
		for i, s := range presenceLadder {
			if s == h.State {
				idx = i
			}
		}
		if idx >= len(presenceLadder)-1 || a.rng.Float64() >= intensity*presenceEscalateFactor {
			return hazards.Result{}, false
		}
		return a.reg.SetState(ctx, h.ID, presenceLadder[idx+1]), true
	}

	if intensity <= presenceSpawnIntensity {
		return hazards.Result{}, false
	}
	state := presenceState(intensity)
	if _, ok := a.reg.Spawn(ctx, presenceType, room, hazards.SpawnOptions{InitialState: state, Source: hazards.SourceEscalation}); !ok {
		return hazards.Result{}, false
	}
	return hazards.Result{}, true
}

func presenceState(intensity float64) string {
	switch {
	case intensity < 0.15:
		return presenceLadder[0]
	case intensity < 0.35:
		return presenceLadder[1]
	case intensity < 0.65:
		return presenceLadder[2]
	default:
		return presenceLadder[3]
	}
}

// ThreatWeightedLocation picks one of rooms at random, weighted towards rooms
// with high threat and rooms the player feels safe in.
func (a *Antagonist) ThreatWeightedLocation(rooms []string) (string, bool) {
	if len(rooms) == 0 {
		return "", false
	}
	weights := make([]float64, len(rooms))
	var total float64
	for i, room := range rooms {
		weights[i] = max(a.locationThreat[room]+2*a.safety[room], 0.1)
		total += weights[i]
	}
	pick := a.rng.Float64() * total
	var acc float64
	for i, w := range weights {
		acc += w
		if pick <= acc {
			return rooms[i], true
		}
	}
	return rooms[len(rooms)-1], true
}

// AnalyzeRoom scores how promising room is for the antagonist: its hazards,
// threat and visits count for it, the player's sense of safety against it.
func (a *Antagonist) AnalyzeRoom(room string) float64 {
	hazardScore := float64(len(a.reg.HazardsInLocation(room)))
	return hazardScore +
		a.locationThreat[room]*1.5 -
		a.safety[room]*0.5 +
		float64(a.profile.Visits[room])*0.2
}

// RoomScore pairs a room with a score
type RoomScore struct {
	Room  string
	Score float64
}

// StatusReport summarises the antagonist for debugging
type StatusReport struct {
	TopThreat      []RoomScore
	TopSafety      []RoomScore
	Pending        int
	Aggression     float64
	QTESuccessRate float64
	Fear           float64
}

// StatusReport returns the five most threatening and five safest-feeling rooms
// along with the queue length, aggression and fear.
func (a *Antagonist) StatusReport() StatusReport {
	return StatusReport{
		TopThreat:      topScores(a.locationThreat, 5),
		TopSafety:      topScores(a.safety, 5),
		Pending:        a.pending.Size(),
		Aggression:     a.aggression,
		QTESuccessRate: a.profile.QTESuccessRate(),
		Fear:           a.fear,
	}
}

func topScores(m map[string]float64, n int) []RoomScore {
	out := make([]RoomScore, 0, len(m))
	for room, score := range m {
		out = append(out, RoomScore{room, score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Room < out[j].Room
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
