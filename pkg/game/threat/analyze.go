package threat

import (
	"context"
	"sort"
	"strings"
)

// Verbs scored beyond ordinary player commands
const (
	VerbQTESuccess  = "qte_success"
	VerbQTEFailure  = "qte_failure"
	VerbSolvePuzzle = "solve_puzzle"
)

var baseThreat = map[string]float64{
	"search":        0.8,
	"examine":       0.3,
	"move":          0.2,
	"use":           0.5,
	"take":          0.6,
	VerbQTESuccess:  2.0,
	VerbQTEFailure:  -0.3,
	"unlock":        1.2,
	VerbSolvePuzzle: 1.5,
}

const defaultBaseThreat = 0.1

const (
	successFactor = 1.2
	failureFactor = 0.7
)

// Rooms the player presumably thinks of as safe; searching them draws more attention
var safeRoomWords = []string{"office", "closet", "storage"}

// Targets that count as hiding spots when searched
var hidingWords = []string{"closet", "cabinet", "under", "behind"}

var safetyGain = map[string]float64{
	"search":  0.5,
	"examine": 0.2,
	"move":    0.1,
}

const (
	qteSafetyGain        = 1.0
	tooSafeThreshold     = 3.0
	qteRateThreshold     = 0.7
	hidingOveruse        = 3
	highThreatFearLevel  = 4.0
	maxRememberedActions = 10
)

// Action is one player action the conductor reports
type Action struct {
	Verb    string
	Target  string
	Room    string // Empty means the player's current room
	Success bool
	Turn    int
}

// Profile is the rolling record of how the player behaves
type Profile struct {
	Visits        map[string]int `yaml:"visits"`
	HidingSpots   map[string]int `yaml:"hiding_spots"` // "room:target" -> searches
	Searches      map[string]int `yaml:"searches"`
	ItemUses      map[string]int `yaml:"item_uses"`
	EscapeRoutes  []string       `yaml:"escape_routes"`
	RecentActions []string       `yaml:"recent_actions"`
	QTEAttempts   int            `yaml:"qte_attempts"`
	QTESuccesses  int            `yaml:"qte_successes"`
	Panic         int            `yaml:"panic"`
	Confidence    int            `yaml:"confidence"`
}

func newProfile() Profile {
	return Profile{
		Visits:      make(map[string]int),
		HidingSpots: make(map[string]int),
		Searches:    make(map[string]int),
		ItemUses:    make(map[string]int),
	}
}

// QTESuccessRate returns the share of reaction-checks the player passed
func (p Profile) QTESuccessRate() float64 {
	if p.QTEAttempts == 0 {
		return 0
	}
	return float64(p.QTESuccesses) / float64(p.QTEAttempts)
}

func (p Profile) clone() Profile {
	c := p
	c.Visits = copyCounts(p.Visits)
	c.HidingSpots = copyCounts(p.HidingSpots)
	c.Searches = copyCounts(p.Searches)
	c.ItemUses = copyCounts(p.ItemUses)
	c.EscapeRoutes = append([]string(nil), p.EscapeRoutes...)
	c.RecentActions = append([]string(nil), p.RecentActions...)
	return c
}

func (p *Profile) observe(act Action, room string) {
	p.RecentActions = pushCapped(p.RecentActions, act.Verb)

	switch {
	case act.Verb == "move" && act.Success:
		p.EscapeRoutes = pushCapped(p.EscapeRoutes, room)
		p.Visits[room]++
	case act.Verb == "search":
		key := objectKey(room, act.Target)
		p.Searches[key]++
		if act.Target != "" && containsAny(strings.ToLower(act.Target), hidingWords) {
			p.HidingSpots[key]++
		}
	case act.Verb == "use" && act.Target != "":
		p.ItemUses[act.Target]++
	case act.Verb == VerbQTESuccess:
		p.QTEAttempts++
		p.QTESuccesses++
		p.Confidence++
	case act.Verb == VerbQTEFailure:
		p.QTEAttempts++
		p.Panic++
	}
}

// AnalyzePlayerAction folds one action into the scores and the profile, then
// queues counter-strategies for every escalation trigger it fires.
func (a *Antagonist) AnalyzePlayerAction(ctx context.Context, act Action) {
	room := act.Room
	if room == "" {
		room = a.playerRoom()
	}
	if room == "" {
		a.log.WarnContext(ctx, "cannot analyse action without a room", "verb", act.Verb)
		return
	}

	base := a.baseThreat(act.Verb, act.Success)
	a.addLocationThreat(ctx, room, act.Verb, base)
	if act.Target != "" {
		key := objectKey(room, act.Target)
		a.objectThreat[key] = clamp(a.objectThreat[key]+base*0.5, 0, a.cfg.MaxThreat)
	}
	a.addSafety(room, act.Verb, act.Success)
	a.profile.observe(act, room)
	a.evaluateEscalation(ctx, room, act.Verb)

	switch {
	case act.Verb == VerbQTEFailure:
		a.UpdateFear(ctx, FearQTEFailure)
	case act.Verb == "move" && a.locationThreat[room] > highThreatFearLevel:
		a.UpdateFear(ctx, FearHighThreatLocation)
	}
}

func (a *Antagonist) baseThreat(verb string, success bool) float64 {
	v, ok := baseThreat[verb]
	if !ok {
		v = defaultBaseThreat
	}
	if success {
		return v * successFactor
	}
	return v * failureFactor
}

func (a *Antagonist) addLocationThreat(ctx context.Context, room, verb string, base float64) {
	inc := base * a.aggression
	if verb == "search" && containsAny(strings.ToLower(room), safeRoomWords) {
		inc *= 1.5
	}
	if verb == VerbQTESuccess {
		inc *= 2.0
	}
	old := a.locationThreat[room]
	a.setThreat(room, old+inc)
	a.log.DebugContext(ctx, "location threat updated", "room", room, "verb", verb, "from", old, "to", a.locationThreat[room])
}

func (a *Antagonist) addSafety(room, verb string, success bool) {
	var inc float64
	switch {
	case verb == VerbQTESuccess:
		inc = qteSafetyGain
	case success:
		inc = safetyGain[verb]
	}
	if inc != 0 {
		a.setSafety(room, a.safety[room]+inc)
	}
}

func (a *Antagonist) evaluateEscalation(ctx context.Context, room, verb string) {
	var reasons []string
	if a.locationThreat[room] >= a.cfg.EscalationThreshold {
		reasons = append(reasons, ReasonThreatHigh+room)
	}
	if verb == VerbQTESuccess && a.profile.QTESuccessRate() > qteRateThreshold {
		reasons = append(reasons, ReasonQTESuccess)
	}
	if a.safety[room] > tooSafeThreshold {
		reasons = append(reasons, ReasonTooSafe+room)
	}

	spots := make([]string, 0, len(a.profile.HidingSpots))
	for key, n := range a.profile.HidingSpots {
		if n >= hidingOveruse {
			spots = append(spots, key)
		}
	}
	sort.Strings(spots)
	for _, key := range spots {
		reasons = append(reasons, ReasonHidingSpot+key)
	}

	for _, reason := range reasons {
		a.QueueEscalation(ctx, reason, room)
	}
}

func pushCapped(list []string, v string) []string {
	list = append(list, v)
	if len(list) > maxRememberedActions {
		list = list[len(list)-maxRememberedActions:]
	}
	return list
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
