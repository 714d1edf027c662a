// Package deck defines the fixed run of levels, the theme of each level and
// the narration pools (hallucinations, omens, fear flavour) drawn from them.
// The player never sees the total; they discover the end by escaping the
// final level.
package deck

import "strings"

// Theme is the setting of a level
type Theme int

const (
	Hospital   Theme = iota // Clinical horror: wards, morgue, imaging
	Home                    // Familiar rooms turned sinister
	Fairground              // Carnival horror
)

// themeCount is the number of themes (for cycling).
const themeCount = 3

// TotalLevels is the fixed number of levels in a run (never shown to player).
const TotalLevels = 3

// ThemeFor returns the theme of the given level (1-based). Themes cycle so
// levels beyond the authored ones still have an identity.
func ThemeFor(level int) Theme {
	if level <= 0 {
		return Hospital
	}
	return Theme((level - 1) % themeCount)
}

func (t Theme) String() string {
	switch t {
	case Hospital:
		return "hospital"
	case Home:
		return "home"
	case Fairground:
		return "fairground"
	default:
		return "unknown"
	}
}

// IsFinalLevel returns true if the given level (1-based) is the last one.
func IsFinalLevel(level int) bool {
	return level >= TotalLevels
}

// NextLevel returns the level after current, or 0 if current is the last.
func NextLevel(current int) int {
	if current <= 0 || current >= TotalLevels {
		return 0
	}
	return current + 1
}

// roomKeywords adds pools for rooms whose name contains a keyword. Only the
// first matching entry applies.
var roomKeywords = map[Theme][]struct {
	words []string
	keys  []string
}{
	Hospital: {
		{[]string{"morgue"}, []string{"HALLUCINATION_MORGUE_1", "HALLUCINATION_MORGUE_2"}},
		{[]string{"mri"}, []string{"HALLUCINATION_MRI_1", "HALLUCINATION_MRI_2"}},
		{[]string{"patient", "icu"}, []string{"HALLUCINATION_WARD_1", "HALLUCINATION_WARD_2"}},
	},
}

var baseHallucinations = []string{
	"HALLUCINATION_BASE_1",
	"HALLUCINATION_BASE_2",
	"HALLUCINATION_BASE_3",
}

var themeHallucinations = map[Theme][]string{
	Hospital: {
		"HALLUCINATION_HOSPITAL_1", "HALLUCINATION_HOSPITAL_2", "HALLUCINATION_HOSPITAL_3",
		"HALLUCINATION_HOSPITAL_4", "HALLUCINATION_HOSPITAL_5", "HALLUCINATION_HOSPITAL_6",
		"HALLUCINATION_HOSPITAL_7", "HALLUCINATION_HOSPITAL_8",
	},
	Home: {
		"HALLUCINATION_HOME_1", "HALLUCINATION_HOME_2", "HALLUCINATION_HOME_3",
		"HALLUCINATION_HOME_4", "HALLUCINATION_HOME_5", "HALLUCINATION_HOME_6",
		"HALLUCINATION_HOME_7", "HALLUCINATION_HOME_8",
	},
	Fairground: {
		"HALLUCINATION_FAIR_1", "HALLUCINATION_FAIR_2", "HALLUCINATION_FAIR_3",
		"HALLUCINATION_FAIR_4", "HALLUCINATION_FAIR_5", "HALLUCINATION_FAIR_6",
		"HALLUCINATION_FAIR_7", "HALLUCINATION_FAIR_8",
	},
}

// HallucinationKeys returns the message keys a hallucination in the given
// room of the given level is drawn from: the base pool, the level's theme
// pool and any pool the room's name selects.
func HallucinationKeys(level int, room string) []string {
	if level <= 0 {
		return append([]string(nil), baseHallucinations...)
	}
	theme := ThemeFor(level)
	keys := append([]string(nil), baseHallucinations...)
	keys = append(keys, themeHallucinations[theme]...)

	name := strings.ToLower(room)
	for _, rk := range roomKeywords[theme] {
		if containsAny(name, rk.words) {
			keys = append(keys, rk.keys...)
			break
		}
	}
	return keys
}

// OmenKeys returns the pool of omens shown when the antagonist escalates a room
func OmenKeys() []string {
	return []string{"OMEN_1", "OMEN_2", "OMEN_3", "OMEN_4", "OMEN_5", "OMEN_6"}
}

// FearFlavourKey returns the message key of the sentence appended to a room
// description while the player is afraid. Empty when the theme has none.
func FearFlavourKey(level int, room string) string {
	name := strings.ToLower(room)
	switch ThemeFor(level) {
	case Hospital:
		switch {
		case strings.Contains(name, "morgue"):
			return "FEAR_HOSPITAL_MORGUE"
		case strings.Contains(name, "mri"):
			return "FEAR_HOSPITAL_MRI"
		case strings.Contains(name, "emergency"), strings.Contains(name, "reception"):
			return "FEAR_HOSPITAL_EMERGENCY"
		default:
			return "FEAR_HOSPITAL"
		}
	case Home:
		switch {
		case strings.Contains(name, "living"):
			return "FEAR_HOME_LIVING"
		case strings.Contains(name, "kitchen"):
			return "FEAR_HOME_KITCHEN"
		case strings.Contains(name, "bedroom"):
			return "FEAR_HOME_BEDROOM"
		case strings.Contains(name, "basement"):
			return "FEAR_HOME_BASEMENT"
		default:
			return "FEAR_HOME"
		}
	case Fairground:
		switch {
		case strings.Contains(name, "tent"):
			return "FEAR_FAIR_TENT"
		case strings.Contains(name, "ride"), strings.Contains(name, "carousel"), strings.Contains(name, "wheel"):
			return "FEAR_FAIR_RIDE"
		case strings.Contains(name, "game"), strings.Contains(name, "midway"):
			return "FEAR_FAIR_GAME"
		default:
			return "FEAR_FAIR"
		}
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
