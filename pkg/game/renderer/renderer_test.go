package renderer

import (
	"fmt"
	"testing"
)

// bracket marks styled text so tests can see which style was applied
func bracket(text string, style TextStyle) string {
	switch style {
	case StyleItem:
		return "<item:" + text + ">"
	case StyleActionShort:
		return "<" + text
	case StyleAction:
		return text + ">"
	case StyleEmphasis:
		return "<i:" + text + ">"
	case StyleBold:
		return "<b:" + text + ">"
	case StyleHeading:
		return "<h:" + text + ">"
	default:
		return text
	}
}

func TestApplyMarkup(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"plain", "Nothing happens.", "Nothing happens."},
		{"item", "You pick up the ITEM{exit key}.", "You pick up the <item:exit key>."},
		{"action", "Exits: ACTION{north}", "Exits: <north>"},
		{"format", fmt.Sprintf("You carry ITEM{%s}, %d%%", "wrench", 5), "You carry <item:wrench>, 5%"},
		{"translated", "GT{NOTHING_HAPPENS}", "Nothing happens."},
		{"tags", "[b]GAME OVER[/b] [i]cold[/i] [h]Morgue[/h]", "<b:GAME OVER> <i:cold> <h:Morgue>"},
		{"unclosed", "[i]The air grows colder", "<i:The air grows colder>"},
		{"unknown function", "LOUD{bang}", "LOUD{bang}"},
		{"literal percent without args", "100%", "100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyMarkup(bracket, tt.msg); got != tt.want {
				t.Errorf("ApplyMarkup(%q) = %q, want %q", tt.msg, got, tt.want)
			}
		})
	}
}

func TestStripMarkup(t *testing.T) {
	got := StripMarkup("[b]GAME OVER[/b] The HAZARD{fire} takes you in the ROOM{Morgue}.")
	if want := "GAME OVER The fire takes you in the Morgue."; got != want {
		t.Errorf("StripMarkup() = %q, want %q", got, want)
	}
}

func TestFormatText_NoRenderer(t *testing.T) {
	SetRenderer(nil)
	if got := FormatText("ITEM{lamp}"); got != "lamp" {
		t.Errorf("FormatText() without renderer = %q, want lamp", got)
	}
}
