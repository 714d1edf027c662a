// Package renderer turns narration markup into styled terminal text.
//
// Narration may carry two kinds of markup: functions such as ITEM{wrench} or
// GT{OMEN_1}, and paired tags [b], [i] and [h] used by the translation
// catalogue.
package renderer

import (
	"regexp"
	"strings"

	"dreadhall/pkg/game/deck"
)

var regexpStringFunctions = regexp.MustCompile(`([A-Z_]+){([^{}]+)}`)

var tags = []struct {
	open, close string
	style       TextStyle
}{
	{"[b]", "[/b]", StyleBold},
	{"[i]", "[/i]", StyleEmphasis},
	{"[h]", "[/h]", StyleHeading},
}

// Styler renders text in a style
type Styler func(text string, style TextStyle) string

// ApplyMarkup replaces every markup function and tag in msg with the styled
// text. msg is expected to be formatted already.
func ApplyMarkup(style Styler, msg string) string {
	ret := msg

	for _, match := range regexpStringFunctions.FindAllStringSubmatch(ret, -1) {
		function := match[1]
		operand := match[2]

		var val string
		switch function {
		case "GT":
			val = deck.Text(operand)
		case "ITEM":
			val = style(operand, StyleItem)
		case "ROOM":
			val = style(operand, StyleRoom)
		case "ACTION":
			val = style(operand[0:1], StyleActionShort) + style(operand[1:], StyleAction)
		case "HAZARD":
			val = style(operand, StyleHazard)
		case "DENIED":
			val = style(operand, StyleDenied)
		case "FEAR":
			val = style(operand, StyleFear)
		default:
			continue
		}

		ret = strings.Replace(ret, match[0], val, 1)
	}

	for _, t := range tags {
		ret = applyTag(ret, t.open, t.close, func(s string) string { return style(s, t.style) })
	}
	return ret
}

// applyTag styles every span between open and close. An unclosed tag runs to
// the end of the string.
func applyTag(s, open, close string, fn func(string) string) string {
	var out strings.Builder
	for {
		i := strings.Index(s, open)
		if i < 0 {
			out.WriteString(s)
			return out.String()
		}
		out.WriteString(s[:i])
		s = s[i+len(open):]
		j := strings.Index(s, close)
		if j < 0 {
			out.WriteString(fn(s))
			return out.String()
		}
		out.WriteString(fn(s[:j]))
		s = s[j+len(close):]
	}
}

// StripMarkup removes all markup from msg
func StripMarkup(msg string) string {
	return ApplyMarkup(func(text string, _ TextStyle) string { return text }, msg)
}

// JoinNames joins names with commas, returning empty for none
func JoinNames(names []string, style Styler, s TextStyle) string {
	styled := make([]string, len(names))
	for i, n := range names {
		styled[i] = style(n, s)
	}
	return strings.Join(styled, ", ")
}
