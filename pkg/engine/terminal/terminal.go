// Package terminal provides helpers for sizing narration to the player's terminal.
package terminal

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24

	minWrapWidth = 20
)

// GetSize returns the current terminal width and height.
// Falls back to defaults if the size cannot be determined.
func GetSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// GetWidth returns the current terminal width.
// Falls back to DefaultWidth if the width cannot be determined.
func GetWidth() int {
	width, _ := GetSize()
	return width
}

// IsInteractive reports whether stdin is attached to a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Wrap breaks text into lines no wider than width runes, keeping existing
// line breaks.
func Wrap(text string, width int) string {
	if width < minWrapWidth {
		width = minWrapWidth
	}
	var out strings.Builder
	for i, para := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		lineLen := 0
		for j, word := range strings.Fields(para) {
			n := utf8.RuneCountInString(word)
			if j > 0 && lineLen+1+n > width {
				out.WriteByte('\n')
				lineLen = 0
			} else if j > 0 {
				out.WriteByte(' ')
				lineLen++
			}
			out.WriteString(word)
			lineLen += n
		}
	}
	return out.String()
}
