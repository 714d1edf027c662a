package tui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/gookit/color"

	"dreadhall/pkg/engine/terminal"
	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/renderer"
)

// Fear above which the status bar shows fear in the fear colour
const fearWarnLevel = 0.5

// TUIRenderer is the terminal-based renderer implementation
type TUIRenderer struct {
	out   io.Writer
	width func() int

	colorRoom        color.Style
	colorAction      color.Style
	colorActionShort color.Style
	colorDenied      color.Style
	colorItem        color.Style
	colorSubtle      color.Style
	colorHazard      color.Style
	colorHeading     color.Style
	colorBold        color.Style
	colorEmphasis    color.Style
	colorFear        color.Style
}

// New creates a new TUI renderer writing to out. A nil writer means stdout.
func New(out io.Writer) *TUIRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &TUIRenderer{out: out, width: terminal.GetWidth}
}

// WithWidth fixes the wrap width instead of asking the terminal
func (t *TUIRenderer) WithWidth(w int) *TUIRenderer {
	t.width = func() int { return w }
	return t
}

// Init initializes the TUI renderer (colors, etc.)
func (t *TUIRenderer) Init() {
	t.colorRoom = color.Style{color.FgBlue, color.OpBold}
	t.colorAction = color.Style{color.FgMagenta}
	t.colorActionShort = color.Style{color.FgMagenta, color.OpBold}
	t.colorDenied = color.Style{color.FgRed, color.OpBold}
	t.colorItem = color.Style{color.FgGreen, color.OpBold}
	t.colorSubtle = color.Style{color.FgGray, color.OpBold}
	t.colorHazard = color.Style{color.FgRed}
	t.colorHeading = color.Style{color.FgYellow, color.OpBold}
	t.colorBold = color.Style{color.OpBold}
	t.colorEmphasis = color.Style{color.FgCyan, color.OpItalic}
	t.colorFear = color.Style{color.FgLightRed, color.OpBold}
}

// Clear clears the terminal screen
func (t *TUIRenderer) Clear() {
	if !terminal.IsInteractive() {
		return
	}
	c := exec.Command("clear")
	c.Stdout = t.out
	c.Run()
}

// StyleText applies a style to text
func (t *TUIRenderer) StyleText(text string, style renderer.TextStyle) string {
	switch style {
	case renderer.StyleRoom:
		return t.colorRoom.Sprint(text)
	case renderer.StyleItem:
		return t.colorItem.Sprint(text)
	case renderer.StyleAction:
		return t.colorAction.Sprint(text)
	case renderer.StyleActionShort:
		return t.colorActionShort.Sprint(text)
	case renderer.StyleDenied:
		return t.colorDenied.Sprint(text)
	case renderer.StyleHazard:
		return t.colorHazard.Sprint(text)
	case renderer.StyleSubtle:
		return t.colorSubtle.Sprint(text)
	case renderer.StyleHeading:
		return t.colorHeading.Sprint(text)
	case renderer.StyleBold:
		return t.colorBold.Sprint(text)
	case renderer.StyleEmphasis:
		return t.colorEmphasis.Sprint(text)
	case renderer.StyleFear:
		return t.colorFear.Sprint(text)
	default:
		return text
	}
}

// FormatText wraps msg to the terminal and applies markup
func (t *TUIRenderer) FormatText(msg string) string {
	return renderer.ApplyMarkup(t.StyleText, terminal.Wrap(msg, t.width()))
}

// ShowMessage prints one narration line
func (t *TUIRenderer) ShowMessage(msg string) {
	fmt.Fprintln(t.out, t.FormatText(msg))
}

// ShowPopup prints a boxed message
func (t *TUIRenderer) ShowPopup(title, msg string) {
	width := min(t.width(), 72)
	rule := strings.Repeat("─", width)

	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, t.colorSubtle.Sprint(rule))
	if title != "" {
		fmt.Fprintln(t.out, t.colorHeading.Sprint(strings.ToUpper(title)))
	}
	fmt.Fprintln(t.out, renderer.ApplyMarkup(t.StyleText, terminal.Wrap(msg, width)))
	fmt.Fprintln(t.out, t.colorSubtle.Sprint(rule))
}

// RenderFrame prints the narration followed by the room summary and status bar
func (t *TUIRenderer) RenderFrame(f renderer.Frame) {
	for _, line := range f.Lines {
		t.ShowMessage(line)
	}
	fmt.Fprintln(t.out)

	if f.Room != "" {
		fmt.Fprintln(t.out, t.FormatText(deck.Text("ROOM_HEADER", f.Room)))
	}
	if len(f.Items) > 0 {
		fmt.Fprintln(t.out, t.FormatText(deck.Text("YOU_SEE", renderer.JoinNames(f.Items, markup("ITEM"), 0))))
	}
	if len(f.Exits) > 0 {
		fmt.Fprintln(t.out, t.FormatText(deck.Text("EXITS", renderer.JoinNames(f.Exits, markup("ACTION"), 0))))
	}
	t.printStatusBar(f)
}

func (t *TUIRenderer) printStatusBar(f renderer.Frame) {
	fmt.Fprint(t.out, t.colorSubtle.Sprint("Inventory: "))
	if len(f.Inventory) == 0 {
		fmt.Fprintln(t.out, t.colorSubtle.Sprint(deck.Text("INVENTORY_EMPTY")))
	} else {
		fmt.Fprintln(t.out, renderer.JoinNames(f.Inventory, t.StyleText, renderer.StyleItem))
	}

	status := deck.Text("STATUS", f.Fear*100, f.Score, f.Turn)
	if f.Fear >= fearWarnLevel {
		fmt.Fprintln(t.out, t.colorFear.Sprint(status))
	} else {
		fmt.Fprintln(t.out, t.colorSubtle.Sprint(status))
	}
}

// markup wraps each name in a markup function so FormatText styles it after wrapping
func markup(function string) renderer.Styler {
	return func(text string, _ renderer.TextStyle) string {
		return function + "{" + text + "}"
	}
}
