package renderer

// TextStyle represents different text styling options
type TextStyle int

const (
	StyleNormal TextStyle = iota
	StyleRoom
	StyleItem
	StyleAction
	StyleActionShort
	StyleDenied
	StyleHazard
	StyleSubtle
	StyleHeading
	StyleBold
	StyleEmphasis
	StyleFear
)

// Frame is everything shown after a command resolves
type Frame struct {
	Level     int
	LevelName string
	Room      string
	Lines     []string // Narration produced by the last command
	Exits     []string
	Items     []string
	Inventory []string
	Fear      float64
	Score     int
	Turn      int
}

// Renderer defines the interface for game rendering backends
type Renderer interface {
	// Init initializes the renderer (colors, output, etc.)
	Init()

	// Clear clears the display
	Clear()

	// RenderFrame renders the narration, room summary and status bar
	RenderFrame(f Frame)

	// StyleText applies a style to text and returns the styled string
	StyleText(text string, style TextStyle) string

	// FormatText renders a message with the renderer's markup system
	FormatText(msg string) string

	// ShowMessage displays a message to the user
	ShowMessage(msg string)

	// ShowPopup displays a titled message the player must acknowledge
	ShowPopup(title, msg string)
}

// Current holds the active renderer instance
var Current Renderer

// SetRenderer sets the active renderer
func SetRenderer(r Renderer) {
	Current = r
}

// Init initializes the current renderer
func Init() {
	if Current != nil {
		Current.Init()
	}
}

// Clear clears the display using the current renderer
func Clear() {
	if Current != nil {
		Current.Clear()
	}
}

// RenderFrame renders a complete game frame
func RenderFrame(f Frame) {
	if Current != nil {
		Current.RenderFrame(f)
	}
}

// StyleText applies a style to text
func StyleText(text string, style TextStyle) string {
	if Current != nil {
		return Current.StyleText(text, style)
	}
	return text
}

// FormatText renders a message's markup
func FormatText(msg string) string {
	if Current != nil {
		return Current.FormatText(msg)
	}
	return StripMarkup(msg)
}

// ShowMessage displays a message
func ShowMessage(msg string) {
	if Current != nil {
		Current.ShowMessage(msg)
	}
}

// ShowPopup displays a popup
func ShowPopup(title, msg string) {
	if Current != nil {
		Current.ShowPopup(title, msg)
	}
}
