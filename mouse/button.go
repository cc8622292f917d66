// Package mouse provides the platform-neutral pointer model: buttons, a
// synthesis controller and an event listener. Platform behavior is injected
// through the Emitter and SourceOpener interfaces, implemented by the
// driver sub-packages.
package mouse

// Button is a pointer button. The scroll members are the pseudo-buttons
// X11 reports wheel motion as (native buttons 4 to 7); other backends
// never observe them but may synthesize scrolling through them.
type Button int

const (
	Unknown Button = iota
	Left
	Middle
	Right
	X1
	X2
	ScrollUp
	ScrollDown
	ScrollLeft
	ScrollRight
)

var buttonNames = map[Button]string{
	Unknown:     "unknown",
	Left:        "left",
	Middle:      "middle",
	Right:       "right",
	X1:          "x1",
	X2:          "x2",
	ScrollUp:    "scroll_up",
	ScrollDown:  "scroll_down",
	ScrollLeft:  "scroll_left",
	ScrollRight: "scroll_right",
}

func (b Button) String() string {
	if s, ok := buttonNames[b]; ok {
		return s
	}
	return "unknown"
}

// IsScroll reports whether b is one of the wheel pseudo-buttons.
func (b Button) IsScroll() bool {
	return b >= ScrollUp && b <= ScrollRight
}

//----------

// EventKind discriminates pointer events.
type EventKind int

const (
	KindMove EventKind = iota
	KindClick
	KindScroll
)

// Event is one canonicalized pointer event. X and Y are screen coordinates;
// Button and Press are set for clicks; DX and DY are the scroll steps
// (positive DY scrolls up, positive DX scrolls right).
type Event struct {
	Kind   EventKind
	X, Y   int
	Button Button
	Press  bool
	DX, DY int
}
