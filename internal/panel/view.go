package panel

import "fmt"

// Status indicator colors.
const (
	ColorSuccess = "#4CAF50"
	ColorError   = "#f44336"
	ColorPending = "#9E9E9E"
)

// Status is the text and color shown by the connection indicator.
type Status struct {
	Text  string
	Color string
}

// Connection indicator values.
var (
	StatusConnecting   = Status{Text: "Connecting", Color: ColorPending}
	StatusConnected    = Status{Text: "Connected", Color: ColorSuccess}
	StatusDisconnected = Status{Text: "Disconnected", Color: ColorError}
)

// View is the surface the connection manager drives.
type View interface {
	// SetStatus updates the connection indicator.
	SetStatus(s Status)

	// Control returns the control bound to a relay index, if one exists.
	Control(index int) (Control, bool)
}

// Control is a single relay button.
type Control interface {
	// SetActive sets or clears the active presentation.
	SetActive(active bool)

	// Active reports the current presentation.
	Active() bool
}

// Flusher is implemented by views that batch updates, such as Terminal.
type Flusher interface {
	Flush()
}

// DefaultLabel names relay i after the stock four-relay board: relays 0-1
// drive lights, 2-3 fans; even relays sit in the living room, odd ones in the
// bedroom. Indexes beyond the board get a generic name.
func DefaultLabel(i int) string {
	if i < 0 || i > 3 {
		return fmt.Sprintf("Relay %d", i)
	}
	device := "Light"
	if i >= 2 {
		device = "Fan"
	}
	room := "Living Room"
	if i%2 == 1 {
		room = "Bedroom"
	}
	return room + " " + device
}

// DefaultLabels returns DefaultLabel for relays 0..n-1.
func DefaultLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = DefaultLabel(i)
	}
	return labels
}
