package panel

import "sync"

// RelayView is a read-only copy of one control.
type RelayView struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Snapshot is a read-only copy of the whole board.
type Snapshot struct {
	Status Status      `json:"status"`
	Relays []RelayView `json:"relays"`
}

// Board is an in-memory View with one button per label.
type Board struct {
	mu      sync.RWMutex
	status  Status
	buttons []*button
}

// button implements Control. State lives under the owning board's lock.
type button struct {
	board  *Board
	index  int
	label  string
	active bool
}

// NewBoard creates a board with one control per label, all inactive, showing
// StatusConnecting.
func NewBoard(labels []string) *Board {
	b := &Board{status: StatusConnecting}
	b.buttons = make([]*button, len(labels))
	for i, label := range labels {
		b.buttons[i] = &button{board: b, index: i, label: label}
	}
	return b
}

// SetStatus updates the connection indicator.
func (b *Board) SetStatus(s Status) {
	b.mu.Lock()
	b.status = s
	b.mu.Unlock()
}

// Status returns the current connection indicator.
func (b *Board) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// Control returns the button for a relay index.
func (b *Board) Control(index int) (Control, bool) {
	if index < 0 || index >= len(b.buttons) {
		return nil, false
	}
	return b.buttons[index], true
}

// Len returns the number of controls.
func (b *Board) Len() int {
	return len(b.buttons)
}

// Labels returns the control labels in index order.
func (b *Board) Labels() []string {
	labels := make([]string, len(b.buttons))
	for i, btn := range b.buttons {
		labels[i] = btn.label
	}
	return labels
}

// Snapshot copies the board state.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Status: b.status,
		Relays: make([]RelayView, len(b.buttons)),
	}
	for i, btn := range b.buttons {
		snap.Relays[i] = RelayView{Index: btn.index, Label: btn.label, Active: btn.active}
	}
	return snap
}

func (c *button) SetActive(active bool) {
	c.board.mu.Lock()
	c.active = active
	c.board.mu.Unlock()
}

func (c *button) Active() bool {
	c.board.mu.RLock()
	defer c.board.mu.RUnlock()
	return c.active
}
