package panel

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiGray  = "\033[90m"
)

// Terminal is a View that renders the board as a single status line per
// change. Relay updates are batched until Flush.
type Terminal struct {
	board *Board
	color bool

	mu sync.Mutex // serializes writes
	w  io.Writer
}

// NewTerminal creates a terminal view over board writing to w.
func NewTerminal(board *Board, w io.Writer, color bool) *Terminal {
	return &Terminal{board: board, w: w, color: color}
}

// Board returns the underlying board.
func (t *Terminal) Board() *Board {
	return t.board
}

// SetStatus updates the indicator and renders immediately.
func (t *Terminal) SetStatus(s Status) {
	t.board.SetStatus(s)
	t.Flush()
}

// Control returns the board control for index. Changes show on the next Flush.
func (t *Terminal) Control(index int) (Control, bool) {
	return t.board.Control(index)
}

// Flush renders the current board.
func (t *Terminal) Flush() {
	line := t.Render()

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, line)
}

// Render formats the board without writing it.
func (t *Terminal) Render() string {
	snap := t.board.Snapshot()

	var sb strings.Builder
	sb.WriteString(t.paint(snap.Status.Text, statusANSI(snap.Status.Color)))
	sb.WriteString(" |")
	for _, r := range snap.Relays {
		state := "off"
		code := ansiGray
		if r.Active {
			state = "ON"
			code = ansiGreen
		}
		fmt.Fprintf(&sb, " [%d] %s: %s", r.Index, r.Label, t.paint(state, code))
	}
	return sb.String()
}

func (t *Terminal) paint(s, code string) string {
	if !t.color {
		return s
	}
	return code + s + ansiReset
}

func statusANSI(color string) string {
	switch color {
	case ColorSuccess:
		return ansiGreen
	case ColorError:
		return ansiRed
	default:
		return ansiGray
	}
}
