package panel

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLabels(t *testing.T) {
	want := []string{"Living Room Light", "Bedroom Light", "Living Room Fan", "Bedroom Fan", "Relay 4"}
	got := DefaultLabels(5)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DefaultLabels(5)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBoard(t *testing.T) {
	b := NewBoard(DefaultLabels(4))

	if b.Status() != StatusConnecting {
		t.Errorf("initial status = %+v, want %+v", b.Status(), StatusConnecting)
	}
	if b.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", b.Len())
	}

	t.Run("control lookup", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			if _, ok := b.Control(i); !ok {
				t.Errorf("Control(%d) not found", i)
			}
		}
		if _, ok := b.Control(-1); ok {
			t.Error("Control(-1) should not exist")
		}
		if _, ok := b.Control(4); ok {
			t.Error("Control(4) should not exist")
		}
	})

	t.Run("set active", func(t *testing.T) {
		c, _ := b.Control(2)
		c.SetActive(true)
		if !c.Active() {
			t.Error("Active() = false after SetActive(true)")
		}

		snap := b.Snapshot()
		if !snap.Relays[2].Active {
			t.Error("snapshot relay 2 should be active")
		}
		if snap.Relays[0].Active {
			t.Error("snapshot relay 0 should be inactive")
		}

		c.SetActive(false)
		if c.Active() {
			t.Error("Active() = true after SetActive(false)")
		}
	})

	t.Run("status", func(t *testing.T) {
		b.SetStatus(StatusConnected)
		if got := b.Snapshot().Status; got != StatusConnected {
			t.Errorf("Status = %+v, want %+v", got, StatusConnected)
		}
	})
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(NewBoard([]string{"A", "B"}), &buf, false)

	term.SetStatus(StatusConnected)
	if got := buf.String(); got != "Connected | [0] A: off [1] B: off\n" {
		t.Errorf("after SetStatus wrote %q", got)
	}

	buf.Reset()
	c, ok := term.Control(1)
	if !ok {
		t.Fatal("Control(1) not found")
	}
	c.SetActive(true)
	if buf.Len() != 0 {
		t.Errorf("SetActive should not render before Flush, wrote %q", buf.String())
	}

	term.Flush()
	if got := buf.String(); got != "Connected | [0] A: off [1] B: ON\n" {
		t.Errorf("after Flush wrote %q", got)
	}
}

func TestTerminalColor(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(NewBoard([]string{"A"}), &buf, true)

	term.SetStatus(StatusDisconnected)
	out := buf.String()
	if !strings.Contains(out, ansiRed+"Disconnected"+ansiReset) {
		t.Errorf("expected red status, got %q", out)
	}
	if !strings.Contains(out, ansiGray+"off"+ansiReset) {
		t.Errorf("expected gray relay state, got %q", out)
	}
}
