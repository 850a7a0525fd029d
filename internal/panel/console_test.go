package panel

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    Command
		wantErr error
	}{
		{line: "1", want: Command{Kind: CommandToggle, Relay: 1}},
		{line: "  toggle 3 ", want: Command{Kind: CommandToggle, Relay: 3}},
		{line: "T 0", want: Command{Kind: CommandToggle, Relay: 0}},
		{line: "status", want: Command{Kind: CommandStatus}},
		{line: "?", want: Command{Kind: CommandHelp}},
		{line: "QUIT", want: Command{Kind: CommandQuit}},
		{line: "", wantErr: ErrEmptyCommand},
		{line: "   ", wantErr: ErrEmptyCommand},
		{line: "4", wantErr: ErrRelayOutOfRange},
		{line: "-1", wantErr: ErrRelayOutOfRange},
		{line: "toggle", wantErr: ErrUnknownCommand},
		{line: "toggle x", wantErr: ErrUnknownCommand},
		{line: "1 2", wantErr: ErrUnknownCommand},
		{line: "dance", wantErr: ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line, 4)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseCommand(%q) error = %v, want %v", tt.line, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand(%q) unexpected error: %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

type recordingToggler struct {
	mu      sync.Mutex
	toggles []int
}

func (r *recordingToggler) Toggle(relay int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggles = append(r.toggles, relay)
	return true
}

type countingFlusher struct {
	mu sync.Mutex
	n  int
}

func (f *countingFlusher) Flush() {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

func TestConsoleRun(t *testing.T) {
	in := strings.NewReader("1\nbogus\nstatus\n9\ntoggle 3\nquit\n2\n")
	var out bytes.Buffer
	toggler := &recordingToggler{}
	flusher := &countingFlusher{}

	console := NewConsole(in, &out, toggler, flusher, 4, nil)
	if err := console.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(toggler.toggles) != 2 || toggler.toggles[0] != 1 || toggler.toggles[1] != 3 {
		t.Errorf("toggles = %v, want [1 3]", toggler.toggles)
	}
	if flusher.n != 1 {
		t.Errorf("flushes = %d, want 1", flusher.n)
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf("expected unknown command message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "out of range") {
		t.Errorf("expected out of range message, got %q", out.String())
	}
}

func TestConsoleRunEOF(t *testing.T) {
	toggler := &recordingToggler{}
	console := NewConsole(strings.NewReader("0\n"), &bytes.Buffer{}, toggler, nil, 4, nil)

	if err := console.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(toggler.toggles) != 1 {
		t.Errorf("toggles = %v, want [0]", toggler.toggles)
	}
}

// blockingReader never returns, like an idle terminal.
type blockingReader struct{ done chan struct{} }

func (r blockingReader) Read(p []byte) (int, error) {
	<-r.done
	return 0, context.Canceled
}

func TestConsoleRunCancel(t *testing.T) {
	r := blockingReader{done: make(chan struct{})}
	defer close(r.done)

	ctx, cancel := context.WithCancel(context.Background())
	console := NewConsole(r, &bytes.Buffer{}, &recordingToggler{}, nil, 4, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- console.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run returned %v after cancel, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
