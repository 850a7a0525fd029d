package panel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Errors
var (
	ErrEmptyCommand    = errors.New("empty command")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrRelayOutOfRange = errors.New("relay index out of range")
)

// CommandKind identifies a console command.
type CommandKind int

const (
	CommandToggle CommandKind = iota
	CommandStatus
	CommandHelp
	CommandQuit
)

// Command is a parsed console line.
type Command struct {
	Kind  CommandKind
	Relay int // CommandToggle only
}

// Toggler sends toggle requests for a relay.
type Toggler interface {
	Toggle(relay int) bool
}

// ParseCommand parses one console line. Accepted forms:
//
//	<n> | toggle <n> | t <n>   toggle relay n (0-based)
//	status | s                 redraw the panel
//	help | h | ?               list commands
//	quit | q | exit            stop the client
func ParseCommand(line string, relayCount int) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}

	switch fields[0] {
	case "status", "s":
		return Command{Kind: CommandStatus}, nil
	case "help", "h", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "q", "exit":
		return Command{Kind: CommandQuit}, nil
	case "toggle", "t":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: toggle needs one relay index", ErrUnknownCommand)
		}
		return parseToggle(fields[1], relayCount)
	}

	if len(fields) == 1 {
		if _, err := strconv.Atoi(fields[0]); err == nil {
			return parseToggle(fields[0], relayCount)
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

func parseToggle(arg string, relayCount int) (Command, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q is not a relay index", ErrUnknownCommand, arg)
	}
	if n < 0 || n >= relayCount {
		return Command{}, fmt.Errorf("%w: %d (have %d relays)", ErrRelayOutOfRange, n, relayCount)
	}
	return Command{Kind: CommandToggle, Relay: n}, nil
}

const helpText = `commands:
  <n>, toggle <n>   toggle relay n
  status            redraw the panel
  help              show this help
  quit              exit`

// Console reads commands line by line and forwards toggles.
type Console struct {
	in         io.Reader
	out        io.Writer
	toggler    Toggler
	view       Flusher
	relayCount int
	logger     *slog.Logger
}

// NewConsole creates a console. view may be nil, in which case "status" is a no-op.
func NewConsole(in io.Reader, out io.Writer, toggler Toggler, view Flusher, relayCount int, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		in:         in,
		out:        out,
		toggler:    toggler,
		view:       view,
		relayCount: relayCount,
		logger:     logger,
	}
}

// Run processes input until quit, EOF, or ctx is cancelled. It returns nil in
// all three cases and a read error otherwise.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	// The scanner cannot be interrupted, so the reader goroutine outlives Run
	// when ctx is cancelled while blocked on input.
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			if quit := c.handle(line); quit {
				return nil
			}
		}
	}
}

// handle executes one line and reports whether the console should stop.
func (c *Console) handle(line string) bool {
	cmd, err := ParseCommand(line, c.relayCount)
	if errors.Is(err, ErrEmptyCommand) {
		return false
	}
	if err != nil {
		fmt.Fprintln(c.out, err)
		return false
	}

	switch cmd.Kind {
	case CommandToggle:
		// Toggles while disconnected are dropped without feedback; the
		// panel only changes when the server sends a new snapshot.
		sent := c.toggler.Toggle(cmd.Relay)
		c.logger.Debug("console toggle", "relay", cmd.Relay, "sent", sent)
	case CommandStatus:
		if c.view != nil {
			c.view.Flush()
		}
	case CommandHelp:
		fmt.Fprintln(c.out, helpText)
	case CommandQuit:
		return true
	}
	return false
}
