package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// Message types used on the wire.
const (
	TypeStates = "states" // server -> client snapshot
	TypeToggle = "toggle" // client -> server request
)

// EndpointPath is the fixed WebSocket path served by the relay controller.
const EndpointPath = "/ws"

// Errors
var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrMissingStates    = errors.New("states message without states array")
)

// DeviceState is an ordered snapshot of relay on/off flags, indexed by relay.
type DeviceState []bool

// Clone returns an independent copy of the snapshot.
func (s DeviceState) Clone() DeviceState {
	if s == nil {
		return nil
	}
	out := make(DeviceState, len(s))
	copy(out, s)
	return out
}

// On reports whether relay i is on. Out-of-range indexes report false.
func (s DeviceState) On(i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	return s[i]
}

// ActiveCount returns the number of relays that are on.
func (s DeviceState) ActiveCount() int {
	n := 0
	for _, on := range s {
		if on {
			n++
		}
	}
	return n
}

// StatesMessage is a full relay snapshot pushed by the server.
type StatesMessage struct {
	Type   string      `json:"type"`
	States DeviceState `json:"states"`
}

// ToggleCommand asks the server to flip one relay.
type ToggleCommand struct {
	Type  string `json:"type"`
	Relay int    `json:"relay"`
}

// NewToggleCommand builds a toggle request for the given relay index.
func NewToggleCommand(relay int) ToggleCommand {
	return ToggleCommand{Type: TypeToggle, Relay: relay}
}

// Encode serializes the command for a text frame.
func (c ToggleCommand) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// Incoming is a decoded server message. States is only set for TypeStates.
type Incoming struct {
	Type   string
	States DeviceState
}

// DecodeIncoming parses a raw server message. Keys match exactly ("type",
// "states"); a payload that is not an object, has no string "type", or has an
// unknown type decodes successfully with only Type set, and callers ignore it.
// Only invalid JSON and a bad states body are errors.
func DecodeIncoming(data []byte) (Incoming, error) {
	if !json.Valid(data) {
		return Incoming{}, ErrMalformedMessage
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Incoming{}, nil
	}

	var typ string
	if raw, ok := fields["type"]; ok {
		if err := json.Unmarshal(raw, &typ); err != nil {
			return Incoming{}, nil
		}
	}

	msg := Incoming{Type: typ}
	if typ != TypeStates {
		return msg, nil
	}

	raw, ok := fields["states"]
	if !ok || string(raw) == "null" {
		return Incoming{}, ErrMissingStates
	}
	var states DeviceState
	if err := json.Unmarshal(raw, &states); err != nil {
		return Incoming{}, fmt.Errorf("%w: states: %v", ErrMalformedMessage, err)
	}
	msg.States = states
	return msg, nil
}

// EndpointURL builds the controller WebSocket URL for a host. The host may
// carry a port; scheme and path are fixed.
func EndpointURL(host string) string {
	u := url.URL{Scheme: "ws", Host: host, Path: EndpointPath}
	return u.String()
}
