package model

import (
	"errors"
	"testing"
)

func TestDecodeIncoming(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantType   string
		wantStates DeviceState
		wantErr    error
	}{
		{
			name:       "states snapshot",
			data:       `{"type":"states","states":[true,false,true,false]}`,
			wantType:   TypeStates,
			wantStates: DeviceState{true, false, true, false},
		},
		{
			name:       "empty snapshot",
			data:       `{"type":"states","states":[]}`,
			wantType:   TypeStates,
			wantStates: DeviceState{},
		},
		{
			name:     "unknown type",
			data:     `{"type":"hello","states":42}`,
			wantType: "hello",
		},
		{
			name:     "missing type",
			data:     `{"relay":1}`,
			wantType: "",
		},
		{
			name:     "capitalized type key",
			data:     `{"Type":"states","states":[true,true,true,true]}`,
			wantType: "",
		},
		{
			name:     "upper case keys",
			data:     `{"TYPE":"states","STATES":[true,false,true,false]}`,
			wantType: "",
		},
		{
			name:    "upper case states key",
			data:    `{"type":"states","STATES":[true,false]}`,
			wantErr: ErrMissingStates,
		},
		{
			name:     "numeric type",
			data:     `{"type":1}`,
			wantType: "",
		},
		{
			name:     "null type",
			data:     `{"type":null,"states":[true]}`,
			wantType: "",
		},
		{
			name:     "array payload",
			data:     `[true,false]`,
			wantType: "",
		},
		{
			name:     "json null",
			data:     `null`,
			wantType: "",
		},
		{
			name:    "not json",
			data:    `not json at all`,
			wantErr: ErrMalformedMessage,
		},
		{
			name:    "states not an array",
			data:    `{"type":"states","states":"on"}`,
			wantErr: ErrMalformedMessage,
		},
		{
			name:    "states array of numbers",
			data:    `{"type":"states","states":[1,0]}`,
			wantErr: ErrMalformedMessage,
		},
		{
			name:    "states missing",
			data:    `{"type":"states"}`,
			wantErr: ErrMissingStates,
		},
		{
			name:    "states null",
			data:    `{"type":"states","states":null}`,
			wantErr: ErrMissingStates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeIncoming([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeIncoming() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeIncoming() unexpected error: %v", err)
			}
			if msg.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", msg.Type, tt.wantType)
			}
			if len(msg.States) != len(tt.wantStates) {
				t.Fatalf("len(States) = %d, want %d", len(msg.States), len(tt.wantStates))
			}
			for i := range tt.wantStates {
				if msg.States[i] != tt.wantStates[i] {
					t.Errorf("States[%d] = %v, want %v", i, msg.States[i], tt.wantStates[i])
				}
			}
		})
	}
}

func TestToggleCommandEncode(t *testing.T) {
	data, err := NewToggleCommand(1).Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := `{"type":"toggle","relay":1}`
	if string(data) != want {
		t.Errorf("Encode() = %s, want %s", data, want)
	}
}

func TestDeviceState(t *testing.T) {
	s := DeviceState{true, false, true, false}

	t.Run("clone is independent", func(t *testing.T) {
		c := s.Clone()
		c[0] = false
		if !s[0] {
			t.Error("mutating clone changed original")
		}
	})

	t.Run("nil clone", func(t *testing.T) {
		var empty DeviceState
		if empty.Clone() != nil {
			t.Error("Clone of nil should be nil")
		}
	})

	t.Run("on", func(t *testing.T) {
		if !s.On(2) {
			t.Error("On(2) = false, want true")
		}
		if s.On(1) {
			t.Error("On(1) = true, want false")
		}
		if s.On(-1) || s.On(4) {
			t.Error("out-of-range On should be false")
		}
	})

	t.Run("active count", func(t *testing.T) {
		if got := s.ActiveCount(); got != 2 {
			t.Errorf("ActiveCount() = %d, want 2", got)
		}
	})
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"192.168.1.50", "ws://192.168.1.50/ws"},
		{"relays.local", "ws://relays.local/ws"},
		{"127.0.0.1:8080", "ws://127.0.0.1:8080/ws"},
	}

	for _, tt := range tests {
		if got := EndpointURL(tt.host); got != tt.want {
			t.Errorf("EndpointURL(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}
