package version

import (
	"strings"
	"testing"
)

func setVars(t *testing.T, v, c, b string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	})
	Version, Commit, BuildTime = v, c, b
}

func TestString(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		setVars(t, "dev", "unknown", "unknown")

		result := String()
		if result != "dev (unknown) built unknown" {
			t.Errorf("String() = %q", result)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		setVars(t, "1.2.3", "abc1234", "2026-01-15T10:00:00Z")

		expected := "1.2.3 (abc1234) built 2026-01-15T10:00:00Z"
		if result := String(); result != expected {
			t.Errorf("String() = %q, want %q", result, expected)
		}
	})
}

func TestUserAgent(t *testing.T) {
	setVars(t, "0.4.0", "abc1234", "unknown")

	ua := UserAgent()
	if ua != "relay-panel/0.4.0" {
		t.Errorf("UserAgent() = %q, want relay-panel/0.4.0", ua)
	}
	if strings.Contains(ua, " ") {
		t.Errorf("UserAgent() = %q, should not contain spaces", ua)
	}
}

func TestDefaultValues(t *testing.T) {
	// These might be overwritten by ldflags in production builds
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
}
