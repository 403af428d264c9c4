package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/aryankumar/swarmwatch/internal/swarm"
)

func TestNewColorScheme(t *testing.T) {
	tests := []struct {
		name             string
		noColor          bool
		expectedDisabled bool
	}{
		{
			name:             "colors disabled with noColor flag",
			noColor:          true,
			expectedDisabled: true,
		},
		{
			name:             "colors disabled for non-TTY",
			noColor:          false,
			expectedDisabled: true, // bytes.Buffer is not a TTY
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := NewColorScheme(&bytes.Buffer{}, tt.noColor)

			if cs == nil {
				t.Fatal("NewColorScheme returned nil")
			}
			if cs.Disabled != tt.expectedDisabled {
				t.Errorf("Disabled = %v, want %v", cs.Disabled, tt.expectedDisabled)
			}
			if cs.Endpoint == nil || cs.Success == nil || cs.Error == nil ||
				cs.Warning == nil || cs.Header == nil || cs.Duration == nil {
				t.Error("color functions must never be nil")
			}
		})
	}
}

func TestColorScheme_DisabledIsPlain(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"endpoint", cs.Endpoint("%s", "prod"), "prod"},
		{"success", cs.Success("%d ok", 3), "3 ok"},
		{"ready node", cs.NodeStatus(swarm.NodeStatusReady), "ready"},
		{"down node", cs.NodeStatus(swarm.NodeStatusDown), "down"},
		{"drain", cs.Availability(swarm.AvailabilityDrain), "drain"},
		{"degraded service", cs.ServiceHealth(swarm.ServiceDegraded), "degraded"},
		{"critical", cs.Severity(swarm.SeverityCritical), "critical"},
		{"unknown severity", cs.Severity(swarm.AlertSeverity("info")), "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
			if strings.Contains(tt.got, "\x1b[") {
				t.Errorf("disabled scheme produced escape codes: %q", tt.got)
			}
		})
	}
}

func TestColorScheme_StatusColor(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	if got := cs.StatusColor(true)("%s", "Failed"); got != "Failed" {
		t.Errorf("StatusColor(true) = %q", got)
	}
	if got := cs.StatusColor(false)("%s", "Success"); got != "Success" {
		t.Errorf("StatusColor(false) = %q", got)
	}
}

func TestIsTTY(t *testing.T) {
	if isTTY(&bytes.Buffer{}) {
		t.Error("bytes.Buffer should not be a TTY")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	defer f.Close()

	if isTTY(f) {
		t.Error("regular file should not be a TTY")
	}
}
