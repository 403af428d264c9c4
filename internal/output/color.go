package output

import (
	"io"
	"os"

	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// Endpoint colors endpoint names
	Endpoint func(format string, a ...interface{}) string

	// Success colors healthy states
	Success func(format string, a ...interface{}) string

	// Error colors failures and critical findings
	Error func(format string, a ...interface{}) string

	// Warning colors degraded states
	Warning func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Duration colors duration values
	Duration func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	useColor := !noColor && isTTY(w)

	if !useColor {
		return &ColorScheme{
			Endpoint: plain,
			Success:  plain,
			Error:    plain,
			Warning:  plain,
			Header:   plain,
			Duration: plain,
			Disabled: true,
		}
	}

	return &ColorScheme{
		Endpoint: color.New(color.FgCyan, color.Bold).Sprintf,
		Success:  color.New(color.FgGreen).Sprintf,
		Error:    color.New(color.FgRed, color.Bold).Sprintf,
		Warning:  color.New(color.FgYellow).Sprintf,
		Header:   color.New(color.FgWhite, color.Bold).Sprintf,
		Duration: color.New(color.FgBlue).Sprintf,
		Disabled: false,
	}
}

// plain formats without any escape codes, even when color.NoColor is false
func plain(format string, a ...interface{}) string {
	c := color.New()
	c.DisableColor()
	return c.Sprintf(format, a...)
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns an appropriate color function based on error status
func (cs *ColorScheme) StatusColor(hasError bool) func(format string, a ...interface{}) string {
	if hasError {
		return cs.Error
	}
	return cs.Success
}

// NodeStatus colors a node status: ready green, everything else red
func (cs *ColorScheme) NodeStatus(status swarm.NodeStatus) string {
	if status == swarm.NodeStatusReady {
		return cs.Success("%s", status)
	}
	return cs.Error("%s", status)
}

// Availability colors a node availability: drain and pause yellow
func (cs *ColorScheme) Availability(availability swarm.Availability) string {
	switch availability {
	case swarm.AvailabilityActive:
		return cs.Success("%s", availability)
	case swarm.AvailabilityDrain, swarm.AvailabilityPause:
		return cs.Warning("%s", availability)
	default:
		return cs.Error("%s", availability)
	}
}

// ServiceHealth colors a service health classification
func (cs *ColorScheme) ServiceHealth(health swarm.ServiceHealth) string {
	switch health {
	case swarm.ServiceHealthy:
		return cs.Success("%s", health)
	case swarm.ServiceDegraded:
		return cs.Warning("%s", health)
	default:
		return cs.Error("%s", health)
	}
}

// Severity colors an alert severity
func (cs *ColorScheme) Severity(severity swarm.AlertSeverity) string {
	switch severity {
	case swarm.SeverityCritical:
		return cs.Error("%s", severity)
	case swarm.SeverityHigh, swarm.SeverityWarning:
		return cs.Warning("%s", severity)
	default:
		return string(severity)
	}
}
