package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aryankumar/swarmwatch/internal/util"
)

const (
	// LocalEndpoint is the implicit endpoint used when none is configured
	LocalEndpoint = "local"

	// DefaultDockerHost is the daemon socket on Linux hosts
	DefaultDockerHost = "unix:///var/run/docker.sock"
)

// LocalFromEnv builds the implicit endpoint from the Docker client environment
// (DOCKER_HOST, DOCKER_CERT_PATH, DOCKER_TLS_VERIFY, DOCKER_API_VERSION)
func LocalFromEnv() EndpointConfig {
	host := os.Getenv("DOCKER_HOST")
	if host == "" {
		host = DefaultDockerHost
	}

	return EndpointConfig{
		Host:       host,
		TLSVerify:  os.Getenv("DOCKER_TLS_VERIFY") != "",
		CertPath:   os.Getenv("DOCKER_CERT_PATH"),
		APIVersion: os.Getenv("DOCKER_API_VERSION"),
		Alias:      LocalEndpoint,
		Enabled:    true,
	}
}

// Endpoints returns the configured endpoints, or the single local endpoint
// from the environment when none are configured
func (m *Manager) Endpoints() map[string]EndpointConfig {
	if len(m.config.Endpoints) == 0 {
		return map[string]EndpointConfig{LocalEndpoint: LocalFromEnv()}
	}
	return m.config.Endpoints
}

// DefaultEndpointName returns the configured default, falling back to the
// local endpoint or the first enabled one
func (m *Manager) DefaultEndpointName() string {
	endpoints := m.Endpoints()

	if name := m.config.DefaultEndpoint; name != "" {
		if _, ok := endpoints[name]; ok {
			return name
		}
	}

	if _, ok := endpoints[LocalEndpoint]; ok {
		return LocalEndpoint
	}

	if enabled := m.GetEnabledEndpoints(); len(enabled) > 0 {
		return enabled[0]
	}
	return ""
}

// ResolveEndpoint returns the connection settings of a named endpoint with
// its cert path expanded
func (m *Manager) ResolveEndpoint(name string) (EndpointConfig, error) {
	endpoint, ok := m.Endpoints()[name]
	if !ok {
		return EndpointConfig{}, fmt.Errorf("%w: %q", util.ErrEndpointNotFound, name)
	}

	if endpoint.CertPath != "" {
		expanded, err := expandPath(endpoint.CertPath)
		if err != nil {
			return EndpointConfig{}, err
		}
		endpoint.CertPath = expanded
	}

	return endpoint, nil
}

// SelectEndpoints picks the endpoints a command runs against. Explicit names
// win over labels; all selects every enabled endpoint; otherwise the default
// endpoint is used.
func (m *Manager) SelectEndpoints(names []string, all bool, labels map[string]string) ([]string, error) {
	endpoints := m.Endpoints()

	switch {
	case len(names) > 0:
		selected := make([]string, 0, len(names))
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if _, ok := endpoints[name]; !ok {
				return nil, fmt.Errorf("%w: %q", util.ErrEndpointNotFound, name)
			}
			if !seen[name] {
				seen[name] = true
				selected = append(selected, name)
			}
		}
		return selected, nil

	case len(labels) > 0:
		selected := m.GetEndpointsByLabel(labels)
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: no endpoint matches labels %v", util.ErrEndpointNotFound, labels)
		}
		return selected, nil

	case all:
		selected := m.GetEnabledEndpoints()
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: no enabled endpoints", util.ErrEndpointNotFound)
		}
		return selected, nil

	default:
		name := m.DefaultEndpointName()
		if name == "" {
			return nil, fmt.Errorf("%w: no default endpoint", util.ErrEndpointNotFound)
		}
		return []string{name}, nil
	}
}

// ListEndpoints returns every endpoint for display, sorted by name
func (m *Manager) ListEndpoints() []EndpointInfo {
	current := m.DefaultEndpointName()
	endpoints := m.Endpoints()

	infos := make([]EndpointInfo, 0, len(endpoints))
	for name, endpoint := range endpoints {
		infos = append(infos, EndpointInfo{
			Name:    name,
			Host:    endpoint.Host,
			TLS:     endpoint.CertPath != "",
			Current: name == current,
			Enabled: endpoint.Enabled,
			Alias:   endpoint.Alias,
			Labels:  endpoint.Labels,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})

	return infos
}

// supportedSchemes are the daemon address schemes the Docker client can dial
var supportedSchemes = []string{"unix://", "tcp://", "npipe://", "http://", "https://"}

// ValidateEndpoint checks an endpoint before it is saved
func ValidateEndpoint(name string, endpoint EndpointConfig) error {
	if strings.TrimSpace(name) == "" {
		return util.NewValidationError("name", name, "must not be empty")
	}

	if endpoint.Host == "" {
		return util.NewValidationError("host", endpoint.Host, "must not be empty")
	}

	for _, scheme := range supportedSchemes {
		if strings.HasPrefix(endpoint.Host, scheme) {
			return nil
		}
	}

	return util.NewValidationError("host", endpoint.Host,
		"must start with one of "+strings.Join(supportedSchemes, ", "))
}

// ParseLabels parses "key=value" selectors
func ParseLabels(selectors []string) (map[string]string, error) {
	labels := make(map[string]string, len(selectors))
	for _, selector := range selectors {
		key, value, ok := strings.Cut(selector, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &util.ValidationError{Field: "label", Message: fmt.Sprintf("expected key=value, got %q", selector)}
		}
		labels[key] = strings.TrimSpace(value)
	}
	return labels, nil
}

func sortedNames(names []string) []string {
	sort.Strings(names)
	return names
}

// expandPath expands ~ to home directory and evaluates environment variables
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Clean(path), nil
}
