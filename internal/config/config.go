package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigName = ".swarmwatch"
	defaultConfigDir  = ".swarmwatch"

	// EnvPrefix is the prefix of environment variable overrides
	EnvPrefix = "SWARMWATCH"

	// DefaultServeAddress is where `swarmwatch serve` listens by default
	DefaultServeAddress = ":9323"
)

// Manager handles swarmwatch configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &Config{},
	}
}

// Load loads the configuration from file
func (m *Manager) Load() (*Config, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// ~/.swarmwatch/config.yaml is written by Save, ~/.swarmwatch.yaml is read too
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.AutomaticEnv()

	m.config = &Config{}

	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		m.applyDefaults()
		return m.config, nil
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.applyDefaults()

	return m.config, nil
}

// Save writes the current configuration to file. The in-memory config is
// written as is, so removed endpoints do not survive from the file it was
// loaded from.
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		m.configPath = filepath.Join(home, defaultConfigDir, "config.yaml")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Path returns the config file in use, empty if none was found or set
func (m *Manager) Path() string {
	if m.configPath != "" {
		return m.configPath
	}
	return m.viper.ConfigFileUsed()
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// GetEndpointConfig returns configuration for a specific endpoint
func (m *Manager) GetEndpointConfig(name string) (*EndpointConfig, bool) {
	if m.config.Endpoints == nil {
		return nil, false
	}

	endpoint, ok := m.config.Endpoints[name]
	return &endpoint, ok
}

// SetEndpointConfig sets or updates configuration for an endpoint
func (m *Manager) SetEndpointConfig(name string, endpoint EndpointConfig) {
	if m.config.Endpoints == nil {
		m.config.Endpoints = make(map[string]EndpointConfig)
	}

	m.config.Endpoints[name] = endpoint
}

// RemoveEndpointConfig removes configuration for an endpoint. Removing the
// default endpoint clears the default.
func (m *Manager) RemoveEndpointConfig(name string) {
	if m.config.Endpoints == nil {
		return
	}

	delete(m.config.Endpoints, name)

	if m.config.DefaultEndpoint == name {
		m.SetDefaultEndpoint("")
	}
}

// SetDefaultEndpoint changes the endpoint used when none is selected
func (m *Manager) SetDefaultEndpoint(name string) {
	m.config.DefaultEndpoint = name
}

// GetEnabledEndpoints returns the sorted names of enabled endpoints
func (m *Manager) GetEnabledEndpoints() []string {
	enabled := make([]string, 0)
	for name, endpoint := range m.Endpoints() {
		if endpoint.Enabled {
			enabled = append(enabled, name)
		}
	}
	return sortedNames(enabled)
}

// GetEndpointsByLabel returns enabled endpoints matching the given labels
func (m *Manager) GetEndpointsByLabel(labels map[string]string) []string {
	matching := make([]string, 0)
	for name, endpoint := range m.Endpoints() {
		if !endpoint.Enabled {
			continue
		}

		if matchesLabels(endpoint.Labels, labels) {
			matching = append(matching, name)
		}
	}
	return sortedNames(matching)
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	if m.config.Defaults.Timeout == 0 {
		m.config.Defaults.Timeout = 30 * time.Second
	}

	if m.config.Defaults.Parallel == 0 {
		m.config.Defaults.Parallel = 5
	}

	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = "table"
	}

	if m.config.Serve.Address == "" {
		m.config.Serve.Address = DefaultServeAddress
	}

	if m.config.Serve.ScrapeTimeout == 0 {
		m.config.Serve.ScrapeTimeout = 10 * time.Second
	}

	for name, endpoint := range m.config.Endpoints {
		if endpoint.Alias == "" {
			endpoint.Alias = name
		}
		m.config.Endpoints[name] = endpoint
	}
}

// matchesLabels checks if endpoint labels match the required labels
func matchesLabels(endpointLabels, requiredLabels map[string]string) bool {
	if len(requiredLabels) == 0 {
		return true
	}

	for key, value := range requiredLabels {
		endpointValue, exists := endpointLabels[key]
		if !exists || endpointValue != value {
			return false
		}
	}

	return true
}
