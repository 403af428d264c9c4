package config

import "time"

// Config represents the swarmwatch configuration file structure
type Config struct {
	// DefaultEndpoint is the endpoint used when none is selected
	DefaultEndpoint string `yaml:"defaultEndpoint,omitempty" json:"defaultEndpoint,omitempty"`

	// Endpoints is a map of endpoint names to Docker daemon connections
	Endpoints map[string]EndpointConfig `yaml:"endpoints,omitempty" json:"endpoints,omitempty"`

	// Defaults contains default settings for operations
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty"`

	// Serve configures the HTTP server
	Serve ServeConfig `yaml:"serve,omitempty" json:"serve,omitempty"`
}

// EndpointConfig describes how to reach one Docker daemon
type EndpointConfig struct {
	// Host is the daemon address, e.g. unix:///var/run/docker.sock or tcp://10.0.0.1:2376
	Host string `yaml:"host" json:"host"`

	// TLSVerify verifies the daemon certificate
	TLSVerify bool `yaml:"tlsVerify,omitempty" json:"tlsVerify,omitempty"`

	// CertPath is a directory holding ca.pem, cert.pem and key.pem
	CertPath string `yaml:"certPath,omitempty" json:"certPath,omitempty"`

	// APIVersion pins the Engine API version instead of negotiating
	APIVersion string `yaml:"apiVersion,omitempty" json:"apiVersion,omitempty"`

	// Alias is a friendly name for the endpoint
	Alias string `yaml:"alias,omitempty" json:"alias,omitempty"`

	// Labels for organizing endpoints
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`

	// Enabled indicates if this endpoint should be included in operations
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Timeout for a whole command
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Parallel is the number of endpoints queried concurrently
	Parallel int `yaml:"parallel,omitempty" json:"parallel,omitempty"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`
}

// ServeConfig configures `swarmwatch serve`
type ServeConfig struct {
	// Address is the listen address of the HTTP server
	Address string `yaml:"address,omitempty" json:"address,omitempty"`

	// ScrapeTimeout bounds one snapshot per endpoint during a request or scrape
	ScrapeTimeout time.Duration `yaml:"scrapeTimeout,omitempty" json:"scrapeTimeout,omitempty"`
}

// EndpointInfo is the listing view of a configured endpoint
type EndpointInfo struct {
	// Name is the endpoint key in the config file
	Name string `json:"name" yaml:"name"`

	// Host is the daemon address
	Host string `json:"host" yaml:"host"`

	// TLS indicates the connection uses client certificates
	TLS bool `json:"tls" yaml:"tls"`

	// Current indicates if this is the default endpoint
	Current bool `json:"current" yaml:"current"`

	// Enabled mirrors EndpointConfig.Enabled
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Alias is a friendly name from the config
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`

	// Labels from the config
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}
