package cluster

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/monitor"
	"github.com/aryankumar/swarmwatch/internal/orchestrator"
	"github.com/aryankumar/swarmwatch/internal/swarm"
)

// Client is a connection to the Docker daemon behind one endpoint
type Client struct {
	// Name is the endpoint name from the config
	Name string

	// Host is the daemon address
	Host string

	// Labels from the endpoint config
	Labels map[string]string

	// Backend is the orchestrator API client
	Backend orchestrator.Client

	// Monitor evaluates the swarm behind Backend
	Monitor *monitor.Monitor

	// mu protects healthy, which the HTTP handlers and the collector update concurrently
	mu      sync.RWMutex
	healthy bool
}

// HealthStatus represents the health status of an endpoint
type HealthStatus struct {
	// Endpoint is the name of the endpoint
	Endpoint string

	// Healthy indicates if the daemon answered
	Healthy bool

	// Error contains any health check error
	Error error

	// Identity is the swarm identity taken at connect time
	Identity swarm.ClusterIdentity
}

// DialFunc opens the orchestrator client for an endpoint
type DialFunc func(ctx context.Context, name string, endpoint config.EndpointConfig, logger *slog.Logger) (orchestrator.Client, error)

// DialDocker is the default DialFunc, talking to the Docker Engine API
func DialDocker(ctx context.Context, name string, endpoint config.EndpointConfig, logger *slog.Logger) (orchestrator.Client, error) {
	return orchestrator.NewDocker(orchestrator.DockerOptions{
		Host:       endpoint.Host,
		APIVersion: endpoint.APIVersion,
		CertPath:   endpoint.CertPath,
		TLSVerify:  endpoint.TLSVerify,
	}, logger)
}
