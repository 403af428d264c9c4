package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/monitor"
	"github.com/aryankumar/swarmwatch/internal/orchestrator"
)

const healthCheckTimeout = 10 * time.Second

// NewClient wraps an orchestrator client for an endpoint and takes the
// initial swarm identity. An unreachable daemon is not an error here: the
// monitor reports it on every call.
func NewClient(ctx context.Context, name string, endpoint config.EndpointConfig, backend orchestrator.Client, logger *slog.Logger) (*Client, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	endpointLogger := logger.With("endpoint", name)
	mon := monitor.New(ctx, backend, endpointLogger)

	client := &Client{
		Name:    name,
		Host:    endpoint.Host,
		Labels:  endpoint.Labels,
		Backend: backend,
		Monitor: mon,
		healthy: mon.Identity().Connected,
	}

	endpointLogger.Debug("created endpoint client",
		"host", endpoint.Host,
		"connected", client.healthy)

	return client, nil
}

// HealthCheck pings the daemon, bounded by a timeout so an unresponsive
// endpoint cannot hang the caller
func (c *Client) HealthCheck(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resultCh := make(chan error, 1)

	go func() {
		resultCh <- c.Backend.Ping(healthCtx)
	}()

	select {
	case <-healthCtx.Done():
		c.setHealthy(false)
		return fmt.Errorf("health check timeout: %w", healthCtx.Err())
	case err := <-resultCh:
		if err != nil {
			c.setHealthy(false)
			return fmt.Errorf("ping failed: %w", err)
		}
		c.setHealthy(true)
		return nil
	}
}

// Reconnect refreshes the swarm identity, e.g. after the daemon was down at startup
func (c *Client) Reconnect(ctx context.Context) {
	c.setHealthy(c.Monitor.Reconnect(ctx).Connected)
}

// EnsureConnected reconnects when the stored identity is disconnected and
// reports whether the daemon is connected afterwards
func (c *Client) EnsureConnected(ctx context.Context) bool {
	if c.Monitor.Identity().Connected {
		return true
	}
	c.Reconnect(ctx)
	return c.Monitor.Identity().Connected
}

// Close releases the backend connection
func (c *Client) Close() error {
	return c.Backend.Close()
}

// IsHealthy returns the current health status
func (c *Client) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthy
}

func (c *Client) setHealthy(healthy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.healthy = healthy
}

// String returns a string representation of the client
func (c *Client) String() string {
	return fmt.Sprintf("Client{Name: %s, Host: %s, Healthy: %v}", c.Name, c.Host, c.IsHealthy())
}
