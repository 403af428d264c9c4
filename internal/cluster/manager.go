package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/util"
)

// maxConcurrentDials bounds simultaneous endpoint connections
const maxConcurrentDials = 10

// Manager manages connections to multiple Docker endpoints.
// It handles concurrent connection establishment, health checking, and graceful shutdown.
type Manager struct {
	// clients is a map of endpoint name to client
	clients map[string]*Client

	// mu protects clients and closed
	mu sync.RWMutex

	cfg    *config.Manager
	dial   DialFunc
	logger *slog.Logger

	closed bool
}

// Option configures a Manager
type Option func(*Manager)

// WithDialer replaces the Docker dialer, mainly for tests
func WithDialer(dial DialFunc) Option {
	return func(m *Manager) {
		m.dial = dial
	}
}

// NewManager creates a new endpoint manager
func NewManager(cfg *config.Manager, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		clients: make(map[string]*Client),
		cfg:     cfg,
		dial:    DialDocker,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Connect opens the given endpoints concurrently. It keeps going when some
// fail and returns the aggregated errors.
func (m *Manager) Connect(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("no endpoint names provided")
	}

	m.logger.Debug("connecting to endpoints", "count", len(names), "endpoints", names)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	addErr := func(name string, err error) {
		mu.Lock()
		errs = append(errs, util.WrapEndpointError(name, err))
		mu.Unlock()
	}

	sem := make(chan struct{}, maxConcurrentDials)

	for _, name := range names {
		wg.Add(1)

		go func(name string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				addErr(name, ctx.Err())
				return
			}

			endpoint, err := m.cfg.ResolveEndpoint(name)
			if err != nil {
				m.logger.Error("failed to resolve endpoint", "endpoint", name, "error", err)
				addErr(name, err)
				return
			}

			backend, err := m.dial(ctx, name, endpoint, m.logger)
			if err != nil {
				m.logger.Error("failed to create docker client", "endpoint", name, "error", err)
				addErr(name, err)
				return
			}

			client, err := NewClient(ctx, name, endpoint, backend, m.logger)
			if err != nil {
				_ = backend.Close()
				addErr(name, err)
				return
			}

			m.mu.Lock()
			if m.closed {
				m.mu.Unlock()
				_ = client.Close()
				m.logger.Warn("manager is closed, skipping client storage", "endpoint", name)
				return
			}
			m.clients[name] = client
			m.mu.Unlock()
		}(name)
	}

	wg.Wait()

	if len(errs) > 0 {
		m.logger.Warn("some endpoint connections failed",
			"total", len(names),
			"failed", len(errs),
			"succeeded", len(names)-len(errs))
		return util.NewMultiError(errs)
	}

	return nil
}

// ConnectAll connects to every enabled endpoint
func (m *Manager) ConnectAll(ctx context.Context) error {
	names := m.cfg.GetEnabledEndpoints()
	if len(names) == 0 {
		return fmt.Errorf("%w: no enabled endpoints", util.ErrEndpointNotFound)
	}
	return m.Connect(ctx, names)
}

// GetClient returns the client for a specific endpoint
func (m *Manager) GetClient(name string) (*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("manager is closed")
	}

	client, ok := m.clients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q not connected", util.ErrEndpointNotFound, name)
	}

	return client, nil
}

// GetAllClients returns all connected clients sorted by name
func (m *Manager) GetAllClients() []*Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clients := make([]*Client, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].Name < clients[j].Name
	})

	return clients
}

// GetClientNames returns all connected endpoint names, sorted
func (m *Manager) GetClientNames() []string {
	clients := m.GetAllClients()

	names := make([]string, 0, len(clients))
	for _, client := range clients {
		names = append(names, client.Name)
	}

	return names
}

// Count returns the number of connected endpoints
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.clients)
}

// HealthCheck pings every connected endpoint concurrently
func (m *Manager) HealthCheck(ctx context.Context) []HealthStatus {
	clients := m.GetAllClients()
	if len(clients) == 0 {
		m.logger.Warn("no clients to health check")
		return []HealthStatus{}
	}

	var wg sync.WaitGroup
	results := make([]HealthStatus, len(clients))

	for i, client := range clients {
		wg.Add(1)

		go func(i int, c *Client) {
			defer wg.Done()

			status := HealthStatus{
				Endpoint: c.Name,
				Identity: c.Monitor.Identity(),
			}

			select {
			case <-ctx.Done():
				status.Error = ctx.Err()
			default:
				status.Error = c.HealthCheck(ctx)
				status.Healthy = status.Error == nil
			}

			if status.Error != nil {
				m.logger.Warn("health check failed", "endpoint", c.Name, "error", status.Error)
			}

			results[i] = status
		}(i, client)
	}

	wg.Wait()

	m.logger.Debug("health checks completed", "total", len(results), "healthy", countHealthy(results))

	return results
}

// Close closes every backend connection and marks the manager closed
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		m.logger.Debug("manager already closed")
		return
	}

	m.logger.Debug("closing endpoint manager", "clients", len(m.clients))

	for name, client := range m.clients {
		if err := client.Close(); err != nil {
			m.logger.Warn("failed to close client", "endpoint", name, "error", err)
		}
	}

	m.clients = make(map[string]*Client)
	m.closed = true
}

func countHealthy(results []HealthStatus) int {
	count := 0
	for _, r := range results {
		if r.Healthy {
			count++
		}
	}
	return count
}
