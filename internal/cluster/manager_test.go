package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/orchestrator"
	"github.com/aryankumar/swarmwatch/internal/orchestrator/orchestratortest"
	"github.com/aryankumar/swarmwatch/internal/util"
)

func createTestConfig(t *testing.T, endpoints []string) *config.Manager {
	t.Helper()

	content := "endpoints:\n"
	for i, name := range endpoints {
		content += fmt.Sprintf("  %s:\n    host: tcp://10.0.0.%d:2376\n    enabled: true\n", name, i+1)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := config.NewManager(path)
	if _, err := cfg.Load(); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// fakeDialer hands out in-memory backends and records what it dialed
type fakeDialer struct {
	mu       sync.Mutex
	backends map[string]*orchestratortest.Client
	fail     map[string]error
	dialed   []string
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{
		backends: make(map[string]*orchestratortest.Client),
		fail:     make(map[string]error),
	}
}

func (d *fakeDialer) dial(ctx context.Context, name string, endpoint config.EndpointConfig, logger *slog.Logger) (orchestrator.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dialed = append(d.dialed, name)
	if err := d.fail[name]; err != nil {
		return nil, err
	}

	backend := orchestratortest.Cluster()
	d.backends[name] = backend
	return backend, nil
}

func TestManager_Connect(t *testing.T) {
	tests := []struct {
		name        string
		endpoints   []string
		connect     []string
		fail        map[string]error
		wantErr     bool
		wantClients []string
	}{
		{
			name:        "connect all",
			endpoints:   []string{"prod", "staging"},
			connect:     []string{"prod", "staging"},
			wantClients: []string{"prod", "staging"},
		},
		{
			name:        "unknown endpoint",
			endpoints:   []string{"prod"},
			connect:     []string{"prod", "missing"},
			wantErr:     true,
			wantClients: []string{"prod"},
		},
		{
			name:        "dial failure keeps the others",
			endpoints:   []string{"prod", "staging"},
			connect:     []string{"prod", "staging"},
			fail:        map[string]error{"staging": errors.New("bad certificate")},
			wantErr:     true,
			wantClients: []string{"prod"},
		},
		{
			name:      "empty list",
			endpoints: []string{"prod"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialer := newFakeDialer()
			for k, v := range tt.fail {
				dialer.fail[k] = v
			}

			m := NewManager(createTestConfig(t, tt.endpoints), testLogger(), WithDialer(dialer.dial))
			defer m.Close()

			err := m.Connect(context.Background(), tt.connect)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Connect() error = %v, wantErr %v", err, tt.wantErr)
			}

			got := m.GetClientNames()
			if len(tt.wantClients) == 0 {
				if len(got) != 0 {
					t.Errorf("got clients %v, want none", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.wantClients) {
				t.Errorf("got clients %v, want %v", got, tt.wantClients)
			}
		})
	}
}

func TestManager_ConnectErrorsNameEndpoint(t *testing.T) {
	m := NewManager(createTestConfig(t, []string{"prod"}), testLogger(), WithDialer(newFakeDialer().dial))
	defer m.Close()

	err := m.Connect(context.Background(), []string{"missing"})

	var endpointErr *util.EndpointError
	if !errors.As(err, &endpointErr) || endpointErr.Endpoint != "missing" {
		t.Errorf("expected EndpointError for missing, got %v", err)
	}
	if !errors.Is(err, util.ErrEndpointNotFound) {
		t.Errorf("expected ErrEndpointNotFound, got %v", err)
	}
}

func TestManager_ConnectAll(t *testing.T) {
	dialer := newFakeDialer()
	m := NewManager(createTestConfig(t, []string{"c", "a", "b"}), testLogger(), WithDialer(dialer.dial))
	defer m.Close()

	if err := m.ConnectAll(context.Background()); err != nil {
		t.Fatalf("ConnectAll() error = %v", err)
	}
	if m.Count() != 3 {
		t.Errorf("Count() = %d, want 3", m.Count())
	}
	if names := m.GetClientNames(); !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("GetClientNames() = %v, want [a b c]", names)
	}

	client, err := m.GetClient("a")
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}
	if !client.Monitor.Identity().IsManager() {
		t.Error("client monitor should have a manager identity")
	}

	if _, err := m.GetClient("zzz"); !errors.Is(err, util.ErrEndpointNotFound) {
		t.Errorf("GetClient(zzz) error = %v, want ErrEndpointNotFound", err)
	}
}

func TestManager_HealthCheck(t *testing.T) {
	dialer := newFakeDialer()
	m := NewManager(createTestConfig(t, []string{"prod", "staging"}), testLogger(), WithDialer(dialer.dial))
	defer m.Close()

	if err := m.ConnectAll(context.Background()); err != nil {
		t.Fatalf("ConnectAll() error = %v", err)
	}

	dialer.backends["staging"].SetPingErr(errors.New("connection refused"))

	statuses := m.HealthCheck(context.Background())
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}
	if statuses[0].Endpoint != "prod" || !statuses[0].Healthy {
		t.Errorf("prod status = %+v", statuses[0])
	}
	if statuses[1].Endpoint != "staging" || statuses[1].Healthy || statuses[1].Error == nil {
		t.Errorf("staging status = %+v", statuses[1])
	}
	if !statuses[0].Identity.Active {
		t.Error("status should carry the connect-time identity")
	}
}

func TestManager_Close(t *testing.T) {
	dialer := newFakeDialer()
	m := NewManager(createTestConfig(t, []string{"prod"}), testLogger(), WithDialer(dialer.dial))

	if err := m.ConnectAll(context.Background()); err != nil {
		t.Fatalf("ConnectAll() error = %v", err)
	}

	m.Close()
	m.Close()

	if !m.closed {
		t.Error("manager should be marked closed")
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d after Close, want 0", m.Count())
	}
	if !dialer.backends["prod"].IsClosed() {
		t.Error("backend should be closed")
	}
	if _, err := m.GetClient("prod"); err == nil {
		t.Error("GetClient() should fail on a closed manager")
	}
	if statuses := m.HealthCheck(context.Background()); len(statuses) != 0 {
		t.Errorf("HealthCheck() on closed manager = %v", statuses)
	}
}
