package cluster

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/orchestrator/orchestratortest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		backend     *orchestratortest.Client
		wantErr     bool
		wantHealthy bool
	}{
		{name: "reachable daemon", backend: orchestratortest.Cluster(), wantHealthy: true},
		{name: "unreachable daemon", backend: &orchestratortest.Client{PingErr: errors.New("refused")}, wantHealthy: false},
		{name: "nil backend", backend: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := config.EndpointConfig{Host: "tcp://10.0.0.1:2376", Labels: map[string]string{"env": "test"}}

			var (
				client *Client
				err    error
			)
			if tt.backend == nil {
				client, err = NewClient(context.Background(), "test", endpoint, nil, testLogger())
			} else {
				client, err = NewClient(context.Background(), "test", endpoint, tt.backend, testLogger())
			}

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if client.Name != "test" || client.Host != endpoint.Host {
				t.Errorf("unexpected client: %s", client)
			}
			if client.Labels["env"] != "test" {
				t.Errorf("labels not carried: %v", client.Labels)
			}
			if client.IsHealthy() != tt.wantHealthy {
				t.Errorf("IsHealthy() = %v, want %v", client.IsHealthy(), tt.wantHealthy)
			}
		})
	}
}

func TestClient_HealthCheck(t *testing.T) {
	backend := orchestratortest.Cluster()
	client, err := NewClient(context.Background(), "test", config.EndpointConfig{}, backend, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if !client.IsHealthy() {
		t.Error("client should be healthy after a successful check")
	}

	backend.SetPingErr(errors.New("connection refused"))

	err = client.HealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("HealthCheck() error = %v, want ping failure", err)
	}
	if client.IsHealthy() {
		t.Error("client should be unhealthy after a failed check")
	}
}

func TestClient_Reconnect(t *testing.T) {
	backend := &orchestratortest.Client{PingErr: errors.New("down")}
	client, err := NewClient(context.Background(), "test", config.EndpointConfig{}, backend, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.Monitor.Identity().Active {
		t.Fatal("identity should be inactive before the daemon is reachable")
	}

	backend.SetPingErr(nil)
	backend.Info = orchestratortest.ManagerInfo()
	client.Reconnect(context.Background())

	if !client.IsHealthy() || !client.Monitor.Identity().IsManager() {
		t.Errorf("after Reconnect: healthy=%v identity=%+v", client.IsHealthy(), client.Monitor.Identity())
	}

	if err := client.Close(); err != nil || !backend.IsClosed() {
		t.Errorf("Close() = %v, closed = %v", err, backend.IsClosed())
	}
}

func TestClient_EnsureConnected(t *testing.T) {
	backend := &orchestratortest.Client{PingErr: errors.New("down"), Info: orchestratortest.ManagerInfo()}
	client, err := NewClient(context.Background(), "test", config.EndpointConfig{}, backend, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.EnsureConnected(context.Background()) {
		t.Error("EnsureConnected() = true while the daemon is down")
	}

	backend.SetPingErr(nil)

	if !client.EnsureConnected(context.Background()) {
		t.Error("EnsureConnected() = false after the daemon came back")
	}
	if !client.Monitor.Identity().Active {
		t.Error("identity should be refreshed by the reconnect")
	}
}
