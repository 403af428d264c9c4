package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aryankumar/swarmwatch/internal/util"
)

func TestLocalFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want EndpointConfig
	}{
		{
			name: "defaults",
			env:  map[string]string{"DOCKER_HOST": "", "DOCKER_TLS_VERIFY": "", "DOCKER_CERT_PATH": "", "DOCKER_API_VERSION": ""},
			want: EndpointConfig{Host: DefaultDockerHost, Alias: LocalEndpoint, Enabled: true},
		},
		{
			name: "from docker environment",
			env: map[string]string{
				"DOCKER_HOST":        "tcp://10.0.0.1:2376",
				"DOCKER_TLS_VERIFY":  "1",
				"DOCKER_CERT_PATH":   "/certs",
				"DOCKER_API_VERSION": "1.41",
			},
			want: EndpointConfig{
				Host:       "tcp://10.0.0.1:2376",
				TLSVerify:  true,
				CertPath:   "/certs",
				APIVersion: "1.41",
				Alias:      LocalEndpoint,
				Enabled:    true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if got := LocalFromEnv(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LocalFromEnv() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestManager_EndpointsFallback(t *testing.T) {
	t.Setenv("DOCKER_HOST", "")

	manager := NewManager(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := manager.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	endpoints := manager.Endpoints()
	if len(endpoints) != 1 {
		t.Fatalf("got %d endpoints, want the local fallback only", len(endpoints))
	}
	if endpoints[LocalEndpoint].Host != DefaultDockerHost {
		t.Errorf("local host = %q, want %q", endpoints[LocalEndpoint].Host, DefaultDockerHost)
	}
	if manager.DefaultEndpointName() != LocalEndpoint {
		t.Errorf("default = %q, want local", manager.DefaultEndpointName())
	}
}

func TestManager_SelectEndpoints(t *testing.T) {
	manager := loadConfig(t, `
defaultEndpoint: prod
endpoints:
  prod:
    host: tcp://prod:2376
    enabled: true
    labels:
      env: production
  staging:
    host: tcp://staging:2376
    enabled: true
    labels:
      env: staging
  old:
    host: tcp://old:2376
    enabled: false
`)

	tests := []struct {
		name    string
		names   []string
		all     bool
		labels  map[string]string
		want    []string
		wantErr error
	}{
		{name: "default endpoint", want: []string{"prod"}},
		{name: "explicit names keep order", names: []string{"staging", "prod", "staging"}, want: []string{"staging", "prod"}},
		{name: "explicit disabled endpoint", names: []string{"old"}, want: []string{"old"}},
		{name: "unknown name", names: []string{"nope"}, wantErr: util.ErrEndpointNotFound},
		{name: "all enabled", all: true, want: []string{"prod", "staging"}},
		{name: "by label", labels: map[string]string{"env": "staging"}, want: []string{"staging"}},
		{name: "label without match", labels: map[string]string{"env": "dev"}, wantErr: util.ErrEndpointNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := manager.SelectEndpoints(tt.names, tt.all, tt.labels)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManager_ResolveEndpoint(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	manager := loadConfig(t, `
endpoints:
  prod:
    host: tcp://prod:2376
    certPath: ~/.docker/prod
    enabled: true
`)

	endpoint, err := manager.ResolveEndpoint("prod")
	if err != nil {
		t.Fatalf("ResolveEndpoint() error = %v", err)
	}
	if want := filepath.Join(home, ".docker", "prod"); endpoint.CertPath != want {
		t.Errorf("CertPath = %q, want %q", endpoint.CertPath, want)
	}

	if _, err := manager.ResolveEndpoint("missing"); !errors.Is(err, util.ErrEndpointNotFound) {
		t.Errorf("expected ErrEndpointNotFound, got %v", err)
	}
}

func TestManager_ListEndpoints(t *testing.T) {
	manager := loadConfig(t, `
defaultEndpoint: b
endpoints:
  b:
    host: tcp://b:2376
    certPath: /certs/b
    enabled: true
  a:
    host: tcp://a:2375
    enabled: false
`)

	infos := manager.ListEndpoints()
	if len(infos) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(infos))
	}
	if infos[0].Name != "a" || infos[1].Name != "b" {
		t.Errorf("endpoints not sorted: %+v", infos)
	}
	if infos[0].Current || !infos[1].Current {
		t.Error("b should be the current endpoint")
	}
	if infos[0].TLS || !infos[1].TLS {
		t.Error("TLS should follow the cert path")
	}
}

func TestParseLabels(t *testing.T) {
	tests := []struct {
		name      string
		selectors []string
		want      map[string]string
		wantErr   bool
	}{
		{name: "empty", selectors: nil, want: map[string]string{}},
		{name: "pairs", selectors: []string{"env=prod", " region = eu "}, want: map[string]string{"env": "prod", "region": "eu"}},
		{name: "empty value", selectors: []string{"tier="}, want: map[string]string{"tier": ""}},
		{name: "missing separator", selectors: []string{"env"}, wantErr: true},
		{name: "missing key", selectors: []string{"=prod"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLabels(tt.selectors)
			if tt.wantErr {
				if !errors.Is(err, util.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		host     string
		wantErr  bool
	}{
		{name: "unix socket", endpoint: "local", host: "unix:///var/run/docker.sock"},
		{name: "tcp", endpoint: "prod", host: "tcp://10.0.0.1:2376"},
		{name: "windows pipe", endpoint: "win", host: "npipe:////./pipe/docker_engine"},
		{name: "empty name", endpoint: " ", host: "tcp://10.0.0.1:2376", wantErr: true},
		{name: "empty host", endpoint: "prod", host: "", wantErr: true},
		{name: "missing scheme", endpoint: "prod", host: "10.0.0.1:2376", wantErr: true},
		{name: "unsupported scheme", endpoint: "prod", host: "ftp://10.0.0.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoint(tt.endpoint, EndpointConfig{Host: tt.host})
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEndpoint() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, util.ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}
		})
	}
}
