// Package clitest runs swarmwatch commands against in-memory endpoints.
package clitest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/orchestrator"
	"github.com/aryankumar/swarmwatch/internal/orchestrator/orchestratortest"
	"github.com/spf13/viper"
)

// WriteConfig writes a config file declaring one enabled endpoint per name,
// with the first name as the current endpoint, and returns its path
func WriteConfig(t *testing.T, names ...string) string {
	t.Helper()

	var sb strings.Builder
	if len(names) > 0 {
		fmt.Fprintf(&sb, "defaultEndpoint: %s\n", names[0])
	}
	sb.WriteString("endpoints:\n")
	for i, name := range names {
		fmt.Fprintf(&sb, "  %s:\n    host: tcp://10.0.0.%d:2376\n    enabled: true\n    labels:\n      index: \"%d\"\n", name, i+1, i)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// UseBackends makes every command dial the given in-memory clients by
// endpoint name until the test ends
func UseBackends(t *testing.T, backends map[string]*orchestratortest.Client) {
	t.Helper()

	previous := cmdutil.Dial
	cmdutil.Dial = func(ctx context.Context, name string, endpoint config.EndpointConfig, logger *slog.Logger) (orchestrator.Client, error) {
		backend, ok := backends[name]
		if !ok {
			return nil, fmt.Errorf("no backend for endpoint %q", name)
		}
		return backend, nil
	}
	t.Cleanup(func() { cmdutil.Dial = previous })
}

// Setup writes a config for the backends, points the global settings at it
// and makes commands dial the backends. Settings are reset when the test ends.
func Setup(t *testing.T, backends map[string]*orchestratortest.Client) string {
	t.Helper()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)

	path := WriteConfig(t, names...)
	UseBackends(t, backends)

	viper.Reset()
	viper.Set(cmdutil.KeyConfig, path)
	t.Cleanup(viper.Reset)

	return path
}
