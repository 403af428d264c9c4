package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aryankumar/swarmwatch/internal/cli/clitest"
	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/orchestrator/orchestratortest"
	"github.com/aryankumar/swarmwatch/internal/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reload(t *testing.T, path string) *config.Manager {
	t.Helper()

	cfg := config.NewManager(path)
	_, err := cfg.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewEndpointCmd(t *testing.T) {
	cmd := NewEndpointCmd()

	for _, name := range []string{"list", "add", "remove", "use", "ping"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "expected subcommand %q", name)
	}
}

func TestList(t *testing.T) {
	clitest.Setup(t, map[string]*orchestratortest.Client{
		"east": orchestratortest.Cluster(),
		"west": orchestratortest.Cluster(),
	})

	var buf bytes.Buffer
	require.NoError(t, runList(&buf))

	out := buf.String()
	assert.Contains(t, out, "CURRENT")
	assert.Contains(t, out, "east")
	assert.Contains(t, out, "west")
	assert.Contains(t, out, "*")
}

func TestList_JSON(t *testing.T) {
	clitest.Setup(t, map[string]*orchestratortest.Client{
		"east": orchestratortest.Cluster(),
		"west": orchestratortest.Cluster(),
	})
	viper.Set(cmdutil.KeyOutput, "json")

	var buf bytes.Buffer
	require.NoError(t, runList(&buf))

	var infos []config.EndpointInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "east", infos[0].Name)
	assert.True(t, infos[0].Current)
	assert.False(t, infos[1].Current)
}

func TestAdd(t *testing.T) {
	path := clitest.Setup(t, map[string]*orchestratortest.Client{"east": orchestratortest.Cluster()})

	var buf bytes.Buffer
	err := runAdd(&buf, "prod", &addOptions{
		host:      "tcp://10.0.1.1:2376",
		tlsVerify: true,
		certPath:  "/etc/docker/prod",
		labels:    []string{"env=prod"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Endpoint \"prod\" added\n", buf.String())

	endpoint, ok := reload(t, path).GetEndpointConfig("prod")
	require.True(t, ok)
	assert.Equal(t, "tcp://10.0.1.1:2376", endpoint.Host)
	assert.True(t, endpoint.TLSVerify)
	assert.True(t, endpoint.Enabled)
	assert.Equal(t, map[string]string{"env": "prod"}, endpoint.Labels)

	_, ok = reload(t, path).GetEndpointConfig("east")
	assert.True(t, ok, "existing endpoints survive an add")
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		endpt   string
		opts    addOptions
		wantErr error
	}{
		{
			name:  "already exists",
			endpt: "east",
			opts:  addOptions{host: "tcp://10.0.1.1:2376"},
		},
		{
			name:    "bad host",
			endpt:   "prod",
			opts:    addOptions{host: "10.0.1.1:2376"},
			wantErr: util.ErrInvalidConfig,
		},
		{
			name:    "bad label",
			endpt:   "prod",
			opts:    addOptions{host: "tcp://10.0.1.1:2376", labels: []string{"env"}},
			wantErr: util.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clitest.Setup(t, map[string]*orchestratortest.Client{"east": orchestratortest.Cluster()})

			err := runAdd(&bytes.Buffer{}, tt.endpt, &tt.opts)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestAdd_Force(t *testing.T) {
	path := clitest.Setup(t, map[string]*orchestratortest.Client{"east": orchestratortest.Cluster()})

	err := runAdd(&bytes.Buffer{}, "east", &addOptions{host: "unix:///run/docker.sock", disabled: true, force: true})
	require.NoError(t, err)

	endpoint, ok := reload(t, path).GetEndpointConfig("east")
	require.True(t, ok)
	assert.Equal(t, "unix:///run/docker.sock", endpoint.Host)
	assert.False(t, endpoint.Enabled)
}

func TestRemove(t *testing.T) {
	path := clitest.Setup(t, map[string]*orchestratortest.Client{
		"east": orchestratortest.Cluster(),
		"west": orchestratortest.Cluster(),
	})

	var buf bytes.Buffer
	require.NoError(t, runRemove(&buf, "east"))
	assert.Equal(t, "Endpoint \"east\" removed\n", buf.String())

	cfg := reload(t, path)
	_, ok := cfg.GetEndpointConfig("east")
	assert.False(t, ok)
	assert.Equal(t, "", cfg.GetConfig().DefaultEndpoint)

	err := runRemove(&bytes.Buffer{}, "east")
	assert.True(t, errors.Is(err, util.ErrEndpointNotFound))
}

func TestUse(t *testing.T) {
	path := clitest.Setup(t, map[string]*orchestratortest.Client{
		"east": orchestratortest.Cluster(),
		"west": orchestratortest.Cluster(),
	})

	var buf bytes.Buffer
	require.NoError(t, runUse(&buf, "west"))
	assert.Equal(t, "Switched to endpoint \"west\"\n", buf.String())
	assert.Equal(t, "west", reload(t, path).DefaultEndpointName())

	err := runUse(&bytes.Buffer{}, "north")
	assert.True(t, errors.Is(err, util.ErrEndpointNotFound))
}

func TestPing(t *testing.T) {
	down := orchestratortest.Cluster()
	down.PingErr = errors.New("connection refused")

	tests := []struct {
		name     string
		backends map[string]*orchestratortest.Client
		wantErr  bool
		contains []string
	}{
		{
			name:     "all answer",
			backends: map[string]*orchestratortest.Client{"east": orchestratortest.Cluster(), "west": orchestratortest.Cluster()},
			contains: []string{"east", "west", "Success", "Summary: 2 successful, 0 failed"},
		},
		{
			name:     "one down",
			backends: map[string]*orchestratortest.Client{"east": orchestratortest.Cluster(), "west": down},
			wantErr:  true,
			contains: []string{"Failed", "Summary: 1 successful, 1 failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clitest.Setup(t, tt.backends)
			viper.Set(cmdutil.KeyAll, true)

			var buf bytes.Buffer
			err := runPing(context.Background(), &buf)
			if tt.wantErr {
				assert.True(t, errors.Is(err, util.ErrConnectionFailed), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
