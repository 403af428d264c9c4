package orchestrator

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	dockerswarm "github.com/docker/docker/api/types/swarm"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"

	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/aryankumar/swarmwatch/internal/util"
	"github.com/aryankumar/swarmwatch/pkg/version"
)

// DefaultPingTimeout bounds a single ping when the caller's context has no deadline
const DefaultPingTimeout = 10 * time.Second

// DockerOptions configures a connection to one Docker Engine
type DockerOptions struct {
	// Host is the daemon address (unix:///var/run/docker.sock, tcp://host:2376).
	// Empty means the DOCKER_HOST environment.
	Host string

	// APIVersion pins the Engine API version. Empty negotiates with the daemon.
	APIVersion string

	// CertPath is a directory holding ca.pem, cert.pem and key.pem
	CertPath string

	// TLSVerify verifies the daemon certificate against ca.pem
	TLSVerify bool

	// PingTimeout bounds Ping; zero uses DefaultPingTimeout
	PingTimeout time.Duration
}

// Docker implements Client over the Docker Engine API
type Docker struct {
	api         *client.Client
	host        string
	pingTimeout time.Duration
	logger      *slog.Logger
}

// NewDocker creates a Docker Engine client. No connection is made until the first call.
func NewDocker(opts DockerOptions, logger *slog.Logger) (*Docker, error) {
	if logger == nil {
		logger = slog.Default()
	}

	clientOpts := []client.Opt{
		client.FromEnv,
		client.WithHTTPHeaders(map[string]string{"User-Agent": version.UserAgent()}),
	}

	if opts.CertPath != "" {
		tlsConfig, err := loadTLSConfig(opts.CertPath, opts.TLSVerify)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, client.WithHTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		}))
	}

	if opts.Host != "" {
		clientOpts = append(clientOpts, client.WithHost(opts.Host))
	}

	if opts.APIVersion != "" {
		clientOpts = append(clientOpts, client.WithVersion(opts.APIVersion))
	} else {
		clientOpts = append(clientOpts, client.WithAPIVersionNegotiation())
	}

	api, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = DefaultPingTimeout
	}

	logger.Debug("created docker client", "host", api.DaemonHost())

	return &Docker{
		api:         api,
		host:        api.DaemonHost(),
		pingTimeout: pingTimeout,
		logger:      logger,
	}, nil
}

func loadTLSConfig(certPath string, verify bool) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(filepath.Join(certPath, "cert.pem"), filepath.Join(certPath, "key.pem"))
	if err != nil {
		return nil, fmt.Errorf("%w: load client certificate: %v", util.ErrInvalidConfig, err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	if !verify {
		tlsConfig.InsecureSkipVerify = true
		return tlsConfig, nil
	}

	caPEM, err := os.ReadFile(filepath.Join(certPath, "ca.pem"))
	if err != nil {
		return nil, fmt.Errorf("%w: read CA certificate: %v", util.ErrInvalidConfig, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("%w: no certificates in %s", util.ErrInvalidConfig, filepath.Join(certPath, "ca.pem"))
	}
	tlsConfig.RootCAs = pool

	return tlsConfig, nil
}

// Host returns the daemon address this client talks to
func (d *Docker) Host() string {
	return d.host
}

// Ping checks that the daemon answers within the ping timeout
func (d *Docker) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, d.pingTimeout)
	defer cancel()

	resultCh := make(chan error, 1)

	go func() {
		_, err := d.api.Ping(pingCtx)
		resultCh <- err
	}()

	select {
	case <-pingCtx.Done():
		return fmt.Errorf("%w: ping %s: %w", util.ErrConnectionFailed, d.host, pingCtx.Err())
	case err := <-resultCh:
		if err != nil {
			return fmt.Errorf("%w: ping %s: %w", util.ErrConnectionFailed, d.host, err)
		}
		return nil
	}
}

// ClusterInfo reads the daemon info and extracts its swarm membership
func (d *Docker) ClusterInfo(ctx context.Context) (ClusterInfo, error) {
	info, err := d.api.Info(ctx)
	if err != nil {
		return ClusterInfo{}, d.queryError("info", err)
	}
	return clusterInfoFrom(info.Swarm), nil
}

func clusterInfoFrom(sw dockerswarm.Info) ClusterInfo {
	ci := ClusterInfo{
		Active:         sw.LocalNodeState == dockerswarm.LocalNodeStateActive,
		Role:           swarm.LocalRoleNone,
		NodeID:         util.ShortID(sw.NodeID),
		NodeAddr:       sw.NodeAddr,
		LocalNodeState: string(sw.LocalNodeState),
		Managers:       sw.Managers,
		Nodes:          sw.Nodes,
	}

	if sw.Cluster != nil {
		ci.ClusterID = util.ShortID(sw.Cluster.ID)
	}

	if ci.Active {
		ci.Role = swarm.LocalRoleWorker
		if sw.ControlAvailable {
			ci.Role = swarm.LocalRoleManager
		}
	}

	return ci
}

// ListNodes lists cluster nodes
func (d *Docker) ListNodes(ctx context.Context) ([]swarm.Record, error) {
	nodes, err := d.api.NodeList(ctx, types.NodeListOptions{})
	if err != nil {
		return nil, d.queryError("list nodes", err)
	}
	return toRecords(nodes)
}

// ListServices lists cluster services
func (d *Docker) ListServices(ctx context.Context) ([]swarm.Record, error) {
	services, err := d.api.ServiceList(ctx, types.ServiceListOptions{})
	if err != nil {
		return nil, d.queryError("list services", err)
	}
	return toRecords(services)
}

// ListServiceTasks lists the tasks of one service
func (d *Docker) ListServiceTasks(ctx context.Context, serviceID string, filter TaskFilter) ([]swarm.Record, error) {
	args := filters.NewArgs(filters.Arg("service", serviceID))
	if filter.DesiredState != "" {
		args.Add("desired-state", filter.DesiredState)
	}

	tasks, err := d.api.TaskList(ctx, types.TaskListOptions{Filters: args})
	if err != nil {
		return nil, d.queryError("list tasks for service "+serviceID, err)
	}
	return toRecords(tasks)
}

// Close releases the HTTP transport
func (d *Docker) Close() error {
	return d.api.Close()
}

func (d *Docker) queryError(op string, err error) error {
	switch {
	case client.IsErrConnectionFailed(err):
		return fmt.Errorf("%w: %s: %w", util.ErrConnectionFailed, op, err)
	case errdefs.IsUnavailable(err):
		// the engine answers 503 to cluster-wide queries on non-manager nodes
		return fmt.Errorf("%w: %s: %w", util.ErrRoleRestricted, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", util.ErrBackendQuery, op, err)
	}
}

func toRecords[T any](items []T) ([]swarm.Record, error) {
	records := make([]swarm.Record, 0, len(items))
	for _, item := range items {
		rec, err := swarm.NewRecord(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrMalformedRecord, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
