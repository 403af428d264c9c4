// Package metrics exports swarm state as Prometheus metrics. Every scrape
// takes a fresh snapshot of each endpoint; nothing is cached between scrapes.
package metrics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/executor"
	"github.com/aryankumar/swarmwatch/internal/monitor"
	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "swarmwatch"

// DefaultScrapeTimeout bounds one scrape across all endpoints
const DefaultScrapeTimeout = 10 * time.Second

// bytesPerGB matches the 1024-based GB used by the normalizer
const bytesPerGB = 1 << 30

var (
	upDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "up"),
		"Whether the Docker daemon of the endpoint answered a ping.",
		[]string{"endpoint"}, nil,
	)
	activeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "swarm", "active"),
		"Whether the daemon is part of an active swarm.",
		[]string{"endpoint"}, nil,
	)
	managerDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "swarm", "manager"),
		"Whether the daemon runs on a manager node.",
		[]string{"endpoint"}, nil,
	)
	nodesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cluster", "nodes"),
		"Number of swarm nodes by status.",
		[]string{"endpoint", "status"}, nil,
	)
	nodeReadyDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "node", "ready"),
		"Whether a swarm node is ready.",
		[]string{"endpoint", "node_id", "hostname", "role", "availability"}, nil,
	)
	cpusDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cluster", "cpus"),
		"Total CPUs across all nodes.",
		[]string{"endpoint"}, nil,
	)
	memoryDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cluster", "memory_bytes"),
		"Total memory across all nodes in bytes.",
		[]string{"endpoint"}, nil,
	)
	replicasRunningDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "service", "replicas_running"),
		"Running tasks of a service.",
		[]string{"endpoint", "service", "mode"}, nil,
	)
	replicasDesiredDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "service", "replicas_desired"),
		"Desired replicas of a replicated service.",
		[]string{"endpoint", "service"}, nil,
	)
	serviceHealthDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "service", "health"),
		"Service health classification, 1 for the current state.",
		[]string{"endpoint", "service", "health"}, nil,
	)
	alertsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "alerts"),
		"Number of active alerts by kind and severity.",
		[]string{"endpoint", "kind", "severity"}, nil,
	)
	queryFailedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "query_failed"),
		"Queries that failed during the last snapshot.",
		[]string{"endpoint", "query"}, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "scrape_duration_seconds"),
		"Duration of the snapshot of one endpoint.",
		[]string{"endpoint"}, nil,
	)
)

var (
	nodeStatuses   = []swarm.NodeStatus{swarm.NodeStatusReady, swarm.NodeStatusDown, swarm.NodeStatusDisconnected, swarm.NodeStatusUnknown}
	serviceHealths = []swarm.ServiceHealth{swarm.ServiceHealthy, swarm.ServiceDegraded, swarm.ServiceDown}
)

// ClientLister yields the endpoints to scrape. *cluster.Manager implements it.
type ClientLister interface {
	GetAllClients() []*cluster.Client
}

// Collector is a prometheus.Collector over swarm endpoints
type Collector struct {
	clients ClientLister
	timeout time.Duration
	workers int
	logger  *slog.Logger
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector. A non-positive timeout uses DefaultScrapeTimeout.
func NewCollector(clients ClientLister, timeout time.Duration, workers int, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultScrapeTimeout
	}
	if workers <= 0 {
		workers = 5
	}

	return &Collector{
		clients: clients,
		timeout: timeout,
		workers: workers,
		logger:  logger,
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- activeDesc
	ch <- managerDesc
	ch <- nodesDesc
	ch <- nodeReadyDesc
	ch <- cpusDesc
	ch <- memoryDesc
	ch <- replicasRunningDesc
	ch <- replicasDesiredDesc
	ch <- serviceHealthDesc
	ch <- alertsDesc
	ch <- queryFailedDesc
	ch <- scrapeDurationDesc
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	clients := c.clients.GetAllClients()
	byName := make(map[string]*cluster.Client, len(clients))
	names := make([]string, 0, len(clients))
	for _, client := range clients {
		byName[client.Name] = client
		names = append(names, client.Name)
	}

	results := executor.Run(ctx, c.workers, names, c.logger,
		func(ctx context.Context, endpoint string) (monitor.Snapshot, error) {
			client := byName[endpoint]
			client.EnsureConnected(ctx)
			return client.Monitor.FullSnapshot(ctx), nil
		})

	for _, r := range results {
		if r.Error != nil {
			c.logger.Warn("scrape failed", "endpoint", r.Endpoint, "error", r.Error)
			ch <- gauge(upDesc, 0, r.Endpoint)
			continue
		}
		collectSnapshot(ch, r.Endpoint, r.Data)
		ch <- gauge(scrapeDurationDesc, r.Duration.Seconds(), r.Endpoint)
	}
}

func collectSnapshot(ch chan<- prometheus.Metric, endpoint string, snap monitor.Snapshot) {
	ch <- gauge(upDesc, boolValue(snap.Connected), endpoint)
	if !snap.Connected {
		return
	}

	ch <- gauge(activeDesc, boolValue(snap.Active), endpoint)
	if !snap.Active {
		return
	}
	ch <- gauge(managerDesc, boolValue(snap.IsManager), endpoint)

	for _, query := range snap.Unavailable {
		ch <- gauge(queryFailedDesc, 1, endpoint, query)
	}

	if !snap.IsManager {
		return
	}

	byStatus := make(map[swarm.NodeStatus]int, len(nodeStatuses))
	for _, node := range snap.Nodes {
		byStatus[node.Status]++
		ch <- gauge(nodeReadyDesc, boolValue(node.IsReady()), endpoint,
			node.ID, node.Hostname, string(node.Role), string(node.Availability))
	}
	for _, status := range nodeStatuses {
		ch <- gauge(nodesDesc, float64(byStatus[status]), endpoint, string(status))
	}

	if snap.ClusterResources != nil {
		ch <- gauge(cpusDesc, snap.ClusterResources.TotalCPUs, endpoint)
		ch <- gauge(memoryDesc, snap.ClusterResources.TotalMemoryGB*bytesPerGB, endpoint)
	}

	for _, svc := range snap.Services {
		ch <- gauge(replicasRunningDesc, float64(svc.ReplicasRunning), endpoint, svc.Name, string(svc.Mode))
		if svc.ReplicasDesired != nil {
			ch <- gauge(replicasDesiredDesc, float64(*svc.ReplicasDesired), endpoint, svc.Name)
		}
		for _, health := range serviceHealths {
			ch <- gauge(serviceHealthDesc, boolValue(svc.Health == health), endpoint, svc.Name, string(health))
		}
	}

	for _, key := range alertKeys(snap.Alerts) {
		ch <- gauge(alertsDesc, float64(key.count), endpoint, string(key.kind), string(key.severity))
	}
}

type alertKey struct {
	kind     swarm.AlertKind
	severity swarm.AlertSeverity
	count    int
}

// alertKeys counts alerts per kind and severity, in a stable order
func alertKeys(alerts []swarm.Alert) []alertKey {
	index := make(map[[2]string]int)
	var keys []alertKey

	for _, a := range alerts {
		k := [2]string{string(a.Kind), string(a.Severity)}
		if i, ok := index[k]; ok {
			keys[i].count++
			continue
		}
		index[k] = len(keys)
		keys = append(keys, alertKey{kind: a.Kind, severity: a.Severity, count: 1})
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		return keys[i].severity < keys[j].severity
	})
	return keys
}

func gauge(desc *prometheus.Desc, value float64, labels ...string) prometheus.Metric {
	return prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, value, labels...)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
