package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aryankumar/swarmwatch/internal/orchestrator"
	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/aryankumar/swarmwatch/internal/util"
)

// Monitor evaluates one Docker Swarm endpoint. Every public call pings the
// daemon first and then pulls fresh data; nothing is cached between calls.
// The identity taken at connect time is the only retained state and is
// replaced only by Reconnect.
type Monitor struct {
	client orchestrator.Client
	logger *slog.Logger

	mu       sync.RWMutex
	identity swarm.ClusterIdentity
}

// New creates a monitor and establishes the initial identity
func New(ctx context.Context, client orchestrator.Client, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Monitor{
		client: client,
		logger: logger,
	}
	m.Reconnect(ctx)

	return m
}

// Reconnect pings the daemon, re-reads its swarm membership and replaces the
// stored identity. A failure leaves a disconnected identity.
func (m *Monitor) Reconnect(ctx context.Context) swarm.ClusterIdentity {
	identity := swarm.ClusterIdentity{LocalRole: swarm.LocalRoleNone}

	if err := m.client.Ping(ctx); err != nil {
		m.logger.Error("failed to connect to docker", "error", err)
		m.setIdentity(identity)
		return identity
	}
	identity.Connected = true

	info, err := m.client.ClusterInfo(ctx)
	if err != nil {
		m.logger.Error("failed to read swarm info", "error", err)
		m.setIdentity(identity)
		return identity
	}

	identity.Active = info.Active
	identity.LocalRole = info.Role
	identity.NodeID = info.NodeID
	identity.ClusterID = info.ClusterID
	identity.NodeAddr = info.NodeAddr
	identity.LocalNodeState = info.LocalNodeState
	identity.Managers = info.Managers
	identity.Nodes = info.Nodes

	if identity.Active {
		m.logger.Info("docker swarm active", "node_id", identity.NodeID, "role", identity.LocalRole)
	} else {
		m.logger.Info("docker swarm not active on this host")
	}

	m.setIdentity(identity)
	return identity
}

func (m *Monitor) setIdentity(identity swarm.ClusterIdentity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = identity
}

// Identity returns the identity established by the last connect
func (m *Monitor) Identity() swarm.ClusterIdentity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

// Close releases the orchestrator client
func (m *Monitor) Close() error {
	return m.client.Close()
}

// observe returns the stored identity with Connected reflecting a fresh ping
func (m *Monitor) observe(ctx context.Context) (swarm.ClusterIdentity, error) {
	identity := m.Identity()

	if err := m.client.Ping(ctx); err != nil {
		m.logger.Warn("docker not reachable", "error", err)
		identity.Connected = false
		return identity, err
	}

	return identity, nil
}

func canQueryCluster(identity swarm.ClusterIdentity) bool {
	return identity.Connected && identity.Active && identity.IsManager()
}

// SwarmInfo reports cluster membership and the daemon's node and manager counts
func (m *Monitor) SwarmInfo(ctx context.Context) SwarmInfo {
	identity, _ := m.observe(ctx)
	if !identity.Connected || !identity.Active {
		return SwarmInfo{Active: false}
	}

	info, err := m.client.ClusterInfo(ctx)
	if err != nil {
		m.logger.Error("failed to read swarm info", "error", err)
		return SwarmInfo{Active: false, Error: err.Error()}
	}

	return SwarmInfo{
		Active:    true,
		NodeID:    info.NodeID,
		IsManager: identity.IsManager(),
		ClusterID: info.ClusterID,
		Managers:  info.Managers,
		Nodes:     info.Nodes,
	}
}

// LocalNode reports the node the daemon runs on. ok is false when the daemon
// is unreachable, not in a swarm, or the info query fails.
func (m *Monitor) LocalNode(ctx context.Context) (LocalNode, bool) {
	identity, _ := m.observe(ctx)
	if !identity.Connected || !identity.Active {
		return LocalNode{}, false
	}

	node, err := m.localNode(ctx, identity)
	if err != nil {
		return LocalNode{}, false
	}
	return node, true
}

func (m *Monitor) localNode(ctx context.Context, identity swarm.ClusterIdentity) (LocalNode, error) {
	info, err := m.client.ClusterInfo(ctx)
	if err != nil {
		m.logger.Error("failed to read local node info", "error", err)
		return LocalNode{}, err
	}

	return LocalNode{
		NodeID:            info.NodeID,
		IsManager:         identity.IsManager(),
		NodeAddr:          info.NodeAddr,
		LocalNodeState:    info.LocalNodeState,
		ClusterID:         info.ClusterID,
		ManagersInCluster: info.Managers,
		NodesInCluster:    info.Nodes,
	}, nil
}

// Nodes lists the cluster nodes, managers first. Empty when the daemon is
// unreachable, not a manager, or the query fails.
func (m *Monitor) Nodes(ctx context.Context) []swarm.Node {
	nodes, _ := m.NodesE(ctx)
	return nodes
}

// NodesE is Nodes with the query error exposed. Role and connectivity gates
// yield an empty list and no error.
func (m *Monitor) NodesE(ctx context.Context) ([]swarm.Node, error) {
	identity, _ := m.observe(ctx)
	if !canQueryCluster(identity) {
		m.logNotManager(identity, "nodes")
		return []swarm.Node{}, nil
	}
	return m.nodes(ctx)
}

func (m *Monitor) nodes(ctx context.Context) ([]swarm.Node, error) {
	raws, err := m.client.ListNodes(ctx)
	if err != nil {
		m.logger.Error("failed to list nodes", "error", err)
		return []swarm.Node{}, err
	}

	nodes := swarm.NormalizeNodes(raws)
	m.logger.Debug("listed swarm nodes", "count", len(nodes))
	return nodes, nil
}

// Services lists the cluster services by name. Empty when the daemon is
// unreachable, not a manager, or the services query fails. A service whose
// task query fails is kept with no running tasks.
func (m *Monitor) Services(ctx context.Context) []swarm.Service {
	services, _ := m.ServicesE(ctx)
	return services
}

// ServicesE is Services with the query error exposed. When only task queries
// failed the list is still complete and the error satisfies IsPartial.
func (m *Monitor) ServicesE(ctx context.Context) ([]swarm.Service, error) {
	identity, _ := m.observe(ctx)
	if !canQueryCluster(identity) {
		m.logNotManager(identity, "services")
		return []swarm.Service{}, nil
	}
	return m.services(ctx)
}

func (m *Monitor) services(ctx context.Context) ([]swarm.Service, error) {
	raws, err := m.client.ListServices(ctx)
	if err != nil {
		m.logger.Error("failed to list services", "error", err)
		return []swarm.Service{}, err
	}

	services := make([]swarm.Service, 0, len(raws))
	var taskErrs []error
	for _, raw := range raws {
		id := raw.String("ID", "")

		tasks, err := m.client.ListServiceTasks(ctx, id, orchestrator.TaskFilter{DesiredState: swarm.TaskStateRunning})
		if err != nil {
			name := raw.String("Spec.Name", id)
			m.logger.Error("failed to list service tasks", "service", name, "error", err)
			taskErrs = append(taskErrs, &TaskQueryError{Service: name, Err: err})
			tasks = nil
		}

		services = append(services, swarm.NormalizeService(raw, tasks))
	}

	swarm.SortServices(services)
	m.logger.Debug("listed swarm services", "count", len(services), "task_failures", len(taskErrs))
	return services, util.CombineErrors(taskErrs...)
}

func (m *Monitor) logNotManager(identity swarm.ClusterIdentity, what string) {
	if identity.Connected && identity.Active && !identity.IsManager() {
		m.logger.Debug("not a manager node, cannot list cluster "+what, "node_id", identity.NodeID)
	}
}

// ClusterResources aggregates the current node list
func (m *Monitor) ClusterResources(ctx context.Context) swarm.ClusterResources {
	return swarm.Aggregate(m.Nodes(ctx))
}

// CheckHealth evaluates the cluster. An unreachable daemon yields a single
// connection alert; inactive swarms and worker nodes yield none.
func (m *Monitor) CheckHealth(ctx context.Context) []swarm.Alert {
	identity, err := m.observe(ctx)
	if !identity.Connected {
		return []swarm.Alert{swarm.ConnectionAlert("docker", err)}
	}
	if !canQueryCluster(identity) {
		return []swarm.Alert{}
	}

	nodes, _ := m.nodes(ctx)
	services, _ := m.services(ctx)

	alerts := swarm.Evaluate(nodes, services)
	if len(alerts) > 0 {
		m.logger.Warn("swarm problems detected", "count", len(alerts))
	}
	return alerts
}

// SummaryText renders the human-readable report. State lines are returned
// for unreachable, inactive and worker nodes; a failed query yields the
// error-state line.
func (m *Monitor) SummaryText(ctx context.Context) string {
	identity, _ := m.observe(ctx)
	if state, ok := swarm.StateSummary(identity); ok {
		return state
	}

	nodes, err := m.nodes(ctx)
	if err != nil {
		return swarm.ErrorSummary(err)
	}
	services, err := m.services(ctx)
	if err != nil && !IsPartial(err) {
		return swarm.ErrorSummary(err)
	}

	return swarm.Render(identity, swarm.Aggregate(nodes), nodes, services)
}

// FullSnapshot takes one complete evaluation pass and assembles the heartbeat payload
func (m *Monitor) FullSnapshot(ctx context.Context) Snapshot {
	identity, err := m.observe(ctx)

	if !identity.Connected {
		alerts := []swarm.Alert{swarm.ConnectionAlert("docker", err)}
		health := NewHealthSummary(alerts)
		return Snapshot{Health: &health, Alerts: alerts}
	}

	if !identity.Active {
		return Snapshot{Connected: true}
	}

	snap := Snapshot{
		Active:    true,
		Connected: true,
		IsManager: identity.IsManager(),
	}

	if local, err := m.localNode(ctx, identity); err == nil {
		snap.LocalNode = &local
	} else {
		snap.Unavailable = append(snap.Unavailable, QueryInfo)
	}

	if !identity.IsManager() {
		return snap
	}

	nodes, err := m.nodes(ctx)
	if err != nil {
		snap.Unavailable = append(snap.Unavailable, QueryNodes)
	}
	services, err := m.services(ctx)
	if err != nil {
		snap.Unavailable = append(snap.Unavailable, queryNames(err)...)
	}

	resources := swarm.Aggregate(nodes)
	alerts := swarm.Evaluate(nodes, services)
	health := NewHealthSummary(alerts)

	snap.ClusterResources = &resources
	snap.Nodes = nodes
	snap.Services = services
	snap.Health = &health
	snap.Alerts = alerts

	return snap
}

func queryNames(err error) []string {
	var merr *util.MultiError
	if !errors.As(err, &merr) {
		return []string{queryName(err)}
	}

	names := make([]string, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		names = append(names, queryName(e))
	}
	return names
}

func queryName(err error) string {
	var taskErr *TaskQueryError
	if errors.As(err, &taskErr) {
		return taskErr.Query()
	}
	return QueryServices
}
