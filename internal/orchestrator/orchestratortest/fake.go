// Package orchestratortest provides an in-memory orchestrator.Client for tests.
package orchestratortest

import (
	"context"
	"fmt"
	"sync"

	"github.com/aryankumar/swarmwatch/internal/orchestrator"
	"github.com/aryankumar/swarmwatch/internal/swarm"
)

// Client serves canned JSON documents. Fields may be changed between calls
// through the setters.
type Client struct {
	mu sync.Mutex

	PingErr     error
	Info        orchestrator.ClusterInfo
	InfoErr     error
	Nodes       []string
	NodesErr    error
	Services    []string
	ServicesErr error
	Tasks       map[string][]string
	TasksErr    map[string]error

	Closed bool
}

var _ orchestrator.Client = (*Client)(nil)

// SetPingErr changes the ping result
func (c *Client) SetPingErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PingErr = err
}

// Ping returns PingErr
func (c *Client) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.PingErr
}

// ClusterInfo returns Info or InfoErr
func (c *Client) ClusterInfo(ctx context.Context) (orchestrator.ClusterInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Info, c.InfoErr
}

// ListNodes parses Nodes
func (c *Client) ListNodes(ctx context.Context) ([]swarm.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.NodesErr != nil {
		return nil, c.NodesErr
	}
	return parse(c.Nodes)
}

// ListServices parses Services
func (c *Client) ListServices(ctx context.Context) ([]swarm.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ServicesErr != nil {
		return nil, c.ServicesErr
	}
	return parse(c.Services)
}

// ListServiceTasks parses the tasks stored under the service ID, or returns
// the error stored for it in TasksErr
func (c *Client) ListServiceTasks(ctx context.Context, serviceID string, filter orchestrator.TaskFilter) ([]swarm.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.TasksErr[serviceID]; err != nil {
		return nil, err
	}
	return parse(c.Tasks[serviceID])
}

// Close marks the client closed
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Closed = true
	return nil
}

// IsClosed reports whether Close was called
func (c *Client) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Closed
}

func parse(docs []string) ([]swarm.Record, error) {
	records := make([]swarm.Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := swarm.ParseRecord([]byte(doc))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Node builds a node document
func Node(id, hostname, role, state, availability string, leader bool) string {
	doc := fmt.Sprintf(`{"ID": %q, "Spec": {"Role": %q, "Availability": %q},
		"Description": {"Hostname": %q, "Resources": {"NanoCPUs": 2000000000, "MemoryBytes": 4294967296},
			"Platform": {"OS": "linux", "Architecture": "x86_64"}, "Engine": {"EngineVersion": "20.10.16"}},
		"Status": {"State": %q, "Addr": "10.0.0.%d"}`, id, role, availability, hostname, state, len(hostname))
	if role == "manager" {
		doc += fmt.Sprintf(`, "ManagerStatus": {"Leader": %t, "Reachability": "reachable"}`, leader)
	}
	return doc + "}"
}

// ReplicatedService builds a replicated service document
func ReplicatedService(id, name string, replicas int) string {
	return fmt.Sprintf(`{"ID": %q, "Spec": {"Name": %q, "Mode": {"Replicated": {"Replicas": %d}},
		"TaskTemplate": {"ContainerSpec": {"Image": "%s:latest@sha256:0123"}}}}`, id, name, replicas, name)
}

// GlobalService builds a global service document
func GlobalService(id, name string) string {
	return fmt.Sprintf(`{"ID": %q, "Spec": {"Name": %q, "Mode": {"Global": {}}}}`, id, name)
}

// RunningTasks builds n running task documents
func RunningTasks(n int) []string {
	tasks := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, `{"DesiredState": "running", "Status": {"State": "running"}}`)
	}
	return tasks
}

// ManagerInfo is the cluster info of an active manager node
func ManagerInfo() orchestrator.ClusterInfo {
	return orchestrator.ClusterInfo{
		Active:         true,
		Role:           swarm.LocalRoleManager,
		NodeID:         "mgr000000001",
		NodeAddr:       "10.0.0.5",
		LocalNodeState: "active",
		ClusterID:      "cluster00001",
		Managers:       1,
		Nodes:          3,
	}
}

// Cluster returns a manager endpoint with three nodes (wrk-2 down) and three
// services (web 2/2, api 1/3 degraded, agent global running)
func Cluster() *Client {
	return &Client{
		Info: ManagerInfo(),
		Nodes: []string{
			Node("n2", "wrk-2", "worker", "down", "active", false),
			Node("n1", "wrk-1", "worker", "ready", "active", false),
			Node("n0", "mgr-1", "manager", "ready", "active", true),
		},
		Services: []string{
			ReplicatedService("s1", "web", 2),
			ReplicatedService("s2", "api", 3),
			GlobalService("s3", "agent"),
		},
		Tasks: map[string][]string{
			"s1": RunningTasks(2),
			"s2": RunningTasks(1),
			"s3": RunningTasks(1),
		},
	}
}
