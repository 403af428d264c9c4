package swarm

import "strconv"

// Role is the role a node plays in the swarm
type Role string

const (
	RoleManager Role = "manager"
	RoleWorker  Role = "worker"
)

// LocalRole is the role of the node this process is attached to
type LocalRole string

const (
	LocalRoleManager LocalRole = "manager"
	LocalRoleWorker  LocalRole = "worker"
	LocalRoleNone    LocalRole = "none"
)

// Availability is the scheduling availability of a node
type Availability string

const (
	AvailabilityActive  Availability = "active"
	AvailabilityPause   Availability = "pause"
	AvailabilityDrain   Availability = "drain"
	AvailabilityUnknown Availability = "unknown"
)

// NodeStatus is the state reported for a node by the managers
type NodeStatus string

const (
	NodeStatusReady        NodeStatus = "ready"
	NodeStatusDown         NodeStatus = "down"
	NodeStatusDisconnected NodeStatus = "disconnected"
	NodeStatusUnknown      NodeStatus = "unknown"
)

// Reachability is the raft connectivity state of a manager
type Reachability string

const (
	ReachabilityReachable   Reachability = "reachable"
	ReachabilityUnreachable Reachability = "unreachable"
	ReachabilityUnknown     Reachability = "unknown"
)

// ServiceMode is the replication mode of a service
type ServiceMode string

const (
	ServiceModeReplicated ServiceMode = "replicated"
	ServiceModeGlobal     ServiceMode = "global"
)

// ServiceHealth classifies a service by its running replicas
type ServiceHealth string

const (
	ServiceHealthy  ServiceHealth = "healthy"
	ServiceDegraded ServiceHealth = "degraded"
	ServiceDown     ServiceHealth = "down"
)

// AlertKind identifies the rule that produced an alert
type AlertKind string

const (
	AlertConnectionError    AlertKind = "CONNECTION_ERROR"
	AlertNodeDown           AlertKind = "NODE_DOWN"
	AlertNodeDrain          AlertKind = "NODE_DRAIN"
	AlertManagerUnreachable AlertKind = "MANAGER_UNREACHABLE"
	AlertServiceDown        AlertKind = "SERVICE_DOWN"
	AlertServiceDegraded    AlertKind = "SERVICE_DEGRADED"
)

// AlertSeverity orders alerts by urgency
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityHigh     AlertSeverity = "high"
	SeverityWarning  AlertSeverity = "warning"
)

// Rank returns a comparable weight for the severity, higher is more urgent.
// Unknown severities rank below warning.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// ClusterIdentity describes the daemon this process talks to, as seen when the
// connection was (re)established. It is a value and is never mutated in place.
type ClusterIdentity struct {
	// Connected reports whether the daemon answered a ping
	Connected bool `json:"connected" yaml:"connected"`

	// Active reports whether the daemon is part of an active swarm
	Active bool `json:"active" yaml:"active"`

	NodeID         string    `json:"node_id" yaml:"node_id"`
	ClusterID      string    `json:"cluster_id" yaml:"cluster_id"`
	LocalRole      LocalRole `json:"local_role" yaml:"local_role"`
	NodeAddr       string    `json:"node_addr,omitempty" yaml:"node_addr,omitempty"`
	LocalNodeState string    `json:"local_node_state,omitempty" yaml:"local_node_state,omitempty"`

	// Managers and Nodes are the daemon-reported cluster sizes
	Managers int `json:"managers" yaml:"managers"`
	Nodes    int `json:"nodes" yaml:"nodes"`
}

// IsManager reports whether cluster-wide queries are allowed from this node
func (c ClusterIdentity) IsManager() bool {
	return c.LocalRole == LocalRoleManager
}

// ManagerInfo is attached to manager nodes only
type ManagerInfo struct {
	IsLeader     bool         `json:"is_leader" yaml:"is_leader"`
	Reachability Reachability `json:"reachability" yaml:"reachability"`
}

// Node is a normalized swarm node
type Node struct {
	ID            string       `json:"id" yaml:"id"`
	Hostname      string       `json:"hostname" yaml:"hostname"`
	Role          Role         `json:"role" yaml:"role"`
	Availability  Availability `json:"availability" yaml:"availability"`
	Status        NodeStatus   `json:"status" yaml:"status"`
	StatusMessage string       `json:"status_message" yaml:"status_message"`
	IPAddress     string       `json:"ip_address" yaml:"ip_address"`
	CPUCount      float64      `json:"cpu_count" yaml:"cpu_count"`
	MemoryGB      float64      `json:"memory_gb" yaml:"memory_gb"`
	EngineVersion string       `json:"engine_version" yaml:"engine_version"`
	OS            string       `json:"os" yaml:"os"`
	Arch          string       `json:"arch" yaml:"arch"`
	ManagerInfo   *ManagerInfo `json:"manager_info,omitempty" yaml:"manager_info,omitempty"`
}

// IsReady reports whether the node status is ready
func (n Node) IsReady() bool {
	return n.Status == NodeStatusReady
}

// IsLeader reports whether the node is the raft leader
func (n Node) IsLeader() bool {
	return n.ManagerInfo != nil && n.ManagerInfo.IsLeader
}

// Service is a normalized swarm service
type Service struct {
	ID              string        `json:"id" yaml:"id"`
	Name            string        `json:"name" yaml:"name"`
	Image           string        `json:"image" yaml:"image"`
	Mode            ServiceMode   `json:"mode" yaml:"mode"`
	ReplicasRunning int           `json:"replicas_running" yaml:"replicas_running"`
	ReplicasDesired *int          `json:"replicas_desired" yaml:"replicas_desired"`
	Health          ServiceHealth `json:"health" yaml:"health"`
	CreatedAt       string        `json:"created_at" yaml:"created_at"`
	UpdatedAt       string        `json:"updated_at" yaml:"updated_at"`
}

// DesiredString renders the desired replica count, "global" for global services
func (s Service) DesiredString() string {
	if s.Mode == ServiceModeGlobal || s.ReplicasDesired == nil {
		return "global"
	}
	return strconv.Itoa(*s.ReplicasDesired)
}

// ClusterResources is the aggregate over a node set
type ClusterResources struct {
	TotalNodes    int     `json:"total_nodes" yaml:"total_nodes"`
	NodesReady    int     `json:"nodes_ready" yaml:"nodes_ready"`
	NodesDown     int     `json:"nodes_down" yaml:"nodes_down"`
	ManagersCount int     `json:"managers_count" yaml:"managers_count"`
	WorkersCount  int     `json:"workers_count" yaml:"workers_count"`
	TotalCPUs     float64 `json:"total_cpus" yaml:"total_cpus"`
	TotalMemoryGB float64 `json:"total_memory_gb" yaml:"total_memory_gb"`
}

// Alert is a single finding produced by an evaluation
type Alert struct {
	Kind     AlertKind     `json:"kind" yaml:"kind"`
	Severity AlertSeverity `json:"severity" yaml:"severity"`
	Subject  string        `json:"subject" yaml:"subject"`
	Message  string        `json:"message" yaml:"message"`
}
