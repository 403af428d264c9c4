package monitor

import (
	"errors"
	"fmt"

	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/aryankumar/swarmwatch/internal/util"
)

// Health status values of a snapshot
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Names used in Snapshot.Unavailable for failed queries
const (
	QueryInfo     = "info"
	QueryNodes    = "nodes"
	QueryServices = "services"
)

// SwarmInfo is the general cluster membership report
type SwarmInfo struct {
	Active    bool   `json:"active" yaml:"active"`
	NodeID    string `json:"node_id,omitempty" yaml:"node_id,omitempty"`
	IsManager bool   `json:"is_manager,omitempty" yaml:"is_manager,omitempty"`
	ClusterID string `json:"cluster_id,omitempty" yaml:"cluster_id,omitempty"`
	Managers  int    `json:"managers,omitempty" yaml:"managers,omitempty"`
	Nodes     int    `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// LocalNode describes the node the monitored daemon runs on. Available on
// managers and workers alike.
type LocalNode struct {
	NodeID            string `json:"node_id" yaml:"node_id"`
	IsManager         bool   `json:"is_manager" yaml:"is_manager"`
	NodeAddr          string `json:"node_addr" yaml:"node_addr"`
	LocalNodeState    string `json:"local_node_state" yaml:"local_node_state"`
	ClusterID         string `json:"cluster_id" yaml:"cluster_id"`
	ManagersInCluster int    `json:"managers_in_cluster" yaml:"managers_in_cluster"`
	NodesInCluster    int    `json:"nodes_in_cluster" yaml:"nodes_in_cluster"`
}

// HealthSummary condenses an alert list for the heartbeat payload
type HealthSummary struct {
	Status     string            `json:"status" yaml:"status"`
	AlertCount int               `json:"alert_count" yaml:"alert_count"`
	Alerts     []swarm.AlertKind `json:"alerts" yaml:"alerts"`
}

// NewHealthSummary builds the summary of alerts
func NewHealthSummary(alerts []swarm.Alert) HealthSummary {
	status := StatusHealthy
	if len(alerts) > 0 {
		status = StatusUnhealthy
	}
	return HealthSummary{
		Status:     status,
		AlertCount: len(alerts),
		Alerts:     swarm.Kinds(alerts),
	}
}

// Snapshot is the full heartbeat payload for one evaluation pass.
// Cluster-wide fields are only set when the monitored node is a manager.
type Snapshot struct {
	Active           bool                    `json:"active" yaml:"active"`
	Connected        bool                    `json:"connected" yaml:"connected"`
	IsManager        bool                    `json:"is_manager" yaml:"is_manager"`
	LocalNode        *LocalNode              `json:"local_node,omitempty" yaml:"local_node,omitempty"`
	ClusterResources *swarm.ClusterResources `json:"cluster_resources,omitempty" yaml:"cluster_resources,omitempty"`
	Nodes            []swarm.Node            `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Services         []swarm.Service         `json:"services,omitempty" yaml:"services,omitempty"`
	Health           *HealthSummary          `json:"health,omitempty" yaml:"health,omitempty"`

	// Unavailable names the queries that failed while taking the snapshot,
	// so an empty list can be told apart from a failed one
	Unavailable []string `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`

	// Alerts carries the full alert records behind Health
	Alerts []swarm.Alert `json:"-" yaml:"-"`
}

// TaskQueryError reports a failed task listing for one service
type TaskQueryError struct {
	Service string
	Err     error
}

// Error implements the error interface
func (e *TaskQueryError) Error() string {
	return fmt.Sprintf("tasks of service %q: %v", e.Service, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *TaskQueryError) Unwrap() error {
	return e.Err
}

// Query names the failed query as it appears in Snapshot.Unavailable
func (e *TaskQueryError) Query() string {
	return "tasks:" + e.Service
}

// IsPartial reports whether err holds only task query failures, so the
// service list that came with it is complete
func IsPartial(err error) bool {
	if err == nil {
		return false
	}

	var merr *util.MultiError
	if !errors.As(err, &merr) {
		var taskErr *TaskQueryError
		return errors.As(err, &taskErr)
	}

	for _, e := range merr.Errors {
		var taskErr *TaskQueryError
		if !errors.As(e, &taskErr) {
			return false
		}
	}
	return len(merr.Errors) > 0
}
