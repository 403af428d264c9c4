package orchestrator

import (
	"context"

	"github.com/aryankumar/swarmwatch/internal/swarm"
)

// Client is the read-only view of a container orchestrator that the monitor
// consumes. List operations return raw records; normalization happens in the
// swarm package.
type Client interface {
	// Ping verifies that the daemon answers. Every monitor operation calls it first.
	Ping(ctx context.Context) error

	// ClusterInfo reports the swarm membership of the daemon's own node
	ClusterInfo(ctx context.Context) (ClusterInfo, error)

	// ListNodes returns every node known to the cluster. Requires a manager.
	ListNodes(ctx context.Context) ([]swarm.Record, error)

	// ListServices returns every service in the cluster. Requires a manager.
	ListServices(ctx context.Context) ([]swarm.Record, error)

	// ListServiceTasks returns the tasks of one service matching filter
	ListServiceTasks(ctx context.Context, serviceID string, filter TaskFilter) ([]swarm.Record, error)

	// Close releases the underlying transport
	Close() error
}

// TaskFilter narrows a task listing
type TaskFilter struct {
	// DesiredState keeps only tasks with this desired state; empty means all
	DesiredState string
}

// ClusterInfo is the daemon's description of its own swarm membership
type ClusterInfo struct {
	Active         bool
	Role           swarm.LocalRole
	NodeID         string
	NodeAddr       string
	LocalNodeState string
	ClusterID      string
	Managers       int
	Nodes          int
}
