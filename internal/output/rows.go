package output

import (
	"github.com/aryankumar/swarmwatch/internal/monitor"
	"github.com/aryankumar/swarmwatch/internal/swarm"
)

// NodeRow is a node tagged with the endpoint it was listed from
type NodeRow struct {
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	swarm.Node `yaml:",inline"`
}

// ServiceRow is a service tagged with its endpoint
type ServiceRow struct {
	Endpoint      string `json:"endpoint" yaml:"endpoint"`
	swarm.Service `yaml:",inline"`
}

// AlertRow is an alert tagged with its endpoint
type AlertRow struct {
	Endpoint    string `json:"endpoint" yaml:"endpoint"`
	swarm.Alert `yaml:",inline"`
}

// ResourceRow is a cluster aggregate tagged with its endpoint
type ResourceRow struct {
	Endpoint               string `json:"endpoint" yaml:"endpoint"`
	swarm.ClusterResources `yaml:",inline"`
}

// InfoRow is a swarm membership report tagged with its endpoint
type InfoRow struct {
	Endpoint          string `json:"endpoint" yaml:"endpoint"`
	monitor.SwarmInfo `yaml:",inline"`
}

// StatusRow condenses one snapshot into a single status line
type StatusRow struct {
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	Connected  bool   `json:"connected" yaml:"connected"`
	Active     bool   `json:"active" yaml:"active"`
	Role       string `json:"role" yaml:"role"`
	NodesReady int    `json:"nodes_ready" yaml:"nodes_ready"`
	NodesTotal int    `json:"nodes_total" yaml:"nodes_total"`
	Services   int    `json:"services" yaml:"services"`
	Status     string `json:"status" yaml:"status"`
	Alerts     int    `json:"alerts" yaml:"alerts"`
}

// NewStatusRow builds the status line of a snapshot
func NewStatusRow(endpoint string, snap monitor.Snapshot) StatusRow {
	row := StatusRow{
		Endpoint:  endpoint,
		Connected: snap.Connected,
		Active:    snap.Active,
		Role:      string(swarm.LocalRoleNone),
		Services:  len(snap.Services),
		Status:    "-",
	}

	if snap.Active {
		row.Role = string(swarm.LocalRoleWorker)
		if snap.IsManager {
			row.Role = string(swarm.LocalRoleManager)
		}
	}
	if snap.ClusterResources != nil {
		row.NodesReady = snap.ClusterResources.NodesReady
		row.NodesTotal = snap.ClusterResources.TotalNodes
	}
	if snap.Health != nil {
		row.Status = snap.Health.Status
		row.Alerts = snap.Health.AlertCount
	}

	return row
}

// SnapshotRow is a full heartbeat payload tagged with its endpoint
type SnapshotRow struct {
	Endpoint         string `json:"endpoint" yaml:"endpoint"`
	monitor.Snapshot `yaml:",inline"`
}
