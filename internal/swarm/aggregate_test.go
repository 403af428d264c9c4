package swarm

import "testing"

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  ClusterResources
	}{
		{
			name:  "empty node set",
			nodes: nil,
			want:  ClusterResources{},
		},
		{
			name: "three nodes with one down",
			nodes: []Node{
				{Hostname: "mgr-1", Role: RoleManager, Status: NodeStatusReady, CPUCount: 4, MemoryGB: 7.78},
				{Hostname: "wrk-1", Role: RoleWorker, Status: NodeStatusReady, CPUCount: 2, MemoryGB: 3.85},
				{Hostname: "wrk-2", Role: RoleWorker, Status: NodeStatusDown, CPUCount: 2, MemoryGB: 3.85},
			},
			want: ClusterResources{
				TotalNodes:    3,
				NodesReady:    2,
				NodesDown:     1,
				ManagersCount: 1,
				WorkersCount:  2,
				TotalCPUs:     8,
				TotalMemoryGB: 15.48,
			},
		},
		{
			name: "unknown and disconnected count as down",
			nodes: []Node{
				{Role: RoleWorker, Status: NodeStatusUnknown},
				{Role: RoleWorker, Status: NodeStatusDisconnected},
				{Role: RoleManager, Status: NodeStatusReady},
			},
			want: ClusterResources{
				TotalNodes:    3,
				NodesReady:    1,
				NodesDown:     2,
				ManagersCount: 1,
				WorkersCount:  2,
			},
		},
		{
			name: "fractional resources are rounded",
			nodes: []Node{
				{Role: RoleWorker, Status: NodeStatusReady, CPUCount: 0.1, MemoryGB: 0.01},
				{Role: RoleWorker, Status: NodeStatusReady, CPUCount: 0.2, MemoryGB: 0.02},
			},
			want: ClusterResources{
				TotalNodes:    2,
				NodesReady:    2,
				WorkersCount:  2,
				TotalCPUs:     0.3,
				TotalMemoryGB: 0.03,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.nodes); got != tt.want {
				t.Errorf("Aggregate() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}
