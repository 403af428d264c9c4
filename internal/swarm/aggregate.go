package swarm

import "math"

// Aggregate sums a node set into cluster-wide totals. CPU and memory are
// accumulated in tenths and hundredths so the result does not depend on the
// order of nodes.
func Aggregate(nodes []Node) ClusterResources {
	var (
		res          ClusterResources
		cpuTenths    int64
		memHundredth int64
	)

	for _, node := range nodes {
		res.TotalNodes++

		if node.IsReady() {
			res.NodesReady++
		} else {
			res.NodesDown++
		}

		if node.Role == RoleManager {
			res.ManagersCount++
		} else {
			res.WorkersCount++
		}

		cpuTenths += int64(math.Round(node.CPUCount * 10))
		memHundredth += int64(math.Round(node.MemoryGB * 100))
	}

	res.TotalCPUs = float64(cpuTenths) / 10
	res.TotalMemoryGB = float64(memHundredth) / 100

	return res
}
