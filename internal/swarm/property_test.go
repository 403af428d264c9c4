package swarm

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genNode() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(),
		gen.OneConstOf(NodeStatusReady, NodeStatusDown, NodeStatusDisconnected, NodeStatusUnknown),
		gen.IntRange(0, 640),
		gen.IntRange(0, 51200),
	).Map(func(values []interface{}) Node {
		role := RoleWorker
		if values[0].(bool) {
			role = RoleManager
		}
		return Node{
			Role:     role,
			Status:   values[1].(NodeStatus),
			CPUCount: float64(values[2].(int)) / 10,
			MemoryGB: float64(values[3].(int)) / 100,
		}
	})
}

func TestProperty_ClassifyService(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("replicated classification follows running vs desired", prop.ForAll(
		func(running, desired int) bool {
			got := ClassifyService(ServiceModeReplicated, running, &desired)
			switch {
			case desired == 0 || running >= desired:
				return got == ServiceHealthy
			case running == 0:
				return got == ServiceDown
			default:
				return got == ServiceDegraded
			}
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
	))

	properties.Property("global services are healthy iff something runs", prop.ForAll(
		func(running int) bool {
			got := ClassifyService(ServiceModeGlobal, running, nil)
			if running > 0 {
				return got == ServiceHealthy
			}
			return got == ServiceDown
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

func TestProperty_AggregateOrderIndependent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("aggregate ignores node order", prop.ForAll(
		func(nodes []Node, seed int64) bool {
			shuffled := append([]Node(nil), nodes...)
			r := rand.New(rand.NewSource(seed))
			r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			return Aggregate(nodes) == Aggregate(shuffled)
		},
		gen.SliceOf(genNode()),
		gen.Int64(),
	))

	properties.Property("ready plus down equals total", prop.ForAll(
		func(nodes []Node) bool {
			res := Aggregate(nodes)
			return res.NodesReady+res.NodesDown == res.TotalNodes &&
				res.ManagersCount+res.WorkersCount == res.TotalNodes &&
				res.TotalNodes == len(nodes)
		},
		gen.SliceOf(genNode()),
	))

	properties.TestingRun(t)
}

func TestProperty_EvaluateHealthyProducesNothing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("ready active nodes never alert", prop.ForAll(
		func(names []string) bool {
			nodes := make([]Node, 0, len(names))
			for _, name := range names {
				nodes = append(nodes, Node{Hostname: name, Status: NodeStatusReady, Availability: AvailabilityActive})
			}
			return len(Evaluate(nodes, nil)) == 0
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
