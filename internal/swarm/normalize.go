package swarm

import (
	"math"
	"net"
	"sort"
	"strings"

	"github.com/aryankumar/swarmwatch/internal/util"
)

const (
	nanoCPUsPerCPU = 1e9
	bytesPerGB     = 1 << 30

	// TaskStateRunning is both the desired and the observed state of a live task
	TaskStateRunning = "running"
)

// NormalizeNode converts a raw node record into a Node. Missing fields take
// their documented defaults; it never fails.
func NormalizeNode(raw Record) Node {
	node := Node{
		ID:            util.ShortID(raw.String("ID", "")),
		Hostname:      raw.String("Description.Hostname", "unknown"),
		Role:          parseRole(raw.String("Spec.Role", "")),
		Availability:  parseAvailability(raw.String("Spec.Availability", "")),
		Status:        parseNodeStatus(raw.String("Status.State", "")),
		StatusMessage: raw.String("Status.Message", ""),
		IPAddress:     HostFromAddr(raw.String("Status.Addr", "")),
		CPUCount:      roundTo(nonNegative(raw.Float("Description.Resources.NanoCPUs"))/nanoCPUsPerCPU, 1),
		MemoryGB:      roundTo(nonNegative(raw.Float("Description.Resources.MemoryBytes"))/bytesPerGB, 2),
		EngineVersion: raw.String("Description.Engine.EngineVersion", ""),
		OS:            raw.String("Description.Platform.OS", ""),
		Arch:          raw.String("Description.Platform.Architecture", ""),
	}

	// manager info follows the role; a stray ManagerStatus on a worker is ignored
	if node.Role == RoleManager {
		status, _ := raw.Object("ManagerStatus")
		node.ManagerInfo = &ManagerInfo{
			IsLeader:     status.Bool("Leader"),
			Reachability: parseReachability(status.String("Reachability", "")),
		}
	}

	return node
}

// NormalizeNodes normalizes every record and returns the nodes in display order
func NormalizeNodes(raws []Record) []Node {
	nodes := make([]Node, 0, len(raws))
	for _, raw := range raws {
		nodes = append(nodes, NormalizeNode(raw))
	}
	SortNodes(nodes)
	return nodes
}

// SortNodes orders managers before workers, then by hostname
func SortNodes(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		mi, mj := nodes[i].Role == RoleManager, nodes[j].Role == RoleManager
		if mi != mj {
			return mi
		}
		return nodes[i].Hostname < nodes[j].Hostname
	})
}

// NormalizeService converts a raw service record and the tasks listed for it
// into a Service, classifying its health.
func NormalizeService(raw Record, tasks []Record) Service {
	svc := Service{
		ID:              util.ShortID(raw.String("ID", "")),
		Name:            raw.String("Spec.Name", ""),
		Image:           StripDigest(raw.String("Spec.TaskTemplate.ContainerSpec.Image", "unknown")),
		Mode:            ServiceModeReplicated,
		ReplicasRunning: CountRunningTasks(tasks),
		CreatedAt:       raw.String("CreatedAt", ""),
		UpdatedAt:       raw.String("UpdatedAt", ""),
	}

	if raw.Has("Spec.Mode.Global") {
		svc.Mode = ServiceModeGlobal
	} else {
		desired := raw.Int("Spec.Mode.Replicated.Replicas", 1)
		if desired < 0 {
			desired = 0
		}
		svc.ReplicasDesired = &desired
	}

	svc.Health = ClassifyService(svc.Mode, svc.ReplicasRunning, svc.ReplicasDesired)
	return svc
}

// SortServices orders services by name
func SortServices(services []Service) {
	sort.SliceStable(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})
}

// CountRunningTasks counts tasks that are meant to run and are observed running
func CountRunningTasks(tasks []Record) int {
	running := 0
	for _, task := range tasks {
		if task.String("DesiredState", "") == TaskStateRunning &&
			task.String("Status.State", "") == TaskStateRunning {
			running++
		}
	}
	return running
}

// ClassifyService derives service health from its mode and replica counts.
// desired is ignored for global services.
func ClassifyService(mode ServiceMode, running int, desired *int) ServiceHealth {
	if mode == ServiceModeGlobal {
		if running > 0 {
			return ServiceHealthy
		}
		return ServiceDown
	}

	want := 0
	if desired != nil {
		want = *desired
	}

	switch {
	case running >= want:
		return ServiceHealthy
	case running > 0:
		return ServiceDegraded
	default:
		return ServiceDown
	}
}

// StripDigest removes a content digest ("@sha256:...") from an image reference
func StripDigest(image string) string {
	if idx := strings.Index(image, "@sha256:"); idx != -1 {
		return image[:idx]
	}
	return image
}

// HostFromAddr returns the host part of an "address:port" string. A bare
// address (IPv4 or IPv6) is returned unchanged.
func HostFromAddr(addr string) string {
	if addr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func parseRole(s string) Role {
	if strings.EqualFold(s, string(RoleManager)) {
		return RoleManager
	}
	return RoleWorker
}

func parseAvailability(s string) Availability {
	switch a := Availability(strings.ToLower(s)); a {
	case AvailabilityActive, AvailabilityPause, AvailabilityDrain:
		return a
	default:
		return AvailabilityUnknown
	}
}

func parseNodeStatus(s string) NodeStatus {
	switch st := NodeStatus(strings.ToLower(s)); st {
	case NodeStatusReady, NodeStatusDown, NodeStatusDisconnected:
		return st
	default:
		return NodeStatusUnknown
	}
}

func parseReachability(s string) Reachability {
	switch r := Reachability(strings.ToLower(s)); r {
	case ReachabilityReachable, ReachabilityUnreachable:
		return r
	default:
		return ReachabilityUnknown
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
