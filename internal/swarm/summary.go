package swarm

import (
	"fmt"
	"strings"
)

// State lines returned instead of a full report
const (
	SummaryNotConnected = "❌ *Swarm:* not connected to Docker"
	SummaryNotActive    = "ℹ️ *Swarm:* not active (standalone mode)"
	SummaryWorkerOnly   = "ℹ️ *Swarm:* active (worker node - limited view)"
)

const maxErrorDetail = 50

// Render composes the human-readable cluster report. It never panics: any
// failure while composing yields a short error-state message instead.
func Render(identity ClusterIdentity, resources ClusterResources, nodes []Node, services []Service) string {
	return recoverSummary(func() string {
		return render(identity, resources, nodes, services)
	})
}

// recoverSummary runs compose and turns a panic into the error-state line
func recoverSummary(compose func() string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ErrorSummary(fmt.Errorf("%v", r))
		}
	}()
	return compose()
}

func render(identity ClusterIdentity, resources ClusterResources, nodes []Node, services []Service) string {
	if state, ok := StateSummary(identity); ok {
		return state
	}

	var sb strings.Builder

	healthy := 0
	for _, svc := range services {
		if svc.Health == ServiceHealthy {
			healthy++
		}
	}

	nodesGlyph := "🟢"
	if resources.NodesDown > 0 {
		nodesGlyph = "🟡"
	}

	servicesGlyph := "🔴"
	switch {
	case healthy == len(services):
		servicesGlyph = "🟢"
	case healthy > 0:
		servicesGlyph = "🟡"
	}

	sb.WriteString("🐝 *Docker Swarm*\n\n")
	fmt.Fprintf(&sb, "%s *Nodes:* %d/%d online (%d managers, %d workers)\n",
		nodesGlyph, resources.NodesReady, resources.TotalNodes, resources.ManagersCount, resources.WorkersCount)
	fmt.Fprintf(&sb, "%s *Services:* %d/%d healthy\n", servicesGlyph, healthy, len(services))
	fmt.Fprintf(&sb, "💻 *Total resources:* %s CPUs, %sGB RAM\n",
		formatCPUs(resources.TotalCPUs), formatMemory(resources.TotalMemoryGB))
	sb.WriteString("\n*Node status:*")

	for _, node := range nodes {
		statusGlyph := "🔴"
		if node.IsReady() {
			statusGlyph = "🟢"
		}
		roleGlyph := "⚙️"
		if node.Role == RoleManager {
			roleGlyph = "👑"
		}
		leader := ""
		if node.IsLeader() {
			leader = " (Leader)"
		}

		fmt.Fprintf(&sb, "\n%s %s %s%s", statusGlyph, roleGlyph, node.Hostname, leader)
		fmt.Fprintf(&sb, "\n   └─ %s CPUs | %sGB RAM | %s",
			formatCPUs(node.CPUCount), formatMemory(node.MemoryGB), node.IPAddress)
	}

	var problems []Service
	for _, svc := range services {
		if svc.Health != ServiceHealthy {
			problems = append(problems, svc)
		}
	}

	if len(problems) > 0 {
		sb.WriteString("\n\n⚠️ *Services with problems:*")
		for _, svc := range problems {
			glyph := "🔴"
			if svc.Health == ServiceDegraded {
				glyph = "🟡"
			}
			fmt.Fprintf(&sb, "\n%s %s (%d/%s)", glyph, svc.Name, svc.ReplicasRunning, svc.DesiredString())
		}
	}

	return strings.TrimSpace(sb.String())
}

// StateSummary returns the one-line summary for identities that cannot
// produce a full report (disconnected, swarm inactive, worker node).
func StateSummary(identity ClusterIdentity) (string, bool) {
	switch {
	case !identity.Connected:
		return SummaryNotConnected, true
	case !identity.Active:
		return SummaryNotActive, true
	case !identity.IsManager():
		return SummaryWorkerOnly, true
	default:
		return "", false
	}
}

// ErrorSummary is the short message used when the report cannot be built
func ErrorSummary(err error) string {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	if r := []rune(detail); len(r) > maxErrorDetail {
		detail = string(r[:maxErrorDetail])
	}
	return "❌ *Swarm:* error collecting data - " + detail
}

func formatCPUs(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func formatMemory(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
