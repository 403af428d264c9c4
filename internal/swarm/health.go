package swarm

import (
	"fmt"
	"strings"
)

// Evaluate applies the node and service rules and returns the resulting alerts:
// node alerts in node order, then service alerts in service order. A subject
// may produce several alerts; healthy subjects produce none.
func Evaluate(nodes []Node, services []Service) []Alert {
	alerts := make([]Alert, 0)

	for _, node := range nodes {
		alerts = append(alerts, nodeAlerts(node)...)
	}

	for _, svc := range services {
		if alert, ok := serviceAlert(svc); ok {
			alerts = append(alerts, alert)
		}
	}

	return alerts
}

func nodeAlerts(node Node) []Alert {
	var alerts []Alert

	if node.Status != NodeStatusReady {
		alerts = append(alerts, Alert{
			Kind:     AlertNodeDown,
			Severity: SeverityCritical,
			Subject:  node.Hostname,
			Message:  fmt.Sprintf("Node '%s' is %s", node.Hostname, strings.ToUpper(string(node.Status))),
		})
	}

	if node.Availability == AvailabilityDrain {
		alerts = append(alerts, Alert{
			Kind:     AlertNodeDrain,
			Severity: SeverityWarning,
			Subject:  node.Hostname,
			Message:  fmt.Sprintf("Node '%s' is in DRAIN mode", node.Hostname),
		})
	}

	if node.ManagerInfo != nil && node.ManagerInfo.Reachability == ReachabilityUnreachable {
		alerts = append(alerts, Alert{
			Kind:     AlertManagerUnreachable,
			Severity: SeverityCritical,
			Subject:  node.Hostname,
			Message:  fmt.Sprintf("Manager '%s' is UNREACHABLE", node.Hostname),
		})
	}

	return alerts
}

func serviceAlert(svc Service) (Alert, bool) {
	switch svc.Health {
	case ServiceDown:
		return Alert{
			Kind:     AlertServiceDown,
			Severity: SeverityCritical,
			Subject:  svc.Name,
			Message:  fmt.Sprintf("Service '%s' is DOWN (0 replicas running)", svc.Name),
		}, true
	case ServiceDegraded:
		return Alert{
			Kind:     AlertServiceDegraded,
			Severity: SeverityHigh,
			Subject:  svc.Name,
			Message:  fmt.Sprintf("Service '%s' is degraded (%d/%s replicas)", svc.Name, svc.ReplicasRunning, svc.DesiredString()),
		}, true
	default:
		return Alert{}, false
	}
}

// ConnectionAlert is the single alert reported when the daemon cannot be reached.
// It replaces every node and service alert for that evaluation.
func ConnectionAlert(subject string, err error) Alert {
	msg := "Cannot connect to the Docker daemon"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return Alert{
		Kind:     AlertConnectionError,
		Severity: SeverityCritical,
		Subject:  subject,
		Message:  msg,
	}
}

// Kinds lists the kind of every alert, preserving order
func Kinds(alerts []Alert) []AlertKind {
	kinds := make([]AlertKind, 0, len(alerts))
	for _, a := range alerts {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

// AtLeast returns the alerts whose severity ranks at or above min
func AtLeast(alerts []Alert, min AlertSeverity) []Alert {
	filtered := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Severity.Rank() >= min.Rank() {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
