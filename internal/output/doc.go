// Package output renders swarmwatch results as tables, JSON or YAML.
//
// Every formatter implements Format for a single value and FormatEndpoints
// for the per-endpoint outcome of a fan-out. The table formatter knows the
// column layouts of the swarm row types (NodeRow, ServiceRow, AlertRow,
// ResourceRow, InfoRow, StatusRow) and of config.EndpointInfo; other values
// get a generic key/value rendering.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatTable, output.WithWide(true))
//	rows := []output.NodeRow{{Endpoint: "prod", Node: node}}
//	formatter.Format(os.Stdout, rows)
//
// # Color Support
//
// Colors are enabled only for TTY outputs and can be disabled with
// WithNoColor(true). Node status, node availability, service health and alert
// severity are colored green, yellow or red by how bad they are.
package output
