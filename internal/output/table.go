package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/monitor"
	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/aryankumar/swarmwatch/internal/util"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a borderless, tab-padded table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table. Swarm row slices get their
// own column layouts; anything else falls back to a generic rendering.
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	colors := NewColorScheme(w, f.options.NoColor)

	switch v := data.(type) {
	case []NodeRow:
		return f.formatNodes(w, v, colors)
	case []ServiceRow:
		return f.formatServices(w, v, colors)
	case []AlertRow:
		return f.formatAlerts(w, v, colors)
	case []ResourceRow:
		return f.formatResources(w, v)
	case []InfoRow:
		return f.formatInfo(w, v)
	case []StatusRow:
		return f.formatStatus(w, v, colors)
	case []config.EndpointInfo:
		return f.formatEndpointList(w, v, colors)
	case map[string]interface{}:
		return f.formatMap(f.createTable(w), v)
	case []map[string]interface{}:
		return f.formatMapSlice(f.createTable(w), v)
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatEndpoints outputs the per-endpoint outcome of a fan-out
func (f *TableFormatter) FormatEndpoints(w io.Writer, outcomes []Outcome) error {
	if len(outcomes) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"ENDPOINT", "STATUS", "DURATION"}
	if f.options.Wide {
		headers = append(headers, "ERROR")
	}
	f.setHeader(table, headers, colors)

	for _, o := range outcomes {
		table.Append(f.formatOutcomeRow(o, colors))
	}

	table.Render()

	f.printSummary(w, outcomes, colors)

	return nil
}

// formatOutcomeRow formats a single outcome as a table row
func (f *TableFormatter) formatOutcomeRow(o Outcome, colors *ColorScheme) []string {
	status := "Success"
	if o.Error != nil {
		status = "Failed"
	}

	row := []string{
		colors.Endpoint("%s", o.Endpoint),
		colors.StatusColor(o.Error != nil)("%s", status),
		colors.Duration("%s", o.Duration.String()),
	}

	if f.options.Wide {
		errText := ""
		if o.Error != nil {
			errText = truncate(o.Error.Error(), 60)
		}
		row = append(row, errText)
	}

	return row
}

func (f *TableFormatter) formatNodes(w io.Writer, rows []NodeRow, colors *ColorScheme) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No nodes found")
		return nil
	}

	table := f.createTable(w)

	headers := []string{"ENDPOINT", "HOSTNAME", "ID", "ROLE", "STATUS", "AVAILABILITY", "MANAGER STATUS", "ADDRESS", "CPUS", "MEMORY", "ENGINE"}
	if f.options.Wide {
		headers = append(headers, "OS", "ARCH", "MESSAGE")
	}
	f.setHeader(table, headers, colors)

	for _, r := range rows {
		row := []string{
			colors.Endpoint("%s", r.Endpoint),
			r.Hostname,
			r.ID,
			string(r.Role),
			colors.NodeStatus(r.Status),
			colors.Availability(r.Availability),
			managerStatus(r.Node),
			orNone(r.IPAddress),
			formatCPUs(r.CPUCount),
			formatGB(r.MemoryGB),
			orNone(r.EngineVersion),
		}
		if f.options.Wide {
			row = append(row, orNone(r.OS), orNone(r.Arch), truncate(r.StatusMessage, 40))
		}
		table.Append(row)
	}

	table.Render()
	fmt.Fprintf(w, "\nTotal: %d nodes\n", len(rows))

	return nil
}

func (f *TableFormatter) formatServices(w io.Writer, rows []ServiceRow, colors *ColorScheme) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No services found")
		return nil
	}

	table := f.createTable(w)

	headers := []string{"ENDPOINT", "NAME", "ID", "MODE", "REPLICAS", "HEALTH", "IMAGE"}
	if f.options.Wide {
		headers = append(headers, "CREATED", "UPDATED")
	}
	f.setHeader(table, headers, colors)

	for _, r := range rows {
		row := []string{
			colors.Endpoint("%s", r.Endpoint),
			r.Name,
			r.ID,
			string(r.Mode),
			fmt.Sprintf("%d/%s", r.ReplicasRunning, r.DesiredString()),
			colors.ServiceHealth(r.Health),
			r.Image,
		}
		if f.options.Wide {
			row = append(row, orNone(r.CreatedAt), orNone(r.UpdatedAt))
		}
		table.Append(row)
	}

	table.Render()
	fmt.Fprintf(w, "\nTotal: %d services\n", len(rows))

	return nil
}

func (f *TableFormatter) formatAlerts(w io.Writer, rows []AlertRow, colors *ColorScheme) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, colors.Success("%s", "No alerts"))
		return nil
	}

	table := f.createTable(w)
	f.setHeader(table, []string{"ENDPOINT", "SEVERITY", "KIND", "SUBJECT", "MESSAGE"}, colors)

	for _, r := range rows {
		table.Append([]string{
			colors.Endpoint("%s", r.Endpoint),
			colors.Severity(r.Severity),
			string(r.Kind),
			r.Subject,
			r.Message,
		})
	}

	table.Render()
	fmt.Fprintf(w, "\nTotal: %d alerts (%s)\n", len(rows), severityBreakdown(rows))

	return nil
}

func (f *TableFormatter) formatResources(w io.Writer, rows []ResourceRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No resources found")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeader(table, []string{"ENDPOINT", "NODES", "READY", "DOWN", "MANAGERS", "WORKERS", "CPUS", "MEMORY"}, colors)

	for _, r := range rows {
		table.Append([]string{
			colors.Endpoint("%s", r.Endpoint),
			strconv.Itoa(r.TotalNodes),
			strconv.Itoa(r.NodesReady),
			strconv.Itoa(r.NodesDown),
			strconv.Itoa(r.ManagersCount),
			strconv.Itoa(r.WorkersCount),
			formatCPUs(r.TotalCPUs),
			formatGB(r.TotalMemoryGB),
		})
	}

	table.Render()
	return nil
}

func (f *TableFormatter) formatInfo(w io.Writer, rows []InfoRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No endpoints found")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeader(table, []string{"ENDPOINT", "ACTIVE", "MANAGER", "NODE ID", "CLUSTER ID", "MANAGERS", "NODES"}, colors)

	for _, r := range rows {
		row := []string{
			colors.Endpoint("%s", r.Endpoint),
			strconv.FormatBool(r.Active),
			strconv.FormatBool(r.IsManager),
			orNone(r.NodeID),
			orNone(r.ClusterID),
			strconv.Itoa(r.Managers),
			strconv.Itoa(r.Nodes),
		}
		if !r.Active {
			row[5], row[6] = "-", "-"
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

func (f *TableFormatter) formatStatus(w io.Writer, rows []StatusRow, colors *ColorScheme) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No endpoints found")
		return nil
	}

	table := f.createTable(w)
	f.setHeader(table, []string{"ENDPOINT", "CONNECTED", "SWARM", "ROLE", "NODES", "SERVICES", "HEALTH", "ALERTS"}, colors)

	for _, r := range rows {
		swarmState := "inactive"
		if r.Active {
			swarmState = "active"
		}

		nodes := "-"
		if r.Role == string(swarm.LocalRoleManager) {
			nodes = fmt.Sprintf("%d/%d", r.NodesReady, r.NodesTotal)
		}

		health := r.Status
		switch health {
		case monitor.StatusHealthy:
			health = colors.Success("%s", health)
		case monitor.StatusUnhealthy:
			health = colors.Error("%s", health)
		}

		table.Append([]string{
			colors.Endpoint("%s", r.Endpoint),
			colors.StatusColor(!r.Connected)("%t", r.Connected),
			swarmState,
			r.Role,
			nodes,
			strconv.Itoa(r.Services),
			health,
			strconv.Itoa(r.Alerts),
		})
	}

	table.Render()
	return nil
}

func (f *TableFormatter) formatEndpointList(w io.Writer, endpoints []config.EndpointInfo, colors *ColorScheme) error {
	if len(endpoints) == 0 {
		fmt.Fprintln(w, "No endpoints configured")
		return nil
	}

	table := f.createTable(w)

	headers := []string{"CURRENT", "NAME", "HOST", "TLS", "ENABLED"}
	if f.options.Wide {
		headers = append(headers, "LABELS")
	}
	f.setHeader(table, headers, colors)

	for _, e := range endpoints {
		current := ""
		name := e.Name
		if e.Current {
			current = "*"
			name = colors.Success("%s", name)
		}
		if e.Alias != "" && e.Alias != e.Name {
			name = fmt.Sprintf("%s (%s)", name, colors.Endpoint("%s", e.Alias))
		}

		host := util.ShortHost(e.Host)
		if f.options.Wide {
			host = e.Host
		}

		row := []string{current, name, truncate(host, 50), strconv.FormatBool(e.TLS), strconv.FormatBool(e.Enabled)}
		if f.options.Wide {
			row = append(row, formatLabels(e.Labels))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// formatMapSlice formats a slice of maps as a table
func (f *TableFormatter) formatMapSlice(table *tablewriter.Table, data []map[string]interface{}) error {
	if len(data) == 0 {
		return nil
	}

	keys := make([]string, 0, len(data[0]))
	for k := range data[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if !f.options.NoHeaders {
		headers := make([]string, len(keys))
		for i, k := range keys {
			headers[i] = strings.ToUpper(k)
		}
		table.SetHeader(headers)
	}

	for _, item := range data {
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = fmt.Sprintf("%v", item[k])
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

func (f *TableFormatter) setHeader(table *tablewriter.Table, headers []string, colors *ColorScheme) {
	if f.options.NoHeaders {
		return
	}
	if colors.Disabled {
		table.SetHeader(headers)
		return
	}

	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = colors.Header("%s", h)
	}
	table.SetHeader(colored)
}

// createTable creates a borderless table with tab padding
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the outcomes
func (f *TableFormatter) printSummary(w io.Writer, outcomes []Outcome, colors *ColorScheme) {
	var (
		failed  int
		slowest time.Duration
	)
	for _, o := range outcomes {
		if o.Error != nil {
			failed++
		}
		if o.Duration > slowest {
			slowest = o.Duration
		}
	}
	succeeded := len(outcomes) - failed

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := colors.Success("%d successful", succeeded)

	failedText := fmt.Sprintf("%d failed", failed)
	if failed > 0 {
		failedText = colors.Error("%s", failedText)
	}

	durationText := colors.Duration("max=%s", slowest.Round(time.Microsecond))

	fmt.Fprintf(w, "%s, %s, %s\n", successText, failedText, durationText)
}

func managerStatus(n swarm.Node) string {
	if n.ManagerInfo == nil {
		return ""
	}
	if n.ManagerInfo.IsLeader {
		return "Leader"
	}
	switch n.ManagerInfo.Reachability {
	case swarm.ReachabilityReachable:
		return "Reachable"
	case swarm.ReachabilityUnreachable:
		return "Unreachable"
	default:
		return "Unknown"
	}
}

func severityBreakdown(rows []AlertRow) string {
	counts := make(map[swarm.AlertSeverity]int)
	for _, r := range rows {
		counts[r.Severity]++
	}

	parts := make([]string, 0, 3)
	for _, sev := range []swarm.AlertSeverity{swarm.SeverityCritical, swarm.SeverityHigh, swarm.SeverityWarning} {
		if counts[sev] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
		}
	}
	return strings.Join(parts, ", ")
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return "<none>"
	}

	pairs := make([]string, 0, len(labels))
	for k, v := range labels {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func formatCPUs(cpus float64) string {
	return strconv.FormatFloat(cpus, 'f', 1, 64)
}

func formatGB(gb float64) string {
	return strconv.FormatFloat(gb, 'f', 2, 64) + "GB"
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
