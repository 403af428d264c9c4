package output

import (
	"io"
	"strings"
	"time"

	"github.com/aryankumar/swarmwatch/internal/executor"
	"github.com/aryankumar/swarmwatch/internal/util"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data as a borderless table
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. An empty name means table.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", util.NewValidationError("output", name, "must be one of table, json, yaml")
	}
}

// Outcome is the per-endpoint result of a fan-out, stripped of its payload type
type Outcome struct {
	Endpoint string
	Data     interface{}
	Error    error
	Duration time.Duration
}

// FromResults converts executor results for the formatters
func FromResults[T any](results []executor.Result[T]) []Outcome {
	outcomes := make([]Outcome, len(results))
	for i, r := range results {
		outcomes[i] = Outcome{
			Endpoint: r.Endpoint,
			Error:    r.Error,
			Duration: r.Duration,
		}
		if r.Error == nil {
			outcomes[i].Data = r.Data
		}
	}
	return outcomes
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatEndpoints outputs the per-endpoint outcome of a fan-out
	FormatEndpoints(w io.Writer, outcomes []Outcome) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with additional columns
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// outcomeDocument is the serialized form shared by the JSON and YAML formatters
func outcomeDocument(outcomes []Outcome) []map[string]interface{} {
	doc := make([]map[string]interface{}, len(outcomes))

	for i, o := range outcomes {
		item := map[string]interface{}{
			"endpoint": o.Endpoint,
			"duration": o.Duration.String(),
		}

		if o.Error != nil {
			item["status"] = "failed"
			item["error"] = o.Error.Error()
		} else {
			item["status"] = "success"
			if o.Data != nil {
				item["data"] = o.Data
			}
		}

		doc[i] = item
	}

	return doc
}
