// Package tracing provides tracing configuration options.
package tracing

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ExporterType identifies a span exporter.
type ExporterType string

const (
	// ExporterStdout writes spans to standard output.
	ExporterStdout ExporterType = "stdout"
	// ExporterNoop discards all spans.
	ExporterNoop ExporterType = "noop"
)

// Options contains tracing configuration.
type Options struct {
	// Enabled toggles tracing.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Exporter selects the span exporter.
	Exporter ExporterType `json:"exporter" mapstructure:"exporter"`

	// SampleRatio is the trace sampling ratio in [0, 1].
	SampleRatio float64 `json:"sample-ratio" mapstructure:"sample-ratio"`

	// ServiceName is recorded on the trace resource.
	ServiceName string `json:"service-name" mapstructure:"service-name"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Enabled:     false,
		Exporter:    ExporterStdout,
		SampleRatio: 1.0,
		ServiceName: "chatrag",
	}
}

// AddFlags adds flags for tracing options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "tracing.enabled", o.Enabled, "Enable tracing")
	fs.StringVar((*string)(&o.Exporter), "tracing.exporter", string(o.Exporter), "Span exporter (stdout, noop)")
	fs.Float64Var(&o.SampleRatio, "tracing.sample-ratio", o.SampleRatio, "Trace sampling ratio (0-1)")
	fs.StringVar(&o.ServiceName, "tracing.service-name", o.ServiceName, "Service name recorded on traces")
}

// Validate validates the tracing options.
func (o *Options) Validate() error {
	if o.Exporter != ExporterStdout && o.Exporter != ExporterNoop {
		return fmt.Errorf("tracing.exporter must be 'stdout' or 'noop'")
	}
	if o.SampleRatio < 0 || o.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample-ratio must be within [0, 1]")
	}
	return nil
}

// Complete completes the tracing options with defaults.
func (o *Options) Complete() error {
	if o.ServiceName == "" {
		o.ServiceName = "chatrag"
	}
	return nil
}
