// Package retrieval provides retrieval pipeline configuration options.
package retrieval

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Options contains chunking and retrieval configuration.
type Options struct {
	// ChunkSize is the target size of text chunks in runes.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between consecutive chunks in runes.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// TopK is the number of chunks included in a composed prompt.
	TopK int `json:"top-k" mapstructure:"top-k"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         3,
	}
}

// AddFlags adds flags for retrieval options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.ChunkSize, "retrieval.chunk-size", o.ChunkSize, "Target chunk size in runes")
	fs.IntVar(&o.ChunkOverlap, "retrieval.chunk-overlap", o.ChunkOverlap, "Overlap between consecutive chunks in runes")
	fs.IntVar(&o.TopK, "retrieval.top-k", o.TopK, "Number of chunks included in a composed prompt")
}

// Validate validates the retrieval options.
func (o *Options) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("retrieval.chunk-size must be positive")
	}
	if o.ChunkOverlap < 0 {
		return fmt.Errorf("retrieval.chunk-overlap cannot be negative")
	}
	if o.TopK <= 0 {
		return fmt.Errorf("retrieval.top-k must be positive")
	}
	return nil
}

// Complete completes the retrieval options with defaults.
func (o *Options) Complete() error {
	return nil
}
