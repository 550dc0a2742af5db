// Package options contains flags and options for initializing the chatrag server.
package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	chatrag "github.com/rigel-labs/chatrag/internal/chatrag"
	cacheopts "github.com/rigel-labs/chatrag/pkg/options/cache"
	logopts "github.com/rigel-labs/chatrag/pkg/options/logger"
	retrievalopts "github.com/rigel-labs/chatrag/pkg/options/retrieval"
	httpopts "github.com/rigel-labs/chatrag/pkg/options/server/http"
	storageopts "github.com/rigel-labs/chatrag/pkg/options/storage"
	tracingopts "github.com/rigel-labs/chatrag/pkg/options/tracing"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// CacheOptions contains prompt cache configuration.
	CacheOptions *cacheopts.Options `json:"cache" mapstructure:"cache"`

	// RetrievalOptions contains chunking and retrieval configuration.
	RetrievalOptions *retrievalopts.Options `json:"retrieval" mapstructure:"retrieval"`

	// StorageOptions contains blob storage configuration.
	StorageOptions *storageopts.Options `json:"storage" mapstructure:"storage"`

	// TracingOptions contains tracing configuration.
	TracingOptions *tracingopts.Options `json:"tracing" mapstructure:"tracing"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions:      httpopts.NewOptions(),
		LogOptions:       logopts.NewOptions(),
		CacheOptions:     cacheopts.NewOptions(),
		RetrievalOptions: retrievalopts.NewOptions(),
		StorageOptions:   storageopts.NewOptions(),
		TracingOptions:   tracingopts.NewOptions(),
		ShutdownTimeout:  30 * time.Second,
	}
}

// AddFlags adds all server flags to the given FlagSet.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.HTTPOptions.AddFlags(fs)
	o.LogOptions.AddFlags(fs)
	o.CacheOptions.AddFlags(fs)
	o.RetrievalOptions.AddFlags(fs)
	o.StorageOptions.AddFlags(fs)
	o.TracingOptions.AddFlags(fs)

	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.HTTPOptions.Complete(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := o.LogOptions.Complete(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := o.CacheOptions.Complete(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := o.RetrievalOptions.Complete(); err != nil {
		return fmt.Errorf("retrieval: %w", err)
	}
	if err := o.StorageOptions.Complete(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := o.TracingOptions.Complete(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// Validate checks that all options are valid.
func (o *ServerOptions) Validate() error {
	if err := o.HTTPOptions.Validate(); err != nil {
		return err
	}
	if err := o.LogOptions.Validate(); err != nil {
		return err
	}
	if err := o.CacheOptions.Validate(); err != nil {
		return err
	}
	if err := o.RetrievalOptions.Validate(); err != nil {
		return err
	}
	if err := o.StorageOptions.Validate(); err != nil {
		return err
	}
	if err := o.TracingOptions.Validate(); err != nil {
		return err
	}
	if o.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown-timeout must be positive")
	}
	return nil
}

// Config builds the server runtime configuration from the options.
func (o *ServerOptions) Config() (*chatrag.Config, error) {
	return &chatrag.Config{
		HTTPOptions:      o.HTTPOptions,
		LogOptions:       o.LogOptions,
		CacheOptions:     o.CacheOptions,
		RetrievalOptions: o.RetrievalOptions,
		StorageOptions:   o.StorageOptions,
		TracingOptions:   o.TracingOptions,
		ShutdownTimeout:  o.ShutdownTimeout,
	}, nil
}
