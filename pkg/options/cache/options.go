// Package cache provides prompt cache configuration options.
package cache

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	redisopts "github.com/rigel-labs/chatrag/pkg/options/redis"
)

// Options contains prompt cache configuration.
type Options struct {
	// Enabled toggles the Redis-backed prompt cache.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is the cache entry lifetime.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix is prepended to every cache key.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`

	// Redis contains the Redis connection configuration.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Enabled:   true,
		TTL:       1 * time.Hour,
		KeyPrefix: "chatrag:prompt:",
		Redis:     redisopts.NewOptions(),
	}
}

// AddFlags adds flags for cache options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "cache.enabled", o.Enabled, "Enable prompt result cache")
	fs.DurationVar(&o.TTL, "cache.ttl", o.TTL, "Cache TTL duration")
	fs.StringVar(&o.KeyPrefix, "cache.key-prefix", o.KeyPrefix, "Cache key prefix")
	o.Redis.AddFlags(fs)
}

// Validate validates the cache options.
func (o *Options) Validate() error {
	if o.Enabled && o.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when cache is enabled")
	}
	if o.Enabled && o.KeyPrefix == "" {
		return fmt.Errorf("cache.key-prefix cannot be empty when cache is enabled")
	}
	if o.Redis != nil {
		return o.Redis.Validate()
	}
	return nil
}

// Complete completes the cache options with defaults.
func (o *Options) Complete() error {
	if o.Redis == nil {
		o.Redis = redisopts.NewOptions()
	}
	return nil
}
