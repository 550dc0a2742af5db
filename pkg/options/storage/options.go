// Package storage provides blob storage configuration options.
package storage

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Backend identifies a blob storage backend.
type Backend string

const (
	// BackendLocal stores raw files on the local filesystem.
	BackendLocal Backend = "local"
	// BackendSQLite stores raw files in a SQLite database.
	BackendSQLite Backend = "sqlite"
)

// Options contains blob storage configuration.
type Options struct {
	// Backend selects the blob storage backend.
	Backend Backend `json:"backend" mapstructure:"backend"`

	// Dir is the directory for the local backend.
	Dir string `json:"dir" mapstructure:"dir"`

	// DSN is the SQLite data source name for the sqlite backend.
	DSN string `json:"dsn" mapstructure:"dsn"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Backend: BackendLocal,
		Dir:     "documents",
		DSN:     "chatrag.db",
	}
}

// AddFlags adds flags for storage options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar((*string)(&o.Backend), "storage.backend", string(o.Backend), "Blob storage backend (local, sqlite)")
	fs.StringVar(&o.Dir, "storage.dir", o.Dir, "Directory for the local storage backend")
	fs.StringVar(&o.DSN, "storage.dsn", o.DSN, "SQLite DSN for the sqlite storage backend")
}

// Validate validates the storage options.
func (o *Options) Validate() error {
	switch o.Backend {
	case BackendLocal:
		if o.Dir == "" {
			return fmt.Errorf("storage.dir cannot be empty for the local backend")
		}
	case BackendSQLite:
		if o.DSN == "" {
			return fmt.Errorf("storage.dsn cannot be empty for the sqlite backend")
		}
	default:
		return fmt.Errorf("storage.backend must be 'local' or 'sqlite'")
	}
	return nil
}

// Complete completes the storage options with defaults.
func (o *Options) Complete() error {
	return nil
}
