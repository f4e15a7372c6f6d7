package config

import (
	"fmt"

	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/trials"
)

// Trial store backends.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// LoggingConfig defines settings for trial record storage and rotation.
type LoggingConfig struct {
	// Backend selects the store type: "jsonl", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "trials.db"
		case BackendJSONL:
			c.Path = "trials.jsonl"
		}
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case BackendNone:
		return nil
	case BackendJSONL, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown backend %s", model.ErrInvalidConfiguration, c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("%w: path is required", model.ErrInvalidConfiguration)
	}
	return nil
}

// OpenStore opens the configured trial store. The "none" backend returns a
// nil store.
func (c LoggingConfig) OpenStore() (trials.Store, error) {
	switch c.Backend {
	case BackendJSONL:
		s, err := trials.NewJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := trials.NewSQLiteStore(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %s", model.ErrInvalidConfiguration, c.Backend)
	}
}
