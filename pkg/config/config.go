// Package config loads plotgrid settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file at [Path] ($XDG_CONFIG_HOME/plotgrid/config.toml)
//  3. PLOTGRID_* environment variables, optionally seeded from a .env file
//  4. command-line flags, applied by the CLI
//
// # Example file
//
//	[store]
//	backend = "sqlite"
//	sqlite_path = "/var/lib/plotgrid/layout.db"
//
//	[editor]
//	data_ref = "_dataPacket"
//	status_duration = "2s"
//
//	[log]
//	level = "debug"
//	file = "/var/log/plotgrid.log"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotgrid/pkg/codegen"
	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/kv"
	"github.com/matzehuels/plotgrid/pkg/palette"
	"github.com/matzehuels/plotgrid/pkg/persist"
)

// AppName names the config and data directories.
const AppName = "plotgrid"

// Config is the complete settings tree.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Editor EditorConfig `toml:"editor"`
	Log    LogConfig    `toml:"log"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	Key      string `toml:"key"`
	MaxBytes int    `toml:"max_bytes"`

	RedisURL    string `toml:"redis_url"`
	RedisPrefix string `toml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	SQLitePath string `toml:"sqlite_path"`
}

// EditorConfig tunes the editor and code generation.
type EditorConfig struct {
	DataRef        string          `toml:"data_ref"`
	StatusDuration Duration        `toml:"status_duration"`
	Step           float64         `toml:"step"`
	GridUnit       float64         `toml:"grid_unit"`
	Palette        []palette.Color `toml:"palette,omitempty"`
}

// LogConfig controls logging. An empty File logs to stderr; otherwise logs
// go to a size-rotated file.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Duration is a time.Duration written as text ("2s", "1500ms") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	data := DataDir()
	return Config{
		Store: StoreConfig{
			Backend:         kv.BackendFile,
			Dir:             filepath.Join(data, "store"),
			Key:             persist.DefaultKey,
			RedisPrefix:     kv.DefaultRedisPrefix,
			MongoDatabase:   kv.DefaultMongoDatabase,
			MongoCollection: kv.DefaultMongoCollection,
			SQLitePath:      filepath.Join(data, AppName+".db"),
		},
		Editor: EditorConfig{
			DataRef:        codegen.DefaultDataRef,
			StatusDuration: Duration{2 * time.Second},
			Step:           geom.Step,
			GridUnit:       geom.GridUnit,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  25,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
	}
}

// Path returns the config file location using the XDG standard
// (~/.config/plotgrid/config.toml).
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DataDir returns the data directory using the XDG standard
// (~/.local/share/plotgrid). It falls back to a relative directory when no
// home directory is known.
func DataDir() string {
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return filepath.Join(home, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path means [Path]; a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks the settings for values the editor cannot work with.
func (c Config) Validate() error {
	backend := strings.ToLower(strings.TrimSpace(c.Store.Backend))
	known := false
	for _, b := range kv.Backends {
		if b == backend {
			known = true
		}
	}
	if !known {
		return errors.New(errors.ErrCodeInvalidBackend,
			"unknown store backend %q (want one of %s)", c.Store.Backend, strings.Join(kv.Backends, ", "))
	}
	if err := errors.ValidateStoreKey(c.Store.Key); err != nil {
		return err
	}
	if c.Store.MaxBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store.max_bytes must not be negative")
	}
	switch backend {
	case kv.BackendFile:
		if err := errors.ValidatePath(c.Store.Dir); err != nil {
			return err
		}
	case kv.BackendSQLite:
		if err := errors.ValidatePath(c.Store.SQLitePath); err != nil {
			return err
		}
	case kv.BackendRedis:
		if err := errors.ValidateURL(c.Store.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	case kv.BackendMongo:
		if err := errors.ValidateURL(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
	}
	if err := errors.ValidateIdentifier(c.Editor.DataRef); err != nil {
		return err
	}
	if c.Editor.Step <= 0 || c.Editor.Step > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "editor.step must be in (0, 1], got %g", c.Editor.Step)
	}
	if c.Editor.GridUnit <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "editor.grid_unit must be positive, got %g", c.Editor.GridUnit)
	}
	if c.Editor.StatusDuration.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "editor.status_duration must not be negative")
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}
	return nil
}

// KV converts the store settings to a [kv.Config].
func (s StoreConfig) KV() kv.Config {
	return kv.Config{
		Backend:         s.Backend,
		Dir:             s.Dir,
		MaxBytes:        s.MaxBytes,
		RedisURL:        s.RedisURL,
		RedisPrefix:     s.RedisPrefix,
		MongoURI:        s.MongoURI,
		MongoDatabase:   s.MongoDatabase,
		MongoCollection: s.MongoCollection,
		SQLitePath:      s.SQLitePath,
	}
}

// ParseLevel returns the configured log level.
func (l LogConfig) ParseLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(l.Level)))
	if err != nil {
		return log.InfoLevel, errors.New(errors.ErrCodeInvalidConfig, "invalid log level %q", l.Level)
	}
	return lvl, nil
}

// Encode writes the configuration as TOML.
func (c Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
