package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/matzehuels/plotgrid/pkg/errors"
)

// EnvPrefix prefixes every environment variable plotgrid reads.
const EnvPrefix = "PLOTGRID_"

// LoadDotEnv loads variables from .env files into the process environment
// without overriding variables that are already set. Missing files are
// skipped. With no arguments it reads ./.env.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", strings.Join(existing, ", "))
	}
	return nil
}

type lookupFunc func(string) (string, bool)

// applyEnv overrides settings from PLOTGRID_* variables. Empty values are
// ignored.
func (c *Config) applyEnv(lookup lookupFunc) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	strs := map[string]*string{
		"STORE_BACKEND":    &c.Store.Backend,
		"STORE_DIR":        &c.Store.Dir,
		"STORE_KEY":        &c.Store.Key,
		"REDIS_URL":        &c.Store.RedisURL,
		"REDIS_PREFIX":     &c.Store.RedisPrefix,
		"MONGO_URI":        &c.Store.MongoURI,
		"MONGO_DATABASE":   &c.Store.MongoDatabase,
		"MONGO_COLLECTION": &c.Store.MongoCollection,
		"SQLITE_PATH":      &c.Store.SQLitePath,
		"DATA_REF":         &c.Editor.DataRef,
		"LOG_LEVEL":        &c.Log.Level,
		"LOG_FILE":         &c.Log.File,
	}
	for name, dst := range strs {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"STORE_MAX_BYTES": &c.Store.MaxBytes,
	}
	for name, dst := range ints {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidConfig, "%s%s: not an integer: %q", EnvPrefix, name, v)
			}
			*dst = n
		}
	}

	floats := map[string]*float64{
		"STEP":      &c.Editor.Step,
		"GRID_UNIT": &c.Editor.GridUnit,
	}
	for name, dst := range floats {
		if v, ok := get(name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidConfig, "%s%s: not a number: %q", EnvPrefix, name, v)
			}
			*dst = f
		}
	}

	if v, ok := get("STATUS_DURATION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%sSTATUS_DURATION: %v", EnvPrefix, err)
		}
		c.Editor.StatusDuration = Duration{d}
	}
	return nil
}
