package kv

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNull   = "null"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Backends lists every backend name in display order.
var Backends = []string{BackendFile, BackendMemory, BackendNull, BackendRedis, BackendMongo, BackendSQLite}

// Config selects and configures a backend.
type Config struct {
	Backend string

	// File backend.
	Dir      string
	MaxBytes int

	// Redis backend.
	RedisURL    string
	RedisPrefix string

	// Mongo backend.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// SQLite backend.
	SQLitePath string
}

// Open constructs the backend named by cfg.Backend. An empty name selects
// the file backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file backend: directory is required")
		}
		s, err := NewFileStore(cfg.Dir, WithMaxBytes(cfg.MaxBytes))
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendNull:
		return NewNullStore(), nil
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis backend: url is required")
		}
		prefix := cfg.RedisPrefix
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		s, err := NewRedisStore(ctx, cfg.RedisURL, prefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("mongo backend: uri is required")
		}
		s, err := NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend: path is required")
		}
		s, err := NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want one of %s)", cfg.Backend, strings.Join(Backends, ", "))
	}
}
