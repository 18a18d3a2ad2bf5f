// Package storage persists the small amount of client state that must
// survive restarts: the session token, the theme preference and the cart.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// Well-known keys.
const (
	KeyAuthToken = "auth_token"
	KeyTheme     = "theme"
	KeyCart      = "cart"
)

// Drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Storage is a string key/value store. Get reports found=false for missing
// keys; Remove of a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a storage driver.
type Options struct {
	Driver string

	// Path of the state file for the file driver.
	Path string

	// Redis settings. Namespace prefixes every key so several terminals can
	// share one server without seeing each other's sessions.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Namespace     string
	DialTimeout   time.Duration
}

// Open returns the storage driver described by opts.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case DriverFile, "":
		if opts.Path == "" {
			return nil, fmt.Errorf("file storage requires a path")
		}
		return NewFileStore(filepath.Clean(opts.Path)), nil
	case DriverRedis:
		return NewRedisStore(ctx, opts)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q (supported: file, redis, memory)", opts.Driver)
	}
}
