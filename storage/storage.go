// Package storage provides the key-value backends that hold per-visitor tracking state.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Store is a string key-value store. Get reports ok=false for a missing key.
// Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Keys lists every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Closer is implemented by backends holding a connection.
type Closer interface {
	Close() error
}

// Close closes s when it holds resources.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

// ValidateBackend reports whether name is a known backend.
func ValidateBackend(name string) error {
	switch strings.ToLower(name) {
	case BackendMemory, BackendSQLite, BackendMongo, BackendRedis:
		return nil
	}
	return fmt.Errorf("storage: unknown backend %q", name)
}
