// Package storage provides pluggable key-value persistence backends.
// The application stores its entire state as one serialized blob at a
// single fixed key, so a backend only needs get, put and health checks.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend is a persistent key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error

	// Ping checks backend connectivity for readiness probes.
	Ping(ctx context.Context) error

	Close() error
}
