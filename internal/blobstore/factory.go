package blobstore

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Open builds the configured Store. Callers own Close.
func Open(ctx context.Context, backend, sqlitePath, postgresURL string) (Store, error) {
	switch backend {
	case BackendSQLite:
		store, err := NewSQLiteStore(sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		slog.InfoContext(ctx, "Initialized sqlite blob store", "path", sqlitePath)
		return store, nil
	case BackendPostgres:
		store, err := NewPostgresStore(ctx, postgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		slog.InfoContext(ctx, "Initialized postgres blob store")
		return store, nil
	case BackendMemory:
		slog.InfoContext(ctx, "Initialized memory blob store")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported blob store backend: %s", backend)
	}
}
