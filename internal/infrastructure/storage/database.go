package storage

import (
	"context"

	"hello-world/internal/domain"
)

// Database is the downstream database the /complex route depends on.
type Database interface {
	Query(ctx context.Context, call domain.DependencyCall) error
	Close() error
}
