package memory

import (
	"context"
	"sync/atomic"
	"time"

	"hello-world/internal/domain"
)

// Database simulates a database round trip by sleeping.
type Database struct {
	queries atomic.Int64
}

func NewDatabase() *Database {
	return &Database{}
}

func (d *Database) Query(ctx context.Context, call domain.DependencyCall) error {
	d.queries.Add(1)

	if call.Sleep > 0 {
		timer := time.NewTimer(call.Sleep)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if call.Fail {
		return domain.ErrDatabaseFailure
	}

	return nil
}

// Queries returns how many queries were attempted.
func (d *Database) Queries() int64 {
	return d.queries.Load()
}

func (d *Database) Close() error {
	return nil
}
