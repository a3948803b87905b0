package postgres

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hello-world/internal/domain"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Query holds the connection for call.Sleep on the server side and, when
// call.Fail is set, runs a statement postgres rejects.
func (d *Database) Query(ctx context.Context, call domain.DependencyCall) error {
	db := d.db.WithContext(ctx)

	if call.Sleep > 0 {
		if err := db.Exec("SELECT pg_sleep(?)", call.Sleep.Seconds()).Error; err != nil {
			return domain.NewDatabaseError("sleep", err)
		}
	}

	if call.Fail {
		if err := db.Exec("SELECT 1/0").Error; err != nil {
			return domain.NewDatabaseError("query", err)
		}
		return domain.ErrDatabaseFailure
	}

	if err := db.Exec("SELECT 1").Error; err != nil {
		return domain.NewDatabaseError("query", err)
	}

	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
