package player

import (
	"context"
	"fmt"
	"io"

	"tablejack/internal/config"
	"tablejack/internal/database"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the repository selected by STORE_DRIVER. The closer releases
// the underlying connection.
func Open(ctx context.Context, cfg *config.Config) (Repository, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteRepository(db.DB), db, nil

	case config.DriverRedis:
		rdb, err := database.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisRepository(rdb), rdb, nil

	case config.DriverMemory:
		return NewMemoryRepository(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
