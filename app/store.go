// Package app opens the store selected by configuration. Both the server and
// the CLI go through it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// Store is an opened repository together with the function that releases it.
type Store struct {
	Repo  repositories.TournamentRepository
	Close func() error
}

// OpenStore connects to the configured backend. For SQL backends it also
// creates the schema when createSchema is set.
func OpenStore(ctx context.Context, cfg config.StoreConfig, createSchema bool, logger *slog.Logger) (*Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres, config.BackendSQLite:
		driver := db.DriverPostgres
		if cfg.Backend == config.BackendSQLite {
			driver = db.DriverSQLite
		}
		conn, err := db.Connect(driver, cfg.DatabaseURL, cfg.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", repositories.ErrStoreUnavailable, err)
		}
		if createSchema {
			if err := db.CreateSchema(ctx, conn, driver); err != nil {
				_ = conn.Close()
				return nil, err
			}
			logger.Info("database schema ready", slog.String("driver", driver))
		}

		repo := repositories.NewPostgresTournamentRepository(conn)
		if driver == db.DriverSQLite {
			repo = repositories.NewSQLiteTournamentRepository(conn)
		}
		logger.Info("database connection established", slog.String("driver", driver))
		return &Store{Repo: repo, Close: conn.Close}, nil

	case config.BackendRedis:
		client, err := db.ConnectRedis(cfg.RedisURL, cfg.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", repositories.ErrStoreUnavailable, err)
		}
		logger.Info("redis connection established")
		return &Store{
			Repo:  repositories.NewRedisTournamentRepository(client, cfg.RedisKeyPrefix),
			Close: client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}
