package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/api/http/handlers"
	"github.com/spec-kit/ticket-classifier/internal/config"
	"github.com/spec-kit/ticket-classifier/internal/persistence"
	"github.com/spec-kit/ticket-classifier/internal/repository"
)

// storage bundles the repositories of the configured driver.
type storage struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	health  handlers.Pinger
	close   func()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if migrate {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		pool := pg.PoolHandle()
		return &storage{
			tickets: repository.NewTicketRepository(pool),
			users:   repository.NewUserRepository(pool),
			health:  pg,
			close:   pg.Close,
		}, nil

	case config.StorageDriverSQLite:
		db, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := persistence.RunSQLiteMigrations(ctx, db.DB, logger); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &storage{
			tickets: repository.NewSQLiteTicketRepository(db.DB),
			users:   repository.NewSQLiteUserRepository(db.DB),
			health:  db,
			close:   db.Close,
		}, nil

	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		tickets := repository.NewMemoryTicketRepository()
		return &storage{
			tickets: tickets,
			users:   repository.NewMemoryUserRepository(),
			health:  tickets,
			close:   func() {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
