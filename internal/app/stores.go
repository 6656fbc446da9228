package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/api/http/handlers"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/persistence"
	"github.com/spec-kit/lostfound-service/internal/repository"
)

// Stores groups the repositories for the selected backend together with
// the handles needed for readiness checks and shutdown.
type Stores struct {
	Items       repository.ItemRepository
	Users       repository.UserRepository
	Transitions repository.ItemTransitionRepository
	NameCache   repository.NameCache
	Pingers     []handlers.Pinger

	closers []func(context.Context)
}

// MemoryStores returns in-process repositories.
func MemoryStores() *Stores {
	return &Stores{
		Items:       repository.NewMemoryItemRepository(),
		Users:       repository.NewMemoryUserRepository(),
		Transitions: repository.NewMemoryItemTransitionRepository(),
	}
}

// OpenStores connects the backend chosen by cfg.Store.Driver and, when
// enabled, the Redis name cache.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	var stores *Stores

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		stores = MemoryStores()

	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		stores = &Stores{
			Items:       repository.NewItemRepository(pg.Pool),
			Users:       repository.NewUserRepository(pg.Pool),
			Transitions: repository.NewItemTransitionRepository(pg.Pool),
			Pingers:     []handlers.Pinger{pg},
		}
		stores.closers = append(stores.closers, func(context.Context) { pg.Close() })

	case config.StoreDriverMongo:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := mg.EnsureIndexes(ctx); err != nil {
			mg.Close(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		stores = &Stores{
			Items:       repository.NewMongoItemRepository(mg.Database),
			Users:       repository.NewMongoUserRepository(mg.Database),
			Transitions: repository.NewMongoItemTransitionRepository(mg.Database),
			Pingers:     []handlers.Pinger{mg},
		}
		stores.closers = append(stores.closers, mg.Close)

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	if cfg.Redis.Enabled {
		rd := persistence.NewRedis(ctx, cfg.Redis, logger)
		stores.NameCache = repository.NewRedisNameCache(rd.Client, cfg.Redis.NameCacheTTL())
		stores.Pingers = append(stores.Pingers, rd)
		stores.closers = append(stores.closers, func(context.Context) { rd.Close() })
	}

	return stores, nil
}

// Close releases every opened connection in reverse order.
func (s *Stores) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i](ctx)
	}
}
