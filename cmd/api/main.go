package main

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/resume-kb/achievement-log-backend/config"
	"github.com/resume-kb/achievement-log-backend/internal/bootstrap"
	capturerepo "github.com/resume-kb/achievement-log-backend/internal/capture/repository"
	logentryrepo "github.com/resume-kb/achievement-log-backend/internal/logentry/repository"
	"github.com/resume-kb/achievement-log-backend/internal/logging"
)

const serviceName = "achievement-log-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	// Session store: Redis when configured, in-memory otherwise.
	var sessions capturerepo.SessionRepo = capturerepo.NewMemorySessionRepo()
	if cfg.Redis.Addr != "" {
		client, err := bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("redis connect failed", zap.Error(err))
		}
		defer client.Close()
		sessions = capturerepo.NewRedisSessionRepo(client)
		log.Info("session store: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Info("session store: in-memory")
	}

	// Entry index: optional, only when a DSN is configured.
	deps := bootstrap.RouterDeps{
		ServiceName: serviceName,
		Config:      cfg,
		Sessions:    sessions,
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		Log:         log,
	}
	if cfg.Database.DSN != "" {
		pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			log.Fatal("db connect failed", zap.Error(err))
		}
		defer pool.Close()

		if err := logentryrepo.NewEntryIndexRepo(pool).EnsureSchema(ctx); err != nil {
			log.Fatal("entry index schema failed", zap.Error(err))
		}
		deps.DB = pool
		log.Info("entry index: postgres")
	} else {
		log.Info("entry index: disabled")
	}

	router := bootstrap.BuildRouter(deps)

	log.Info("listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
