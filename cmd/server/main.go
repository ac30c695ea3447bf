package main

import (
	"context"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/cache"
	"github.com/researchmatch/researchmatch-server/internal/config"
	"github.com/researchmatch/researchmatch-server/internal/db"
	"github.com/researchmatch/researchmatch-server/internal/logger"
	"github.com/researchmatch/researchmatch-server/internal/server"
	"github.com/researchmatch/researchmatch-server/internal/service/authsvc"
	"github.com/researchmatch/researchmatch-server/internal/service/discover"
	"github.com/researchmatch/researchmatch-server/internal/service/notifications"
	"github.com/researchmatch/researchmatch-server/internal/service/profiles"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(cfg, database, redisCache, log)

	registrars := []server.Registrar{
		authsvc.NewRegistrar(appCtx),
		profiles.NewRegistrar(appCtx),
		discover.NewRegistrar(appCtx),
		notifications.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, log, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
