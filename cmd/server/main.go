package main

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/swapvault/escrow-engine/internal/adapter/cache"
	"github.com/swapvault/escrow-engine/internal/adapter/in_memory"
	"github.com/swapvault/escrow-engine/internal/adapter/pg"
	"github.com/swapvault/escrow-engine/internal/api/http"
	"github.com/swapvault/escrow-engine/internal/asset"
	"github.com/swapvault/escrow-engine/internal/config"
	"github.com/swapvault/escrow-engine/internal/core"
	"github.com/swapvault/escrow-engine/internal/custody"
	"github.com/swapvault/escrow-engine/internal/port"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)
	log := logrus.WithField("component", "escrow")

	var repo port.Repository
	if cfg.PgDSN != "" {
		pgRepo, err := pg.NewPgRepo(ctx, cfg.PgDSN)
		if err != nil {
			log.Fatalf("failed to connect to Postgres: %v", err)
		}
		defer pgRepo.Close(ctx)
		repo = pgRepo
		log.Info("using postgres order store")
	} else {
		repo = in_memory.NewMemoryRepo()
		log.Info("using in-memory order store")
	}

	var (
		orderCache port.Cache
		events     port.Publisher
	)
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CacheTTL)
		orderCache = redisCache
		events = redisCache
		log.Info("using redis cache and event channel")
	} else {
		orderCache = in_memory.NewCache()
		events = in_memory.NewBus()
	}

	// Dev asset registry; production deployments plug in chain-backed
	// ledgers behind the same interfaces.
	registry := asset.NewMemoryRegistry()
	mover := custody.NewMover(registry, common.HexToAddress(cfg.Escrow))
	engine := core.NewEngine(common.HexToAddress(cfg.Owner), mover, repo, orderCache, events, log)

	server := http.NewHTTPServer(engine)
	log.Infof("starting HTTP server on %s", cfg.HTTPAddr)
	if err := server.Run(cfg.HTTPAddr, cfg.RateLimit); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
