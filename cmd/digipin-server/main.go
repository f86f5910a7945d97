package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohammed-shakir/digipin/internal/cache/memstore"
	"github.com/mohammed-shakir/digipin/internal/cache/redisstore"
	"github.com/mohammed-shakir/digipin/internal/cache/tiered"
	"github.com/mohammed-shakir/digipin/internal/core/config"
	"github.com/mohammed-shakir/digipin/internal/core/observability"
	"github.com/mohammed-shakir/digipin/internal/core/server"
	"github.com/mohammed-shakir/digipin/internal/logger"
	gridmapper "github.com/mohammed-shakir/digipin/internal/mapper/grid"
	h3mapper "github.com/mohammed-shakir/digipin/internal/mapper/h3"
	"github.com/mohammed-shakir/digipin/internal/metrics"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	envFile := flag.String("env", ".env", "dotenv file applied before reading the environment")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		return 1
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Component: "digipin-server",
		Version:   Version,
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	appLog.Info("starting digipin server",
		"addr", cfg.Addr,
		"version", Version,
		"grid_max_cells", cfg.GridMaxCells,
		"cache", cfg.Cache.Enabled,
		"redis", cfg.Redis.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{
		Grid: gridmapper.New(cfg.GridMaxCells),
		H3:   h3mapper.New(),
	}

	if cfg.Metrics.Enabled {
		p := metrics.Init(metrics.Config{
			Enabled: true,
			Addr:    cfg.Metrics.Addr,
			Path:    cfg.Metrics.Path,
			Build: metrics.BuildInfo{
				Version:   Version,
				Revision:  os.Getenv("BUILD_REVISION"),
				Branch:    os.Getenv("BUILD_BRANCH"),
				BuildDate: os.Getenv("BUILD_DATE"),
			},
		})
		observability.Init(p.Registerer(), true)
		observability.ExposeBuildInfo(Version)
		deps.Metrics = p.Handler()
		go func() {
			if err := p.Serve(ctx, appLog); err != nil {
				appLog.Error("metrics server exited", "err", err)
			}
		}()
	} else {
		observability.Init(nil, false)
	}

	if cfg.Cache.Enabled {
		tiers := []tiered.Tier{{Name: "mem", Store: memstore.New(cfg.Cache.LRUSize, cfg.Cache.TTL)}}
		if cfg.Redis.Enabled {
			rc, err := redisstore.New(ctx, cfg.Redis.Addr,
				redisstore.WithKeyPrefix(cfg.Redis.KeyPrefix),
				redisstore.WithPoolSize(cfg.Redis.PoolSize),
				redisstore.WithDialTimeout(2*time.Second),
				redisstore.WithReadTimeout(cfg.Cache.OpTimeout),
				redisstore.WithWriteTimeout(cfg.Cache.OpTimeout),
			)
			if err != nil {
				appLog.Error("redis unavailable", "addr", cfg.Redis.Addr, "err", err)
				return 1
			}
			defer func() { _ = rc.Close() }()
			tiers = append(tiers, tiered.Tier{Name: "redis", Store: rc})
		}
		c := tiered.New(appLog, cfg.Cache.TTL, cfg.Cache.OpTimeout, tiers...)
		deps.Cache = c
		deps.Ready = c
	}

	if err := server.Run(ctx, cfg, appLog, deps); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
