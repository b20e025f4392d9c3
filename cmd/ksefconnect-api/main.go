// @title         ksefconnect API
// @version       0.1.0
// @description   Per company KSeF token storage and connection checks

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ksefconnect/internal/platform/config"
	"ksefconnect/internal/platform/logger"
	phttp "ksefconnect/internal/platform/net/http"
	"ksefconnect/internal/platform/store"

	"ksefconnect/internal/services/api"
)

func main() {
	opt := logger.FromEnv()
	if opt.Service == "" {
		opt.Service = "ksefconnect-api"
	}
	logger.Init(opt)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // optional audit sink

	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(ctx,
		store.Config{
			AppName: "ksefconnect-api",
			PG: store.PGConfig{
				Enabled:        true,
				URL:            pgCfg.MustString("DBURL"),
				MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", 8)),
				SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:         pgCfg.MayBool("LOG_SQL", false),
				ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 20),
				PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 0),
			},
			CH: store.CHConfig{
				Enabled: chURL != "",
				URL:     chURL,
				Role:    "api",
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Fatal().Err(err).Msg("store open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("store close failed")
		}
	}()

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Store:          st,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
	})

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
