// Package pg opens the pgx pool the credential store runs on
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	URL      string
	AppName  string // application_name unless the URL sets one
	MaxConns int32
	Tracer   pgx.QueryTracer
}

var newPool = pgxpool.NewWithConfig

// Open builds the pool. Connections are made lazily, the caller pings.
func Open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	return newPool(ctx, pc)
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		if _, set := pc.ConnConfig.RuntimeParams["application_name"]; !set {
			pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
		}
	}
	if cfg.Tracer != nil {
		pc.ConnConfig.Tracer = cfg.Tracer
	}
	return pc, nil
}
