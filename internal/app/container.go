package app

import (
	"context"
	"fmt"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database"
	"talent-match/internal/database/migration"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/oracle"
	"talent-match/internal/oracle/gemini"
	"talent-match/internal/ws"

	"go.uber.org/zap"
)

// Container holds the long-lived infrastructure shared by the HTTP layer.
type Container struct {
	Config config.Config
	Log    *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Scorer oracle.Scorer
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	runner := migration.Runner{Dir: cfg.Database.MigrationsDir}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	generator, err := gemini.NewGenerator(ctx, cfg.Oracle.APIKey, cfg.Oracle.Model)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create oracle client: %w", err)
	}
	scorer := gemini.NewScorer(generator, log, gemini.ScorerOptions{
		MaxAttempts:    cfg.Oracle.MaxAttempts,
		RequestTimeout: cfg.Oracle.RequestTimeout,
		BackoffBase:    cfg.Oracle.BackoffBase,
	})

	hub := ws.NewHub(log)
	go hub.Run()

	return &Container{
		Config: cfg,
		Log:    log,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, log),
		Hub:    hub,
		Scorer: scorer,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
