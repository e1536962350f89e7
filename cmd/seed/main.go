package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/vahub-dev/marketplace/backend/internal/config"
	"github.com/vahub-dev/marketplace/backend/internal/repository"
	"github.com/vahub-dev/marketplace/backend/internal/seed"
	"github.com/vahub-dev/marketplace/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operation (1: insert random VAs, 2: bootstrap schema, plans, admin and demo content)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		logger.Error("no operation given")
	case 1:
		if n <= 0 {
			logger.Error("n must be positive")
			return
		}
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Error("failed to ensure schema", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			user, profile, err := utils.GenerateRandomVA(cfg.Demo.TalentPassword, cfg.Demo.TalentEmailDomain)
			if err != nil {
				logger.Error("failed to generate va", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateVAWithProfile(context.Background(), user, profile); err != nil {
				logger.Error("failed to insert va", slog.String("email", user.Email), slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		logger.Info("inserted vas", slog.Int("count", cnt))
	case 2:
		if err := seed.Bootstrap(context.Background(), cfg, repo); err != nil {
			logger.Error("failed to bootstrap", slog.String("error", err.Error()))
			return
		}
		logger.Info("bootstrap done")
	default:
		logger.Error("unknown operation", slog.Int("op", op))
	}
}
