package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"tableside/internal/config"
	"tableside/internal/connections/database"
	"tableside/internal/connections/rabbitmq"
	"tableside/internal/handlers"
	"tableside/internal/httpx"
	"tableside/internal/logger"
	"tableside/internal/metrics"
	"tableside/internal/notifier"
	"tableside/internal/repository"
	"tableside/internal/service"
)

func main() {
	mode := flag.String("mode", "server", "server | notifier")
	cfgPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	lg := logger.New(cfg, "tableside-"+*mode)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		lg.WithError(err).Fatal("db connect failed")
	}
	defer db.Close()
	lg.WithFields(map[string]any{
		"host": cfg.Database.Host, "database": cfg.Database.Database,
	}).Info("postgres connected")

	rmq, err := rabbitmq.Dial(cfg)
	if err != nil {
		lg.WithError(err).Fatal("rabbitmq connect failed")
	}
	defer rmq.Close()
	if err := rmq.DeclareAll(); err != nil {
		lg.WithError(err).Fatal("rabbitmq declare failed")
	}
	lg.WithField("host", cfg.RabbitMQ.Host).Info("rabbitmq connected")

	switch *mode {
	case "server":
		if err := repository.EnsureSchema(ctx, db); err != nil {
			lg.WithError(err).Fatal("schema provisioning failed")
		}
		repo := repository.New(db)
		if cfg.Provision.Tables > 0 {
			if err := repo.Tables.Seed(ctx, cfg.Provision.Tables); err != nil {
				lg.WithError(err).Fatal("table seeding failed")
			}
		}

		m := metrics.New(prometheus.DefaultRegisterer)
		svc := service.New(repo, rmq, lg, m)
		h := handlers.New(svc)

		srv := httpx.New(":"+strconv.Itoa(cfg.HTTP.Port), handlers.Router(h, db.PingContext, rmq.Ping))
		lg.WithField("port", cfg.HTTP.Port).Info("server started")
		if err := srv.Run(ctx); err != nil {
			lg.WithError(err).Fatal("server failed")
		}
	case "notifier":
		n := notifier.New(rmq, lg)
		lg.Info("notifier started")
		if err := n.Run(ctx); err != nil {
			lg.WithError(err).Fatal("notifier failed")
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode must be one of: server | notifier")
		os.Exit(2)
	}

	lg.Info("shutdown complete")
}
