package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-service/handlers"
	"marketplace-service/internal/auth"
	"marketplace-service/internal/categories"
	"marketplace-service/internal/consul"
	"marketplace-service/internal/items"
	"marketplace-service/internal/orders"
	"marketplace-service/internal/stores/kafka"
	"marketplace-service/internal/stores/postgres"
	"marketplace-service/internal/users"
	"marketplace-service/internal/vendors"
	"marketplace-service/middleware"
	"marketplace-service/pkg/config"
	"marketplace-service/pkg/logkey"

	"github.com/joho/godotenv"
)

func main() {
	if err := startApp(); err != nil {
		slog.Error("service stopped", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// .env is optional; deployment environments set real variables.
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not loaded", slog.String(logkey.ERROR, err.Error()))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return err
	}

	catStore, err := categories.NewStore(db)
	if err != nil {
		return err
	}
	catConf, err := categories.NewConf(catStore)
	if err != nil {
		return err
	}
	venStore, err := vendors.NewStore(db)
	if err != nil {
		return err
	}
	venConf, err := vendors.NewConf(venStore)
	if err != nil {
		return err
	}
	itemStore, err := items.NewStore(db)
	if err != nil {
		return err
	}
	itemConf, err := items.NewConf(itemStore)
	if err != nil {
		return err
	}
	userStore, err := users.NewStore(db)
	if err != nil {
		return err
	}
	userConf, err := users.NewConf(userStore)
	if err != nil {
		return err
	}
	orderStore, err := orders.NewStore(db)
	if err != nil {
		return err
	}
	orderConf, err := orders.NewConf(orderStore)
	if err != nil {
		return err
	}

	var keys *auth.Keys
	if cfg.IdentityJWTSecret != "" {
		keys, err = auth.NewKeys(cfg.IdentityJWTSecret)
		if err != nil {
			return err
		}
	}
	identity, err := auth.NewClient(cfg.IdentityURL, keys)
	if err != nil {
		return fmt.Errorf("failed to create identity client: %w", err)
	}

	mid, err := middleware.NewMid(identity, userConf)
	if err != nil {
		return err
	}

	var kafkaConf *kafka.Conf
	if cfg.KafkaHost != "" {
		kafkaConf, err = kafka.NewConf(cfg.KafkaHost)
		if err != nil {
			return fmt.Errorf("failed to connect to kafka: %w", err)
		}
		defer kafkaConf.Close()
	}

	if cfg.ConsulHTTPAddr != "" {
		client, err := consul.NewClient(cfg.ConsulHTTPAddr)
		if err != nil {
			return err
		}
		if err := consul.RegisterService(client, cfg.ServiceName, cfg.ServiceHost, cfg.ServicePort); err != nil {
			return err
		}
		defer func() {
			if err := consul.DeregisterService(client, cfg.ServiceName, cfg.ServiceHost, cfg.ServicePort); err != nil {
				slog.Error("consul deregister failed", slog.String(logkey.ERROR, err.Error()))
			}
		}()
	}

	api := handlers.API(mid, catConf, venConf, itemConf, userConf, orderConf, kafkaConf, cfg.ServiceRoleKey)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("addr", cfg.HTTPAddr), slog.String("site_url", cfg.SiteURL))
		serverErr <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		slog.Info("shutdown started", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
