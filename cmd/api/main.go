package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"storefront-orders/internal/client"
	"storefront-orders/internal/config"
	"storefront-orders/internal/metrics"
	"storefront-orders/internal/notify"
	"storefront-orders/internal/repository"
	"storefront-orders/internal/server"
	"storefront-orders/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx := context.Background()

	repo, cleanupStore, err := buildRepository(ctx, cfg.Store)
	if err != nil {
		log.Fatal("storage init: ", err)
	}
	defer cleanupStore()

	notifier, cleanupNotify, err := buildNotifier(cfg.Notify, logger)
	if err != nil {
		log.Fatal("notification init: ", err)
	}
	defer cleanupNotify()

	met := metrics.NewOrderMetrics()
	orderService := service.NewOrderService(repo, notifier, cfg.DuplicateWindow, logger, met)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(orderService)

	logger.Info("starting HTTP server",
		"addr", serverAddr,
		"backend", cfg.Store.Backend,
		"environment", cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	notifier.Flush(shutdownCtx)

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

// buildRepository selects the storage backend. The cleanup releases
// whatever connection the backend owns.
func buildRepository(ctx context.Context, cfg config.Store) (repository.OrdersRepository, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case "memory":
		return repository.NewMemoryRepository(), noop, nil

	case "file":
		return repository.NewFileRepository(cfg.FilePath), noop, nil

	case "sqlite":
		db, err := client.InitSQLiteClient(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewSQLiteRepository(db)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return repo, cleanup, nil

	case "mongo":
		if cfg.MongoURI == "" {
			return nil, nil, fmt.Errorf("STORE_MONGO_URI is required for the mongo backend")
		}
		cli, err := client.InitMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewMongoRepository(cli.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = cli.Disconnect(context.Background())
			return nil, nil, err
		}
		cleanup := func() {
			_ = cli.Disconnect(context.Background())
		}
		return repo, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// buildNotifier assembles the configured channels behind one composite.
// Email is always present; webhook and AMQP join when configured.
func buildNotifier(cfg config.Notify, logger *slog.Logger) (*notify.Composite, func(), error) {
	noop := func() {}

	channels := []notify.NotificationService{
		notify.NewEmailChannel(notify.NewLogEmailProvider(logger)),
	}

	if cfg.WebhookURL != "" {
		channels = append(channels, notify.NewWebhookChannel(cfg.WebhookURL))
	}

	cleanup := noop
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		ch, err := notify.NewAMQPChannel(conn, cfg.AMQPQueue)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		channels = append(channels, ch)
		cleanup = func() {
			ch.Close()
			conn.Close()
		}
	}

	return notify.NewComposite(logger, channels...), cleanup, nil
}
