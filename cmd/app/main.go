package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"agritrade/cmd"
	httpin "agritrade/internal/adapters/in/http"
	"agritrade/internal/adapters/out/eventbus"
	"agritrade/internal/adapters/out/postgres"
	pubsubout "agritrade/internal/adapters/out/pubsub"
	"agritrade/internal/core/ports"

	"cloud.google.com/go/pubsub"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	bus := eventbus.NewBus(cfg.EventBusBuffer, logger)
	hub := httpin.NewEventHub(logger)
	bus.Subscribe(eventbus.LogSubscriber(logger))
	bus.Subscribe(hub.Handle)
	go bus.Run(ctx)

	publisher, closePublisher, err := newPublisher(ctx, cfg, bus)
	if err != nil {
		log.Fatalf("pubsub: %v", err)
	}
	defer closePublisher()

	app, err := cmd.NewCompositionRoot(cfg, gormDB, rdb, publisher, logger)
	if err != nil {
		log.Fatalf("composition root: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("jobs: %v", err)
	}
	defer jobManager.StopAll()

	e, err := httpin.NewRouter(ctx, httpin.NewServer(app.CreateHTTPHandlers()), hub, logger)
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}

// newPublisher returns the relay target. Events always reach the in-process bus and
// are also sent to Pub/Sub when a project is configured.
func newPublisher(ctx context.Context, cfg cmd.Config, bus *eventbus.Bus) (ports.EventPublisher, func(), error) {
	if cfg.PubSubProjectID == "" {
		return bus, func() {}, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSubProjectID)
	if err != nil {
		return nil, nil, err
	}
	topic, err := pubsubout.EnsureTopic(ctx, client, cfg.PubSubTopic)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	remote := pubsubout.NewPublisher(topic, pubsubout.Options{Timeout: cfg.PubSubTimeout})
	return eventbus.Fanout{remote, bus}, func() {
		topic.Stop()
		_ = client.Close()
	}, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
