package control

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/keleris32/relay/internal/core/config"
	"github.com/keleris32/relay/internal/gateway"
	"github.com/keleris32/relay/internal/health"
	redisclient "github.com/keleris32/relay/internal/infra/redis"
	"github.com/keleris32/relay/internal/infra/storage"
	"github.com/keleris32/relay/internal/infra/storage/memory"
	"github.com/keleris32/relay/internal/infra/storage/postgres"
	"github.com/keleris32/relay/internal/infra/transport"
	"github.com/keleris32/relay/internal/metrics"
	"github.com/keleris32/relay/internal/notify"
	"github.com/keleris32/relay/internal/pipeline"
	"github.com/keleris32/relay/internal/replay"
	"github.com/keleris32/relay/internal/watchdog"
)

// Config holds the application configuration.
type Config struct {
	GatewayPort int
	HealthPort  int
	API         config.APIConfig
	Watchdog    config.WatchdogConfig
	Replay      config.ReplayConfig
	Client      config.ClientConfig
	Redis       redisclient.Config
	Database    postgres.Config
}

// Relay is the main application struct that manages the pipeline lifecycle.
type Relay struct {
	cfg             Config
	queue           storage.RequestQueue
	dispatcher      *pipeline.Dispatcher
	checker         *health.Checker
	healthServer    *health.Server
	gatewayServer   *gateway.Server
	replayWorker    *replay.Worker
	broadcaster     *notify.Broadcaster
	db              *postgres.DB
	redisClient     *redisclient.Client
	transportCloser io.Closer
	log             *slog.Logger
}

// NewRelay creates a new Relay instance with all dependencies initialized.
func NewRelay(cfg Config) (*Relay, error) {
	r := &Relay{cfg: cfg, log: slog.Default()}

	// 1. Initialize the persisted request queue
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		r.db = db
		r.queue = postgres.NewRequestQueue(db)
		slog.Info("Using PostgreSQL persisted queue")
	} else if cfg.Redis.URL != "" {
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		r.redisClient = client
		r.queue = redisclient.NewRequestQueue(client, "relay")
		slog.Info("Using Redis persisted queue")
	} else {
		r.queue = memory.NewRequestQueue()
		slog.Info("Using in-memory persisted queue")
	}

	// 2. Initialize the transport
	var tr transport.Transport
	if strings.HasPrefix(cfg.API.Endpoint, "grpc://") || strings.HasPrefix(cfg.API.Endpoint, "grpcs://") {
		grpcTransport, err := transport.NewGRPCTransport(context.Background(), cfg.API.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create grpc transport: %w", err)
		}
		tr = grpcTransport
		r.transportCloser = grpcTransport
	} else {
		httpTransport := transport.NewHTTPTransport(
			cfg.API.Endpoint,
			cfg.API.SecureEndpoint,
			cfg.API.Timeout.Std(),
		)
		tr = httpTransport
		r.transportCloser = httpTransport
	}

	// 3. Connectivity checker + watchdog
	endpoints := []string{cfg.API.Endpoint}
	if cfg.API.SecureEndpoint != "" && cfg.API.SecureEndpoint != cfg.API.Endpoint {
		endpoints = append(endpoints, cfg.API.SecureEndpoint)
	}
	r.checker = health.NewChecker(endpoints, cfg.Watchdog.CheckInterval.Std())
	wd := watchdog.New(cfg.Watchdog.Timeout.Std(), r.checker.Recheck)

	// 4. Pipeline
	r.broadcaster = notify.NewBroadcaster()
	preparer := pipeline.NewPreparer(pipeline.ClientInfo{
		AppVersion: cfg.Client.AppVersion,
		Platform:   cfg.Client.Platform,
	})
	r.dispatcher = pipeline.NewDispatcher(
		tr,
		preparer,
		r.queue,
		wd,
		notify.Multi{notify.LogSink{}, r.broadcaster},
	)

	// 5. Servers and replay worker
	r.healthServer = health.NewServer(r.checker, r.queue, cfg.HealthPort)
	r.gatewayServer = gateway.NewServer(r.dispatcher, r.queue, cfg.GatewayPort)
	r.replayWorker = replay.NewWorker(replay.Config{
		EmptySleep:      cfg.Replay.EmptySleep.Std(),
		InitialDelay:    cfg.Replay.InitialDelay.Std(),
		MaxDelay:        cfg.Replay.MaxDelay.Std(),
		BackoffMultiple: cfg.Replay.BackoffMultiple,
	}, r.queue, r.dispatcher, r.checker)

	return r, nil
}

// Queue exposes the persisted request queue.
func (r *Relay) Queue() storage.RequestQueue {
	return r.queue
}

// Dispatcher exposes the request pipeline.
func (r *Relay) Dispatcher() *pipeline.Dispatcher {
	return r.dispatcher
}

// Responses returns a subscription to successful response events.
func (r *Relay) Responses() <-chan notify.Event {
	return r.broadcaster.Subscribe()
}

// Start starts the relay and all its components.
func (r *Relay) Start(ctx context.Context) error {
	go func() {
		if err := r.healthServer.Start(); err != nil {
			r.log.Error("Health server failed", "error", err)
		}
	}()

	go func() {
		if err := r.gatewayServer.Start(); err != nil {
			r.log.Error("Gateway server failed", "error", err)
		}
	}()

	go r.checker.Start(ctx)

	go func() {
		if err := r.replayWorker.Run(ctx); err != nil {
			r.log.Error("Replay worker failed", "error", err)
		}
	}()

	go r.runMetricsUpdater(ctx)

	return nil
}

// Stop stops the relay.
func (r *Relay) Stop(ctx context.Context) error {
	r.log.Info("Stopping relay...")

	if err := r.gatewayServer.Stop(ctx); err != nil {
		r.log.Warn("Failed to stop gateway server", "error", err)
	}

	if r.transportCloser != nil {
		if err := r.transportCloser.Close(); err != nil {
			r.log.Warn("Failed to close transport", "error", err)
		}
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			r.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			r.log.Warn("Failed to close database", "error", err)
		}
	}

	return r.healthServer.Stop(ctx)
}

func (r *Relay) runMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := r.queue.Count(ctx)
			if err != nil {
				slog.Debug("Failed to read queue depth", "error", err)
				continue
			}
			metrics.QueueSize.Set(float64(count))
		}
	}
}
