package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"conversational-commerce/config"
	_ "conversational-commerce/docs" // Swagger docs
	analyticsHTTP "conversational-commerce/internal/analytics/delivery/http"
	analyticsUsecase "conversational-commerce/internal/analytics/usecase"
	"conversational-commerce/internal/attribution"
	convHTTP "conversational-commerce/internal/conversation/delivery/http"
	convRepo "conversational-commerce/internal/conversation/repository"
	convRedis "conversational-commerce/internal/conversation/repository/redis"
	convUsecase "conversational-commerce/internal/conversation/usecase"
	correlatorUsecase "conversational-commerce/internal/correlator/usecase"
	eventRepo "conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/internal/eventlog/repository/memory"
	"conversational-commerce/internal/eventlog/repository/sqlrepo"
	"conversational-commerce/internal/httpserver"
	trackingHTTP "conversational-commerce/internal/tracking/delivery/http"
	trackingUsecase "conversational-commerce/internal/tracking/usecase"
	"conversational-commerce/internal/webhook"
	webhookHTTP "conversational-commerce/internal/webhook/delivery/http"
	"conversational-commerce/pkg/commerce"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/metrics"
	pkgRedis "conversational-commerce/pkg/redis"
	"conversational-commerce/pkg/sqldb"
	"conversational-commerce/pkg/tracing"
)

// @title       Conversational Commerce API
// @description Conversation state, agent action tracking, order attribution and analytics for chat-driven commerce.
// @version     1
// @host        localhost:8080
// @schemes     http
// @securityDefinitions.apikey InternalKey
// @in header
// @name X-API-Key
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Conversational Commerce...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Observability
	if cfg.Tracing.Enabled {
		shutdown, tErr := tracing.Init(ctx, tracing.Config{
			ServiceName:    httpserver.ServiceName,
			ServiceVersion: cfg.Tracing.ServiceVersion,
			Environment:    cfg.Environment.Name,
			UseStdout:      cfg.Tracing.Stdout,
		})
		if tErr != nil {
			logger.Warnf(ctx, "Tracing disabled: %v", tErr)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warnf(context.Background(), "Tracing shutdown: %v", err)
				}
			}()
		}
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	// 4. Event log
	events, err := openEventLog(ctx, cfg, logger, m)
	if err != nil {
		logger.Errorf(ctx, "Failed to open event log: %v", err)
		return
	}
	defer events.Close()

	// 5. Conversation store
	convOpts := []convUsecase.Option{convUsecase.WithMetrics(m)}
	if cfg.Conversation.Backend == config.ContextBackendRedis {
		repo, closeRedis, rErr := openContextRepository(ctx, cfg, logger)
		if rErr != nil {
			logger.Errorf(ctx, "Failed to connect to Redis: %v", rErr)
			return
		}
		defer closeRedis()
		convOpts = append(convOpts, convUsecase.WithRepository(repo))
		logger.Infof(ctx, "Conversation contexts persisted to Redis at %s", cfg.Redis.Addr)
	}
	convUC := convUsecase.New(logger, convUsecase.Config{
		TTL:        cfg.Conversation.TTL,
		MaxTurns:   cfg.Conversation.MaxTurns,
		ShardCount: cfg.Conversation.ShardCount,
	}, convOpts...)

	sweeper := convUsecase.NewSweeper(convUC, cfg.Conversation.SweepInterval, logger)
	go sweeper.Run(ctx)

	// 6. Attribution + commerce backend (optional)
	codec := attribution.NewCodec(cfg.Attribution.SourceMarker)
	tagger := attribution.NewTagger(codec)

	var carts commerce.CartCreator
	client, err := commerce.NewClient(commerce.Config{
		StoreDomain:     cfg.Commerce.StoreDomain,
		APIVersion:      cfg.Commerce.APIVersion,
		StorefrontToken: cfg.Commerce.StorefrontToken,
		ClientID:        cfg.Commerce.ClientID,
		ClientSecret:    cfg.Commerce.ClientSecret,
		TokenURL:        cfg.Commerce.TokenURL,
		Scopes:          cfg.Commerce.Scopes,
		Timeout:         cfg.Commerce.Timeout,
	})
	switch {
	case errors.Is(err, commerce.ErrNotConfigured):
		logger.Warn(ctx, "Commerce backend not configured: cart creation disabled")
	case err != nil:
		logger.Errorf(ctx, "Failed to initialize commerce client: %v", err)
		return
	default:
		carts = client
		logger.Infof(ctx, "Commerce backend: %s", cfg.Commerce.StoreDomain)
	}

	// 7. Use cases
	trackingUC := trackingUsecase.New(logger, convUC, events, carts, tagger)
	correlatorUC := correlatorUsecase.New(logger, events, codec)
	analyticsUC := analyticsUsecase.New(logger, events, m, analyticsUsecase.Config{
		PublicBaseURL:    cfg.Webhook.PublicBaseURL,
		SignatureHeader:  webhook.SignatureHeader,
		SecretConfigured: cfg.Webhook.Secret != "",
		SourceMarker:     codec.Marker(),
	})

	if cfg.Webhook.Secret == "" {
		logger.Warn(ctx, "WEBHOOK_SECRET is empty: every webhook will be rejected")
	}
	verifier := webhook.NewVerifier(webhook.SecurityConfig{
		Secret:          cfg.Webhook.Secret,
		AllowedIPs:      cfg.Webhook.AllowedIPs,
		RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
	})

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:              logger,
		Port:                cfg.HTTPServer.Port,
		Mode:                cfg.HTTPServer.Mode,
		Environment:         cfg.Environment.Name,
		InternalKey:         cfg.HTTPServer.InternalKey,
		ReadTimeout:         cfg.HTTPServer.ReadTimeout,
		WriteTimeout:        cfg.HTTPServer.WriteTimeout,
		ShutdownTimeout:     cfg.HTTPServer.ShutdownTimeout,
		Metrics:             m,
		EventLog:            events,
		ConversationHandler: convHTTP.New(logger, convUC),
		TrackingHandler:     trackingHTTP.New(logger, trackingUC),
		WebhookHandler:      webhookHTTP.New(logger, verifier, correlatorUC, m),
		AnalyticsHandler:    analyticsHTTP.New(logger, analyticsUC),
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	<-sweeper.Done()
	logger.Info(ctx, "Server stopped gracefully")
}

func openEventLog(ctx context.Context, cfg *config.Config, l log.Logger, m *metrics.Metrics) (eventRepo.Repository, error) {
	if cfg.EventLog.Backend != config.EventLogBackendSQL {
		l.Warn(ctx, "Event log is in memory: events are lost on restart")
		return memory.New(l, m), nil
	}

	db, err := sqldb.Open(ctx, cfg.EventLog.DatabaseURL, sqldb.Options{
		MaxOpenConns: cfg.EventLog.MaxOpenConns,
		MaxIdleConns: cfg.EventLog.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	if err := sqlrepo.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	l.Infof(ctx, "Event log: %s", db.Dialect)
	return sqlrepo.New(db, l, m), nil
}

func openContextRepository(ctx context.Context, cfg *config.Config, l log.Logger) (convRepo.Repository, func() error, error) {
	client, err := pkgRedis.Connect(ctx, pkgRedis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return convRedis.New(client, cfg.Redis.KeyPrefix, cfg.Conversation.TTL, l), client.Close, nil
}
