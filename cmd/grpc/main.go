package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/app"
	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	"github.com/fekuna/omnipos-inventory-service/internal/audit/relay"
	"github.com/fekuna/omnipos-inventory-service/internal/audit/sink"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/listener"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/elastic"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/kafka"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/observability"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/postgres"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/rabbitmq"
	"github.com/fekuna/omnipos-inventory-service/internal/storage/memory"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Tracing and Logger
	otelCore, shutdownOtel, err := observability.Setup(ctx, &observability.Config{
		Enabled:        cfg.Otel.Enabled,
		Endpoint:       cfg.Otel.Endpoint,
		Insecure:       cfg.Otel.Insecure,
		ServiceVersion: cfg.Otel.ServiceVersion,
	})
	if err != nil {
		panic(err)
	}
	defer shutdownOtel(context.Background())

	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	var appLogger logger.Logger
	if otelCore != nil {
		appLogger = logger.NewZapLogger(logConfig, otelCore)
	} else {
		appLogger = logger.NewZapLogger(logConfig)
	}
	defer appLogger.Sync()

	// 3. Storage
	var (
		repos app.Repositories
		db    *sqlx.DB
	)
	switch cfg.Storage.Driver {
	case "memory":
		repos = app.MemoryRepositories(memory.NewStore())
		appLogger.Warn("Using in-memory storage; data is lost on restart")
	default:
		db, err = postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				appLogger.Fatal("Could not apply migrations", zap.Error(err))
			}
		}
		repos = app.PostgresRepositories(db)
	}

	// 4. Redis (optional): catalog cache, number sequences, relay lock
	opts := app.Options{
		Policy:            inventory.DecrementPolicy(cfg.Inventory.DecrementPolicy),
		LocationCacheSize: cfg.Inventory.LocationCacheSize,
		Logger:            appLogger,
	}
	var locker cache.Locker
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

		opts.Cache = redisClient
		repos.Sequencer = redisClient
		locker = redisClient
	}

	// 5. UseCases
	services, err := app.NewServices(repos, opts)
	if err != nil {
		appLogger.Fatal("Could not build services", zap.Error(err))
	}

	// 6. Audit relay
	auditSink, closeSink, err := buildSink(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not initialize audit sink", zap.Error(err), zap.String("sink", cfg.Audit.Sink))
	}
	defer closeSink()
	auditRelay := relay.NewRelay(repos.Audit, auditSink, locker, appLogger, cfg.Audit.PollInterval, cfg.Audit.BatchSize)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		auditRelay.Start(ctx)
	}()

	// 7. Order listener
	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(&kafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		go listener.NewOrderListener(consumer, services.Inventory, appLogger).Start(ctx)
	}

	// 8. gRPC Server
	port := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	interceptor := auth.NewInterceptor(cfg.JWT.SecretKey, cfg.JWT.AllowMetadata,
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/Watch",
	)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(interceptor.Unary()))
	app.RegisterGRPC(grpcServer, services, appLogger)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 9. Ops HTTP server
	opsServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           app.NewOpsRouter(readiness(db)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("ops server stopped", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	_ = opsServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()

	// Flush what the relay picked up before the context was cancelled, once
	// its in-flight tick has finished.
	select {
	case <-relayDone:
	case <-shutdownCtx.Done():
	}
	if n, err := auditRelay.Drain(shutdownCtx); err != nil {
		appLogger.Warn("final audit drain failed", zap.Error(err))
	} else if n > 0 {
		appLogger.Info("final audit drain", zap.Int("published", n))
	}
	appLogger.Info("Server stopped")
}

func buildSink(ctx context.Context, cfg *config.Config, log logger.Logger) (audit.Sink, func(), error) {
	switch cfg.Audit.Sink {
	case "kafka":
		producer := kafka.NewProducer(&kafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.AuditTopic,
		})
		return sink.NewKafkaSink(producer), func() { producer.Close() }, nil
	case "elastic":
		client, err := elastic.NewClient(&elastic.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := client.CreateIndex(ctx, cfg.Elastic.AuditIndex, sink.ElasticMapping); err != nil {
			return nil, nil, err
		}
		return sink.NewElasticSink(client, cfg.Elastic.AuditIndex), func() {}, nil
	case "rabbitmq":
		publisher, err := rabbitmq.NewPublisher(&rabbitmq.Config{
			URL:   cfg.RabbitMQ.URL,
			Queue: cfg.RabbitMQ.AuditQueue,
		})
		if err != nil {
			return nil, nil, err
		}
		return sink.NewRabbitMQSink(publisher), publisher.Close, nil
	default:
		return sink.NewLogSink(log), func() {}, nil
	}
}

func readiness(db *sqlx.DB) func(context.Context) error {
	if db == nil {
		return nil
	}
	return db.PingContext
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}
