package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/safekart/internal/auth"
	"github.com/rogerio-castellano/safekart/internal/config"
	"github.com/rogerio-castellano/safekart/internal/db"
	"github.com/rogerio-castellano/safekart/internal/events"
	"github.com/rogerio-castellano/safekart/internal/http/ban"
	"github.com/rogerio-castellano/safekart/internal/http/handlers"
	rl "github.com/rogerio-castellano/safekart/internal/http/rate_limiter"
	"github.com/rogerio-castellano/safekart/internal/http/router"
	"github.com/rogerio-castellano/safekart/internal/logging"
	"github.com/rogerio-castellano/safekart/internal/qr"
	"github.com/rogerio-castellano/safekart/internal/repo"
	"github.com/rogerio-castellano/safekart/internal/verify"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type stores struct {
	products      repo.ProductRepository
	customers     repo.CustomerRepository
	verifications repo.VerificationRepository
	metrics       repo.MetricsRepository
	ping          func(context.Context) error
	close         func()
}

// @title SafeKart Verification API
// @version 1.0
// @description Product authenticity verification: purchases, weight and MRP checks, scan-limited QR codes and verification logs.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load configuration:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not build logger:", err)
		os.Exit(1)
	}

	os.Exit(exitCode(logger, run(cfg, logger)))
}

// exitCode logs a failed run and flushes the logger before the process exits.
func exitCode(logger *zap.Logger, err error) int {
	defer logger.Sync()

	if err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	if cfg.SeedCatalog {
		n, err := repo.SeedCatalog(ctx, st.products, repo.SampleProducts)
		if err != nil {
			logger.Error("catalog seeding failed", zap.Error(err))
		} else if n > 0 {
			logger.Info("catalog seeded", zap.Int("products", n))
		} else {
			logger.Info("catalog already contains data, skipping seed")
		}
	}

	banStore, closeBans, err := openBanStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBans()
	bans := ban.NewManager(banStore, cfg.BanStrikes, cfg.BanDuration, logger.Named("ban"))
	go bans.StartDailySummary(ctx)

	limiter := rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.StartVisitorCleanupLoop(ctx)

	hub := events.NewHub(logger.Named("events"))
	verifier := verify.NewService(st.products, st.customers, st.verifications, qr.NewEncoder(), verify.Options{
		BaseURL:   cfg.PublicBaseURL,
		ScanLimit: cfg.ScanLimit,
		Publisher: hub,
		Logger:    logger.Named("verify"),
	})

	var issuer *auth.Issuer
	if cfg.JWTSecret != "" {
		issuer = auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	}
	if !cfg.AdminEnabled() {
		logger.Warn("admin login disabled: ADMIN_PASSWORD_HASH and JWT_SECRET are required")
	}

	handlers.SetLogger(logger.Named("http"))
	handlers.SetProductRepo(st.products)
	handlers.SetCustomerRepo(st.customers)
	handlers.SetVerificationRepo(st.verifications)
	handlers.SetMetricsRepo(st.metrics)
	handlers.SetVerifier(verifier)
	handlers.SetLiveFeed(hub)
	handlers.SetBanManager(bans)
	handlers.SetAdminAuth(issuer, auth.Credentials{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash})
	handlers.SetHealthCheck(st.ping)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Config{
			Logger:      logger.Named("http"),
			Issuer:      issuer,
			Limiter:     limiter,
			Bans:        bans,
			CORSOrigins: cfg.CORSOrigins,
			StaticDir:   cfg.StaticDir,
			ProtectLogs: cfg.ProtectLogs,
			TrustProxy:  cfg.TrustProxy,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}
		if err := db.Migrate(ctx, database); err != nil {
			database.Close()
			return nil, err
		}
		logger.Info("connected to postgres")
		return &stores{
			products:      repo.NewPostgresProductRepository(database),
			customers:     repo.NewPostgresCustomerRepository(database),
			verifications: repo.NewPostgresVerificationRepository(database),
			metrics:       repo.NewPostgresMetricsRepository(database),
			ping:          database.PingContext,
			close:         func() { database.Close() },
		}, nil

	case config.DriverMongo:
		client, database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("could not connect to mongo: %w", err)
		}
		if err := db.EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info("connected to mongo", zap.String("database", cfg.MongoDatabase))
		return &stores{
			products:      repo.NewMongoProductRepository(database),
			customers:     repo.NewMongoCustomerRepository(database),
			verifications: repo.NewMongoVerificationRepository(database),
			metrics:       repo.NewMongoMetricsRepository(database),
			ping:          func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:         func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		logger.Warn("using in-memory store, data is lost on restart")
		products := repo.NewInMemoryProductRepository()
		customers := repo.NewInMemoryCustomerRepository()
		verifications := repo.NewInMemoryVerificationRepository(customers)
		metrics := repo.NewInMemoryMetricsRepository()
		metrics.SetRepositories(products, customers, verifications)
		return &stores{
			products:      products,
			customers:     customers,
			verifications: verifications,
			metrics:       metrics,
			ping:          func(context.Context) error { return nil },
			close:         func() {},
		}, nil
	}
}

func openBanStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ban.Store, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, bans are kept in process")
		return ban.NewMemoryStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	return ban.NewRedisStore(rdb), func() { rdb.Close() }, nil
}
