package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"echeck-gateway/config"
	"echeck-gateway/internal/adapter/ai"
	httpHandler "echeck-gateway/internal/adapter/http/handler"
	"echeck-gateway/internal/adapter/payout"
	mongoStorage "echeck-gateway/internal/adapter/storage/mongo"
	pgStorage "echeck-gateway/internal/adapter/storage/postgres"
	redisStorage "echeck-gateway/internal/adapter/storage/redis"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/internal/service"
	"echeck-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Getenv("ECG_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting e-check gateway")

	ctx := context.Background()

	// PostgreSQL
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Redis
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	healthCheckers := []ports.HealthChecker{
		pgStorage.NewHealthCheck(pool),
		redisStorage.NewHealthCheck(rdb),
	}

	// MongoDB print archive (optional)
	var archive ports.InstrumentArchive
	if cfg.Mongo.Enabled() {
		mc, err := mongoStorage.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mc.Disconnect(dctx)
		}()
		archive = mongoStorage.NewInstrumentArchive(mongoStorage.NewProvider(mc, cfg.Mongo.Database))
		healthCheckers = append(healthCheckers, mongoStorage.NewHealthCheck(mc))
	} else {
		log.Info().Msg("MongoDB not configured, print archive disabled")
	}

	// Repositories
	issuerRepo := pgStorage.NewIssuerRepo(pool)
	accountRepo := pgStorage.NewBankAccountRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool, cfg.Database.LockTimeout)

	// Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)
	changeFeed := redisStorage.NewChangeFeed(rdb, log)

	// External collaborators
	var payoutProvider ports.PayoutProvider
	if cfg.Stripe.Enabled() {
		payoutProvider = payout.NewStripeClient(cfg.Stripe, log)
	} else {
		log.Info().Msg("Stripe not configured, electronic delivery disabled")
	}
	var memoSuggester ports.MemoSuggester
	if cfg.AI.Enabled() {
		memoSuggester = ai.NewMemoClient(cfg.AI)
	}

	// Core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewImageSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)
	events := service.NewEventNotifier(changeFeed, log)

	// Business services
	authSvc := service.NewAuthService(issuerRepo, hashSvc, tokenSvc)
	issuerSvc := service.NewIssuerService(issuerRepo)
	accountSvc := service.NewAccountService(accountRepo, encSvc, events, log)
	paymentSvc := service.NewPaymentService(
		txRepo,
		accountRepo,
		idempotencyRepo,
		idempotencyCache,
		encSvc,
		sigSvc,
		payoutProvider,
		transactor,
		events,
		log,
	)
	checkSvc := service.NewCheckService(txRepo, accountRepo, issuerRepo, encSvc, archive, auditSvc, events, log)
	reportingSvc := service.NewReportingService(txRepo)
	memoSvc := service.NewMemoService(memoSuggester, log)

	gin.SetMode(cfg.Server.Mode)
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		IssuerSvc:      issuerSvc,
		AccountSvc:     accountSvc,
		PaymentSvc:     paymentSvc,
		CheckSvc:       checkSvc,
		ReportingSvc:   reportingSvc,
		MemoSvc:        memoSvc,
		SigSvc:         sigSvc,
		TokenSvc:       tokenSvc,
		ChangeFeed:     changeFeed,
		RateLimitStore: rateLimitStore,
		AuditSvc:       auditSvc,
		HealthCheckers: healthCheckers,
		BodyLimit:      cfg.Server.BodyLimit,
		Logger:         log,
	})

	// Open event streams never go idle; cancelling their base context on
	// shutdown lets Shutdown finish instead of waiting out the timeout.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelStreams)

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
