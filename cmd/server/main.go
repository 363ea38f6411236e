package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	auditHandler "bloodconnect/internal/audit/handler"
	authHandler "bloodconnect/internal/auth/handler"
	"bloodconnect/internal/auth/lockout"
	authMetrics "bloodconnect/internal/auth/metrics"
	authService "bloodconnect/internal/auth/service"
	lockoutStore "bloodconnect/internal/auth/store/lockout"
	"bloodconnect/internal/auth/store/revocation"
	userStore "bloodconnect/internal/auth/store/user"
	branchHandler "bloodconnect/internal/branch/handler"
	branchService "bloodconnect/internal/branch/service"
	branchStore "bloodconnect/internal/branch/store"
	"bloodconnect/internal/coupon"
	couponMetrics "bloodconnect/internal/coupon/metrics"
	deferralHandler "bloodconnect/internal/deferral/handler"
	deferralService "bloodconnect/internal/deferral/service"
	deferralStore "bloodconnect/internal/deferral/store"
	donorHandler "bloodconnect/internal/donor/handler"
	donorMetrics "bloodconnect/internal/donor/metrics"
	donorService "bloodconnect/internal/donor/service"
	donorStore "bloodconnect/internal/donor/store"
	jwttoken "bloodconnect/internal/jwt_token"
	"bloodconnect/internal/platform/config"
	"bloodconnect/internal/platform/httpserver"
	"bloodconnect/internal/platform/logger"
	"bloodconnect/internal/platform/metrics"
	"bloodconnect/internal/platform/postgres"
	redisClient "bloodconnect/internal/platform/redis"
	printerHandler "bloodconnect/internal/printer/handler"
	printerMetrics "bloodconnect/internal/printer/metrics"
	printerService "bloodconnect/internal/printer/service"
	rateLimitMetrics "bloodconnect/internal/ratelimit/metrics"
	rateLimit "bloodconnect/internal/ratelimit/middleware"
	"bloodconnect/internal/ratelimit/store/bucket"
	screeningHandler "bloodconnect/internal/screening/handler"
	screeningService "bloodconnect/internal/screening/service"
	screeningStore "bloodconnect/internal/screening/store"
	"bloodconnect/internal/seed"
	httptransport "bloodconnect/internal/transport/http"
	"bloodconnect/pkg/platform/audit"
	"bloodconnect/pkg/platform/audit/publisher"
	auditKafka "bloodconnect/pkg/platform/audit/store/kafka"
	auditMemory "bloodconnect/pkg/platform/audit/store/memory"
	auditPostgres "bloodconnect/pkg/platform/audit/store/postgres"
	authmw "bloodconnect/pkg/platform/middleware/auth"
	"bloodconnect/pkg/platform/tx"
)

const (
	shutdownTimeout = 15 * time.Second
	requestTimeout  = 30 * time.Second
	txTimeout       = 10 * time.Second
	auditBuffer     = 1024
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// stores groups every persistence dependency so memory and Postgres modes are
// wired in one place.
type stores struct {
	donors     interface {
		donorService.Store
		screeningService.DonorStore
		seed.DonorStore
	}
	screenings interface {
		screeningService.Store
		donorService.ScreeningLister
	}
	branches interface {
		branchService.Store
		screeningService.BranchLookup
		seed.BranchStore
	}
	deferrals interface {
		deferralService.Store
		screeningService.DeferralLookup
		seed.DeferralStore
	}
	users    authService.UserStore
	lockouts lockout.Store
	audit    audit.Store
	runner   tx.Runner
}

func newStores(ctx context.Context, cfg config.Server, log *slog.Logger) (*stores, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory stores; data is lost on restart")
		return &stores{
			donors:     donorStore.NewInMemory(),
			screenings: screeningStore.NewInMemory(),
			branches:   branchStore.NewInMemory(),
			deferrals:  deferralStore.NewInMemory(),
			users:      userStore.New(),
			lockouts:   lockoutStore.New(),
			audit:      auditMemory.NewLoggingStore(log),
			runner:     tx.NewMemoryRunner(),
		}, nil, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return &stores{
		donors:     donorStore.NewPostgres(db),
		screenings: screeningStore.NewPostgres(db),
		branches:   branchStore.NewPostgres(db),
		deferrals:  deferralStore.NewPostgres(db),
		users:      userStore.NewPostgres(db),
		lockouts:   lockoutStore.NewPostgres(db),
		audit:      auditPostgres.New(db),
		runner:     tx.NewSQLRunner(db, txTimeout),
	}, db, nil
}

// app is the assembled HTTP surface plus the resources to release on exit,
// closed in reverse order.
type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) onClose(fn func()) { a.closers = append(a.closers, fn) }

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg config.Server, log *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	st, db, err := newStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if db != nil {
		a.onClose(func() { _ = db.Close() })
	}

	health := httptransport.NewHealthChecker(3 * time.Second)
	if db != nil {
		health.Add("postgres", true, db.PingContext)
	}

	// Audit: Kafka in front of the local store when brokers are configured.
	auditStore := st.audit
	var kafkaClient *kgo.Client
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err = auditKafka.NewClient(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, cfg.Kafka.Partitions)
		if err != nil {
			return nil, fmt.Errorf("kafka: %w", err)
		}
		a.onClose(kafkaClient.Close)
		sink := auditKafka.NewSink(kafkaClient, cfg.Kafka.AuditTopic, st.audit, auditKafka.WithLogger(log))
		auditStore = sink
		health.Add("kafka", false, func(context.Context) error {
			if sink.Degraded() {
				return errors.New("audit sink degraded")
			}
			return nil
		})
	}
	auditPublisher := publisher.NewPublisher(auditStore, publisher.WithAsyncBuffer(auditBuffer), publisher.WithLogger(log))
	a.onClose(auditPublisher.Close)

	// Token revocation: Redis when configured so logout holds across replicas.
	var trl interface {
		authmw.TokenRevocationChecker
		authService.TokenRevoker
	}
	var buckets rateLimit.BucketStore
	rc, err := redisClient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if rc != nil {
		a.onClose(func() { _ = rc.Close() })
		trl = revocation.NewRedisTRL(rc.Client)
		buckets = bucket.NewRedisBucketStore(rc.Client)
		health.Add("redis", true, rc.Health)
	} else {
		log.Warn("REDIS_URL not set, token revocation and rate limits are process-local")
		trl = revocation.NewInMemoryTRL()
		buckets = bucket.NewInMemoryBucketStore()
	}
	limiter := rateLimit.New(buckets, cfg.RateLimit.PerWindow, cfg.RateLimit.Window, log,
		rateLimit.WithMetrics(rateLimitMetrics.New()))

	if cfg.SeedData {
		if err := seed.New(st.branches, st.deferrals, st.donors, st.runner, log).Run(ctx); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	jwt := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)
	validator := jwttoken.NewJWTServiceAdapter(jwt)
	requireAuth := authmw.RequireAuth(validator, trl, log)
	optionalAuth := authmw.OptionalAuth(validator, trl, log)
	requireAdmin := func(next http.Handler) http.Handler {
		return requireAuth(authmw.RequireRole(log, "admin")(next))
	}

	locks, err := lockout.New(st.lockouts, lockout.WithLogger(log))
	if err != nil {
		return nil, err
	}
	auth := authService.New(st.users, jwt, trl,
		authService.WithLogger(log),
		authService.WithAuditPublisher(auditPublisher),
		authService.WithMetrics(authMetrics.New()),
		authService.WithLockout(locks),
	)

	allocator, err := coupon.NewAllocator(st.donors, st.runner,
		coupon.WithLogger(log),
		coupon.WithMetrics(couponMetrics.New()),
		coupon.WithMaxAttempts(cfg.Coupon.MaxAttempts),
	)
	if err != nil {
		return nil, err
	}
	donors := donorService.New(st.donors, st.screenings, allocator,
		donorService.WithLogger(log),
		donorService.WithAuditPublisher(auditPublisher),
		donorService.WithMetrics(donorMetrics.New()),
	)
	screenings := screeningService.New(st.screenings, st.donors, st.branches, st.deferrals, st.runner,
		screeningService.WithLogger(log),
		screeningService.WithAuditPublisher(auditPublisher),
	)

	loc, err := time.LoadLocation(cfg.Printer.Location)
	if err != nil {
		return nil, fmt.Errorf("printer location: %w", err)
	}
	var transport printerService.Transport
	if cfg.Printer.Addr != "" {
		transport = printerService.NewNetworkPrinter(cfg.Printer.Addr, cfg.Printer.Timeout)
	}
	printer := printerService.New(transport, cfg.Printer.Name,
		printerService.WithLogger(log),
		printerService.WithLocation(loc),
		printerService.WithMetrics(printerMetrics.New()),
	)

	a.handler = httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Metrics:        metrics.New(),
		Health:         health,
		RequestTimeout: requestTimeout,
		RateLimit:      limiter.RateLimit,
	},
		authHandler.New(auth, log, requireAuth, optionalAuth),
		donorHandler.New(donors, log, requireAuth),
		screeningHandler.New(screenings, log, requireAuth, optionalAuth),
		branchHandler.New(branchService.New(st.branches, log), log, requireAuth, requireAdmin),
		deferralHandler.New(deferralService.New(st.deferrals)),
		printerHandler.New(printer, log),
		auditHandler.New(auditPublisher, log, requireAdmin),
	)
	return a, nil
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	// Runs after Shutdown has drained in-flight requests.
	defer a.Close()

	srv := httpserver.New(cfg.Addr, a.handler)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting bloodconnect", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
