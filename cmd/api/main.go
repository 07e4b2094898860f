package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/summary"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := timezone.Location(cfg.ShopTimezone)
	m := metrics.New("barber")
	health := map[string]handlers.Pinger{}

	// ======================================================
	// STORE + AUDIT
	// ======================================================
	var (
		store     domain.Store
		sink      audit.Sink = audit.NewZapSink(zlog)
		auditLogs handlers.AuditLogLister
	)

	switch cfg.StoreDriver {
	case "postgres":
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		store = repository.NewSlotGormStore(db)
		auditLogger := audit.New(db)
		sink, auditLogs = auditLogger, auditLogger
		health["postgres"] = sqlDB.PingContext

	case "firestore":
		client, err := dbpkg.NewFirestore(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		store = repository.NewSlotFirestoreStore(client, cfg.FirestoreCollection, loc)
		health["firestore"] = firestorePing(client, cfg.FirestoreCollection)

	case "memory":
		zlog.Warn("using in-memory store; reservations are lost on restart")
		store = repository.NewSlotMemoryStore()

	default:
		return errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}

	store = repository.NewRetryStore(store, cfg.StoreRetryAttempts, cfg.StoreRetryBase, zlog, m)

	auditDispatcher := audit.NewDispatcher(sink, zlog)
	defer auditDispatcher.Close()

	// ======================================================
	// VIEW CACHE
	// ======================================================
	var viewCache ucBooking.ViewCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			zlog.Warn("redis unavailable, day view cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			viewCache = cache.NewDayViewRedisCache(client, cfg.ViewCacheTTL)
			health["redis"] = redisPing(client)
		}
	}

	// ======================================================
	// NOTIFICATIONS
	// ======================================================
	var notifier notify.Notifier = notify.NewLogNotifier(zlog)
	if cfg.SMTPEnabled() {
		notifier = notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.NotifyTo)
	}
	notifyDispatcher := notify.NewDispatcher(notifier, zlog)
	defer notifyDispatcher.Close()

	// ======================================================
	// DOMAIN + USE CASES
	// ======================================================
	calendar := domain.DefaultCalendar()
	period, err := domain.ParsePeriod(cfg.SpecialPeriod)
	if err != nil {
		return err
	}
	calendar.Special = period

	catalog := domain.DefaultCatalog()

	policy, err := ucBooking.ParsePolicy(cfg.BarberPolicy)
	if err != nil {
		return err
	}

	resolver := ucBooking.NewResolver(store, calendar, catalog, viewCache, zlog, m)
	booker := ucBooking.NewBooker(store, resolver, calendar, catalog, policy, auditDispatcher, notifyDispatcher, zlog, m)
	canceller := ucBooking.NewCanceller(store, resolver, calendar, catalog, auditDispatcher, notifyDispatcher, zlog, m)
	lookup := ucBooking.NewLookup(store, catalog)

	renderer, err := summary.NewRenderer(cfg.SummaryFormat)
	if err != nil {
		return err
	}

	var publisher handlers.CardPublisher
	if cfg.S3Enabled() {
		publisher = summary.NewS3Publisher(summary.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		Config:  cfg,
		Log:     zlog,
		Metrics: m,
		Public: handlers.PublicDeps{
			Catalog:   catalog,
			Resolver:  resolver,
			Booker:    booker,
			Canceller: canceller,
			Lookup:    lookup,
			Renderer:  renderer,
			Publisher: publisher,
			Location:  loc,
		},
		Health:    health,
		AuditLogs: auditLogs,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()), zap.String("store", cfg.StoreDriver))
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

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func redisPing(client *redis.Client) handlers.Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// firestorePing reads at most one document of the collection.
func firestorePing(client *firestore.Client, collection string) handlers.Pinger {
	return func(ctx context.Context) error {
		_, err := client.Collection(collection).Limit(1).Documents(ctx).GetAll()
		return err
	}
}
