package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalogpg "github.com/dwikikusuma/storefront/internal/catalog/infra/postgres"
	"github.com/dwikikusuma/storefront/internal/catalog/infra/yamlfile"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/memory"
	checkoutredis "github.com/dwikikusuma/storefront/internal/checkout/infra/redis"
	"github.com/dwikikusuma/storefront/internal/storefront"
	"github.com/dwikikusuma/storefront/internal/storefront/httpx"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/dwikikusuma/storefront/pkg/postgres"
	"github.com/dwikikusuma/storefront/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Catalog
	catalogSvc, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Error("catalog load failed", slog.Any("err", err), slog.String("source", cfg.CatalogSource))
		os.Exit(1)
	}
	log.Info("catalog loaded", slog.Int("products", catalogSvc.Len()), slog.String("source", cfg.CatalogSource))

	// Checkout handoff
	slot, closeSlot, err := handoffStore(cfg)
	if err != nil {
		log.Error("handoff store failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer closeSlot()

	checkoutSvc := checkoutapp.NewService(slot, adapter.NewCatalogServiceReader(catalogSvc), checkoutapp.Options{
		Redirect: cfg.CheckoutURL,
		TTL:      cfg.HandoffTTL,
	}, log)

	// Sessions and transport
	money := storefront.Money{Currency: cfg.Currency}
	sessions := storefront.NewSessions(storefront.Deps{
		Catalog:    catalogSvc,
		Checkout:   checkoutSvc,
		Money:      money,
		HandoffKey: cfg.HandoffKey,
		ToastDelay: cfg.ToastDelay,
		Log:        log,
	}, storefront.SessionsOptions{
		TTL: cfg.SessionTTL,
		Max: cfg.MaxSessions,
	})
	defer sessions.Close()
	go sessions.Run(ctx)

	router := httpx.NewRouter(httpx.NewHandler(sessions, checkoutSvc, money, log), log)

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("listen failed", slog.Any("err", err), slog.String("addr", grpcAddr))
		os.Exit(1)
	}

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("storefront", healthpb.HealthCheckResponse_SERVING)
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", httpAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		log.Info("grpc health starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")
	healthSrv.Shutdown()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := server.Shutdown(stopCtx); err != nil {
		log.Warn("http shutdown", slog.Any("err", err))
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopCtx.Done():
		log.Warn("graceful stop timeout, forcing stop")
		grpcServer.Stop()
	case <-stopped:
	}

	wg.Wait()
	log.Info("bye")
}

func loadCatalog(ctx context.Context, cfg config.Config) (*catalogapp.Service, error) {
	switch cfg.CatalogSource {
	case config.CatalogEmbedded:
		return catalogapp.Load(ctx, yamlfile.Default())
	case config.CatalogFile:
		return catalogapp.Load(ctx, yamlfile.FromFile(cfg.CatalogFile))
	case config.CatalogPostgres:
		db, err := openDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		// The catalog is a snapshot taken at startup; the pool is not needed after.
		defer db.Close()
		return catalogapp.Load(ctx, catalogpg.NewProductRepo(db))
	default:
		return nil, errors.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}

func openDB(ctx context.Context, pc config.PostgresConfig) (*sql.DB, error) {
	return postgres.Open(ctx, postgres.Config{
		Host:    pc.Host,
		Port:    pc.Port,
		User:    pc.User,
		Pass:    pc.Password,
		DB:      pc.DB,
		SSLMode: pc.SSLMode,
	})
}

func handoffStore(cfg config.Config) (checkoutapp.HandoffStore, func(), error) {
	switch cfg.HandoffBackend {
	case config.HandoffMemory:
		return memory.NewHandoffStore(), func() {}, nil
	case config.HandoffRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return checkoutredis.NewHandoffStore(client, ""), func() { _ = client.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unknown handoff backend %q", cfg.HandoffBackend)
	}
}
