package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/cherryapp/cherry/internal/app"
	"github.com/cherryapp/cherry/internal/auth"
	"github.com/cherryapp/cherry/internal/catalog"
	"github.com/cherryapp/cherry/internal/clients"
	"github.com/cherryapp/cherry/internal/ledger"
	"github.com/cherryapp/cherry/internal/migration"
	"github.com/cherryapp/cherry/internal/orders"
	"github.com/cherryapp/cherry/internal/platform/db"
	"github.com/cherryapp/cherry/internal/platform/locks"
	"github.com/cherryapp/cherry/internal/suppliers"
)

// supplierDirectory adapts the suppliers service for the packages that only
// need to resolve a supplier's name.
type supplierDirectory struct {
	svc *suppliers.Service
}

func (d supplierDirectory) SupplierName(ctx context.Context, id int64) (string, error) {
	supplier, err := d.svc.GetSupplier(ctx, id)
	if err != nil {
		if errors.Is(err, suppliers.ErrNotFound) {
			return "", catalog.ErrSupplierNotFound
		}
		return "", err
	}
	return supplier.Name, nil
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	locker := locks.NewLocker(redisClient, cfg.LockTTL)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(auth.NewRepository(dbpool), tokens)
	authMiddleware := auth.Middleware{Tokens: tokens}
	authHandler := auth.NewHandler(logger, authService, authMiddleware)

	clientsService := clients.NewService(clients.NewRepository(dbpool))
	clientsHandler := clients.NewHandler(logger, clientsService)

	suppliersService := suppliers.NewService(suppliers.NewRepository(dbpool))
	suppliersHandler := suppliers.NewHandler(logger, suppliersService)
	directory := supplierDirectory{svc: suppliersService}

	catalogService := catalog.NewService(catalog.NewRepository(dbpool), directory)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	ordersService := orders.NewService(orders.NewRepository(dbpool), catalogService, directory, locker)
	ordersHandler := orders.NewHandler(logger, ordersService)

	ledgerService := ledger.NewService(ledger.NewRepository(dbpool))
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	migrationService := migration.NewService(clientsService, suppliersService, ledgerService, migration.NewRepository(dbpool))
	migrationHandler := migration.NewHandler(logger, migrationService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthMiddleware:   authMiddleware,
		AuthHandler:      authHandler,
		ClientsHandler:   clientsHandler,
		SuppliersHandler: suppliersHandler,
		CatalogHandler:   catalogHandler,
		OrdersHandler:    ordersHandler,
		LedgerHandler:    ledgerHandler,
		MigrationHandler: migrationHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
