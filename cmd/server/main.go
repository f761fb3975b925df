package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	accountingapp "github.com/retailops/backend/internal/application/accounting"
	billingapp "github.com/retailops/backend/internal/application/billing"
	catalogapp "github.com/retailops/backend/internal/application/catalog"
	companyapp "github.com/retailops/backend/internal/application/company"
	inventoryapp "github.com/retailops/backend/internal/application/inventory"
	partnerapp "github.com/retailops/backend/internal/application/partner"
	posapp "github.com/retailops/backend/internal/application/pos"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/auth"
	"github.com/retailops/backend/internal/infrastructure/cache"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/infrastructure/persistence"
	"github.com/retailops/backend/internal/interfaces/http/handler"
	"github.com/retailops/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting retail backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Gateway callbacks dedupe through Redis when available, otherwise an
	// in-process store. The database unique constraint is the backstop
	// either way.
	var idemStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		idemStore = redisStore
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idemStore = cache.NewInMemoryIdempotencyStore()
		log.Info("Using in-memory idempotency store")
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	scope := persistence.NewGormTransactionScope(db.DB)
	purger := persistence.NewGormTenantPurger(db.DB)
	jwtService := auth.NewJWTService(cfg.JWT)

	invoiceService := billingapp.NewInvoiceService(scope, log)
	paymentService := billingapp.NewPaymentService(scope, log)
	callbackService := billingapp.NewCallbackService(scope, idemStore, log)
	companyService := companyapp.NewService(scope, purger, log)
	catalogService := catalogapp.NewService(scope, log)
	partnerService := partnerapp.NewService(scope, log)
	stockService := inventoryapp.NewStockService(scope, log)
	ledgerService := accountingapp.NewLedgerService(scope, log)
	taxRateService := accountingapp.NewTaxRateService(scope, log)
	cartService := posapp.NewCartService(scope, invoiceService, paymentService, log)

	engine := router.New(cfg, jwtService, log, router.Handlers{
		Company:         handler.NewCompanyHandler(companyService, log),
		Catalog:         handler.NewCatalogHandler(catalogService, log),
		Partner:         handler.NewPartnerHandler(partnerService, log),
		Invoice:         handler.NewInvoiceHandler(invoiceService, log),
		Payment:         handler.NewPaymentHandler(paymentService, log),
		PaymentCallback: handler.NewPaymentCallbackHandler(callbackService, log),
		Stock:           handler.NewStockHandler(stockService, log),
		Accounting:      handler.NewAccountingHandler(ledgerService, taxRateService, log),
		Cart:            handler.NewCartHandler(cartService, log),
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
