// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/cart"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/domain/checkout"
	"github.com/your-org/sithaphal-storefront/internal/domain/order"
	"github.com/your-org/sithaphal-storefront/internal/domain/payment"
	"github.com/your-org/sithaphal-storefront/internal/domain/wishlist"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/storage"
	"github.com/your-org/sithaphal-storefront/internal/interfaces/http"
	"github.com/your-org/sithaphal-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/sithaphal-storefront/internal/interfaces/http/routes"
	"github.com/your-org/sithaphal-storefront/internal/pkg/auth"
	"github.com/your-org/sithaphal-storefront/internal/pkg/email"
	"github.com/your-org/sithaphal-storefront/internal/pkg/logger"
	"github.com/your-org/sithaphal-storefront/internal/pkg/pdf"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront")

	// run owns every connection so its deferred closes execute before exit
	if err := run(cfg, log); err != nil {
		log.Fatal(err)
	}
	log.Info("Server shutdown completed")
}

func run(cfg *config.Config, log *logrus.Logger) error {
	checks := map[string]http.HealthChecker{}

	// Postgres is optional: catalog and orders fall back to in-process data
	var db *gorm.DB
	if cfg.Database.Enabled {
		conn, err := postgres.NewConnection(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()
		checks["database"] = conn
		db = conn.GetDB()

		migration := postgres.NewMigration(db, log)
		if err := migration.RunAutoMigrations(); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.WithError(err).Warn("Index creation failed")
		}
		if cfg.Database.SeedCatalog {
			if err := migration.SeedCatalog(); err != nil {
				log.WithError(err).Warn("Catalog seeding failed")
			}
		}
	}

	var redisClient *goredis.Client
	var slot storage.Slot
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		client, err := redis.NewConnection(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer client.Close()
		checks["redis"] = client
		redisClient = client.GetClient()
		slot = storage.NewRedisSlot(redisClient, cfg.Storage.TTL)
	default:
		log.Warn("Using in-memory storage, carts will not survive a restart")
		slot = storage.NewMemorySlot()
	}

	var source catalog.Source = catalog.NewStaticSource()
	if cfg.Catalog.Source == config.CatalogSourcePostgres {
		source = catalog.NewGormSource(db)
	}
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	cat := catalog.LoadCatalog(loadCtx, source, log)
	cancelLoad()

	// orders stays a nil interface when there is no database
	var orders order.Repository
	if db != nil {
		orders = order.NewGormRepository(db)
	}

	cartService := cart.NewService(cat, slot, cfg, log)
	wishlistService := wishlist.NewService(cat, slot, cfg, cartService, log)
	checkoutService, err := checkout.NewService(
		cfg,
		cartService,
		orders,
		payment.NewMockGateway(cfg.Checkout.PaymentDelay, log),
		slot,
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to configure checkout: %w", err)
	}
	if cfg.Email.Enabled {
		checkoutService.WithNotifier(email.NewService(cfg, log))
	}

	productHandler, err := handlers.NewProductHandler(cat, cfg)
	if err != nil {
		return fmt.Errorf("failed to configure products: %w", err)
	}

	server := http.NewServer(cfg, log, &routes.Handlers{
		Products: productHandler,
		Cart:     handlers.NewCartHandler(cartService, log),
		Wishlist: handlers.NewWishlistHandler(wishlistService, log),
		Checkout: handlers.NewCheckoutHandler(checkoutService, log),
		Receipts: handlers.NewReceiptHandler(checkoutService, pdf.NewService(cfg), log),
	}, auth.NewSessionManager(cfg), redisClient, checks)

	log.WithField("products", cat.Len()).Info("All systems operational")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}

	log.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}
	return nil
}
