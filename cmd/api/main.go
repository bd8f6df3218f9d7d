package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"catalog-orders/internal/cache"
	"catalog-orders/internal/config"
	"catalog-orders/internal/database"
	"catalog-orders/internal/docstore"
	"catalog-orders/internal/handlers"
	"catalog-orders/internal/logging"
	"catalog-orders/internal/metrics"
	"catalog-orders/internal/middleware"
	"catalog-orders/internal/models"
	"catalog-orders/internal/repository"
	"catalog-orders/internal/routes"
	"catalog-orders/internal/service"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("❌ Invalid configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, client, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("❌ Could not open store")
	}

	productCache := cache.New[string, models.Product](cfg.CacheTTL, time.Minute)
	defer productCache.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	catalogMetrics := metrics.NewCatalog(reg)

	productRepo := repository.NewProductRepository(store).WithCache(productCache)
	orderRepo := repository.NewOrderRepository(store)

	products := service.NewProductService(productRepo, catalogMetrics, logger.WithField("component", "products"))
	orders := service.NewOrderService(productRepo, orderRepo, catalogMetrics, logger.WithField("component", "orders"))

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger.WithField("component", "http")),
		middleware.CORS(cfg.CORSOrigins),
	)

	h := routes.Handlers{
		Products: handlers.NewProductHandler(products, logger.WithField("component", "products"), cfg.RequestTimeout),
		Orders:   handlers.NewOrderHandler(orders, logger.WithField("component", "orders"), cfg.RequestTimeout),
		Health:   handlers.NewHealthHandler(store, logger.WithField("component", "health")),
	}
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(metrics.NewHTTP(reg)))
		h.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	routes.RegisterRoutes(router, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithFields(log.Fields{"port": cfg.Port, "store": store.Name()}).Info("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("❌ Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("❌ Forced shutdown")
	}
	if client != nil {
		if err := client.Disconnect(shutdownCtx); err != nil {
			logger.WithError(err).Warn("⚠️ Error disconnecting from MongoDB")
		}
	}
}

// openStore elige el backend. El cliente solo es distinto de nil con MongoDB.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (docstore.Backend, *mongo.Client, error) {
	if cfg.StoreBackend != config.BackendMongo {
		return docstore.NewMemoryStore(), nil, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := database.Connect(connectCtx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.MongoDB)
	database.EnsureIndexes(connectCtx, db, logger.WithField("component", "database"))

	return docstore.NewMongoStore(db), client, nil
}
