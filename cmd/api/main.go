package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartdine/restaurant-service/internal/application"
	"github.com/smartdine/restaurant-service/internal/infrastructure/events"
	mongoRepo "github.com/smartdine/restaurant-service/internal/infrastructure/mongodb"
	"github.com/smartdine/restaurant-service/pkg/kafka"
	"github.com/smartdine/restaurant-service/pkg/locking"
	"github.com/smartdine/restaurant-service/pkg/logging"
	"github.com/smartdine/restaurant-service/pkg/metrics"
	"github.com/smartdine/restaurant-service/pkg/middleware"
	"github.com/smartdine/restaurant-service/pkg/mongodb"
	"github.com/smartdine/restaurant-service/pkg/tracing"
)

const serviceName = "restaurant-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting restaurant-service API")

	config := loadConfig()
	ctx := context.Background()

	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		// Continue without tracing rather than refusing to start.
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	kafkaProducer := kafka.NewProducer(config.Kafka)
	defer kafkaProducer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	var tracer trace.Tracer
	if tracerProvider != nil {
		tracer = tracerProvider.Tracer()
	}

	db := mongoClient.Database()
	ingredientRepo := mongoRepo.NewIngredientRepository(db)
	ledgerRepo := mongoRepo.NewLedgerRepository(db)
	recipeRepo := mongoRepo.NewRecipeRepository(db)
	menuRepo := mongoRepo.NewMenuRepository(db)
	orderRepo := mongoRepo.NewOrderRepository(db)
	cartRepo := mongoRepo.NewCartRepository(db)
	tableRepo := mongoRepo.NewTableRepository(db)
	reservationRepo := mongoRepo.NewReservationRepository(db)
	transactor := mongoRepo.NewTransactor(mongoClient, tracer, m, logger.WithComponent("mongodb"))

	publisher := events.NewKafkaPublisher(kafkaProducer, tracer, m, logger.WithComponent("events"))

	// Separate lock spaces: ingredient IDs for stock movement, table
	// IDs for reservation slots.
	stockLocks := locking.NewKeyedMutex()
	tableLocks := locking.NewKeyedMutex()
	orderLocks := locking.NewKeyedMutex()

	inventoryService := application.NewInventoryApplicationService(ingredientRepo, ledgerRepo, recipeRepo, transactor, publisher, logger)
	recipeService := application.NewRecipeApplicationService(recipeRepo, menuRepo, ingredientRepo, logger)
	availabilityService := application.NewAvailabilityService(recipeService, ingredientRepo, logger)
	stockService := application.NewStockTransactionService(ingredientRepo, ledgerRepo, recipeService, transactor, stockLocks, publisher, m, logger)
	orderService := application.NewOrderApplicationService(orderRepo, menuRepo, tableRepo, stockService, orderLocks, m, logger)
	cartService := application.NewCartApplicationService(cartRepo, menuRepo, orderService, logger)
	reservationService := application.NewReservationApplicationService(reservationRepo, tableRepo, tableLocks, m, logger)

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	if tracerProvider != nil {
		router.Use(middleware.Tracing(tracerProvider))
	}
	router.Use(middleware.Metrics(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api/v1")
	registerIngredientRoutes(api, inventoryService, logger)
	registerMenuRoutes(api, recipeService, availabilityService, logger)
	registerStockRoutes(api, stockService, logger)
	registerOrderRoutes(api, orderService, logger)
	registerCartRoutes(api, cartService, logger)
	registerReservationRoutes(api, reservationService, logger)

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = getEnv("MONGODB_URI", "mongodb://localhost:27017")
	mongoConfig.Database = getEnv("MONGODB_DATABASE", "smartdine")
	mongoConfig.ReplicaSet = getEnv("MONGODB_REPLICA_SET", "")

	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.Brokers = []string{getEnv("KAFKA_BROKERS", "localhost:9092")}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		MongoDB:    mongoConfig,
		Kafka:      kafkaConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
