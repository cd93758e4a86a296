package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-quotes/internal/application"
	"github.com/recharge-travels/service-quotes/internal/config"
	driverDomain "github.com/recharge-travels/service-quotes/internal/domain/driver"
	"github.com/recharge-travels/service-quotes/internal/domain/pricing"
	"github.com/recharge-travels/service-quotes/internal/domain/quote"
	quoteEvents "github.com/recharge-travels/service-quotes/internal/events"
	"github.com/recharge-travels/service-quotes/internal/handler"
	"github.com/recharge-travels/service-quotes/internal/maps"
	"github.com/recharge-travels/service-quotes/internal/repository"
	"github.com/recharge-travels/service-quotes/pkg/auth"
	"github.com/recharge-travels/service-quotes/pkg/database"
	"github.com/recharge-travels/service-quotes/pkg/health"
	"github.com/recharge-travels/service-quotes/pkg/kafka"
	"github.com/recharge-travels/service-quotes/pkg/logger"
	"github.com/recharge-travels/service-quotes/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-quotes")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-quotes",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&repository.BookingModel{},
		&repository.AvailabilityModel{},
		&repository.BlockedPeriodModel{},
		&repository.AvailabilitySettingsModel{},
		&repository.SettlementModel{},
	); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}
	log.Info("database migration completed")

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Pricing catalog
	catalog := pricing.DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		log.Fatal("invalid pricing catalog", zap.Error(err))
	}

	// Route resolution: tabulated distances first, then Redis-cached maps
	// lookups when an API key is configured.
	var (
		routeProvider pricing.RouteProvider
		routeCache    pricing.RouteCache
	)
	if cfg.MapsAPIKey != "" {
		provider, err := maps.NewRouteProvider(cfg.MapsAPIKey)
		if err != nil {
			log.Fatal("failed to create maps client", zap.Error(err))
		}
		routeProvider = provider

		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unavailable, route lookups will not be cached", zap.Error(err))
		} else {
			routeCache = maps.NewRouteCache(redisClient, log)
		}
		pingCancel()
	} else {
		log.Info("no maps API key configured, using tabulated route distances only")
	}
	routeResolver := pricing.NewRouteResolver(catalog, routeProvider, routeCache, 2*time.Second, log)
	calculator := quote.NewCalculator(catalog, routeResolver)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	availabilityRepo := repository.NewGormAvailabilityRepository(db)
	settlementRepo := repository.NewGormSettlementRepository(db)

	// Initialize application services
	quoteService := application.NewQuoteService(catalog, calculator, log)
	bookingService := application.NewBookingService(bookingRepo, calculator, kafkaProducer, log)
	driverService := application.NewDriverService(
		availabilityRepo,
		settlementRepo,
		driverDomain.DefaultCommissionSettings(),
		log,
	)

	// Initialize and start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "quotes-service"
	paymentConsumer := quoteEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	driverHandler := handler.NewDriverHandler(driverService)
	adminHandler := handler.NewAdminHandler(bookingService, driverService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	// Unknown fields in request bodies are rejected, not silently dropped.
	gin.EnableJsonDecoderDisallowUnknownFields()
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-quotes")
	healthHandler.RegisterRoutes(router)

	// Register routes
	quoteHandler.RegisterRoutes(&router.RouterGroup)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	driverHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-quotes...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-quotes stopped")
}
