package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sgcommute/service-fareroute/internal/application"
	"github.com/sgcommute/service-fareroute/internal/config"
	"github.com/sgcommute/service-fareroute/internal/datamall"
	"github.com/sgcommute/service-fareroute/internal/domain/fare"
	routeEvents "github.com/sgcommute/service-fareroute/internal/events"
	"github.com/sgcommute/service-fareroute/internal/handler"
	"github.com/sgcommute/service-fareroute/internal/onemap"
	"github.com/sgcommute/service-fareroute/internal/platform/auth"
	"github.com/sgcommute/service-fareroute/internal/platform/database"
	"github.com/sgcommute/service-fareroute/internal/platform/health"
	"github.com/sgcommute/service-fareroute/internal/platform/kafka"
	"github.com/sgcommute/service-fareroute/internal/platform/logger"
	"github.com/sgcommute/service-fareroute/internal/platform/middleware"
	"github.com/sgcommute/service-fareroute/internal/repository"
)

const serviceName = "service-fareroute"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.Bool("history", cfg.HistoryEnabled()),
		zap.Bool("events", cfg.EventsEnabled()),
		zap.Bool("cache", cfg.CacheEnabled()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load fare table
	fareTable, err := fare.LoadFareTable(cfg.FareTablePath)
	if err != nil {
		log.Fatal("failed to load fare table", zap.Error(err))
	}
	estimator := fare.NewCabFareEstimator(fareTable)
	log.Info("fare table loaded",
		zap.Int("entries", fareTable.Len()),
		zap.Float64("flag_down", estimator.FlagDown()),
	)

	// Initialize upstream clients
	oneMapClient := onemap.NewClient(cfg.OneMap.Token, cfg.OneMap.Timeout, onemap.WithBaseURL(cfg.OneMap.BaseURL))
	dataMallClient := datamall.NewClient(cfg.DataMall.AccountKey, cfg.DataMall.Timeout, datamall.WithBaseURL(cfg.DataMall.BaseURL))
	if cfg.DataMall.AccountKey == "" {
		log.Warn("LTA_API_KEY is not set, taxi availability will fail")
	}

	var geocoder application.Geocoder = oneMapClient
	var taxiSource application.TaxiPositionSource = dataMallClient

	// Connect to redis cache
	if cfg.CacheEnabled() {
		redisClient, err := database.ConnectRedis(ctx, cfg.RedisConfig.URL, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()

		geocoder = application.NewCachedGeocoder(geocoder, redisClient, cfg.RedisConfig.GeocodeTTL, log)
		taxiSource = application.NewCachedTaxiPositions(taxiSource, redisClient, cfg.RedisConfig.TaxiTTL, log)
	}

	// Connect to database
	var (
		db             *gorm.DB
		historyService *application.TripHistoryService
	)
	if cfg.HistoryEnabled() {
		db, err = database.Connect(cfg.DBConfig, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}

		// Run database migrations
		if cfg.AppEnv == "development" {
			if err := db.AutoMigrate(&repository.TripQueryModel{}); err != nil {
				log.Fatal("failed to run auto-migration", zap.Error(err))
			}
			log.Info("database migration completed (dev auto-migrate)")
		} else {
			if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
				log.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		tripRepo := repository.NewGormTripQueryRepository(db)
		historyService = application.NewTripHistoryService(tripRepo, log)
	}

	// Initialize Kafka producer and consumer
	var (
		publisher application.EventPublisher
		recorder  application.TripRecorder
	)
	if historyService != nil {
		recorder = historyService
	}
	if cfg.EventsEnabled() {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = kafkaProducer

		if historyService != nil {
			groupID := cfg.KafkaConfig.GroupPrefix + "trip-history"
			routeConsumer := routeEvents.NewRouteEventConsumer(
				cfg.KafkaConfig.Brokers,
				groupID,
				historyService,
				log,
			)
			defer func() { _ = routeConsumer.Close() }()

			go func() {
				log.Info("starting route event consumer")
				if err := routeConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("route event consumer error", zap.Error(err))
				}
			}()
		}
	}

	// Initialize application services
	aggregator := application.NewRouteAggregator(oneMapClient, estimator)
	fareRouteService := application.NewFareRouteService(geocoder, aggregator, publisher, recorder, log)
	taxiService := application.NewTaxiService(taxiSource, log)

	// Initialize HTTP handlers
	fareRouteHandler := handler.NewFareRouteHandler(fareRouteService)
	taxiHandler := handler.NewTaxiHandler(taxiService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	fareRouteHandler.RegisterRoutes(&router.RouterGroup)
	taxiHandler.RegisterRoutes(&router.RouterGroup)

	// Register admin handler routes
	if historyService != nil && cfg.AdminEnabled() {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, 15*time.Minute)
		adminTripHandler := handler.NewAdminTripHandler(historyService)
		adminTripHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	} else {
		log.Info("admin routes disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
