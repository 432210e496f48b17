package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"carshine/internal/app/store/config"
	"carshine/internal/app/store/handler"
	whttp "carshine/internal/app/store/infrastructure/http"
	"carshine/internal/app/store/infrastructure/messaging"
	"carshine/internal/app/store/processor"
	"carshine/internal/app/store/repository"
	"carshine/internal/app/store/service"
	"carshine/internal/app/store/util"
	"carshine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("store", cfg.LogLevel)

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	// The stats repository runs its aggregate SQL through pgx against
	// the same database.
	pool, err := pgxpool.New(context.Background(), cfg.Database.URL())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create pgx pool")
	}
	defer pool.Close()

	redisClient, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Address()).Msg("Connected to Redis")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")

	webhookClient := whttp.NewWebhookClient(cfg.Webhook.URL, cfg.Webhook.Token, cfg.Webhook.TimeoutSec)
	if cfg.Webhook.URL == "" {
		logger.Warn().Msg("Reservation webhook URL not configured, bookings will stay pending")
	}

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	userRepo := repository.NewUserRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	statsRepo := repository.NewStatsRepository(pool)

	jwtManager := util.NewJWTManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTTLHours)*time.Hour)

	catalogService := service.NewCatalogService(productRepo, categoryRepo, redisClient)
	userService := service.NewUserService(userRepo, jwtManager)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, productRepo, kafkaProducer)
	reviewService := service.NewReviewService(reviewRepo, productRepo, kafkaProducer)
	dashboardService := service.NewDashboardService(statsRepo)
	reservationService := service.NewReservationService(webhookClient)

	authMiddleware := handler.NewAuthMiddleware(jwtManager)
	handlers := &handler.Handlers{
		Catalog:     handler.NewCatalogHandler(catalogService, cfg.Upload),
		User:        handler.NewUserHandler(userService),
		Order:       handler.NewOrderHandler(orderService),
		Review:      handler.NewReviewHandler(reviewService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Reservation: handler.NewReservationHandler(reservationService),
	}

	router := handler.SetupRoutes(handlers, authMiddleware, cfg.Upload.Dir)

	scheduler := processor.NewCronScheduler(orderService, time.Duration(cfg.Cron.ExpireAfterHr)*time.Hour)
	if err := scheduler.Start(context.Background(), cfg.Cron.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start order expiry scheduler")
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Store Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Store Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Store Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if pingErr := sqlDB.Ping(); pingErr != nil {
				err = pingErr
			} else {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
