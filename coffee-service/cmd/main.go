package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coffeehouse/coffee-service/internal/app/coffee/cache"
	"coffeehouse/coffee-service/internal/app/coffee/config"
	"coffeehouse/coffee-service/internal/app/coffee/handler"
	"coffeehouse/coffee-service/internal/app/coffee/infrastructure"
	"coffeehouse/coffee-service/internal/app/coffee/infrastructure/messaging"
	"coffeehouse/coffee-service/internal/app/coffee/processor"
	"coffeehouse/coffee-service/internal/app/coffee/repository"
	"coffeehouse/coffee-service/internal/app/coffee/service"
	"coffeehouse/pkg/logger"
	"coffeehouse/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(handler.ServiceName, cfg.Log.Level)
	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, handler.ServiceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище
	var (
		repos      repository.Repositories
		dbPinger   handler.Pinger
		closeStore = func() {}
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		repos = repository.NewMemoryRepositories()
		logger.Warn().Msg("Using in-memory storage, data is lost on restart")

		if cfg.Storage.Seed {
			if _, err := repository.SeedRepositories(ctx, repos, time.Now()); err != nil {
				logger.Fatal().Err(err).Msg("Failed to seed catalog")
			}
		}

	default:
		db, err := connectDB(cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		logger.Info().
			Str("host", cfg.Database.Host).
			Str("database", cfg.Database.DBName).
			Msg("Connected to PostgreSQL")

		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to get database handle")
		}
		dbPinger = handler.PingerFunc(sqlDB.PingContext)
		closeStore = func() { _ = sqlDB.Close() }

		if cfg.Storage.AutoMigrate {
			if err := repository.AutoMigrate(db); err != nil {
				logger.Fatal().Err(err).Msg("Failed to migrate database")
			}
			logger.Info().Msg("Database schema is up to date")
		}

		uow := repository.NewUnitOfWork(db)
		if cfg.Storage.Seed {
			if _, err := repository.SeedDefaults(ctx, uow, time.Now()); err != nil {
				logger.Fatal().Err(err).Msg("Failed to seed catalog")
			}
		}
		repos = uow.Repositories()
	}
	defer closeStore()

	// Кеш
	var (
		store       cache.Store
		cachePinger handler.Pinger
	)

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client, err := cache.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Str("address", cfg.Redis.Address()).Msg("Failed to connect to Redis")
		}
		redisStore := cache.NewRedisStore(client, cfg.Redis.InstanceName, cfg.Cache.DefaultExpiry)
		defer redisStore.Close()

		store = redisStore
		cachePinger = redisStore
		logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	default:
		memoryStore, err := cache.NewMemoryStore(cache.MemoryConfig{
			MaxCost:       cfg.Cache.MaxCost,
			DefaultExpiry: cfg.Cache.DefaultExpiry,
			SlidingExpiry: cfg.Cache.SlidingExpiry,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create memory cache")
		}
		defer memoryStore.Close()

		if err := metrics.RegisterCacheHitRatio("memory", memoryStore.Ratio); err != nil {
			logger.Warn().Err(err).Msg("Failed to register cache hit ratio gauge")
		}

		store = memoryStore
		logger.Info().
			Int64("max_cost", cfg.Cache.MaxCost).
			Dur("sliding_expiry", cfg.Cache.SlidingExpiry).
			Msg("Using in-memory cache")
	}

	// События
	var publisher infrastructure.MessagePublisher
	if cfg.Kafka.Enabled {
		kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaProducer.Close()

		publisher = kafkaProducer
		logger.Info().
			Str("brokers", strings.Join(cfg.Kafka.Brokers, ",")).
			Str("topic", cfg.Kafka.Topic).
			Msg("Initialized Kafka producer")
	}

	deps := service.Dependencies{
		Cache:     store,
		Validator: service.NewValidator(),
		Publisher: publisher,
	}
	coffeeService := service.NewCoffeeService(repos.Coffees, deps)
	categoryService := service.NewCategoryService(repos.Categories, deps)
	ingredientService := service.NewIngredientService(repos.Ingredients, deps)

	// Прогрев кеша
	if cfg.Cache.WarmupSchedule != "" {
		scheduler := processor.NewCronScheduler(coffeeService, categoryService, ingredientService)
		if err := scheduler.Start(ctx, cfg.Cache.WarmupSchedule); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Cache.WarmupSchedule).Msg("Failed to start cache warmup scheduler")
		}
		defer scheduler.Stop()
	}

	routerCfg := handler.RouterConfig{APIPrefix: cfg.Server.APIPrefix}
	if cfg.JWT.Enabled {
		routerCfg.Auth = handler.NewAuthMiddleware(cfg.JWT.Secret)
		routerCfg.WriteRole = cfg.JWT.Role
	}

	router := handler.SetupRoutes(routerCfg, handler.Handlers{
		Coffee:     handler.NewCoffeeHandler(coffeeService, cfg.Server.APIPrefix),
		Category:   handler.NewCategoryHandler(categoryService, cfg.Server.APIPrefix),
		Ingredient: handler.NewIngredientHandler(ingredientService, cfg.Server.APIPrefix),
		Health:     handler.NewHealthHandler(handler.ServiceName, dbPinger, cachePinger),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("storage", cfg.Storage.Driver).
			Str("cache", cfg.Cache.Backend).
			Msg("Starting Coffee Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down Coffee Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Coffee Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
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

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
