package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/trackpad/rental/internal/delivery/http"
	"github.com/trackpad/rental/internal/infrastructure/whatsapp"
	"github.com/trackpad/rental/internal/pkg/config"
	"github.com/trackpad/rental/internal/pkg/database"
	"github.com/trackpad/rental/internal/pkg/jwt"
	"github.com/trackpad/rental/internal/pkg/logger"
	"github.com/trackpad/rental/internal/pkg/redis"
	"github.com/trackpad/rental/internal/repository"
	"github.com/trackpad/rental/internal/repository/cached"
	"github.com/trackpad/rental/internal/repository/postgres"
	"github.com/trackpad/rental/internal/usecase/auth"
	"github.com/trackpad/rental/internal/usecase/availability"
	"github.com/trackpad/rental/internal/usecase/booking"
	"github.com/trackpad/rental/internal/usecase/fleet"
	"github.com/trackpad/rental/internal/usecase/reconciler"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting rental API server", map[string]interface{}{
		"version": "1.0.0",
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	var carRepo repository.CarRepository = postgres.NewCarRepository(db)
	var bookingRepo repository.BookingRepository = postgres.NewBookingRepository(db)

	// Redis не обязателен: без него работаем напрямую с PostgreSQL
	cache, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis is not available, caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer cache.Close()
		carRepo = cached.NewCarRepository(carRepo, cache, cfg.Redis.CacheTTL)
		bookingRepo = cached.NewBookingRepository(bookingRepo, cache)
		log.Info("Redis cache enabled", map[string]interface{}{
			"addr": cfg.Redis.Address(),
			"ttl":  cfg.Redis.CacheTTL.String(),
		})
	}

	log.Info("Repositories initialized")

	// =========================================================================
	// Создание WhatsApp notifier
	// =========================================================================

	notifier := whatsapp.NewClient(
		cfg.WhatsApp.APIKey,
		cfg.WhatsApp.AdminPhone,
		cfg.WhatsApp.ServiceName,
		cfg.WhatsApp.Timeout,
	)

	if cfg.WhatsApp.APIKey == "" || cfg.WhatsApp.AdminPhone == "" {
		log.Warn("WhatsApp notifications disabled: CALLMEBOT_API_KEY or WHATSAPP_ADMIN_PHONE not set")
	}

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	log.Info("JWT token service initialized")

	// =========================================================================
	// Создание use case services
	// =========================================================================

	authService := auth.NewService(userRepo, refreshTokenRepo, tokenService, cfg.JWT.RefreshExpiry, log)
	availabilityService := availability.NewService(carRepo, bookingRepo, log)
	bookingService := booking.NewService(carRepo, bookingRepo, notifier, log)
	fleetService := fleet.NewService(carRepo, bookingRepo, log)
	reconcilerService := reconciler.NewService(carRepo, bookingRepo, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers
	// =========================================================================

	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	carHandler := deliveryHTTP.NewCarHandler(fleetService, availabilityService, log)
	bookingHandler := deliveryHTTP.NewBookingHandler(bookingService, log)
	adminHandler := deliveryHTTP.NewAdminHandler(fleetService, reconcilerService, bookingService, log)

	log.Info("HTTP handlers initialized")

	// =========================================================================
	// Создание и настройка HTTP router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		authHandler,
		carHandler,
		bookingHandler,
		adminHandler,
		tokenService,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Запуск фоновой сверки статусов автопарка
	// =========================================================================

	reconcilerCtx, stopReconciler := context.WithCancel(ctx)
	defer stopReconciler()

	go reconcilerService.Run(reconcilerCtx, cfg.Reconciler.Interval)

	log.Info("Fleet status reconciler started", map[string]interface{}{
		"interval": cfg.Reconciler.Interval.String(),
	})

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	// Канал для получения сигналов операционной системы
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Блокируемся до получения сигнала или ошибки сервера
	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		// Останавливаем фоновую сверку
		stopReconciler()

		// Даем серверу 30 секунд на graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			// Принудительное закрытие
			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
