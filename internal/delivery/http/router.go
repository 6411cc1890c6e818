package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/trackpad/rental/internal/delivery/http/middleware"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/config"
	"github.com/trackpad/rental/internal/pkg/jwt"
	"github.com/trackpad/rental/internal/pkg/logger"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler    *AuthHandler
	carHandler     *CarHandler
	bookingHandler *BookingHandler
	adminHandler   *AdminHandler
	tokenService   *jwt.TokenService
	config         *config.Config
	logger         logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	carHandler *CarHandler,
	bookingHandler *BookingHandler,
	adminHandler *AdminHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		carHandler:     carHandler,
		bookingHandler: bookingHandler,
		adminHandler:   adminHandler,
		tokenService:   tokenService,
		config:         config,
		logger:         logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
			r.Post("/refresh", rt.authHandler.Refresh)
		})

		// Каталог машин открыт всем - витрина
		r.Route("/cars", func(r chi.Router) {
			r.Get("/", rt.carHandler.ListCars)
			r.Get("/{id}", rt.carHandler.GetCarByID)
			r.Get("/{id}/availability", rt.carHandler.CheckAvailability)
		})

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			// Current user endpoints
			r.Get("/auth/me", rt.authHandler.GetMe)

			// Booking endpoints
			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", rt.bookingHandler.CreateBooking)
				r.Get("/me", rt.bookingHandler.GetMyBookings)
			})

			// Admin only endpoints
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))

				r.Route("/cars", func(r chi.Router) {
					r.Post("/", rt.adminHandler.AddCar)
					r.Put("/{id}", rt.adminHandler.EditCar)
					r.Delete("/{id}", rt.adminHandler.DeleteCar)
					r.Delete("/{carID}/bookings/{bookingID}", rt.adminHandler.UnbookCar)
				})

				r.Get("/bookings", rt.adminHandler.ListBookings)
				r.Post("/reconcile", rt.adminHandler.Reconcile)
			})
		})
	})

	return r
}
