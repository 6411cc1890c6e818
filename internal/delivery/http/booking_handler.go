package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/trackpad/rental/internal/delivery/http/middleware"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/logger"
	"github.com/trackpad/rental/internal/usecase/booking"
)

// BookingService определяет интерфейс для сервиса бронирований
type BookingService interface {
	CreateBooking(ctx context.Context, actor *domain.Actor, req *booking.CreateBookingRequest) (*domain.Booking, error)
	GetBookingsByUser(ctx context.Context, actor *domain.Actor) ([]*domain.Booking, error)
}

// BookingHandler обрабатывает запросы бронирования автомобилей
type BookingHandler struct {
	bookingService BookingService
	logger         logger.Logger
}

// NewBookingHandler создает новый handler
func NewBookingHandler(bookingService BookingService, logger logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateBooking создает новое бронирование
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actor := middleware.GetActor(r.Context())

	b, err := h.bookingService.CreateBooking(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case domain.ErrUnauthorized:
			respondError(w, http.StatusUnauthorized, "You must be logged in to book a car")
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		case domain.ErrCarAlreadyBooked:
			respondError(w, http.StatusConflict, "This car is already booked")
		case domain.ErrInvalidBookingData, domain.ErrInvalidCustomerName, domain.ErrInvalidEmail,
			domain.ErrInvalidPhone, domain.ErrInvalidDate, domain.ErrInvalidDateRange,
			domain.ErrStartDateInPast:
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create booking", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create booking")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    bookingView(b),
	})
}

// GetMyBookings возвращает бронирования текущего пользователя
// GET /api/v1/bookings/me
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	bookings, err := h.bookingService.GetBookingsByUser(r.Context(), actor)
	if err != nil {
		if err == domain.ErrUnauthorized {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.logger.Error("Failed to get user bookings", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get bookings")
		return
	}

	views := make([]map[string]interface{}, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, bookingView(b))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    views,
	})
}

// bookingView добавляет к бронированию вычисляемый статус
// Статус не хранится в БД и всегда выводится от текущей даты
func bookingView(b *domain.Booking) map[string]interface{} {
	return map[string]interface{}{
		"id":             b.ID,
		"car_id":         b.CarID,
		"user_id":        b.UserID,
		"customer_name":  b.CustomerName,
		"customer_email": b.CustomerEmail,
		"customer_phone": b.CustomerPhone,
		"start_date":     b.StartDate.Format(domain.DateFormat),
		"end_date":       b.EndDate.Format(domain.DateFormat),
		"total_price":    b.TotalPrice,
		"status":         b.Status(domain.Today()),
		"created_at":     b.CreatedAt,
	}
}
