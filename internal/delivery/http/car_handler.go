package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// CarReader определяет интерфейс чтения автопарка
type CarReader interface {
	GetCarByID(ctx context.Context, carID uuid.UUID) (*domain.Car, error)
	ListCars(ctx context.Context, limit, offset int) ([]*domain.Car, error)
}

// AvailabilityChecker определяет интерфейс проверки доступности
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error)
}

// CarHandler обрабатывает публичные запросы витрины автопарка
type CarHandler struct {
	fleetService CarReader
	availability AvailabilityChecker
	logger       logger.Logger
}

// NewCarHandler создает новый handler
func NewCarHandler(fleetService CarReader, availability AvailabilityChecker, logger logger.Logger) *CarHandler {
	return &CarHandler{
		fleetService: fleetService,
		availability: availability,
		logger:       logger,
	}
}

// ListCars возвращает витрину автопарка
// GET /api/v1/cars
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	cars, err := h.fleetService.ListCars(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list cars", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list cars")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    cars,
	})
}

// GetCarByID возвращает автомобиль по ID
// GET /api/v1/cars/{id}
func (h *CarHandler) GetCarByID(w http.ResponseWriter, r *http.Request) {
	carID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	car, err := h.fleetService.GetCarByID(r.Context(), carID)
	if err != nil {
		if err == domain.ErrCarNotFound {
			respondError(w, http.StatusNotFound, "Car not found")
			return
		}
		h.logger.Error("Failed to get car", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get car")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    car,
	})
}

// CheckAvailability проверяет доступность автомобиля на период дат
// GET /api/v1/cars/{id}/availability?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *CarHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	carID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	start, err := domain.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
		return
	}

	end, err := domain.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	available, err := h.availability.IsAvailable(r.Context(), carID, start, end)
	if err != nil {
		switch err {
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		case domain.ErrStartDateInPast, domain.ErrInvalidDateRange:
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to check availability", map[string]interface{}{
				"error":  err.Error(),
				"car_id": carID,
			})
			respondError(w, http.StatusInternalServerError, "Failed to check availability")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"car_id":    carID,
			"start":     start.Format(domain.DateFormat),
			"end":       end.Format(domain.DateFormat),
			"available": available,
		},
	})
}

// parsePagination извлекает limit/offset из query параметров
func parsePagination(r *http.Request) (int, int) {
	limit := defaultListLimit
	offset := 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxListLimit {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
