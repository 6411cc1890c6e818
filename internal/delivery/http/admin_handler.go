package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/trackpad/rental/internal/delivery/http/middleware"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/logger"
	"github.com/trackpad/rental/internal/usecase/fleet"
	"github.com/trackpad/rental/internal/usecase/reconciler"
)

// FleetService определяет интерфейс привилегированных операций автопарка
type FleetService interface {
	AddCar(ctx context.Context, actor *domain.Actor, input *fleet.CarInput) (*domain.Car, error)
	EditCar(ctx context.Context, actor *domain.Actor, carID uuid.UUID, input *fleet.CarInput) (*domain.Car, error)
	DeleteCar(ctx context.Context, actor *domain.Actor, carID uuid.UUID) error
	UnbookCar(ctx context.Context, actor *domain.Actor, carID, bookingID uuid.UUID) error
}

// ReconcilerService определяет интерфейс сверки статусов автопарка
type ReconcilerService interface {
	Reconcile(ctx context.Context) (*reconciler.Result, error)
}

// AdminBookingLister возвращает все бронирования для админского обзора
type AdminBookingLister interface {
	ListBookings(ctx context.Context, actor *domain.Actor, limit, offset int) ([]*domain.Booking, error)
}

// AdminHandler обрабатывает административные запросы
type AdminHandler struct {
	fleetService      FleetService
	reconcilerService ReconcilerService
	bookingService    AdminBookingLister
	logger            logger.Logger
}

// NewAdminHandler создает новый handler
func NewAdminHandler(
	fleetService FleetService,
	reconcilerService ReconcilerService,
	bookingService AdminBookingLister,
	logger logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		fleetService:      fleetService,
		reconcilerService: reconcilerService,
		bookingService:    bookingService,
		logger:            logger,
	}
}

// AddCar добавляет автомобиль в автопарк
// POST /api/v1/admin/cars
func (h *AdminHandler) AddCar(w http.ResponseWriter, r *http.Request) {
	var input fleet.CarInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actor := middleware.GetActor(r.Context())

	car, err := h.fleetService.AddCar(r.Context(), actor, &input)
	if err != nil {
		h.respondFleetError(w, err, "Failed to add car")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    car,
	})
}

// EditCar обновляет данные автомобиля
// PUT /api/v1/admin/cars/{id}
func (h *AdminHandler) EditCar(w http.ResponseWriter, r *http.Request) {
	carID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	var input fleet.CarInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actor := middleware.GetActor(r.Context())

	car, err := h.fleetService.EditCar(r.Context(), actor, carID, &input)
	if err != nil {
		h.respondFleetError(w, err, "Failed to update car")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    car,
	})
}

// DeleteCar удаляет автомобиль
// DELETE /api/v1/admin/cars/{id}
func (h *AdminHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	carID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	actor := middleware.GetActor(r.Context())

	if err := h.fleetService.DeleteCar(r.Context(), actor, carID); err != nil {
		if err == domain.ErrHasActiveBookings {
			respondError(w, http.StatusConflict, "Car has active bookings")
			return
		}
		h.respondFleetError(w, err, "Failed to delete car")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// UnbookCar вручную освобождает автомобиль и удаляет бронирование
// DELETE /api/v1/admin/cars/{carID}/bookings/{bookingID}
func (h *AdminHandler) UnbookCar(w http.ResponseWriter, r *http.Request) {
	carID, err := uuid.Parse(chi.URLParam(r, "carID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	actor := middleware.GetActor(r.Context())

	if err := h.fleetService.UnbookCar(r.Context(), actor, carID, bookingID); err != nil {
		if err == domain.ErrBookingNotFound {
			respondError(w, http.StatusNotFound, "Booking not found")
			return
		}
		h.respondFleetError(w, err, "Failed to unbook car")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// Reconcile запускает внеочередную сверку статусов автопарка
// POST /api/v1/admin/reconcile
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconcilerService.Reconcile(r.Context())
	if err != nil {
		h.logger.Error("Reconciliation failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Reconciliation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// ListBookings возвращает все бронирования
// GET /api/v1/admin/bookings
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	actor := middleware.GetActor(r.Context())

	bookings, err := h.bookingService.ListBookings(r.Context(), actor, limit, offset)
	if err != nil {
		h.respondFleetError(w, err, "Failed to list bookings")
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

// respondFleetError мапит ошибки привилегированных операций на HTTP статусы
func (h *AdminHandler) respondFleetError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case domain.ErrUnauthorized:
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case domain.ErrForbidden:
		respondError(w, http.StatusForbidden, "Admin access required")
	case domain.ErrCarNotFound:
		respondError(w, http.StatusNotFound, "Car not found")
	case domain.ErrInvalidCarName, domain.ErrInvalidCarBrand, domain.ErrInvalidPrice, domain.ErrInvalidImageURL:
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
