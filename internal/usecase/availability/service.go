package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/logger"
	"github.com/trackpad/rental/internal/repository"
)

// Service вычисляет доступность автомобиля для периода дат
// Правило консервативное: автомобиль - единый ресурс с максимум одним
// окном резервирования, любое неистекшее бронирование блокирует его целиком
type Service struct {
	carRepo     repository.CarRepository
	bookingRepo repository.BookingRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр AvailabilityService
func NewService(
	carRepo repository.CarRepository,
	bookingRepo repository.BookingRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		carRepo:     carRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// ValidateRange проверяет корректность запрошенного периода
// Невалидный период - это ошибка валидации, а не "недоступно"
func ValidateRange(start, end time.Time) error {
	if start.Before(domain.Today()) {
		return domain.ErrStartDateInPast
	}
	if !end.After(start) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

// IsAvailable проверяет, свободен ли автомобиль на период [start, end]
// Операция только читает: никаких побочных эффектов
func (s *Service) IsAvailable(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error) {
	if err := ValidateRange(start, end); err != nil {
		return false, err
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		if err == domain.ErrCarNotFound {
			return false, domain.ErrCarNotFound
		}
		return false, fmt.Errorf("failed to get car: %w", err)
	}

	// Денормализованный флаг - быстрый отказ
	if car.IsBooked {
		return false, nil
	}

	// Флаг мог отстать от реальности (Reconciler еще не прошел),
	// поэтому сверяемся с авторитетным множеством бронирований
	count, err := s.bookingRepo.CountCurrentByCar(ctx, carID, domain.Today())
	if err != nil {
		return false, fmt.Errorf("failed to count current bookings: %w", err)
	}

	return count == 0, nil
}
