package fleet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/logger"
	"github.com/trackpad/rental/internal/repository"
)

// CarInput - данные автомобиля для добавления или редактирования
type CarInput struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Brand       string  `json:"brand" validate:"required,min=2"`
	PricePerDay float64 `json:"price_per_day" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Service - привилегированные операции над автопарком
// Каждая операция сначала проверяет, что вызывающий аутентифицирован
// и является администратором; иначе мутация не выполняется
type Service struct {
	carRepo     repository.CarRepository
	bookingRepo repository.BookingRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр FleetService
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

// AddCar добавляет автомобиль в автопарк (is_booked всегда false)
func (s *Service) AddCar(ctx context.Context, actor *domain.Actor, input *CarInput) (*domain.Car, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	car := &domain.Car{
		Name:        input.Name,
		Brand:       input.Brand,
		PricePerDay: input.PricePerDay,
		ImageURL:    input.ImageURL,
	}

	if err := car.Validate(); err != nil {
		return nil, err
	}

	if err := s.carRepo.Create(ctx, car); err != nil {
		s.logger.Error("Failed to add car", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to add car: %w", err)
	}

	s.logger.Info("Car added to fleet", map[string]interface{}{
		"car_id": car.ID,
		"name":   car.Name,
		"brand":  car.Brand,
	})

	return car, nil
}

// EditCar обновляет описательные поля автомобиля
// Флаг is_booked и бронирования операция не трогает
func (s *Service) EditCar(ctx context.Context, actor *domain.Actor, carID uuid.UUID, input *CarInput) (*domain.Car, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		if err == domain.ErrCarNotFound {
			return nil, domain.ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	car.Name = input.Name
	car.Brand = input.Brand
	car.PricePerDay = input.PricePerDay
	car.ImageURL = input.ImageURL

	if err := car.Validate(); err != nil {
		return nil, err
	}

	if err := s.carRepo.UpdateDetails(ctx, car); err != nil {
		s.logger.Error("Failed to update car", map[string]interface{}{
			"car_id": carID,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("failed to update car: %w", err)
	}

	s.logger.Info("Car updated", map[string]interface{}{
		"car_id": car.ID,
	})

	return car, nil
}

// DeleteCar удаляет автомобиль из автопарка
// Запрещено, пока у автомобиля есть бронирование с end_date >= сегодня;
// завершенные бронирования удаляются вместе с автомобилем
func (s *Service) DeleteCar(ctx context.Context, actor *domain.Actor, carID uuid.UUID) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}

	count, err := s.bookingRepo.CountCurrentByCar(ctx, carID, domain.Today())
	if err != nil {
		return fmt.Errorf("failed to count current bookings: %w", err)
	}

	if count > 0 {
		s.logger.Warn("Delete blocked: car has active bookings", map[string]interface{}{
			"car_id":   carID,
			"bookings": count,
		})
		return domain.ErrHasActiveBookings
	}

	if err := s.carRepo.Delete(ctx, carID); err != nil {
		if err == domain.ErrCarNotFound {
			return domain.ErrCarNotFound
		}
		s.logger.Error("Failed to delete car", map[string]interface{}{
			"car_id": carID,
			"error":  err.Error(),
		})
		return fmt.Errorf("failed to delete car: %w", err)
	}

	s.logger.Info("Car deleted", map[string]interface{}{
		"car_id": carID,
	})

	return nil
}

// UnbookCar - ручное освобождение автомобиля администратором
// (например, досрочный возврат): сброс is_booked и удаление бронирования
// выполняются одной транзакцией независимо от дат бронирования
func (s *Service) UnbookCar(ctx context.Context, actor *domain.Actor, carID, bookingID uuid.UUID) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if err == domain.ErrBookingNotFound {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.CarID != carID {
		return domain.ErrBookingNotFound
	}

	if err := s.bookingRepo.DeleteAndUnmarkCar(ctx, carID, bookingID); err != nil {
		s.logger.Error("Failed to unbook car", map[string]interface{}{
			"car_id":     carID,
			"booking_id": bookingID,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to unbook car: %w", err)
	}

	s.logger.Info("Car unbooked", map[string]interface{}{
		"car_id":     carID,
		"booking_id": bookingID,
	})

	return nil
}

// GetCarByID возвращает автомобиль по ID (публичное чтение)
func (s *Service) GetCarByID(ctx context.Context, carID uuid.UUID) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, carID)
}

// ListCars возвращает список автопарка с пагинацией (публичное чтение)
func (s *Service) ListCars(ctx context.Context, limit, offset int) ([]*domain.Car, error) {
	return s.carRepo.List(ctx, limit, offset)
}
