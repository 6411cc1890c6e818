package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/infrastructure/whatsapp"
	"github.com/trackpad/rental/internal/pkg/logger"
	"github.com/trackpad/rental/internal/repository"
)

// CreateBookingRequest - запрос на бронирование автомобиля
// Даты приходят календарными строками YYYY-MM-DD
type CreateBookingRequest struct {
	CarID         uuid.UUID `json:"car_id" validate:"required"`
	CustomerName  string    `json:"customer_name" validate:"required,min=2"`
	CustomerEmail string    `json:"customer_email" validate:"required,email"`
	CustomerPhone string    `json:"customer_phone" validate:"required,min=10"`
	StartDate     string    `json:"start_date" validate:"required"`
	EndDate       string    `json:"end_date" validate:"required"`
}

// Service содержит бизнес-логику жизненного цикла бронирования
type Service struct {
	carRepo     repository.CarRepository
	bookingRepo repository.BookingRepository
	notifier    whatsapp.Notifier
	logger      logger.Logger
}

// NewService создает новый экземпляр BookingService
func NewService(
	carRepo repository.CarRepository,
	bookingRepo repository.BookingRepository,
	notifier whatsapp.Notifier,
	logger logger.Logger,
) *Service {
	return &Service{
		carRepo:     carRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateBooking создает бронирование от имени аутентифицированного клиента
// Порядок: валидация входа -> свежая проверка автомобиля и доступности ->
// транзакционная запись (insert бронирования + условный is_booked) ->
// best-effort уведомление
func (s *Service) CreateBooking(ctx context.Context, actor *domain.Actor, req *CreateBookingRequest) (*domain.Booking, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}

	startDate, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := domain.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		CarID:         req.CarID,
		UserID:        actor.UserID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		StartDate:     startDate,
		EndDate:       endDate,
	}

	// Вся валидация - до какого-либо обращения к хранилищу
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("Creating new booking", map[string]interface{}{
		"car_id":  req.CarID,
		"user_id": actor.UserID,
		"start":   req.StartDate,
		"end":     req.EndDate,
	})

	// Перечитываем автомобиль на момент записи
	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		if err == domain.ErrCarNotFound {
			return nil, domain.ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	if car.IsBooked {
		return nil, domain.ErrCarAlreadyBooked
	}

	// Флаг мог не успеть подняться - сверяемся с множеством бронирований
	count, err := s.bookingRepo.CountCurrentByCar(ctx, req.CarID, domain.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to count current bookings: %w", err)
	}
	if count > 0 {
		return nil, domain.ErrCarAlreadyBooked
	}

	// Цена - снимок на момент бронирования, при смене тарифа не пересчитывается
	booking.TotalPrice = booking.TotalPriceFor(car.PricePerDay)

	// Insert бронирования и условное обновление флага - одна транзакция;
	// проигравший гонку получает ErrCarAlreadyBooked
	if err := s.bookingRepo.CreateAndMarkCar(ctx, booking); err != nil {
		if err == domain.ErrCarAlreadyBooked {
			return nil, domain.ErrCarAlreadyBooked
		}
		s.logger.Error("Failed to create booking", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("Booking created successfully", map[string]interface{}{
		"booking_id":  booking.ID,
		"car_id":      booking.CarID,
		"total_price": booking.TotalPrice,
	})

	// Уведомление отправляется после фиксации бронирования;
	// ошибка доставки логируется и не отменяет бронирование
	s.notify(ctx, booking, car)

	return booking, nil
}

// GetBookingByID возвращает бронирование по ID
func (s *Service) GetBookingByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// GetBookingsByUser возвращает бронирования пользователя
func (s *Service) GetBookingsByUser(ctx context.Context, actor *domain.Actor) ([]*domain.Booking, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	return s.bookingRepo.GetByUserID(ctx, actor.UserID)
}

// ListBookings возвращает все бронирования (админский обзор)
func (s *Service) ListBookings(ctx context.Context, actor *domain.Actor, limit, offset int) ([]*domain.Booking, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.bookingRepo.List(ctx, limit, offset)
}

func (s *Service) notify(ctx context.Context, booking *domain.Booking, car *domain.Car) {
	alert := &whatsapp.BookingAlert{
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		CustomerPhone: booking.CustomerPhone,
		CarName:       car.Name,
		CarBrand:      car.Brand,
		StartDate:     booking.StartDate,
		EndDate:       booking.EndDate,
		TotalPrice:    booking.TotalPrice,
	}

	if err := s.notifier.SendBookingAlert(ctx, alert); err != nil {
		s.logger.Warn("Failed to send booking notification", map[string]interface{}{
			"booking_id": booking.ID,
			"error":      err.Error(),
		})
	}
}
