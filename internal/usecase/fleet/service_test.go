package fleet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/logger"
	"github.com/trackpad/rental/internal/repository/mocks"
)

func adminActor() *domain.Actor {
	return &domain.Actor{UserID: uuid.New(), Email: "admin@example.com", IsAdmin: true}
}

func userActor() *domain.Actor {
	return &domain.Actor{UserID: uuid.New(), Email: "user@example.com"}
}

// TestService_AddCar тестирует добавление автомобиля в автопарк
func TestService_AddCar(t *testing.T) {
	input := &CarInput{
		Name:        "Camry",
		Brand:       "Toyota",
		PricePerDay: 75,
		ImageURL:    "https://example.com/camry.jpg",
	}

	tests := []struct {
		name        string
		actor       *domain.Actor
		input       *CarInput
		mockSetup   func(*mocks.CarRepository)
		expectedErr error
	}{
		{
			name:  "успешное добавление",
			actor: adminActor(),
			input: input,
			mockSetup: func(cars *mocks.CarRepository) {
				cars.On("Create", mock.Anything, mock.AnythingOfType("*domain.Car")).Return(nil)
			},
			expectedErr: nil,
		},
		{
			name:        "обычный пользователь получает отказ",
			actor:       userActor(),
			input:       input,
			mockSetup:   func(cars *mocks.CarRepository) {},
			expectedErr: domain.ErrForbidden,
		},
		{
			name:        "анонимный вызов",
			actor:       nil,
			input:       input,
			mockSetup:   func(cars *mocks.CarRepository) {},
			expectedErr: domain.ErrUnauthorized,
		},
		{
			name:  "невалидная цена",
			actor: adminActor(),
			input: &CarInput{
				Name:        "Camry",
				Brand:       "Toyota",
				PricePerDay: -5,
			},
			mockSetup:   func(cars *mocks.CarRepository) {},
			expectedErr: domain.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carRepo := new(mocks.CarRepository)
			bookingRepo := new(mocks.BookingRepository)
			tt.mockSetup(carRepo)

			service := NewService(carRepo, bookingRepo, logger.NewNoop())

			car, err := service.AddCar(context.Background(), tt.actor, tt.input)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, car)
				// Отказ в доступе или валидации - без записи в хранилище
				carRepo.AssertNotCalled(t, "Create")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.input.Name, car.Name)
				assert.False(t, car.IsBooked)
			}

			carRepo.AssertExpectations(t)
		})
	}
}

// TestService_EditCar тестирует редактирование автомобиля
func TestService_EditCar(t *testing.T) {
	carID := uuid.New()
	existing := &domain.Car{
		ID:          carID,
		Name:        "Camry",
		Brand:       "Toyota",
		PricePerDay: 75,
		IsBooked:    true,
	}

	t.Run("успешное редактирование не трогает is_booked", func(t *testing.T) {
		carRepo := new(mocks.CarRepository)
		bookingRepo := new(mocks.BookingRepository)

		carRepo.On("GetByID", mock.Anything, carID).Return(existing, nil)
		carRepo.On("UpdateDetails", mock.Anything, mock.AnythingOfType("*domain.Car")).Return(nil)

		service := NewService(carRepo, bookingRepo, logger.NewNoop())

		car, err := service.EditCar(context.Background(), adminActor(), carID, &CarInput{
			Name:        "Camry XV70",
			Brand:       "Toyota",
			PricePerDay: 85,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Camry XV70", car.Name)
		assert.Equal(t, 85.0, car.PricePerDay)
		assert.True(t, car.IsBooked)

		carRepo.AssertExpectations(t)
	})

	t.Run("автомобиль не найден", func(t *testing.T) {
		carRepo := new(mocks.CarRepository)
		bookingRepo := new(mocks.BookingRepository)

		carRepo.On("GetByID", mock.Anything, carID).Return(nil, domain.ErrCarNotFound)

		service := NewService(carRepo, bookingRepo, logger.NewNoop())

		_, err := service.EditCar(context.Background(), adminActor(), carID, &CarInput{
			Name:        "Camry",
			Brand:       "Toyota",
			PricePerDay: 85,
		})

		assert.ErrorIs(t, err, domain.ErrCarNotFound)
		carRepo.AssertNotCalled(t, "UpdateDetails")
	})

	t.Run("обычный пользователь получает отказ", func(t *testing.T) {
		carRepo := new(mocks.CarRepository)
		bookingRepo := new(mocks.BookingRepository)

		service := NewService(carRepo, bookingRepo, logger.NewNoop())

		_, err := service.EditCar(context.Background(), userActor(), carID, &CarInput{
			Name:        "Camry",
			Brand:       "Toyota",
			PricePerDay: 85,
		})

		assert.ErrorIs(t, err, domain.ErrForbidden)
		carRepo.AssertNotCalled(t, "GetByID")
		carRepo.AssertNotCalled(t, "UpdateDetails")
	})
}

// TestService_DeleteCar тестирует удаление автомобиля с защитой
// от удаления при неистекших бронированиях
func TestService_DeleteCar(t *testing.T) {
	carID := uuid.New()

	tests := []struct {
		name         string
		actor        *domain.Actor
		currentCount int
		mockSetup    func(*mocks.CarRepository, *mocks.BookingRepository)
		expectedErr  error
	}{
		{
			name:  "удаление без текущих бронирований",
			actor: adminActor(),
			mockSetup: func(cars *mocks.CarRepository, bookings *mocks.BookingRepository) {
				bookings.On("CountCurrentByCar", mock.Anything, carID, mock.AnythingOfType("time.Time")).
					Return(0, nil)
				cars.On("Delete", mock.Anything, carID).Return(nil)
			},
			expectedErr: nil,
		},
		{
			name:  "блокировка при текущем бронировании",
			actor: adminActor(),
			mockSetup: func(cars *mocks.CarRepository, bookings *mocks.BookingRepository) {
				bookings.On("CountCurrentByCar", mock.Anything, carID, mock.AnythingOfType("time.Time")).
					Return(1, nil)
			},
			expectedErr: domain.ErrHasActiveBookings,
		},
		{
			name:  "автомобиль не найден",
			actor: adminActor(),
			mockSetup: func(cars *mocks.CarRepository, bookings *mocks.BookingRepository) {
				bookings.On("CountCurrentByCar", mock.Anything, carID, mock.AnythingOfType("time.Time")).
					Return(0, nil)
				cars.On("Delete", mock.Anything, carID).Return(domain.ErrCarNotFound)
			},
			expectedErr: domain.ErrCarNotFound,
		},
		{
			name:        "обычный пользователь получает отказ",
			actor:       userActor(),
			mockSetup:   func(cars *mocks.CarRepository, bookings *mocks.BookingRepository) {},
			expectedErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carRepo := new(mocks.CarRepository)
			bookingRepo := new(mocks.BookingRepository)
			tt.mockSetup(carRepo, bookingRepo)

			service := NewService(carRepo, bookingRepo, logger.NewNoop())

			err := service.DeleteCar(context.Background(), tt.actor, carID)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			if tt.expectedErr == domain.ErrHasActiveBookings || tt.expectedErr == domain.ErrForbidden {
				carRepo.AssertNotCalled(t, "Delete")
			}

			carRepo.AssertExpectations(t)
			bookingRepo.AssertExpectations(t)
		})
	}
}

// TestService_UnbookCar тестирует ручное освобождение автомобиля
func TestService_UnbookCar(t *testing.T) {
	carID := uuid.New()
	bookingID := uuid.New()

	t.Run("успешное снятие брони", func(t *testing.T) {
		carRepo := new(mocks.CarRepository)
		bookingRepo := new(mocks.BookingRepository)

		bookingRepo.On("GetByID", mock.Anything, bookingID).
			Return(&domain.Booking{ID: bookingID, CarID: carID}, nil)
		bookingRepo.On("DeleteAndUnmarkCar", mock.Anything, carID, bookingID).Return(nil)

		service := NewService(carRepo, bookingRepo, logger.NewNoop())

		err := service.UnbookCar(context.Background(), adminActor(), carID, bookingID)
		assert.NoError(t, err)

		bookingRepo.AssertExpectations(t)
	})

	t.Run("бронирование принадлежит другому автомобилю", func(t *testing.T) {
		carRepo := new(mocks.CarRepository)
		bookingRepo := new(mocks.BookingRepository)

		bookingRepo.On("GetByID", mock.Anything, bookingID).
			Return(&domain.Booking{ID: bookingID, CarID: uuid.New()}, nil)

		service := NewService(carRepo, bookingRepo, logger.NewNoop())

		err := service.UnbookCar(context.Background(), adminActor(), carID, bookingID)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)

		bookingRepo.AssertNotCalled(t, "DeleteAndUnmarkCar")
	})

	t.Run("бронирование не найдено", func(t *testing.T) {
		carRepo := new(mocks.CarRepository)
		bookingRepo := new(mocks.BookingRepository)

		bookingRepo.On("GetByID", mock.Anything, bookingID).
			Return(nil, domain.ErrBookingNotFound)

		service := NewService(carRepo, bookingRepo, logger.NewNoop())

		err := service.UnbookCar(context.Background(), adminActor(), carID, bookingID)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("обычный пользователь получает отказ", func(t *testing.T) {
		carRepo := new(mocks.CarRepository)
		bookingRepo := new(mocks.BookingRepository)

		service := NewService(carRepo, bookingRepo, logger.NewNoop())

		err := service.UnbookCar(context.Background(), userActor(), carID, bookingID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		bookingRepo.AssertNotCalled(t, "GetByID")
		bookingRepo.AssertNotCalled(t, "DeleteAndUnmarkCar")
	})
}
