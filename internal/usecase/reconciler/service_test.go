package reconciler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/trackpad/rental/internal/pkg/logger"
	"github.com/trackpad/rental/internal/repository/mocks"
)

// TestService_Reconcile тестирует один проход сверки статусов автопарка
func TestService_Reconcile(t *testing.T) {
	staleCar := uuid.New()
	activeCar := uuid.New()
	anotherStale := uuid.New()

	tests := []struct {
		name            string
		mockSetup       func(*mocks.CarRepository, *mocks.BookingRepository)
		expectedUpdated int
		expectErr       bool
	}{
		{
			name: "нет помеченных автомобилей",
			mockSetup: func(cars *mocks.CarRepository, bookings *mocks.BookingRepository) {
				cars.On("GetBookedIDs", mock.Anything).Return([]uuid.UUID{}, nil)
			},
			expectedUpdated: 0,
		},
		{
			name: "все флаги подтверждены бронированиями",
			mockSetup: func(cars *mocks.CarRepository, bookings *mocks.BookingRepository) {
				cars.On("GetBookedIDs", mock.Anything).Return([]uuid.UUID{activeCar}, nil)
				bookings.On("GetCarIDsWithCurrent", mock.Anything, []uuid.UUID{activeCar}, mock.AnythingOfType("time.Time")).
					Return([]uuid.UUID{activeCar}, nil)
			},
			expectedUpdated: 0,
		},
		{
			name: "один отставший флаг сброшен",
			mockSetup: func(cars *mocks.CarRepository, bookings *mocks.BookingRepository) {
				cars.On("GetBookedIDs", mock.Anything).Return([]uuid.UUID{staleCar, activeCar}, nil)
				bookings.On("GetCarIDsWithCurrent", mock.Anything, []uuid.UUID{staleCar, activeCar}, mock.AnythingOfType("time.Time")).
					Return([]uuid.UUID{activeCar}, nil)
				cars.On("UnmarkBookedBatch", mock.Anything, []uuid.UUID{staleCar}).Return(1, nil)
			},
			expectedUpdated: 1,
		},
		{
			name: "несколько отставших флагов",
			mockSetup: func(cars *mocks.CarRepository, bookings *mocks.BookingRepository) {
				cars.On("GetBookedIDs", mock.Anything).Return([]uuid.UUID{staleCar, activeCar, anotherStale}, nil)
				bookings.On("GetCarIDsWithCurrent", mock.Anything, mock.AnythingOfType("[]uuid.UUID"), mock.AnythingOfType("time.Time")).
					Return([]uuid.UUID{activeCar}, nil)
				cars.On("UnmarkBookedBatch", mock.Anything, []uuid.UUID{staleCar, anotherStale}).Return(2, nil)
			},
			expectedUpdated: 2,
		},
		{
			name: "ошибка чтения автопарка",
			mockSetup: func(cars *mocks.CarRepository, bookings *mocks.BookingRepository) {
				cars.On("GetBookedIDs", mock.Anything).Return(nil, errors.New("db down"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carRepo := new(mocks.CarRepository)
			bookingRepo := new(mocks.BookingRepository)
			tt.mockSetup(carRepo, bookingRepo)

			service := NewService(carRepo, bookingRepo, logger.NewNoop())

			result, err := service.Reconcile(context.Background())

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedUpdated, result.UpdatedCount)
			}

			carRepo.AssertExpectations(t)
			bookingRepo.AssertExpectations(t)
		})
	}
}

// TestService_Reconcile_Idempotent проверяет, что повторный проход
// после сверки ничего не обновляет
func TestService_Reconcile_Idempotent(t *testing.T) {
	staleCar := uuid.New()

	carRepo := new(mocks.CarRepository)
	bookingRepo := new(mocks.BookingRepository)

	// Первый проход: флаг сбрасывается
	carRepo.On("GetBookedIDs", mock.Anything).Return([]uuid.UUID{staleCar}, nil).Once()
	bookingRepo.On("GetCarIDsWithCurrent", mock.Anything, []uuid.UUID{staleCar}, mock.AnythingOfType("time.Time")).
		Return([]uuid.UUID{}, nil).Once()
	carRepo.On("UnmarkBookedBatch", mock.Anything, []uuid.UUID{staleCar}).Return(1, nil).Once()

	// Второй проход: помеченных автомобилей больше нет
	carRepo.On("GetBookedIDs", mock.Anything).Return([]uuid.UUID{}, nil).Once()

	service := NewService(carRepo, bookingRepo, logger.NewNoop())

	first, err := service.Reconcile(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, first.UpdatedCount)

	second, err := service.Reconcile(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, second.UpdatedCount)

	carRepo.AssertExpectations(t)
	bookingRepo.AssertExpectations(t)
}
