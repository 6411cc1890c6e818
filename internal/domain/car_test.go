package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCar_Validate тестирует валидацию данных автомобиля
func TestCar_Validate(t *testing.T) {
	tests := []struct {
		name        string
		car         Car
		expectedErr error
	}{
		{
			name: "валидный автомобиль",
			car: Car{
				Name:        "Camry",
				Brand:       "Toyota",
				PricePerDay: 75.50,
				ImageURL:    "https://example.com/camry.jpg",
			},
			expectedErr: nil,
		},
		{
			name: "без изображения",
			car: Car{
				Name:        "Solaris",
				Brand:       "Hyundai",
				PricePerDay: 40,
			},
			expectedErr: nil,
		},
		{
			name: "слишком короткое название",
			car: Car{
				Name:        "X",
				Brand:       "BMW-Group",
				PricePerDay: 120,
			},
			expectedErr: ErrInvalidCarName,
		},
		{
			name: "слишком короткая марка",
			car: Car{
				Name:        "Model 3",
				Brand:       "T",
				PricePerDay: 90,
			},
			expectedErr: ErrInvalidCarBrand,
		},
		{
			name: "нулевая цена",
			car: Car{
				Name:        "Camry",
				Brand:       "Toyota",
				PricePerDay: 0,
			},
			expectedErr: ErrInvalidPrice,
		},
		{
			name: "отрицательная цена",
			car: Car{
				Name:        "Camry",
				Brand:       "Toyota",
				PricePerDay: -10,
			},
			expectedErr: ErrInvalidPrice,
		},
		{
			name: "невалидный URL изображения",
			car: Car{
				Name:        "Camry",
				Brand:       "Toyota",
				PricePerDay: 75,
				ImageURL:    "not a url",
			},
			expectedErr: ErrInvalidImageURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.car.Validate()
			if tt.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}
