package domain

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Car - автомобиль автопарка, доступный для аренды
// ВАЖНО: IsBooked - денормализованный кэш, производный от множества бронирований
// Истина: IsBooked == true тогда и только тогда, когда у автомобиля есть
// хотя бы одно бронирование с EndDate >= сегодня. Расхождение исправляет Reconciler.
type Car struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	PricePerDay float64   `json:"price_per_day"` // Цена за сутки аренды
	ImageURL    string    `json:"image_url,omitempty"`
	IsBooked    bool      `json:"is_booked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate проверяет корректность данных автомобиля
func (c *Car) Validate() error {
	if len(c.Name) < 2 {
		return ErrInvalidCarName
	}
	if len(c.Brand) < 2 {
		return ErrInvalidCarBrand
	}
	if c.PricePerDay <= 0 {
		return ErrInvalidPrice
	}
	// ImageURL опционален, но если указан - должен быть валидным URL
	if c.ImageURL != "" {
		u, err := url.Parse(c.ImageURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidImageURL
		}
	}
	return nil
}
