package domain

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// BookingStatus представляет статус бронирования
// Статус НЕ хранится в БД - он всегда вычисляется от текущей даты
type BookingStatus string

const (
	StatusUpcoming  BookingStatus = "upcoming"  // Бронирование еще не началось
	StatusActive    BookingStatus = "active"    // Текущая дата внутри периода аренды
	StatusCompleted BookingStatus = "completed" // Период аренды закончился
)

// DateFormat - формат календарных дат (без времени суток)
const DateFormat = "2006-01-02"

// Booking - бронирование автомобиля на период дат
// Контактные данные клиента - снимок на момент бронирования,
// они не обновляются при изменении профиля пользователя
type Booking struct {
	ID            uuid.UUID `json:"id"`
	CarID         uuid.UUID `json:"car_id"`
	UserID        uuid.UUID `json:"user_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TotalPrice    float64   `json:"total_price"` // Снимок цены, не пересчитывается
	CreatedAt     time.Time `json:"created_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Car *Car `json:"car,omitempty"`
}

// Today возвращает текущую календарную дату (полночь UTC)
func Today() time.Time {
	return ToDate(time.Now().UTC())
}

// ToDate отбрасывает время суток, оставляя календарную дату
func ToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает календарную дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Days возвращает количество суток аренды
func (b *Booking) Days() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}

// Status вычисляет статус бронирования относительно даты today
func (b *Booking) Status(today time.Time) BookingStatus {
	switch {
	case b.StartDate.After(today):
		return StatusUpcoming
	case b.EndDate.Before(today):
		return StatusCompleted
	default:
		return StatusActive
	}
}

// IsCurrent сообщает, держит ли бронирование автомобиль занятым:
// активные и будущие бронирования (EndDate >= today) считаются текущими
func (b *Booking) IsCurrent(today time.Time) bool {
	return !b.EndDate.Before(today)
}

// Validate проверяет корректность данных бронирования
// Правила дат: StartDate не в прошлом, EndDate строго позже StartDate
func (b *Booking) Validate() error {
	if b.CarID == uuid.Nil {
		return ErrInvalidBookingData
	}
	if len(b.CustomerName) < 2 {
		return ErrInvalidCustomerName
	}
	if _, err := mail.ParseAddress(b.CustomerEmail); err != nil {
		return ErrInvalidEmail
	}
	if countDigits(b.CustomerPhone) < 10 {
		return ErrInvalidPhone
	}
	if b.StartDate.Before(Today()) {
		return ErrStartDateInPast
	}
	if !b.EndDate.After(b.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// TotalPriceFor вычисляет стоимость аренды по суточной цене автомобиля
func (b *Booking) TotalPriceFor(pricePerDay float64) float64 {
	return float64(b.Days()) * pricePerDay
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
