package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func validBooking(start, end time.Time) *Booking {
	return &Booking{
		ID:            uuid.New(),
		CarID:         uuid.New(),
		UserID:        uuid.New(),
		CustomerName:  "Иван Петров",
		CustomerEmail: "ivan@example.com",
		CustomerPhone: "+7 999 123 45 67",
		StartDate:     start,
		EndDate:       end,
	}
}

// TestBooking_Days тестирует вычисление количества суток аренды
func TestBooking_Days(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{
			name:     "три дня",
			start:    "2025-01-01",
			end:      "2025-01-04",
			expected: 3,
		},
		{
			name:     "один день",
			start:    "2025-06-10",
			end:      "2025-06-11",
			expected: 1,
		},
		{
			name:     "через границу месяца",
			start:    "2025-01-30",
			end:      "2025-02-02",
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{StartDate: date(tt.start), EndDate: date(tt.end)}
			assert.Equal(t, tt.expected, b.Days())
		})
	}
}

// TestBooking_TotalPriceFor тестирует вычисление стоимости аренды
func TestBooking_TotalPriceFor(t *testing.T) {
	b := &Booking{
		StartDate: date("2025-01-01"),
		EndDate:   date("2025-01-04"),
	}

	assert.Equal(t, 300.0, b.TotalPriceFor(100))
	assert.InDelta(t, 149.85, b.TotalPriceFor(49.95), 0.0001)
}

// TestBooking_Status тестирует вычисление статуса относительно даты
func TestBooking_Status(t *testing.T) {
	today := date("2025-06-15")
	b := &Booking{
		StartDate: date("2025-06-10"),
		EndDate:   date("2025-06-20"),
	}

	tests := []struct {
		name     string
		today    time.Time
		expected BookingStatus
	}{
		{
			name:     "еще не началось",
			today:    date("2025-06-01"),
			expected: StatusUpcoming,
		},
		{
			name:     "первый день аренды",
			today:    date("2025-06-10"),
			expected: StatusActive,
		},
		{
			name:     "середина периода",
			today:    today,
			expected: StatusActive,
		},
		{
			name:     "последний день аренды",
			today:    date("2025-06-20"),
			expected: StatusActive,
		},
		{
			name:     "период закончился",
			today:    date("2025-06-21"),
			expected: StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, b.Status(tt.today))
		})
	}
}

// TestBooking_IsCurrent тестирует признак "держит автомобиль занятым"
func TestBooking_IsCurrent(t *testing.T) {
	b := &Booking{
		StartDate: date("2025-06-10"),
		EndDate:   date("2025-06-20"),
	}

	assert.True(t, b.IsCurrent(date("2025-06-01")), "будущее бронирование - текущее")
	assert.True(t, b.IsCurrent(date("2025-06-15")), "активное бронирование - текущее")
	assert.True(t, b.IsCurrent(date("2025-06-20")), "последний день - еще текущее")
	assert.False(t, b.IsCurrent(date("2025-06-21")), "завершенное бронирование - не текущее")
}

// TestBooking_Validate тестирует валидацию данных бронирования
func TestBooking_Validate(t *testing.T) {
	today := Today()
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		name        string
		modify      func(*Booking)
		expectedErr error
	}{
		{
			name:        "валидное бронирование",
			modify:      func(b *Booking) {},
			expectedErr: nil,
		},
		{
			name:        "старт сегодня разрешен",
			modify:      func(b *Booking) { b.StartDate = today; b.EndDate = tomorrow },
			expectedErr: nil,
		},
		{
			name:        "пустой car_id",
			modify:      func(b *Booking) { b.CarID = uuid.Nil },
			expectedErr: ErrInvalidBookingData,
		},
		{
			name:        "слишком короткое имя",
			modify:      func(b *Booking) { b.CustomerName = "И" },
			expectedErr: ErrInvalidCustomerName,
		},
		{
			name:        "невалидный email",
			modify:      func(b *Booking) { b.CustomerEmail = "not-an-email" },
			expectedErr: ErrInvalidEmail,
		},
		{
			name:        "мало цифр в телефоне",
			modify:      func(b *Booking) { b.CustomerPhone = "+7 999 123" },
			expectedErr: ErrInvalidPhone,
		},
		{
			name:        "старт в прошлом",
			modify:      func(b *Booking) { b.StartDate = yesterday },
			expectedErr: ErrStartDateInPast,
		},
		{
			name: "конец равен старту",
			modify: func(b *Booking) {
				b.StartDate = tomorrow
				b.EndDate = tomorrow
			},
			expectedErr: ErrInvalidDateRange,
		},
		{
			name: "конец раньше старта",
			modify: func(b *Booking) {
				b.StartDate = today.AddDate(0, 0, 5)
				b.EndDate = today.AddDate(0, 0, 2)
			},
			expectedErr: ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking(tomorrow, today.AddDate(0, 0, 3))
			tt.modify(b)

			err := b.Validate()
			if tt.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}

// TestParseDate тестирует разбор календарных дат
func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-06-15")
	assert.NoError(t, err)
	assert.Equal(t, date("2025-06-15"), parsed)

	_, err = ParseDate("15.06.2025")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

// TestToDate тестирует отбрасывание времени суток
func TestToDate(t *testing.T) {
	ts := time.Date(2025, 6, 15, 18, 42, 7, 123, time.UTC)
	assert.Equal(t, date("2025-06-15"), ToDate(ts))
}
