package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trackpad/rental/internal/domain"
)

// CarRepository определяет методы для работы с автопарком
// ВАЖНО: флаг is_booked меняют только BookingRepository (в транзакциях
// бронирования и снятия брони) и UnmarkBookedBatch (Reconciler) -
// никакой другой код не должен писать этот флаг
type CarRepository interface {
	// Create создает новый автомобиль (is_booked всегда false)
	Create(ctx context.Context, car *domain.Car) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error)

	// List возвращает список автомобилей с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Car, error)

	// UpdateDetails обновляет изменяемые поля автомобиля
	// (name, brand, price_per_day, image_url); is_booked не трогает
	UpdateDetails(ctx context.Context, car *domain.Car) error

	// Delete удаляет автомобиль вместе с его историческими бронированиями
	Delete(ctx context.Context, id uuid.UUID) error

	// GetBookedIDs возвращает ID всех автомобилей с is_booked = true
	GetBookedIDs(ctx context.Context) ([]uuid.UUID, error)

	// UnmarkBookedBatch сбрасывает is_booked = false для набора автомобилей
	// Возвращает количество обновленных строк
	UnmarkBookedBatch(ctx context.Context, ids []uuid.UUID) (int, error)
}

// BookingRepository определяет методы для работы с бронированиями
type BookingRepository interface {
	// CreateAndMarkCar в одной транзакции вставляет бронирование и
	// выполняет условное обновление флага автомобиля:
	// UPDATE cars SET is_booked = true WHERE id = $1 AND is_booked = false
	// Если флаг уже стоит (гонка двух бронирований), возвращает
	// domain.ErrCarAlreadyBooked и бронирование не сохраняется
	CreateAndMarkCar(ctx context.Context, booking *domain.Booking) error

	// GetByID возвращает бронирование по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)

	// GetByUserID возвращает бронирования пользователя
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error)

	// List возвращает список всех бронирований с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Booking, error)

	// CountCurrentByCar возвращает число бронирований автомобиля
	// с end_date >= today (активные и будущие)
	CountCurrentByCar(ctx context.Context, carID uuid.UUID, today time.Time) (int, error)

	// GetCarIDsWithCurrent возвращает подмножество carIDs, у которых
	// есть хотя бы одно бронирование с end_date >= today
	GetCarIDsWithCurrent(ctx context.Context, carIDs []uuid.UUID, today time.Time) ([]uuid.UUID, error)

	// DeleteAndUnmarkCar в одной транзакции сбрасывает is_booked
	// автомобиля и удаляет бронирование (ручное снятие брони администратором)
	DeleteAndUnmarkCar(ctx context.Context, carID, bookingID uuid.UUID) error
}

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// RefreshTokenRepository определяет методы для работы с refresh токенами
type RefreshTokenRepository interface {
	// Create сохраняет новый refresh token
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByTokenHash возвращает refresh token по хешу
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke отзывает refresh token
	Revoke(ctx context.Context, tokenHash string) error

	// DeleteExpired удаляет истекшие токены
	DeleteExpired(ctx context.Context) error
}
