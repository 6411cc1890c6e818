package cached

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/redis"
	"github.com/trackpad/rental/internal/repository"
)

// BookingRepository инвалидирует кэш автопарка при мутациях бронирований:
// обе транзакции (бронирование и снятие брони) меняют is_booked автомобиля,
// значит закэшированная витрина после них устарела
type BookingRepository struct {
	repo  repository.BookingRepository
	cache *redis.Client
}

// NewBookingRepository создает booking repository с инвалидацией кэша
func NewBookingRepository(repo repository.BookingRepository, cache *redis.Client) repository.BookingRepository {
	return &BookingRepository{
		repo:  repo,
		cache: cache,
	}
}

func (r *BookingRepository) CreateAndMarkCar(ctx context.Context, booking *domain.Booking) error {
	if err := r.repo.CreateAndMarkCar(ctx, booking); err != nil {
		return err
	}

	r.invalidateCar(ctx, booking.CarID)
	return nil
}

func (r *BookingRepository) DeleteAndUnmarkCar(ctx context.Context, carID, bookingID uuid.UUID) error {
	if err := r.repo.DeleteAndUnmarkCar(ctx, carID, bookingID); err != nil {
		return err
	}

	r.invalidateCar(ctx, carID)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.repo.GetByID(ctx, id)
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	return r.repo.GetByUserID(ctx, userID)
}

func (r *BookingRepository) List(ctx context.Context, limit, offset int) ([]*domain.Booking, error) {
	return r.repo.List(ctx, limit, offset)
}

func (r *BookingRepository) CountCurrentByCar(ctx context.Context, carID uuid.UUID, today time.Time) (int, error) {
	return r.repo.CountCurrentByCar(ctx, carID, today)
}

func (r *BookingRepository) GetCarIDsWithCurrent(ctx context.Context, carIDs []uuid.UUID, today time.Time) ([]uuid.UUID, error) {
	return r.repo.GetCarIDsWithCurrent(ctx, carIDs, today)
}

func (r *BookingRepository) invalidateCar(ctx context.Context, carID uuid.UUID) {
	_ = r.cache.Del(ctx, carCachePrefix+carID.String())
	_ = r.cache.DelByPattern(ctx, carListCachePrefix+"*")
}
