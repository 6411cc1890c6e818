package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/redis"
	"github.com/trackpad/rental/internal/repository"
)

const (
	carCachePrefix     = "car:"
	carListCachePrefix = "cars:list:"
)

// CarRepository добавляет кэширование витрины автопарка
// Каждая мутация (включая батч Reconciler-а) инвалидирует кэш, поэтому
// читатели видят свежие данные после любого изменения
type CarRepository struct {
	repo  repository.CarRepository
	cache *redis.Client
	ttl   time.Duration
}

// NewCarRepository создает кэшируемый car repository
func NewCarRepository(repo repository.CarRepository, cache *redis.Client, ttl time.Duration) repository.CarRepository {
	return &CarRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

func (r *CarRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	cacheKey := carCachePrefix + id.String()

	cachedData, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		car := &domain.Car{}
		if jsonErr := json.Unmarshal([]byte(cachedData), car); jsonErr == nil {
			return car, nil
		}
		// Битое значение в кэше - игнорируем и читаем БД
	} else if err != redisv9.Nil {
		// Ошибка кэша не критична, продолжаем работу с БД
	}

	car, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(car); jsonErr == nil {
		_ = r.cache.Set(ctx, cacheKey, data, r.ttl)
	}

	return car, nil
}

func (r *CarRepository) List(ctx context.Context, limit, offset int) ([]*domain.Car, error) {
	cacheKey := fmt.Sprintf("%s%d:%d", carListCachePrefix, limit, offset)

	cachedData, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var cars []*domain.Car
		if jsonErr := json.Unmarshal([]byte(cachedData), &cars); jsonErr == nil {
			return cars, nil
		}
	}

	cars, err := r.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(cars); jsonErr == nil {
		_ = r.cache.Set(ctx, cacheKey, data, r.ttl)
	}

	return cars, nil
}

func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	if err := r.repo.Create(ctx, car); err != nil {
		return err
	}

	r.invalidateLists(ctx)
	return nil
}

func (r *CarRepository) UpdateDetails(ctx context.Context, car *domain.Car) error {
	if err := r.repo.UpdateDetails(ctx, car); err != nil {
		return err
	}

	r.invalidate(ctx, car.ID)
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *CarRepository) GetBookedIDs(ctx context.Context) ([]uuid.UUID, error) {
	// Служебное чтение Reconciler-а, кэшировать нечего
	return r.repo.GetBookedIDs(ctx)
}

func (r *CarRepository) UnmarkBookedBatch(ctx context.Context, ids []uuid.UUID) (int, error) {
	updated, err := r.repo.UnmarkBookedBatch(ctx, ids)
	if err != nil {
		return 0, err
	}

	if updated > 0 {
		for _, id := range ids {
			_ = r.cache.Del(ctx, carCachePrefix+id.String())
		}
		r.invalidateLists(ctx)
	}

	return updated, nil
}

// invalidate сбрасывает кэш одного автомобиля и всех списков
func (r *CarRepository) invalidate(ctx context.Context, id uuid.UUID) {
	_ = r.cache.Del(ctx, carCachePrefix+id.String())
	r.invalidateLists(ctx)
}

// invalidateLists сбрасывает все закэшированные страницы витрины
func (r *CarRepository) invalidateLists(ctx context.Context) {
	_ = r.cache.DelByPattern(ctx, carListCachePrefix+"*")
}
