package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/repository"
)

type carRepository struct {
	db *pgxpool.Pool
}

func NewCarRepository(db *pgxpool.Pool) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (id, name, brand, price_per_day, image_url, is_booked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	car.ID = uuid.New()
	car.IsBooked = false
	car.CreatedAt = time.Now()
	car.UpdatedAt = car.CreatedAt

	_, err := r.db.Exec(ctx, query,
		car.ID,
		car.Name,
		car.Brand,
		car.PricePerDay,
		car.ImageURL,
		car.IsBooked,
		car.CreatedAt,
		car.UpdatedAt,
	)

	return err
}

func (r *carRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	query := `
		SELECT id, name, brand, price_per_day, image_url, is_booked, created_at, updated_at
		FROM cars
		WHERE id = $1
	`

	car := &domain.Car{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&car.ID,
		&car.Name,
		&car.Brand,
		&car.PricePerDay,
		&car.ImageURL,
		&car.IsBooked,
		&car.CreatedAt,
		&car.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, err
	}

	return car, nil
}

func (r *carRepository) List(ctx context.Context, limit, offset int) ([]*domain.Car, error) {
	query := `
		SELECT id, name, brand, price_per_day, image_url, is_booked, created_at, updated_at
		FROM cars
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCars(rows)
}

func (r *carRepository) UpdateDetails(ctx context.Context, car *domain.Car) error {
	// Меняются только описательные поля; is_booked здесь не трогаем
	query := `
		UPDATE cars
		SET name = $2, brand = $3, price_per_day = $4, image_url = $5, updated_at = $6
		WHERE id = $1
	`

	car.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		car.ID,
		car.Name,
		car.Brand,
		car.PricePerDay,
		car.ImageURL,
		car.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}

	return nil
}

func (r *carRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// История бронирований удаляется вместе с автомобилем,
	// обе операции - в одной транзакции
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE car_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}

	return tx.Commit(ctx)
}

func (r *carRepository) GetBookedIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM cars WHERE is_booked = true`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *carRepository) UnmarkBookedBatch(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE cars
		SET is_booked = false, updated_at = $2
		WHERE id = ANY($1) AND is_booked = true
	`

	result, err := r.db.Exec(ctx, query, ids, time.Now())
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}

func scanCars(rows pgx.Rows) ([]*domain.Car, error) {
	var cars []*domain.Car
	for rows.Next() {
		car := &domain.Car{}
		err := rows.Scan(
			&car.ID,
			&car.Name,
			&car.Brand,
			&car.PricePerDay,
			&car.ImageURL,
			&car.IsBooked,
			&car.CreatedAt,
			&car.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}

	return cars, rows.Err()
}
