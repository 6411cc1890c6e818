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

type bookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) repository.BookingRepository {
	return &bookingRepository{db: db}
}

// CreateAndMarkCar вставляет бронирование и помечает автомобиль занятым
// в одной транзакции. Условное обновление флага (WHERE is_booked = false)
// закрывает гонку двух одновременных бронирований: проигравшая транзакция
// получает ноль затронутых строк и откатывается с ErrCarAlreadyBooked
func (r *bookingRepository) CreateAndMarkCar(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	markQuery := `
		UPDATE cars
		SET is_booked = true, updated_at = $2
		WHERE id = $1 AND is_booked = false
	`

	result, err := tx.Exec(ctx, markQuery, booking.CarID, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCarAlreadyBooked
	}

	insertQuery := `
		INSERT INTO bookings (id, car_id, user_id, customer_name, customer_email, customer_phone,
			start_date, end_date, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()

	_, err = tx.Exec(ctx, insertQuery,
		booking.ID,
		booking.CarID,
		booking.UserID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.StartDate,
		booking.EndDate,
		booking.TotalPrice,
		booking.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, car_id, user_id, customer_name, customer_email, customer_phone,
			start_date, end_date, total_price, created_at
		FROM bookings
		WHERE id = $1
	`

	booking := &domain.Booking{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.CarID,
		&booking.UserID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.StartDate,
		&booking.EndDate,
		&booking.TotalPrice,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

func (r *bookingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	query := `
		SELECT id, car_id, user_id, customer_name, customer_email, customer_phone,
			start_date, end_date, total_price, created_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY start_date DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *bookingRepository) List(ctx context.Context, limit, offset int) ([]*domain.Booking, error) {
	query := `
		SELECT id, car_id, user_id, customer_name, customer_email, customer_phone,
			start_date, end_date, total_price, created_at
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *bookingRepository) CountCurrentByCar(ctx context.Context, carID uuid.UUID, today time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE car_id = $1 AND end_date >= $2
	`

	var count int
	if err := r.db.QueryRow(ctx, query, carID, today).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *bookingRepository) GetCarIDsWithCurrent(ctx context.Context, carIDs []uuid.UUID, today time.Time) ([]uuid.UUID, error) {
	if len(carIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT car_id
		FROM bookings
		WHERE car_id = ANY($1) AND end_date >= $2
	`

	rows, err := r.db.Query(ctx, query, carIDs, today)
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

// DeleteAndUnmarkCar освобождает автомобиль и удаляет бронирование одной
// транзакцией. Порядок как в ручном сценарии администратора: сначала флаг,
// затем удаление строки бронирования
func (r *bookingRepository) DeleteAndUnmarkCar(ctx context.Context, carID, bookingID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	unmarkQuery := `
		UPDATE cars
		SET is_booked = false, updated_at = $2
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, unmarkQuery, carID, time.Now()); err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	return tx.Commit(ctx)
}

func scanBookings(rows pgx.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		booking := &domain.Booking{}
		err := rows.Scan(
			&booking.ID,
			&booking.CarID,
			&booking.UserID,
			&booking.CustomerName,
			&booking.CustomerEmail,
			&booking.CustomerPhone,
			&booking.StartDate,
			&booking.EndDate,
			&booking.TotalPrice,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
