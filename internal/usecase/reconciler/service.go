package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/logger"
	"github.com/trackpad/rental/internal/repository"
)

// Result - итог одного прохода сверки
type Result struct {
	UpdatedCount int `json:"updated_count"`
}

// Service восстанавливает инвариант денормализованного флага is_booked:
// флаг стоит тогда и только тогда, когда у автомобиля есть бронирование
// с end_date >= сегодня. Никто не сбрасывает флаг по истечении брони
// проактивно - этим занимается только сверка
type Service struct {
	carRepo     repository.CarRepository
	bookingRepo repository.BookingRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр ReconcilerService
func NewService(
	carRepo repository.CarRepository,
	bookingRepo repository.BookingRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		carRepo:     carRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Reconcile выполняет один проход сверки
// Операция идемпотентна: повторный запуск без новых записей вернет 0.
// Одновременные запуски безопасны - batch-update затрагивает только
// строки, где флаг еще стоит
func (s *Service) Reconcile(ctx context.Context) (*Result, error) {
	bookedIDs, err := s.carRepo.GetBookedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booked cars: %w", err)
	}

	if len(bookedIDs) == 0 {
		return &Result{UpdatedCount: 0}, nil
	}

	currentIDs, err := s.bookingRepo.GetCarIDsWithCurrent(ctx, bookedIDs, domain.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current bookings: %w", err)
	}

	current := make(map[uuid.UUID]struct{}, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = struct{}{}
	}

	// Автомобили с поднятым флагом, но без единого неистекшего бронирования
	var stale []uuid.UUID
	for _, id := range bookedIDs {
		if _, ok := current[id]; !ok {
			stale = append(stale, id)
		}
	}

	if len(stale) == 0 {
		return &Result{UpdatedCount: 0}, nil
	}

	updated, err := s.carRepo.UnmarkBookedBatch(ctx, stale)
	if err != nil {
		return nil, fmt.Errorf("failed to unmark stale cars: %w", err)
	}

	s.logger.Info("Fleet status reconciled", map[string]interface{}{
		"checked": len(bookedIDs),
		"updated": updated,
	})

	return &Result{UpdatedCount: updated}, nil
}

// Run запускает периодическую сверку до отмены контекста
// Ошибки отдельных проходов логируются и не останавливают цикл:
// отставший флаг просто доживет до следующего прохода
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Fleet reconciler started", map[string]interface{}{
		"interval": interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Fleet reconciler stopped")
			return
		case <-ticker.C:
			if _, err := s.Reconcile(ctx); err != nil {
				s.logger.Error("Reconciliation pass failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
