package history

import (
	"context"
	"fmt"
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/repository"
	apperrors "github.com/dosewatch/dosewatch/pkg/errors"
)

type Service struct {
	repo    repository.HistoryRepository
	nowFunc func() time.Time
}

type Option func(*Service)

func WithNowFunc(f func() time.Time) Option {
	return func(s *Service) { s.nowFunc = f }
}

func NewService(repo repository.HistoryRepository, opts ...Option) *Service {
	s := &Service{repo: repo, nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Insert(ctx context.Context, record *model.HistoryRecord) error {
	if record.Virtual {
		return apperrors.NewBadRequest("virtual history records must not be persisted", nil)
	}
	// A missed dose lies in the past; a future scheduled time would
	// resolve an instant that has not happened yet.
	if record.Action == model.HistoryActionMissed && record.ScheduledTime.After(s.nowFunc()) {
		return apperrors.NewBadRequest("missed records must not be dated in the future", nil)
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get history record: %w", err)
	}
	return record, nil
}

func (s *Service) QueryByMedicationAndDay(ctx context.Context, medicationID int64, day time.Time) ([]*model.HistoryRecord, error) {
	records, err := s.repo.QueryByMedicationAndDay(ctx, medicationID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return records, nil
}

func (s *Service) QueryByDateRange(ctx context.Context, profileID int64, start, end time.Time) ([]*model.HistoryRecord, error) {
	records, err := s.repo.QueryByDateRange(ctx, profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return records, nil
}

func (s *Service) List(ctx context.Context, filters *model.HistoryFilters) ([]*model.HistoryRecord, error) {
	records, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list history records: %w", err)
	}
	return records, nil
}
