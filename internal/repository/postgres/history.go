package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/repository"
	apperrors "github.com/dosewatch/dosewatch/pkg/errors"
)

type historyRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, record *model.HistoryRecord) error {
	if record.Virtual {
		return apperrors.NewBadRequest("virtual history records must not be persisted", nil)
	}

	query := `
		INSERT INTO medication_history (
			profile_id, medication_id, medication_name, scheduled_time,
			taken_time, was_on_time, action, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	record.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		record.ProfileID,
		record.MedicationID,
		record.MedicationName,
		record.ScheduledTime,
		record.TakenTime,
		record.WasOnTime,
		record.Action,
		record.Notes,
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to create history record: %w", err)
	}
	return nil
}

func (r *historyRepository) Get(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	query := `
		SELECT id, profile_id, medication_id, medication_name, scheduled_time,
			   taken_time, was_on_time, action, notes, created_at
		FROM medication_history
		WHERE id = $1
	`
	var record model.HistoryRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("history record", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history record: %w", err)
	}
	return &record, nil
}

func (r *historyRepository) QueryByMedicationAndDay(ctx context.Context, medicationID int64, day time.Time) ([]*model.HistoryRecord, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return r.QueryByMedicationAndRange(ctx, medicationID, dayStart, dayStart.AddDate(0, 0, 1))
}

func (r *historyRepository) QueryByMedicationAndRange(ctx context.Context, medicationID int64, start, end time.Time) ([]*model.HistoryRecord, error) {
	query := `
		SELECT id, profile_id, medication_id, medication_name, scheduled_time,
			   taken_time, was_on_time, action, notes, created_at
		FROM medication_history
		WHERE medication_id = $1 AND scheduled_time >= $2 AND scheduled_time < $3
		ORDER BY scheduled_time
	`
	var records []*model.HistoryRecord
	if err := r.db.SelectContext(ctx, &records, query, medicationID, start, end); err != nil {
		return nil, fmt.Errorf("failed to query history by medication: %w", err)
	}
	return records, nil
}

func (r *historyRepository) QueryByDateRange(ctx context.Context, profileID int64, start, end time.Time) ([]*model.HistoryRecord, error) {
	query := `
		SELECT id, profile_id, medication_id, medication_name, scheduled_time,
			   taken_time, was_on_time, action, notes, created_at
		FROM medication_history
		WHERE profile_id = $1 AND scheduled_time >= $2 AND scheduled_time < $3
		ORDER BY scheduled_time
	`
	var records []*model.HistoryRecord
	if err := r.db.SelectContext(ctx, &records, query, profileID, start, end); err != nil {
		return nil, fmt.Errorf("failed to query history by range: %w", err)
	}
	return records, nil
}

func (r *historyRepository) List(ctx context.Context, filters *model.HistoryFilters) ([]*model.HistoryRecord, error) {
	query := `
		SELECT id, profile_id, medication_id, medication_name, scheduled_time,
			   taken_time, was_on_time, action, notes, created_at
		FROM medication_history
		WHERE profile_id = $1
	`
	args := []interface{}{filters.ProfileID}

	if filters.MedicationID != 0 {
		args = append(args, filters.MedicationID)
		query += fmt.Sprintf(" AND medication_id = $%d", len(args))
	}
	if filters.Action != "" {
		args = append(args, filters.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if !filters.Start.IsZero() {
		args = append(args, filters.Start)
		query += fmt.Sprintf(" AND scheduled_time >= $%d", len(args))
	}
	if !filters.End.IsZero() {
		args = append(args, filters.End)
		query += fmt.Sprintf(" AND scheduled_time < $%d", len(args))
	}
	query += " ORDER BY scheduled_time DESC"

	var records []*model.HistoryRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list history records: %w", err)
	}
	return records, nil
}
