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

type checkpointRepository struct {
	db *sqlx.DB
}

func NewCheckpointRepository(db *sqlx.DB) repository.CheckpointRepository {
	return &checkpointRepository{db: db}
}

func (r *checkpointRepository) Get(ctx context.Context, profileID int64) (*model.ReminderCheckpoint, error) {
	query := `
		SELECT profile_id, last_check, updated_at
		FROM reminder_checkpoints
		WHERE profile_id = $1
	`
	var cp model.ReminderCheckpoint
	err := r.db.GetContext(ctx, &cp, query, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("reminder checkpoint", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder checkpoint: %w", err)
	}
	return &cp, nil
}

func (r *checkpointRepository) Upsert(ctx context.Context, profileID int64, lastCheck time.Time) error {
	query := `
		INSERT INTO reminder_checkpoints (profile_id, last_check, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile_id)
		DO UPDATE SET last_check = EXCLUDED.last_check, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, profileID, lastCheck, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert reminder checkpoint: %w", err)
	}
	return nil
}
