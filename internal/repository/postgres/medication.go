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

type medicationRepository struct {
	db *sqlx.DB
}

func NewMedicationRepository(db *sqlx.DB) repository.MedicationRepository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) Create(ctx context.Context, med *model.Medication) error {
	query := `
		INSERT INTO medications (
			profile_id, name, dosage, photo_uri, schedule, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	med.CreatedAt = time.Now()
	med.UpdatedAt = med.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		med.ProfileID,
		med.Name,
		med.Dosage,
		med.PhotoURI,
		med.RawSchedule,
		med.CreatedAt,
		med.UpdatedAt,
	).Scan(&med.ID)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}
	return nil
}

func (r *medicationRepository) Get(ctx context.Context, id int64) (*model.Medication, error) {
	query := `
		SELECT id, profile_id, name, dosage, photo_uri, schedule, created_at, updated_at
		FROM medications
		WHERE id = $1
	`
	var med model.Medication
	err := r.db.GetContext(ctx, &med, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("medication", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return &med, nil
}

func (r *medicationRepository) Update(ctx context.Context, med *model.Medication) error {
	query := `
		UPDATE medications
		SET name = $1, dosage = $2, photo_uri = $3, schedule = $4, updated_at = $5
		WHERE id = $6
	`
	med.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		med.Name,
		med.Dosage,
		med.PhotoURI,
		med.RawSchedule,
		med.UpdatedAt,
		med.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("medication", nil)
	}

	return nil
}

func (r *medicationRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM medications
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("medication", nil)
	}

	return nil
}

func (r *medicationRepository) List(ctx context.Context, profileID int64) ([]*model.Medication, error) {
	query := `
		SELECT id, profile_id, name, dosage, photo_uri, schedule, created_at, updated_at
		FROM medications
		WHERE profile_id = $1
		ORDER BY created_at
	`
	var meds []*model.Medication
	if err := r.db.SelectContext(ctx, &meds, query, profileID); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return meds, nil
}

func (r *medicationRepository) ListAll(ctx context.Context) ([]*model.Medication, error) {
	query := `
		SELECT id, profile_id, name, dosage, photo_uri, schedule, created_at, updated_at
		FROM medications
		ORDER BY created_at
	`
	var meds []*model.Medication
	if err := r.db.SelectContext(ctx, &meds, query); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return meds, nil
}

func (r *medicationRepository) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM medications`); err != nil {
		return nil, fmt.Errorf("failed to list medication ids: %w", err)
	}
	return ids, nil
}
