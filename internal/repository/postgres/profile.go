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

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (name, pin_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		profile.Name,
		profile.PinHash,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Scan(&profile.ID)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, id int64) (*model.Profile, error) {
	query := `
		SELECT id, name, pin_hash, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("profile", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*model.Profile, error) {
	query := `
		SELECT id, name, pin_hash, created_at, updated_at
		FROM profiles
		ORDER BY created_at
	`
	var profiles []*model.Profile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
