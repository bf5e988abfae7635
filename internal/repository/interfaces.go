package repository

import (
	"context"
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
)

// All repository interfaces in one file
type (
	// MedicationRepository is the medication catalog store.
	MedicationRepository interface {
		Create(ctx context.Context, med *model.Medication) error
		Get(ctx context.Context, id int64) (*model.Medication, error)
		Update(ctx context.Context, med *model.Medication) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, profileID int64) ([]*model.Medication, error)
		ListAll(ctx context.Context) ([]*model.Medication, error)
		ListIDs(ctx context.Context) ([]int64, error)
	}

	// HistoryRepository stores resolved doses. Virtual records never pass
	// through here.
	HistoryRepository interface {
		Create(ctx context.Context, record *model.HistoryRecord) error
		Get(ctx context.Context, id int64) (*model.HistoryRecord, error)
		QueryByMedicationAndDay(ctx context.Context, medicationID int64, day time.Time) ([]*model.HistoryRecord, error)
		QueryByDateRange(ctx context.Context, profileID int64, start, end time.Time) ([]*model.HistoryRecord, error)
		QueryByMedicationAndRange(ctx context.Context, medicationID int64, start, end time.Time) ([]*model.HistoryRecord, error)
		List(ctx context.Context, filters *model.HistoryFilters) ([]*model.HistoryRecord, error)
	}

	ProfileRepository interface {
		Create(ctx context.Context, profile *model.Profile) error
		Get(ctx context.Context, id int64) (*model.Profile, error)
		List(ctx context.Context) ([]*model.Profile, error)
	}

	// CheckpointRepository persists the end of the last successfully
	// reconciled liveness gap per profile.
	CheckpointRepository interface {
		Get(ctx context.Context, profileID int64) (*model.ReminderCheckpoint, error)
		Upsert(ctx context.Context, profileID int64, lastCheck time.Time) error
	}
)
