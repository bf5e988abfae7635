// Package memory provides in-memory store implementations used by unit tests
// and by the tracker's failure-path tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
	apperrors "github.com/dosewatch/dosewatch/pkg/errors"
)

// Blob is an in-memory pending blob. ReadErr/WriteErr, when set, are returned
// on the next operation to simulate store failures.
type Blob struct {
	mu       sync.Mutex
	data     string
	ReadErr  error
	WriteErr error
	Writes   int
}

func NewBlob() *Blob {
	return &Blob{}
}

func (b *Blob) Read(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ReadErr != nil {
		return "", b.ReadErr
	}
	return b.data, nil
}

func (b *Blob) Write(ctx context.Context, data string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.data = data
	b.Writes++
	return nil
}

// Seed replaces the stored blob directly, bypassing the tracker.
func (b *Blob) Seed(data string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
}

// Snapshot returns the raw stored blob.
func (b *Blob) Snapshot() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// MedicationRepository is a map-backed medication store.
type MedicationRepository struct {
	mu     sync.Mutex
	nextID int64
	meds   map[int64]*model.Medication
}

func NewMedicationRepository() *MedicationRepository {
	return &MedicationRepository{nextID: 1, meds: make(map[int64]*model.Medication)}
}

func (r *MedicationRepository) Create(ctx context.Context, med *model.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	med.ID = r.nextID
	r.nextID++
	med.CreatedAt = time.Now()
	med.UpdatedAt = med.CreatedAt
	copied := *med
	r.meds[med.ID] = &copied
	return nil
}

func (r *MedicationRepository) Get(ctx context.Context, id int64) (*model.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	med, ok := r.meds[id]
	if !ok {
		return nil, apperrors.NewNotFound("medication", nil)
	}
	copied := *med
	return &copied, nil
}

func (r *MedicationRepository) Update(ctx context.Context, med *model.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meds[med.ID]; !ok {
		return apperrors.NewNotFound("medication", nil)
	}
	med.UpdatedAt = time.Now()
	copied := *med
	r.meds[med.ID] = &copied
	return nil
}

func (r *MedicationRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meds[id]; !ok {
		return apperrors.NewNotFound("medication", nil)
	}
	delete(r.meds, id)
	return nil
}

func (r *MedicationRepository) List(ctx context.Context, profileID int64) ([]*model.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Medication
	for _, med := range r.meds {
		if med.ProfileID == profileID {
			copied := *med
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *MedicationRepository) ListAll(ctx context.Context) ([]*model.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Medication
	for _, med := range r.meds {
		copied := *med
		out = append(out, &copied)
	}
	return out, nil
}

func (r *MedicationRepository) ListIDs(ctx context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id := range r.meds {
		ids = append(ids, id)
	}
	return ids, nil
}

// HistoryRepository is a slice-backed history store.
type HistoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	records []*model.HistoryRecord
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{nextID: 1}
}

func (r *HistoryRepository) Create(ctx context.Context, record *model.HistoryRecord) error {
	if record.Virtual {
		return apperrors.NewBadRequest("virtual history records must not be persisted", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = r.nextID
	r.nextID++
	record.CreatedAt = time.Now()
	copied := *record
	r.records = append(r.records, &copied)
	return nil
}

func (r *HistoryRepository) Get(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFound("history record", nil)
}

func (r *HistoryRepository) QueryByMedicationAndDay(ctx context.Context, medicationID int64, day time.Time) ([]*model.HistoryRecord, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return r.QueryByMedicationAndRange(ctx, medicationID, dayStart, dayStart.AddDate(0, 0, 1))
}

func (r *HistoryRepository) QueryByMedicationAndRange(ctx context.Context, medicationID int64, start, end time.Time) ([]*model.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.HistoryRecord
	for _, rec := range r.records {
		if rec.MedicationID == medicationID && !rec.ScheduledTime.Before(start) && rec.ScheduledTime.Before(end) {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *HistoryRepository) QueryByDateRange(ctx context.Context, profileID int64, start, end time.Time) ([]*model.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.HistoryRecord
	for _, rec := range r.records {
		if rec.ProfileID == profileID && !rec.ScheduledTime.Before(start) && rec.ScheduledTime.Before(end) {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *HistoryRepository) List(ctx context.Context, filters *model.HistoryFilters) ([]*model.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.HistoryRecord
	for _, rec := range r.records {
		if filters.ProfileID != 0 && rec.ProfileID != filters.ProfileID {
			continue
		}
		if filters.MedicationID != 0 && rec.MedicationID != filters.MedicationID {
			continue
		}
		if filters.Action != "" && rec.Action != filters.Action {
			continue
		}
		if !filters.Start.IsZero() && rec.ScheduledTime.Before(filters.Start) {
			continue
		}
		if !filters.End.IsZero() && !rec.ScheduledTime.Before(filters.End) {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

// ProfileRepository is a map-backed profile store.
type ProfileRepository struct {
	mu       sync.Mutex
	nextID   int64
	profiles map[int64]*model.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{nextID: 1, profiles: make(map[int64]*model.Profile)}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile.ID = r.nextID
	r.nextID++
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, id int64) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, apperrors.NewNotFound("profile", nil)
	}
	copied := *profile
	return &copied, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Profile
	for _, profile := range r.profiles {
		copied := *profile
		out = append(out, &copied)
	}
	return out, nil
}

// CheckpointRepository is a map-backed checkpoint store.
type CheckpointRepository struct {
	mu          sync.Mutex
	checkpoints map[int64]*model.ReminderCheckpoint
}

func NewCheckpointRepository() *CheckpointRepository {
	return &CheckpointRepository{checkpoints: make(map[int64]*model.ReminderCheckpoint)}
}

func (r *CheckpointRepository) Get(ctx context.Context, profileID int64) (*model.ReminderCheckpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp, ok := r.checkpoints[profileID]
	if !ok {
		return nil, apperrors.NewNotFound("reminder checkpoint", nil)
	}
	copied := *cp
	return &copied, nil
}

func (r *CheckpointRepository) Upsert(ctx context.Context, profileID int64, lastCheck time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkpoints[profileID] = &model.ReminderCheckpoint{
		ProfileID: profileID,
		LastCheck: lastCheck,
		UpdatedAt: time.Now(),
	}
	return nil
}
