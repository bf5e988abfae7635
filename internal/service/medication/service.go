package medication

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/repository"
	"github.com/dosewatch/dosewatch/pkg/logger"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Disarmer clears pending notifications for a medication. Satisfied by the
// pending tracker; deleting a medication must not leave armed entries behind.
type Disarmer interface {
	Disarm(ctx context.Context, medicationID int64) error
}

// Service owns the medication catalog. The schedule codec is applied here,
// at the boundary: repositories move raw text, everything above this layer
// sees typed schedules only.
type Service struct {
	repo     repository.MedicationRepository
	disarmer Disarmer
	cache    *cache.Cache
	logger   *logger.Logger
}

func NewService(repo repository.MedicationRepository, disarmer Disarmer, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		disarmer: disarmer,
		cache:    cache.New(cacheTTL, cacheCleanup),
		logger:   log,
	}
}

func (s *Service) Create(ctx context.Context, profileID int64, req *model.CreateMedicationRequest) (*model.Medication, error) {
	raw, err := model.SerializeSchedule(req.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}

	med := &model.Medication{
		ProfileID:   profileID,
		Name:        req.Name,
		Dosage:      req.Dosage,
		PhotoURI:    req.PhotoURI,
		Schedule:    req.Schedule,
		RawSchedule: raw,
	}

	if err := s.repo.Create(ctx, med); err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	s.cache.Flush()
	return med, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Medication, error) {
	key := cacheKey(id)
	if cached, ok := s.cache.Get(key); ok {
		med := cached.(model.Medication)
		return &med, nil
	}

	med, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	s.decodeSchedule(med)

	s.cache.Set(key, *med, cache.DefaultExpiration)
	return med, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateMedicationRequest) (*model.Medication, error) {
	med, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	s.decodeSchedule(med)

	if req.Name != nil {
		med.Name = *req.Name
	}
	if req.Dosage != nil {
		med.Dosage = *req.Dosage
	}
	if req.PhotoURI != nil {
		med.PhotoURI = req.PhotoURI
	}
	if req.Schedule != nil {
		raw, err := model.SerializeSchedule(req.Schedule)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule: %w", err)
		}
		med.Schedule = req.Schedule
		med.RawSchedule = raw
	}

	if err := s.repo.Update(ctx, med); err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	s.cache.Flush()
	return med, nil
}

// Delete removes a medication and clears any pending notifications armed for
// it, so the tracker never holds dangling references longer than one call.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	if err := s.disarmer.Disarm(ctx, id); err != nil {
		// Reconcile repairs this on the next pass.
		s.logger.Error(err, "failed to disarm deleted medication", "medication_id", id)
	}

	s.cache.Flush()
	return nil
}

func (s *Service) List(ctx context.Context, profileID int64) ([]*model.Medication, error) {
	meds, err := s.repo.List(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	for _, med := range meds {
		s.decodeSchedule(med)
	}
	return meds, nil
}

// ListAll returns the whole catalog with decoded schedules, for the
// reconciler and the report calculator.
func (s *Service) ListAll(ctx context.Context) ([]*model.Medication, error) {
	meds, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	for _, med := range meds {
		s.decodeSchedule(med)
	}
	return meds, nil
}

func (s *Service) ListIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list medication ids: %w", err)
	}
	return ids, nil
}

// decodeSchedule fills med.Schedule from the stored text. A malformed
// schedule degrades to no occurrences rather than failing the read; the
// medication stays visible so the user can repair it.
func (s *Service) decodeSchedule(med *model.Medication) {
	entries, err := model.ParseSchedule(med.RawSchedule)
	if err != nil {
		s.logger.Error(err, "malformed schedule, treating as empty", "medication_id", med.ID)
		med.Schedule = nil
		return
	}
	med.Schedule = entries
}

func cacheKey(id int64) string {
	return fmt.Sprintf("medication:%d", id)
}
