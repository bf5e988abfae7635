package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/reconcile"
	"github.com/dosewatch/dosewatch/internal/repository"
	apperrors "github.com/dosewatch/dosewatch/pkg/errors"
)

// MaxReportDays bounds the reporting window; the missed-dose calculation is
// O(days x medications x reminders-per-day).
const MaxReportDays = 90

// Catalog is the slice of the medication service the report path needs.
type Catalog interface {
	List(ctx context.Context, profileID int64) ([]*model.Medication, error)
}

type MedicationAdherence struct {
	MedicationID   int64   `json:"medication_id"`
	MedicationName string  `json:"medication_name"`
	Taken          int     `json:"taken"`
	Skipped        int     `json:"skipped"`
	Missed         int     `json:"missed"`
	Scheduled      int     `json:"scheduled"`
	AdherenceRate  float64 `json:"adherence_rate"`
}

type AdherenceReport struct {
	ProfileID   int64                  `json:"profile_id"`
	Start       time.Time              `json:"start"`
	End         time.Time              `json:"end"`
	Records     []*model.HistoryRecord `json:"records"`
	Medications []MedicationAdherence  `json:"medications"`
}

// Service produces adherence reports by merging persisted history with
// virtual missed records recomputed fresh on every call. Nothing here writes
// to any store.
type Service struct {
	catalog Catalog
	history repository.HistoryRepository
	nowFunc func() time.Time
}

type Option func(*Service)

func WithNowFunc(f func() time.Time) Option {
	return func(s *Service) { s.nowFunc = f }
}

func NewService(catalog Catalog, history repository.HistoryRepository, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		history: history,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Adherence builds the report for [start, end). Virtual MISSED records appear
// in Records alongside persisted ones, marked virtual so display layers can
// distinguish them; they are never written back.
func (s *Service) Adherence(ctx context.Context, profileID int64, start, end time.Time) (*AdherenceReport, error) {
	if !start.Before(end) {
		return nil, apperrors.NewBadRequest("report start must be before end", nil)
	}
	if end.Sub(start) > MaxReportDays*24*time.Hour {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("report range exceeds %d days", MaxReportDays), nil)
	}

	meds, err := s.catalog.List(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}

	persisted, err := s.history.QueryByDateRange(ctx, profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	now := s.nowFunc()
	virtual := reconcile.CalculateMissedDoses(meds, persisted, start, end, now)

	records := make([]*model.HistoryRecord, 0, len(persisted)+len(virtual))
	records = append(records, persisted...)
	records = append(records, virtual...)
	sort.Slice(records, func(i, j int) bool {
		return records[i].ScheduledTime.Before(records[j].ScheduledTime)
	})

	perMed := make(map[int64]*MedicationAdherence, len(meds))
	for _, med := range meds {
		perMed[med.ID] = &MedicationAdherence{
			MedicationID:   med.ID,
			MedicationName: med.Name,
		}
	}
	for _, rec := range records {
		agg, ok := perMed[rec.MedicationID]
		if !ok {
			// Medication deleted after the record was written; still counts.
			agg = &MedicationAdherence{MedicationID: rec.MedicationID, MedicationName: rec.MedicationName}
			perMed[rec.MedicationID] = agg
		}
		agg.Scheduled++
		switch rec.Action {
		case model.HistoryActionTaken:
			agg.Taken++
		case model.HistoryActionSkipped:
			agg.Skipped++
		case model.HistoryActionMissed:
			agg.Missed++
		}
	}

	report := &AdherenceReport{
		ProfileID: profileID,
		Start:     start,
		End:       end,
		Records:   records,
	}
	for _, agg := range perMed {
		if agg.Scheduled > 0 {
			agg.AdherenceRate = float64(agg.Taken) / float64(agg.Scheduled)
		}
		report.Medications = append(report.Medications, *agg)
	}
	sort.Slice(report.Medications, func(i, j int) bool {
		return report.Medications[i].MedicationID < report.Medications[j].MedicationID
	})

	return report, nil
}
