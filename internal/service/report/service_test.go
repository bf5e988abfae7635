package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/repository/memory"
)

func seedDailyMedication(t *testing.T, meds *memory.MedicationRepository) *model.Medication {
	t.Helper()
	med := &model.Medication{
		ProfileID: 1,
		Name:      "metformin",
		Schedule: []model.ReminderTime{
			{Hour: 8, Minute: 0, Days: []model.Weekday{
				model.Monday, model.Tuesday, model.Wednesday, model.Thursday,
				model.Friday, model.Saturday, model.Sunday,
			}},
		},
	}
	require.NoError(t, meds.Create(context.Background(), med))
	return med
}

func TestAdherenceMergesVirtualMissed(t *testing.T) {
	ctx := context.Background()
	meds := memory.NewMedicationRepository()
	history := memory.NewHistoryRepository()
	med := seedDailyMedication(t, meds)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	now := end.AddDate(0, 0, 1)

	// Day one taken, day two skipped, days three and four unresolved.
	require.NoError(t, history.Create(ctx, &model.HistoryRecord{
		ProfileID: 1, MedicationID: med.ID, MedicationName: med.Name,
		ScheduledTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		Action:        model.HistoryActionTaken, WasOnTime: true,
	}))
	require.NoError(t, history.Create(ctx, &model.HistoryRecord{
		ProfileID: 1, MedicationID: med.ID, MedicationName: med.Name,
		ScheduledTime: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		Action:        model.HistoryActionSkipped,
	}))

	svc := NewService(meds, history, WithNowFunc(func() time.Time { return now }))

	report, err := svc.Adherence(ctx, 1, start, end)
	require.NoError(t, err)

	require.Len(t, report.Records, 4)
	for i := 1; i < len(report.Records); i++ {
		assert.False(t, report.Records[i].ScheduledTime.Before(report.Records[i-1].ScheduledTime),
			"records must be sorted by scheduled time")
	}

	var virtualCount int
	for _, rec := range report.Records {
		if rec.Virtual {
			virtualCount++
			assert.Equal(t, model.HistoryActionMissed, rec.Action)
			assert.Zero(t, rec.ID)
		}
	}
	assert.Equal(t, 2, virtualCount)

	require.Len(t, report.Medications, 1)
	agg := report.Medications[0]
	assert.Equal(t, med.ID, agg.MedicationID)
	assert.Equal(t, 4, agg.Scheduled)
	assert.Equal(t, 1, agg.Taken)
	assert.Equal(t, 1, agg.Skipped)
	assert.Equal(t, 2, agg.Missed)
	assert.InDelta(t, 0.25, agg.AdherenceRate, 1e-9)
}

func TestAdherenceNeverPersistsVirtualRecords(t *testing.T) {
	ctx := context.Background()
	meds := memory.NewMedicationRepository()
	history := memory.NewHistoryRepository()
	seedDailyMedication(t, meds)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	svc := NewService(meds, history, WithNowFunc(func() time.Time { return end }))

	_, err := svc.Adherence(ctx, 1, start, end)
	require.NoError(t, err)
	_, err = svc.Adherence(ctx, 1, start, end)
	require.NoError(t, err)

	persisted, err := history.QueryByDateRange(ctx, 1, start, end)
	require.NoError(t, err)
	assert.Empty(t, persisted, "reporting must leave the store untouched")
}

func TestAdherenceValidatesWindow(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewMedicationRepository(), memory.NewHistoryRepository())

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Adherence(ctx, 1, at, at)
	assert.Error(t, err)

	_, err = svc.Adherence(ctx, 1, at, at.AddDate(0, 0, MaxReportDays+1))
	assert.Error(t, err)

	_, err = svc.Adherence(ctx, 1, at, at.AddDate(0, 0, MaxReportDays))
	assert.NoError(t, err)
}
