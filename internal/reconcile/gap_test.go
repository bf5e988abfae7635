package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosewatch/dosewatch/internal/model"
)

var allDays = []model.Weekday{
	model.Monday, model.Tuesday, model.Wednesday, model.Thursday,
	model.Friday, model.Saturday, model.Sunday,
}

func dailyMed(id int64, hour, minute int) *model.Medication {
	return &model.Medication{
		ID:        id,
		ProfileID: 1,
		Name:      "daily med",
		Schedule: []model.ReminderTime{
			{Hour: hour, Minute: minute, Days: allDays},
		},
	}
}

func TestGapStartExcludesEarlierSameDayDose(t *testing.T) {
	// Dose fires daily at 09:42. The gap opens at 10:30 on day one: the
	// 09:42 dose of that day is in the past but outside the gap, so the
	// live path already owned it. Only the next day's dose is missed.
	med := dailyMed(1, 9, 42)
	gapStart := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	gapEnd := time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)

	missed := FindMissedDosesInGap(med, gapStart, gapEnd, gapEnd, nil)
	require.Len(t, missed, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 42, 0, 0, time.UTC), missed[0].ScheduledTime)
	assert.Equal(t, 9, missed[0].Hour)
	assert.Equal(t, 42, missed[0].Minute)
}

func TestGapEndIsExclusive(t *testing.T) {
	med := dailyMed(1, 9, 0)
	gapStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gapEnd := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	now := gapEnd.Add(time.Hour)

	missed := FindMissedDosesInGap(med, gapStart, gapEnd, now, nil)
	require.Len(t, missed, 1, "the dose at exactly gapEnd belongs to the next gap")
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), missed[0].ScheduledTime)
}

func TestFutureDosesExcluded(t *testing.T) {
	med := dailyMed(1, 9, 0)
	gapStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gapEnd := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	// now sits five minutes before the second day's dose; that dose is
	// inside the gap but has not happened yet.
	now := time.Date(2024, 1, 2, 8, 55, 0, 0, time.UTC)

	missed := FindMissedDosesInGap(med, gapStart, gapEnd, now, nil)
	require.Len(t, missed, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), missed[0].ScheduledTime)
}

func TestResolvedDosesExcluded(t *testing.T) {
	med := dailyMed(1, 9, 0)
	gapStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gapEnd := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	now := gapEnd

	history := []*model.HistoryRecord{
		{
			MedicationID: 1,
			// Recorded with trailing seconds; still resolves the
			// minute-aligned instant.
			ScheduledTime: time.Date(2024, 1, 1, 9, 0, 17, 0, time.UTC),
			Action:        model.HistoryActionTaken,
		},
	}

	missed := FindMissedDosesInGap(med, gapStart, gapEnd, now, history)
	require.Len(t, missed, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), missed[0].ScheduledTime)
}

func TestAnyActionResolves(t *testing.T) {
	med := dailyMed(1, 9, 0)
	gapStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gapEnd := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	for _, action := range []model.HistoryAction{
		model.HistoryActionTaken, model.HistoryActionSkipped, model.HistoryActionMissed,
	} {
		history := []*model.HistoryRecord{
			{MedicationID: 1, ScheduledTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Action: action},
		}
		missed := FindMissedDosesInGap(med, gapStart, gapEnd, gapEnd, history)
		assert.Empty(t, missed, "action %s should resolve the instant", action)
	}
}

func TestMultiDayGap(t *testing.T) {
	// Mon/Wed/Fri at 08:00 across two unwatched weeks starting Monday
	// 2024-01-01: six doses, all missed.
	med := &model.Medication{
		ID:        1,
		ProfileID: 1,
		Name:      "mwf med",
		Schedule: []model.ReminderTime{
			{Hour: 8, Minute: 0, Days: []model.Weekday{model.Monday, model.Wednesday, model.Friday}},
		},
	}
	gapStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gapEnd := gapStart.AddDate(0, 0, 14)

	missed := FindMissedDosesInGap(med, gapStart, gapEnd, gapEnd, nil)
	require.Len(t, missed, 6)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), missed[0].ScheduledTime)
	assert.Equal(t, time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC), missed[5].ScheduledTime)
}

func TestDegenerateInputs(t *testing.T) {
	med := dailyMed(1, 9, 0)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, FindMissedDosesInGap(nil, at, at.AddDate(0, 0, 1), at.AddDate(0, 0, 1), nil))
	assert.Nil(t, FindMissedDosesInGap(med, at, at, at, nil))
	assert.Nil(t, FindMissedDosesInGap(med, at.AddDate(0, 0, 1), at, at, nil))
}
