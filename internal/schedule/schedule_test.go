package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dosewatch/dosewatch/internal/model"
)

// 2024-01-01 is a Monday.
var baseDay = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestWeekdayBijection(t *testing.T) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		canonical := CanonicalWeekday(d)
		assert.True(t, canonical.Valid(), "canonical value for %v out of range", d)
		assert.Equal(t, d, FromCanonical(canonical), "round trip broke for %v", d)
	}

	assert.Equal(t, model.Monday, CanonicalWeekday(time.Monday))
	assert.Equal(t, model.Saturday, CanonicalWeekday(time.Saturday))
	assert.Equal(t, model.Sunday, CanonicalWeekday(time.Sunday))
	assert.Equal(t, time.Sunday, FromCanonical(model.Sunday))
}

func TestOccurrencesOnDay(t *testing.T) {
	entries := []model.ReminderTime{
		{Hour: 8, Minute: 0, Days: []model.Weekday{model.Monday, model.Wednesday, model.Friday}},
		{Hour: 20, Minute: 30, Days: []model.Weekday{model.Monday}},
	}

	monday := OccurrencesOnDay(entries, baseDay)
	assert.Equal(t, []TimeOfDay{{Hour: 8, Minute: 0}, {Hour: 20, Minute: 30}}, monday)

	tuesday := OccurrencesOnDay(entries, baseDay.AddDate(0, 0, 1))
	assert.Empty(t, tuesday)

	friday := OccurrencesOnDay(entries, baseDay.AddDate(0, 0, 4))
	assert.Equal(t, []TimeOfDay{{Hour: 8, Minute: 0}}, friday)
}

func TestOccurrencesOnDaySkipsInvalidEntries(t *testing.T) {
	entries := []model.ReminderTime{
		{Hour: 25, Minute: 0, Days: []model.Weekday{model.Monday}},
		{Hour: 8, Minute: 0, Days: []model.Weekday{model.Weekday(9)}},
		{Hour: 9, Minute: 15, Days: []model.Weekday{model.Monday}},
	}

	got := OccurrencesOnDay(entries, baseDay)
	assert.Equal(t, []TimeOfDay{{Hour: 9, Minute: 15}}, got)
}

func TestExpandRange(t *testing.T) {
	entries := []model.ReminderTime{
		{Hour: 8, Minute: 0, Days: []model.Weekday{model.Monday, model.Wednesday, model.Friday}},
	}

	// Two full weeks starting Monday.
	instants := ExpandRange(42, entries, baseDay, baseDay.AddDate(0, 0, 14))
	assert.Len(t, instants, 6)

	first := instants[0]
	assert.Equal(t, int64(42), first.MedicationID)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), first.Time)
	assert.Equal(t, 8, first.Hour)
	assert.Equal(t, 0, first.Minute)

	for _, in := range instants {
		assert.Zero(t, in.Time.Second())
		assert.Zero(t, in.Time.Nanosecond())
	}
}

func TestExpandRangeWalksWholeFirstDay(t *testing.T) {
	entries := []model.ReminderTime{
		{Hour: 8, Minute: 0, Days: []model.Weekday{model.Monday}},
	}

	// Range starts mid-morning; the 08:00 instant of the same day is still
	// emitted because the walk covers every day the range touches. Exact
	// bound filtering belongs to the caller.
	start := baseDay.Add(10 * time.Hour)
	instants := ExpandRange(1, entries, start, start.Add(time.Hour))
	assert.Len(t, instants, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), instants[0].Time)
}

func TestExpandRangeEmptyInputs(t *testing.T) {
	entries := []model.ReminderTime{
		{Hour: 8, Minute: 0, Days: []model.Weekday{model.Monday}},
	}

	assert.Nil(t, ExpandRange(1, nil, baseDay, baseDay.AddDate(0, 0, 7)))
	assert.Nil(t, ExpandRange(1, entries, baseDay, baseDay))
	assert.Nil(t, ExpandRange(1, entries, baseDay.AddDate(0, 0, 7), baseDay))
}

func TestExpandRangePreservesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	entries := []model.ReminderTime{
		{Hour: 8, Minute: 0, Days: []model.Weekday{model.Monday}},
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	instants := ExpandRange(1, entries, start, start.AddDate(0, 0, 1))
	assert.Len(t, instants, 1)
	assert.Equal(t, loc, instants[0].Time.Location())
	assert.Equal(t, 8, instants[0].Time.Hour())
}
