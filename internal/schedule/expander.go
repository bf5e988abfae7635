// Package schedule expands recurring weekly reminder schedules into concrete
// dose instants. Everything here is pure: same inputs, same outputs, no
// stores, no clocks.
package schedule

import (
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
)

// TimeOfDay is a wall-clock slot within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// DoseInstant is a single concrete occurrence of a reminder: one medication,
// one date, one wall-clock slot. Derived on demand, never persisted.
type DoseInstant struct {
	MedicationID int64
	Time         time.Time
	Hour         int
	Minute       int
}

// OccurrencesOnDay returns the slots of every schedule entry whose weekday
// set contains day's weekday under the canonical encoding. Invalid entries
// are skipped rather than reported; a malformed schedule yields an empty
// result. The weekday is derived from day at call time, so a timezone or
// clock change between calls cannot desynchronize comparisons.
func OccurrencesOnDay(entries []model.ReminderTime, day time.Time) []TimeOfDay {
	weekday := CanonicalWeekday(day.Weekday())

	var out []TimeOfDay
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		if e.HasDay(weekday) {
			out = append(out, TimeOfDay{Hour: e.Hour, Minute: e.Minute})
		}
	}
	return out
}

// ExpandRange emits one DoseInstant per matching entry for every calendar day
// intersecting the closed-open range [start, end). Instants are minute
// aligned: seconds and below are zero. The caller filters by exact bounds;
// this function only walks days.
func ExpandRange(medicationID int64, entries []model.ReminderTime, start, end time.Time) []DoseInstant {
	if !start.Before(end) || len(entries) == 0 {
		return nil
	}

	var out []DoseInstant
	for day := startOfDay(start); day.Before(end); day = day.AddDate(0, 0, 1) {
		for _, slot := range OccurrencesOnDay(entries, day) {
			out = append(out, DoseInstant{
				MedicationID: medicationID,
				Time:         time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, day.Location()),
				Hour:         slot.Hour,
				Minute:       slot.Minute,
			})
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
