// Package reconcile backfills dose instants that went unwatched: single-gap
// recovery after a process kill or reboot, and range-wide recomputation for
// reporting. Both entry points are pure functions over expanded schedules and
// supplied history, with no store dependencies.
package reconcile

import (
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/schedule"
)

// FindMissedDosesInGap computes the dose instants of one medication that were
// missed inside the liveness gap [gapStart, gapEnd). In order:
//
//  1. expand the schedule across every day the gap touches,
//  2. keep only instants with gapStart <= t < gapEnd; an instant earlier the
//     same day but before gapStart is excluded even though it is in the past,
//     because the live path already had its chance at it; this tie-break is
//     what prevents double-reporting,
//  3. drop instants after now,
//  4. drop instants already resolved by any history record (same medication,
//     same year/day-of-year/hour/minute, any action).
//
// The caller decides what to do with the result (persist MISSED records,
// clear pending entries); nothing is written here.
func FindMissedDosesInGap(med *model.Medication, gapStart, gapEnd, now time.Time, history []*model.HistoryRecord) []model.MissedDose {
	if med == nil || !gapStart.Before(gapEnd) {
		return nil
	}

	var missed []model.MissedDose
	for _, instant := range schedule.ExpandRange(med.ID, med.Schedule, gapStart, gapEnd) {
		if instant.Time.Before(gapStart) || !instant.Time.Before(gapEnd) {
			continue
		}
		if instant.Time.After(now) {
			continue
		}
		if resolved(history, med.ID, instant.Time) {
			continue
		}
		missed = append(missed, model.MissedDose{
			MedicationID:  med.ID,
			ScheduledTime: instant.Time,
			Hour:          instant.Hour,
			Minute:        instant.Minute,
		})
	}
	return missed
}

func resolved(history []*model.HistoryRecord, medicationID int64, t time.Time) bool {
	for _, h := range history {
		if h.ResolvesInstant(medicationID, t) {
			return true
		}
	}
	return false
}
