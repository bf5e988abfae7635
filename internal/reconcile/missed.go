package reconcile

import (
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/schedule"
)

// CalculateMissedDoses is the reporting-range generalization of
// FindMissedDosesInGap: every medication, every day in [start, end),
// synthesizing one virtual MISSED record per unresolved past instant. The
// gap-start tie-break does not apply here, since the caller supplies an arbitrary
// reporting window, not a liveness gap.
//
// Returned records are virtual: marked as such, carrying no database
// identity, and they must never be written back to any store. Repeated calls
// are safe because the result is recomputed fresh each time.
//
// Cost is O(days x medications x reminders-per-day); callers bound the range
// (a report window of 30-90 days).
func CalculateMissedDoses(medications []*model.Medication, history []*model.HistoryRecord, start, end, now time.Time) []*model.HistoryRecord {
	if !start.Before(end) {
		return nil
	}

	var out []*model.HistoryRecord
	for _, med := range medications {
		for _, instant := range schedule.ExpandRange(med.ID, med.Schedule, start, end) {
			if instant.Time.Before(start) || !instant.Time.Before(end) {
				continue
			}
			if instant.Time.After(now) {
				continue
			}
			if resolved(history, med.ID, instant.Time) {
				continue
			}
			out = append(out, &model.HistoryRecord{
				ProfileID:      med.ProfileID,
				MedicationID:   med.ID,
				MedicationName: med.Name,
				ScheduledTime:  instant.Time,
				WasOnTime:      false,
				Action:         model.HistoryActionMissed,
				Virtual:        true,
			})
		}
	}
	return out
}
