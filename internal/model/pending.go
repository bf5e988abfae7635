package model

import (
	"time"
)

// PendingEntry records that a reminder notification fired for a medication at
// a wall-clock slot and has not been acknowledged yet. The full list is
// serialized as one opaque blob; see the pending package for the lifecycle
// rules (dedup, expiry, reconcile).
type PendingEntry struct {
	MedicationID   int64   `json:"medicationId"`
	MedicationName string  `json:"medicationName"`
	PhotoURI       *string `json:"medicationPhotoUri"`
	Hour           int     `json:"hour"`
	Minute         int     `json:"minute"`
	// ArmedAt is unix milliseconds of the moment the notification fired.
	ArmedAt int64 `json:"timestamp"`
}

// SameSlot reports whether two entries refer to the same dose slot. The slot
// key is (medicationId, hour, minute); ArmedAt is deliberately excluded so a
// re-delivered alarm replaces rather than duplicates.
func (p PendingEntry) SameSlot(o PendingEntry) bool {
	return p.MedicationID == o.MedicationID && p.Hour == o.Hour && p.Minute == o.Minute
}

func (p PendingEntry) ArmedTime() time.Time {
	return time.UnixMilli(p.ArmedAt)
}
