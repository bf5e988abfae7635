package model

import (
	"time"
)

type HistoryAction string

const (
	HistoryActionTaken   HistoryAction = "taken"
	HistoryActionSkipped HistoryAction = "skipped"
	HistoryActionMissed  HistoryAction = "missed"
)

// HistoryRecord is one resolved dose. Persisted records are written on user
// action or by the reconciler; virtual records are synthesized for reporting
// and must never reach a store.
type HistoryRecord struct {
	ID             int64         `db:"id" json:"id"`
	ProfileID      int64         `db:"profile_id" json:"profile_id"`
	MedicationID   int64         `db:"medication_id" json:"medication_id"`
	MedicationName string        `db:"medication_name" json:"medication_name"`
	ScheduledTime  time.Time     `db:"scheduled_time" json:"scheduled_time"`
	TakenTime      *time.Time    `db:"taken_time" json:"taken_time,omitempty"`
	WasOnTime      bool          `db:"was_on_time" json:"was_on_time"`
	Action         HistoryAction `db:"action" json:"action"`
	Notes          string        `db:"notes" json:"notes,omitempty"`
	// Virtual marks a record synthesized by the missed-dose calculator.
	// It carries no database identity and is filtered out of every insert path.
	Virtual   bool      `db:"-" json:"virtual,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ResolvesInstant reports whether this record resolves the dose instant at t
// for the given medication. Resolution compares year, day-of-year, hour and
// minute; seconds never participate because dose instants are minute-aligned.
func (h *HistoryRecord) ResolvesInstant(medicationID int64, t time.Time) bool {
	if h.MedicationID != medicationID {
		return false
	}
	s := h.ScheduledTime.In(t.Location())
	return s.Year() == t.Year() &&
		s.YearDay() == t.YearDay() &&
		s.Hour() == t.Hour() &&
		s.Minute() == t.Minute()
}

type HistoryFilters struct {
	ProfileID    int64
	MedicationID int64
	Action       HistoryAction
	Start        time.Time
	End          time.Time
}

type CreateHistoryRequest struct {
	MedicationID  int64     `json:"medication_id" binding:"required"`
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
	Action        string    `json:"action" binding:"required,oneof=taken skipped missed"`
	Notes         string    `json:"notes" binding:"max=1000"`
}
