package model

import (
	"time"
)

// UserAction is the acknowledgement a user gives to a fired reminder.
type UserAction string

const (
	UserActionTake   UserAction = "take"
	UserActionSkip   UserAction = "skip"
	UserActionSnooze UserAction = "snooze"
)

type AlarmFiredRequest struct {
	MedicationID int64 `json:"medication_id" binding:"required"`
	Hour         int   `json:"hour" binding:"min=0,max=23"`
	Minute       int   `json:"minute" binding:"min=0,max=59"`
}

type UserActionRequest struct {
	Action       string `json:"action" binding:"required,oneof=take skip snooze"`
	MedicationID int64  `json:"medication_id" binding:"required"`
	Hour         int    `json:"hour" binding:"min=0,max=23"`
	Minute       int    `json:"minute" binding:"min=0,max=59"`
	Notes        string `json:"notes" binding:"max=1000"`
}

// MissedDose is one dose instant the reconciler classified as missed inside
// a liveness gap.
type MissedDose struct {
	MedicationID  int64     `json:"medication_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Hour          int       `json:"hour"`
	Minute        int       `json:"minute"`
}

// ReminderCheckpoint stores the end of the last successfully reconciled gap
// for a profile. The next pass scans [LastCheck, now).
type ReminderCheckpoint struct {
	ProfileID int64     `db:"profile_id" json:"profile_id"`
	LastCheck time.Time `db:"last_check" json:"last_check"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
