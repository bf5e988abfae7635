package model

import (
	"time"
)

// Weekday is the canonical weekday encoding used everywhere schedules are
// stored or compared: ISO-8601, 1=Monday .. 7=Sunday. Conversion to and from
// Go's time.Weekday lives in the schedule package and is the only place the
// two encodings meet.
type Weekday int

const (
	Monday    Weekday = 1
	Tuesday   Weekday = 2
	Wednesday Weekday = 3
	Thursday  Weekday = 4
	Friday    Weekday = 5
	Saturday  Weekday = 6
	Sunday    Weekday = 7
)

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// ReminderTime is a single recurring entry of a weekly schedule: fire at
// hour:minute on each listed weekday.
type ReminderTime struct {
	Hour   int       `json:"hour"`
	Minute int       `json:"minute"`
	Days   []Weekday `json:"days"`
}

func (r ReminderTime) Valid() bool {
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return false
	}
	for _, d := range r.Days {
		if !d.Valid() {
			return false
		}
	}
	return true
}

// HasDay reports whether the entry fires on the given canonical weekday.
func (r ReminderTime) HasDay(day Weekday) bool {
	for _, d := range r.Days {
		if d == day {
			return true
		}
	}
	return false
}

type Medication struct {
	ID        int64          `db:"id" json:"id"`
	ProfileID int64          `db:"profile_id" json:"profile_id"`
	Name      string         `db:"name" json:"name"`
	Dosage    string         `db:"dosage" json:"dosage,omitempty"`
	PhotoURI  *string        `db:"photo_uri" json:"photo_uri,omitempty"`
	Schedule  []ReminderTime `db:"-" json:"schedule"`
	// RawSchedule carries the serialized schedule across the store boundary;
	// it is decoded into Schedule by the catalog service and never consumed
	// elsewhere.
	RawSchedule string    `db:"schedule" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type CreateMedicationRequest struct {
	Name     string         `json:"name" binding:"required,max=200"`
	Dosage   string         `json:"dosage" binding:"max=200"`
	PhotoURI *string        `json:"photo_uri"`
	Schedule []ReminderTime `json:"schedule" binding:"required,min=1,dive"`
}

type UpdateMedicationRequest struct {
	Name     *string        `json:"name"`
	Dosage   *string        `json:"dosage"`
	PhotoURI *string        `json:"photo_uri"`
	Schedule []ReminderTime `json:"schedule"`
}
