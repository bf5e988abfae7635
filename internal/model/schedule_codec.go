package model

import (
	"encoding/json"
	"fmt"

	"github.com/dosewatch/dosewatch/pkg/errors"
)

// ParseSchedule decodes the serialized schedule stored with a medication.
// It is the single codec for the schedule format; nothing else in the
// codebase touches the raw text. Malformed input is reported as a ParseError
// so the caller can decide to log, repair, or drop the schedule; callers that
// only expand never see raw text at all.
func ParseSchedule(raw string) ([]ReminderTime, error) {
	if raw == "" {
		return nil, nil
	}

	var entries []ReminderTime
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.NewParse("schedule", err)
	}

	for i, e := range entries {
		if !e.Valid() {
			return nil, errors.NewParse("schedule", fmt.Errorf("entry %d out of range: %02d:%02d days=%v", i, e.Hour, e.Minute, e.Days))
		}
	}

	return entries, nil
}

// SerializeSchedule encodes a schedule for storage. The zero-entry schedule
// serializes to an empty string, which ParseSchedule round-trips to nil.
func SerializeSchedule(entries []ReminderTime) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	for i, e := range entries {
		if !e.Valid() {
			return "", fmt.Errorf("failed to serialize schedule: entry %d out of range", i)
		}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to serialize schedule: %w", err)
	}
	return string(data), nil
}
