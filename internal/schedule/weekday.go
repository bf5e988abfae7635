package schedule

import (
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
)

// CanonicalWeekday converts Go's calendar numbering (0=Sunday .. 6=Saturday)
// to the canonical schedule encoding (1=Monday .. 7=Sunday). Together with
// FromCanonical it forms the one total, invertible mapping between the two
// encodings; every date comparison in the codebase goes through it.
func CanonicalWeekday(d time.Weekday) model.Weekday {
	if d == time.Sunday {
		return model.Sunday
	}
	return model.Weekday(int(d))
}

// FromCanonical is the inverse of CanonicalWeekday.
func FromCanonical(w model.Weekday) time.Weekday {
	if w == model.Sunday {
		return time.Sunday
	}
	return time.Weekday(int(w))
}
