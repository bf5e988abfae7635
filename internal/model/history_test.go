package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolvesInstant(t *testing.T) {
	scheduled := time.Date(2024, 3, 15, 9, 42, 0, 0, time.UTC)
	rec := &HistoryRecord{MedicationID: 7, ScheduledTime: scheduled, Action: HistoryActionTaken}

	assert.True(t, rec.ResolvesInstant(7, scheduled))

	// Seconds never participate: dose instants are minute aligned.
	assert.True(t, rec.ResolvesInstant(7, scheduled.Add(30*time.Second)))

	assert.False(t, rec.ResolvesInstant(8, scheduled))
	assert.False(t, rec.ResolvesInstant(7, scheduled.Add(time.Minute)))
	assert.False(t, rec.ResolvesInstant(7, scheduled.AddDate(0, 0, 1)))
	assert.False(t, rec.ResolvesInstant(7, scheduled.AddDate(1, 0, 0)))
}

func TestResolvesInstantAcrossZones(t *testing.T) {
	// Record stored in UTC, instant expressed in a local zone at the same
	// absolute moment. Comparison happens in the instant's location.
	scheduled := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	rec := &HistoryRecord{MedicationID: 7, ScheduledTime: scheduled, Action: HistoryActionSkipped}

	local := time.FixedZone("UTC+2", 2*3600)
	assert.True(t, rec.ResolvesInstant(7, scheduled.In(local)))
}

func TestPendingEntrySameSlot(t *testing.T) {
	a := PendingEntry{MedicationID: 1, Hour: 8, Minute: 0, ArmedAt: 100}
	b := PendingEntry{MedicationID: 1, Hour: 8, Minute: 0, ArmedAt: 900}

	assert.True(t, a.SameSlot(b), "ArmedAt must not participate in slot identity")
	assert.False(t, a.SameSlot(PendingEntry{MedicationID: 2, Hour: 8, Minute: 0}))
	assert.False(t, a.SameSlot(PendingEntry{MedicationID: 1, Hour: 8, Minute: 30}))
}
