package pending

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/repository/memory"
	apperrors "github.com/dosewatch/dosewatch/pkg/errors"
	"github.com/dosewatch/dosewatch/pkg/logger"
)

var testTime = time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func newTestTracker(blob Blob, now *time.Time) *Tracker {
	return NewTracker(blob, testLogger(), WithNowFunc(func() time.Time { return *now }))
}

func entry(medID int64, hour, minute int) model.PendingEntry {
	return model.PendingEntry{
		MedicationID:   medID,
		MedicationName: "med",
		Hour:           hour,
		Minute:         minute,
	}
}

func TestArmReplacesSameSlot(t *testing.T) {
	ctx := context.Background()
	now := testTime
	tracker := newTestTracker(memory.NewBlob(), &now)

	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))
	firstArm := now.UnixMilli()

	now = now.Add(10 * time.Minute)
	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))

	entries, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Greater(t, entries[0].ArmedAt, firstArm, "re-arm must refresh the timestamp")
}

func TestArmKeepsDistinctSlots(t *testing.T) {
	ctx := context.Background()
	now := testTime
	tracker := newTestTracker(memory.NewBlob(), &now)

	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))
	require.NoError(t, tracker.Arm(ctx, entry(1, 20, 0)))
	require.NoError(t, tracker.Arm(ctx, entry(2, 8, 0)))

	entries, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestExpiryIsStrictlyOlderThanTTL(t *testing.T) {
	ctx := context.Background()
	now := testTime
	tracker := newTestTracker(memory.NewBlob(), &now)

	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))

	// Exactly at the TTL boundary the entry survives.
	now = testTime.Add(EntryTTL)
	require.NoError(t, tracker.Arm(ctx, entry(2, 9, 0)))
	entries, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// One more millisecond and the next mutation prunes it.
	now = testTime.Add(EntryTTL + time.Millisecond)
	require.NoError(t, tracker.Arm(ctx, entry(3, 10, 0)))
	entries, err = tracker.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEqual(t, int64(1), e.MedicationID)
	}
}

func TestDisarmRemovesAllSlotsOfMedication(t *testing.T) {
	ctx := context.Background()
	now := testTime
	tracker := newTestTracker(memory.NewBlob(), &now)

	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))
	require.NoError(t, tracker.Arm(ctx, entry(1, 20, 0)))
	require.NoError(t, tracker.Arm(ctx, entry(2, 8, 0)))

	require.NoError(t, tracker.Disarm(ctx, 1))

	entries, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].MedicationID)
}

func TestDisarmAtClearsSlotAcrossMedications(t *testing.T) {
	ctx := context.Background()
	now := testTime
	tracker := newTestTracker(memory.NewBlob(), &now)

	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))
	require.NoError(t, tracker.Arm(ctx, entry(2, 8, 0)))
	require.NoError(t, tracker.Arm(ctx, entry(3, 9, 30)))

	require.NoError(t, tracker.DisarmAt(ctx, 8, 0))

	entries, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].MedicationID)
}

func TestListAt(t *testing.T) {
	ctx := context.Background()
	now := testTime
	tracker := newTestTracker(memory.NewBlob(), &now)

	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))
	require.NoError(t, tracker.Arm(ctx, entry(2, 8, 0)))
	require.NoError(t, tracker.Arm(ctx, entry(3, 9, 30)))

	at, err := tracker.ListAt(ctx, 8, 0)
	require.NoError(t, err)
	assert.Len(t, at, 2)

	none, err := tracker.ListAt(ctx, 11, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	now := testTime
	blob := memory.NewBlob()
	tracker := newTestTracker(blob, &now)

	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))
	require.NoError(t, tracker.Clear(ctx))

	entries, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, "[]", blob.Snapshot())
}

func TestReconcileWithStore(t *testing.T) {
	ctx := context.Background()
	now := testTime
	blob := memory.NewBlob()
	tracker := newTestTracker(blob, &now)

	armed := now.UnixMilli()
	seed, err := json.Marshal([]model.PendingEntry{
		{MedicationID: 1, Hour: 8, Minute: 0, ArmedAt: armed},
		{MedicationID: 1, Hour: 8, Minute: 0, ArmedAt: armed + 1}, // duplicate slot
		{MedicationID: 9, Hour: 8, Minute: 0, ArmedAt: armed},     // dangling medication
		{MedicationID: 2, Hour: 20, Minute: 0, ArmedAt: armed},
	})
	require.NoError(t, err)
	blob.Seed(string(seed))

	require.NoError(t, tracker.ReconcileWithStore(ctx, []int64{1, 2}))

	entries, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].MedicationID)
	assert.Equal(t, armed, entries[0].ArmedAt, "dedup keeps the first occurrence")
	assert.Equal(t, int64(2), entries[1].MedicationID)

	// Idempotent: a second pass over reconciled state is a no-op.
	before := blob.Snapshot()
	require.NoError(t, tracker.ReconcileWithStore(ctx, []int64{1, 2}))
	assert.Equal(t, before, blob.Snapshot())
}

func TestUnreadableBlobDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	now := testTime
	blob := memory.NewBlob()
	blob.ReadErr = assert.AnError
	tracker := newTestTracker(blob, &now)

	entries, err := tracker.ListAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMalformedBlobDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	now := testTime
	blob := memory.NewBlob()
	blob.Seed("{corrupt")
	tracker := newTestTracker(blob, &now)

	entries, err := tracker.ListAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, entries)

	// The next mutation starts fresh instead of failing.
	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))
	entries, err = tracker.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFailureIsRecoverable(t *testing.T) {
	ctx := context.Background()
	now := testTime
	blob := memory.NewBlob()
	tracker := newTestTracker(blob, &now)

	blob.WriteErr = assert.AnError
	err := tracker.Arm(ctx, entry(1, 8, 0))
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreUnavailable(err))

	blob.WriteErr = nil
	require.NoError(t, tracker.Arm(ctx, entry(1, 8, 0)))
}
