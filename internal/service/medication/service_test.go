package medication

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/repository/memory"
	"github.com/dosewatch/dosewatch/pkg/logger"
)

type noopDisarmer struct {
	disarmed []int64
}

func (d *noopDisarmer) Disarm(ctx context.Context, medicationID int64) error {
	d.disarmed = append(d.disarmed, medicationID)
	return nil
}

func newTestService() (*Service, *memory.MedicationRepository, *noopDisarmer) {
	repo := memory.NewMedicationRepository()
	disarmer := &noopDisarmer{}
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewService(repo, disarmer, log), repo, disarmer
}

var mwfSchedule = []model.ReminderTime{
	{Hour: 8, Minute: 0, Days: []model.Weekday{model.Monday, model.Wednesday, model.Friday}},
}

func TestCreateSerializesSchedule(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	med, err := svc.Create(ctx, 1, &model.CreateMedicationRequest{Name: "aspirin", Schedule: mwfSchedule})
	require.NoError(t, err)
	assert.NotEmpty(t, med.RawSchedule)

	stored, err := repo.Get(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, med.RawSchedule, stored.RawSchedule)

	got, err := svc.Get(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, mwfSchedule, got.Schedule)
}

func TestCreateRejectsInvalidSchedule(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), 1, &model.CreateMedicationRequest{
		Name:     "aspirin",
		Schedule: []model.ReminderTime{{Hour: 99, Minute: 0, Days: []model.Weekday{model.Monday}}},
	})
	assert.Error(t, err)
}

func TestMalformedStoredScheduleDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	med := &model.Medication{ProfileID: 1, Name: "legacy", RawSchedule: "{corrupt"}
	require.NoError(t, repo.Create(ctx, med))

	got, err := svc.Get(ctx, med.ID)
	require.NoError(t, err, "a malformed schedule must not hide the medication")
	assert.Empty(t, got.Schedule)
}

func TestUpdateReplacesSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	med, err := svc.Create(ctx, 1, &model.CreateMedicationRequest{Name: "aspirin", Schedule: mwfSchedule})
	require.NoError(t, err)

	newSchedule := []model.ReminderTime{
		{Hour: 21, Minute: 30, Days: []model.Weekday{model.Sunday}},
	}
	updated, err := svc.Update(ctx, med.ID, &model.UpdateMedicationRequest{Schedule: newSchedule})
	require.NoError(t, err)
	assert.Equal(t, newSchedule, updated.Schedule)

	got, err := svc.Get(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, newSchedule, got.Schedule)
}

func TestDeleteDisarmsPending(t *testing.T) {
	ctx := context.Background()
	svc, _, disarmer := newTestService()

	med, err := svc.Create(ctx, 1, &model.CreateMedicationRequest{Name: "aspirin", Schedule: mwfSchedule})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, med.ID))
	assert.Equal(t, []int64{med.ID}, disarmer.disarmed)

	_, err = svc.Get(ctx, med.ID)
	assert.Error(t, err)
}

func TestListDecodesSchedules(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Create(ctx, 1, &model.CreateMedicationRequest{Name: "a", Schedule: mwfSchedule})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, &model.CreateMedicationRequest{Name: "b", Schedule: mwfSchedule})
	require.NoError(t, err)

	mine, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, mwfSchedule, mine[0].Schedule)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ids, err := svc.ListIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
