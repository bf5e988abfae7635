package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosewatch/dosewatch/pkg/errors"
)

func TestScheduleRoundTrip(t *testing.T) {
	entries := []ReminderTime{
		{Hour: 8, Minute: 0, Days: []Weekday{Monday, Wednesday, Friday}},
		{Hour: 21, Minute: 45, Days: []Weekday{Sunday}},
	}

	raw, err := SerializeSchedule(entries)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	got, err := ParseSchedule(raw)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestParseScheduleEmpty(t *testing.T) {
	got, err := ParseSchedule("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	raw, err := SerializeSchedule(nil)
	assert.NoError(t, err)
	assert.Equal(t, "", raw)
}

func TestParseScheduleMalformed(t *testing.T) {
	_, err := ParseSchedule("{not json")
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))

	_, err = ParseSchedule(`{"hour":8}`)
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
}

func TestParseScheduleOutOfRange(t *testing.T) {
	_, err := ParseSchedule(`[{"hour":24,"minute":0,"days":[1]}]`)
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))

	_, err = ParseSchedule(`[{"hour":8,"minute":60,"days":[1]}]`)
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))

	_, err = ParseSchedule(`[{"hour":8,"minute":0,"days":[0]}]`)
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))

	_, err = ParseSchedule(`[{"hour":8,"minute":0,"days":[8]}]`)
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
}

func TestSerializeScheduleRejectsInvalid(t *testing.T) {
	_, err := SerializeSchedule([]ReminderTime{{Hour: -1, Minute: 0, Days: []Weekday{Monday}}})
	assert.Error(t, err)
}
