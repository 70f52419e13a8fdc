package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestISOWeekID(t *testing.T) {
	assert.Equal(t, "202446", ISOWeekID(time.Date(2024, 11, 11, 0, 0, 0, 0, RigaTZ)))
	assert.Equal(t, "202446", ISOWeekID(time.Date(2024, 11, 17, 23, 59, 0, 0, RigaTZ)))

	// Year boundaries follow ISO numbering.
	assert.Equal(t, "202501", ISOWeekID(time.Date(2024, 12, 30, 0, 0, 0, 0, RigaTZ)))
	assert.Equal(t, "202052", ISOWeekID(time.Date(2021, 1, 1, 0, 0, 0, 0, RigaTZ)))
}

func TestDateID(t *testing.T) {
	assert.Equal(t, "20241111", DateID(time.Date(2024, 11, 11, 0, 0, 0, 0, RigaTZ)))
	assert.Equal(t, "20250901", DateID(time.Date(2025, 9, 1, 0, 0, 0, 0, RigaTZ)))
}

func TestStartOfISOWeek(t *testing.T) {
	monday := time.Date(2024, 11, 11, 0, 0, 0, 0, RigaTZ)

	assert.True(t, StartOfISOWeek(time.Date(2024, 11, 13, 15, 30, 0, 0, RigaTZ)).Equal(monday))
	assert.True(t, StartOfISOWeek(time.Date(2024, 11, 17, 23, 0, 0, 0, RigaTZ)).Equal(monday)) // Sunday
	assert.True(t, StartOfISOWeek(monday).Equal(monday))
}

func TestWeeksBack(t *testing.T) {
	ref := time.Date(2024, 11, 13, 12, 0, 0, 0, RigaTZ)

	weeks := WeeksBack(ref, 3)
	assert.Len(t, weeks, 3)
	assert.True(t, weeks[0].Equal(time.Date(2024, 10, 28, 0, 0, 0, 0, RigaTZ)))
	assert.True(t, weeks[1].Equal(time.Date(2024, 11, 4, 0, 0, 0, 0, RigaTZ)))
	assert.True(t, weeks[2].Equal(time.Date(2024, 11, 11, 0, 0, 0, 0, RigaTZ)))

	assert.Nil(t, WeeksBack(ref, 0))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 11, 11, 14, 5, 0, 0, RigaTZ)
	assert.Equal(t, "11.11.2024", FormatDate(ts))
	assert.Equal(t, "11.11.2024 14:05", FormatDateTime(ts))
}
