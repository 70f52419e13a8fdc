package preprocess

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eklase-hub/schedule-hub/pkg/timeutil"
)

func newTestPipeline() *Pipeline {
	return New(Options{
		Nickname: "alice",
		BaseURL:  "https://my.e-klase.lv",
	})
}

func TestRunDates_MergesMarkerIntoContentDay(t *testing.T) {
	p := newTestPipeline()
	raw := &RawSchedule{
		Days: []*RawDay{
			{DateText: "11.11.24. pirmdiena"},
			{Lessons: []*RawLesson{{NumberText: "1.", Subject: "Matemātika"}}},
			{DateText: "12.11.24. otrdiena"},
			{Lessons: []*RawLesson{{NumberText: "1.", Subject: "Sports"}}},
		},
	}

	err := p.runDates(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, raw.Days, 2)

	monday := raw.Days[0]
	assert.Equal(t, "11.11.24. pirmdiena", monday.DateText)
	assert.True(t, monday.Date.Equal(time.Date(2024, 11, 11, 0, 0, 0, 0, timeutil.RigaTZ)))
	assert.Equal(t, "Matemātika", monday.Lessons[0].Subject)

	tuesday := raw.Days[1]
	assert.True(t, tuesday.Date.Equal(time.Date(2024, 11, 12, 0, 0, 0, 0, timeutil.RigaTZ)))
}

func TestRunDates_LoneDayParsesOwnHeading(t *testing.T) {
	p := newTestPipeline()
	raw := &RawSchedule{
		Days: []*RawDay{
			{
				DateText: "13.11.24. trešdiena",
				Lessons:  []*RawLesson{{NumberText: "1.", Subject: "Mūzika"}},
			},
		},
	}

	err := p.runDates(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, raw.Days, 1)
	assert.True(t, raw.Days[0].Date.Equal(time.Date(2024, 11, 13, 0, 0, 0, 0, timeutil.RigaTZ)))
}

func TestRunDates_UnparsableHeadingLeftUntouched(t *testing.T) {
	p := newTestPipeline()
	raw := &RawSchedule{
		Days: []*RawDay{
			{DateText: "brīvdiena"},
			{Lessons: []*RawLesson{{NumberText: "1.", Subject: "Sports"}}},
		},
	}

	err := p.runDates(context.Background(), raw)
	require.NoError(t, err)

	// The marker could not be parsed, so nothing was merged.
	require.Len(t, raw.Days, 2)
	assert.True(t, raw.Days[0].Date.IsZero())
	assert.True(t, raw.Days[1].Date.IsZero())
}

func TestParseDateHeading(t *testing.T) {
	date, err := parseDateHeading("11.11.24. pirmdiena")
	require.NoError(t, err)
	assert.True(t, date.Equal(time.Date(2024, 11, 11, 0, 0, 0, 0, timeutil.RigaTZ)))

	// No weekday name is fine too.
	date, err = parseDateHeading("01.09.25.")
	require.NoError(t, err)
	assert.True(t, date.Equal(time.Date(2025, 9, 1, 0, 0, 0, 0, timeutil.RigaTZ)))

	_, err = parseDateHeading("")
	assert.Error(t, err)

	_, err = parseDateHeading("pirmdiena")
	assert.Error(t, err)
}
