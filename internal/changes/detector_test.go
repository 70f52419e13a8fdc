package changes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/pkg/timeutil"
)

func intPtr(v int) *int { return &v }

func buildDay(t *testing.T, lessons ...schedule.NewLessonParams) *schedule.SchoolDay {
	t.Helper()
	day := schedule.NewSchoolDay(time.Date(2024, 11, 11, 0, 0, 0, 0, timeutil.RigaTZ))
	for _, params := range lessons {
		params.DayID = day.ID
		lesson, err := schedule.NewLesson(params)
		require.NoError(t, err)
		day.Lessons = append(day.Lessons, lesson)
	}
	return day
}

func buildSchedule(t *testing.T, days ...*schedule.SchoolDay) *schedule.Schedule {
	t.Helper()
	sched, err := schedule.NewSchedule(schedule.NewScheduleParams{
		Nickname: "alice",
		Days:     days,
	})
	require.NoError(t, err)
	return sched
}

func TestDetect_NilStoredIsCreated(t *testing.T) {
	d := NewDetector(Config{}, nil)
	fresh := buildSchedule(t, buildDay(t, schedule.NewLessonParams{Index: 1, Subject: "Sports"}))

	report := d.Detect(fresh, nil)

	assert.True(t, report.Created)
	assert.Empty(t, report.Days)
	assert.False(t, report.IsEmpty())
}

func TestDetect_IdenticalSchedulesYieldEmptyReport(t *testing.T) {
	d := NewDetector(Config{}, nil)
	fresh := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Matemātika", Room: "204", Mark: intPtr(8)},
	))
	stored := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Matemātika", Room: "204", Mark: intPtr(8)},
	))

	report := d.Detect(fresh, stored)
	assert.True(t, report.IsEmpty())
}

func TestDetect_NewMark(t *testing.T) {
	d := NewDetector(Config{}, nil)
	fresh := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Matemātika", Mark: intPtr(9)},
	))
	stored := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Matemātika"},
	))

	report := d.Detect(fresh, stored)
	require.Len(t, report.Days, 1)

	day := report.Days[0]
	assert.False(t, day.LessonsOrderChanged)
	require.Len(t, day.Marks, 1)

	change := day.Marks[0]
	assert.Equal(t, "20241111_1", change.LessonID)
	assert.Nil(t, change.Old)
	require.NotNil(t, change.New)
	assert.Equal(t, 9, *change.New)
}

func TestDetect_OrderChangeSuppressesFinerDiffs(t *testing.T) {
	d := NewDetector(Config{}, nil)
	fresh := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Sports", Mark: intPtr(10)},
		schedule.NewLessonParams{Index: 2, Subject: "Matemātika"},
	))
	stored := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Matemātika"},
		schedule.NewLessonParams{Index: 2, Subject: "Sports"},
	))

	report := d.Detect(fresh, stored)
	require.Len(t, report.Days, 1)

	day := report.Days[0]
	assert.True(t, day.LessonsOrderChanged)
	assert.Empty(t, day.Marks)
	assert.Empty(t, day.Subjects)
}

func TestDetect_ElectiveLessonsExcludedFromOrder(t *testing.T) {
	d := NewDetector(Config{}, nil)
	// The elective group rows differ between versions, the rest is stable.
	fresh := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Matemātika"},
		schedule.NewLessonParams{Index: 2, Subject: "Tautas dejas"},
	))
	stored := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Matemātika"},
		schedule.NewLessonParams{Index: 2, Subject: "Angļu valoda (F)"},
	))

	report := d.Detect(fresh, stored)
	assert.True(t, report.IsEmpty())
}

func TestDetect_SubjectRenameReadsAsOrderChange(t *testing.T) {
	// The order tuple carries the subject, so a rename of a regular lesson
	// surfaces as an order change rather than a per-lesson subject diff.
	d := NewDetector(Config{}, nil)
	fresh := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Mūzika", Room: "204"},
	))
	stored := buildSchedule(t, buildDay(t,
		schedule.NewLessonParams{Index: 1, Subject: "Matemātika", Room: "204"},
	))

	report := d.Detect(fresh, stored)
	require.Len(t, report.Days, 1)
	assert.True(t, report.Days[0].LessonsOrderChanged)
}

func TestDetect_AnnouncementSetDiff(t *testing.T) {
	d := NewDetector(Config{}, nil)

	freshDay := buildDay(t, schedule.NewLessonParams{Index: 1, Subject: "Sports"})
	added, err := schedule.NewAnnouncement(schedule.NewAnnouncementParams{
		DayID: freshDay.ID,
		Type:  schedule.AnnouncementGeneral,
		Text:  "14.11. kontroldarbs",
	})
	require.NoError(t, err)
	freshDay.Announcements = append(freshDay.Announcements, added)

	storedDay := buildDay(t, schedule.NewLessonParams{Index: 1, Subject: "Sports"})
	removed, err := schedule.NewAnnouncement(schedule.NewAnnouncementParams{
		DayID: storedDay.ID,
		Type:  schedule.AnnouncementGeneral,
		Text:  "12.11. ekskursija",
	})
	require.NoError(t, err)
	storedDay.Announcements = append(storedDay.Announcements, removed)

	report := d.Detect(buildSchedule(t, freshDay), buildSchedule(t, storedDay))
	require.Len(t, report.Days, 1)

	anns := report.Days[0].Announcements
	require.Len(t, anns.Added, 1)
	assert.Equal(t, added.ID, anns.Added[0].ID)
	require.Len(t, anns.Removed, 1)
	assert.Equal(t, removed.ID, anns.Removed[0].ID)
}

func TestDetect_DayOnlyInOneVersionIgnored(t *testing.T) {
	d := NewDetector(Config{}, nil)

	monday := buildDay(t, schedule.NewLessonParams{Index: 1, Subject: "Sports"})
	tuesday := schedule.NewSchoolDay(time.Date(2024, 11, 12, 0, 0, 0, 0, timeutil.RigaTZ))
	lesson, err := schedule.NewLesson(schedule.NewLessonParams{DayID: tuesday.ID, Index: 1, Subject: "Mūzika"})
	require.NoError(t, err)
	tuesday.Lessons = append(tuesday.Lessons, lesson)

	fresh := buildSchedule(t, monday, tuesday)
	stored := buildSchedule(t, monday.Clone())

	report := d.Detect(fresh, stored)
	assert.True(t, report.IsEmpty())
}

func TestIsElective(t *testing.T) {
	d := NewDetector(Config{}, nil)

	assert.True(t, d.isElective("Tautas  dejas"))
	assert.True(t, d.isElective("Angļu valoda (F)"))
	assert.False(t, d.isElective("Matemātika"))

	custom := NewDetector(Config{ElectiveMarkers: []string{"fakultatīvs"}}, nil)
	assert.True(t, custom.isElective("Fakultatīvs šahā"))
	assert.False(t, custom.isElective("Tautas dejas"))
}
