package preprocess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
)

func TestPipeline_Run(t *testing.T) {
	p := New(Options{
		Nickname: "alice",
		BaseURL:  "https://my.e-klase.lv",
		Translations: map[string]string{
			"Matemātika F": "Matemātika",
		},
	})

	raw := &RawSchedule{
		Days: []*RawDay{
			{DateText: "11.11.24. pirmdiena"},
			{
				Lessons: []*RawLesson{
					{
						NumberText: "1.",
						Subject:    "Matemātika F 204",
						Topic:      "Daļskaitļi",
						MarkTexts:  []string{"85%", "A", "P"},
						Homework: &RawHomework{
							Fragments: []string{"Atrisināt 5. uzdevumu."},
							Links:     []*RawLink{{URL: "www.uzdevumi.lv/p/5"}},
							Files:     []*RawFile{{Filename: "darba_lapa.pdf", URL: "/Attachment/Get/hw1"}},
						},
					},
					{NumberText: "·", Subject: "Klases stunda"},
				},
				Announcements: []*RawAnnouncement{
					{Text: "14.11. kontroldarbs matemātikā"},
				},
			},
		},
	}

	sched, err := p.Run(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "202446", sched.ID)
	assert.Equal(t, "alice", sched.Nickname)
	require.Len(t, sched.Days, 1)

	day := sched.Days[0]
	assert.Equal(t, "20241111", day.ID)
	require.Len(t, day.Lessons, 2)

	math := day.Lessons[0]
	assert.Equal(t, "20241111_1", math.ID)
	assert.Equal(t, "Matemātika", math.Subject)
	assert.Equal(t, "204", math.Room)
	assert.Equal(t, "Daļskaitļi", math.Topic)
	require.NotNil(t, math.Mark)
	assert.Equal(t, 9, *math.Mark)

	require.NotNil(t, math.Homework)
	assert.Equal(t, "Atrisināt 5. uzdevumu.", math.Homework.Text)
	require.Len(t, math.Homework.Links, 1)
	assert.Equal(t, "https://www.uzdevumi.lv/p/5", math.Homework.Links[0].DestinationURL)
	require.Len(t, math.Homework.Attachments, 1)
	assert.Equal(t, "https://my.e-klase.lv/Attachment/Get/hw1", math.Homework.Attachments[0].URL)

	classHour := day.Lessons[1]
	assert.Equal(t, "20241111_2", classHour.ID)
	assert.Equal(t, "Klases stunda", classHour.Subject)
	assert.Nil(t, classHour.Mark)

	require.Len(t, day.Announcements, 1)
	assert.Equal(t, schedule.AnnouncementGeneral, day.Announcements[0].Type)
	assert.Equal(t, "14.11. kontroldarbs matemātikā", day.Announcements[0].Text)

	require.Len(t, sched.Attachments, 1)
	week := sched.Attachments[0]
	assert.Equal(t, "darba_lapa.pdf", week.Filename)
	assert.Equal(t, "20241111", week.DayID)
	assert.Equal(t, "Matemātika", week.Subject)
	assert.Equal(t, 1, week.LessonIndex)
}

func TestPipeline_Run_DayWithoutDateRejected(t *testing.T) {
	p := newTestPipeline()
	raw := &RawSchedule{
		Days: []*RawDay{
			{DateText: "brīvdiena"}, // unparsable marker, never merged
			{Lessons: []*RawLesson{{NumberText: "1.", Subject: "Sports"}}},
		},
	}

	_, err := p.Run(context.Background(), raw)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "assembly", stageErr.Stage)
}

func TestPipeline_Run_SameInputSameIdentities(t *testing.T) {
	build := func() *RawSchedule {
		return &RawSchedule{
			Days: []*RawDay{
				{
					DateText: "11.11.24. pirmdiena",
					Lessons: []*RawLesson{
						{
							NumberText: "1.",
							Subject:    "Matemātika",
							Homework:   &RawHomework{Fragments: []string{"Uzdevums."}},
						},
					},
				},
			},
		}
	}

	p := newTestPipeline()
	first, err := p.Run(context.Background(), build())
	require.NoError(t, err)
	second, err := p.Run(context.Background(), build())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Days[0].ID, second.Days[0].ID)
	assert.Equal(t, first.Days[0].Lessons[0].ID, second.Days[0].Lessons[0].ID)
	assert.Equal(t, first.Days[0].Lessons[0].Homework.ID, second.Days[0].Lessons[0].Homework.ID)
}
