package preprocess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanLessonIndex(t *testing.T) {
	index, err := cleanLessonIndex("3.")
	require.NoError(t, err)
	assert.Equal(t, 3, index)

	index, err = cleanLessonIndex(" 10 ")
	require.NoError(t, err)
	assert.Equal(t, 10, index)

	// The unnumbered token defers assignment to the second pass.
	index, err = cleanLessonIndex("·")
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	_, err = cleanLessonIndex("")
	assert.Error(t, err)

	_, err = cleanLessonIndex("abc")
	assert.Error(t, err)
}

func TestCleanSubject(t *testing.T) {
	tests := []struct {
		in   string
		name string
		room string
	}{
		{"Matemātika 204", "Matemātika", "204"},
		{"Matemātika (1. grupa) 204", "Matemātika", "204"},
		{"Angļu valoda ((pad.) kurss) 12", "Angļu valoda", "12"},
		{"Sports sz", "Sports", "sz"},
		{"Mūzika az", "Mūzika", "az"},
		{"Latviešu valoda", "Latviešu valoda", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		name, room := cleanSubject(tt.in)
		assert.Equal(t, tt.name, name, "subject %q", tt.in)
		assert.Equal(t, tt.room, room, "subject %q", tt.in)
	}
}

func TestRunLessons_AssignsUnnumberedIndices(t *testing.T) {
	p := newTestPipeline()
	raw := &RawSchedule{
		Days: []*RawDay{
			{
				Lessons: []*RawLesson{
					{NumberText: "1.", Subject: "Matemātika 204"},
					{NumberText: "·", Subject: "Klases stunda"},
					{NumberText: "3.", Subject: "Sports sz"},
					{NumberText: "·", Subject: "Konsultācija"},
				},
			},
		},
	}

	err := p.runLessons(context.Background(), raw)
	require.NoError(t, err)

	lessons := raw.Days[0].Lessons
	require.Len(t, lessons, 4)

	// Unnumbered rows take the free slots between explicit numbers.
	assert.Equal(t, 1, lessons[0].Index)
	assert.Equal(t, 2, lessons[1].Index)
	assert.Equal(t, "Klases stunda", lessons[1].Subject)
	assert.Equal(t, 3, lessons[2].Index)
	assert.Equal(t, 4, lessons[3].Index)
	assert.Equal(t, "Konsultācija", lessons[3].Subject)
}

func TestRunLessons_SplitsSubjectAndRoom(t *testing.T) {
	p := newTestPipeline()
	raw := &RawSchedule{
		Days: []*RawDay{
			{
				Lessons: []*RawLesson{
					{NumberText: "1.", Subject: "Matemātika (1. grupa) 204"},
					{NumberText: "2.", Subject: "Sports sz", Room: "lielā zāle"},
				},
			},
		},
	}

	err := p.runLessons(context.Background(), raw)
	require.NoError(t, err)

	lessons := raw.Days[0].Lessons
	assert.Equal(t, "Matemātika", lessons[0].Subject)
	assert.Equal(t, "204", lessons[0].Room)

	// An explicitly scraped room wins over the one embedded in the subject.
	assert.Equal(t, "Sports", lessons[1].Subject)
	assert.Equal(t, "lielā zāle", lessons[1].Room)
}

func TestRunLessons_FoldsTopicLinksIntoHomework(t *testing.T) {
	p := newTestPipeline()
	raw := &RawSchedule{
		Days: []*RawDay{
			{
				Lessons: []*RawLesson{
					{
						NumberText: "1.",
						Subject:    "Matemātika",
						Topic:      "Daļskaitļi\n  un procenti",
						TopicLinks: []*RawLink{{URL: "https://www.uzdevumi.lv/p/1"}},
					},
				},
			},
		},
	}

	err := p.runLessons(context.Background(), raw)
	require.NoError(t, err)

	lesson := raw.Days[0].Lessons[0]
	assert.Equal(t, "Daļskaitļi un procenti", lesson.Topic)
	assert.Nil(t, lesson.TopicLinks)
	require.NotNil(t, lesson.Homework)
	require.Len(t, lesson.Homework.Links, 1)
	assert.Equal(t, "https://www.uzdevumi.lv/p/1", lesson.Homework.Links[0].URL)
}

func TestRunLessons_GarbledNumberFailsRun(t *testing.T) {
	p := newTestPipeline()
	raw := &RawSchedule{
		Days: []*RawDay{
			{Lessons: []*RawLesson{{NumberText: "??", Subject: "Matemātika"}}},
		},
	}

	err := p.runLessons(context.Background(), raw)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "lessons", stageErr.Stage)
}
