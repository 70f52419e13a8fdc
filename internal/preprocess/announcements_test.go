package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
)

func TestParseAnnouncement_Behavior(t *testing.T) {
	ann := &RawAnnouncement{
		Text: "Centīgs: aktīvi strādāja stundā (pozitīvs) (12.11., Matemātika, J. Bērziņa)",
	}

	err := parseAnnouncement(ann)
	require.NoError(t, err)

	assert.Equal(t, schedule.AnnouncementBehavior, ann.Type)
	assert.Equal(t, "Centīgs", ann.BehaviorType)
	assert.Equal(t, "aktīvi strādāja stundā", ann.Description)
	assert.Equal(t, "pozitīvs", ann.Rating)
	assert.Equal(t, "Matemātika", ann.Subject)
}

func TestParseAnnouncement_BehaviorWithoutColon(t *testing.T) {
	ann := &RawAnnouncement{
		Text: "Mērķtiecīgs neizpildīja mājas darbu (negatīvs) (13.11., Sports, A. Ozols)",
	}

	err := parseAnnouncement(ann)
	require.NoError(t, err)

	assert.Equal(t, schedule.AnnouncementBehavior, ann.Type)
	assert.Equal(t, "Mērķtiecīgs", ann.BehaviorType)
	assert.Equal(t, "neizpildīja mājas darbu", ann.Description)
	assert.Equal(t, "negatīvs", ann.Rating)
	assert.Equal(t, "Sports", ann.Subject)
}

func TestParseAnnouncement_BehaviorWithoutSubjectFails(t *testing.T) {
	ann := &RawAnnouncement{
		Text: "Centīgs: labi strādāja (pozitīvs)",
	}

	err := parseAnnouncement(ann)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "announcements", stageErr.Stage)
}

func TestParseAnnouncement_General(t *testing.T) {
	ann := &RawAnnouncement{
		Text: "14.11.  kontroldarbs matemātikā,\nlīdzi ņemt lineālu",
	}

	err := parseAnnouncement(ann)
	require.NoError(t, err)

	assert.Equal(t, schedule.AnnouncementGeneral, ann.Type)
	assert.Equal(t, "14.11. kontroldarbs matemātikā, līdzi ņemt lineālu", ann.ParsedText)
}

func TestParseAnnouncement_GeneralWithoutDateFails(t *testing.T) {
	err := parseAnnouncement(&RawAnnouncement{Text: "kontroldarbs matemātikā"})
	assert.Error(t, err)

	err = parseAnnouncement(&RawAnnouncement{Text: "   "})
	assert.Error(t, err)
}
