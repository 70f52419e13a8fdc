package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

// recordingBus captures published events for assertions.
type recordingBus struct {
	events []shared.Event
	err    error
}

func (b *recordingBus) Publish(ctx context.Context, event shared.Event) error {
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(eventType shared.EventType, handler Handler) {}
func (b *recordingBus) Close() error                                          { return nil }

func intPtr(v int) *int { return &v }

func TestDispatch_EmptyReportPublishesNothing(t *testing.T) {
	bus := &recordingBus{}
	d := NewReportDispatcher(bus, nil)

	err := d.Dispatch(context.Background(), &schedule.ChangeReport{
		ScheduleID: "202446",
		Nickname:   "alice",
	})
	require.NoError(t, err)
	assert.Empty(t, bus.events)
}

func TestDispatch_CreatedPublishesSingleEvent(t *testing.T) {
	bus := &recordingBus{}
	d := NewReportDispatcher(bus, nil)

	err := d.Dispatch(context.Background(), &schedule.ChangeReport{
		ScheduleID: "202446",
		Nickname:   "alice",
		Created:    true,
	})
	require.NoError(t, err)

	require.Len(t, bus.events, 1)
	event := bus.events[0]
	assert.Equal(t, shared.EventScheduleCreated, event.EventType())
	assert.Equal(t, "202446", event.AggregateID())
	assert.Equal(t, "alice", event.Payload()["nickname"])
}

func TestDispatch_DayChanges(t *testing.T) {
	bus := &recordingBus{}
	d := NewReportDispatcher(bus, nil)

	ann, err := schedule.NewAnnouncement(schedule.NewAnnouncementParams{
		DayID: "20241111",
		Type:  schedule.AnnouncementGeneral,
		Text:  "14.11. kontroldarbs",
	})
	require.NoError(t, err)

	report := &schedule.ChangeReport{
		ScheduleID: "202446",
		Nickname:   "alice",
		Days: []*schedule.DayChanges{
			{
				DayID: "20241111",
				Marks: []*schedule.MarkChange{
					{LessonID: "20241111_1", LessonIndex: 1, Subject: "Matemātika", New: intPtr(9)},
				},
				Announcements: schedule.AnnouncementChanges{Added: []*schedule.Announcement{ann}},
			},
			{DayID: "20241112", LessonsOrderChanged: true},
		},
	}

	require.NoError(t, d.Dispatch(context.Background(), report))
	require.Len(t, bus.events, 3)

	types := make([]shared.EventType, len(bus.events))
	for i, e := range bus.events {
		types[i] = e.EventType()
	}
	assert.Contains(t, types, shared.EventNewMark)
	assert.Contains(t, types, shared.EventNewAnnouncement)
	assert.Contains(t, types, shared.EventLessonsOrderChanged)

	for _, e := range bus.events {
		if e.EventType() != shared.EventNewMark {
			continue
		}
		assert.Equal(t, nil, e.Payload()["old_mark"])
		assert.Equal(t, 9, e.Payload()["new_mark"])
	}
}

func TestDispatch_PublishFailureReturnsFirstError(t *testing.T) {
	busErr := errors.New("broker down")
	bus := &recordingBus{err: busErr}
	d := NewReportDispatcher(bus, nil)

	err := d.Dispatch(context.Background(), &schedule.ChangeReport{
		ScheduleID: "202446",
		Nickname:   "alice",
		Created:    true,
	})
	assert.ErrorIs(t, err, busErr)
}

func TestDispatchCrawlError(t *testing.T) {
	bus := &recordingBus{}
	d := NewReportDispatcher(bus, nil)

	err := d.DispatchCrawlError(context.Background(), "alice", "202446", errors.New("page layout changed"))
	require.NoError(t, err)

	require.Len(t, bus.events, 1)
	assert.Equal(t, shared.EventCrawlError, bus.events[0].EventType())
	assert.Equal(t, "page layout changed", bus.events[0].Payload()["error"])
}
