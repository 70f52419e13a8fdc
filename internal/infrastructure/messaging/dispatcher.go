package messaging

import (
	"context"
	"log/slog"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

// ReportDispatcher turns change reports into domain events on a bus.
type ReportDispatcher struct {
	bus    EventBus
	logger *slog.Logger
}

// NewReportDispatcher creates a dispatcher.
func NewReportDispatcher(bus EventBus, logger *slog.Logger) *ReportDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportDispatcher{bus: bus, logger: logger}
}

// Dispatch publishes one event per change in the report. An empty report
// publishes nothing. Publish failures are collected but do not stop the
// remaining events.
func (d *ReportDispatcher) Dispatch(ctx context.Context, report *schedule.ChangeReport) error {
	if report.IsEmpty() {
		return nil
	}

	var firstErr error
	publish := func(event shared.Event) {
		if err := d.bus.Publish(ctx, event); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			d.logger.Error("failed to publish event",
				"event_type", string(event.EventType()),
				"error", err,
			)
		}
	}

	if report.Created {
		publish(shared.NewBaseEvent(shared.EventScheduleCreated, report.ScheduleID, map[string]interface{}{
			"nickname":    report.Nickname,
			"schedule_id": report.ScheduleID,
		}))
		return firstErr
	}

	for _, day := range report.Days {
		if day.LessonsOrderChanged {
			publish(shared.NewBaseEvent(shared.EventLessonsOrderChanged, report.ScheduleID, map[string]interface{}{
				"nickname":    report.Nickname,
				"schedule_id": report.ScheduleID,
				"day_id":      day.DayID,
			}))
		}

		for _, mark := range day.Marks {
			publish(shared.NewBaseEvent(shared.EventNewMark, report.ScheduleID, map[string]interface{}{
				"nickname":     report.Nickname,
				"schedule_id":  report.ScheduleID,
				"day_id":       day.DayID,
				"lesson_id":    mark.LessonID,
				"lesson_index": mark.LessonIndex,
				"subject":      mark.Subject,
				"old_mark":     markValue(mark.Old),
				"new_mark":     markValue(mark.New),
			}))
		}

		for _, subj := range day.Subjects {
			publish(shared.NewBaseEvent(shared.EventSubjectChanged, report.ScheduleID, map[string]interface{}{
				"nickname":     report.Nickname,
				"schedule_id":  report.ScheduleID,
				"day_id":       day.DayID,
				"lesson_index": subj.LessonIndex,
				"room":         subj.Room,
				"old_subject":  subj.Old,
				"new_subject":  subj.New,
			}))
		}

		for _, ann := range day.Announcements.Added {
			publish(shared.NewBaseEvent(shared.EventNewAnnouncement, report.ScheduleID, map[string]interface{}{
				"nickname":        report.Nickname,
				"schedule_id":     report.ScheduleID,
				"day_id":          day.DayID,
				"announcement_id": ann.ID,
				"type":            string(ann.Type),
				"text":            ann.Text,
				"behavior_type":   ann.BehaviorType,
				"description":     ann.Description,
				"rating":          ann.Rating,
				"subject":         ann.Subject,
			}))
		}
	}
	return firstErr
}

// DispatchCrawlError publishes a crawl failure so the bot can surface it.
func (d *ReportDispatcher) DispatchCrawlError(ctx context.Context, nickname, scheduleID string, cause error) error {
	return d.bus.Publish(ctx, shared.NewBaseEvent(shared.EventCrawlError, scheduleID, map[string]interface{}{
		"nickname":    nickname,
		"schedule_id": scheduleID,
		"error":       cause.Error(),
	}))
}

func markValue(mark *int) interface{} {
	if mark == nil {
		return nil
	}
	return *mark
}
