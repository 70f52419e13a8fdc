package preprocess

import (
	"sort"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/pkg/logger"
)

// assemble converts the fully normalized raw tree into the domain model,
// computing every identity. Validation failures at this point mean an
// earlier stage let something malformed through; the run is rejected.
func (p *Pipeline) assemble(raw *RawSchedule) (*schedule.Schedule, error) {
	days := make([]*schedule.SchoolDay, 0, len(raw.Days))

	for _, rawDay := range raw.Days {
		if rawDay.Date.IsZero() {
			return nil, stageErr("assembly", "day without a parsed date", rawDay.DateText)
		}

		day := schedule.NewSchoolDay(rawDay.Date)

		for _, rawLesson := range rawDay.Lessons {
			lesson, err := assembleLesson(day.ID, rawLesson)
			if err != nil {
				return nil, err
			}
			day.Lessons = append(day.Lessons, lesson)
		}

		for _, rawAnn := range rawDay.Announcements {
			ann, err := schedule.NewAnnouncement(schedule.NewAnnouncementParams{
				DayID:        day.ID,
				Type:         rawAnn.Type,
				Text:         rawAnn.ParsedText,
				BehaviorType: rawAnn.BehaviorType,
				Description:  rawAnn.Description,
				Rating:       rawAnn.Rating,
				Subject:      rawAnn.Subject,
			})
			if err != nil {
				return nil, stageErrWrap("assembly", "invalid announcement", rawAnn.Text, err)
			}
			day.Announcements = append(day.Announcements, ann)
		}

		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	sched, err := schedule.NewSchedule(schedule.NewScheduleParams{
		Nickname: p.opts.Nickname,
		Days:     days,
	})
	if err != nil {
		return nil, stageErrWrap("assembly", "invalid schedule", "", err)
	}

	seen := make(map[string]bool, len(raw.Attachments))
	for _, owned := range raw.Attachments {
		att := schedule.NewAttachment(sched.ID, owned.Filename, owned.URL)
		if seen[att.ID] {
			continue // the same file referenced from several homeworks
		}
		seen[att.ID] = true
		sched.Attachments = append(sched.Attachments, &schedule.ScheduleAttachment{
			Attachment:  *att,
			DayID:       schedule.ComputeDayID(owned.Day.Date),
			Subject:     owned.Subject,
			LessonIndex: owned.LessonIndex,
		})
	}

	p.log.Info("schedule assembled",
		logger.Stage("assembly"),
		logger.ScheduleID(sched.ID),
		logger.Int("days", len(sched.Days)),
		logger.Int("attachments", len(sched.Attachments)),
	)
	return sched, nil
}

// assembleLesson builds a domain lesson with its homework subtree.
func assembleLesson(dayID string, rawLesson *RawLesson) (*schedule.Lesson, error) {
	lesson, err := schedule.NewLesson(schedule.NewLessonParams{
		DayID:   dayID,
		Index:   rawLesson.Index,
		Subject: rawLesson.Subject,
		Room:    rawLesson.Room,
		Topic:   rawLesson.Topic,
		Mark:    rawLesson.Mark,
	})
	if err != nil {
		return nil, stageErrWrap("assembly", "invalid lesson", rawLesson.Subject, err)
	}

	for _, f := range rawLesson.TopicFiles {
		lesson.Attachments = append(lesson.Attachments, schedule.NewAttachment(lesson.ID, f.Filename, f.URL))
	}

	if rawHW := rawLesson.Homework; rawHW != nil {
		hw := schedule.NewHomework(lesson.ID, rawHW.Text)
		for _, link := range rawHW.Links {
			hw.Links = append(hw.Links, schedule.NewLink(hw.ID, link.OriginalURL, link.DestinationURL))
		}
		for _, f := range rawHW.Files {
			hw.Attachments = append(hw.Attachments, schedule.NewAttachment(hw.ID, f.Filename, f.URL))
		}
		lesson.Homework = hw
	}

	return lesson, nil
}
