package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
)

const (
	insertScheduleSQL = `
		INSERT INTO schedules (nickname, id, created_at, updated_at)
		VALUES ($1, $2, now(), now())`

	touchScheduleSQL = `
		UPDATE schedules SET updated_at = now()
		WHERE nickname = $1 AND id = $2`

	insertDaySQL = `
		INSERT INTO school_days (nickname, schedule_id, id, date)
		VALUES ($1, $2, $3, $4)`

	deleteDaySQL = `
		DELETE FROM school_days
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`

	insertLessonSQL = `
		INSERT INTO lessons (nickname, schedule_id, day_id, id, lesson_index, subject, room, topic, mark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	updateLessonSQL = `
		UPDATE lessons SET lesson_index = $4, subject = $5, room = $6, topic = $7, mark = $8
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`

	deleteLessonSQL = `
		DELETE FROM lessons
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`

	insertHomeworkSQL = `
		INSERT INTO homework (nickname, schedule_id, lesson_id, id, text)
		VALUES ($1, $2, $3, $4, $5)`

	deleteHomeworkSQL = `
		DELETE FROM homework
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`

	insertLinkSQL = `
		INSERT INTO homework_links (nickname, schedule_id, homework_id, id, original_url, destination_url)
		VALUES ($1, $2, $3, $4, $5, $6)`

	deleteLinkSQL = `
		DELETE FROM homework_links
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`

	insertHomeworkAttachmentSQL = `
		INSERT INTO homework_attachments (nickname, schedule_id, homework_id, id, filename, url)
		VALUES ($1, $2, $3, $4, $5, $6)`

	deleteHomeworkAttachmentSQL = `
		DELETE FROM homework_attachments
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`

	insertTopicAttachmentSQL = `
		INSERT INTO topic_attachments (nickname, schedule_id, lesson_id, id, filename, url)
		VALUES ($1, $2, $3, $4, $5, $6)`

	deleteTopicAttachmentSQL = `
		DELETE FROM topic_attachments
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`

	insertScheduleAttachmentSQL = `
		INSERT INTO schedule_attachments (nickname, schedule_id, id, day_id, subject, lesson_index, filename, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateScheduleAttachmentSQL = `
		UPDATE schedule_attachments SET day_id = $4, subject = $5, lesson_index = $6
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`

	deleteScheduleAttachmentSQL = `
		DELETE FROM schedule_attachments
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`

	insertAnnouncementSQL = `
		INSERT INTO announcements (nickname, schedule_id, day_id, id, type, text, behavior_type, description, rating, subject)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	deleteAnnouncementSQL = `
		DELETE FROM announcements
		WHERE nickname = $1 AND schedule_id = $2 AND id = $3`
)

// insertSchedule writes a complete schedule graph.
func insertSchedule(ctx context.Context, tx pgx.Tx, sched *schedule.Schedule) error {
	if _, err := tx.Exec(ctx, insertScheduleSQL, sched.Nickname, sched.ID); err != nil {
		return fmt.Errorf("postgres: insert schedule: %w", err)
	}
	for _, day := range sched.Days {
		if err := insertDay(ctx, tx, sched, day); err != nil {
			return err
		}
	}
	for _, att := range sched.Attachments {
		if err := insertScheduleAttachment(ctx, tx, sched, att); err != nil {
			return err
		}
	}
	return nil
}

func insertDay(ctx context.Context, tx pgx.Tx, sched *schedule.Schedule, day *schedule.SchoolDay) error {
	if _, err := tx.Exec(ctx, insertDaySQL, sched.Nickname, sched.ID, day.ID, day.Date); err != nil {
		return fmt.Errorf("postgres: insert day %s: %w", day.ID, err)
	}
	for _, lesson := range day.Lessons {
		if err := insertLesson(ctx, tx, sched, day, lesson); err != nil {
			return err
		}
	}
	for _, ann := range day.Announcements {
		if err := insertAnnouncement(ctx, tx, sched, day, ann); err != nil {
			return err
		}
	}
	return nil
}

func insertLesson(ctx context.Context, tx pgx.Tx, sched *schedule.Schedule, day *schedule.SchoolDay, lesson *schedule.Lesson) error {
	_, err := tx.Exec(ctx, insertLessonSQL,
		sched.Nickname, sched.ID, day.ID, lesson.ID,
		lesson.Index, lesson.Subject, lesson.Room, lesson.Topic, lesson.Mark)
	if err != nil {
		return fmt.Errorf("postgres: insert lesson %s: %w", lesson.ID, err)
	}

	for _, att := range lesson.Attachments {
		_, err := tx.Exec(ctx, insertTopicAttachmentSQL,
			sched.Nickname, sched.ID, lesson.ID, att.ID, att.Filename, att.URL)
		if err != nil {
			return fmt.Errorf("postgres: insert topic attachment %s: %w", att.ID, err)
		}
	}

	if lesson.Homework != nil {
		return insertHomework(ctx, tx, sched, lesson, lesson.Homework)
	}
	return nil
}

func insertHomework(ctx context.Context, tx pgx.Tx, sched *schedule.Schedule, lesson *schedule.Lesson, hw *schedule.Homework) error {
	_, err := tx.Exec(ctx, insertHomeworkSQL,
		sched.Nickname, sched.ID, lesson.ID, hw.ID, hw.Text)
	if err != nil {
		return fmt.Errorf("postgres: insert homework %s: %w", hw.ID, err)
	}
	for _, link := range hw.Links {
		_, err := tx.Exec(ctx, insertLinkSQL,
			sched.Nickname, sched.ID, hw.ID, link.ID, link.OriginalURL, link.DestinationURL)
		if err != nil {
			return fmt.Errorf("postgres: insert link %s: %w", link.ID, err)
		}
	}
	for _, att := range hw.Attachments {
		_, err := tx.Exec(ctx, insertHomeworkAttachmentSQL,
			sched.Nickname, sched.ID, hw.ID, att.ID, att.Filename, att.URL)
		if err != nil {
			return fmt.Errorf("postgres: insert homework attachment %s: %w", att.ID, err)
		}
	}
	return nil
}

func insertAnnouncement(ctx context.Context, tx pgx.Tx, sched *schedule.Schedule, day *schedule.SchoolDay, ann *schedule.Announcement) error {
	_, err := tx.Exec(ctx, insertAnnouncementSQL,
		sched.Nickname, sched.ID, day.ID, ann.ID,
		ann.Type, ann.Text, ann.BehaviorType, ann.Description, ann.Rating, ann.Subject)
	if err != nil {
		return fmt.Errorf("postgres: insert announcement %s: %w", ann.ID, err)
	}
	return nil
}

func insertScheduleAttachment(ctx context.Context, tx pgx.Tx, sched *schedule.Schedule, att *schedule.ScheduleAttachment) error {
	_, err := tx.Exec(ctx, insertScheduleAttachmentSQL,
		sched.Nickname, sched.ID, att.ID, att.DayID, att.Subject, att.LessonIndex,
		att.Filename, att.URL)
	if err != nil {
		return fmt.Errorf("postgres: insert schedule attachment %s: %w", att.ID, err)
	}
	return nil
}

// mergeSchedule reconciles the fresh graph against the stored one level by
// level. Child tables of deleted rows are cleaned up by cascades.
func (r *ScheduleRepository) mergeSchedule(ctx context.Context, tx pgx.Tx, fresh, stored *schedule.Schedule) error {
	if _, err := tx.Exec(ctx, touchScheduleSQL, fresh.Nickname, fresh.ID); err != nil {
		return fmt.Errorf("postgres: touch schedule: %w", err)
	}

	dayDiff := Reconcile(stored.Days, fresh.Days,
		func(d *schedule.SchoolDay) string { return d.ID },
		func(a, b *schedule.SchoolDay) bool { return true }, // children handled below
	)
	for _, day := range dayDiff.Delete {
		if _, err := tx.Exec(ctx, deleteDaySQL, fresh.Nickname, fresh.ID, day.ID); err != nil {
			return fmt.Errorf("postgres: delete day %s: %w", day.ID, err)
		}
	}
	for _, day := range dayDiff.Insert {
		if err := insertDay(ctx, tx, fresh, day); err != nil {
			return err
		}
	}
	for _, freshDay := range fresh.Days {
		storedDay := stored.Day(freshDay.ID)
		if storedDay == nil {
			continue
		}
		if err := r.mergeDay(ctx, tx, fresh, freshDay, storedDay); err != nil {
			return err
		}
	}

	return r.mergeScheduleAttachments(ctx, tx, fresh, stored)
}

func (r *ScheduleRepository) mergeDay(ctx context.Context, tx pgx.Tx, sched *schedule.Schedule, fresh, stored *schedule.SchoolDay) error {
	lessonDiff := Reconcile(stored.Lessons, fresh.Lessons,
		func(l *schedule.Lesson) string { return l.ID },
		lessonRowEqual,
	)
	for _, lesson := range lessonDiff.Delete {
		if _, err := tx.Exec(ctx, deleteLessonSQL, sched.Nickname, sched.ID, lesson.ID); err != nil {
			return fmt.Errorf("postgres: delete lesson %s: %w", lesson.ID, err)
		}
	}
	for _, lesson := range lessonDiff.Insert {
		if err := insertLesson(ctx, tx, sched, fresh, lesson); err != nil {
			return err
		}
	}
	for _, lesson := range lessonDiff.Update {
		_, err := tx.Exec(ctx, updateLessonSQL,
			sched.Nickname, sched.ID, lesson.ID,
			lesson.Index, lesson.Subject, lesson.Room, lesson.Topic, lesson.Mark)
		if err != nil {
			return fmt.Errorf("postgres: update lesson %s: %w", lesson.ID, err)
		}
	}

	// Lesson subtrees are merged for every matched lesson, updated or not:
	// homework and attachments can change under an unchanged lesson row.
	for _, freshLesson := range fresh.Lessons {
		storedLesson := stored.Lesson(freshLesson.ID)
		if storedLesson == nil {
			continue
		}
		if err := r.mergeLessonChildren(ctx, tx, sched, freshLesson, storedLesson); err != nil {
			return err
		}
	}

	annDiff := Reconcile(stored.Announcements, fresh.Announcements,
		func(a *schedule.Announcement) string { return a.ID },
		// Content-addressed identity: same id means same content.
		func(a, b *schedule.Announcement) bool { return true },
	)
	for _, ann := range annDiff.Delete {
		if _, err := tx.Exec(ctx, deleteAnnouncementSQL, sched.Nickname, sched.ID, ann.ID); err != nil {
			return fmt.Errorf("postgres: delete announcement %s: %w", ann.ID, err)
		}
	}
	for _, ann := range annDiff.Insert {
		if err := insertAnnouncement(ctx, tx, sched, fresh, ann); err != nil {
			return err
		}
	}
	return nil
}

func (r *ScheduleRepository) mergeLessonChildren(ctx context.Context, tx pgx.Tx, sched *schedule.Schedule, fresh, stored *schedule.Lesson) error {
	attDiff := Reconcile(stored.Attachments, fresh.Attachments,
		func(a *schedule.Attachment) string { return a.ID },
		func(a, b *schedule.Attachment) bool { return true },
	)
	for _, att := range attDiff.Delete {
		if _, err := tx.Exec(ctx, deleteTopicAttachmentSQL, sched.Nickname, sched.ID, att.ID); err != nil {
			return fmt.Errorf("postgres: delete topic attachment %s: %w", att.ID, err)
		}
	}
	for _, att := range attDiff.Insert {
		_, err := tx.Exec(ctx, insertTopicAttachmentSQL,
			sched.Nickname, sched.ID, fresh.ID, att.ID, att.Filename, att.URL)
		if err != nil {
			return fmt.Errorf("postgres: insert topic attachment %s: %w", att.ID, err)
		}
	}

	return r.mergeHomework(ctx, tx, sched, fresh, stored)
}

func (r *ScheduleRepository) mergeHomework(ctx context.Context, tx pgx.Tx, sched *schedule.Schedule, fresh, stored *schedule.Lesson) error {
	freshHW, storedHW := fresh.Homework, stored.Homework

	switch {
	case freshHW == nil && storedHW == nil:
		return nil

	case freshHW == nil:
		if _, err := tx.Exec(ctx, deleteHomeworkSQL, sched.Nickname, sched.ID, storedHW.ID); err != nil {
			return fmt.Errorf("postgres: delete homework %s: %w", storedHW.ID, err)
		}
		return nil

	case storedHW == nil:
		return insertHomework(ctx, tx, sched, fresh, freshHW)

	case freshHW.ID != storedHW.ID:
		// Text change means a new identity; replace the whole block.
		if _, err := tx.Exec(ctx, deleteHomeworkSQL, sched.Nickname, sched.ID, storedHW.ID); err != nil {
			return fmt.Errorf("postgres: delete homework %s: %w", storedHW.ID, err)
		}
		return insertHomework(ctx, tx, sched, fresh, freshHW)
	}

	linkDiff := Reconcile(storedHW.Links, freshHW.Links,
		func(l *schedule.Link) string { return l.ID },
		func(a, b *schedule.Link) bool { return true },
	)
	for _, link := range linkDiff.Delete {
		if _, err := tx.Exec(ctx, deleteLinkSQL, sched.Nickname, sched.ID, link.ID); err != nil {
			return fmt.Errorf("postgres: delete link %s: %w", link.ID, err)
		}
	}
	for _, link := range linkDiff.Insert {
		_, err := tx.Exec(ctx, insertLinkSQL,
			sched.Nickname, sched.ID, freshHW.ID, link.ID, link.OriginalURL, link.DestinationURL)
		if err != nil {
			return fmt.Errorf("postgres: insert link %s: %w", link.ID, err)
		}
	}

	attDiff := Reconcile(storedHW.Attachments, freshHW.Attachments,
		func(a *schedule.Attachment) string { return a.ID },
		func(a, b *schedule.Attachment) bool { return true },
	)
	for _, att := range attDiff.Delete {
		if _, err := tx.Exec(ctx, deleteHomeworkAttachmentSQL, sched.Nickname, sched.ID, att.ID); err != nil {
			return fmt.Errorf("postgres: delete homework attachment %s: %w", att.ID, err)
		}
	}
	for _, att := range attDiff.Insert {
		_, err := tx.Exec(ctx, insertHomeworkAttachmentSQL,
			sched.Nickname, sched.ID, freshHW.ID, att.ID, att.Filename, att.URL)
		if err != nil {
			return fmt.Errorf("postgres: insert homework attachment %s: %w", att.ID, err)
		}
	}
	return nil
}

func (r *ScheduleRepository) mergeScheduleAttachments(ctx context.Context, tx pgx.Tx, fresh, stored *schedule.Schedule) error {
	attDiff := Reconcile(stored.Attachments, fresh.Attachments,
		func(a *schedule.ScheduleAttachment) string { return a.ID },
		func(a, b *schedule.ScheduleAttachment) bool {
			return a.DayID == b.DayID && a.Subject == b.Subject && a.LessonIndex == b.LessonIndex
		},
	)
	for _, att := range attDiff.Delete {
		if _, err := tx.Exec(ctx, deleteScheduleAttachmentSQL, fresh.Nickname, fresh.ID, att.ID); err != nil {
			return fmt.Errorf("postgres: delete schedule attachment %s: %w", att.ID, err)
		}
	}
	for _, att := range attDiff.Insert {
		if err := insertScheduleAttachment(ctx, tx, fresh, att); err != nil {
			return err
		}
	}
	for _, att := range attDiff.Update {
		_, err := tx.Exec(ctx, updateScheduleAttachmentSQL,
			fresh.Nickname, fresh.ID, att.ID, att.DayID, att.Subject, att.LessonIndex)
		if err != nil {
			return fmt.Errorf("postgres: update schedule attachment %s: %w", att.ID, err)
		}
	}
	return nil
}

// lessonRowEqual compares the scalar columns of a lesson row.
func lessonRowEqual(a, b *schedule.Lesson) bool {
	if a.Index != b.Index || a.Subject != b.Subject || a.Room != b.Room || a.Topic != b.Topic {
		return false
	}
	if (a.Mark == nil) != (b.Mark == nil) {
		return false
	}
	return a.Mark == nil || *a.Mark == *b.Mark
}
