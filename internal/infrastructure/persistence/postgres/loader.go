package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

const (
	queryScheduleRow = `
		SELECT created_at, updated_at
		FROM schedules
		WHERE nickname = $1 AND id = $2`

	queryDays = `
		SELECT id, date
		FROM school_days
		WHERE nickname = $1 AND schedule_id = $2
		ORDER BY id`

	queryLessons = `
		SELECT day_id, id, lesson_index, subject, room, topic, mark
		FROM lessons
		WHERE nickname = $1 AND schedule_id = $2
		ORDER BY day_id, lesson_index`

	queryHomework = `
		SELECT lesson_id, id, text
		FROM homework
		WHERE nickname = $1 AND schedule_id = $2`

	queryLinks = `
		SELECT homework_id, id, original_url, destination_url
		FROM homework_links
		WHERE nickname = $1 AND schedule_id = $2
		ORDER BY id`

	queryHomeworkAttachments = `
		SELECT homework_id, id, filename, url
		FROM homework_attachments
		WHERE nickname = $1 AND schedule_id = $2
		ORDER BY id`

	queryTopicAttachments = `
		SELECT lesson_id, id, filename, url
		FROM topic_attachments
		WHERE nickname = $1 AND schedule_id = $2
		ORDER BY id`

	queryScheduleAttachments = `
		SELECT id, day_id, subject, lesson_index, filename, url
		FROM schedule_attachments
		WHERE nickname = $1 AND schedule_id = $2
		ORDER BY id`

	queryAnnouncements = `
		SELECT day_id, id, type, text, behavior_type, description, rating, subject
		FROM announcements
		WHERE nickname = $1 AND schedule_id = $2
		ORDER BY id`
)

// loadSchedule reads the full entity graph of one stored schedule.
// Returns shared.ErrNotFound when no row exists.
func loadSchedule(ctx context.Context, q Querier, nickname, scheduleID string) (*schedule.Schedule, error) {
	sched := &schedule.Schedule{
		ID:       scheduleID,
		Nickname: nickname,
	}

	err := q.QueryRow(ctx, queryScheduleRow, nickname, scheduleID).
		Scan(&sched.CreatedAt, &sched.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: load schedule: %w", err)
	}

	days, dayByID, err := loadDays(ctx, q, nickname, scheduleID)
	if err != nil {
		return nil, err
	}
	sched.Days = days

	lessonByID, err := loadLessons(ctx, q, nickname, scheduleID, dayByID)
	if err != nil {
		return nil, err
	}
	homeworkByID, err := loadHomework(ctx, q, nickname, scheduleID, lessonByID)
	if err != nil {
		return nil, err
	}
	if err := loadLinks(ctx, q, nickname, scheduleID, homeworkByID); err != nil {
		return nil, err
	}
	if err := loadHomeworkAttachments(ctx, q, nickname, scheduleID, homeworkByID); err != nil {
		return nil, err
	}
	if err := loadTopicAttachments(ctx, q, nickname, scheduleID, lessonByID); err != nil {
		return nil, err
	}
	if err := loadScheduleAttachments(ctx, q, nickname, scheduleID, sched); err != nil {
		return nil, err
	}
	if err := loadAnnouncements(ctx, q, nickname, scheduleID, dayByID); err != nil {
		return nil, err
	}

	return sched, nil
}

func loadDays(ctx context.Context, q Querier, nickname, scheduleID string) ([]*schedule.SchoolDay, map[string]*schedule.SchoolDay, error) {
	rows, err := q.Query(ctx, queryDays, nickname, scheduleID)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: load days: %w", err)
	}
	defer rows.Close()

	var days []*schedule.SchoolDay
	byID := make(map[string]*schedule.SchoolDay)
	for rows.Next() {
		day := &schedule.SchoolDay{}
		if err := rows.Scan(&day.ID, &day.Date); err != nil {
			return nil, nil, fmt.Errorf("postgres: scan day: %w", err)
		}
		days = append(days, day)
		byID[day.ID] = day
	}
	return days, byID, rows.Err()
}

func loadLessons(ctx context.Context, q Querier, nickname, scheduleID string, dayByID map[string]*schedule.SchoolDay) (map[string]*schedule.Lesson, error) {
	rows, err := q.Query(ctx, queryLessons, nickname, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("postgres: load lessons: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*schedule.Lesson)
	for rows.Next() {
		var dayID string
		lesson := &schedule.Lesson{}
		if err := rows.Scan(&dayID, &lesson.ID, &lesson.Index, &lesson.Subject,
			&lesson.Room, &lesson.Topic, &lesson.Mark); err != nil {
			return nil, fmt.Errorf("postgres: scan lesson: %w", err)
		}
		byID[lesson.ID] = lesson
		if day, ok := dayByID[dayID]; ok {
			day.Lessons = append(day.Lessons, lesson)
		}
	}
	return byID, rows.Err()
}

func loadHomework(ctx context.Context, q Querier, nickname, scheduleID string, lessonByID map[string]*schedule.Lesson) (map[string]*schedule.Homework, error) {
	rows, err := q.Query(ctx, queryHomework, nickname, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("postgres: load homework: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*schedule.Homework)
	for rows.Next() {
		var lessonID string
		hw := &schedule.Homework{}
		if err := rows.Scan(&lessonID, &hw.ID, &hw.Text); err != nil {
			return nil, fmt.Errorf("postgres: scan homework: %w", err)
		}
		byID[hw.ID] = hw
		if lesson, ok := lessonByID[lessonID]; ok {
			lesson.Homework = hw
		}
	}
	return byID, rows.Err()
}

func loadLinks(ctx context.Context, q Querier, nickname, scheduleID string, homeworkByID map[string]*schedule.Homework) error {
	rows, err := q.Query(ctx, queryLinks, nickname, scheduleID)
	if err != nil {
		return fmt.Errorf("postgres: load links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var homeworkID string
		link := &schedule.Link{}
		if err := rows.Scan(&homeworkID, &link.ID, &link.OriginalURL, &link.DestinationURL); err != nil {
			return fmt.Errorf("postgres: scan link: %w", err)
		}
		if hw, ok := homeworkByID[homeworkID]; ok {
			hw.Links = append(hw.Links, link)
		}
	}
	return rows.Err()
}

func loadHomeworkAttachments(ctx context.Context, q Querier, nickname, scheduleID string, homeworkByID map[string]*schedule.Homework) error {
	rows, err := q.Query(ctx, queryHomeworkAttachments, nickname, scheduleID)
	if err != nil {
		return fmt.Errorf("postgres: load homework attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var homeworkID string
		att := &schedule.Attachment{}
		if err := rows.Scan(&homeworkID, &att.ID, &att.Filename, &att.URL); err != nil {
			return fmt.Errorf("postgres: scan homework attachment: %w", err)
		}
		if hw, ok := homeworkByID[homeworkID]; ok {
			hw.Attachments = append(hw.Attachments, att)
		}
	}
	return rows.Err()
}

func loadTopicAttachments(ctx context.Context, q Querier, nickname, scheduleID string, lessonByID map[string]*schedule.Lesson) error {
	rows, err := q.Query(ctx, queryTopicAttachments, nickname, scheduleID)
	if err != nil {
		return fmt.Errorf("postgres: load topic attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lessonID string
		att := &schedule.Attachment{}
		if err := rows.Scan(&lessonID, &att.ID, &att.Filename, &att.URL); err != nil {
			return fmt.Errorf("postgres: scan topic attachment: %w", err)
		}
		if lesson, ok := lessonByID[lessonID]; ok {
			lesson.Attachments = append(lesson.Attachments, att)
		}
	}
	return rows.Err()
}

func loadScheduleAttachments(ctx context.Context, q Querier, nickname, scheduleID string, sched *schedule.Schedule) error {
	rows, err := q.Query(ctx, queryScheduleAttachments, nickname, scheduleID)
	if err != nil {
		return fmt.Errorf("postgres: load schedule attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		att := &schedule.ScheduleAttachment{}
		if err := rows.Scan(&att.ID, &att.DayID, &att.Subject, &att.LessonIndex,
			&att.Filename, &att.URL); err != nil {
			return fmt.Errorf("postgres: scan schedule attachment: %w", err)
		}
		sched.Attachments = append(sched.Attachments, att)
	}
	return rows.Err()
}

func loadAnnouncements(ctx context.Context, q Querier, nickname, scheduleID string, dayByID map[string]*schedule.SchoolDay) error {
	rows, err := q.Query(ctx, queryAnnouncements, nickname, scheduleID)
	if err != nil {
		return fmt.Errorf("postgres: load announcements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dayID string
		ann := &schedule.Announcement{}
		if err := rows.Scan(&dayID, &ann.ID, &ann.Type, &ann.Text, &ann.BehaviorType,
			&ann.Description, &ann.Rating, &ann.Subject); err != nil {
			return fmt.Errorf("postgres: scan announcement: %w", err)
		}
		if day, ok := dayByID[dayID]; ok {
			day.Announcements = append(day.Announcements, ann)
		}
	}
	return rows.Err()
}
