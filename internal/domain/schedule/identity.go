package schedule

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/eklase-hub/schedule-hub/pkg/timeutil"
)

// Идентификаторы сущностей детерминированы и вычисляются из содержимого.
// Повторная обработка того же исходного материала даёт те же идентификаторы,
// что позволяет выполнять слияние по идентичности при сохранении.

// contentHash возвращает первые 6 символов md5-хеша содержимого.
// Короткий префикс достаточен: область уникальности ограничена одним днём.
func contentHash(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])[:6]
}

// ComputeScheduleID возвращает идентификатор недельного расписания по дате
// первого дня: ISO-год и двузначный номер ISO-недели, например "202447".
func ComputeScheduleID(firstDay time.Time) string {
	return timeutil.ISOWeekID(firstDay)
}

// ComputeDayID возвращает идентификатор учебного дня: дата в формате
// YYYYMMDD, например "20241111".
func ComputeDayID(date time.Time) string {
	return timeutil.DateID(date)
}

// ComputeLessonID возвращает идентификатор урока: идентификатор дня и
// порядковый номер урока.
func ComputeLessonID(dayID string, index int) string {
	return fmt.Sprintf("%s_%d", dayID, index)
}

// ComputeHomeworkID возвращает идентификатор домашнего задания:
// идентификатор урока и хеш текста задания.
func ComputeHomeworkID(lessonID, text string) string {
	return lessonID + "_" + contentHash(text)
}

// ComputeLinkID возвращает идентификатор ссылки: идентификатор задания и
// хеш пары исходного и целевого URL.
func ComputeLinkID(homeworkID, originalURL, destinationURL string) string {
	return homeworkID + "_" + contentHash(originalURL+":"+destinationURL)
}

// ComputeAttachmentID возвращает идентификатор вложения: идентификатор
// владельца и хеш пары имени файла и URL.
func ComputeAttachmentID(ownerID, filename, url string) string {
	return ownerID + "_" + contentHash(filename+":"+url)
}

// ComputeAnnouncementID возвращает идентификатор объявления: идентификатор
// дня, однобуквенный маркер типа и хеш полного содержимого.
func ComputeAnnouncementID(dayID string, typ AnnouncementType, text, behaviorType, description string) string {
	marker := "g"
	if typ == AnnouncementBehavior {
		marker = "b"
	}
	content := fmt.Sprintf("%s:%s:%s:%s", typ, text, behaviorType, description)
	return dayID + "_" + marker + contentHash(content)
}
