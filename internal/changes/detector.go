// Package changes compares two versions of a weekly schedule and produces
// a change report used to drive notifications.
package changes

import (
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/pkg/logger"
)

// DefaultElectiveMarkers are subject tokens marking parallel elective-group
// lessons. The portal renders each group's row separately, so under naive
// diffing they look like reorderings or subject substitutions.
var DefaultElectiveMarkers = []string{"tautas dejas", "(f)"}

// Config configures a Detector.
type Config struct {
	// ElectiveMarkers overrides DefaultElectiveMarkers when non-nil.
	ElectiveMarkers []string
}

// Detector computes change reports between schedule versions.
type Detector struct {
	markers []string
	log     *logger.Logger
}

// NewDetector creates a detector with normalized elective markers.
func NewDetector(cfg Config, log *logger.Logger) *Detector {
	src := cfg.ElectiveMarkers
	if src == nil {
		src = DefaultElectiveMarkers
	}
	markers := make([]string, 0, len(src))
	for _, m := range src {
		if normalized := normalizeSubject(m); normalized != "" {
			markers = append(markers, normalized)
		}
	}
	if log == nil {
		log = logger.Default()
	}
	return &Detector{
		markers: markers,
		log:     log.With(logger.Component("changes")),
	}
}

// orderTuple is the per-lesson key used for order comparison.
type orderTuple struct {
	Index   int
	Subject string
	Room    string
}

// Detect compares the fresh schedule against the stored version. A nil
// stored schedule yields a report marked Created. Days present on only one
// side carry no report entry; their insertion or removal is a structural
// matter for the persistence layer.
func (d *Detector) Detect(fresh, stored *schedule.Schedule) *schedule.ChangeReport {
	report := &schedule.ChangeReport{
		ScheduleID: fresh.ID,
		Nickname:   fresh.Nickname,
	}
	if stored == nil {
		report.Created = true
		return report
	}

	for _, freshDay := range fresh.Days {
		storedDay := stored.Day(freshDay.ID)
		if storedDay == nil {
			continue
		}
		if dayChanges := d.detectDay(freshDay, storedDay); !dayChanges.IsEmpty() {
			report.Days = append(report.Days, dayChanges)
		}
	}
	return report
}

// detectDay compares one day present in both versions.
func (d *Detector) detectDay(fresh, stored *schedule.SchoolDay) *schedule.DayChanges {
	dayChanges := &schedule.DayChanges{DayID: fresh.ID}

	freshOrder := d.lessonOrder(fresh)
	storedOrder := d.lessonOrder(stored)
	if !cmp.Equal(freshOrder, storedOrder) {
		// An order change makes per-lesson diffs meaningless; finer
		// comparisons for the day are suppressed.
		dayChanges.LessonsOrderChanged = true
		d.log.Debug("lesson order changed",
			logger.DayID(fresh.ID),
			logger.String("diff", cmp.Diff(storedOrder, freshOrder)),
		)
	} else {
		dayChanges.Marks = d.detectMarks(fresh, stored)
		dayChanges.Subjects = d.detectSubjects(fresh, stored)
	}

	dayChanges.Announcements = detectAnnouncements(fresh, stored)
	return dayChanges
}

// lessonOrder builds the comparable order tuples of a day, excluding
// elective-group lessons.
func (d *Detector) lessonOrder(day *schedule.SchoolDay) []orderTuple {
	order := make([]orderTuple, 0, len(day.Lessons))
	for _, lesson := range day.Lessons {
		if d.isElective(lesson.Subject) {
			continue
		}
		order = append(order, orderTuple{
			Index:   lesson.Index,
			Subject: lesson.Subject,
			Room:    lesson.Room,
		})
	}
	return order
}

// detectMarks reports mark differences for lessons matched by identity.
func (d *Detector) detectMarks(fresh, stored *schedule.SchoolDay) []*schedule.MarkChange {
	var marks []*schedule.MarkChange
	for _, freshLesson := range fresh.Lessons {
		storedLesson := stored.Lesson(freshLesson.ID)
		if storedLesson == nil {
			continue
		}
		if markEqual(freshLesson.Mark, storedLesson.Mark) {
			continue
		}
		marks = append(marks, &schedule.MarkChange{
			LessonID:    freshLesson.ID,
			LessonIndex: freshLesson.Index,
			Subject:     freshLesson.Subject,
			Old:         storedLesson.Mark,
			New:         freshLesson.Mark,
		})
	}
	return marks
}

// detectSubjects reports subject renames for lessons matched by position.
// Identity cannot be used here: a rename changes the lesson identity.
// A change where both sides carry an elective marker is suppressed.
func (d *Detector) detectSubjects(fresh, stored *schedule.SchoolDay) []*schedule.SubjectChange {
	type position struct {
		index int
		room  string
	}
	storedByPos := make(map[position]*schedule.Lesson, len(stored.Lessons))
	for _, lesson := range stored.Lessons {
		storedByPos[position{lesson.Index, lesson.Room}] = lesson
	}

	var subjects []*schedule.SubjectChange
	for _, freshLesson := range fresh.Lessons {
		storedLesson, ok := storedByPos[position{freshLesson.Index, freshLesson.Room}]
		if !ok || storedLesson.Subject == freshLesson.Subject {
			continue
		}
		if d.isElective(freshLesson.Subject) && d.isElective(storedLesson.Subject) {
			continue
		}
		subjects = append(subjects, &schedule.SubjectChange{
			LessonID:    freshLesson.ID,
			LessonIndex: freshLesson.Index,
			Room:        freshLesson.Room,
			Old:         storedLesson.Subject,
			New:         freshLesson.Subject,
		})
	}
	return subjects
}

// detectAnnouncements set-differences announcement identities. Announcements
// have no modified case: any content change yields a new identity.
func detectAnnouncements(fresh, stored *schedule.SchoolDay) schedule.AnnouncementChanges {
	var result schedule.AnnouncementChanges

	storedIDs := make(map[string]bool, len(stored.Announcements))
	for _, ann := range stored.Announcements {
		storedIDs[ann.ID] = true
	}
	freshIDs := make(map[string]bool, len(fresh.Announcements))
	for _, ann := range fresh.Announcements {
		freshIDs[ann.ID] = true
	}

	for _, ann := range fresh.Announcements {
		if !storedIDs[ann.ID] {
			result.Added = append(result.Added, ann)
		}
	}
	for _, ann := range stored.Announcements {
		if !freshIDs[ann.ID] {
			result.Removed = append(result.Removed, ann)
		}
	}
	return result
}

// isElective reports whether the subject carries an elective-group marker.
func (d *Detector) isElective(subject string) bool {
	normalized := normalizeSubject(subject)
	for _, marker := range d.markers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// normalizeSubject lowercases and collapses whitespace for marker matching.
func normalizeSubject(subject string) string {
	return strings.ToLower(strings.Join(strings.Fields(subject), " "))
}

func markEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
