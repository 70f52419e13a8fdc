// Package preprocess turns the raw scraped representation of a school week
// into the canonical domain model. Normalization runs as an ordered pipeline
// of stages; each stage either repairs its slice of the data or rejects the
// whole week with a StageError.
package preprocess

import (
	"time"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
)

// RawSchedule is the extractor output before normalization. Fields carry
// text exactly as scraped; stages fill in the parsed counterparts.
type RawSchedule struct {
	Days []*RawDay
	// Attachments is the flat per-week attachment list built by the
	// attachments stage from every homework block.
	Attachments []*RawOwnedFile
}

// RawOwnedFile is a file reference annotated with its owning lesson,
// collected into the week-level flat attachment list.
type RawOwnedFile struct {
	RawFile
	Day         *RawDay
	Subject     string
	LessonIndex int
}

// RawDay is a single scraped day. A day with a date heading but no content
// is a marker day and is merged into the following day by the dates stage.
type RawDay struct {
	DateText      string    // scraped heading, e.g. "11.11.24. pirmdiena"
	Date          time.Time // set by the dates stage
	Lessons       []*RawLesson
	Announcements []*RawAnnouncement
}

// RawLesson is a single scraped lesson row.
type RawLesson struct {
	NumberText string // scraped number cell, e.g. "3.", "·"
	Index      int    // set by the lessons stage
	Subject    string
	Room       string
	Topic      string
	MarkTexts  []string // scraped score tokens, e.g. "85%", "A", "7"
	Mark       *int     // set by the marks stage
	Homework   *RawHomework
	TopicLinks []*RawLink // hyperlinks in the topic cell, folded into homework
	TopicFiles []*RawFile // files attached to the lesson topic
}

// RawHomework is the scraped homework cell of a lesson.
type RawHomework struct {
	Fragments []string // text paragraphs in source order
	Text      string   // set by the homework stage
	Links     []*RawLink
	Files     []*RawFile
}

// RawLink is a scraped hyperlink inside a homework cell.
type RawLink struct {
	URL            string // href exactly as scraped
	OriginalURL    string // set by the homework stage
	DestinationURL string // set by the homework stage, empty for direct links
}

// RawFile is a scraped file reference. Filename may be empty; the
// attachments stage infers one from the URL when it is.
type RawFile struct {
	Filename string
	URL      string
}

// RawAnnouncement is a scraped announcement paragraph.
type RawAnnouncement struct {
	Text string

	// Parsed fields, set by the announcements stage.
	Type         schedule.AnnouncementType
	ParsedText   string
	BehaviorType string
	Description  string
	Rating       string
	Subject      string
}

// HasContent reports whether the day carries any lessons or announcements.
// A day without content is a date marker.
func (d *RawDay) HasContent() bool {
	return len(d.Lessons) > 0 || len(d.Announcements) > 0
}
