// Package extractor parses the school portal's student journal page into
// the raw representation consumed by the preprocessing pipeline.
package extractor

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
	"github.com/eklase-hub/schedule-hub/internal/preprocess"
)

// Selectors for the journal markup. The portal renders each week inside a
// holder div, with day headings and lesson tables interleaved as siblings.
const (
	holderSelector       = "div.student-journal-lessons-table-holder"
	dayEntrySelector     = "h2, table.lessons-table"
	lessonRowSelector    = "tbody tr"
	numberSelector       = "span.number"
	subjectSelector      = "span.title"
	roomSelector         = "span.room"
	topicSelector        = "td.subject p"
	homeworkCellSelector = "td.hometask"
	homeworkTextSelector = "span p"
	fileLinkSelector     = "a.file"
	scoreSelector        = "td.score span.score"
	announcementSelector = "tr.info td.info-content p"
)

// Extract parses journal HTML into the raw schedule representation.
// Returns shared.ErrMalformedFragment when the page carries no journal.
func Extract(r io.Reader) (*preprocess.RawSchedule, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, shared.WrapError("extractor", "Extract", shared.ErrInvalidFormat,
			"failed to parse journal HTML", err)
	}

	raw := &preprocess.RawSchedule{}
	doc.Find(holderSelector).Each(func(_ int, holder *goquery.Selection) {
		holder.Find(dayEntrySelector).Each(func(_ int, entry *goquery.Selection) {
			if goquery.NodeName(entry) == "h2" {
				// A heading alone is the date marker; the dates stage
				// merges it with the table that follows.
				raw.Days = append(raw.Days, &preprocess.RawDay{
					DateText: cleanText(entry.Text()),
				})
				return
			}
			raw.Days = append(raw.Days, extractDay(entry))
		})
	})

	if len(raw.Days) == 0 {
		return nil, shared.NewDomainError("extractor", "Extract", shared.ErrMalformedFragment,
			"page contains no journal data")
	}
	return raw, nil
}

// ExtractString is a convenience wrapper over Extract.
func ExtractString(html string) (*preprocess.RawSchedule, error) {
	return Extract(strings.NewReader(html))
}

// extractDay parses one lessons table into a raw day.
func extractDay(table *goquery.Selection) *preprocess.RawDay {
	day := &preprocess.RawDay{}

	table.Find(lessonRowSelector).Not(".info").Each(func(_ int, row *goquery.Selection) {
		day.Lessons = append(day.Lessons, extractLesson(row))
	})

	table.Find(announcementSelector).Each(func(_ int, p *goquery.Selection) {
		text := cleanText(p.Text())
		if text == "" {
			return
		}
		day.Announcements = append(day.Announcements, &preprocess.RawAnnouncement{Text: text})
	})

	return day
}

// extractLesson parses one lesson row.
func extractLesson(row *goquery.Selection) *preprocess.RawLesson {
	lesson := &preprocess.RawLesson{
		NumberText: cleanText(row.Find(numberSelector).Text()),
		Subject:    cleanText(row.Find(subjectSelector).Text()),
		Room:       cleanText(row.Find(roomSelector).Text()),
		Topic:      cleanText(row.Find(topicSelector).Text()),
	}

	row.Find(scoreSelector).Each(func(_ int, score *goquery.Selection) {
		if text := cleanText(score.Text()); text != "" {
			lesson.MarkTexts = append(lesson.MarkTexts, text)
		}
	})

	if cell := row.Find(homeworkCellSelector); cell.Length() > 0 {
		lesson.Homework = extractHomework(cell)
	}

	return lesson
}

// extractHomework parses a homework cell: text paragraphs, every anchor as
// a link, and file anchors additionally as named attachments. An anchor
// that duplicates an attachment is dropped later by the homework stage.
func extractHomework(cell *goquery.Selection) *preprocess.RawHomework {
	hw := &preprocess.RawHomework{}

	cell.Find(homeworkTextSelector).Each(func(_ int, p *goquery.Selection) {
		if text := cleanText(p.Text()); text != "" {
			hw.Fragments = append(hw.Fragments, text)
		}
	})

	cell.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		hw.Links = append(hw.Links, &preprocess.RawLink{URL: strings.TrimSpace(href)})
	})

	cell.Find(fileLinkSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		hw.Files = append(hw.Files, &preprocess.RawFile{
			Filename: cleanText(a.Text()),
			URL:      strings.TrimSpace(href),
		})
	})

	if len(hw.Fragments) == 0 && len(hw.Links) == 0 && len(hw.Files) == 0 {
		return nil
	}
	return hw
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
