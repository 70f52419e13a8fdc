package preprocess

import (
	"context"
	"regexp"
	"strings"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
)

var (
	// behaviorRe matches behavior records: a behavior keyword, a free-text
	// description and a positive/negative rating in parentheses, e.g.
	// "Centīgs: aktīvi strādāja stundā (pozitīvs) (12.11., Matemātika, J. Bērziņa)".
	behaviorRe = regexp.MustCompile(`^(Centīgs|Mērķtiecīgs)(?::\s*|\s+)(.*?)\s*\((pozitīvs|negatīvs)\)`)

	// behaviorSubjectRe recovers the subject from the trailing parenthetical
	// holding date, subject and teacher name.
	behaviorSubjectRe = regexp.MustCompile(`\(\d{2}\.\d{2}\.,\s*(.*?),\s*[^,]*\)$`)

	// generalDateRe requires general announcements to open with a date
	// token, e.g. "14.11. kontroldarbs matemātikā".
	generalDateRe = regexp.MustCompile(`^\d{2}\.\d{2}\.`)
)

// runAnnouncements parses every announcement text into either a behavior
// record or a general record. Text matching neither pattern fails the run.
func (p *Pipeline) runAnnouncements(ctx context.Context, raw *RawSchedule) error {
	for _, day := range raw.Days {
		for _, ann := range day.Announcements {
			if err := parseAnnouncement(ann); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseAnnouncement fills the parsed fields of a raw announcement.
func parseAnnouncement(ann *RawAnnouncement) error {
	cleaned := strings.Join(strings.Fields(ann.Text), " ")
	if cleaned == "" {
		return stageErr("announcements", "empty announcement text", ann.Text)
	}

	if m := behaviorRe.FindStringSubmatch(cleaned); m != nil {
		subjectMatch := behaviorSubjectRe.FindStringSubmatch(cleaned)
		if subjectMatch == nil {
			return stageErr("announcements", "behavior record without subject parenthetical", cleaned)
		}
		ann.Type = schedule.AnnouncementBehavior
		ann.BehaviorType = m[1]
		ann.Description = strings.TrimSpace(m[2])
		ann.Rating = m[3]
		ann.Subject = strings.TrimSpace(subjectMatch[1])
		return nil
	}

	if generalDateRe.MatchString(cleaned) {
		ann.Type = schedule.AnnouncementGeneral
		ann.ParsedText = cleaned
		return nil
	}

	return stageErr("announcements", "announcement matches neither behavior nor general pattern", cleaned)
}
