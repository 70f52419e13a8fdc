package preprocess

import (
	"context"
	"strings"
	"time"

	"github.com/eklase-hub/schedule-hub/pkg/logger"
	"github.com/eklase-hub/schedule-hub/pkg/timeutil"
)

// dateLayout matches the portal date headings, e.g. "11.11.24".
const dateLayout = "02.01.06"

// runDates merges the portal's date-marker artifact and parses date headings.
// The portal renders each day twice: a marker entry carrying only the date
// heading, immediately followed by the content entry. The marker's heading is
// the authoritative date for the content that follows it.
//
// A heading that fails to parse is logged and left untouched rather than
// raised, so a single garbled day does not abort the week here. Assembly
// rejects any day that still has no parsed date.
func (p *Pipeline) runDates(ctx context.Context, raw *RawSchedule) error {
	merged := make([]*RawDay, 0, len(raw.Days))

	i := 0
	for i < len(raw.Days) {
		day := raw.Days[i]

		if i+1 < len(raw.Days) &&
			!day.HasContent() &&
			day.DateText != "" &&
			raw.Days[i+1].HasContent() {
			date, err := parseDateHeading(day.DateText)
			if err != nil {
				p.log.Warn("unparsable date heading, day left untouched",
					logger.Stage("dates"),
					logger.String("heading", day.DateText),
					logger.Err(err),
				)
				merged = append(merged, day)
				i++
				continue
			}

			content := raw.Days[i+1]
			content.DateText = day.DateText
			content.Date = date
			merged = append(merged, content)
			i += 2
			continue
		}

		// A lone entry parses its own heading when possible.
		if day.Date.IsZero() && day.DateText != "" {
			if date, err := parseDateHeading(day.DateText); err == nil {
				day.Date = date
			} else {
				p.log.Warn("unparsable date heading, day left untouched",
					logger.Stage("dates"),
					logger.String("heading", day.DateText),
					logger.Err(err),
				)
			}
		}
		merged = append(merged, day)
		i++
	}

	raw.Days = merged
	return nil
}

// parseDateHeading parses a heading like "11.11.24. pirmdiena": the weekday
// name is dropped and the trailing dot of the date token trimmed.
func parseDateHeading(heading string) (time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(heading))
	if len(fields) == 0 {
		return time.Time{}, &StageError{Stage: "dates", Message: "empty date heading"}
	}
	token := strings.TrimRight(fields[0], ".")
	return time.ParseInLocation(dateLayout, token, timeutil.RigaTZ)
}
