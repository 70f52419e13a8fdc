package preprocess

import (
	"context"

	"github.com/eklase-hub/schedule-hub/pkg/logger"
)

// runTranslation maps subject names through the configured dictionary.
// The dictionary is keyed by clean subject names, so the combined
// subject+room string is split first and the extracted room preserved.
// Subjects without a dictionary entry pass through unchanged.
func (p *Pipeline) runTranslation(ctx context.Context, raw *RawSchedule) error {
	if len(p.opts.Translations) == 0 {
		return nil
	}

	translated := 0
	for _, day := range raw.Days {
		for _, lesson := range day.Lessons {
			if lesson.Subject == "" {
				continue
			}
			name, room := cleanSubject(lesson.Subject)
			if name == "" {
				continue
			}
			if room != "" && lesson.Room == "" {
				lesson.Room = room
			}
			if t, ok := p.opts.Translations[name]; ok && t != name {
				lesson.Subject = t
				translated++
			} else {
				lesson.Subject = name
			}
		}
	}

	if translated > 0 {
		p.log.Debug("translated subject names",
			logger.Stage("translation"),
			logger.Int("count", translated),
		)
	}
	return nil
}
