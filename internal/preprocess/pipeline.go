package preprocess

import (
	"context"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/pkg/logger"
)

// Stage is a single normalization step. Stages run in a fixed order and may
// mutate the raw schedule in place. A returned error aborts the pipeline.
type Stage struct {
	Name string
	Run  func(ctx context.Context, raw *RawSchedule) error
}

// Options configures a preprocessing pipeline.
type Options struct {
	// Nickname of the student the schedule belongs to. Used for logging.
	Nickname string
	// BaseURL of the school portal, used to absolutize relative URLs.
	BaseURL string
	// Translations maps source-language subject names to display names.
	// Missing entries pass through unchanged.
	Translations map[string]string
	// Logger for recoverable anomalies. Defaults to logger.Default().
	Logger *logger.Logger
}

// Pipeline normalizes raw scraped schedules into the domain model.
type Pipeline struct {
	opts   Options
	log    *logger.Logger
	stages []Stage
}

// New creates a preprocessing pipeline with the standard stage order.
func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	p := &Pipeline{
		opts: opts,
		log:  log.With(logger.Component("preprocess"), logger.Nickname(opts.Nickname)),
	}
	p.stages = []Stage{
		{Name: "dates", Run: p.runDates},
		{Name: "translation", Run: p.runTranslation},
		{Name: "marks", Run: p.runMarks},
		{Name: "lessons", Run: p.runLessons},
		{Name: "homework", Run: p.runHomework},
		{Name: "announcements", Run: p.runAnnouncements},
		{Name: "attachments", Run: p.runAttachments},
	}
	return p
}

// Run executes every stage in order and assembles the domain schedule.
// Any stage error aborts processing; nothing of the week survives.
func (p *Pipeline) Run(ctx context.Context, raw *RawSchedule) (*schedule.Schedule, error) {
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stage.Run(ctx, raw); err != nil {
			p.log.Error("preprocessing stage failed",
				logger.Stage(stage.Name),
				logger.Err(err),
			)
			return nil, err
		}
		p.log.Debug("preprocessing stage complete", logger.Stage(stage.Name))
	}
	return p.assemble(raw)
}
