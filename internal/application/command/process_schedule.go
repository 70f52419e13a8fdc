// Package command contains application-level command handlers orchestrating
// the domain, persistence and messaging layers.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
	"github.com/eklase-hub/schedule-hub/internal/extractor"
	"github.com/eklase-hub/schedule-hub/internal/preprocess"
	"github.com/eklase-hub/schedule-hub/pkg/logger"
)

// ProcessScheduleCommand processes one scraped journal page for a student.
type ProcessScheduleCommand struct {
	Nickname string
	PageHTML string
}

// Validate checks command parameters.
func (c ProcessScheduleCommand) Validate() error {
	if strings.TrimSpace(c.Nickname) == "" {
		return shared.NewDomainError("command", "Validate", shared.ErrInvalidInput, "nickname is required")
	}
	if strings.TrimSpace(c.PageHTML) == "" {
		return shared.NewDomainError("command", "Validate", shared.ErrInvalidInput, "page HTML is required")
	}
	return nil
}

// ProcessScheduleResult is the outcome of processing one page.
type ProcessScheduleResult struct {
	ScheduleID  string
	Created     bool
	ChangedDays int
}

// ReportDispatcher publishes change reports as domain events.
type ReportDispatcher interface {
	Dispatch(ctx context.Context, report *schedule.ChangeReport) error
	DispatchCrawlError(ctx context.Context, nickname, scheduleID string, cause error) error
}

// CrawlCursor records sync progress per student.
type CrawlCursor interface {
	SetCrawlCursor(ctx context.Context, nickname, scheduleID string) error
}

// ProcessScheduleHandler runs the extract-preprocess-sync-notify chain.
type ProcessScheduleHandler struct {
	repo         schedule.Repository
	dispatcher   ReportDispatcher
	cursor       CrawlCursor
	baseURL      string
	translations map[string]string
	log          *logger.Logger
}

// ProcessScheduleConfig configures the handler.
type ProcessScheduleConfig struct {
	// BaseURL of the portal, for absolutizing attachment URLs.
	BaseURL string
	// Translations is the subject name dictionary applied by the pipeline.
	Translations map[string]string
}

// NewProcessScheduleHandler creates the handler.
func NewProcessScheduleHandler(
	repo schedule.Repository,
	dispatcher ReportDispatcher,
	cursor CrawlCursor,
	cfg ProcessScheduleConfig,
	log *logger.Logger,
) *ProcessScheduleHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ProcessScheduleHandler{
		repo:         repo,
		dispatcher:   dispatcher,
		cursor:       cursor,
		baseURL:      cfg.BaseURL,
		translations: cfg.Translations,
		log:          log.With(logger.Component("process_schedule")),
	}
}

// Handle processes one journal page end to end. A preprocessing failure is
// reported as a crawl error event and returned; nothing is persisted.
func (h *ProcessScheduleHandler) Handle(ctx context.Context, cmd ProcessScheduleCommand) (*ProcessScheduleResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	raw, err := extractor.ExtractString(cmd.PageHTML)
	if err != nil {
		h.reportFailure(ctx, cmd.Nickname, "", err)
		return nil, err
	}

	pipeline := preprocess.New(preprocess.Options{
		Nickname:     cmd.Nickname,
		BaseURL:      h.baseURL,
		Translations: h.translations,
		Logger:       h.log,
	})
	sched, err := pipeline.Run(ctx, raw)
	if err != nil {
		h.reportFailure(ctx, cmd.Nickname, "", err)
		return nil, err
	}

	report, err := h.repo.Sync(ctx, sched)
	if err != nil {
		h.reportFailure(ctx, cmd.Nickname, sched.ID, err)
		return nil, fmt.Errorf("sync schedule %s: %w", sched.ID, err)
	}

	if err := h.dispatcher.Dispatch(ctx, report); err != nil {
		// Events are best effort; the merge already committed.
		h.log.Error("failed to dispatch change report",
			logger.Nickname(cmd.Nickname),
			logger.ScheduleID(sched.ID),
			logger.Err(err),
		)
	}

	if h.cursor != nil {
		if err := h.cursor.SetCrawlCursor(ctx, cmd.Nickname, sched.ID); err != nil {
			h.log.Warn("failed to update crawl cursor",
				logger.Nickname(cmd.Nickname),
				logger.Err(err),
			)
		}
	}

	return &ProcessScheduleResult{
		ScheduleID:  sched.ID,
		Created:     report.Created,
		ChangedDays: len(report.Days),
	}, nil
}

func (h *ProcessScheduleHandler) reportFailure(ctx context.Context, nickname, scheduleID string, cause error) {
	h.log.Error("schedule processing failed",
		logger.Nickname(nickname),
		logger.ScheduleID(scheduleID),
		logger.Err(cause),
	)
	if err := h.dispatcher.DispatchCrawlError(ctx, nickname, scheduleID, cause); err != nil {
		h.log.Warn("failed to publish crawl error event", logger.Err(err))
	}
}
