package command

import (
	"context"
	"strings"
	"sync"

	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
	"github.com/eklase-hub/schedule-hub/pkg/logger"
)

// ProcessWeekSetCommand processes several weeks' pages for one student.
// Pages for the same student run strictly in order: two reconciliations of
// the same week must never race.
type ProcessWeekSetCommand struct {
	Nickname string
	Pages    []string
}

// Validate checks command parameters.
func (c ProcessWeekSetCommand) Validate() error {
	if strings.TrimSpace(c.Nickname) == "" {
		return shared.NewDomainError("command", "Validate", shared.ErrInvalidInput, "nickname is required")
	}
	if len(c.Pages) == 0 {
		return shared.NewDomainError("command", "Validate", shared.ErrInvalidInput, "at least one page is required")
	}
	return nil
}

// WeekResult is the per-page outcome within a week set.
type WeekResult struct {
	ScheduleID string
	Created    bool
	Changed    bool
	Err        error
}

// ProcessWeekSetResult summarizes a week set run.
type ProcessWeekSetResult struct {
	Nickname  string
	Weeks     []WeekResult
	Succeeded int
	Failed    int
}

// ProcessWeekSetHandler processes the pages of one student sequentially.
type ProcessWeekSetHandler struct {
	processor *ProcessScheduleHandler
	log       *logger.Logger
}

// NewProcessWeekSetHandler creates the handler.
func NewProcessWeekSetHandler(processor *ProcessScheduleHandler, log *logger.Logger) *ProcessWeekSetHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ProcessWeekSetHandler{
		processor: processor,
		log:       log.With(logger.Component("process_week_set")),
	}
}

// Handle processes every page in order. A failed week is recorded and the
// remaining weeks still run: they are independent reconciliations.
func (h *ProcessWeekSetHandler) Handle(ctx context.Context, cmd ProcessWeekSetCommand) (*ProcessWeekSetResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &ProcessWeekSetResult{Nickname: cmd.Nickname}
	for _, page := range cmd.Pages {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res, err := h.processor.Handle(ctx, ProcessScheduleCommand{
			Nickname: cmd.Nickname,
			PageHTML: page,
		})
		if err != nil {
			result.Weeks = append(result.Weeks, WeekResult{Err: err})
			result.Failed++
			continue
		}
		result.Weeks = append(result.Weeks, WeekResult{
			ScheduleID: res.ScheduleID,
			Created:    res.Created,
			Changed:    res.ChangedDays > 0,
		})
		result.Succeeded++
	}

	h.log.Info("week set processed",
		logger.Nickname(cmd.Nickname),
		logger.Int("succeeded", result.Succeeded),
		logger.Int("failed", result.Failed),
	)
	return result, nil
}

// BulkProcessCommand processes week sets for many students concurrently.
type BulkProcessCommand struct {
	Sets        []ProcessWeekSetCommand
	Concurrency int
}

// BulkProcessResult summarizes a bulk run.
type BulkProcessResult struct {
	Students  int
	Succeeded int
	Failed    int
}

// BulkProcessHandler fans week sets out over a bounded worker pool.
// Different students are independent and safe to run in parallel.
type BulkProcessHandler struct {
	weekSets *ProcessWeekSetHandler
	log      *logger.Logger
}

// NewBulkProcessHandler creates the handler.
func NewBulkProcessHandler(weekSets *ProcessWeekSetHandler, log *logger.Logger) *BulkProcessHandler {
	if log == nil {
		log = logger.Default()
	}
	return &BulkProcessHandler{
		weekSets: weekSets,
		log:      log.With(logger.Component("bulk_process")),
	}
}

// Handle runs every student's week set, at most Concurrency at a time.
func (h *BulkProcessHandler) Handle(ctx context.Context, cmd BulkProcessCommand) (*BulkProcessResult, error) {
	concurrency := cmd.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = &BulkProcessResult{Students: len(cmd.Sets)}
	)
	sem := make(chan struct{}, concurrency)

	for _, set := range cmd.Sets {
		set := set
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := h.weekSets.Handle(ctx, set)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || (res != nil && res.Failed > 0) {
				result.Failed++
				return
			}
			result.Succeeded++
		}()
	}
	wg.Wait()

	h.log.Info("bulk processing complete",
		logger.Int("students", result.Students),
		logger.Int("succeeded", result.Succeeded),
		logger.Int("failed", result.Failed),
	)
	return result, nil
}
