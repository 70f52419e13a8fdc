// Package query contains read-side application handlers.
package query

import (
	"context"
	"strings"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

// GetScheduleQuery fetches one stored week of a student.
type GetScheduleQuery struct {
	Nickname   string
	ScheduleID string
}

// Validate checks query parameters.
func (q GetScheduleQuery) Validate() error {
	if strings.TrimSpace(q.Nickname) == "" {
		return shared.NewDomainError("query", "Validate", shared.ErrInvalidInput, "nickname is required")
	}
	if strings.TrimSpace(q.ScheduleID) == "" {
		return shared.NewDomainError("query", "Validate", shared.ErrInvalidInput, "schedule id is required")
	}
	return nil
}

// GetScheduleHandler serves schedule reads.
type GetScheduleHandler struct {
	repo schedule.Repository
}

// NewGetScheduleHandler creates the handler.
func NewGetScheduleHandler(repo schedule.Repository) *GetScheduleHandler {
	return &GetScheduleHandler{repo: repo}
}

// Handle returns the stored schedule.
func (h *GetScheduleHandler) Handle(ctx context.Context, q GetScheduleQuery) (*schedule.Schedule, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return h.repo.GetByID(ctx, q.Nickname, q.ScheduleID)
}

// ListWeeksQuery lists the stored week identifiers of a student.
type ListWeeksQuery struct {
	Nickname string
}

// ListWeeksHandler serves week listings.
type ListWeeksHandler struct {
	repo schedule.Repository
}

// NewListWeeksHandler creates the handler.
func NewListWeeksHandler(repo schedule.Repository) *ListWeeksHandler {
	return &ListWeeksHandler{repo: repo}
}

// Handle returns the stored week identifiers in ascending order.
func (h *ListWeeksHandler) Handle(ctx context.Context, q ListWeeksQuery) ([]string, error) {
	if strings.TrimSpace(q.Nickname) == "" {
		return nil, shared.NewDomainError("query", "Validate", shared.ErrInvalidInput, "nickname is required")
	}
	return h.repo.ListScheduleIDs(ctx, q.Nickname)
}
