package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
	"github.com/eklase-hub/schedule-hub/pkg/timeutil"
)

type stubRepo struct {
	schedules map[string]*schedule.Schedule
	weeks     []string
}

func (r *stubRepo) Sync(ctx context.Context, s *schedule.Schedule) (*schedule.ChangeReport, error) {
	return nil, nil
}

func (r *stubRepo) GetByID(ctx context.Context, nickname, scheduleID string) (*schedule.Schedule, error) {
	if s, ok := r.schedules[nickname+":"+scheduleID]; ok {
		return s, nil
	}
	return nil, shared.ErrScheduleNotFound
}

func (r *stubRepo) ListScheduleIDs(ctx context.Context, nickname string) ([]string, error) {
	return r.weeks, nil
}

func (r *stubRepo) Delete(ctx context.Context, nickname, scheduleID string) error {
	return nil
}

func storedSchedule(t *testing.T) *schedule.Schedule {
	t.Helper()
	day := schedule.NewSchoolDay(time.Date(2024, 11, 11, 0, 0, 0, 0, timeutil.RigaTZ))
	sched, err := schedule.NewSchedule(schedule.NewScheduleParams{
		Nickname: "alice",
		Days:     []*schedule.SchoolDay{day},
	})
	require.NoError(t, err)
	return sched
}

func TestGetSchedule_Handle(t *testing.T) {
	stored := storedSchedule(t)
	repo := &stubRepo{schedules: map[string]*schedule.Schedule{"alice:202446": stored}}
	h := NewGetScheduleHandler(repo)

	sched, err := h.Handle(context.Background(), GetScheduleQuery{Nickname: "alice", ScheduleID: "202446"})
	require.NoError(t, err)
	assert.Same(t, stored, sched)

	_, err = h.Handle(context.Background(), GetScheduleQuery{Nickname: "alice", ScheduleID: "202447"})
	assert.True(t, shared.IsNotFound(err))

	_, err = h.Handle(context.Background(), GetScheduleQuery{Nickname: "", ScheduleID: "202446"})
	assert.Error(t, err)
}

func TestListWeeks_Handle(t *testing.T) {
	repo := &stubRepo{weeks: []string{"202445", "202446"}}
	h := NewListWeeksHandler(repo)

	weeks, err := h.Handle(context.Background(), ListWeeksQuery{Nickname: "alice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"202445", "202446"}, weeks)

	_, err = h.Handle(context.Background(), ListWeeksQuery{})
	assert.Error(t, err)
}
