package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/eklase-hub/schedule-hub/internal/domain/schedule"
	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
	"github.com/eklase-hub/schedule-hub/pkg/logger"
)

// ChangeDetector computes the change report between the fresh schedule and
// the stored snapshot. Detection runs inside the save transaction so the
// report and the merge apply to the same snapshot.
type ChangeDetector interface {
	Detect(fresh, stored *schedule.Schedule) *schedule.ChangeReport
}

// ScheduleRepository implements schedule.Repository on PostgreSQL.
type ScheduleRepository struct {
	conn     *Connection
	detector ChangeDetector
	log      *logger.Logger
}

// NewScheduleRepository creates a schedule repository.
func NewScheduleRepository(conn *Connection, detector ChangeDetector, log *logger.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		conn:     conn,
		detector: detector,
		log:      log.With(logger.Component("schedule_repo")),
	}
}

// advisoryLockSQL serializes writers on one (nickname, schedule id) key.
// The lock is transaction scoped and released on commit or rollback.
const advisoryLockSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

// Sync atomically merges the fresh schedule into storage and returns the
// change report computed against the snapshot the merge applied to.
func (r *ScheduleRepository) Sync(ctx context.Context, sched *schedule.Schedule) (*schedule.ChangeReport, error) {
	var report *schedule.ChangeReport

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		lockKey := sched.Nickname + ":" + sched.ID
		if _, err := tx.Exec(ctx, advisoryLockSQL, lockKey); err != nil {
			return fmt.Errorf("postgres: acquire advisory lock: %w", err)
		}

		stored, err := loadSchedule(ctx, tx, sched.Nickname, sched.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		report = r.detector.Detect(sched, stored)

		if stored == nil {
			return insertSchedule(ctx, tx, sched)
		}
		return r.mergeSchedule(ctx, tx, sched, stored)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("schedule synced",
		logger.Nickname(sched.Nickname),
		logger.ScheduleID(sched.ID),
		logger.Bool("created", report.Created),
		logger.Int("changed_days", len(report.Days)),
	)
	return report, nil
}

// GetByID returns the stored schedule for one week.
func (r *ScheduleRepository) GetByID(ctx context.Context, nickname, scheduleID string) (*schedule.Schedule, error) {
	sched, err := loadSchedule(ctx, r.conn.pool, nickname, scheduleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrScheduleNotFound
		}
		return nil, err
	}
	return sched, nil
}

// ListScheduleIDs returns the stored week identifiers of a student.
func (r *ScheduleRepository) ListScheduleIDs(ctx context.Context, nickname string) ([]string, error) {
	rows, err := r.conn.pool.Query(ctx,
		`SELECT id FROM schedules WHERE nickname = $1 ORDER BY id`, nickname)
	if err != nil {
		return nil, fmt.Errorf("postgres: list schedules: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan schedule id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes one stored week with its whole entity graph.
func (r *ScheduleRepository) Delete(ctx context.Context, nickname, scheduleID string) error {
	tag, err := r.conn.pool.Exec(ctx,
		`DELETE FROM schedules WHERE nickname = $1 AND id = $2`, nickname, scheduleID)
	if err != nil {
		return fmt.Errorf("postgres: delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrScheduleNotFound
	}
	return nil
}
