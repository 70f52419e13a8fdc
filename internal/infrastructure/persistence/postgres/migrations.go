package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/eklase-hub/schedule-hub/pkg/logger"
)

// Migration represents a single database migration.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// GetMigrations returns all migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_schedule_tables",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS schedules (
					nickname    TEXT NOT NULL,
					id          TEXT NOT NULL,
					created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
					PRIMARY KEY (nickname, id)
				);

				CREATE TABLE IF NOT EXISTS school_days (
					nickname    TEXT NOT NULL,
					schedule_id TEXT NOT NULL,
					id          TEXT NOT NULL,
					date        TIMESTAMPTZ NOT NULL,
					PRIMARY KEY (nickname, schedule_id, id),
					FOREIGN KEY (nickname, schedule_id)
						REFERENCES schedules (nickname, id) ON DELETE CASCADE
				);

				CREATE TABLE IF NOT EXISTS lessons (
					nickname     TEXT NOT NULL,
					schedule_id  TEXT NOT NULL,
					day_id       TEXT NOT NULL,
					id           TEXT NOT NULL,
					lesson_index INT  NOT NULL,
					subject      TEXT NOT NULL,
					room         TEXT NOT NULL DEFAULT '',
					topic        TEXT NOT NULL DEFAULT '',
					mark         INT,
					PRIMARY KEY (nickname, schedule_id, id),
					FOREIGN KEY (nickname, schedule_id, day_id)
						REFERENCES school_days (nickname, schedule_id, id) ON DELETE CASCADE,
					CHECK (mark IS NULL OR (mark BETWEEN 1 AND 10))
				);

				CREATE TABLE IF NOT EXISTS homework (
					nickname    TEXT NOT NULL,
					schedule_id TEXT NOT NULL,
					lesson_id   TEXT NOT NULL,
					id          TEXT NOT NULL,
					text        TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (nickname, schedule_id, id),
					FOREIGN KEY (nickname, schedule_id, lesson_id)
						REFERENCES lessons (nickname, schedule_id, id) ON DELETE CASCADE
				);

				CREATE TABLE IF NOT EXISTS homework_links (
					nickname        TEXT NOT NULL,
					schedule_id     TEXT NOT NULL,
					homework_id     TEXT NOT NULL,
					id              TEXT NOT NULL,
					original_url    TEXT NOT NULL,
					destination_url TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (nickname, schedule_id, id),
					FOREIGN KEY (nickname, schedule_id, homework_id)
						REFERENCES homework (nickname, schedule_id, id) ON DELETE CASCADE
				);

				CREATE TABLE IF NOT EXISTS homework_attachments (
					nickname    TEXT NOT NULL,
					schedule_id TEXT NOT NULL,
					homework_id TEXT NOT NULL,
					id          TEXT NOT NULL,
					filename    TEXT NOT NULL,
					url         TEXT NOT NULL,
					PRIMARY KEY (nickname, schedule_id, id),
					FOREIGN KEY (nickname, schedule_id, homework_id)
						REFERENCES homework (nickname, schedule_id, id) ON DELETE CASCADE
				);

				CREATE TABLE IF NOT EXISTS topic_attachments (
					nickname    TEXT NOT NULL,
					schedule_id TEXT NOT NULL,
					lesson_id   TEXT NOT NULL,
					id          TEXT NOT NULL,
					filename    TEXT NOT NULL,
					url         TEXT NOT NULL,
					PRIMARY KEY (nickname, schedule_id, id),
					FOREIGN KEY (nickname, schedule_id, lesson_id)
						REFERENCES lessons (nickname, schedule_id, id) ON DELETE CASCADE
				);

				CREATE TABLE IF NOT EXISTS schedule_attachments (
					nickname     TEXT NOT NULL,
					schedule_id  TEXT NOT NULL,
					id           TEXT NOT NULL,
					day_id       TEXT NOT NULL,
					subject      TEXT NOT NULL DEFAULT '',
					lesson_index INT  NOT NULL DEFAULT 0,
					filename     TEXT NOT NULL,
					url          TEXT NOT NULL,
					PRIMARY KEY (nickname, schedule_id, id),
					FOREIGN KEY (nickname, schedule_id)
						REFERENCES schedules (nickname, id) ON DELETE CASCADE
				);

				CREATE TABLE IF NOT EXISTS announcements (
					nickname      TEXT NOT NULL,
					schedule_id   TEXT NOT NULL,
					day_id        TEXT NOT NULL,
					id            TEXT NOT NULL,
					type          TEXT NOT NULL CHECK (type IN ('behavior', 'general')),
					text          TEXT NOT NULL DEFAULT '',
					behavior_type TEXT NOT NULL DEFAULT '',
					description   TEXT NOT NULL DEFAULT '',
					rating        TEXT NOT NULL DEFAULT '',
					subject       TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (nickname, schedule_id, id),
					FOREIGN KEY (nickname, schedule_id, day_id)
						REFERENCES school_days (nickname, schedule_id, id) ON DELETE CASCADE
				);
			`,
			DownSQL: `
				DROP TABLE IF EXISTS announcements;
				DROP TABLE IF EXISTS schedule_attachments;
				DROP TABLE IF EXISTS topic_attachments;
				DROP TABLE IF EXISTS homework_attachments;
				DROP TABLE IF EXISTS homework_links;
				DROP TABLE IF EXISTS homework;
				DROP TABLE IF EXISTS lessons;
				DROP TABLE IF EXISTS school_days;
				DROP TABLE IF EXISTS schedules;
			`,
		},
		{
			Version: 2,
			Name:    "add_lookup_indexes",
			UpSQL: `
				CREATE INDEX IF NOT EXISTS idx_school_days_schedule
					ON school_days (nickname, schedule_id);
				CREATE INDEX IF NOT EXISTS idx_lessons_day
					ON lessons (nickname, schedule_id, day_id);
				CREATE INDEX IF NOT EXISTS idx_homework_lesson
					ON homework (nickname, schedule_id, lesson_id);
				CREATE INDEX IF NOT EXISTS idx_homework_links_homework
					ON homework_links (nickname, schedule_id, homework_id);
				CREATE INDEX IF NOT EXISTS idx_homework_attachments_homework
					ON homework_attachments (nickname, schedule_id, homework_id);
				CREATE INDEX IF NOT EXISTS idx_topic_attachments_lesson
					ON topic_attachments (nickname, schedule_id, lesson_id);
				CREATE INDEX IF NOT EXISTS idx_announcements_day
					ON announcements (nickname, schedule_id, day_id);
			`,
			DownSQL: `
				DROP INDEX IF EXISTS idx_announcements_day;
				DROP INDEX IF EXISTS idx_topic_attachments_lesson;
				DROP INDEX IF EXISTS idx_homework_attachments_homework;
				DROP INDEX IF EXISTS idx_homework_links_homework;
				DROP INDEX IF EXISTS idx_homework_lesson;
				DROP INDEX IF EXISTS idx_lessons_day;
				DROP INDEX IF EXISTS idx_school_days_schedule;
			`,
		},
	}
}

// Migrator applies database migrations.
type Migrator struct {
	conn *Connection
	log  *logger.Logger
}

// NewMigrator creates a migrator.
func NewMigrator(conn *Connection, log *logger.Logger) *Migrator {
	return &Migrator{
		conn: conn,
		log:  log.With(logger.Component("migrator")),
	}
}

// EnsureMigrationTable creates the schema_migrations table if missing.
func (m *Migrator) EnsureMigrationTable(ctx context.Context) error {
	_, err := m.conn.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("postgres: create migration table: %w", err)
	}
	return nil
}

// Migrate applies all pending migrations in order.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	var current int
	err := m.conn.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`,
	).Scan(&current)
	if err != nil {
		return fmt.Errorf("postgres: read migration version: %w", err)
	}

	for _, migration := range GetMigrations() {
		if migration.Version <= current {
			continue
		}

		m.log.Info("applying migration",
			logger.Int("version", migration.Version),
			logger.String("name", migration.Name),
		)

		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, migration.UpSQL); err != nil {
				return fmt.Errorf("apply migration %d: %w", migration.Version, err)
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				migration.Version, migration.Name,
			)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Rollback reverts the most recently applied migration.
func (m *Migrator) Rollback(ctx context.Context) error {
	var version int
	var name string
	err := m.conn.pool.QueryRow(ctx,
		`SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1`,
	).Scan(&version, &name)
	if err != nil {
		return fmt.Errorf("postgres: no migrations to roll back: %w", err)
	}

	var target Migration
	for _, migration := range GetMigrations() {
		if migration.Version == version {
			target = migration
			break
		}
	}
	if target.Version == 0 {
		return fmt.Errorf("postgres: unknown migration version %d", version)
	}

	m.log.Info("rolling back migration",
		logger.Int("version", version),
		logger.String("name", name),
	)

	return m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, target.DownSQL); err != nil {
			return fmt.Errorf("roll back migration %d: %w", version, err)
		}
		_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version)
		return err
	})
}
