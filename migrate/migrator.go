package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/aalemi-dev/dbscope/observability"
)

// HistoryTable records applied migrations.
const HistoryTable = "dbscope_migrations"

// ErrNothingToRevert is returned by Down when no migration has been applied.
var ErrNothingToRevert = errors.New("no applied migration to revert")

const createHistoryTable = `CREATE TABLE IF NOT EXISTS ` + HistoryTable + ` (
	id VARCHAR(32) NOT NULL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	type VARCHAR(16) NOT NULL,
	executed_at VARCHAR(40) NOT NULL,
	executed_by VARCHAR(64) NOT NULL,
	duration_ms BIGINT NOT NULL
)`

// Status describes one up migration and whether it has been applied.
type Status struct {
	ID         string
	Name       string
	Type       Type
	Applied    bool
	ExecutedAt time.Time
	ExecutedBy string
	Duration   time.Duration
}

type historyRecord struct {
	executedAt time.Time
	executedBy string
	duration   time.Duration
}

// Migrator applies the migrations in one directory to the pool found on the
// context it is called with. Every migration runs in its own transaction
// together with its history record.
type Migrator struct {
	dir        string
	executedBy string
	observer   observability.Observer
	logger     dbscope.Logger
}

// New creates a Migrator for the migrations in dir.
func New(dir string) *Migrator {
	return &Migrator{dir: dir, executedBy: "dbscope"}
}

// WithExecutedBy sets the name recorded in the history table.
func (m *Migrator) WithExecutedBy(name string) *Migrator {
	m.executedBy = name
	return m
}

// WithObserver attaches an observer notified after each migration.
func (m *Migrator) WithObserver(observer observability.Observer) *Migrator {
	m.observer = observer
	return m
}

// WithLogger attaches a logger for applied and failed migrations.
func (m *Migrator) WithLogger(logger dbscope.Logger) *Migrator {
	m.logger = logger
	return m
}

// Up applies the pending migrations in dir with the pool on ctx.
func Up(ctx context.Context, dir string) (int, error) {
	return New(dir).Up(ctx)
}

// Down reverts the most recently applied migration in dir.
func Down(ctx context.Context, dir string) error {
	return New(dir).Down(ctx)
}

// GetStatus reports every up migration in dir and whether it was applied.
func GetStatus(ctx context.Context, dir string) ([]Status, error) {
	return New(dir).Status(ctx)
}

// Up applies pending migrations in ID order and returns how many it applied.
// It stops at the first failure; that migration's transaction is rolled back
// and earlier migrations stay applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	migrations, err := Load(m.dir, UpMigration)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := m.ensureHistoryTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure migration history table: %w", err)
	}
	applied, err := m.history(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	count := 0
	for _, migration := range migrations {
		if _, ok := applied[migration.ID]; ok {
			continue
		}

		start := time.Now()
		err := inTx(ctx, func(txCtx context.Context, req *dbscope.Request) error {
			if _, err := req.Exec(txCtx, migration.SQL); err != nil {
				return err
			}
			_, err := req.Exec(txCtx,
				"INSERT INTO "+HistoryTable+" (id, name, type, executed_at, executed_by, duration_ms) VALUES (?, ?, ?, ?, ?, ?)",
				migration.ID, migration.Name, string(migration.Type),
				time.Now().UTC().Format(time.RFC3339Nano), m.executedBy, time.Since(start).Milliseconds())
			return err
		})
		m.observe("migrate_up", migration.ID, time.Since(start), err)
		if err != nil {
			m.logError(ctx, "migration failed", err, migration)
			return count, fmt.Errorf("migration %s failed: %w", migration.ID, err)
		}
		m.logInfo(ctx, "migration applied", migration)
		count++
	}
	return count, nil
}

// Down reverts the most recently applied migration using its down file.
func (m *Migrator) Down(ctx context.Context) error {
	if err := m.ensureHistoryTable(ctx); err != nil {
		return fmt.Errorf("failed to ensure migration history table: %w", err)
	}
	applied, err := m.history(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	var last string
	for id := range applied {
		if id > last {
			last = id
		}
	}
	if last == "" {
		return ErrNothingToRevert
	}

	downs, err := Load(m.dir, DownMigration)
	if err != nil {
		return fmt.Errorf("failed to load down migrations: %w", err)
	}
	var down *Migration
	for i := range downs {
		if downs[i].ID == last {
			down = &downs[i]
			break
		}
	}
	if down == nil {
		return fmt.Errorf("no down migration found for %s", last)
	}

	start := time.Now()
	err = inTx(ctx, func(txCtx context.Context, req *dbscope.Request) error {
		if _, err := req.Exec(txCtx, down.SQL); err != nil {
			return err
		}
		_, err := req.Exec(txCtx, "DELETE FROM "+HistoryTable+" WHERE id = ?", last)
		return err
	})
	m.observe("migrate_down", last, time.Since(start), err)
	if err != nil {
		m.logError(ctx, "migration revert failed", err, *down)
		return fmt.Errorf("failed to revert migration %s: %w", last, err)
	}
	m.logInfo(ctx, "migration reverted", *down)
	return nil
}

// Status reports every up migration and whether it has been applied.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	migrations, err := Load(m.dir, UpMigration)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := m.ensureHistoryTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure migration history table: %w", err)
	}
	applied, err := m.history(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	status := make([]Status, 0, len(migrations))
	for _, migration := range migrations {
		s := Status{ID: migration.ID, Name: migration.Name, Type: migration.Type}
		if rec, ok := applied[migration.ID]; ok {
			s.Applied = true
			s.ExecutedAt = rec.executedAt
			s.ExecutedBy = rec.executedBy
			s.Duration = rec.duration
		}
		status = append(status, s)
	}
	return status, nil
}

func (m *Migrator) ensureHistoryTable(ctx context.Context) error {
	req, err := dbscope.GetRequest(ctx)
	if err != nil {
		return err
	}
	defer req.Cancel()

	_, err = req.Exec(ctx, createHistoryTable)
	return err
}

func (m *Migrator) history(ctx context.Context) (map[string]historyRecord, error) {
	req, err := dbscope.GetRequest(ctx)
	if err != nil {
		return nil, err
	}
	defer req.Cancel()

	res, err := req.Query(ctx, "SELECT id, executed_at, executed_by, duration_ms FROM "+HistoryTable)
	if err != nil {
		return nil, err
	}

	records := make(map[string]historyRecord, res.Len())
	for i := 0; i < res.Len(); i++ {
		executedAt, _ := time.Parse(time.RFC3339Nano, fmt.Sprint(res.Value(i, "executed_at")))
		ms, _ := strconv.ParseInt(fmt.Sprint(res.Value(i, "duration_ms")), 10, 64)
		records[fmt.Sprint(res.Value(i, "id"))] = historyRecord{
			executedAt: executedAt,
			executedBy: fmt.Sprint(res.Value(i, "executed_by")),
			duration:   time.Duration(ms) * time.Millisecond,
		}
	}
	return records, nil
}

// inTx runs fn on a fresh transaction derived from ctx, committing on success
// and rolling back on failure.
func inTx(ctx context.Context, fn func(context.Context, *dbscope.Request) error) error {
	txCtx, err := dbscope.WithTx(ctx, sql.LevelDefault)
	if err != nil {
		return err
	}

	req, err := dbscope.GetTxRequest(txCtx)
	if err != nil {
		return errors.Join(err, dbscope.Rollback(txCtx))
	}
	if err := fn(txCtx, req); err != nil {
		return errors.Join(err, dbscope.Rollback(txCtx))
	}
	return dbscope.Commit(txCtx)
}

func (m *Migrator) observe(operation, id string, duration time.Duration, err error) {
	if m.observer == nil {
		return
	}
	m.observer.ObserveOperation(observability.OperationContext{
		Component:   "migrate",
		Operation:   operation,
		Resource:    m.dir,
		SubResource: id,
		Duration:    duration,
		Error:       err,
	})
}

func (m *Migrator) logInfo(ctx context.Context, msg string, migration Migration) {
	if m.logger != nil {
		m.logger.InfoWithContext(ctx, msg, nil, migrationFields(migration))
	}
}

func (m *Migrator) logError(ctx context.Context, msg string, err error, migration Migration) {
	if m.logger != nil {
		m.logger.ErrorWithContext(ctx, msg, err, migrationFields(migration))
	}
}

func migrationFields(migration Migration) map[string]interface{} {
	return map[string]interface{}{
		"migration_id":   migration.ID,
		"migration_name": migration.Name,
		"migration_type": string(migration.Type),
	}
}
