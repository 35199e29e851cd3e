package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
)

// Store defines the Task Store operations.
// Lookups of a missing user or task are not errors: they return nil, nil.
type Store interface {
	// CreateTask stores a new incomplete task under the next id of userID.
	CreateTask(ctx context.Context, userID int64, name, deadline string) (*Task, error)

	// GetTask retrieves one task. Returns nil, nil if not found.
	GetTask(ctx context.Context, userID int64, taskID string) (*Task, error)

	// ListTasks returns the tasks of userID in creation order.
	ListTasks(ctx context.Context, userID int64) ([]*Task, error)

	// ListUsers returns every user that owns at least one task.
	ListUsers(ctx context.Context) ([]int64, error)

	// ToggleCompleted flips the completion flag. Reminder firings are kept.
	ToggleCompleted(ctx context.Context, userID int64, taskID string) (*Task, error)

	// RenameTask replaces the task name.
	RenameTask(ctx context.Context, userID int64, taskID, name string) (*Task, error)

	// SetDeadline replaces the task deadline.
	SetDeadline(ctx context.Context, userID int64, taskID, deadline string) (*Task, error)

	// DeleteTask removes a task and returns it. Its id is never reused.
	DeleteTask(ctx context.Context, userID int64, taskID string) (*Task, error)

	// RecordFiring adds f to the task's firings. It reports false when the same kind and
	// window were already recorded or the task does not exist.
	RecordFiring(ctx context.Context, userID int64, taskID string, f Firing) (bool, error)

	// Close releases the resources held by the store.
	Close() error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	clock  clockwork.Clock
	logger *slog.Logger
}

type taskRow struct {
	UserID    int64        `db:"user_id"`
	Seq       int64        `db:"seq"`
	Name      string       `db:"name"`
	Deadline  string       `db:"deadline"`
	Completed bool         `db:"completed"`
	CreatedAt sql.NullTime `db:"created_at"`
}

type firingRow struct {
	Seq     int64        `db:"seq"`
	Kind    string       `db:"kind"`
	Window  string       `db:"window_key"`
	FiredAt sql.NullTime `db:"fired_at"`
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance with migrations applied.
func NewStore(db *sqlx.DB, clock clockwork.Clock, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		clock:  clock,
		logger: logger.With("component", "store", "driver", "sqlite"),
	}
}

// parseID converts a task id to its sequence number. Ids that are not sequence
// numbers can never exist.
func parseID(taskID string) (int64, bool) {
	seq, err := strconv.ParseInt(taskID, 10, 64)
	return seq, err == nil && seq > 0
}

func (r taskRow) toTask(firings []Firing) *Task {
	return &Task{
		ID:        strconv.FormatInt(r.Seq, 10),
		UserID:    r.UserID,
		Name:      r.Name,
		Deadline:  r.Deadline,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt.Time,
		Firings:   firings,
	}
}

func (r firingRow) toFiring() Firing {
	return Firing{Kind: r.Kind, Window: r.Window, FiredAt: r.FiredAt.Time}
}

// withTx runs fn inside a transaction and commits when fn succeeds.
func (s *sqlxStore) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction", "op", op, "error", err)
		return fmt.Errorf("failed to begin transaction for %s: %w", op, err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			s.logger.WarnContext(ctx, "Error rolling back transaction", "op", op, "error", rollbackErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "op", op, "error", err)
		return fmt.Errorf("failed to commit %s: %w", op, err)
	}
	return nil
}

// loadTask reads one task with its firings. Returns nil, nil if not found.
func loadTask(ctx context.Context, q sqlx.QueryerContext, userID, seq int64) (*Task, error) {
	var row taskRow
	err := sqlx.GetContext(ctx, q, &row, `
        SELECT user_id, seq, name, deadline, completed, created_at
        FROM tasks WHERE user_id = ? AND seq = ?;
    `, userID, seq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d of user %d: %w", seq, userID, err)
	}

	var firings []firingRow
	err = sqlx.SelectContext(ctx, q, &firings, `
        SELECT seq, kind, window_key, fired_at
        FROM reminder_firings WHERE user_id = ? AND seq = ?
        ORDER BY fired_at, kind;
    `, userID, seq)
	if err != nil {
		return nil, fmt.Errorf("failed to get firings of task %d of user %d: %w", seq, userID, err)
	}

	var out []Firing
	for _, f := range firings {
		out = append(out, f.toFiring())
	}
	return row.toTask(out), nil
}

func (s *sqlxStore) CreateTask(ctx context.Context, userID int64, name, value string) (*Task, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := checkDeadline(value); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var created *Task
	err = s.withTx(ctx, "create task", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO task_counters (user_id, last_seq) VALUES (?, 1)
            ON CONFLICT (user_id) DO UPDATE SET last_seq = last_seq + 1;
        `, userID); err != nil {
			return fmt.Errorf("failed to advance task counter of user %d: %w", userID, err)
		}

		var seq int64
		if err := tx.GetContext(ctx, &seq, `SELECT last_seq FROM task_counters WHERE user_id = ?;`, userID); err != nil {
			return fmt.Errorf("failed to read task counter of user %d: %w", userID, err)
		}

		row := taskRow{UserID: userID, Seq: seq, Name: name, Deadline: value, CreatedAt: sql.NullTime{Time: now, Valid: true}}
		if _, err := tx.NamedExecContext(ctx, `
            INSERT INTO tasks (user_id, seq, name, deadline, completed, created_at, updated_at)
            VALUES (:user_id, :seq, :name, :deadline, :completed, :created_at, :created_at);
        `, row); err != nil {
			return fmt.Errorf("failed to insert task for user %d: %w", userID, err)
		}
		created = row.toTask(nil)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating task", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.DebugContext(ctx, "Task created", "user_id", userID, "task_id", created.ID)
	return created, nil
}

func (s *sqlxStore) GetTask(ctx context.Context, userID int64, taskID string) (*Task, error) {
	seq, ok := parseID(taskID)
	if !ok {
		return nil, nil
	}
	return loadTask(ctx, s.db, userID, seq)
}

func (s *sqlxStore) ListTasks(ctx context.Context, userID int64) ([]*Task, error) {
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, `
        SELECT user_id, seq, name, deadline, completed, created_at
        FROM tasks WHERE user_id = ? ORDER BY seq;
    `, userID); err != nil {
		return nil, fmt.Errorf("failed to list tasks of user %d: %w", userID, err)
	}

	var firings []firingRow
	if err := s.db.SelectContext(ctx, &firings, `
        SELECT seq, kind, window_key, fired_at
        FROM reminder_firings WHERE user_id = ?
        ORDER BY fired_at, kind;
    `, userID); err != nil {
		return nil, fmt.Errorf("failed to list firings of user %d: %w", userID, err)
	}

	bySeq := make(map[int64][]Firing)
	for _, f := range firings {
		bySeq[f.Seq] = append(bySeq[f.Seq], f.toFiring())
	}

	out := make([]*Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toTask(bySeq[r.Seq]))
	}
	return out, nil
}

func (s *sqlxStore) ListUsers(ctx context.Context) ([]int64, error) {
	users := []int64{}
	if err := s.db.SelectContext(ctx, &users, `SELECT DISTINCT user_id FROM tasks ORDER BY user_id;`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// update runs a single-row UPDATE and returns the task afterwards, or nil when
// the task does not exist.
func (s *sqlxStore) update(ctx context.Context, op string, userID int64, taskID, query string, args ...any) (*Task, error) {
	seq, ok := parseID(taskID)
	if !ok {
		return nil, nil
	}

	var updated *Task
	err := s.withTx(ctx, op, func(tx *sqlx.Tx) error {
		args = append(args, s.clock.Now(), userID, seq)
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to %s %d of user %d: %w", op, seq, userID, err)
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return err
		}
		updated, err = loadTask(ctx, tx, userID, seq)
		return err
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating task", "op", op, "user_id", userID, "task_id", taskID, "error", err)
		return nil, err
	}
	return updated, nil
}

func (s *sqlxStore) ToggleCompleted(ctx context.Context, userID int64, taskID string) (*Task, error) {
	return s.update(ctx, "toggle task", userID, taskID, `
        UPDATE tasks SET completed = NOT completed, updated_at = ?
        WHERE user_id = ? AND seq = ?;
    `)
}

func (s *sqlxStore) RenameTask(ctx context.Context, userID int64, taskID, name string) (*Task, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, "rename task", userID, taskID, `
        UPDATE tasks SET name = ?, updated_at = ?
        WHERE user_id = ? AND seq = ?;
    `, name)
}

func (s *sqlxStore) SetDeadline(ctx context.Context, userID int64, taskID, value string) (*Task, error) {
	if err := checkDeadline(value); err != nil {
		return nil, err
	}
	return s.update(ctx, "set deadline of task", userID, taskID, `
        UPDATE tasks SET deadline = ?, updated_at = ?
        WHERE user_id = ? AND seq = ?;
    `, value)
}

func (s *sqlxStore) DeleteTask(ctx context.Context, userID int64, taskID string) (*Task, error) {
	seq, ok := parseID(taskID)
	if !ok {
		return nil, nil
	}

	var deleted *Task
	err := s.withTx(ctx, "delete task", func(tx *sqlx.Tx) error {
		t, err := loadTask(ctx, tx, userID, seq)
		if err != nil || t == nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM reminder_firings WHERE user_id = ? AND seq = ?;`, userID, seq); err != nil {
			return fmt.Errorf("failed to delete firings of task %d of user %d: %w", seq, userID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ? AND seq = ?;`, userID, seq); err != nil {
			return fmt.Errorf("failed to delete task %d of user %d: %w", seq, userID, err)
		}
		deleted = t
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting task", "user_id", userID, "task_id", taskID, "error", err)
		return nil, err
	}
	if deleted != nil {
		s.logger.DebugContext(ctx, "Task deleted", "user_id", userID, "task_id", taskID)
	}
	return deleted, nil
}

func (s *sqlxStore) RecordFiring(ctx context.Context, userID int64, taskID string, f Firing) (bool, error) {
	seq, ok := parseID(taskID)
	if !ok {
		return false, nil
	}

	res, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO reminder_firings (user_id, seq, kind, window_key, fired_at)
        SELECT ?, ?, ?, ?, ?
        WHERE EXISTS (SELECT 1 FROM tasks WHERE user_id = ? AND seq = ?);
    `, userID, seq, f.Kind, f.Window, f.FiredAt, userID, seq)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording reminder firing", "user_id", userID, "task_id", taskID, "kind", f.Kind, "error", err)
		return false, fmt.Errorf("failed to record firing %s/%s of task %d of user %d: %w", f.Kind, f.Window, seq, userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

func (s *sqlxStore) Close() error {
	return s.db.Close()
}
