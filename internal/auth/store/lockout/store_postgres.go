package lockout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bloodconnect/internal/auth/lockout"
)

// PostgresStore persists lockout records in auth_lockouts. Counter updates are
// single statements so concurrent failures cannot skip the thresholds.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, identifier string) (*lockout.Record, error) {
	record, err := scanRecord(s.db.QueryRowContext(ctx, `
		SELECT identifier, failure_count, daily_failures, locked_until, last_failure_at
		FROM auth_lockouts
		WHERE identifier = $1`, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get auth lockout: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) RecordFailure(ctx context.Context, identifier string, now, windowCutoff, dayCutoff time.Time) (*lockout.Record, error) {
	record, err := scanRecord(s.db.QueryRowContext(ctx, `
		INSERT INTO auth_lockouts (identifier, failure_count, daily_failures, locked_until, last_failure_at)
		VALUES ($1, 1, 1, NULL, $2)
		ON CONFLICT (identifier) DO UPDATE SET
			failure_count = CASE WHEN auth_lockouts.last_failure_at < $3 THEN 1
				ELSE auth_lockouts.failure_count + 1 END,
			daily_failures = CASE WHEN auth_lockouts.last_failure_at < $4 THEN 1
				ELSE auth_lockouts.daily_failures + 1 END,
			last_failure_at = $2
		RETURNING identifier, failure_count, daily_failures, locked_until, last_failure_at`,
		identifier, now, windowCutoff, dayCutoff))
	if err != nil {
		return nil, fmt.Errorf("record auth failure: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) SetLockedUntil(ctx context.Context, identifier string, until time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE auth_lockouts SET locked_until = $2 WHERE identifier = $1`, identifier, until)
	if err != nil {
		return fmt.Errorf("apply hard lock: %w", err)
	}
	return nil
}

func (s *PostgresStore) ClearWindow(ctx context.Context, identifier string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE auth_lockouts SET failure_count = 0 WHERE identifier = $1`, identifier)
	if err != nil {
		return fmt.Errorf("clear auth lockout: %w", err)
	}
	return nil
}

type row interface {
	Scan(dest ...any) error
}

func scanRecord(r row) (*lockout.Record, error) {
	var (
		record      lockout.Record
		lockedUntil sql.NullTime
	)
	if err := r.Scan(&record.Identifier, &record.FailureCount, &record.DailyFailures, &lockedUntil, &record.LastFailureAt); err != nil {
		return nil, err
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		record.LockedUntil = &t
	}
	return &record, nil
}
