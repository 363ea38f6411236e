package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bloodconnect/internal/deferral/models"
	"bloodconnect/internal/platform/postgres"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, r *models.DeferralReason) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO deferral_reasons (id, code, label, category, default_duration_days)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(r.ID), r.Code, r.Label, r.Category, r.DefaultDurationDays)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert deferral reason: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, reasonID id.DeferralReasonID) (*models.DeferralReason, error) {
	var (
		r        models.DeferralReason
		reasonPK uuid.UUID
	)
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, code, label, category, default_duration_days FROM deferral_reasons WHERE id = $1`,
		uuid.UUID(reasonID)).Scan(&reasonPK, &r.Code, &r.Label, &r.Category, &r.DefaultDurationDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find deferral reason: %w", err)
	}
	r.ID = id.DeferralReasonID(reasonPK)
	return &r, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.DeferralReason, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT id, code, label, category, default_duration_days
		FROM deferral_reasons ORDER BY category, label`)
	if err != nil {
		return nil, fmt.Errorf("list deferral reasons: %w", err)
	}
	defer rows.Close()

	out := []*models.DeferralReason{}
	for rows.Next() {
		var (
			r        models.DeferralReason
			reasonPK uuid.UUID
		)
		if err := rows.Scan(&reasonPK, &r.Code, &r.Label, &r.Category, &r.DefaultDurationDays); err != nil {
			return nil, fmt.Errorf("scan deferral reason: %w", err)
		}
		r.ID = id.DeferralReasonID(reasonPK)
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM deferral_reasons`).Scan(&n)
	return n, err
}
