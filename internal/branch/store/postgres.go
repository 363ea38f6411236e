package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bloodconnect/internal/branch/models"
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

func (s *PostgresStore) Insert(ctx context.Context, b *models.Branch) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO branches (id, name, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(b.ID), b.Name, b.Address, b.IsActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, b *models.Branch) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE branches SET name = $2, address = $3, is_active = $4, updated_at = $5 WHERE id = $1`,
		uuid.UUID(b.ID), b.Name, b.Address, b.IsActive, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, branchID id.BranchID) (*models.Branch, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, name, address, is_active, created_at, updated_at FROM branches WHERE id = $1`,
		uuid.UUID(branchID))
	b, err := scanBranch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return b, err
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Branch, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT id, name, address, is_active, created_at, updated_at
		FROM branches WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	out := []*models.Branch{}
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM branches`).Scan(&n)
	return n, err
}

func scanBranch(row interface{ Scan(...any) error }) (*models.Branch, error) {
	var (
		b        models.Branch
		branchID uuid.UUID
	)
	if err := row.Scan(&branchID, &b.Name, &b.Address, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan branch: %w", err)
	}
	b.ID = id.BranchID(branchID)
	return &b, nil
}
