package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bloodconnect/internal/screening/models"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/platform/tx"
)

const screeningColumns = `id, donor_id, branch_id, staff_id, bp_systolic, bp_diastolic, pulse,
	temp_c, weight_kg, hb_gdl, notes, eligibility_status, deferral_reason_id, deferral_until, created_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, sc *models.Screening) error {
	var reasonID *uuid.UUID
	if sc.DeferralReasonID != nil {
		v := uuid.UUID(*sc.DeferralReasonID)
		reasonID = &v
	}
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO screenings (`+screeningColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		uuid.UUID(sc.ID), uuid.UUID(sc.DonorID), uuid.UUID(sc.BranchID), sc.StaffID,
		sc.Vitals.BpSystolic, sc.Vitals.BpDiastolic, sc.Vitals.Pulse,
		sc.Vitals.TempC, sc.Vitals.WeightKg, sc.Vitals.HbGdl,
		sc.Notes, string(sc.EligibilityStatus), reasonID, sc.DeferralUntil, sc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert screening: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, screeningID id.ScreeningID) (*models.Screening, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+screeningColumns+` FROM screenings WHERE id = $1`, uuid.UUID(screeningID))
	sc, err := scanScreening(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find screening: %w", err)
	}
	return sc, nil
}

func (s *PostgresStore) List(ctx context.Context, offset, limit int) ([]*models.Screening, int, error) {
	q := tx.Executor(ctx, s.db)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM screenings`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count screenings: %w", err)
	}
	rows, err := q.QueryContext(ctx, `SELECT `+screeningColumns+` FROM screenings
		ORDER BY created_at DESC OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list screenings: %w", err)
	}
	list, err := collect(rows)
	return list, total, err
}

func (s *PostgresStore) ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.Screening, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `SELECT `+screeningColumns+` FROM screenings
		WHERE donor_id = $1 ORDER BY created_at DESC`, uuid.UUID(donorID))
	if err != nil {
		return nil, fmt.Errorf("list donor screenings: %w", err)
	}
	return collect(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func collect(rows *sql.Rows) ([]*models.Screening, error) {
	defer rows.Close()
	out := []*models.Screening{}
	for rows.Next() {
		sc, err := scanScreening(rows)
		if err != nil {
			return nil, fmt.Errorf("scan screening: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func scanScreening(row scanner) (*models.Screening, error) {
	var (
		sc                             models.Screening
		screeningPK, donorPK, branchPK uuid.UUID
		reasonPK                       uuid.NullUUID
		until                          sql.NullTime
		status                         string
	)
	err := row.Scan(&screeningPK, &donorPK, &branchPK, &sc.StaffID,
		&sc.Vitals.BpSystolic, &sc.Vitals.BpDiastolic, &sc.Vitals.Pulse,
		&sc.Vitals.TempC, &sc.Vitals.WeightKg, &sc.Vitals.HbGdl,
		&sc.Notes, &status, &reasonPK, &until, &sc.CreatedAt)
	if err != nil {
		return nil, err
	}
	sc.ID = id.ScreeningID(screeningPK)
	sc.DonorID = id.DonorID(donorPK)
	sc.BranchID = id.BranchID(branchPK)
	sc.EligibilityStatus = models.EligibilityStatus(status)
	if reasonPK.Valid {
		v := id.DeferralReasonID(reasonPK.UUID)
		sc.DeferralReasonID = &v
	}
	if until.Valid {
		v := until.Time
		sc.DeferralUntil = &v
	}
	return &sc, nil
}
