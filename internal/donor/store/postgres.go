package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bloodconnect/internal/coupon"
	"bloodconnect/internal/donor/models"
	"bloodconnect/internal/platform/postgres"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/platform/tx"
)

const (
	couponCodeIndex = "ux_donors_coupon_code"
	nationalIDIndex = "ux_donors_national_id"
)

// PostgresStore persists donors in Postgres. Methods join the transaction bound
// to ctx, if any.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const donorColumns = `id, full_name, father_husband_name, age, gender, blood_group, phone, email,
	national_id, district, address_line1, address_city, address_province, address_country,
	address_postal_code, times_donated_before, source_of_info, coupon_code, last_donation_date,
	created_at, updated_at`

// MaxNumericCode computes the maximum over plain decimal codes in SQL; legacy
// codes such as BLOOD2024 do not match the pattern.
func (s *PostgresStore) MaxNumericCode(ctx context.Context) (int64, error) {
	var highest int64
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT COALESCE(MAX(coupon_code::bigint), 0)
		FROM donors
		WHERE coupon_code ~ '^[0-9]{1,12}$'`).Scan(&highest)
	if err != nil {
		return 0, fmt.Errorf("read max coupon code: %w", err)
	}
	return highest, nil
}

func (s *PostgresStore) Insert(ctx context.Context, d *models.Donor) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO donors (`+donorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		uuid.UUID(d.ID), d.FullName, d.FatherHusbandName, d.Age, string(d.Gender), bloodGroupValue(d.BloodGroup),
		d.Phone, d.Email, d.NationalID, d.District,
		d.Address.Line1, d.Address.City, d.Address.Province, d.Address.Country, d.Address.PostalCode,
		d.TimesDonatedBefore, d.SourceOfInfo, d.CouponCode, d.LastDonationDate,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := postgres.UniqueViolation(err); ok {
			switch constraint {
			case couponCodeIndex:
				return fmt.Errorf("insert donor with coupon %s: %w", d.CouponCode, coupon.ErrCodeTaken)
			case nationalIDIndex:
				return fmt.Errorf("insert donor: national id %w", sentinel.ErrAlreadyUsed)
			}
		}
		return fmt.Errorf("insert donor: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, d *models.Donor) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE donors SET
			full_name = $2, father_husband_name = $3, age = $4, gender = $5, blood_group = $6,
			phone = $7, email = $8, district = $9, address_line1 = $10, address_city = $11,
			address_province = $12, address_country = $13, address_postal_code = $14,
			times_donated_before = $15, source_of_info = $16, updated_at = $17
		WHERE id = $1`,
		uuid.UUID(d.ID), d.FullName, d.FatherHusbandName, d.Age, string(d.Gender), bloodGroupValue(d.BloodGroup),
		d.Phone, d.Email, d.District, d.Address.Line1, d.Address.City, d.Address.Province,
		d.Address.Country, d.Address.PostalCode, d.TimesDonatedBefore, d.SourceOfInfo, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update donor: %w", err)
	}
	return expectOneRow(res)
}

func (s *PostgresStore) SetLastDonationDate(ctx context.Context, donorID id.DonorID, at time.Time) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE donors SET last_donation_date = $2, updated_at = $2 WHERE id = $1`,
		uuid.UUID(donorID), at,
	)
	if err != nil {
		return fmt.Errorf("set last donation date: %w", err)
	}
	return expectOneRow(res)
}

func (s *PostgresStore) FindByID(ctx context.Context, donorID id.DonorID) (*models.Donor, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE id = $1`, uuid.UUID(donorID))
	return scanDonor(row)
}

// FindByCouponCode matches case-insensitively.
func (s *PostgresStore) FindByCouponCode(ctx context.Context, code string) (*models.Donor, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE UPPER(coupon_code) = UPPER($1)`, code)
	return scanDonor(row)
}

func (s *PostgresStore) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	var exists bool
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM donors WHERE national_id = $1)`, nationalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check national id: %w", err)
	}
	return exists, nil
}

// List returns donors newest first along with the total count. Ties fall back
// to the coupon code, highest numeric value first.
func (s *PostgresStore) List(ctx context.Context, offset, limit int) ([]*models.Donor, int, error) {
	q := tx.Executor(ctx, s.db)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM donors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count donors: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+donorColumns+` FROM donors ORDER BY created_at DESC, (coupon_code ~ '^[0-9]+$') DESC, LENGTH(coupon_code) DESC, coupon_code DESC OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list donors: %w", err)
	}
	defer rows.Close()

	donors := []*models.Donor{}
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, 0, err
		}
		donors = append(donors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate donors: %w", err)
	}
	return donors, total, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM donors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count donors: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonor(row rowScanner) (*models.Donor, error) {
	var (
		d          models.Donor
		donorID    uuid.UUID
		gender     string
		bloodGroup sql.NullString
		lastDonor  sql.NullTime
	)
	err := row.Scan(
		&donorID, &d.FullName, &d.FatherHusbandName, &d.Age, &gender, &bloodGroup, &d.Phone, &d.Email,
		&d.NationalID, &d.District, &d.Address.Line1, &d.Address.City, &d.Address.Province,
		&d.Address.Country, &d.Address.PostalCode, &d.TimesDonatedBefore, &d.SourceOfInfo,
		&d.CouponCode, &lastDonor, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan donor: %w", err)
	}
	d.ID = id.DonorID(donorID)
	d.Gender = models.Gender(gender)
	if bloodGroup.Valid {
		bg := models.BloodGroup(bloodGroup.String)
		d.BloodGroup = &bg
	}
	if lastDonor.Valid {
		t := lastDonor.Time
		d.LastDonationDate = &t
	}
	return &d, nil
}

func bloodGroupValue(bg *models.BloodGroup) any {
	if bg == nil {
		return nil
	}
	return string(*bg)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
