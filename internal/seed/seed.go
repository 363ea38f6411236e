// Package seed loads the reference data a fresh installation needs: the
// donation branches, the deferral reason catalog and two legacy donors whose
// coupon codes predate numeric allocation.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	branchModels "bloodconnect/internal/branch/models"
	deferralModels "bloodconnect/internal/deferral/models"
	donorModels "bloodconnect/internal/donor/models"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/tx"
)

type BranchStore interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, b *branchModels.Branch) error
}

type DeferralStore interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, r *deferralModels.DeferralReason) error
}

type DonorStore interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, d *donorModels.Donor) error
}

type Seeder struct {
	branches  BranchStore
	deferrals DeferralStore
	donors    DonorStore
	runner    tx.Runner
	logger    *slog.Logger
}

func New(branches BranchStore, deferrals DeferralStore, donors DonorStore, runner tx.Runner, logger *slog.Logger) *Seeder {
	return &Seeder{branches: branches, deferrals: deferrals, donors: donors, runner: runner, logger: logger}
}

// Run fills each table only when it is empty, so it is safe on every start.
func (s *Seeder) Run(ctx context.Context) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.branches.Count(ctx)
		if err != nil {
			return fmt.Errorf("count branches: %w", err)
		}
		if n == 0 {
			for _, b := range Branches() {
				if err := s.branches.Insert(ctx, b); err != nil {
					return fmt.Errorf("seed branch %s: %w", b.Name, err)
				}
			}
			s.logger.InfoContext(ctx, "seeded branches", "count", len(Branches()))
		}

		n, err = s.deferrals.Count(ctx)
		if err != nil {
			return fmt.Errorf("count deferral reasons: %w", err)
		}
		if n == 0 {
			for _, r := range DeferralReasons() {
				if err := s.deferrals.Insert(ctx, r); err != nil {
					return fmt.Errorf("seed deferral reason %s: %w", r.Code, err)
				}
			}
			s.logger.InfoContext(ctx, "seeded deferral reasons", "count", len(DeferralReasons()))
		}

		n, err = s.donors.Count(ctx)
		if err != nil {
			return fmt.Errorf("count donors: %w", err)
		}
		if n == 0 {
			for _, d := range Donors() {
				if err := s.donors.Insert(ctx, d); err != nil {
					return fmt.Errorf("seed donor %s: %w", d.CouponCode, err)
				}
			}
			s.logger.InfoContext(ctx, "seeded legacy donors", "count", len(Donors()))
		}
		return nil
	})
}

var seededAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func Branches() []*branchModels.Branch {
	mk := func(n int, name, address string) *branchModels.Branch {
		return &branchModels.Branch{
			ID:        id.BranchID(uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))),
			Name:      name,
			Address:   address,
			IsActive:  true,
			CreatedAt: seededAt,
			UpdatedAt: seededAt,
		}
	}
	return []*branchModels.Branch{
		mk(1, "Downtown Blood Center", "123 Main St, Metro City"),
		mk(2, "Westside Community Clinic", "456 Oak Ave, Westville"),
		mk(3, "Northgate Medical Hub", "789 Pine Rd, Northgate"),
		mk(4, "Southpark Health Station", "321 Elm Blvd, Southpark"),
	}
}

func DeferralReasons() []*deferralModels.DeferralReason {
	mk := func(n int, code, label, category string, days int) *deferralModels.DeferralReason {
		return &deferralModels.DeferralReason{
			ID:                  id.DeferralReasonID(uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0001-%012d", n))),
			Code:                code,
			Label:               label,
			Category:            category,
			DefaultDurationDays: days,
		}
	}
	return []*deferralModels.DeferralReason{
		mk(1, "LOW_HB", "Low Hemoglobin", "Medical", 90),
		mk(2, "HIGH_BP", "High Blood Pressure", "Medical", 30),
		mk(3, "RECENT_TATTOO", "Recent Tattoo/Piercing", "Lifestyle", 365),
		mk(4, "TRAVEL", "Recent Travel to Risk Area", "Travel", 180),
		mk(5, "MEDICATION", "Currently on Medication", "Medical", 30),
		mk(6, "RECENT_SURGERY", "Recent Surgery", "Medical", 180),
		mk(7, "COLD_FLU", "Active Cold/Flu Symptoms", "Medical", 14),
	}
}

// Donors returns the two legacy donors. Their coupon codes are not numeric and
// are skipped when the allocator looks for the highest issued code.
func Donors() []*donorModels.Donor {
	lastDonation := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	return []*donorModels.Donor{
		{
			ID:         id.DonorID(uuid.MustParse("00000000-0000-0000-0002-000000000001")),
			FullName:   "Sarah Johnson",
			Age:        33,
			Gender:     donorModels.GenderFemale,
			Phone:      "+1-555-0101",
			Email:      "sarah.j@example.com",
			NationalID: "NID-1234567",
			Address: donorModels.Address{
				Line1: "100 Maple St", City: "Metro City", Province: "State", Country: "US", PostalCode: "10001",
			},
			CouponCode:       "BLOOD2024",
			CreatedAt:        time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			UpdatedAt:        time.Date(2024, 6, 20, 14, 30, 0, 0, time.UTC),
			LastDonationDate: &lastDonation,
		},
		{
			ID:         id.DonorID(uuid.MustParse("00000000-0000-0000-0002-000000000002")),
			FullName:   "Michael Chen",
			Age:        38,
			Gender:     donorModels.GenderMale,
			Phone:      "+1-555-0202",
			Email:      "mchen@example.com",
			NationalID: "NID-7654321",
			Address: donorModels.Address{
				Line1: "200 Cedar Ave", City: "Westville", Province: "State", Country: "US", PostalCode: "20002",
			},
			CouponCode: "GIVE2024",
			CreatedAt:  time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		},
	}
}
