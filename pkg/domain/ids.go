package domain

import (
	"github.com/google/uuid"

	dErrors "bloodconnect/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so a DonorID can never be passed where a
// BranchID is expected.
type (
	UserID           uuid.UUID
	DonorID          uuid.UUID
	BranchID         uuid.UUID
	ScreeningID      uuid.UUID
	DeferralReasonID uuid.UUID
)

const maxIDLength = 64

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

func ParseDonorID(s string) (DonorID, error) {
	u, err := parseUUID(s, "donor_id")
	return DonorID(u), err
}

func ParseBranchID(s string) (BranchID, error) {
	u, err := parseUUID(s, "branch_id")
	return BranchID(u), err
}

func ParseScreeningID(s string) (ScreeningID, error) {
	u, err := parseUUID(s, "screening_id")
	return ScreeningID(u), err
}

func ParseDeferralReasonID(s string) (DeferralReasonID, error) {
	u, err := parseUUID(s, "deferral_reason_id")
	return DeferralReasonID(u), err
}

func (id UserID) String() string           { return uuid.UUID(id).String() }
func (id DonorID) String() string          { return uuid.UUID(id).String() }
func (id BranchID) String() string         { return uuid.UUID(id).String() }
func (id ScreeningID) String() string      { return uuid.UUID(id).String() }
func (id DeferralReasonID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id DonorID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id BranchID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ScreeningID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id DeferralReasonID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs serialize as plain UUID strings in JSON.
func (id UserID) MarshalText() ([]byte, error)           { return uuid.UUID(id).MarshalText() }
func (id DonorID) MarshalText() ([]byte, error)          { return uuid.UUID(id).MarshalText() }
func (id BranchID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id ScreeningID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id DeferralReasonID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
