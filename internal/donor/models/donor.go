package models

import (
	"strings"
	"time"

	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type BloodGroup string

var bloodGroups = map[BloodGroup]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {}, "AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

func (b BloodGroup) IsValid() bool {
	_, ok := bloodGroups[b]
	return ok
}

type Address struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// Column limits shared by validation and the donors table.
const (
	MaxFullNameLen     = 200
	MaxPhoneLen        = 50
	MaxEmailLen        = 200
	MaxNationalIDLen   = 100
	MaxDistrictLen     = 100
	MaxSourceOfInfoLen = 500
	MaxAge             = 120
)

// Donor is a registered blood donor.
//
// Invariants:
//   - FullName, Phone and NationalID are non-empty
//   - Age is between 1 and MaxAge
//   - Gender is male, female or other; BloodGroup, when set, is an ABO/Rh group
//   - CouponCode is assigned once at registration and never reassigned
type Donor struct {
	ID                 id.DonorID
	FullName           string
	FatherHusbandName  *string
	Age                int
	Gender             Gender
	BloodGroup         *BloodGroup
	Phone              string
	Email              string
	NationalID         string
	District           *string
	Address            Address
	TimesDonatedBefore *int
	SourceOfInfo       *string
	CouponCode         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	LastDonationDate   *time.Time
}

// Profile carries the mutable donor fields shared by registration and update.
type Profile struct {
	FullName           string
	FatherHusbandName  *string
	Age                int
	Gender             Gender
	BloodGroup         *BloodGroup
	Phone              string
	Email              string
	District           *string
	Address            Address
	TimesDonatedBefore *int
	SourceOfInfo       *string
}

// NewDonor builds a donor without a coupon code; the allocator assigns it when
// the row is committed.
func NewDonor(donorID id.DonorID, nationalID string, p Profile, now time.Time) (*Donor, error) {
	nationalID = strings.TrimSpace(nationalID)
	if nationalID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "national ID is required")
	}
	if len(nationalID) > MaxNationalIDLen {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "national ID is too long")
	}
	d := &Donor{
		ID:         donorID,
		NationalID: nationalID,
		CreatedAt:  now,
	}
	if err := d.Apply(p, now); err != nil {
		return nil, err
	}
	return d, nil
}

// Apply validates p and overwrites the donor's profile fields.
func (d *Donor) Apply(p Profile, now time.Time) error {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.Gender = Gender(strings.ToLower(strings.TrimSpace(string(p.Gender))))

	switch {
	case p.FullName == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "full name is required")
	case len(p.FullName) > MaxFullNameLen:
		return dErrors.New(dErrors.CodeInvariantViolation, "full name is too long")
	case p.Phone == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "phone is required")
	case len(p.Phone) > MaxPhoneLen:
		return dErrors.New(dErrors.CodeInvariantViolation, "phone is too long")
	case len(p.Email) > MaxEmailLen:
		return dErrors.New(dErrors.CodeInvariantViolation, "email is too long")
	case p.Age < 1 || p.Age > MaxAge:
		return dErrors.New(dErrors.CodeInvariantViolation, "age must be between 1 and 120")
	case !p.Gender.IsValid():
		return dErrors.New(dErrors.CodeInvariantViolation, "gender must be male, female or other")
	case p.BloodGroup != nil && !p.BloodGroup.IsValid():
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown blood group")
	case p.District != nil && len(*p.District) > MaxDistrictLen:
		return dErrors.New(dErrors.CodeInvariantViolation, "district is too long")
	case p.SourceOfInfo != nil && len(*p.SourceOfInfo) > MaxSourceOfInfoLen:
		return dErrors.New(dErrors.CodeInvariantViolation, "source of info is too long")
	case p.TimesDonatedBefore != nil && *p.TimesDonatedBefore < 0:
		return dErrors.New(dErrors.CodeInvariantViolation, "times donated before cannot be negative")
	}

	d.FullName = p.FullName
	d.FatherHusbandName = p.FatherHusbandName
	d.Age = p.Age
	d.Gender = p.Gender
	d.BloodGroup = p.BloodGroup
	d.Phone = p.Phone
	d.Email = p.Email
	d.District = p.District
	d.Address = p.Address
	d.TimesDonatedBefore = p.TimesDonatedBefore
	d.SourceOfInfo = p.SourceOfInfo
	d.UpdatedAt = now
	return nil
}

// ListResult is one page of donors plus the total across all pages.
type ListResult struct {
	Donors []*Donor
	Total  int
}
