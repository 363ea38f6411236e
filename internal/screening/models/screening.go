package models

import (
	"strings"
	"time"

	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
)

type EligibilityStatus string

const (
	EligibilityEligible EligibilityStatus = "eligible"
	EligibilityDeferred EligibilityStatus = "deferred"
)

func (s EligibilityStatus) IsValid() bool {
	return s == EligibilityEligible || s == EligibilityDeferred
}

const MaxNotesLength = 1000

// DateLayout is the wire format of DeferralUntil.
const DateLayout = "2006-01-02"

type Vitals struct {
	BpSystolic  int     `json:"bpSystolic"`
	BpDiastolic int     `json:"bpDiastolic"`
	Pulse       int     `json:"pulse"`
	TempC       float64 `json:"tempC"`
	WeightKg    float64 `json:"weightKg"`
	HbGdl       float64 `json:"hbGdl"`
}

// Screening is one pre-donation check of a donor at a branch.
//
// Invariants:
//   - EligibilityStatus is eligible or deferred, stored lower case
//   - DeferralReasonID and DeferralUntil are only kept for deferred screenings
//   - Notes are trimmed and at most MaxNotesLength characters
type Screening struct {
	ID                id.ScreeningID
	DonorID           id.DonorID
	BranchID          id.BranchID
	StaffID           string
	Vitals            Vitals
	Notes             string
	EligibilityStatus EligibilityStatus
	DeferralReasonID  *id.DeferralReasonID
	DeferralUntil     *time.Time
	CreatedAt         time.Time
}

func NewScreening(
	screeningID id.ScreeningID,
	donorID id.DonorID,
	branchID id.BranchID,
	staffID string,
	vitals Vitals,
	notes string,
	status string,
	reasonID *id.DeferralReasonID,
	until *time.Time,
	now time.Time,
) (*Screening, error) {
	st := EligibilityStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "eligibilityStatus must be eligible or deferred")
	}
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "notes must be 1000 characters or less")
	}
	if vitals.BpSystolic < 0 || vitals.BpDiastolic < 0 || vitals.Pulse < 0 ||
		vitals.TempC < 0 || vitals.WeightKg < 0 || vitals.HbGdl < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "vitals cannot be negative")
	}
	s := &Screening{
		ID:                screeningID,
		DonorID:           donorID,
		BranchID:          branchID,
		StaffID:           strings.TrimSpace(staffID),
		Vitals:            vitals,
		Notes:             notes,
		EligibilityStatus: st,
		CreatedAt:         now,
	}
	if st == EligibilityDeferred {
		s.DeferralReasonID = reasonID
		s.DeferralUntil = until
	}
	return s, nil
}

func (s *Screening) IsEligible() bool {
	return s.EligibilityStatus == EligibilityEligible
}

type ListResult struct {
	Screenings []*Screening
	Total      int
}

// Response is the JSON view shared by the screening and donor endpoints.
type Response struct {
	ScreeningID       string    `json:"screeningId"`
	DonorID           string    `json:"donorId"`
	BranchID          string    `json:"branchId"`
	StaffID           string    `json:"staffId"`
	Vitals            Vitals    `json:"vitals"`
	Notes             string    `json:"notes"`
	EligibilityStatus string    `json:"eligibilityStatus"`
	DeferralReasonID  *string   `json:"deferralReasonId"`
	DeferralUntil     *string   `json:"deferralUntil"`
	CreatedAt         time.Time `json:"createdAt"`
}

func NewResponse(s *Screening) Response {
	r := Response{
		ScreeningID:       s.ID.String(),
		DonorID:           s.DonorID.String(),
		BranchID:          s.BranchID.String(),
		StaffID:           s.StaffID,
		Vitals:            s.Vitals,
		Notes:             s.Notes,
		EligibilityStatus: string(s.EligibilityStatus),
		CreatedAt:         s.CreatedAt,
	}
	if s.DeferralReasonID != nil {
		v := s.DeferralReasonID.String()
		r.DeferralReasonID = &v
	}
	if s.DeferralUntil != nil {
		v := s.DeferralUntil.Format(DateLayout)
		r.DeferralUntil = &v
	}
	return r
}

func NewResponses(list []*Screening) []Response {
	out := make([]Response, 0, len(list))
	for _, s := range list {
		out = append(out, NewResponse(s))
	}
	return out
}
