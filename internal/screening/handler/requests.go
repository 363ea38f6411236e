package handler

import (
	"strings"
	"time"

	"bloodconnect/internal/screening/models"
	"bloodconnect/internal/screening/service"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
)

type CreateScreeningRequest struct {
	DonorID           string        `json:"donorId"`
	BranchID          string        `json:"branchId"`
	StaffID           string        `json:"staffId"`
	Vitals            models.Vitals `json:"vitals"`
	Notes             string        `json:"notes"`
	EligibilityStatus string        `json:"eligibilityStatus"`
	DeferralReasonID  *string       `json:"deferralReasonId,omitempty"`
	DeferralUntil     *string       `json:"deferralUntil,omitempty"`

	cmd service.CreateCommand
}

// Validate parses the identifiers and the optional deferral date. Both
// "2006-01-02" and RFC 3339 dates are accepted.
func (r *CreateScreeningRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	donorID, err := id.ParseDonorID(strings.TrimSpace(r.DonorID))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "donorId must be a valid UUID")
	}
	branchID, err := id.ParseBranchID(strings.TrimSpace(r.BranchID))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "branchId must be a valid UUID")
	}
	status := strings.ToLower(strings.TrimSpace(r.EligibilityStatus))
	if status == "" {
		return dErrors.New(dErrors.CodeValidation, "eligibilityStatus is required")
	}

	cmd := service.CreateCommand{
		DonorID:           donorID,
		BranchID:          branchID,
		StaffID:           strings.TrimSpace(r.StaffID),
		Vitals:            r.Vitals,
		Notes:             r.Notes,
		EligibilityStatus: status,
	}
	if r.DeferralReasonID != nil && strings.TrimSpace(*r.DeferralReasonID) != "" {
		reasonID, err := id.ParseDeferralReasonID(strings.TrimSpace(*r.DeferralReasonID))
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "deferralReasonId must be a valid UUID")
		}
		cmd.DeferralReasonID = &reasonID
	}
	if r.DeferralUntil != nil && strings.TrimSpace(*r.DeferralUntil) != "" {
		until, err := parseDate(strings.TrimSpace(*r.DeferralUntil))
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "deferralUntil must be a date (yyyy-MM-dd)")
		}
		cmd.DeferralUntil = &until
	}
	r.cmd = cmd
	return nil
}

func (r *CreateScreeningRequest) ToCommand() service.CreateCommand {
	return r.cmd
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
