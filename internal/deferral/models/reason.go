package models

import (
	"time"

	id "bloodconnect/pkg/domain"
)

// DeferralReason is a catalogue entry explaining why a donor was deferred.
// Code is unique.
type DeferralReason struct {
	ID                  id.DeferralReasonID
	Code                string
	Label               string
	Category            string
	DefaultDurationDays int
}

// DefaultUntil is the end of the deferral when the screener gives no date.
// Reasons without a default duration (permanent or case-by-case) return nil.
func (r *DeferralReason) DefaultUntil(from time.Time) *time.Time {
	if r.DefaultDurationDays <= 0 {
		return nil
	}
	t := from.AddDate(0, 0, r.DefaultDurationDays)
	return &t
}
