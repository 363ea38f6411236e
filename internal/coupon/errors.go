package coupon

import (
	"errors"
	"fmt"

	"bloodconnect/pkg/platform/sentinel"
)

// ErrCodeTaken is returned by a commit when storage rejects the candidate code
// as a duplicate. It marks a lost race and triggers a retry.
var ErrCodeTaken = errors.New("coupon code already issued")

// ConflictError reports that every allocation attempt lost its race.
// Nothing was persisted.
type ConflictError struct {
	Attempts int
	LastCode Code
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("coupon allocation conflict after %d attempts (last candidate %s)", e.Attempts, e.LastCode)
}

func (e *ConflictError) Unwrap() error {
	return sentinel.ErrConflict
}
