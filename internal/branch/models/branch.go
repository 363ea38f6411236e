package models

import (
	"strings"
	"time"

	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
)

const (
	MaxNameLen    = 200
	MaxAddressLen = 500
)

// Branch is a donation site. Inactive branches are hidden from the public list
// but keep their screening history.
type Branch struct {
	ID        id.BranchID
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBranch(branchID id.BranchID, name, address string, active bool, now time.Time) (*Branch, error) {
	b := &Branch{ID: branchID, CreatedAt: now}
	if err := b.Apply(name, address, active, now); err != nil {
		return nil, err
	}
	return b, nil
}

// Apply validates and sets the editable fields.
func (b *Branch) Apply(name, address string, active bool, now time.Time) error {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch name is required")
	}
	if len(name) > MaxNameLen {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch name must be 200 characters or less")
	}
	if address == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch address is required")
	}
	if len(address) > MaxAddressLen {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch address must be 500 characters or less")
	}
	b.Name = name
	b.Address = address
	b.IsActive = active
	b.UpdatedAt = now
	return nil
}
