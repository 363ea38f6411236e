package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bloodconnect/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"

func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseUserID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	donorID := DonorID(uuid.New())
	branchID := BranchID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ DonorID = branchID   // compile error
	// var _ BranchID = donorID   // compile error

	assert.NotEqual(t, uuid.UUID(donorID), uuid.UUID(branchID))
}

// TestCrossTypeAssignment_CompileTimeInvariant documents the compile-time invariant.
// If someone removes type safety, this test's comments become incorrect.
func TestCrossTypeAssignment_CompileTimeInvariant(t *testing.T) {
	// The following would fail to compile:
	// var d DonorID = ScreeningID(uuid.New())  // type mismatch
	// var s ScreeningID = DonorID(uuid.New())  // type mismatch
	// acceptsDonorID(BranchID(uuid.New()))     // argument type mismatch

	// This test documents the invariant. If types become aliases,
	// these assignments would compile and the invariant is broken.
	t.Log("Typed IDs prevent cross-type assignment at compile time")
}

// TestParseID_SecurityInvariants validates parsing rules at API entry points.
func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Attack vectors
		{"SQL injection attempt", "'; DROP TABLE users;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "550e8400\u200B-e29b-41d4-a716-446655440000", true},

		// Edge cases
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		// Note: uuid.Parse trims whitespace, so " uuid " is accepted as valid

		// Valid
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIDText(t *testing.T) {
	raw := uuid.New()
	donorID := DonorID(raw)

	text, err := donorID.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, raw.String(), string(text))
	assert.Equal(t, raw.String(), donorID.String())
	assert.True(t, DonorID{}.IsNil())
	assert.False(t, donorID.IsNil())
}

// TestAllIDTypes_ConsistentBehavior ensures all ID types have identical parsing behavior.
//
// All typed IDs share one parser.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()
	invalidInputs := []string{"", "invalid", uuid.Nil.String()}

	// All types should accept valid UUID
	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errUser := ParseUserID(validUUID)
		_, errDonor := ParseDonorID(validUUID)
		_, errBranch := ParseBranchID(validUUID)
		_, errScreening := ParseScreeningID(validUUID)
		_, errReason := ParseDeferralReasonID(validUUID)

		require.NoError(t, errUser)
		require.NoError(t, errDonor)
		require.NoError(t, errBranch)
		require.NoError(t, errScreening)
		require.NoError(t, errReason)
	})

	// All types should reject invalid inputs identically
	for _, input := range invalidInputs {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errUser := ParseUserID(input)
			_, errDonor := ParseDonorID(input)
			_, errBranch := ParseBranchID(input)
			_, errScreening := ParseScreeningID(input)
			_, errReason := ParseDeferralReasonID(input)

			require.Error(t, errUser)
			require.Error(t, errDonor)
			require.Error(t, errBranch)
			require.Error(t, errScreening)
			require.Error(t, errReason)
		})
	}
}
