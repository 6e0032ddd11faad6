package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "residency/pkg/domain"
	dErrors "residency/pkg/domain-errors"
)

func TestLevelTransitions(t *testing.T) {
	tests := []struct {
		from Level
		to   Level
		want bool
	}{
		{LevelUnverified, LevelVerified, true},
		{LevelUnverified, LevelManualReviewPending, true},
		{LevelUnverified, LevelUnverified, false},
		{LevelManualReviewPending, LevelVerified, true},
		{LevelManualReviewPending, LevelUnverified, false},
		{LevelVerified, LevelUnverified, false},
		{LevelVerified, LevelManualReviewPending, false},
		{LevelVerified, LevelVerified, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestLevelPredecessors(t *testing.T) {
	assert.ElementsMatch(t, []Level{LevelUnverified, LevelManualReviewPending}, LevelVerified.Predecessors())
	assert.Equal(t, []Level{LevelUnverified}, LevelManualReviewPending.Predecessors())
	assert.Empty(t, LevelUnverified.Predecessors())
}

func TestLevelIsValid(t *testing.T) {
	assert.True(t, LevelVerified.IsValid())
	assert.False(t, Level("residency_pending").IsValid())
	assert.False(t, Level("").IsValid())
}

func TestNewCitizen(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("starts unverified", func(t *testing.T) {
		c, err := NewCitizen(id.NewCitizenID(), now)
		require.NoError(t, err)
		assert.Equal(t, LevelUnverified, c.Level)
		assert.Nil(t, c.Document)
		assert.Equal(t, now, c.CreatedAt)
	})

	t.Run("rejects nil ID", func(t *testing.T) {
		_, err := NewCitizen(id.CitizenID{}, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestCitizenVerify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc, err := id.NewDocumentIdentity(id.DocumentTypeNationalID, "12345678z")
	require.NoError(t, err)
	residence := Residence{
		Document:    doc,
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		PostalCode:  "9713BH",
	}

	t.Run("unverified citizen becomes verified", func(t *testing.T) {
		c, _ := NewCitizen(id.NewCitizenID(), now)
		require.NoError(t, c.Verify(residence, now))

		assert.True(t, c.IsVerified())
		assert.True(t, c.HoldsDocument(doc))
		require.NotNil(t, c.VerifiedAt)
		assert.Equal(t, now, *c.VerifiedAt)
		assert.Equal(t, "9713BH", c.PostalCode)
	})

	t.Run("verified citizen cannot verify again", func(t *testing.T) {
		c, _ := NewCitizen(id.NewCitizenID(), now)
		require.NoError(t, c.Verify(residence, now))

		err := c.Verify(residence, now.Add(time.Hour))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		assert.Equal(t, now, *c.VerifiedAt)
	})

	t.Run("other document is not held", func(t *testing.T) {
		c, _ := NewCitizen(id.NewCitizenID(), now)
		require.NoError(t, c.Verify(residence, now))

		other, err := id.NewDocumentIdentity(id.DocumentTypePassport, "12345678Z")
		require.NoError(t, err)
		assert.False(t, c.HoldsDocument(other))
	})
}

func TestCitizenManualReview(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	c, _ := NewCitizen(id.NewCitizenID(), now)
	require.NoError(t, c.RequestManualReview(now))
	assert.True(t, c.IsPendingReview())
	require.NotNil(t, c.ManualReviewRequestedAt)

	err := c.RequestManualReview(now)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}
