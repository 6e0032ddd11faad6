//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"residency/internal/citizen/models"
	"residency/internal/citizen/store"
	id "residency/pkg/domain"
	"residency/pkg/platform/sentinel"
	"residency/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "document_bindings", "document_claims", "citizens")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestRoundTripVerification() {
	ctx := context.Background()
	c, err := models.NewCitizen(id.NewCitizenID(), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(ctx, c))

	doc, err := id.NewDocumentIdentity(id.DocumentTypeNationalID, "12345678Z")
	s.Require().NoError(err)
	residence := models.Residence{
		Document:    doc,
		DateOfBirth: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		PostalCode:  "9713BH",
	}
	s.Require().NoError(c.Verify(residence, s.now.Add(time.Minute)))
	s.Require().NoError(s.store.UpdateVerification(ctx, c))

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.LevelVerified, found.Level)
	s.True(found.HoldsDocument(doc))
	s.Equal("9713BH", found.PostalCode)
	s.Require().NotNil(found.VerifiedAt)
	s.True(found.VerifiedAt.Equal(s.now.Add(time.Minute)))
	s.Nil(found.ManualReviewRequestedAt)
}

func (s *PostgresStoreSuite) TestDuplicateCreate() {
	ctx := context.Background()
	c, err := models.NewCitizen(id.NewCitizenID(), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(ctx, c))
	s.ErrorIs(s.store.Create(ctx, c), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestNotFound() {
	ctx := context.Background()
	_, err := s.store.FindByID(ctx, id.NewCitizenID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	c, err := models.NewCitizen(id.NewCitizenID(), s.now)
	s.Require().NoError(err)
	s.ErrorIs(s.store.UpdateVerification(ctx, c), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateVerificationIsConditional() {
	ctx := context.Background()
	c, err := models.NewCitizen(id.NewCitizenID(), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(ctx, c))

	doc, err := id.NewDocumentIdentity(id.DocumentTypeNationalID, "12345678Z")
	s.Require().NoError(err)
	verified, escalated := *c, *c
	s.Require().NoError(verified.Verify(models.Residence{Document: doc, PostalCode: "9713BH"}, s.now))
	s.Require().NoError(escalated.RequestManualReview(s.now))

	s.Require().NoError(s.store.UpdateVerification(ctx, &verified))
	s.ErrorIs(s.store.UpdateVerification(ctx, &escalated), sentinel.ErrInvalidState)

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.LevelVerified, found.Level)
	s.True(found.HoldsDocument(doc))
	s.Nil(found.ManualReviewRequestedAt)
}
