//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "residency/pkg/domain"
	audit "residency/pkg/platform/audit"
	"residency/pkg/platform/audit/store/postgres"
	txcontext "residency/pkg/platform/tx"
	"residency/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *AuditStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	citizen := id.NewCitizenID()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: base.Add(time.Minute),
		CitizenID: citizen,
		Action:    string(audit.EventVerificationVerified),
		Decision:  "verified",
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp:     base,
		CitizenID:     citizen,
		Action:        string(audit.EventVerificationRejected),
		Decision:      "rejected",
		Reason:        "ineligible_postal_code",
		SubjectIDHash: "deadbeef",
		PriorClaim:    true,
	}))

	events, err := s.store.ListByCitizen(ctx, citizen)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventVerificationRejected), events[0].Action)
	s.Equal(audit.CategoryCompliance, events[0].Category)
	s.True(events[0].PriorClaim)
	s.Equal(citizen, events[1].CitizenID)
}

func (s *AuditStoreSuite) TestAppendRollsBackWithTransaction() {
	ctx := context.Background()
	citizen := id.NewCitizenID()
	runner := txcontext.NewSQLRunner(s.postgres.DB)

	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.Append(ctx, audit.Event{
			Timestamp: time.Now(),
			CitizenID: citizen,
			Action:    string(audit.EventVerificationVerified),
		}))
		return context.Canceled
	})
	s.Require().ErrorIs(err, context.Canceled)

	events, err := s.store.ListByCitizen(ctx, citizen)
	s.Require().NoError(err)
	s.Empty(events)
}
