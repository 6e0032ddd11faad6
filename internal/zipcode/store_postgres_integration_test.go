//go:build integration

package zipcode_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"residency/internal/zipcode"
	"residency/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *zipcode.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = zipcode.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "zipcodes"))
}

func (s *PostgresStoreSuite) TestUpsertNormalisesAndSkipsExisting() {
	ctx := context.Background()

	n, err := s.store.Upsert(ctx, []string{"9713bh", " 9711AA", "9713BH"})
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.store.Upsert(ctx, []string{"9713BH", "9712CD"})
	s.Require().NoError(err)
	s.Equal(1, n)

	codes, err := s.store.Codes(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"9711AA", "9712CD", "9713BH"}, codes)
}

func (s *PostgresStoreSuite) TestLoadFromDatabase() {
	ctx := context.Background()
	_, err := s.store.Upsert(ctx, []string{"9713BH"})
	s.Require().NoError(err)

	set, err := zipcode.Load(ctx, s.store, zipcode.StaticSource{"9711AA"})
	s.Require().NoError(err)
	s.True(set.IsEligible("9713bh"))
	s.True(set.IsEligible("9711AA"))
	s.False(set.IsEligible("9713BA"))
}
