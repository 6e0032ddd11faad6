//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	citizenmodels "residency/internal/citizen/models"
	citizenstore "residency/internal/citizen/store"
	"residency/internal/identity/models"
	"residency/internal/identity/store"
	id "residency/pkg/domain"
	"residency/pkg/platform/sentinel"
	txcontext "residency/pkg/platform/tx"
	"residency/pkg/testutil/containers"
)

// index is the behaviour shared by every document index backend.
type index interface {
	FindBoundCitizen(ctx context.Context, doc id.DocumentIdentity) (id.CitizenID, bool, error)
	Bind(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error
	HasPriorClaim(ctx context.Context, doc id.DocumentIdentity) (bool, error)
	RecordClaim(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error
}

type indexSuite struct {
	suite.Suite
	index index
	// newCitizen registers a citizen where the backend needs one to exist.
	newCitizen func() id.CitizenID
}

func (s *indexSuite) doc(number string) id.DocumentIdentity {
	doc, err := id.NewDocumentIdentity(id.DocumentTypeNationalID, number)
	s.Require().NoError(err)
	return doc
}

func (s *indexSuite) TestBindLifecycle() {
	ctx := context.Background()
	holder := s.newCitizen()
	other := s.newCitizen()
	doc := s.doc("12345678Z")

	s.Require().NoError(s.index.Bind(ctx, holder, doc))
	s.Require().NoError(s.index.Bind(ctx, holder, doc), "self rebind is a no-op")

	err := s.index.Bind(ctx, other, doc)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
	bound, ok := models.IsAlreadyBound(err)
	s.Require().True(ok)
	s.Equal(holder, bound.Holder)

	err = s.index.Bind(ctx, holder, s.doc("87654321X"))
	s.ErrorIs(err, models.ErrCitizenHasDocument)

	found, ok, err := s.index.FindBoundCitizen(ctx, doc)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(holder, found)
}

func (s *indexSuite) TestClaims() {
	ctx := context.Background()
	doc := s.doc("11223344K")

	prior, err := s.index.HasPriorClaim(ctx, doc)
	s.Require().NoError(err)
	s.False(prior)

	citizen := s.newCitizen()
	s.Require().NoError(s.index.RecordClaim(ctx, citizen, doc))
	s.Require().NoError(s.index.RecordClaim(ctx, citizen, doc))

	prior, err = s.index.HasPriorClaim(ctx, doc)
	s.Require().NoError(err)
	s.True(prior)
}

func (s *indexSuite) TestConcurrentBind() {
	ctx := context.Background()
	doc := s.doc("55555555R")
	const goroutines = 20

	citizens := make([]id.CitizenID, goroutines)
	for i := range citizens {
		citizens[i] = s.newCitizen()
	}

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	start := make(chan struct{})
	for _, c := range citizens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := s.index.Bind(ctx, c, doc)
			if err == nil {
				successes.Add(1)
				return
			}
			if _, ok := models.IsAlreadyBound(err); ok {
				conflicts.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

type PostgresIndexSuite struct {
	indexSuite
	postgres *containers.PostgresContainer
}

func TestPostgresIndexSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresIndexSuite))
}

func (s *PostgresIndexSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.index = store.NewPostgres(s.postgres.DB)
	citizens := citizenstore.NewPostgres(s.postgres.DB)
	s.newCitizen = func() id.CitizenID {
		c, err := citizenmodels.NewCitizen(id.NewCitizenID(), time.Now())
		s.Require().NoError(err)
		s.Require().NoError(citizens.Create(context.Background(), c))
		return c.ID
	}
}

func (s *PostgresIndexSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "document_bindings", "document_claims", "citizens")
	s.Require().NoError(err)
}

func (s *PostgresIndexSuite) TestBindRollsBackWithTransaction() {
	ctx := context.Background()
	citizen := s.newCitizen()
	doc := s.doc("12345678Z")
	failed := errors.New("audit write failed")

	err := txcontext.NewSQLRunner(s.postgres.DB).RunInTx(ctx, func(ctx context.Context) error {
		s.Require().NoError(s.index.Bind(ctx, citizen, doc))
		holder, ok, err := s.index.FindBoundCitizen(ctx, doc)
		s.Require().NoError(err)
		s.Require().True(ok, "binding is visible inside the transaction")
		s.Equal(citizen, holder)
		return failed
	})
	s.Require().ErrorIs(err, failed)

	_, ok, err := s.index.FindBoundCitizen(ctx, doc)
	s.Require().NoError(err)
	s.False(ok, "binding must not outlive a rolled-back commit")
	s.NoError(s.index.Bind(ctx, s.newCitizen(), doc), "document is free for the next citizen")
}

type RedisIndexSuite struct {
	indexSuite
	redis *containers.RedisContainer
}

func TestRedisIndexSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisIndexSuite))
}

func (s *RedisIndexSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.index = store.NewRedis(s.redis.Client)
	s.newCitizen = id.NewCitizenID
}

func (s *RedisIndexSuite) SetupTest() {
	s.Require().NoError(s.redis.Reset(context.Background()))
}
