// Package store implements the document identity index: which citizen holds
// the verified binding for a document, and which citizens ever claimed it.
package store

import (
	"context"
	"sync"

	"residency/internal/identity/models"
	id "residency/pkg/domain"
)

// numIndexShards spreads bindings over independent locks so binds on
// unrelated documents do not contend.
const numIndexShards = 128

type indexShard struct {
	mu         sync.Mutex
	byDocument map[string]id.CitizenID
	byCitizen  map[id.CitizenID]id.DocumentIdentity
	claims     map[string]map[id.CitizenID]struct{}
}

// InMemory is a sharded in-process document index.
//
// Documents and citizens are hashed onto shards independently. Bind locks
// both shards involved in ascending order so the check-and-set on a document
// and the one-binding-per-citizen rule are decided together.
type InMemory struct {
	shards [numIndexShards]indexShard
}

func NewInMemory() *InMemory {
	s := &InMemory{}
	for i := range s.shards {
		s.shards[i].byDocument = make(map[string]id.CitizenID)
		s.shards[i].byCitizen = make(map[id.CitizenID]id.DocumentIdentity)
		s.shards[i].claims = make(map[string]map[id.CitizenID]struct{})
	}
	return s
}

func (s *InMemory) FindBoundCitizen(ctx context.Context, doc id.DocumentIdentity) (id.CitizenID, bool, error) {
	if err := ctx.Err(); err != nil {
		return id.CitizenID{}, false, err
	}
	shard := s.documentShard(doc)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	holder, ok := shard.byDocument[doc.Key()]
	return holder, ok, nil
}

func (s *InMemory) Bind(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	di := shardIndex(doc.Key())
	ci := shardIndex(citizenID.String())
	unlock := s.lockPair(di, ci)
	defer unlock()

	docShard := &s.shards[di]
	citizenShard := &s.shards[ci]

	if holder, ok := docShard.byDocument[doc.Key()]; ok {
		if holder == citizenID {
			return nil
		}
		return &models.AlreadyBoundError{Document: doc, Holder: holder}
	}
	if existing, ok := citizenShard.byCitizen[citizenID]; ok && existing.Key() != doc.Key() {
		return models.ErrCitizenHasDocument
	}
	docShard.byDocument[doc.Key()] = citizenID
	citizenShard.byCitizen[citizenID] = doc
	return nil
}

func (s *InMemory) HasPriorClaim(ctx context.Context, doc id.DocumentIdentity) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	shard := s.documentShard(doc)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return len(shard.claims[doc.Key()]) > 0, nil
}

func (s *InMemory) RecordClaim(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	shard := s.documentShard(doc)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	claimants, ok := shard.claims[doc.Key()]
	if !ok {
		claimants = make(map[id.CitizenID]struct{})
		shard.claims[doc.Key()] = claimants
	}
	claimants[citizenID] = struct{}{}
	return nil
}

func (s *InMemory) documentShard(doc id.DocumentIdentity) *indexShard {
	return &s.shards[shardIndex(doc.Key())]
}

// lockPair locks shards a and b in index order and returns the unlock func.
func (s *InMemory) lockPair(a, b int) func() {
	if a == b {
		s.shards[a].mu.Lock()
		return s.shards[a].mu.Unlock
	}
	if a > b {
		a, b = b, a
	}
	s.shards[a].mu.Lock()
	s.shards[b].mu.Lock()
	return func() {
		s.shards[b].mu.Unlock()
		s.shards[a].mu.Unlock()
	}
}

func shardIndex(key string) int {
	return int(hashKey(key) % numIndexShards)
}

// hashKey is FNV-1a.
func hashKey(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
