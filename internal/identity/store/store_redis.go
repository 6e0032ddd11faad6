package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"residency/internal/identity/models"
	id "residency/pkg/domain"
)

const (
	// Redis key prefixes for the document index
	bindingKeyPrefix        = "residency:binding:doc:"
	citizenBindingKeyPrefix = "residency:binding:citizen:"
	claimsKeyPrefix         = "residency:claims:"
)

// bindScript sets both binding keys only if the document is free and the
// citizen holds no other document. Returns {status, value}:
//
//	1  bound (or already bound to this citizen)
//	0  document held by the citizen in value
//	-1 citizen already holds another document
var bindScript = redis.NewScript(`
local holder = redis.call('GET', KEYS[1])
if holder then
  if holder == ARGV[1] then
    return {1, holder}
  end
  return {0, holder}
end
local existing = redis.call('GET', KEYS[2])
if existing and existing ~= ARGV[2] then
  return {-1, existing}
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[2])
return {1, ARGV[1]}
`)

// RedisStore is a Redis-backed document index for deployments that share
// verification state across instances. Bind runs as a single script so the
// check-and-set is atomic on the server.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed document index.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) FindBoundCitizen(ctx context.Context, doc id.DocumentIdentity) (id.CitizenID, bool, error) {
	raw, err := s.client.Get(ctx, bindingKeyPrefix+doc.Key()).Result()
	if errors.Is(err, redis.Nil) {
		return id.CitizenID{}, false, nil
	}
	if err != nil {
		return id.CitizenID{}, false, fmt.Errorf("find bound citizen: %w", err)
	}
	holder, err := id.ParseCitizenID(raw)
	if err != nil {
		return id.CitizenID{}, false, fmt.Errorf("decode bound citizen: %w", err)
	}
	return holder, true, nil
}

func (s *RedisStore) Bind(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error {
	keys := []string{bindingKeyPrefix + doc.Key(), citizenBindingKeyPrefix + citizenID.String()}
	res, err := bindScript.Run(ctx, s.client, keys, citizenID.String(), doc.Key()).Slice()
	if err != nil {
		return fmt.Errorf("bind document: %w", err)
	}
	if len(res) != 2 {
		return fmt.Errorf("bind document: unexpected script reply %v", res)
	}
	status, _ := res[0].(int64)
	switch status {
	case 1:
		return nil
	case 0:
		value, _ := res[1].(string)
		holder, err := id.ParseCitizenID(value)
		if err != nil {
			return fmt.Errorf("decode bound citizen: %w", err)
		}
		return &models.AlreadyBoundError{Document: doc, Holder: holder}
	default:
		return models.ErrCitizenHasDocument
	}
}

func (s *RedisStore) HasPriorClaim(ctx context.Context, doc id.DocumentIdentity) (bool, error) {
	n, err := s.client.Exists(ctx, claimsKeyPrefix+doc.Key()).Result()
	if err != nil {
		return false, fmt.Errorf("check prior claim: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) RecordClaim(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error {
	if err := s.client.SAdd(ctx, claimsKeyPrefix+doc.Key(), citizenID.String()).Err(); err != nil {
		return fmt.Errorf("record claim: %w", err)
	}
	return nil
}
