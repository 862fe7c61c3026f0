package lockout

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
)

const redisKeyPrefix = "portal:lockout:"

// RedisStore shares lockout state across instances. Redis errors fail open and are logged.
type RedisStore struct {
	client   redis.UniversalClient
	max      int
	cooldown time.Duration
	log      zerolog.Logger
}

func NewRedisStore(client redis.UniversalClient, maxAttempts, cooldownSeconds int, log zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, max: maxAttempts, cooldown: cooldownOrDefault(cooldownSeconds), log: log}
}

func failuresKey(email string) string { return redisKeyPrefix + "failures:" + email }

func lockKey(email string) string { return redisKeyPrefix + "locked:" + email }

func (s *RedisStore) IsLocked(ctx context.Context, email string) (bool, int) {
	if s.max <= 0 {
		return false, 0
	}
	ttl, err := s.client.PTTL(ctx, lockKey(email)).Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("lockout lookup failed")
		return false, 0
	}
	if ttl <= 0 {
		return false, 0
	}
	secs := int(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return true, secs
}

func (s *RedisStore) RecordFailure(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, failuresKey(email))
	pipe.Expire(ctx, failuresKey(email), s.cooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("lockout record failure failed")
		return
	}
	if incr.Val() >= int64(s.max) {
		pipe := s.client.TxPipeline()
		pipe.Set(ctx, lockKey(email), 1, s.cooldown)
		pipe.Del(ctx, failuresKey(email))
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Warn().Err(err).Msg("lockout lock failed")
		}
	}
}

func (s *RedisStore) RecordSuccess(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	if err := s.client.Del(ctx, failuresKey(email), lockKey(email)).Err(); err != nil {
		s.log.Warn().Err(err).Msg("lockout reset failed")
	}
}

var _ ports.LoginLockoutStore = (*RedisStore)(nil)
