package lockout

import (
	"context"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "seotools:lockout:"

// RedisStore shares lockout state between instances. The failure counter
// expires after the cooldown so stale failures age out on their own.
type RedisStore struct {
	rdb      redis.UniversalClient
	max      int
	cooldown time.Duration
	log      zerolog.Logger
}

func NewRedisStore(rdb redis.UniversalClient, maxAttempts int, cooldown time.Duration, log zerolog.Logger) *RedisStore {
	if cooldown <= 0 {
		cooldown = 15 * time.Minute
	}
	return &RedisStore{rdb: rdb, max: maxAttempts, cooldown: cooldown, log: log}
}

func (s *RedisStore) IsLocked(ctx context.Context, email string) (bool, int) {
	if s.max <= 0 {
		return false, 0
	}
	ttl, err := s.rdb.PTTL(ctx, keyPrefix+"locked:"+key(email)).Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("lockout: check failed")
		return false, 0
	}
	if ttl <= 0 {
		return false, 0
	}
	return true, retryAfter(ttl)
}

func (s *RedisStore) RecordFailure(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	k := key(email)
	failKey := keyPrefix + "fail:" + k
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, failKey)
	pipe.Expire(ctx, failKey, s.cooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("lockout: record failure")
		return
	}
	if incr.Val() >= int64(s.max) {
		pipe := s.rdb.TxPipeline()
		pipe.Set(ctx, keyPrefix+"locked:"+k, 1, s.cooldown)
		pipe.Del(ctx, failKey)
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Warn().Err(err).Msg("lockout: lock account")
		}
	}
}

func (s *RedisStore) RecordSuccess(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	k := key(email)
	if err := s.rdb.Del(ctx, keyPrefix+"fail:"+k, keyPrefix+"locked:"+k).Err(); err != nil {
		s.log.Warn().Err(err).Msg("lockout: clear")
	}
}

var _ ports.LoginLockoutStore = (*RedisStore)(nil)
