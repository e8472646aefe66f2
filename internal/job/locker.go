package job

import (
	"PastPort/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// Locker 任务互斥锁。多实例部署时同一轮扫描只允许一个实例执行，
// 抢锁失败的实例直接跳过本轮。
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool)
}

type redisLocker struct{}

func NewRedisLocker() Locker {
	return redisLocker{}
}

func (redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool) {
	token := uuid.NewString()

	ok, err := redis.TryLock(ctx, key, token, ttl, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire job lock failed", "key", key, "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	return func() {
		redis.UnLock(ctx, key, token)
	}, true
}
