package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const commitLockKeyPrefix = "commitlock:"

// CommitLock serializes save events per employee: one commit in flight at a
// time. SET NX with a TTL so an abandoned commit cannot wedge the employee.
type CommitLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCommitLock creates a commit lock with the given TTL
func NewCommitLock(redisClient *RedisClient, ttl time.Duration) *CommitLock {
	return &CommitLock{
		client: redisClient.GetClient(),
		ttl:    ttl,
	}
}

// Acquire tries to take the commit lock for an employee. Returns the release
// token on success; empty token means another commit is in flight.
func (l *CommitLock) Acquire(ctx context.Context, employeeID string) (string, error) {
	token := uuid.New().String()
	acquired, err := l.client.SetNX(ctx, commitLockKeyPrefix+employeeID, token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire commit lock: %w", err)
	}
	if !acquired {
		return "", nil
	}
	return token, nil
}

// Release frees the lock if the token still owns it. A lock that expired and
// was retaken by someone else is left alone.
func (l *CommitLock) Release(ctx context.Context, employeeID, token string) error {
	const script = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`
	return l.client.Eval(ctx, script, []string{commitLockKeyPrefix + employeeID}, token).Err()
}
