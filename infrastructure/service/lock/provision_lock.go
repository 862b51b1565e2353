package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/sefworks/partner-portal/application/port/outbound"
)

const keyPrefix = "provision:lock:"

// ProvisionLockConfig configures the per-email provisioning lock.
type ProvisionLockConfig struct {
	Enabled  bool
	RedisURL string
	TTL      time.Duration
}

// NewProvisionLock returns a redis-backed lock, or an in-process lock
// when redis is disabled. The in-process fallback still serializes
// provisioning within one instance; multi-instance deployments need
// redis.
func NewProvisionLock(config ProvisionLockConfig, logger *logrus.Logger) (outbound.ProvisionLock, error) {
	if !config.Enabled {
		logger.Info("Provisioning lock using in-process fallback")
		return newLocalLock(config.TTL), nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisClient := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"ttl": config.TTL,
	}).Info("Provisioning lock service initialized")

	return &redisLock{
		redisClient: redisClient,
		ttl:         config.TTL,
		logger:      logger,
	}, nil
}

// redisLock serializes provisioning per email across instances with
// SETNX and a TTL so a crashed run cannot hold an email forever.
type redisLock struct {
	redisClient *redis.Client
	ttl         time.Duration
	logger      *logrus.Logger
}

func (l *redisLock) Acquire(ctx context.Context, email string) (bool, error) {
	ok, err := l.redisClient.SetNX(ctx, keyPrefix+email, time.Now().UnixNano(), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire provisioning lock: %w", err)
	}

	l.logger.WithContext(ctx).WithFields(logrus.Fields{
		"email":    email,
		"acquired": ok,
	}).Debug("Provisioning lock acquire")

	return ok, nil
}

func (l *redisLock) Release(ctx context.Context, email string) error {
	if err := l.redisClient.Del(ctx, keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to release provisioning lock: %w", err)
	}
	return nil
}

// localLock is the in-process fallback. Entries expire by timestamp so
// an unreleased lock clears after the TTL, matching redis semantics.
type localLock struct {
	mu   sync.Mutex
	held map[string]time.Time
	ttl  time.Duration
}

func newLocalLock(ttl time.Duration) *localLock {
	return &localLock{
		held: make(map[string]time.Time),
		ttl:  ttl,
	}
}

func (l *localLock) Acquire(_ context.Context, email string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if acquiredAt, ok := l.held[email]; ok && time.Since(acquiredAt) < l.ttl {
		return false, nil
	}
	l.held[email] = time.Now()
	return true, nil
}

func (l *localLock) Release(_ context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, email)
	return nil
}
