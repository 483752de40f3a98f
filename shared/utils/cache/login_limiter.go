// Package cache wraps the shared Redis client. Its only current consumer
// is the login-attempt limiter in auth-service.
package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"leadhub-backend/shared/config"
)

type LoginLimiter struct {
	client *redis.Client
	ctx    context.Context

	maxAttempts int
	window      time.Duration
}

var globalLimiter *LoginLimiter

// InitLoginLimiter connects to Redis and configures the attempt budget from
// config.
func InitLoginLimiter() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	maxAttempts, err := strconv.Atoi(cfg.LoginRateLimitMaxAttempts)
	if err != nil || maxAttempts < 1 {
		maxAttempts = 5
	}
	windowSeconds, err := strconv.Atoi(cfg.LoginRateLimitWindowSeconds)
	if err != nil || windowSeconds < 1 {
		windowSeconds = 300
	}

	globalLimiter = &LoginLimiter{
		client:      client,
		ctx:         ctx,
		maxAttempts: maxAttempts,
		window:      time.Duration(windowSeconds) * time.Second,
	}

	log.Printf("✅ Login limiter initialized - %s:%s DB:%d (%d attempts / %s)",
		cfg.RedisHost, cfg.RedisPort, redisDB, maxAttempts, globalLimiter.window)

	return nil
}

// GetLoginLimiter returns the global limiter, initializing lazily. A nil
// return means Redis is unavailable; callers treat that as limiter-off.
func GetLoginLimiter() *LoginLimiter {
	if globalLimiter == nil {
		if err := InitLoginLimiter(); err != nil {
			log.Printf("❌ Failed to initialize login limiter: %v", err)
			return nil
		}
	}
	return globalLimiter
}

func attemptKey(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", email, ip)
}

// RegisterFailure counts one failed attempt for the email+IP pair and
// reports whether the pair is now over budget.
func (l *LoginLimiter) RegisterFailure(email, ip string) (blocked bool, err error) {
	key := attemptKey(email, ip)

	count, err := l.client.Incr(l.ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.client.Expire(l.ctx, key, l.window)
	}

	return count >= int64(l.maxAttempts), nil
}

// IsBlocked reports whether the email+IP pair has exhausted its attempt
// budget within the window.
func (l *LoginLimiter) IsBlocked(email, ip string) (bool, error) {
	count, err := l.client.Get(l.ctx, attemptKey(email, ip)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= int64(l.maxAttempts), nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(email, ip string) {
	l.client.Del(l.ctx, attemptKey(email, ip))
}
