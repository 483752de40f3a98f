package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"leadhub-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// entry tracks one client IP's request budget.
type entry struct {
	count      int
	resetAt    time.Time
	lastAccess time.Time
	blocked    bool
	blockUntil time.Time
}

// RateLimiter is the gateway's in-memory per-IP limiter. It only protects
// this process; the auth-service login throttle is Redis-backed and
// separate.
type RateLimiter struct {
	store       map[string]*entry
	mutex       sync.Mutex
	cleanupTime time.Duration
}

type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

func atoiDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// NewRateLimitConfig reads the gateway limits from configuration.
func NewRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()

	return RateLimitConfig{
		MaxRequests:   atoiDefault(cfg.RateLimitMaxRequests, 100),
		TimeWindow:    time.Duration(atoiDefault(cfg.RateLimitTimeWindowSeconds, 60)) * time.Second,
		BlockDuration: time.Duration(atoiDefault(cfg.RateLimitBlockDurationMinutes, 15)) * time.Minute,
	}
}

func NewRateLimiter(cleanupTime time.Duration) *RateLimiter {
	limiter := &RateLimiter{
		store:       make(map[string]*entry),
		cleanupTime: cleanupTime,
	}

	go limiter.cleanup()

	return limiter
}

// cleanup drops entries idle for a day.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTime)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		now := time.Now()
		for key, e := range rl.store {
			if now.Sub(e.lastAccess) > 24*time.Hour {
				delete(rl.store, key)
			}
		}
		rl.mutex.Unlock()
	}
}

func (rl *RateLimiter) isAllowed(key string, cfg RateLimitConfig) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	e, exists := rl.store[key]

	if !exists {
		rl.store[key] = &entry{
			count:      1,
			resetAt:    now.Add(cfg.TimeWindow),
			lastAccess: now,
		}
		return true
	}

	e.lastAccess = now

	if e.blocked {
		if now.After(e.blockUntil) {
			e.blocked = false
			e.count = 1
			e.resetAt = now.Add(cfg.TimeWindow)
			return true
		}
		return false
	}

	if now.After(e.resetAt) {
		e.count = 1
		e.resetAt = now.Add(cfg.TimeWindow)
		return true
	}

	if e.count >= cfg.MaxRequests {
		e.blocked = true
		e.blockUntil = now.Add(cfg.BlockDuration)
		return false
	}

	e.count++
	return true
}

// GlobalRateLimitMiddleware limits every request by client IP.
func (rl *RateLimiter) GlobalRateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "global:" + c.ClientIP()

		if !rl.isAllowed(key, cfg) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     "Too many requests from this IP. Please try again later.",
				"retry_after": cfg.BlockDuration.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
