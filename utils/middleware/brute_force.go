package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/utils/cache"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/gofiber/fiber/v2"
)

const attemptWindow = 15 * time.Minute

// BruteForceProtection locks out IPs after repeated failed logins. A nil
// receiver or cache disables it.
type BruteForceProtection struct {
	cache cache.Cache
	log   *logger.Logger
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(c cache.Cache, log *logger.Logger) *BruteForceProtection {
	if log == nil {
		log = logger.Nop()
	}
	return &BruteForceProtection{cache: c, log: log}
}

func attemptKey(ip string) string { return fmt.Sprintf("brute_force:attempts:%s", ip) }
func lockKey(ip string) string    { return fmt.Sprintf("brute_force:lock:%s", ip) }

// lockDuration applies progressive lockouts by failed attempt count.
func lockDuration(attempts int64) time.Duration {
	switch {
	case attempts >= 25:
		return 24 * time.Hour
	case attempts >= 10:
		return time.Hour
	case attempts >= 5:
		return 2 * time.Minute
	default:
		return 0
	}
}

// CheckAndRecordAttempt rejects requests from locked IPs with 429 and a
// Retry-After header. Cache errors let the request through.
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil || b.cache == nil {
			return c.Next()
		}

		ctx := c.UserContext()
		key := lockKey(c.IP())

		locked, err := b.cache.Exists(ctx, key)
		if err != nil {
			b.log.Warn("brute force check failed", "error", err)
			return c.Next()
		}
		if !locked {
			return c.Next()
		}

		retryAfter := 60
		if ttl, err := b.cache.TTL(ctx, key); err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}

		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
	}
}

// RecordFailedAttempt counts a failed login and locks the IP once a
// threshold is crossed.
func (b *BruteForceProtection) RecordFailedAttempt(c *fiber.Ctx, email string) {
	if b == nil || b.cache == nil {
		return
	}

	ctx := c.UserContext()
	ip := c.IP()

	attempts, err := b.cache.Increment(ctx, attemptKey(ip))
	if err != nil {
		b.log.Warn("failed to record login attempt", "error", err)
		return
	}
	if attempts == 1 {
		_ = b.cache.Expire(ctx, attemptKey(ip), attemptWindow)
	}

	d := lockDuration(attempts)
	if d == 0 {
		return
	}

	b.log.Warn("locking out login attempts", "ip", ip, "email", email, "attempts", attempts, "duration", d)
	if err := b.cache.Set(ctx, lockKey(ip), "locked", d); err != nil {
		b.log.Warn("failed to set lockout", "error", err)
	}
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(c *fiber.Ctx) {
	if b == nil || b.cache == nil {
		return
	}
	ip := c.IP()
	_ = b.cache.Delete(c.UserContext(), attemptKey(ip), lockKey(ip))
}
