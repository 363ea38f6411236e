package lockout

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the login lockout thresholds.
type Config struct {
	AttemptsPerWindow int
	WindowDuration    time.Duration
	HardLockThreshold int
	HardLockDuration  time.Duration
	DailyWindow       time.Duration
}

func DefaultConfig() Config {
	return Config{
		AttemptsPerWindow: 5,
		WindowDuration:    15 * time.Minute,
		HardLockThreshold: 10,
		HardLockDuration:  15 * time.Minute,
		DailyWindow:       24 * time.Hour,
	}
}

// Record tracks failed logins for one username and client IP pair.
type Record struct {
	Identifier    string
	FailureCount  int
	DailyFailures int
	LockedUntil   *time.Time
	LastFailureAt time.Time
}

func (r *Record) IsLockedAt(now time.Time) bool {
	return r.LockedUntil != nil && now.Before(*r.LockedUntil)
}

// WindowFailures is the failure count still inside the window at now.
func (r *Record) WindowFailures(now time.Time, window time.Duration) int {
	if r.LastFailureAt.IsZero() || !now.Before(r.LastFailureAt.Add(window)) {
		return 0
	}
	return r.FailureCount
}

// Key builds the store identifier. ':' and '|' are escaped so a crafted
// username cannot collide with another user's key.
func Key(username, ip string) string {
	return fmt.Sprintf("%s|%s", sanitize(strings.ToLower(username)), sanitize(ip))
}

func sanitize(s string) string {
	return strings.NewReplacer(":", "_", "|", "_").Replace(s)
}

// LockedError reports a refused login and when to retry.
type LockedError struct {
	RetryAfter time.Duration
	HardLock   bool
}

func (e *LockedError) Error() string {
	if e.HardLock {
		return fmt.Sprintf("account temporarily locked, retry after %s", e.RetryAfter.Round(time.Second))
	}
	return fmt.Sprintf("too many failed login attempts, retry after %s", e.RetryAfter.Round(time.Second))
}
