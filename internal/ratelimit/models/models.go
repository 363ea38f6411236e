package models

import "time"

// Result is the outcome of a single rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, only set when not allowed
}

// ExceededResponse is the body returned with 429.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

const keyPrefix = "rl:ip:"

// IPKey namespaces a client address for the bucket store.
func IPKey(ip string) string {
	if ip == "" {
		ip = "unknown"
	}
	return keyPrefix + ip
}

func retryAfter(resetAt, now time.Time) int {
	secs := int(resetAt.Sub(now).Round(time.Second) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// Allowed builds the result for an admitted request.
func Allowed(limit, used int, resetAt time.Time) *Result {
	return &Result{Allowed: true, Limit: limit, Remaining: max(limit-used, 0), ResetAt: resetAt}
}

// Denied builds the result for a rejected request.
func Denied(limit int, resetAt, now time.Time) *Result {
	return &Result{Limit: limit, ResetAt: resetAt, RetryAfter: retryAfter(resetAt, now)}
}
