package models

import "time"

// Reason explains why an admission check resolved the way it did.
type Reason string

const (
	ReasonAllowed         Reason = "allowed"
	ReasonMissingIdentity Reason = "missing_identity"
	ReasonRateLimited     Reason = "rate_limited"
	ReasonQuotaExhausted  Reason = "quota_exhausted"
)

// RateLimitResult represents the outcome of a rate window check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, only set when not allowed
}

// Decision is the single pre-flight outcome for a request. Exactly one
// Reason applies; a request is never partially admitted.
type Decision struct {
	Allowed bool
	Reason  Reason
	// Usage is the caller's quota usage observed at check time. Only
	// meaningful when Allowed.
	Usage int
	// RateLimit is set whenever the rate window was consulted, including on
	// quota rejections, so handlers can always emit limit headers.
	RateLimit *RateLimitResult
}
