// Package ratelimit paces requests to the iFunny API. It combines a
// client-side token bucket with a cooldown that the server can impose through
// 429 Too Many Requests and its Retry-After header.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultCooldown applies when a 429 carries no usable Retry-After.
const DefaultCooldown = 30 * time.Second

// State is the pacer's view of the server's throttling.
type State struct {
	// BlockedUntil is the end of the current cooldown, zero when none
	BlockedUntil time.Time

	// LastUpdate is when a throttling response was last seen
	LastUpdate time.Time
}

// IsBlocked reports whether requests must wait at now.
func (s State) IsBlocked(now time.Time) bool {
	return now.Before(s.BlockedUntil)
}

// TimeUntilReset returns the remaining cooldown, or 0.
func (s State) TimeUntilReset() time.Duration {
	d := time.Until(s.BlockedUntil)
	if d < 0 {
		return 0
	}
	return d
}

// parseRetryAfter reads Retry-After as delay-seconds or an HTTP date.
func parseRetryAfter(headers http.Header, now time.Time) (time.Duration, bool) {
	value := strings.TrimSpace(headers.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		if at.Before(now) {
			return 0, true
		}
		return at.Sub(now), true
	}
	return 0, false
}
