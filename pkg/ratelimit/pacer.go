package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for request pacing.
var (
	rateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ifunny_ratelimit_wait_seconds",
		Help:    "Time requests spent waiting for the pacer",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60},
	})

	rateLimitCooldownsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ifunny_ratelimit_cooldowns_total",
		Help: "Total number of cooldowns started by 429 responses",
	})
)

// Pacer gates requests. The zero rate disables the token bucket; the
// cooldown is always honoured.
type Pacer struct {
	limiter *rate.Limiter

	mu    sync.Mutex
	state State

	logger zerolog.Logger
}

// NewPacer allows requestsPerMinute requests with bursts of burst.
// requestsPerMinute <= 0 disables client-side pacing.
func NewPacer(requestsPerMinute, burst int, logger zerolog.Logger) *Pacer {
	p := &Pacer{logger: logger}
	if requestsPerMinute > 0 {
		if burst <= 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), burst)
	}
	return p
}

// Enabled reports whether client-side pacing is on.
func (p *Pacer) Enabled() bool {
	return p.limiter != nil
}

// State returns a snapshot of the cooldown state.
func (p *Pacer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Wait blocks until a request may be sent or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	start := time.Now()
	defer func() {
		rateLimitWaitSeconds.Observe(time.Since(start).Seconds())
	}()

	if wait := p.State().TimeUntilReset(); wait > 0 {
		p.logger.Warn().
			Dur("wait_duration", wait).
			Msg("iFunny cooldown active - delaying request")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// UpdateFromResponse starts a cooldown when the server answered 429.
func (p *Pacer) UpdateFromResponse(statusCode int, headers http.Header) {
	if statusCode != http.StatusTooManyRequests {
		return
	}

	now := time.Now()
	wait, ok := parseRetryAfter(headers, now)
	if !ok {
		wait = DefaultCooldown
	}

	p.mu.Lock()
	until := now.Add(wait)
	if until.After(p.state.BlockedUntil) {
		p.state.BlockedUntil = until
	}
	p.state.LastUpdate = now
	p.mu.Unlock()

	rateLimitCooldownsTotal.Inc()
	p.logger.Warn().
		Dur("cooldown", wait).
		Msg("iFunny returned 429 - pausing requests")
}
