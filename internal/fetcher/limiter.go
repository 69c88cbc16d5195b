package fetcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Pacer spaces requests to the stats site. It starts at the configured
// ceiling, drops to half the current rate on each 429 (never below a quarter
// of the ceiling) and recovers 20% per successful page, never above the
// ceiling.
type Pacer struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	ceiling rate.Limit
	floor   rate.Limit
	current rate.Limit
}

// NewPacer returns a pacer allowing at most ceiling requests per second.
func NewPacer(ceiling rate.Limit) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(ceiling, 1),
		ceiling: ceiling,
		floor:   ceiling / 4,
		current: ceiling,
	}
}

// PerMinute returns a pacer allowing n requests per minute, or nil when
// n <= 0 (unpaced).
func PerMinute(n int) *Pacer {
	if n <= 0 {
		return nil
	}
	return NewPacer(rate.Every(time.Minute / time.Duration(n)))
}

// Wait blocks until the next request may be sent.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// OnSuccess moves the rate back toward the ceiling.
func (p *Pacer) OnSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current >= p.ceiling {
		return
	}
	p.set(min(p.current*1.2, p.ceiling))
}

// OnRateLimit halves the rate after a 429.
func (p *Pacer) OnRateLimit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.set(max(p.current*0.5, p.floor))
	zap.L().Warn("site rate limited us, slowing down",
		zap.Float64("requests_per_minute", float64(p.current)*60),
	)
}

func (p *Pacer) set(r rate.Limit) {
	p.current = r
	p.limiter.SetLimit(r)
}

// Limit returns the current rate in requests per second.
func (p *Pacer) Limit() rate.Limit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}
