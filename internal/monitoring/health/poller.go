package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Sink receives every check result, e.g. to publish the latest verdict.
type Sink interface {
	Publish(ctx context.Context, r Result) error
}

// Poller runs a Checker on a fixed interval. Polls never overlap.
type Poller struct {
	checker  *Checker
	interval time.Duration
	sinks    []Sink

	mu   sync.RWMutex
	last *Result
}

// NewPoller creates a poller that checks every interval.
func NewPoller(checker *Checker, interval time.Duration, sinks ...Sink) *Poller {
	return &Poller{
		checker:  checker,
		interval: interval,
		sinks:    sinks,
	}
}

// Run checks immediately and then once per interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return errors.New("poll interval must be positive")
	}

	slog.Info("Health poller started", "node", p.checker.Node(), "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Poll(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Health poller stopped", "node", p.checker.Node())
			return nil
		case <-ticker.C:
		}
	}
}

// Poll performs a single check, stores it as the latest result and
// hands it to the sinks. A check interrupted by ctx cancellation is
// returned but neither stored nor published.
func (p *Poller) Poll(ctx context.Context) Result {
	r := p.checker.Check(ctx)
	if ctx.Err() != nil {
		return r
	}

	p.mu.Lock()
	p.last = &r
	p.mu.Unlock()

	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, r); err != nil {
			slog.Warn("Failed to publish check result", "node", r.Node, "check_id", r.ID, "error", err)
		}
	}
	return r
}

// Last returns the most recent result, if any.
func (p *Poller) Last() (Result, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return Result{}, false
	}
	return *p.last, true
}
