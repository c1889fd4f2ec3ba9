package health

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/monitoring/metrics"
)

// NodeSource fetches the raw signals the classifier needs.
type NodeSource interface {
	FetchHealth(ctx context.Context) (domain.HealthReport, error)
	FetchSignerSnapshot(ctx context.Context) (domain.SignerSnapshot, error)
}

// Checker runs one fetch-and-classify cycle against a node.
type Checker struct {
	node   string
	source NodeSource
	now    func() time.Time
}

// NewChecker creates a checker for the named node.
func NewChecker(node string, source NodeSource) *Checker {
	return &Checker{
		node:   node,
		source: source,
		now:    time.Now,
	}
}

// Node returns the name of the node being checked.
func (c *Checker) Node() string {
	return c.node
}

// Check fetches the health report, fetches the signer snapshot only if the
// report needs one, and classifies. Fetch failures produce an indeterminate
// result; Check never returns a healthy result without a verdict. Results of
// a check cut short by ctx cancellation are not recorded in metrics or logs.
func (c *Checker) Check(ctx context.Context) Result {
	start := c.now()
	result := c.check(ctx)

	result.ID = uuid.NewString()
	result.Node = c.node
	result.CheckedAt = start
	result.Duration = c.now().Sub(start)

	// A check interrupted by cancellation says nothing about the node.
	if ctx.Err() != nil {
		return result
	}

	c.record(result)
	return result
}

func (c *Checker) check(ctx context.Context) Result {
	report, err := c.source.FetchHealth(ctx)
	if err != nil {
		return indeterminate(fmt.Errorf("fetch health: %w", err))
	}

	var snapshot *domain.SignerSnapshot
	if NeedsSnapshot(report) {
		snap, err := c.source.FetchSignerSnapshot(ctx)
		if err != nil {
			res := indeterminate(fmt.Errorf("fetch signer snapshot: %w", err))
			res.Report = &report
			return res
		}
		snapshot = &snap
	}

	verdict, err := Classify(report, snapshot)
	if err != nil {
		res := indeterminate(err)
		res.Report = &report
		return res
	}

	res := fromVerdict(verdict)
	res.Report = &report
	res.Snapshot = snapshot
	return res
}

func (c *Checker) record(r Result) {
	metrics.ChecksTotal.WithLabelValues(c.node, string(r.Outcome), string(r.Reason())).Inc()
	metrics.CheckDuration.WithLabelValues(c.node).Observe(r.Duration.Seconds())

	switch r.Outcome {
	case OutcomeHealthy:
		metrics.NodeVerdict.WithLabelValues(c.node).Set(1)
	case OutcomeUnhealthy:
		metrics.NodeVerdict.WithLabelValues(c.node).Set(0)
	default:
		metrics.NodeVerdict.WithLabelValues(c.node).Set(-1)
	}

	attrs := []any{
		"node", c.node,
		"check_id", r.ID,
		"outcome", r.Outcome,
		"duration", r.Duration,
	}
	if r.Verdict != nil {
		attrs = append(attrs, "reason", r.Verdict.Reason)
	}
	if r.Report != nil && r.Report.Description != "" {
		attrs = append(attrs, "description", r.Report.Description)
	}

	switch r.Outcome {
	case OutcomeHealthy:
		slog.Debug("Node check completed", attrs...)
	case OutcomeUnhealthy:
		slog.Warn("Node is unhealthy", attrs...)
	default:
		slog.Error("Node check indeterminate", append(attrs, "error", r.Err)...)
	}
}
