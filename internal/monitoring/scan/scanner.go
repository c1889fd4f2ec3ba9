// Package scan periodically gathers the node's chain state: health, sync
// progress, head block and signer membership.
package scan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/monitoring/metrics"
)

// StatusSource gathers a NodeStatus in one pass.
type StatusSource interface {
	Status(ctx context.Context) (domain.NodeStatus, error)
}

// Scanner gathers and reports node status on an interval.
type Scanner struct {
	node     string
	source   StatusSource
	interval time.Duration
	onScan   func(domain.NodeStatus, error)
}

// NewScanner creates a scanner for the named node.
func NewScanner(node string, source StatusSource, interval time.Duration) *Scanner {
	return &Scanner{
		node:     node,
		source:   source,
		interval: interval,
	}
}

// OnScan registers a callback invoked after every scan.
func (s *Scanner) OnScan(fn func(domain.NodeStatus, error)) {
	s.onScan = fn
}

// Run waits one interval, scans, and repeats until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("scan interval must be positive")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Once(ctx)
		}
	}
}

// Once performs a single scan, exports it as metrics and logs it.
// Of a partial result only the collected fields are exported; the gauges
// of the others keep their previous values.
func (s *Scanner) Once(ctx context.Context) (domain.NodeStatus, error) {
	slog.Debug("Gathering health, block number and signers", "node", s.node)

	status, err := s.source.Status(ctx)

	s.export(status)

	attrs := []any{
		"node", s.node,
		"health", status.Health.Status,
		"block", status.BlockNumber,
		"syncing", status.Syncing != nil,
		"signers", len(status.Signers),
		"snapshot_signers", status.SnapshotSigners,
		"local_address", status.LocalAddress.Hex(),
		"is_signer", status.IsSigner,
	}
	if err != nil {
		slog.Warn("Scan incomplete", append(attrs, "error", err)...)
	} else {
		slog.Info("Scan completed", attrs...)
	}

	if s.onScan != nil {
		s.onScan(status, err)
	}
	return status, err
}

func (s *Scanner) export(status domain.NodeStatus) {
	if status.Has(domain.FieldBlockNumber) {
		metrics.ChainLatestBlock.WithLabelValues(s.node).Set(float64(status.BlockNumber))
	}
	if status.Has(domain.FieldSigners) {
		metrics.SignerCount.WithLabelValues(s.node).Set(float64(len(status.Signers)))
	}
	if status.Has(domain.FieldIsSigner) {
		metrics.IsSigner.WithLabelValues(s.node).Set(metrics.BoolValue(status.IsSigner))
	}
	if status.Has(domain.FieldSyncing) {
		metrics.Syncing.WithLabelValues(s.node).Set(metrics.BoolValue(status.Syncing != nil))
	}
}
