// Package health classifies a chain node's liveness from its health endpoint
// and clique signer set.
package health

import (
	"errors"
	"strings"

	"github.com/vietddude/nodewatch/internal/core/domain"
)

// ErrSnapshotRequired is returned by Classify when the report describes a
// production stall but no signer snapshot was supplied.
var ErrSnapshotRequired = errors.New("signer snapshot required to classify production stall")

const productionStallPhrase = "stopped producing blocks"

// DescribesProductionStall reports whether a health description says the
// node has stopped producing blocks.
func DescribesProductionStall(text string) bool {
	if text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), productionStallPhrase)
}

// NeedsSnapshot reports whether classifying report requires a signer snapshot.
func NeedsSnapshot(report domain.HealthReport) bool {
	return !report.IsHealthy() && DescribesProductionStall(report.Description)
}

// Classify reduces a health report and optional signer snapshot to a verdict.
// Rules are evaluated in order; the first match wins.
func Classify(report domain.HealthReport, snapshot *domain.SignerSnapshot) (domain.Verdict, error) {
	if report.IsHealthy() {
		return domain.Verdict{Healthy: true, Reason: domain.ReasonReportedHealthy}, nil
	}

	if DescribesProductionStall(report.Description) {
		if snapshot == nil {
			return domain.Verdict{}, ErrSnapshotRequired
		}
		// Nodes outside the signer set are expected to be idle.
		if !snapshot.IsSigner() {
			return domain.Verdict{Healthy: true, Reason: domain.ReasonNonSignerIdle}, nil
		}
		return domain.Verdict{Healthy: false, Reason: domain.ReasonSignerStalled}, nil
	}

	return domain.Verdict{Healthy: false, Reason: domain.ReasonOtherUnhealthy}, nil
}
