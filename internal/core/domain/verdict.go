package domain

// Reason explains a Verdict.
type Reason string

const (
	// ReasonReportedHealthy: the node reports itself healthy.
	ReasonReportedHealthy Reason = "reported_healthy"
	// ReasonNonSignerIdle: not producing blocks, but the node is not a signer.
	ReasonNonSignerIdle Reason = "non_signer_idle"
	// ReasonSignerStalled: a designated signer stopped producing blocks.
	ReasonSignerStalled Reason = "signer_stalled"
	// ReasonOtherUnhealthy: unhealthy for any other reason.
	ReasonOtherUnhealthy Reason = "other_unhealthy"
)

// Verdict is the classifier's healthy/unhealthy decision.
type Verdict struct {
	Healthy bool   `json:"healthy"`
	Reason  Reason `json:"reason"`
}
