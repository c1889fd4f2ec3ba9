package health

import (
	"encoding/json"
	"time"

	"github.com/vietddude/nodewatch/internal/core/domain"
)

// Outcome is the top-level result of one check cycle.
type Outcome string

const (
	OutcomeHealthy   Outcome = "healthy"
	OutcomeUnhealthy Outcome = "unhealthy"
	// OutcomeIndeterminate means the data needed for a verdict could not be
	// obtained. It is never reported as healthy.
	OutcomeIndeterminate Outcome = "indeterminate"
)

// Process exit codes for one-shot checks.
const (
	ExitHealthy       = 0
	ExitFault         = 1
	ExitIndeterminate = 2
)

// Result is the outcome of one check cycle. Verdict is nil when the outcome
// is indeterminate; Err is set only then.
type Result struct {
	ID        string
	Node      string
	Outcome   Outcome
	Verdict   *domain.Verdict
	Report    *domain.HealthReport
	Snapshot  *domain.SignerSnapshot
	Err       error
	CheckedAt time.Time
	Duration  time.Duration
}

func indeterminate(err error) Result {
	return Result{Outcome: OutcomeIndeterminate, Err: err}
}

func fromVerdict(v domain.Verdict) Result {
	outcome := OutcomeUnhealthy
	if v.Healthy {
		outcome = OutcomeHealthy
	}
	return Result{Outcome: outcome, Verdict: &v}
}

// Healthy reports whether the check produced a healthy verdict.
func (r Result) Healthy() bool {
	return r.Outcome == OutcomeHealthy
}

// Reason returns the verdict reason, or "" when indeterminate.
func (r Result) Reason() domain.Reason {
	if r.Verdict == nil {
		return ""
	}
	return r.Verdict.Reason
}

// ExitCode maps the result to the process exit code consumed by monitoring.
func (r Result) ExitCode() int {
	switch r.Outcome {
	case OutcomeHealthy:
		return ExitHealthy
	case OutcomeUnhealthy:
		return ExitFault
	default:
		return ExitIndeterminate
	}
}

type resultJSON struct {
	ID          string                 `json:"id"`
	Node        string                 `json:"node"`
	Outcome     Outcome                `json:"outcome"`
	Healthy     bool                   `json:"healthy"`
	Reason      domain.Reason          `json:"reason,omitempty"`
	Description string                 `json:"description,omitempty"`
	IsSigner    *bool                  `json:"is_signer,omitempty"`
	Error       string                 `json:"error,omitempty"`
	CheckedAt   time.Time              `json:"checked_at"`
	DurationMS  int64                  `json:"duration_ms"`
	Report      *domain.HealthReport   `json:"report,omitempty"`
	Snapshot    *domain.SignerSnapshot `json:"snapshot,omitempty"`
}

// MarshalJSON renders the result for the status endpoint and publisher.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		ID:         r.ID,
		Node:       r.Node,
		Outcome:    r.Outcome,
		Healthy:    r.Healthy(),
		Reason:     r.Reason(),
		CheckedAt:  r.CheckedAt,
		DurationMS: r.Duration.Milliseconds(),
		Report:     r.Report,
		Snapshot:   r.Snapshot,
	}
	if r.Report != nil {
		out.Description = r.Report.Description
	}
	if r.Snapshot != nil {
		isSigner := r.Snapshot.IsSigner()
		out.IsSigner = &isSigner
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}
