package health

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietddude/nodewatch/internal/core/domain"
)

var (
	addrAA = common.HexToAddress("0xAA")
	addrBB = common.HexToAddress("0xBB")
	addrCC = common.HexToAddress("0xCC")
)

func snapshotOf(local domain.Address, signers ...domain.Address) *domain.SignerSnapshot {
	return &domain.SignerSnapshot{Signers: signers, LocalAddress: local}
}

func TestDescribesProductionStall(t *testing.T) {
	cases := map[string]bool{
		"The node stopped producing blocks":  true,
		"The node stopped producing blocks.": true,
		"THE NODE STOPPED PRODUCING BLOCKS":  true,
		"stopped producing blocks":           true,
		"":                                   false,
		"disk full":                          false,
		"stopped producing":                  false,
		"The node is now fully synced with a network. Peers: 5.": false,
	}
	for text, want := range cases {
		assert.Equal(t, want, DescribesProductionStall(text), "text %q", text)
	}
}

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		report   domain.HealthReport
		snapshot *domain.SignerSnapshot
		want     domain.Verdict
	}{
		{
			name:   "reported healthy with empty description",
			report: domain.HealthReport{Status: domain.ParseHealthStatus("Healthy"), Description: ""},
			want:   domain.Verdict{Healthy: true, Reason: domain.ReasonReportedHealthy},
		},
		{
			name:     "non-signer idle",
			report:   domain.HealthReport{Status: domain.ParseHealthStatus("Unhealthy"), Description: "The node stopped producing blocks"},
			snapshot: snapshotOf(addrBB, addrAA),
			want:     domain.Verdict{Healthy: true, Reason: domain.ReasonNonSignerIdle},
		},
		{
			name:     "signer stalled",
			report:   domain.HealthReport{Status: domain.ParseHealthStatus("Unhealthy"), Description: "The node stopped producing blocks"},
			snapshot: snapshotOf(addrAA, addrAA),
			want:     domain.Verdict{Healthy: false, Reason: domain.ReasonSignerStalled},
		},
		{
			name:     "other unhealthy",
			report:   domain.HealthReport{Status: domain.ParseHealthStatus("Unhealthy"), Description: "disk full"},
			snapshot: snapshotOf(addrAA),
			want:     domain.Verdict{Healthy: false, Reason: domain.ReasonOtherUnhealthy},
		},
		{
			name:   "unknown status fails safe",
			report: domain.HealthReport{Status: domain.ParseHealthStatus("Degraded"), Description: "peers low"},
			want:   domain.Verdict{Healthy: false, Reason: domain.ReasonOtherUnhealthy},
		},
		{
			name:   "unhealthy with empty description",
			report: domain.HealthReport{Status: domain.HealthStatusUnhealthy},
			want:   domain.Verdict{Healthy: false, Reason: domain.ReasonOtherUnhealthy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.report, tt.snapshot)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Properties(t *testing.T) {
	descriptions := []string{
		"",
		"disk full",
		"The node stopped producing blocks",
		"the node STOPPED producing BLOCKS.",
		"Sync degraded; stopped producing blocks since 12:00",
		"The node has 0 peers connected",
	}
	snapshots := []*domain.SignerSnapshot{
		snapshotOf(addrAA),
		snapshotOf(addrAA, addrAA),
		snapshotOf(addrAA, addrBB),
		snapshotOf(addrAA, addrBB, addrCC, addrAA),
		snapshotOf(addrCC, addrAA, addrBB),
	}

	for _, desc := range descriptions {
		for _, snap := range snapshots {
			stall := DescribesProductionStall(desc)

			healthy, err := Classify(domain.HealthReport{Status: domain.HealthStatusHealthy, Description: desc}, snap)
			require.NoError(t, err)
			assert.Equal(t, domain.Verdict{Healthy: true, Reason: domain.ReasonReportedHealthy}, healthy)

			got, err := Classify(domain.HealthReport{Status: domain.HealthStatusUnhealthy, Description: desc}, snap)
			require.NoError(t, err)

			switch {
			case !stall:
				assert.Equal(t, domain.Verdict{Healthy: false, Reason: domain.ReasonOtherUnhealthy}, got)
			case snap.IsSigner():
				assert.Equal(t, domain.Verdict{Healthy: false, Reason: domain.ReasonSignerStalled}, got)
			default:
				assert.Equal(t, domain.Verdict{Healthy: true, Reason: domain.ReasonNonSignerIdle}, got)
			}

			if got.Reason == domain.ReasonSignerStalled {
				assert.True(t, snap.IsSigner())
			}
			if got.Reason == domain.ReasonNonSignerIdle {
				assert.False(t, snap.IsSigner())
			}
		}
	}
}

func TestClassify_HealthyNeedsNoSnapshot(t *testing.T) {
	got, err := Classify(domain.HealthReport{
		Status:      domain.HealthStatusHealthy,
		Description: "The node stopped producing blocks",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonReportedHealthy, got.Reason)

	got, err = Classify(domain.HealthReport{Status: domain.HealthStatusUnhealthy, Description: "disk full"}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonOtherUnhealthy, got.Reason)
}

func TestClassify_StallWithoutSnapshot(t *testing.T) {
	_, err := Classify(domain.HealthReport{
		Status:      domain.HealthStatusUnhealthy,
		Description: "The node stopped producing blocks",
	}, nil)
	assert.ErrorIs(t, err, ErrSnapshotRequired)
}
