package scan

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/monitoring/metrics"
)

const allFields = domain.FieldHealth | domain.FieldSyncing | domain.FieldBlockNumber |
	domain.FieldSigners | domain.FieldLocalAddress | domain.FieldSnapshot | domain.FieldIsSigner

type stubStatus struct {
	status domain.NodeStatus
	err    error
	calls  atomic.Int32
}

func (s *stubStatus) Status(ctx context.Context) (domain.NodeStatus, error) {
	s.calls.Add(1)
	return s.status, s.err
}

func TestScanner_OnceExportsMetrics(t *testing.T) {
	src := &stubStatus{status: domain.NodeStatus{
		Health:       domain.HealthReport{Status: domain.HealthStatusHealthy},
		BlockNumber:  4242,
		Signers:      []domain.Address{common.HexToAddress("0xAA"), common.HexToAddress("0xBB")},
		LocalAddress: common.HexToAddress("0xAA"),
		IsSigner:     true,
		Collected:    allFields,
	}}

	s := NewScanner("scan-once", src, time.Second)
	var seen domain.NodeStatus
	s.OnScan(func(st domain.NodeStatus, err error) { seen = st })

	status, err := s.Once(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4242), status.BlockNumber)
	assert.Equal(t, status, seen)

	assert.Equal(t, 4242.0, testutil.ToFloat64(metrics.ChainLatestBlock.WithLabelValues("scan-once")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.SignerCount.WithLabelValues("scan-once")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.IsSigner.WithLabelValues("scan-once")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Syncing.WithLabelValues("scan-once")))
}

func TestScanner_OncePartial(t *testing.T) {
	src := &stubStatus{
		status: domain.NodeStatus{
			BlockNumber: 7,
			Syncing:     &domain.SyncProgress{HighestBlock: 10},
			Collected:   domain.FieldBlockNumber | domain.FieldSyncing,
		},
		err:    errors.New("clique_getSnapshot: method not found"),
	}

	status, err := NewScanner("scan-partial", src, time.Second).Once(context.Background())
	assert.Error(t, err)
	assert.Equal(t, uint64(7), status.BlockNumber)
	assert.Equal(t, 7.0, testutil.ToFloat64(metrics.ChainLatestBlock.WithLabelValues("scan-partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Syncing.WithLabelValues("scan-partial")))
}

func TestScanner_FailedScanKeepsGauges(t *testing.T) {
	const node = "scan-keep"
	src := &stubStatus{status: domain.NodeStatus{
		BlockNumber:  5000,
		Signers:      []domain.Address{common.HexToAddress("0xAA"), common.HexToAddress("0xBB")},
		LocalAddress: common.HexToAddress("0xAA"),
		IsSigner:     true,
		Collected:    allFields,
	}}
	s := NewScanner(node, src, time.Second)

	_, err := s.Once(context.Background())
	require.NoError(t, err)

	assertGauges := func() {
		t.Helper()
		assert.Equal(t, 5000.0, testutil.ToFloat64(metrics.ChainLatestBlock.WithLabelValues(node)))
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.SignerCount.WithLabelValues(node)))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.IsSigner.WithLabelValues(node)))
		assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Syncing.WithLabelValues(node)))
	}
	assertGauges()

	// Node unreachable: nothing collected.
	src.status = domain.NodeStatus{}
	src.err = errors.New("rpc transport error: connection refused")
	_, err = s.Once(context.Background())
	require.Error(t, err)
	assertGauges()

	// Snapshot and head block fail inside the batch; the rest still updates.
	src.status = domain.NodeStatus{
		Signers:   []domain.Address{common.HexToAddress("0xAA")},
		Syncing:   &domain.SyncProgress{HighestBlock: 6000},
		Collected: domain.FieldHealth | domain.FieldSigners | domain.FieldSyncing | domain.FieldLocalAddress,
	}
	src.err = errors.New("eth_blockNumber: timeout; clique_getSnapshot: method not found")
	_, err = s.Once(context.Background())
	require.Error(t, err)
	assert.Equal(t, 5000.0, testutil.ToFloat64(metrics.ChainLatestBlock.WithLabelValues(node)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.IsSigner.WithLabelValues(node)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SignerCount.WithLabelValues(node)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Syncing.WithLabelValues(node)))
}

func TestScanner_Run(t *testing.T) {
	src := &stubStatus{}
	s := NewScanner("scan-run", src, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)

	assert.Error(t, NewScanner("x", src, 0).Run(context.Background()))
}
