package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChecksTotal tracks health checks by outcome and verdict reason
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodewatch_checks_total",
			Help: "Total number of node health checks",
		},
		[]string{"node", "outcome", "reason"},
	)

	// NodeVerdict is 1 when healthy, 0 when unhealthy and -1 when indeterminate
	NodeVerdict = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodewatch_node_verdict",
			Help: "Latest verdict for the node (1 healthy, 0 unhealthy, -1 indeterminate)",
		},
		[]string{"node"},
	)

	// CheckDuration tracks how long a full check cycle takes
	CheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nodewatch_check_duration_seconds",
			Help:    "Health check cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"node"},
	)

	// RPCCallsTotal tracks RPC calls per provider and method
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodewatch_rpc_calls_total",
			Help: "Total number of RPC calls",
		},
		[]string{"provider", "method"},
	)

	// RPCErrorsTotal tracks RPC errors per provider
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodewatch_rpc_errors_total",
			Help: "Total number of RPC errors",
		},
		[]string{"provider", "method", "error_type"},
	)

	// RPCLatency tracks RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nodewatch_rpc_latency_seconds",
			Help:    "RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "method"},
	)

	// ChainLatestBlock tracks the node's head block from the last scan
	ChainLatestBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodewatch_chain_latest_block",
			Help: "Latest block height reported by the node",
		},
		[]string{"node"},
	)

	// SignerCount tracks the size of the clique signer set
	SignerCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodewatch_signer_count",
			Help: "Number of authorized clique signers",
		},
		[]string{"node"},
	)

	// IsSigner is 1 when the local node is an authorized signer
	IsSigner = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodewatch_is_signer",
			Help: "Whether the local node is an authorized signer",
		},
		[]string{"node"},
	)

	// Syncing is 1 while the node reports it is syncing
	Syncing = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodewatch_syncing",
			Help: "Whether the node reports it is syncing",
		},
		[]string{"node"},
	)

	// ProviderAvailable is 0 once the cumulative error rate exceeds 0.5 and
	// returns to 1 on the next successful call
	ProviderAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodewatch_rpc_provider_available",
			Help: "Whether the RPC provider is marked available (0 after a failure with cumulative error rate above 0.5)",
		},
		[]string{"provider"},
	)

	// ProviderErrorRate is failed calls over total calls since startup
	ProviderErrorRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodewatch_rpc_provider_error_rate",
			Help: "Cumulative RPC error rate per provider (failed calls / total calls)",
		},
		[]string{"provider"},
	)
)

// BoolValue converts a flag to a gauge value.
func BoolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
