// Package rpc provides the JSON-RPC client used to talk to a chain node.
//
// # Quick Start
//
//	import "github.com/vietddude/nodewatch/internal/infra/rpc"
//
//	p := rpc.NewHTTPProvider("local", "http://localhost:8545", 10*time.Second)
//	raw, err := p.Call(ctx, "eth_blockNumber", nil)
//
// # Package Structure
//
//   - provider/ - HTTPProvider implementation, typed errors, transport health
//
// Most types are re-exported at the root level for convenience.
package rpc

import (
	"time"

	"github.com/vietddude/nodewatch/internal/infra/rpc/provider"
)

// =============================================================================
// Re-exported types from provider package
// =============================================================================

// RPCProvider is the interface for providers that support JSON-RPC calls.
type RPCProvider = provider.RPCProvider

// HTTPProvider implements RPCProvider for JSON-RPC over HTTP.
type HTTPProvider = provider.HTTPProvider

// HealthStatus represents the transport health of a provider.
type HealthStatus = provider.HealthStatus

// BatchRequest represents a single request in a batch call.
type BatchRequest = provider.BatchRequest

// BatchResponse represents a single response from a batch call.
type BatchResponse = provider.BatchResponse

// RPCError is a JSON-RPC error object returned by the node.
type RPCError = provider.RPCError

// Error sentinels
var (
	ErrTransport = provider.ErrTransport
	ErrDecode    = provider.ErrDecode
)

// NewHTTPProvider creates a new HTTP-based RPC provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return provider.NewHTTPProvider(name, endpoint, timeout)
}
