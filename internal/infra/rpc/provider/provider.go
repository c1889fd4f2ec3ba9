// Package provider implements the JSON-RPC transport used to talk to a node.
//
// This package contains:
//   - RPCProvider interface: single and batched JSON-RPC calls plus plain GETs
//   - HTTPProvider: JSON-RPC over HTTP implementation
//   - typed errors separating transport, decode and JSON-RPC failures
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTransport wraps failures to reach the node or read its response.
	ErrTransport = errors.New("transport error")
	// ErrDecode wraps responses that are not the expected JSON shape.
	ErrDecode = errors.New("decode error")
)

// RPCError is a JSON-RPC error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// RPCProvider makes JSON-RPC calls against a single endpoint.
type RPCProvider interface {
	// GetName returns provider identifier (e.g., "local")
	GetName() string

	// GetHealth returns current transport health metrics
	GetHealth() HealthStatus

	// Call makes a single RPC request and returns the raw result
	Call(ctx context.Context, method string, params []any) (json.RawMessage, error)

	// BatchCall makes multiple RPC calls in one request
	BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error)

	// Get issues a plain HTTP GET against url and returns the body and status code
	Get(ctx context.Context, url string) ([]byte, int, error)

	// Close cleans up resources
	Close() error
}

// BatchRequest represents a single request in a batch call.
type BatchRequest struct {
	Method string
	Params []any
}

// BatchResponse represents a single response from a batch call.
type BatchResponse struct {
	Result json.RawMessage
	Error  error
}

// HealthStatus represents the transport health of a provider.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
}
