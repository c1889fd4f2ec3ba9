package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/vietddude/nodewatch/internal/monitoring/metrics"
)

// HTTPProvider implements RPCProvider for JSON-RPC over HTTP.
type HTTPProvider struct {
	name       string
	endpoint   string
	httpClient *http.Client

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
	successCount int
	failureCount int
	requestCount int
}

// NewHTTPProvider creates a new HTTP-based RPC provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:     name,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		health: HealthStatus{
			Available:     true,
			LastSuccessAt: time.Now(),
		},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func newRequest(method string, params []any, id int) rpcRequest {
	if params == nil {
		params = []any{}
	}
	return rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: id}
}

// Call makes a single JSON-RPC call.
func (p *HTTPProvider) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	start := time.Now()

	body, err := p.post(ctx, newRequest(method, params, 1))
	if err != nil {
		p.fail(method, err)
		return nil, err
	}

	var resp rpcResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		err = fmt.Errorf("%w: parse %s response: %v", ErrDecode, method, err)
		p.fail(method, err)
		return nil, err
	}

	if resp.Error != nil {
		p.fail(method, resp.Error)
		return nil, fmt.Errorf("%s: %w", method, resp.Error)
	}

	p.succeed(method, time.Since(start))
	return resp.Result, nil
}

// BatchCall makes multiple RPC calls in one request. Responses are returned
// in request order regardless of the order the node answered in.
func (p *HTTPProvider) BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error) {
	const method = "batch"
	start := time.Now()

	batchReq := make([]rpcRequest, len(requests))
	for i, req := range requests {
		batchReq[i] = newRequest(req.Method, req.Params, i+1)
	}

	body, err := p.post(ctx, batchReq)
	if err != nil {
		p.fail(method, err)
		return nil, err
	}

	var batchResp []rpcResponse
	if err := json.Unmarshal(body, &batchResp); err != nil {
		err = fmt.Errorf("%w: parse batch response: %v", ErrDecode, err)
		p.fail(method, err)
		return nil, err
	}

	responses := make([]BatchResponse, len(requests))
	seen := make([]bool, len(requests))
	for _, r := range batchResp {
		idx := r.ID - 1
		if idx < 0 || idx >= len(requests) {
			continue
		}
		seen[idx] = true
		if r.Error != nil {
			responses[idx] = BatchResponse{Error: fmt.Errorf("%s: %w", requests[idx].Method, r.Error)}
		} else {
			responses[idx] = BatchResponse{Result: r.Result}
		}
	}
	for i, ok := range seen {
		if !ok {
			responses[i] = BatchResponse{
				Error: fmt.Errorf("%w: no response for %s", ErrDecode, requests[i].Method),
			}
		}
	}

	p.succeed(method, time.Since(start))
	return responses, nil
}

// Get issues a plain HTTP GET. Any status code is returned to the caller;
// only failures to reach the server or read the body are errors.
func (p *HTTPProvider) Get(ctx context.Context, url string) ([]byte, int, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("%w: create request: %v", ErrTransport, err)
		p.fail(http.MethodGet, err)
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: get %s: %v", ErrTransport, url, err)
		p.fail(http.MethodGet, err)
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("%w: read response: %v", ErrTransport, err)
		p.fail(http.MethodGet, err)
		return nil, resp.StatusCode, err
	}

	p.succeed(http.MethodGet, time.Since(start))
	return body, resp.StatusCode, nil
}

func (p *HTTPProvider) post(ctx context.Context, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: rpc call: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d: %s", ErrTransport, resp.StatusCode, truncate(body, 256))
	}

	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func errorType(err error) string {
	var rpcErr *RPCError
	switch {
	case errors.As(err, &rpcErr):
		return "rpc"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "other"
	}
}

// GetName returns the provider's name.
func (p *HTTPProvider) GetName() string {
	return p.name
}

// GetHealth returns the provider's health status.
func (p *HTTPProvider) GetHealth() HealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.health
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *HTTPProvider) succeed(method string, latency time.Duration) {
	metrics.RPCCallsTotal.WithLabelValues(p.name, method).Inc()
	metrics.RPCLatency.WithLabelValues(p.name, method).Observe(latency.Seconds())

	p.mu.Lock()
	defer p.mu.Unlock()

	p.successCount++
	p.requestCount++
	p.totalLatency += latency
	p.health.LastSuccessAt = time.Now()
	p.health.Available = true

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}
	if p.successCount > 0 {
		p.health.Latency = p.totalLatency / time.Duration(p.successCount)
	}
}

func (p *HTTPProvider) fail(method string, err error) {
	metrics.RPCCallsTotal.WithLabelValues(p.name, method).Inc()
	metrics.RPCErrorsTotal.WithLabelValues(p.name, method, errorType(err)).Inc()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.failureCount++
	p.requestCount++
	p.health.LastFailureAt = time.Now()

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}

	if p.health.ErrorRate > 0.5 {
		p.health.Available = false
	}
}
