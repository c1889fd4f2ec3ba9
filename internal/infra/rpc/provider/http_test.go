package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_Call(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode body: %v", err)
			return
		}

		assert.Equal(t, "2.0", req["jsonrpc"])
		assert.Equal(t, "net_localAddress", req["method"])
		assert.Equal(t, []any{}, req["params"], "nil params must be sent as an empty array")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"result":  "0x00000000000000000000000000000000000000aa",
			"id":      req["id"],
		})
	}))
	defer server.Close()

	p := NewHTTPProvider("local", server.URL, 5*time.Second)

	result, err := p.Call(context.Background(), "net_localAddress", nil)
	require.NoError(t, err)

	var addr string
	require.NoError(t, json.Unmarshal(result, &addr))
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", addr)

	health := p.GetHealth()
	assert.True(t, health.Available)
	assert.Zero(t, health.ErrorRate)
}

func TestHTTPProvider_CallRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"the method clique_getSnapshot does not exist/is not available"}}`))
	}))
	defer server.Close()

	p := NewHTTPProvider("local", server.URL, 5*time.Second)

	_, err := p.Call(context.Background(), "clique_getSnapshot", nil)
	require.Error(t, err)

	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32601, rpcErr.Code)
	assert.Equal(t, 1.0, p.GetHealth().ErrorRate)
	assert.False(t, p.GetHealth().Available)
}

func TestHTTPProvider_HealthErrorRateIsCumulative(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"boom"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x1"}`))
	}))
	defer server.Close()

	p := NewHTTPProvider("local", server.URL, 5*time.Second)
	ctx := context.Background()

	_, err := p.Call(ctx, "eth_blockNumber", nil)
	require.NoError(t, err)

	fail.Store(true)
	_, err = p.Call(ctx, "eth_blockNumber", nil)
	require.Error(t, err)
	assert.Equal(t, 0.5, p.GetHealth().ErrorRate)
	assert.True(t, p.GetHealth().Available, "a rate of exactly 0.5 keeps the provider available")

	_, err = p.Call(ctx, "eth_blockNumber", nil)
	require.Error(t, err)
	assert.InDelta(t, 2.0/3.0, p.GetHealth().ErrorRate, 1e-9)
	assert.False(t, p.GetHealth().Available)

	fail.Store(false)
	_, err = p.Call(ctx, "eth_blockNumber", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, p.GetHealth().ErrorRate)
	assert.True(t, p.GetHealth().Available, "any success marks the provider available again")
}

func TestHTTPProvider_CallFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			want: ErrTransport,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			want: ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := NewHTTPProvider("local", server.URL, 5*time.Second)
			_, err := p.Call(context.Background(), "eth_blockNumber", nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPProvider_CallUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p := NewHTTPProvider("local", url, time.Second)
	_, err := p.Call(context.Background(), "eth_blockNumber", nil)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestHTTPProvider_BatchCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqs []map[string]any
		if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
			t.Errorf("failed to decode batch: %v", err)
			return
		}
		assert.Len(t, reqs, 3)

		// Answer out of order and drop the third request.
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"jsonrpc": "2.0", "id": 2, "error": map[string]any{"code": -32000, "message": "boom"}},
			{"jsonrpc": "2.0", "id": 1, "result": "0x10"},
		})
	}))
	defer server.Close()

	p := NewHTTPProvider("local", server.URL, 5*time.Second)

	resps, err := p.BatchCall(context.Background(), []BatchRequest{
		{Method: "eth_blockNumber"},
		{Method: "eth_syncing"},
		{Method: "clique_getSigners"},
	})
	require.NoError(t, err)
	require.Len(t, resps, 3)

	assert.NoError(t, resps[0].Error)
	assert.JSONEq(t, `"0x10"`, string(resps[0].Result))

	var rpcErr *RPCError
	assert.True(t, errors.As(resps[1].Error, &rpcErr))
	assert.ErrorIs(t, resps[2].Error, ErrDecode)
}

func TestHTTPProvider_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"Unhealthy"}`))
	}))
	defer server.Close()

	p := NewHTTPProvider("local", server.URL, 5*time.Second)

	body, code, err := p.Get(context.Background(), server.URL+"/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.JSONEq(t, `{"status":"Unhealthy"}`, string(body))
}
