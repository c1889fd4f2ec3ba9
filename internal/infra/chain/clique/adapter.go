// Package clique talks to a proof-of-authority chain client over its
// /health endpoint and JSON-RPC API.
package clique

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/infra/chain"
	"github.com/vietddude/nodewatch/internal/infra/rpc"
)

// RPC methods used against the node.
const (
	MethodGetSnapshot  = "clique_getSnapshot"
	MethodGetSigners   = "clique_getSigners"
	MethodLocalAddress = "net_localAddress"
	MethodBlockNumber  = "eth_blockNumber"
	MethodSyncing      = "eth_syncing"
)

// nodeHealthEntry is the health check entry carrying the liveness description.
const nodeHealthEntry = "node-health"

var _ chain.Adapter = (*Adapter)(nil)

type Adapter struct {
	client    rpc.RPCProvider
	healthURL string
}

func NewAdapter(client rpc.RPCProvider, healthURL string) *Adapter {
	return &Adapter{
		client:    client,
		healthURL: healthURL,
	}
}

type healthResponse struct {
	Status  *string `json:"status"`
	Entries map[string]struct {
		Description string `json:"description"`
	} `json:"entries"`
}

// FetchHealth reads the health endpoint. The node answers 503 with a JSON
// body when unhealthy, so any status code whose body decodes is accepted.
func (a *Adapter) FetchHealth(ctx context.Context) (domain.HealthReport, error) {
	body, code, err := a.client.Get(ctx, a.healthURL)
	if err != nil {
		return domain.HealthReport{}, err
	}

	var resp healthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.HealthReport{}, fmt.Errorf("%w: health response (http %d): %v", rpc.ErrDecode, code, err)
	}
	if resp.Status == nil {
		return domain.HealthReport{}, fmt.Errorf("%w: health response (http %d) has no status", rpc.ErrDecode, code)
	}

	return domain.HealthReport{
		Status:      domain.ParseHealthStatus(*resp.Status),
		Description: resp.Entries[nodeHealthEntry].Description,
	}, nil
}

// FetchSignerSnapshot reads clique_getSnapshot and net_localAddress.
func (a *Adapter) FetchSignerSnapshot(ctx context.Context) (domain.SignerSnapshot, error) {
	raw, err := a.client.Call(ctx, MethodGetSnapshot, nil)
	if err != nil {
		return domain.SignerSnapshot{}, err
	}
	signers, err := parseSnapshotSigners(raw)
	if err != nil {
		return domain.SignerSnapshot{}, err
	}

	local, err := a.LocalAddress(ctx)
	if err != nil {
		return domain.SignerSnapshot{}, err
	}

	return domain.SignerSnapshot{Signers: signers, LocalAddress: local}, nil
}

func (a *Adapter) Signers(ctx context.Context) ([]domain.Address, error) {
	raw, err := a.client.Call(ctx, MethodGetSigners, nil)
	if err != nil {
		return nil, err
	}
	return parseAddressList(MethodGetSigners, raw)
}

func (a *Adapter) LocalAddress(ctx context.Context) (domain.Address, error) {
	raw, err := a.client.Call(ctx, MethodLocalAddress, nil)
	if err != nil {
		return domain.Address{}, err
	}
	return parseAddress(MethodLocalAddress, raw)
}

func (a *Adapter) BlockNumber(ctx context.Context) (uint64, error) {
	raw, err := a.client.Call(ctx, MethodBlockNumber, nil)
	if err != nil {
		return 0, err
	}
	return parseQuantity(MethodBlockNumber, raw)
}

func (a *Adapter) Syncing(ctx context.Context) (*domain.SyncProgress, error) {
	raw, err := a.client.Call(ctx, MethodSyncing, nil)
	if err != nil {
		return nil, err
	}
	return parseSyncing(raw)
}

// Status gathers a full scan in one JSON-RPC batch plus the health GET.
func (a *Adapter) Status(ctx context.Context) (domain.NodeStatus, error) {
	var (
		status domain.NodeStatus
		errs   []error
	)

	report, err := a.FetchHealth(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("health: %w", err))
	} else {
		status.Health = report
		status.Collected |= domain.FieldHealth
	}

	resps, err := a.client.BatchCall(ctx, []rpc.BatchRequest{
		{Method: MethodSyncing},
		{Method: MethodBlockNumber},
		{Method: MethodGetSigners},
		{Method: MethodLocalAddress},
		{Method: MethodGetSnapshot},
	})
	if err != nil {
		errs = append(errs, err)
		return status, errors.Join(errs...)
	}

	collect := func(r rpc.BatchResponse, field domain.StatusField, parse func(json.RawMessage) error) {
		if r.Error != nil {
			errs = append(errs, r.Error)
			return
		}
		if err := parse(r.Result); err != nil {
			errs = append(errs, err)
			return
		}
		status.Collected |= field
	}

	collect(resps[0], domain.FieldSyncing, func(raw json.RawMessage) (err error) {
		status.Syncing, err = parseSyncing(raw)
		return err
	})
	collect(resps[1], domain.FieldBlockNumber, func(raw json.RawMessage) (err error) {
		status.BlockNumber, err = parseQuantity(MethodBlockNumber, raw)
		return err
	})
	collect(resps[2], domain.FieldSigners, func(raw json.RawMessage) (err error) {
		status.Signers, err = parseAddressList(MethodGetSigners, raw)
		return err
	})
	collect(resps[3], domain.FieldLocalAddress, func(raw json.RawMessage) (err error) {
		status.LocalAddress, err = parseAddress(MethodLocalAddress, raw)
		return err
	})
	collect(resps[4], domain.FieldSnapshot, func(raw json.RawMessage) error {
		signers, err := parseSnapshotSigners(raw)
		if err != nil {
			return err
		}
		status.SnapshotSigners = len(signers)
		if status.Has(domain.FieldLocalAddress) {
			status.IsSigner = domain.SignerSnapshot{Signers: signers, LocalAddress: status.LocalAddress}.IsSigner()
			status.Collected |= domain.FieldIsSigner
		}
		return nil
	})

	return status, errors.Join(errs...)
}

func parseAddress(method string, raw json.RawMessage) (domain.Address, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Address{}, fmt.Errorf("%w: %s result: %v", rpc.ErrDecode, method, err)
	}
	addr, err := domain.ParseAddress(s)
	if err != nil {
		return domain.Address{}, fmt.Errorf("%w: %s result: %v", rpc.ErrDecode, method, err)
	}
	return addr, nil
}

func parseAddressList(method string, raw json.RawMessage) ([]domain.Address, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: %s result: %v", rpc.ErrDecode, method, err)
	}
	return toAddresses(method, list)
}

func toAddresses(method string, list []string) ([]domain.Address, error) {
	out := make([]domain.Address, 0, len(list))
	for _, s := range list {
		addr, err := domain.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s result: %v", rpc.ErrDecode, method, err)
		}
		out = append(out, addr)
	}
	return out, nil
}

// parseSnapshotSigners accepts signers as a JSON array of addresses or as an
// object keyed by address, which is how geth serializes the snapshot.
func parseSnapshotSigners(raw json.RawMessage) ([]domain.Address, error) {
	var snap struct {
		Signers json.RawMessage `json:"signers"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s result: %v", rpc.ErrDecode, MethodGetSnapshot, err)
	}

	trimmed := bytes.TrimSpace(snap.Signers)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return nil, fmt.Errorf("%w: %s result has no signers", rpc.ErrDecode, MethodGetSnapshot)
	case trimmed[0] == '[':
		return parseAddressList(MethodGetSnapshot, trimmed)
	case trimmed[0] == '{':
		var set map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &set); err != nil {
			return nil, fmt.Errorf("%w: %s signers: %v", rpc.ErrDecode, MethodGetSnapshot, err)
		}
		keys := make([]string, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return toAddresses(MethodGetSnapshot, keys)
	default:
		return nil, fmt.Errorf("%w: %s signers has unexpected type", rpc.ErrDecode, MethodGetSnapshot)
	}
}

func parseQuantity(method string, raw json.RawMessage) (uint64, error) {
	var q hexutil.Uint64
	if err := json.Unmarshal(raw, &q); err != nil {
		return 0, fmt.Errorf("%w: %s result: %v", rpc.ErrDecode, method, err)
	}
	return uint64(q), nil
}

type syncingResult struct {
	StartingBlock hexutil.Uint64 `json:"startingBlock"`
	CurrentBlock  hexutil.Uint64 `json:"currentBlock"`
	HighestBlock  hexutil.Uint64 `json:"highestBlock"`
}

// parseSyncing decodes eth_syncing, which is either false or a progress object.
func parseSyncing(raw json.RawMessage) (*domain.SyncProgress, error) {
	var syncing bool
	if err := json.Unmarshal(raw, &syncing); err == nil {
		if syncing {
			return &domain.SyncProgress{}, nil
		}
		return nil, nil
	}

	var progress syncingResult
	if err := json.Unmarshal(raw, &progress); err != nil {
		return nil, fmt.Errorf("%w: %s result: %v", rpc.ErrDecode, MethodSyncing, err)
	}
	return &domain.SyncProgress{
		StartingBlock: uint64(progress.StartingBlock),
		CurrentBlock:  uint64(progress.CurrentBlock),
		HighestBlock:  uint64(progress.HighestBlock),
	}, nil
}
