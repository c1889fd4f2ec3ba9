package chain

import (
	"context"

	"github.com/vietddude/nodewatch/internal/core/domain"
)

// Adapter defines the node surface nodewatch consumes.
// It is the boundary between the monitoring code and a chain client's
// health endpoint and JSON-RPC API.
type Adapter interface {
	// FetchHealth reads the node's self-reported health
	FetchHealth(ctx context.Context) (domain.HealthReport, error)

	// FetchSignerSnapshot reads the clique signer set and the local address
	FetchSignerSnapshot(ctx context.Context) (domain.SignerSnapshot, error)

	// Signers returns the currently authorized signers (clique_getSigners)
	Signers(ctx context.Context) ([]domain.Address, error)

	// LocalAddress returns the node's own account address
	LocalAddress(ctx context.Context) (domain.Address, error)

	// BlockNumber returns the node's head block number
	BlockNumber(ctx context.Context) (uint64, error)

	// Syncing returns sync progress, or nil when the node is not syncing
	Syncing(ctx context.Context) (*domain.SyncProgress, error)

	// Status gathers every field of a scan in as few round trips as possible.
	// It returns whatever it could collect together with the joined errors.
	Status(ctx context.Context) (domain.NodeStatus, error)
}
