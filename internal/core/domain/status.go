package domain

// SyncProgress is the eth_syncing result while the node is catching up.
type SyncProgress struct {
	StartingBlock uint64 `json:"starting_block"`
	CurrentBlock  uint64 `json:"current_block"`
	HighestBlock  uint64 `json:"highest_block"`
}

// StatusField is a bit identifying one piece of a NodeStatus.
type StatusField uint8

const (
	FieldHealth StatusField = 1 << iota
	FieldSyncing
	FieldBlockNumber
	FieldSigners
	FieldLocalAddress
	FieldSnapshot
	// FieldIsSigner needs both the local address and the snapshot.
	FieldIsSigner
)

// NodeStatus is everything a scan gathers about the node in one pass.
// Fields missing from Collected hold zero values, not observations.
type NodeStatus struct {
	Health       HealthReport  `json:"health"`
	Syncing      *SyncProgress `json:"syncing,omitempty"`
	BlockNumber  uint64        `json:"block_number"`
	Signers      []Address     `json:"signers"`
	LocalAddress Address       `json:"local_address"`
	// SnapshotSigners is the signer count from clique_getSnapshot, which may
	// lag clique_getSigners while votes are pending.
	SnapshotSigners int  `json:"snapshot_signers"`
	IsSigner        bool `json:"is_signer"`

	Collected StatusField `json:"-"`
}

// Has reports whether field was collected.
func (s NodeStatus) Has(field StatusField) bool {
	return s.Collected&field != 0
}
