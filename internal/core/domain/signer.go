package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Address is a signer or node account address.
type Address = common.Address

// ParseAddress parses a 0x-prefixed hex address of at most 20 bytes.
// Shorter values are left-padded, matching common.HexToAddress.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	b, err := hexutil.Decode(s)
	if errors.Is(err, hexutil.ErrOddLength) {
		b, err = hexutil.Decode("0x0" + s[2:])
	}
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(b) == 0 || len(b) > common.AddressLength {
		return Address{}, fmt.Errorf("invalid address %q: want 1 to %d bytes", s, common.AddressLength)
	}
	return common.BytesToAddress(b), nil
}

// SignerSnapshot is the clique signer set together with the local node's address.
type SignerSnapshot struct {
	Signers      []Address `json:"signers"`
	LocalAddress Address   `json:"local_address"`
}

// IsSigner reports whether the local node is in the signer set.
func (s SignerSnapshot) IsSigner() bool {
	for _, signer := range s.Signers {
		if signer == s.LocalAddress {
			return true
		}
	}
	return false
}
