// Package chainspec edits the clique chainspec used to boot the network.
package chainspec

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/joho/godotenv"
)

// Clique genesis extraData is vanity (32 bytes) + signer addresses + seal (65 bytes).
const (
	ExtraVanity = "0x22466c6578692069732061207468696e6722202d204166726900000000000000"
	ExtraSeal   = "0000000000000000000000000000000000000000000000000000000000000000" +
		"000000000000000000000000000000000000000000000000000000000000000000"
)

// SignerFromEnv reads the genesis signer address from an env file.
func SignerFromEnv(path, key string) (string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	signer := strings.TrimSpace(values[key])
	if signer == "" {
		return "", fmt.Errorf("%s is not set in %s", key, path)
	}
	return signer, nil
}

// ExtraData builds the genesis extraData sealing blocks with signer.
// The signer's hex digits are kept as given, without the 0x prefix.
func ExtraData(signer string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(signer), "0x")
	b, err := hexutil.Decode("0x" + trimmed)
	if err != nil || len(b) != common.AddressLength {
		return "", fmt.Errorf("invalid signer address %q", signer)
	}
	return ExtraVanity + trimmed + ExtraSeal, nil
}
