package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHealthStatus(t *testing.T) {
	assert.Equal(t, HealthStatusHealthy, ParseHealthStatus("Healthy"))
	assert.Equal(t, HealthStatusUnhealthy, ParseHealthStatus(" healthy "))
	assert.Equal(t, HealthStatusUnhealthy, ParseHealthStatus("HEALTHY"))
	assert.Equal(t, HealthStatusUnhealthy, ParseHealthStatus("Healthy "))
	assert.Equal(t, HealthStatusUnhealthy, ParseHealthStatus("Unhealthy"))
	assert.Equal(t, HealthStatusUnhealthy, ParseHealthStatus("Degraded"))
	assert.Equal(t, HealthStatusUnhealthy, ParseHealthStatus(""))
}

func TestParseAddress(t *testing.T) {
	full := "0x8fD379246834eac74B8419FfdA202CF8051F7A03"

	addr, err := ParseAddress(full)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(full), addr)

	lower, err := ParseAddress("0x8fd379246834eac74b8419ffda202cf8051f7a03")
	require.NoError(t, err)
	assert.Equal(t, addr, lower)

	short, err := ParseAddress("0xAA")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xAA"), short)

	odd, err := ParseAddress("0xA")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x0A"), odd)

	for _, bad := range []string{"", "0x", "8fd379246834eac74b8419ffda202cf8051f7a03", "0xZZ", full + "00"} {
		_, err := ParseAddress(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestSignerSnapshot_IsSigner(t *testing.T) {
	a := common.HexToAddress("0xAA")
	b := common.HexToAddress("0xBB")

	assert.True(t, SignerSnapshot{Signers: []Address{a, b}, LocalAddress: b}.IsSigner())
	assert.False(t, SignerSnapshot{Signers: []Address{a}, LocalAddress: b}.IsSigner())
	assert.False(t, SignerSnapshot{LocalAddress: a}.IsSigner())
}
