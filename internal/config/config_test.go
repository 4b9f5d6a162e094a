package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetList(t *testing.T) {
	specs, err := parseAssetList("USDC:6, usdt:6 ,DAI:18")
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, AssetSpec{Symbol: "USDC", Decimals: 6}, specs[0])
	assert.Equal(t, AssetSpec{Symbol: "USDT", Decimals: 6}, specs[1])
	assert.Equal(t, AssetSpec{Symbol: "DAI", Decimals: 18}, specs[2])
}

func TestParseAssetListErrors(t *testing.T) {
	_, err := parseAssetList("USDC")
	assert.Error(t, err)

	_, err = parseAssetList("USDC:six")
	assert.Error(t, err)

	_, err = parseAssetList("")
	assert.Error(t, err)

	_, err = parseAssetList("USDC:300")
	assert.Error(t, err)
}
