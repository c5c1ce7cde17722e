package networkdefinition

import (
	"errors"
	"testing"

	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func TestNetworkDefinitionProvider_Defaults(t *testing.T) {
	p := NewNetworkDefinitionProvider(nopLogger{}, config.NetworkConfig{Identifier: "sepolia"})

	def, err := p.Resolve("Sepolia")
	require.NoError(t, err)
	assert.Equal(t, uint64(11155111), def.ChainID)
	assert.Equal(t, "https://sepolia.etherscan.io", def.BlockExplorerURL)
	assert.True(t, def.Testnet)

	byChain, ok := p.GetNetworkDefinitionByChainID(137)
	require.True(t, ok)
	assert.Equal(t, "polygon", byChain.Identifier)

	all := p.GetAllNetworkDefinitions()
	require.Len(t, all, len(allKnownDefinitions))
	assert.Equal(t, uint64(1), all[0].ChainID)
}

func TestNetworkDefinitionProvider_RPCOverride(t *testing.T) {
	p := NewNetworkDefinitionProvider(nopLogger{}, config.NetworkConfig{
		Identifier: "sepolia",
		RPCURLs:    []string{"http://primary.local", "http://fallback.local"},
	})

	def, err := p.Resolve("sepolia")
	require.NoError(t, err)
	assert.Equal(t, "http://primary.local", def.PrimaryRPCURL)
	assert.Equal(t, []string{"http://fallback.local"}, def.FallbackRPCURLs)
	assert.Equal(t, "https://11155111.rpc.thirdweb.com", Sepolia.PrimaryRPCURL)
}

func TestNetworkDefinitionProvider_Unknown(t *testing.T) {
	p := NewNetworkDefinitionProvider(nopLogger{}, config.NetworkConfig{Identifier: "goerli"})

	_, err := p.Resolve("goerli")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrUnknownNetwork))
}
