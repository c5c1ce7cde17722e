package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
contracts:
  nftCollectionAddress: "0xE881b8400268D2c77fa0411c5fC4C5B7b0407DcB"
`

func TestParse_Defaults(t *testing.T) {
	t.Setenv(SecretKeyEnv, "secret-from-env")

	cfg, err := Parse([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "sepolia", cfg.Network.Identifier)
	assert.Equal(t, time.Second, cfg.RevalidateAfter())
	assert.True(t, cfg.PrerenderEnabled())
	assert.Equal(t, 4, cfg.Pages.PrerenderConcurrency)
	assert.Equal(t, 50, cfg.RpcClient.BatchSize)
	assert.Equal(t, "https://ipfs.io/ipfs", cfg.Metadata.IPFSGatewayURL)
	assert.Equal(t, "0xE881b8400268D2c77fa0411c5fC4C5B7b0407DcB", cfg.ClaimEmbed.ContractAddress)
	assert.Equal(t, "dark", cfg.ClaimEmbed.Theme)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "secret-from-env", cfg.SecretKey)
}

func TestParse_Overrides(t *testing.T) {
	raw := `
server:
  port: "9090"
network:
  identifier: Polygon
contracts:
  marketplaceAddress: "0xD8Fb95821C95241008acb3460C8966a9ca3cC652"
  nftCollectionAddress: "0xE881b8400268D2c77fa0411c5fC4C5B7b0407DcB"
  deployBlock: 4000000
explorer:
  url: "https://polygonscan.com"
pages:
  revalidateSeconds: 30
  prerender: false
authorizedAddresses:
  - "0xc548Ac07F05cE4F0E8f653203411C15F25309fEf"
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "polygon", cfg.Network.Identifier)
	assert.Equal(t, uint64(4000000), cfg.Contracts.DeployBlock)
	assert.Equal(t, 30*time.Second, cfg.RevalidateAfter())
	assert.False(t, cfg.PrerenderEnabled())
	assert.True(t, cfg.IsAuthorized("0xC548AC07F05CE4F0E8F653203411C15F25309FEF"))
	assert.False(t, cfg.IsAuthorized("0x81948B66C408887c7705B10542ceF3063aA0a4B8"))
}

func TestParse_InvalidCollectionAddress(t *testing.T) {
	_, err := Parse([]byte("contracts:\n  nftCollectionAddress: \"not-an-address\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nftCollectionAddress")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0xE881b8400268D2c77fa0411c5fC4C5B7b0407DcB", cfg.Contracts.NFTCollectionAddress)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
