package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	allNetworkDefs map[string]entity.NetworkDefinition
}

var ether = entity.NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Sepolia = entity.NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia",
		Identifier:       "sepolia",
		ShortName:        "sep",
		Chain:            "ETH",
		NativeCurrency:   entity.NativeCurrency{Name: "Sepolia Ether", Symbol: "ETH", Decimals: 18},
		Testnet:          true,
		PrimaryRPCURL:    "https://11155111.rpc.thirdweb.com",
		FallbackRPCURLs:  []string{"https://ethereum-sepolia-rpc.publicnode.com", "https://rpc.sepolia.org"},
		BlockExplorerURL: "https://sepolia.etherscan.io",
	}
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		ShortName:        "eth",
		Chain:            "ETH",
		NativeCurrency:   ether,
		PrimaryRPCURL:    "https://1.rpc.thirdweb.com",
		FallbackRPCURLs:  []string{"https://ethereum-rpc.publicnode.com", "https://rpc.ankr.com/eth"},
		BlockExplorerURL: "https://etherscan.io",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon Mainnet",
		Identifier:       "polygon",
		ShortName:        "matic",
		Chain:            "Polygon",
		NativeCurrency:   entity.NativeCurrency{Name: "MATIC", Symbol: "MATIC", Decimals: 18},
		PrimaryRPCURL:    "https://137.rpc.thirdweb.com",
		FallbackRPCURLs:  []string{"https://polygon-rpc.com/", "https://polygon.publicnode.com"},
		BlockExplorerURL: "https://polygonscan.com",
	}
	Mumbai = entity.NetworkDefinition{
		ChainID:          80001,
		Name:             "Mumbai",
		Identifier:       "mumbai",
		ShortName:        "maticmum",
		Chain:            "Polygon",
		NativeCurrency:   entity.NativeCurrency{Name: "MATIC", Symbol: "MATIC", Decimals: 18},
		Testnet:          true,
		PrimaryRPCURL:    "https://80001.rpc.thirdweb.com",
		FallbackRPCURLs:  []string{},
		BlockExplorerURL: "https://mumbai.polygonscan.com",
	}
	Base = entity.NetworkDefinition{
		ChainID:          8453,
		Name:             "Base",
		Identifier:       "base",
		ShortName:        "base",
		Chain:            "ETH",
		NativeCurrency:   ether,
		PrimaryRPCURL:    "https://8453.rpc.thirdweb.com",
		FallbackRPCURLs:  []string{"https://base.publicnode.com", "https://1rpc.io/base"},
		BlockExplorerURL: "https://basescan.org",
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		ShortName:        "arb1",
		Chain:            "ETH",
		NativeCurrency:   ether,
		PrimaryRPCURL:    "https://42161.rpc.thirdweb.com",
		FallbackRPCURLs:  []string{"https://arb1.arbitrum.io/rpc", "https://arbitrum.publicnode.com"},
		BlockExplorerURL: "https://arbiscan.io",
	}
	Optimism = entity.NetworkDefinition{
		ChainID:          10,
		Name:             "OP Mainnet",
		Identifier:       "optimism",
		ShortName:        "oeth",
		Chain:            "ETH",
		NativeCurrency:   ether,
		PrimaryRPCURL:    "https://10.rpc.thirdweb.com",
		FallbackRPCURLs:  []string{"https://optimism.publicnode.com", "https://rpc.ankr.com/optimism"},
		BlockExplorerURL: "https://optimistic.etherscan.io",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Sepolia.Identifier:  Sepolia,
	Ethereum.Identifier: Ethereum,
	Polygon.Identifier:  Polygon,
	Mumbai.Identifier:   Mumbai,
	Base.Identifier:     Base,
	Arbitrum.Identifier: Arbitrum,
	Optimism.Identifier: Optimism,
}

// NewNetworkDefinitionProvider creates a new NetworkDefinitionProvider.
// RPC URLs from the network config replace the built-in endpoints of the configured network.
func NewNetworkDefinitionProvider(log port.Logger, netCfg config.NetworkConfig) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:         log,
		allNetworkDefs: make(map[string]entity.NetworkDefinition, len(allKnownDefinitions)),
	}
	for id, def := range allKnownDefinitions {
		def.FallbackRPCURLs = append([]string(nil), def.FallbackRPCURLs...)
		p.allNetworkDefs[id] = def
	}

	identifier := strings.ToLower(netCfg.Identifier)
	def, ok := p.allNetworkDefs[identifier]
	if !ok {
		p.logger.Warn(fmt.Sprintf("Network '%s' has no hardcoded definition.", netCfg.Identifier))
		return p
	}

	if len(netCfg.RPCURLs) > 0 {
		def.PrimaryRPCURL = netCfg.RPCURLs[0]
		def.FallbackRPCURLs = append([]string(nil), netCfg.RPCURLs[1:]...)
		p.allNetworkDefs[identifier] = def
		p.logger.Info(fmt.Sprintf("Network '%s' uses %d configured RPC endpoint(s).", def.Name, len(netCfg.RPCURLs)))
	}

	p.logger.Debug(fmt.Sprintf("  - Active network: %s (ID: %s, ChainID: %d)", def.Name, def.Identifier, def.ChainID))
	return p
}

// GetAllNetworkDefinitions returns every known network definition ordered by chain id.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.allNetworkDefs))
	for _, def := range p.allNetworkDefs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.allNetworkDefs[strings.ToLower(identifier)]
	return def, ok
}

// GetNetworkDefinitionByChainID returns a specific network definition by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.allNetworkDefs {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// Resolve returns the definition of the configured network or entity.ErrUnknownNetwork.
func (p *NetworkDefinitionProvider) Resolve(identifier string) (entity.NetworkDefinition, error) {
	def, ok := p.GetNetworkDefinitionByName(identifier)
	if !ok {
		return entity.NetworkDefinition{}, fmt.Errorf("%w: %s", entity.ErrUnknownNetwork, identifier)
	}
	return def, nil
}
