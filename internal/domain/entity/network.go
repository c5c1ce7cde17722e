package entity

// NativeCurrency describes the gas token of a network.
type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals int32  `json:"decimals" yaml:"decimals"`
}

// NetworkDefinition holds the configuration for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID          uint64         `json:"chainId" yaml:"chainId"`
	Name             string         `json:"name" yaml:"name"`
	Identifier       string         `json:"identifier" yaml:"identifier"`
	ShortName        string         `json:"shortName" yaml:"shortName"`
	Chain            string         `json:"chain" yaml:"chain"`
	NativeCurrency   NativeCurrency `json:"nativeCurrency" yaml:"nativeCurrency"`
	Testnet          bool           `json:"testnet" yaml:"testnet"`
	PrimaryRPCURL    string         `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string       `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL string         `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}
