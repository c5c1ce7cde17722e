package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SecretKeyEnv is the environment variable holding the RPC / storage gateway credential.
const SecretKeyEnv = "TW_SECRET_KEY"

// Config holds the overall configuration for the application.
type Config struct {
	Server              ServerConfig     `yaml:"server"`
	Network             NetworkConfig    `yaml:"network"`
	Contracts           ContractsConfig  `yaml:"contracts"`
	Explorer            ExplorerConfig   `yaml:"explorer"`
	AuthorizedAddresses []string         `yaml:"authorizedAddresses"`
	RpcClient           RpcClientConfig  `yaml:"rpcClient"`
	Metadata            MetadataConfig   `yaml:"metadata"`
	Pages               PagesConfig      `yaml:"pages"`
	ClaimEmbed          ClaimEmbedConfig `yaml:"claimEmbed"`
	Logging             LoggingConfig    `yaml:"logging"`
	Swagger             SwaggerConfig    `yaml:"swagger"`
	Cache               CacheConfig      `yaml:"cache"`

	// SecretKey is read from the environment, never from the YAML file.
	SecretKey string `yaml:"-"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
	EnablePprof  bool   `yaml:"enablePprof"`
}

// NetworkConfig selects the chain the contracts live on.
type NetworkConfig struct {
	Identifier string   `yaml:"identifier"` // e.g. "sepolia", "polygon"
	RPCURLs    []string `yaml:"rpcURLs"`    // overrides the built-in endpoints when set
}

// ContractsConfig holds the deployed contract addresses.
type ContractsConfig struct {
	MarketplaceAddress   string `yaml:"marketplaceAddress"`
	NFTCollectionAddress string `yaml:"nftCollectionAddress"`
	DeployBlock          uint64 `yaml:"deployBlock"` // first block scanned for transfer events
}

// ExplorerConfig holds the block explorer used for transaction links.
type ExplorerConfig struct {
	URL string `yaml:"url"` // defaults to the network's explorer
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	DefaultTimeoutMs      int64  `yaml:"defaultTimeoutMs"`
	ConnectTimeoutMs      int64  `yaml:"connectTimeoutMs"`
	RateLimit             int    `yaml:"rateLimit"` // calls per second, 0 disables limiting
	BurstLimit            int    `yaml:"burstLimit"`
	BatchSize             int    `yaml:"batchSize"`      // token ids per JSON-RPC batch
	LogsBlockRange        uint64 `yaml:"logsBlockRange"` // 0 queries all blocks at once
	MaxConcurrentRequests int    `yaml:"maxConcurrentRequests"`
}

// MetadataConfig holds configuration for fetching token and contract metadata documents.
type MetadataConfig struct {
	IPFSGatewayURL       string `yaml:"ipfsGatewayURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// PagesConfig controls pre-rendering and regeneration of pages.
type PagesConfig struct {
	RevalidateSeconds    int   `yaml:"revalidateSeconds"`
	Prerender            *bool `yaml:"prerender"`
	PrerenderConcurrency int   `yaml:"prerenderConcurrency"`
	PrerenderTimeoutSec  int   `yaml:"prerenderTimeoutSec"`
	RenderTimeoutMs      int64 `yaml:"renderTimeoutMs"`
}

// ClaimEmbedConfig describes the third-party claim widget shown on /claim.
type ClaimEmbedConfig struct {
	BaseURL         string `yaml:"baseURL"`
	ContractAddress string `yaml:"contractAddress"`
	ClientID        string `yaml:"clientId"`
	TokenID         string `yaml:"tokenId"`
	Theme           string `yaml:"theme"`
	PrimaryColor    string `yaml:"primaryColor"`
	RPCTemplate     string `yaml:"rpcTemplate"` // %d is replaced by the chain id
	ChainIconURL    string `yaml:"chainIconURL"`
	Height          string `yaml:"height"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
	File   string `yaml:"file"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Path     string `yaml:"path"`
	SpecFile string `yaml:"specFile"`
}

// CacheConfig holds configuration for the page cache.
type CacheConfig struct {
	DefaultExpirationMinutes int `yaml:"defaultExpirationMinutes"` // 0 keeps pages until restart
	CleanupIntervalMinutes   int `yaml:"cleanupIntervalMinutes"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse decodes YAML configuration, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.SecretKey = os.Getenv(SecretKeyEnv)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if !strings.Contains(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Network.Identifier == "" {
		cfg.Network.Identifier = "sepolia"
		logrus.Infof("Network.Identifier not set, defaulting to %s", cfg.Network.Identifier)
	}
	cfg.Network.Identifier = strings.ToLower(cfg.Network.Identifier)

	if cfg.RpcClient.DefaultTimeoutMs == 0 {
		cfg.RpcClient.DefaultTimeoutMs = 10000
	}
	if cfg.RpcClient.ConnectTimeoutMs == 0 {
		cfg.RpcClient.ConnectTimeoutMs = 10000
	}
	if cfg.RpcClient.BurstLimit == 0 && cfg.RpcClient.RateLimit > 0 {
		cfg.RpcClient.BurstLimit = cfg.RpcClient.RateLimit
	}
	if cfg.RpcClient.BatchSize <= 0 {
		cfg.RpcClient.BatchSize = 50
	}
	if cfg.RpcClient.MaxConcurrentRequests <= 0 {
		cfg.RpcClient.MaxConcurrentRequests = 8
	}

	if cfg.Metadata.IPFSGatewayURL == "" {
		cfg.Metadata.IPFSGatewayURL = "https://ipfs.io/ipfs"
		logrus.Infof("Metadata.IPFSGatewayURL not set, defaulting to %s", cfg.Metadata.IPFSGatewayURL)
	}
	if cfg.Metadata.RequestTimeoutMillis == 0 {
		cfg.Metadata.RequestTimeoutMillis = 10000 // Default to 10 seconds
	}

	if cfg.Pages.RevalidateSeconds <= 0 {
		cfg.Pages.RevalidateSeconds = 1
	}
	if cfg.Pages.Prerender == nil {
		enabled := true
		cfg.Pages.Prerender = &enabled
	}
	if cfg.Pages.PrerenderConcurrency <= 0 {
		cfg.Pages.PrerenderConcurrency = 4
	}
	if cfg.Pages.PrerenderTimeoutSec <= 0 {
		cfg.Pages.PrerenderTimeoutSec = 300
	}
	if cfg.Pages.RenderTimeoutMs <= 0 {
		cfg.Pages.RenderTimeoutMs = 30000
	}

	if cfg.ClaimEmbed.BaseURL == "" {
		cfg.ClaimEmbed.BaseURL = "https://embed.ipfscdn.io/ipfs/bafybeigdie2yyiazou7grjowoevmuip6akk33nqb55vrpezqdwfssrxyfy/erc1155.html"
	}
	if cfg.ClaimEmbed.ContractAddress == "" {
		cfg.ClaimEmbed.ContractAddress = cfg.Contracts.NFTCollectionAddress
	}
	if cfg.ClaimEmbed.TokenID == "" {
		cfg.ClaimEmbed.TokenID = "0"
	}
	if cfg.ClaimEmbed.Theme == "" {
		cfg.ClaimEmbed.Theme = "dark"
	}
	if cfg.ClaimEmbed.PrimaryColor == "" {
		cfg.ClaimEmbed.PrimaryColor = "purple"
	}
	if cfg.ClaimEmbed.RPCTemplate == "" {
		cfg.ClaimEmbed.RPCTemplate = "https://%d.rpc.thirdweb.com/${THIRDWEB_API_KEY}"
	}
	if cfg.ClaimEmbed.ChainIconURL == "" {
		cfg.ClaimEmbed.ChainIconURL = "ipfs://QmcxZHpyJa8T4i63xqjPYrZ6tKrt55tZJpbXcjSDKuKaf9/ethereum/512.png"
	}
	if cfg.ClaimEmbed.Height == "" {
		cfg.ClaimEmbed.Height = "750px"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
	if cfg.Swagger.SpecFile == "" {
		cfg.Swagger.SpecFile = "./docs/swagger.yaml"
	}

	if cfg.Cache.CleanupIntervalMinutes <= 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}
}

func (cfg *Config) validate() error {
	if !common.IsHexAddress(cfg.Contracts.NFTCollectionAddress) {
		return fmt.Errorf("contracts.nftCollectionAddress %q is not a valid address", cfg.Contracts.NFTCollectionAddress)
	}
	if cfg.Contracts.MarketplaceAddress != "" && !common.IsHexAddress(cfg.Contracts.MarketplaceAddress) {
		return fmt.Errorf("contracts.marketplaceAddress %q is not a valid address", cfg.Contracts.MarketplaceAddress)
	}
	for _, addr := range cfg.AuthorizedAddresses {
		if !common.IsHexAddress(addr) {
			logrus.Warnf("Authorized address %q is not a valid address, it will never match", addr)
		}
	}
	return nil
}

// RevalidateAfter is the freshness window of rendered pages.
func (cfg *Config) RevalidateAfter() time.Duration {
	return time.Duration(cfg.Pages.RevalidateSeconds) * time.Second
}

// PrerenderEnabled reports whether token pages are rendered at startup.
func (cfg *Config) PrerenderEnabled() bool {
	return cfg.Pages.Prerender != nil && *cfg.Pages.Prerender
}

// IsAuthorized reports whether address is on the sell allow-list.
func (cfg *Config) IsAuthorized(address string) bool {
	for _, allowed := range cfg.AuthorizedAddresses {
		if strings.EqualFold(strings.TrimSpace(allowed), strings.TrimSpace(address)) {
			return true
		}
	}
	return false
}
