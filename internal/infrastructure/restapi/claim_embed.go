package restapi

import (
	"fmt"
	"net/url"
	"strings"

	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// embedChain is the chain description the claim widget expects. Field order is kept in the encoded URL.
type embedChain struct {
	Name           string                `json:"name"`
	Chain          string                `json:"chain"`
	RPC            []string              `json:"rpc"`
	NativeCurrency entity.NativeCurrency `json:"nativeCurrency"`
	ShortName      string                `json:"shortName"`
	ChainID        uint64                `json:"chainId"`
	Testnet        bool                  `json:"testnet"`
	Slug           string                `json:"slug"`
	Icon           *embedChainIcon       `json:"icon,omitempty"`
}

type embedChainIcon struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// BuildClaimEmbedURL builds the iframe source of the claim page for the given network.
func BuildClaimEmbedURL(cfg config.ClaimEmbedConfig, netDef entity.NetworkDefinition) (string, error) {
	chain := embedChain{
		Name:           netDef.Name,
		Chain:          netDef.Chain,
		RPC:            []string{fmt.Sprintf(cfg.RPCTemplate, netDef.ChainID)},
		NativeCurrency: netDef.NativeCurrency,
		ShortName:      netDef.ShortName,
		ChainID:        netDef.ChainID,
		Testnet:        netDef.Testnet,
		Slug:           netDef.Identifier,
	}
	if cfg.ChainIconURL != "" {
		format := "png"
		if dot := strings.LastIndex(cfg.ChainIconURL, "."); dot >= 0 {
			format = strings.ToLower(cfg.ChainIconURL[dot+1:])
		}
		chain.Icon = &embedChainIcon{URL: cfg.ChainIconURL, Width: 512, Height: 512, Format: format}
	}

	chainJSON, err := json.Marshal(chain)
	if err != nil {
		return "", fmt.Errorf("failed to encode claim chain: %w", err)
	}

	// Query parameters in the order the widget documents them.
	params := [][2]string{
		{"contract", cfg.ContractAddress},
		{"chain", string(chainJSON)},
		{"clientId", cfg.ClientID},
		{"tokenId", cfg.TokenID},
		{"theme", cfg.Theme},
		{"primaryColor", cfg.PrimaryColor},
	}
	var query strings.Builder
	for _, p := range params {
		if p[1] == "" {
			continue
		}
		if query.Len() > 0 {
			query.WriteByte('&')
		}
		query.WriteString(p[0])
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(p[1]))
	}
	return cfg.BaseURL + "?" + query.String(), nil
}
