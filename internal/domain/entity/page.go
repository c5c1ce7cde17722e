package entity

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// TokenRoute is the parameter set of one pre-rendered token page.
type TokenRoute struct {
	ContractAddress string `json:"contractAddress"`
	TokenID         string `json:"tokenId"`
}

// Path returns the URL path of the route.
func (r TokenRoute) Path() string {
	return fmt.Sprintf("/token/%s/%s", r.ContractAddress, r.TokenID)
}

// CacheKey identifies the route in the page cache. Contract addresses are case-insensitive.
func (r TokenRoute) CacheKey() string {
	return fmt.Sprintf("/token/%s/%s", strings.ToLower(r.ContractAddress), r.TokenID)
}

// TokenPage is the view model of the token detail page.
type TokenPage struct {
	ContractAddress string              `json:"contractAddress"`
	Token           TokenMetadata       `json:"token"`
	Collection      *CollectionMetadata `json:"collection"`
	History         []HistoryRow        `json:"history"`
	GradientFrom    string              `json:"-"`
	GradientTo      string              `json:"-"`
	RenderedAt      time.Time           `json:"renderedAt"`
}

// ParseTokenID validates a decimal token id and returns its canonical form ("007" -> "7").
func ParseTokenID(raw string) (*big.Int, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "", fmt.Errorf("%w: empty", ErrInvalidTokenID)
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return nil, "", fmt.Errorf("%w: %q", ErrInvalidTokenID, raw)
		}
	}
	id, ok := new(big.Int).SetString(raw, 10)
	if !ok || id.BitLen() > 256 {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidTokenID, raw)
	}
	return id, id.String(), nil
}
