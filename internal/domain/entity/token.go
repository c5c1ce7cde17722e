package entity

import "math/big"

// Attribute is a single trait of a token, kept as a (name, value) pair in metadata order.
type Attribute struct {
	TraitType string `json:"traitType"`
	Value     string `json:"value"`
}

// TokenMetadata is a read-only snapshot of one token of an ERC-1155 collection.
type TokenMetadata struct {
	ID          string      `json:"id"`
	URI         string      `json:"uri,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image,omitempty"`
	Attributes  []Attribute `json:"attributes"`
	Supply      *big.Int    `json:"supply"`
}

// CollectionMetadata describes the parent contract. A nil *CollectionMetadata means "unavailable".
type CollectionMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}
