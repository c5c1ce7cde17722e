package entity

import "math/big"

// EventOrder is the ordering requested from an event query.
type EventOrder int

const (
	// OrderDescending returns the newest event first.
	OrderDescending EventOrder = iota
	// OrderAscending returns the oldest event first.
	OrderAscending
)

// TransferEvent is one decoded TransferSingle log of the collection.
type TransferEvent struct {
	Operator    string   `json:"operator"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	TokenID     *big.Int `json:"tokenId"`
	Value       *big.Int `json:"value"`
	TxHash      string   `json:"transactionHash"`
	BlockNumber uint64   `json:"blockNumber"`
	LogIndex    uint     `json:"logIndex"`
}
