package entity

// EventKind labels a history row.
type EventKind string

const (
	EventMint     EventKind = "Mint"
	EventTransfer EventKind = "Transfer"
)

// HistoryRow is a display-ready transfer record. Addresses are kept in full;
// shortening happens when the page is rendered.
type HistoryRow struct {
	Kind     EventKind `json:"kind"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Quantity string    `json:"quantity"`
	TxHash   string    `json:"transactionHash"`
	TxURL    string    `json:"transactionUrl"`
}
