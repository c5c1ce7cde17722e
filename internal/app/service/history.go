package service

import (
	"nft_marketplace/internal/domain/entity"
	"nft_marketplace/internal/pkg/utils"
)

// AssembleHistory turns newest-first TransferSingle events into display rows.
// The oldest event (last index) is labelled Mint, every other one Transfer.
func AssembleHistory(events []entity.TransferEvent, explorerURL string) []entity.HistoryRow {
	rows := make([]entity.HistoryRow, len(events))
	for i, event := range events {
		kind := entity.EventTransfer
		if i == len(events)-1 {
			kind = entity.EventMint
		}
		rows[i] = entity.HistoryRow{
			Kind:     kind,
			From:     event.From,
			To:       event.To,
			Quantity: utils.FormatBigInt(event.Value),
			TxHash:   event.TxHash,
			TxURL:    utils.TxURL(explorerURL, event.TxHash),
		}
	}
	return rows
}
