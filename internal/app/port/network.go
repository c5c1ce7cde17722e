package port

import (
	"context"

	"nft_marketplace/internal/domain/entity"
)

// ContractFacade is the read/query surface of a deployed ERC-1155 collection.
type ContractFacade interface {
	// GetAllTokens enumerates every token of the collection with its metadata, ordered by id.
	GetAllTokens(ctx context.Context, collectionAddress string) ([]entity.TokenMetadata, error)

	// GetToken returns one token. It fails with entity.ErrTokenNotFound for ids that were never minted.
	GetToken(ctx context.Context, collectionAddress string, tokenID string) (*entity.TokenMetadata, error)

	// GetCollectionMetadata returns the contract-level metadata. It fails if the metadata is unset or unreachable.
	GetCollectionMetadata(ctx context.Context, collectionAddress string) (*entity.CollectionMetadata, error)

	// QueryTransferEvents returns the TransferSingle events of one token in the requested order.
	QueryTransferEvents(ctx context.Context, collectionAddress string, tokenID string, order entity.EventOrder) ([]entity.TransferEvent, error)
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all available network definitions as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a specific network definition by its identifier.
	// Возвращает определение и true, если найдено, иначе false.
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)
}

// ContractFacadeProvider hands out facades bound to a network.
type ContractFacadeProvider interface {
	GetFacade(ctx context.Context, networkDefinition entity.NetworkDefinition) (ContractFacade, error)

	// Close releases every connection handed out so far.
	Close()
}
