package port

import (
	"context"

	"nft_marketplace/internal/domain/entity"
)

// MetadataFetcher downloads off-chain metadata documents referenced by token and contract URIs.
type MetadataFetcher interface {
	// FetchTokenMetadata fills name, description, image and attributes from the document at uri.
	FetchTokenMetadata(ctx context.Context, uri string) (*entity.TokenMetadata, error)

	// FetchCollectionMetadata decodes the contract metadata document at uri.
	FetchCollectionMetadata(ctx context.Context, uri string) (*entity.CollectionMetadata, error)
}
