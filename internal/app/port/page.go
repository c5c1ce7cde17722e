package port

import (
	"context"

	"nft_marketplace/internal/domain/entity"
)

// TokenPageService assembles the data behind the token pages.
type TokenPageService interface {
	// StaticPaths enumerates the route of every token known at build time.
	StaticPaths(ctx context.Context) ([]entity.TokenRoute, error)

	// LoadTokenPage fetches the token, its collection and its transfer history.
	LoadTokenPage(ctx context.Context, tokenID string) (*entity.TokenPage, error)

	// ListTokens returns the collection for the home page.
	ListTokens(ctx context.Context) ([]entity.TokenMetadata, error)

	// CollectionAddress is the address every route is generated for.
	CollectionAddress() string
}

// PageProvider serves rendered page data from the output cache.
type PageProvider interface {
	TokenPage(ctx context.Context, tokenID string) (*entity.TokenPage, error)
	CollectionTokens(ctx context.Context) ([]entity.TokenMetadata, error)
	Prerender(ctx context.Context) (int, error)
}
