package service

import (
	"context"
	"sync/atomic"
	"time"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

const homePageKey = "/"

// PageProviderImpl implements port.PageProvider on top of the output caches.
type PageProviderImpl struct {
	svc                  port.TokenPageService
	tokenPages           *PageCache[*entity.TokenPage]
	homePages            *PageCache[[]entity.TokenMetadata]
	prerenderConcurrency int
	logger               port.Logger
}

// NewPageProvider creates a new instance of PageProviderImpl.
func NewPageProvider(svc port.TokenPageService, cfg *config.Config, l port.Logger) *PageProviderImpl {
	revalidate := cfg.RevalidateAfter()
	renderTimeout := time.Duration(cfg.Pages.RenderTimeoutMs) * time.Millisecond
	expiration := time.Duration(cfg.Cache.DefaultExpirationMinutes) * time.Minute
	cleanup := time.Duration(cfg.Cache.CleanupIntervalMinutes) * time.Minute

	return &PageProviderImpl{
		svc:                  svc,
		tokenPages:           NewPageCache[*entity.TokenPage](revalidate, renderTimeout, expiration, cleanup, l),
		homePages:            NewPageCache[[]entity.TokenMetadata](revalidate, renderTimeout, expiration, cleanup, l),
		prerenderConcurrency: max(cfg.Pages.PrerenderConcurrency, 1),
		logger:               l,
	}
}

// TokenPage implements port.PageProvider. Unknown ids are rendered on first request.
func (p *PageProviderImpl) TokenPage(ctx context.Context, tokenID string) (*entity.TokenPage, error) {
	_, canonicalID, err := entity.ParseTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	route := entity.TokenRoute{ContractAddress: p.svc.CollectionAddress(), TokenID: canonicalID}
	return p.tokenPages.Get(ctx, route.CacheKey(), func(ctx context.Context) (*entity.TokenPage, error) {
		return p.svc.LoadTokenPage(ctx, canonicalID)
	})
}

// CollectionTokens implements port.PageProvider.
func (p *PageProviderImpl) CollectionTokens(ctx context.Context) ([]entity.TokenMetadata, error) {
	return p.homePages.Get(ctx, homePageKey, p.svc.ListTokens)
}

// Prerender implements port.PageProvider: every static path is rendered into the cache.
// A token that fails to render is left for lazy rendering; failing to enumerate is fatal.
func (p *PageProviderImpl) Prerender(ctx context.Context) (int, error) {
	routes, err := p.svc.StaticPaths(ctx)
	if err != nil {
		return 0, err
	}
	p.logger.Info("Prerendering token pages", "routes", len(routes), "concurrency", p.prerenderConcurrency)

	var rendered atomic.Int64
	var g errgroup.Group
	g.SetLimit(p.prerenderConcurrency)
	for _, route := range routes {
		route := route
		g.Go(func() error {
			page, err := p.svc.LoadTokenPage(ctx, route.TokenID)
			if err != nil {
				p.logger.Warn("Prerender failed, page will render on demand", "path", route.Path(), "error", err)
				return nil
			}
			p.tokenPages.Put(route.CacheKey(), page)
			rendered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	p.logger.Info("Prerender finished", "rendered", rendered.Load(), "routes", len(routes))
	return int(rendered.Load()), nil
}

// WaitIdle blocks until background regenerations have finished.
func (p *PageProviderImpl) WaitIdle() {
	p.tokenPages.WaitIdle()
	p.homePages.WaitIdle()
}

var _ port.PageProvider = (*PageProviderImpl)(nil)
