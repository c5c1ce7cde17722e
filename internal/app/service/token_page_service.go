package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"
	"nft_marketplace/internal/pkg/metrics"
	"nft_marketplace/internal/pkg/utils"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// TokenPageServiceImpl implements port.TokenPageService.
type TokenPageServiceImpl struct {
	facade            port.ContractFacade
	collectionAddress string
	explorerURL       string
	gradientFrom      string
	gradientTo        string
	logger            port.Logger
	now               func() time.Time
}

// NewTokenPageService creates a new instance of TokenPageServiceImpl.
// The owner gradient colours are picked once per instance.
func NewTokenPageService(
	facade port.ContractFacade,
	cfg *config.Config,
	netDef entity.NetworkDefinition,
	l port.Logger,
) *TokenPageServiceImpl {
	return &TokenPageServiceImpl{
		facade:            facade,
		collectionAddress: cfg.Contracts.NFTCollectionAddress,
		explorerURL:       lo.Ternary(cfg.Explorer.URL != "", cfg.Explorer.URL, netDef.BlockExplorerURL),
		gradientFrom:      utils.RandomColor(),
		gradientTo:        utils.RandomColor(),
		logger:            l,
		now:               time.Now,
	}
}

// CollectionAddress implements port.TokenPageService.
func (s *TokenPageServiceImpl) CollectionAddress() string {
	return s.collectionAddress
}

// StaticPaths implements port.TokenPageService. One route per distinct token id, in facade order.
func (s *TokenPageServiceImpl) StaticPaths(ctx context.Context) ([]entity.TokenRoute, error) {
	tokens, err := s.facade.GetAllTokens(ctx, s.collectionAddress)
	if err != nil {
		s.logger.Error("Failed to enumerate collection", "collection", s.collectionAddress, "error", err)
		return nil, fmt.Errorf("failed to enumerate tokens of %s: %w", s.collectionAddress, err)
	}

	unique := lo.UniqBy(tokens, func(t entity.TokenMetadata) string { return t.ID })
	routes := lo.Map(unique, func(t entity.TokenMetadata, _ int) entity.TokenRoute {
		return entity.TokenRoute{ContractAddress: s.collectionAddress, TokenID: t.ID}
	})
	s.logger.Debug("Static paths enumerated", "count", len(routes))
	return routes, nil
}

// ListTokens implements port.TokenPageService.
func (s *TokenPageServiceImpl) ListTokens(ctx context.Context) ([]entity.TokenMetadata, error) {
	tokens, err := s.facade.GetAllTokens(ctx, s.collectionAddress)
	metrics.PageRenders.WithLabelValues("home", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens of %s: %w", s.collectionAddress, err)
	}
	return tokens, nil
}

// LoadTokenPage implements port.TokenPageService.
// Only the token fetch can fail the page; collection metadata and history degrade to absent/empty.
func (s *TokenPageServiceImpl) LoadTokenPage(ctx context.Context, tokenID string) (*entity.TokenPage, error) {
	_, canonicalID, err := entity.ParseTokenID(tokenID)
	if err != nil {
		return nil, err
	}

	var (
		token      *entity.TokenMetadata
		collection *entity.CollectionMetadata
		history    []entity.HistoryRow
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		token, err = s.facade.GetToken(gCtx, s.collectionAddress, canonicalID)
		if err != nil {
			return fmt.Errorf("failed to load token %s: %w", canonicalID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		collection, err = s.facade.GetCollectionMetadata(gCtx, s.collectionAddress)
		if err != nil {
			metrics.BestEffortFailures.WithLabelValues("collection").Inc()
			s.logger.Warn("Collection metadata unavailable", "collection", s.collectionAddress, "error", err)
			collection = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = s.LoadHistory(gCtx, canonicalID)
		if err != nil {
			metrics.BestEffortFailures.WithLabelValues("history").Inc()
			s.logger.Warn("Transfer history unavailable", "tokenId", canonicalID, "error", err)
			history = []entity.HistoryRow{}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.PageRenders.WithLabelValues("token", renderResult(err)).Inc()
		return nil, err
	}
	metrics.PageRenders.WithLabelValues("token", "ok").Inc()

	return &entity.TokenPage{
		ContractAddress: s.collectionAddress,
		Token:           *token,
		Collection:      collection,
		History:         history,
		GradientFrom:    s.gradientFrom,
		GradientTo:      s.gradientTo,
		RenderedAt:      s.now(),
	}, nil
}

// LoadHistory fetches the transfers of one token, newest first, as display rows.
func (s *TokenPageServiceImpl) LoadHistory(ctx context.Context, tokenID string) ([]entity.HistoryRow, error) {
	events, err := s.facade.QueryTransferEvents(ctx, s.collectionAddress, tokenID, entity.OrderDescending)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer events of token %s: %w", tokenID, err)
	}
	return AssembleHistory(events, s.explorerURL), nil
}

func renderResult(err error) string {
	if errors.Is(err, entity.ErrTokenNotFound) {
		return "not_found"
	}
	return metrics.Result(err)
}

var _ port.TokenPageService = (*TokenPageServiceImpl)(nil)
