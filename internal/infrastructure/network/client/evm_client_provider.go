package client

import (
	"context"
	"fmt"
	"sync"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"

	"go.uber.org/zap"
)

// evmClientProvider implements the port.ContractFacadeProvider interface.
type evmClientProvider struct {
	cfg      *config.Config
	metadata port.MetadataFetcher
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[string]*EVMClient
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(cfg *config.Config, metadata port.MetadataFetcher, logger *zap.Logger) port.ContractFacadeProvider {
	return &evmClientProvider{
		cfg:      cfg,
		metadata: metadata,
		logger:   logger.Named("EVMClientProvider"),
		clients:  make(map[string]*EVMClient),
	}
}

// GetFacade retrieves a contract facade for the given network definition.
// It caches clients to avoid reconnecting repeatedly.
func (p *evmClientProvider) GetFacade(ctx context.Context, netDef entity.NetworkDefinition) (port.ContractFacade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	clientKey := fmt.Sprintf("%d:%s", netDef.ChainID, netDef.Identifier)
	if client, exists := p.clients[clientKey]; exists {
		p.logger.Debug("Returning cached EVM client", zap.String("network", netDef.Name))
		return client, nil
	}

	p.logger.Info("Creating new EVM client", zap.String("network", netDef.Name), zap.String("rpc_primary", netDef.PrimaryRPCURL))
	newClient, err := NewEVMClient(netDef, p.cfg, p.metadata, p.logger)
	if err != nil {
		p.logger.Error("Failed to create EVM client", zap.String("network", netDef.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[clientKey] = newClient
	p.logger.Info("Successfully created and cached new EVM client", zap.String("network", netDef.Name))
	return newClient, nil
}

// Close closes every cached client.
func (p *evmClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, client := range p.clients {
		client.Close()
		delete(p.clients, key)
	}
}
