package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/app/service"
	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"
	"nft_marketplace/internal/infrastructure/httpclient"
	"nft_marketplace/internal/infrastructure/network/client"
	networkdefinition "nft_marketplace/internal/infrastructure/network/definition"
	"nft_marketplace/internal/pkg/logger"
	"nft_marketplace/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// application holds the wired dependencies shared by the commands.
type application struct {
	cfg     *config.Config
	logger  *zap.Logger
	network entity.NetworkDefinition
	facades port.ContractFacadeProvider
	pages   *service.TokenPageServiceImpl
}

func bootstrap(ctx context.Context, opts *rootOptions) (*application, error) {
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", opts.envFile, err)
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.NewZapLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	logger.InitZap(zapLogger)
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	networkProvider := networkdefinition.NewNetworkDefinitionProvider(logger.NewSlogAdapter("NetworkDefinitionProvider"), cfg.Network)
	netDef, err := networkProvider.Resolve(cfg.Network.Identifier)
	if err != nil {
		return nil, err
	}
	if cfg.SecretKey == "" {
		zapLogger.Warn("No secret key configured, RPC and IPFS gateway requests are unauthenticated", zap.String("env", config.SecretKeyEnv))
	}

	metadataClient := httpclient.NewMetadataClient(cfg.Metadata, cfg.SecretKey, zapLogger)
	facades := client.NewEVMClientProvider(cfg, metadataClient, zapLogger)
	facade, err := facades.GetFacade(ctx, netDef)
	if err != nil {
		return nil, err
	}

	return &application{
		cfg:     cfg,
		logger:  zapLogger,
		network: netDef,
		facades: facades,
		pages:   service.NewTokenPageService(facade, cfg, netDef, logger.NewSlogAdapter("TokenPageService")),
	}, nil
}

func (a *application) Close() {
	a.facades.Close()
	_ = a.logger.Sync()
}
