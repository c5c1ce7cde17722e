package client

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"
	"nft_marketplace/internal/pkg/metrics"
	"nft_marketplace/internal/pkg/utils"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	secretKeyHeader     = "x-secret-key"
	thirdwebRPCSuffix   = ".rpc.thirdweb.com"
	fallbackTokenName   = "Failed to load NFT metadata"
	idPlaceholder       = "{id}"
	maxEnumeratedTokens = 1 << 20
)

// chainBackend is the part of the node API the facade relies on.
type chainBackend interface {
	BatchCallContext(ctx context.Context, b []rpc.BatchElem) error
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

// ethBackend joins the typed client with its raw RPC client for batch calls.
type ethBackend struct {
	*ethclient.Client
	rpcClient *rpc.Client
}

func (b *ethBackend) BatchCallContext(ctx context.Context, elems []rpc.BatchElem) error {
	return b.rpcClient.BatchCallContext(ctx, elems)
}

// EVMClient implements port.ContractFacade for ERC-1155 collections on EVM-compatible chains.
type EVMClient struct {
	backend        chainBackend
	netDef         entity.NetworkDefinition
	metadata       port.MetadataFetcher
	limiter        *rate.Limiter
	rpcCallTimeout time.Duration
	batchSize      int
	logsBlockRange uint64
	deployBlock    uint64
	maxConcurrent  int
	logger         *zap.Logger
}

// NewEVMClient dials the network, trying the primary RPC URL and then the fallbacks.
func NewEVMClient(
	netDef entity.NetworkDefinition,
	cfg *config.Config,
	metadata port.MetadataFetcher,
	logger *zap.Logger,
) (*EVMClient, error) {
	initParsedCollectionABI()
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	connectionTimeout := time.Duration(cfg.RpcClient.ConnectTimeoutMs) * time.Millisecond
	var lastErr error

	for _, rpcURL := range rpcURLs {
		if rpcURL == "" {
			continue
		}
		backend, err := dialBackend(rpcURL, netDef.ChainID, cfg.SecretKey, connectionTimeout)
		if err == nil {
			return newEVMClientWithBackend(backend, netDef, cfg, metadata, logger), nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
		logger.Warn("RPC endpoint unavailable, trying next", zap.String("network", netDef.Name), zap.Error(lastErr))
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC URLs configured")
	}
	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

func dialBackend(rpcURL string, chainID uint64, secretKey string, timeout time.Duration) (*ethBackend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var options []rpc.ClientOption
	if secretKey != "" && strings.Contains(rpcURL, thirdwebRPCSuffix) {
		options = append(options, rpc.WithHeader(secretKeyHeader, secretKey))
	}
	rpcClient, err := rpc.DialOptions(ctx, rpcURL, options...)
	if err != nil {
		return nil, err
	}
	ethClient := ethclient.NewClient(rpcClient)

	currentChainID, err := ethClient.ChainID(ctx)
	if err != nil {
		ethClient.Close()
		return nil, fmt.Errorf("failed to verify chainID: %w", err)
	}
	if currentChainID.Uint64() != chainID {
		ethClient.Close()
		return nil, fmt.Errorf("chainID mismatch: expected %d, got %d", chainID, currentChainID.Uint64())
	}
	return &ethBackend{Client: ethClient, rpcClient: rpcClient}, nil
}

func newEVMClientWithBackend(
	backend chainBackend,
	netDef entity.NetworkDefinition,
	cfg *config.Config,
	metadata port.MetadataFetcher,
	logger *zap.Logger,
) *EVMClient {
	initParsedCollectionABI()
	var limiter *rate.Limiter
	if cfg.RpcClient.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RpcClient.RateLimit), max(cfg.RpcClient.BurstLimit, 1))
	}
	return &EVMClient{
		backend:        backend,
		netDef:         netDef,
		metadata:       metadata,
		limiter:        limiter,
		rpcCallTimeout: time.Duration(cfg.RpcClient.DefaultTimeoutMs) * time.Millisecond,
		batchSize:      max(cfg.RpcClient.BatchSize, 1),
		logsBlockRange: cfg.RpcClient.LogsBlockRange,
		deployBlock:    cfg.Contracts.DeployBlock,
		maxConcurrent:  max(cfg.RpcClient.MaxConcurrentRequests, 1),
		logger:         logger.Named("EVMClient").With(zap.String("network", netDef.Identifier)),
	}
}

// GetAllTokens implements port.ContractFacade.
func (c *EVMClient) GetAllTokens(ctx context.Context, collectionAddress string) (tokens []entity.TokenMetadata, err error) {
	defer c.observe("GetAllTokens", time.Now(), &err)

	collection, err := parseAddress(collectionAddress)
	if err != nil {
		return nil, err
	}
	count, err := c.nextTokenIDToMint(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !count.IsInt64() || count.Int64() > maxEnumeratedTokens {
		return nil, fmt.Errorf("collection %s reports %s tokens, refusing to enumerate", collectionAddress, count)
	}

	ids := make([]*big.Int, count.Int64())
	for i := range ids {
		ids[i] = big.NewInt(int64(i))
	}
	c.logger.Debug("Enumerating collection", zap.String("collection", collectionAddress), zap.Int("tokens", len(ids)))

	tokens = make([]entity.TokenMetadata, 0, len(ids))
	for _, batch := range utils.Batch(ids, c.batchSize) {
		raw, err := c.readTokens(ctx, collection, batch)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, raw...)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)
	for i := range tokens {
		i := i
		g.Go(func() error {
			c.resolveMetadata(gCtx, &tokens[i])
			return nil
		})
	}
	_ = g.Wait()

	return tokens, nil
}

// GetToken implements port.ContractFacade.
func (c *EVMClient) GetToken(ctx context.Context, collectionAddress string, tokenID string) (token *entity.TokenMetadata, err error) {
	defer c.observe("GetToken", time.Now(), &err)

	collection, err := parseAddress(collectionAddress)
	if err != nil {
		return nil, err
	}
	id, _, err := entity.ParseTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	count, err := c.nextTokenIDToMint(ctx, collection)
	if err != nil {
		return nil, err
	}
	if id.Cmp(count) >= 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrTokenNotFound, id)
	}

	raw, err := c.readTokens(ctx, collection, []*big.Int{id})
	if err != nil {
		return nil, err
	}
	result := raw[0]
	c.resolveMetadata(ctx, &result)
	return &result, nil
}

// GetCollectionMetadata implements port.ContractFacade.
func (c *EVMClient) GetCollectionMetadata(ctx context.Context, collectionAddress string) (collection *entity.CollectionMetadata, err error) {
	defer c.observe("GetCollectionMetadata", time.Now(), &err)

	address, err := parseAddress(collectionAddress)
	if err != nil {
		return nil, err
	}
	out, err := c.call(ctx, address, methodContractURI)
	if err != nil {
		return nil, err
	}
	uri, _ := out[0].(string)
	if strings.TrimSpace(uri) == "" {
		return nil, entity.ErrCollectionMetadataUnset
	}
	collection, err = c.metadata.FetchCollectionMetadata(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection metadata: %w", err)
	}
	return collection, nil
}

// QueryTransferEvents implements port.ContractFacade. The id of TransferSingle is not indexed,
// so logs of the whole collection are fetched and filtered here.
func (c *EVMClient) QueryTransferEvents(
	ctx context.Context,
	collectionAddress string,
	tokenID string,
	order entity.EventOrder,
) (events []entity.TransferEvent, err error) {
	defer c.observe("QueryTransferEvents", time.Now(), &err)

	collection, err := parseAddress(collectionAddress)
	if err != nil {
		return nil, err
	}
	id, _, err := entity.ParseTokenID(tokenID)
	if err != nil {
		return nil, err
	}

	logs, err := c.filterTransferLogs(ctx, collection)
	if err != nil {
		return nil, err
	}

	transferEvent := parsedCollectionABI.Events[eventTransferSingle]
	events = make([]entity.TransferEvent, 0)
	for _, lg := range logs {
		if lg.Removed || len(lg.Topics) != 4 || lg.Topics[0] != transferEvent.ID {
			continue
		}
		values, err := transferEvent.Inputs.NonIndexed().Unpack(lg.Data)
		if err != nil || len(values) != 2 {
			c.logger.Warn("Skipping undecodable TransferSingle log", zap.String("tx", lg.TxHash.Hex()), zap.Error(err))
			continue
		}
		logID, _ := values[0].(*big.Int)
		value, _ := values[1].(*big.Int)
		if logID == nil || logID.Cmp(id) != 0 {
			continue
		}
		events = append(events, entity.TransferEvent{
			Operator:    common.BytesToAddress(lg.Topics[1].Bytes()).Hex(),
			From:        common.BytesToAddress(lg.Topics[2].Bytes()).Hex(),
			To:          common.BytesToAddress(lg.Topics[3].Bytes()).Hex(),
			TokenID:     logID,
			Value:       value,
			TxHash:      lg.TxHash.Hex(),
			BlockNumber: lg.BlockNumber,
			LogIndex:    lg.Index,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber < events[j].BlockNumber
		}
		return events[i].LogIndex < events[j].LogIndex
	})
	if order == entity.OrderDescending {
		for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
			events[i], events[j] = events[j], events[i]
		}
	}
	return events, nil
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the RPC connection.
func (c *EVMClient) Close() {
	c.backend.Close()
}

func (c *EVMClient) filterTransferLogs(ctx context.Context, collection common.Address) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{collection},
		Topics:    [][]common.Hash{{parsedCollectionABI.Events[eventTransferSingle].ID}},
		FromBlock: new(big.Int).SetUint64(c.deployBlock),
	}

	if c.logsBlockRange == 0 {
		return c.filterLogs(ctx, query)
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	head, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get block number: %w", err)
	}

	var logs []types.Log
	for start := c.deployBlock; start <= head; start += c.logsBlockRange {
		end := min(start+c.logsBlockRange-1, head)
		query.FromBlock = new(big.Int).SetUint64(start)
		query.ToBlock = new(big.Int).SetUint64(end)
		window, err := c.filterLogs(ctx, query)
		if err != nil {
			return nil, err
		}
		logs = append(logs, window...)
	}
	return logs, nil
}

func (c *EVMClient) filterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	logs, err := c.backend.FilterLogs(callCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to filter TransferSingle logs from block %s: %w", query.FromBlock, err)
	}
	return logs, nil
}

// readTokens fetches uri and totalSupply of every id in one JSON-RPC batch.
func (c *EVMClient) readTokens(ctx context.Context, collection common.Address, ids []*big.Int) ([]entity.TokenMetadata, error) {
	batchElems := make([]rpc.BatchElem, 0, len(ids)*2)
	for _, id := range ids {
		for _, method := range []string{methodURI, methodTotalSupply} {
			callData, err := parsedCollectionABI.Pack(method, id)
			if err != nil {
				return nil, fmt.Errorf("failed to pack %s(%s): %w", method, id, err)
			}
			callArgs := map[string]interface{}{
				"to":   collection,
				"data": hexutil.Bytes(callData),
			}
			batchElems = append(batchElems, rpc.BatchElem{
				Method: "eth_call",
				Args:   []interface{}{callArgs, "latest"},
				Result: new(hexutil.Bytes),
			})
		}
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.backend.BatchCallContext(rpcCallCtx, batchElems); err != nil {
		return nil, fmt.Errorf("RPC batch call failed: %w", err)
	}

	tokens := make([]entity.TokenMetadata, len(ids))
	for i, id := range ids {
		uriOut, err := unpackBatchElem(batchElems[2*i], methodURI)
		if err != nil {
			return nil, fmt.Errorf("failed to read uri of token %s: %w", id, err)
		}
		supplyOut, err := unpackBatchElem(batchElems[2*i+1], methodTotalSupply)
		if err != nil {
			return nil, fmt.Errorf("failed to read totalSupply of token %s: %w", id, err)
		}
		uri, _ := uriOut[0].(string)
		supply, _ := supplyOut[0].(*big.Int)
		if supply == nil {
			supply = big.NewInt(0)
		}
		tokens[i] = entity.TokenMetadata{
			ID:         id.String(),
			URI:        uri,
			Attributes: []entity.Attribute{},
			Supply:     supply,
		}
	}
	return tokens, nil
}

func unpackBatchElem(elem rpc.BatchElem, method string) ([]interface{}, error) {
	if elem.Error != nil {
		return nil, elem.Error
	}
	result, ok := elem.Result.(*hexutil.Bytes)
	if !ok || result == nil || len(*result) == 0 {
		return nil, fmt.Errorf("empty %s result", method)
	}
	out, err := parsedCollectionABI.Unpack(method, *result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w. Raw: %s", method, err, hexutil.Encode(*result))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s unpack returned no data", method)
	}
	return out, nil
}

// resolveMetadata fills the off-chain fields of token. Unreachable metadata leaves a placeholder name.
func (c *EVMClient) resolveMetadata(ctx context.Context, token *entity.TokenMetadata) {
	rawURI := token.URI
	if strings.TrimSpace(rawURI) == "" {
		token.Name = fallbackTokenName
		return
	}
	id, _ := new(big.Int).SetString(token.ID, 10)

	candidates := []string{utils.SubstituteTokenID(rawURI, id)}
	if strings.Contains(rawURI, idPlaceholder) {
		candidates = append(candidates, utils.SubstituteDecimalTokenID(rawURI, id))
	}
	token.URI = candidates[0]

	var lastErr error
	for _, uri := range candidates {
		doc, err := c.metadata.FetchTokenMetadata(ctx, uri)
		if err != nil {
			lastErr = err
			continue
		}
		token.URI = uri
		token.Name = doc.Name
		token.Description = doc.Description
		token.Image = doc.Image
		token.Attributes = doc.Attributes
		return
	}

	c.logger.Warn("Failed to load token metadata",
		zap.String("tokenId", token.ID),
		zap.String("uri", rawURI),
		zap.Error(lastErr))
	token.Name = fallbackTokenName
}

func (c *EVMClient) nextTokenIDToMint(ctx context.Context, collection common.Address) (*big.Int, error) {
	out, err := c.call(ctx, collection, methodNextTokenIDToMint)
	if err != nil {
		return nil, err
	}
	count, ok := out[0].(*big.Int)
	if !ok || count == nil {
		return nil, fmt.Errorf("failed to assert nextTokenIdToMint result to *big.Int. Got: %T", out[0])
	}
	return count, nil
}

func (c *EVMClient) call(ctx context.Context, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	callData, err := parsedCollectionABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	result, err := c.backend.CallContract(callCtx, ethereum.CallMsg{To: &contract, Data: callData}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	out, err := parsedCollectionABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s unpack returned no data", method)
	}
	return out, nil
}

func (c *EVMClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rpc rate limiter: %w", err)
	}
	return nil
}

func (c *EVMClient) observe(method string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	metrics.ContractCalls.WithLabelValues(method, metrics.Result(err)).Inc()
	metrics.ContractCallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func parseAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid contract address %q", address)
	}
	return common.HexToAddress(address), nil
}

var _ port.ContractFacade = (*EVMClient)(nil)
