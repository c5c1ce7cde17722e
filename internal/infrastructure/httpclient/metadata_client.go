package httpclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"
	"nft_marketplace/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	dataURIPrefix   = "data:"
	secretKeyHeader = "x-secret-key"
)

// metadataDocument is the subset of the ERC-1155 / contract metadata JSON schema the pages display.
type metadataDocument struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	ImageURL    string              `json:"image_url"`
	Attributes  jsoniter.RawMessage `json:"attributes"`
	Properties  jsoniter.RawMessage `json:"properties"`
}

// metadataClientImpl fetches metadata documents over HTTP(S), IPFS gateways and data: URIs.
type metadataClientImpl struct {
	client     *fasthttp.Client
	gatewayURL string
	secretKey  string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewMetadataClient creates a metadata fetcher. secretKey is sent only to the configured IPFS gateway.
func NewMetadataClient(cfg config.MetadataConfig, secretKey string, logger *zap.Logger) port.MetadataFetcher {
	return &metadataClientImpl{
		client:     &fasthttp.Client{},
		gatewayURL: strings.TrimRight(cfg.IPFSGatewayURL, "/"),
		secretKey:  secretKey,
		timeout:    time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		logger:     logger.Named("MetadataClient"),
	}
}

// FetchTokenMetadata implements port.MetadataFetcher.
func (c *metadataClientImpl) FetchTokenMetadata(ctx context.Context, uri string) (*entity.TokenMetadata, error) {
	doc, err := c.fetchDocument(ctx, uri)
	if err != nil {
		return nil, err
	}

	rawAttributes := doc.Attributes
	if isEmptyJSON(rawAttributes) {
		rawAttributes = doc.Properties
	}
	attributes, err := parseAttributes(rawAttributes)
	if err != nil {
		c.logger.Warn("Ignoring malformed attributes", zap.String("uri", uri), zap.Error(err))
		attributes = []entity.Attribute{}
	}

	image := doc.Image
	if image == "" {
		image = doc.ImageURL
	}

	return &entity.TokenMetadata{
		URI:         uri,
		Name:        doc.Name,
		Description: doc.Description,
		Image:       utils.ResolveIPFS(image, c.gatewayURL),
		Attributes:  attributes,
	}, nil
}

// FetchCollectionMetadata implements port.MetadataFetcher.
func (c *metadataClientImpl) FetchCollectionMetadata(ctx context.Context, uri string) (*entity.CollectionMetadata, error) {
	doc, err := c.fetchDocument(ctx, uri)
	if err != nil {
		return nil, err
	}
	image := doc.Image
	if image == "" {
		image = doc.ImageURL
	}
	return &entity.CollectionMetadata{
		Name:        doc.Name,
		Description: doc.Description,
		Image:       utils.ResolveIPFS(image, c.gatewayURL),
	}, nil
}

func (c *metadataClientImpl) fetchDocument(ctx context.Context, uri string) (*metadataDocument, error) {
	rawBody, err := c.fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	var doc metadataDocument
	if err := json.Unmarshal(rawBody, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata from %s: %w", uri, err)
	}
	return &doc, nil
}

func (c *metadataClientImpl) fetch(ctx context.Context, uri string) ([]byte, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("empty metadata uri")
	}
	if strings.HasPrefix(uri, dataURIPrefix) {
		return decodeDataURI(uri)
	}

	requestURL := utils.ResolveIPFS(uri, c.gatewayURL)
	c.logger.Debug("Requesting metadata", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.secretKey != "" && c.gatewayURL != "" && strings.HasPrefix(requestURL, c.gatewayURL+"/") {
		req.Header.Set(secretKeyHeader, c.secretKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn("Metadata request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()))
		return nil, fmt.Errorf("metadata request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	// resp is released on return, the body must be copied.
	return append([]byte(nil), resp.Body()...), nil
}

// decodeDataURI supports the base64 and percent-encoded JSON forms of on-chain metadata.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, dataURIPrefix), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}
	if strings.HasSuffix(header, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 data uri: %w", err)
		}
		return decoded, nil
	}
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to unescape data uri: %w", err)
	}
	return []byte(decoded), nil
}

// parseAttributes accepts an array of {trait_type, value} objects or a plain object,
// and returns the pairs in document order.
func parseAttributes(raw []byte) ([]entity.Attribute, error) {
	attributes := []entity.Attribute{}
	if isEmptyJSON(raw) {
		return attributes, nil
	}

	iter := jsoniter.ParseBytes(json, raw)
	switch iter.WhatIsNext() {
	case jsoniter.ArrayValue:
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			if it.WhatIsNext() != jsoniter.ObjectValue {
				attributes = append(attributes, entity.Attribute{Value: rawText(it.SkipAndReturnBytes())})
				return true
			}
			var item struct {
				TraitType jsoniter.RawMessage `json:"trait_type"`
				Value     jsoniter.RawMessage `json:"value"`
			}
			it.ReadVal(&item)
			attributes = append(attributes, entity.Attribute{
				TraitType: rawText(item.TraitType),
				Value:     rawText(item.Value),
			})
			return true
		})
	case jsoniter.ObjectValue:
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			attributes = append(attributes, entity.Attribute{
				TraitType: key,
				Value:     rawText(it.SkipAndReturnBytes()),
			})
			return true
		})
	default:
		return nil, fmt.Errorf("unsupported attributes type")
	}

	if iter.Error != nil && iter.Error != io.EOF {
		return nil, fmt.Errorf("failed to parse attributes: %w", iter.Error)
	}
	return attributes, nil
}

// rawText renders a JSON value for display: strings are unquoted, other values keep their JSON text.
func rawText(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if isEmptyJSON(raw) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func isEmptyJSON(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
