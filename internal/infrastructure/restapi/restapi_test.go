package restapi

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testCollection = "0xE881b8400268D2c77fa0411c5fC4C5B7b0407DcB"
	zeroAddress    = "0x0000000000000000000000000000000000000000"
)

var sepolia = entity.NetworkDefinition{
	ChainID:        11155111,
	Name:           "Sepolia",
	Identifier:     "sepolia",
	ShortName:      "sep",
	Chain:          "ETH",
	NativeCurrency: entity.NativeCurrency{Name: "Sepolia Ether", Symbol: "ETH", Decimals: 18},
	Testnet:        true,
}

type fakePages struct {
	pages  map[string]*entity.TokenPage
	tokens []entity.TokenMetadata
	err    error
}

func (f *fakePages) TokenPage(_ context.Context, tokenID string) (*entity.TokenPage, error) {
	_, canonical, err := entity.ParseTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[canonical]
	if !ok {
		return nil, entity.ErrTokenNotFound
	}
	return page, nil
}

func (f *fakePages) CollectionTokens(context.Context) ([]entity.TokenMetadata, error) {
	return f.tokens, f.err
}

func (f *fakePages) Prerender(context.Context) (int, error) { return 0, nil }

func testConfig() *config.Config {
	return &config.Config{
		Contracts:           config.ContractsConfig{NFTCollectionAddress: testCollection},
		AuthorizedAddresses: []string{"0xc548Ac07F05cE4F0E8f653203411C15F25309fEf"},
		ClaimEmbed: config.ClaimEmbedConfig{
			BaseURL:         "https://embed.ipfscdn.io/ipfs/bafybeigdie2yyiazou7grjowoevmuip6akk33nqb55vrpezqdwfssrxyfy/erc1155.html",
			ContractAddress: "0x6b5E74D41D44CbDF1bFB4bC641589f6bbF9c778f",
			ClientID:        "894316e634ed01ab3e26d9783d83a1c3",
			TokenID:         "0",
			Theme:           "dark",
			PrimaryColor:    "purple",
			RPCTemplate:     "https://%d.rpc.thirdweb.com/${THIRDWEB_API_KEY}",
			ChainIconURL:    "ipfs://QmcxZHpyJa8T4i63xqjPYrZ6tKrt55tZJpbXcjSDKuKaf9/ethereum/512.png",
			Height:          "750px",
		},
	}
}

func testPages() *fakePages {
	return &fakePages{
		tokens: []entity.TokenMetadata{{ID: "0", Name: "Sword"}, {ID: "1", Name: "Shield"}},
		pages: map[string]*entity.TokenPage{
			"1": {
				ContractAddress: testCollection,
				Token: entity.TokenMetadata{
					ID:         "1",
					Name:       "Shield",
					Attributes: []entity.Attribute{{TraitType: "Defense", Value: "7"}},
					Supply:     big.NewInt(3),
				},
				Collection: &entity.CollectionMetadata{Name: "Armory"},
				History: []entity.HistoryRow{
					{Kind: entity.EventTransfer, From: "0xABCDEF1234567890", To: "0x1234567890ABCDEF", Quantity: "1", TxURL: "https://sepolia.etherscan.io/tx/0xbeef"},
					{Kind: entity.EventMint, From: zeroAddress, To: "0xABCDEF1234567890", Quantity: "1", TxURL: "https://sepolia.etherscan.io/tx/0xcafe"},
				},
				GradientFrom: "#112233",
				GradientTo:   "#445566",
			},
		},
	}
}

func newTestRouter(t *testing.T, pages *fakePages) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := SetupRouter(pages, testConfig(), sepolia, zap.NewNop())
	require.NoError(t, err)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestTokenPageHandler(t *testing.T) {
	router := newTestRouter(t, testPages())

	t.Run("renders page", func(t *testing.T) {
		rec := get(router, "/token/0xe881b8400268d2c77fa0411c5fc4c5b7b0407dcb/1")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Shield")
		assert.Contains(t, body, "Armory")
		assert.Contains(t, body, "Defense")
		assert.Contains(t, body, "0xAB...90")
		assert.Contains(t, body, "0x12...EF")
		assert.Contains(t, body, "Mint")
		assert.Contains(t, body, "https://sepolia.etherscan.io/tx/0xbeef")
		assert.NotContains(t, body, "0xABCDEF1234567890")
		assert.Contains(t, body, "Token ID #1")
		assert.Regexp(t, `Total Supply</p>\s*<p>3</p>`, body)
		assert.Contains(t, body, `<a class="button" href="/claim">Claim this NFT</a>`)
	})

	t.Run("other contract", func(t *testing.T) {
		rec := get(router, "/token/0x0000000000000000000000000000000000000001/1")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non decimal id", func(t *testing.T) {
		rec := get(router, "/token/"+testCollection+"/abc")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := get(router, "/token/"+testCollection+"/42")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("load failure", func(t *testing.T) {
		pages := testPages()
		pages.err = errors.New("rpc down")
		rec := get(newTestRouter(t, pages), "/token/"+testCollection+"/1")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestBuyHandler(t *testing.T) {
	rec := get(newTestRouter(t, testPages()), "/buy")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, rec.Body.String())
}

func TestClaimHandler(t *testing.T) {
	rec := get(newTestRouter(t, testPages()), "/claim")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Claim Your NFT")
	assert.Contains(t, rec.Body.String(), "750px")
	assert.Contains(t, rec.Body.String(), "embed.ipfscdn.io")
}

func TestBuildClaimEmbedURL(t *testing.T) {
	got, err := BuildClaimEmbedURL(testConfig().ClaimEmbed, sepolia)
	require.NoError(t, err)

	want := "https://embed.ipfscdn.io/ipfs/bafybeigdie2yyiazou7grjowoevmuip6akk33nqb55vrpezqdwfssrxyfy/erc1155.html" +
		"?contract=0x6b5E74D41D44CbDF1bFB4bC641589f6bbF9c778f" +
		"&chain=%7B%22name%22%3A%22Sepolia%22%2C%22chain%22%3A%22ETH%22%2C%22rpc%22%3A%5B%22https%3A%2F%2F11155111.rpc.thirdweb.com%2F%24%7BTHIRDWEB_API_KEY%7D%22%5D" +
		"%2C%22nativeCurrency%22%3A%7B%22name%22%3A%22Sepolia+Ether%22%2C%22symbol%22%3A%22ETH%22%2C%22decimals%22%3A18%7D" +
		"%2C%22shortName%22%3A%22sep%22%2C%22chainId%22%3A11155111%2C%22testnet%22%3Atrue%2C%22slug%22%3A%22sepolia%22" +
		"%2C%22icon%22%3A%7B%22url%22%3A%22ipfs%3A%2F%2FQmcxZHpyJa8T4i63xqjPYrZ6tKrt55tZJpbXcjSDKuKaf9%2Fethereum%2F512.png%22%2C%22width%22%3A512%2C%22height%22%3A512%2C%22format%22%3A%22png%22%7D%7D" +
		"&clientId=894316e634ed01ab3e26d9783d83a1c3&tokenId=0&theme=dark&primaryColor=purple"
	assert.Equal(t, want, got)
}

func TestHomeHandler(t *testing.T) {
	rec := get(newTestRouter(t, testPages()), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/token/"+testCollection+"/1")
	assert.Contains(t, rec.Body.String(), "Sword")
}

func TestAPIHandlers(t *testing.T) {
	router := newTestRouter(t, testPages())

	t.Run("token", func(t *testing.T) {
		rec := get(router, "/api/v1/tokens/1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Shield"`)
		assert.NotContains(t, rec.Body.String(), "#112233")
	})

	t.Run("invalid token id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/tokens/-1").Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/tokens/9").Code)
	})

	t.Run("tokens", func(t *testing.T) {
		rec := get(router, "/api/v1/tokens")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Sword"`)
	})

	t.Run("authorized wallet", func(t *testing.T) {
		rec := get(router, "/api/v1/access/0xC548AC07F05CE4F0E8F653203411C15F25309FEF")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authorized":true`)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		rec := get(router, "/api/v1/access/0x81948B66C408887c7705B10542ceF3063aA0a4B8")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authorized":false`)
	})

	t.Run("invalid wallet", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/access/nope").Code)
	})
}

func TestInfrastructureRoutes(t *testing.T) {
	router := newTestRouter(t, testPages())

	rec := get(router, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = get(router, "/does/not/exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	router.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get(requestIDHeader))
}
