package httpclient

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"nft_marketplace/internal/config"
	"nft_marketplace/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(gatewayURL, secret string) *metadataClientImpl {
	return NewMetadataClient(config.MetadataConfig{
		IPFSGatewayURL:       gatewayURL,
		RequestTimeoutMillis: 2000,
	}, secret, zap.NewNop()).(*metadataClientImpl)
}

func TestFetchTokenMetadata_ArrayAttributes(t *testing.T) {
	var gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("x-secret-key")
		assert.Equal(t, "/ipfs/QmHash/1.json", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"name": "Sword",
			"description": "Sharp",
			"image": "ipfs://QmImage/sword.png",
			"attributes": [
				{"trait_type": "Damage", "value": 12},
				{"trait_type": "Rarity", "value": "rare"}
			]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/ipfs", "s3cret")
	token, err := c.FetchTokenMetadata(context.Background(), "ipfs://QmHash/1.json")
	require.NoError(t, err)

	assert.Equal(t, "s3cret", gotSecret)
	assert.Equal(t, "Sword", token.Name)
	assert.Equal(t, "Sharp", token.Description)
	assert.Equal(t, srv.URL+"/ipfs/QmImage/sword.png", token.Image)
	assert.Equal(t, []entity.Attribute{
		{TraitType: "Damage", Value: "12"},
		{TraitType: "Rarity", Value: "rare"},
	}, token.Attributes)
}

func TestFetchTokenMetadata_ObjectAttributesKeepOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("x-secret-key"))
		_, _ = w.Write([]byte(`{"name":"Shield","image_url":"https://img/shield.png","properties":{"zeta":"z","alpha":true,"mid":null}}`))
	}))
	defer srv.Close()

	c := newTestClient("https://gateway.example/ipfs", "s3cret")
	token, err := c.FetchTokenMetadata(context.Background(), srv.URL+"/2.json")
	require.NoError(t, err)

	assert.Equal(t, "https://img/shield.png", token.Image)
	assert.Equal(t, []entity.Attribute{
		{TraitType: "zeta", Value: "z"},
		{TraitType: "alpha", Value: "true"},
		{TraitType: "mid", Value: ""},
	}, token.Attributes)
}

func TestFetchTokenMetadata_DataURI(t *testing.T) {
	doc := `{"name":"OnChain","attributes":[]}`
	uri := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(doc))

	c := newTestClient("https://gateway.example/ipfs", "")
	token, err := c.FetchTokenMetadata(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, "OnChain", token.Name)
	assert.Empty(t, token.Attributes)
}

func TestFetchTokenMetadata_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient("", "")
	_, err := c.FetchTokenMetadata(context.Background(), srv.URL+"/missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchCollectionMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Armory","description":"Weapons","image":"https://img/armory.png"}`))
	}))
	defer srv.Close()

	c := newTestClient("", "")
	collection, err := c.FetchCollectionMetadata(context.Background(), srv.URL+"/contract.json")
	require.NoError(t, err)
	assert.Equal(t, &entity.CollectionMetadata{
		Name:        "Armory",
		Description: "Weapons",
		Image:       "https://img/armory.png",
	}, collection)
}

func TestParseAttributes_Invalid(t *testing.T) {
	_, err := parseAttributes([]byte(`"just a string"`))
	require.Error(t, err)

	attrs, err := parseAttributes([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, attrs)
}
