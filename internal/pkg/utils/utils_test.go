package utils

import (
	"math/big"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateAddress(t *testing.T) {
	testcases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "short hex", input: "0xABCDEF1234567890", expected: "0xAB...90"},
		{name: "full address", input: "0xc548Ac07F05cE4F0E8f653203411C15F25309fEf", expected: "0xc5...Ef"},
		{name: "too short to shorten", input: "0xABCD", expected: "0xABCD"},
		{name: "seven chars", input: "0xABCDE", expected: "0xAB...DE"},
		{name: "empty", input: "", expected: ""},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TruncateAddress(tc.input))
			// deterministic for the same input
			assert.Equal(t, TruncateAddress(tc.input), TruncateAddress(tc.input))
		})
	}
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress("0xE881b8400268D2c77fa0411c5fC4C5B7b0407DcB", "0xe881b8400268d2c77fa0411c5fc4c5b7b0407dcb"))
	assert.False(t, SameAddress("0xE881b8400268D2c77fa0411c5fC4C5B7b0407DcB", "0xD8Fb95821C95241008acb3460C8966a9ca3cC652"))
}

func TestFormatBigInt(t *testing.T) {
	assert.Equal(t, "0", FormatBigInt(nil))
	assert.Equal(t, "25", FormatBigInt(big.NewInt(25)))
	big1e30, _ := new(big.Int).SetString("1000000000000000000000000000000", 10)
	assert.Equal(t, "1000000000000000000000000000000", FormatBigInt(big1e30))
}

func TestTxURL(t *testing.T) {
	assert.Equal(t, "https://sepolia.etherscan.io/tx/0xabc", TxURL("https://sepolia.etherscan.io", "0xabc"))
	assert.Equal(t, "https://sepolia.etherscan.io/tx/0xabc", TxURL("https://sepolia.etherscan.io/", "0xabc"))
}

func TestResolveIPFS(t *testing.T) {
	gateway := "https://ipfs.io/ipfs"
	assert.Equal(t, "https://ipfs.io/ipfs/QmHash/0", ResolveIPFS("ipfs://QmHash/0", gateway))
	assert.Equal(t, "https://ipfs.io/ipfs/QmHash/0", ResolveIPFS("ipfs://ipfs/QmHash/0", gateway+"/"))
	assert.Equal(t, "https://example.com/0.json", ResolveIPFS("https://example.com/0.json", gateway))
	assert.Equal(t, "ipfs://QmHash/0", ResolveIPFS("ipfs://QmHash/0", ""))
}

func TestSubstituteTokenID(t *testing.T) {
	id := big.NewInt(314592)
	assert.Equal(t,
		"https://token-cdn-domain/000000000000000000000000000000000000000000000000000000000004cce0.json",
		SubstituteTokenID("https://token-cdn-domain/{id}.json", id))
	assert.Equal(t, "ipfs://QmHash/314592", SubstituteDecimalTokenID("ipfs://QmHash/{id}", id))
	assert.Equal(t, "ipfs://QmHash/7", SubstituteTokenID("ipfs://QmHash/7", big.NewInt(7)))
}

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]int{}, Batch([]int{}, 3))
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2, 3}}, Batch([]int{1, 2, 3}, 0))
}

func TestRandomColor(t *testing.T) {
	pattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, RandomColor())
	}
}
